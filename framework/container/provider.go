package container

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups related registrations.
//
// Register declares definitions, classes and config values. Boot runs after
// every provider has been registered, so it may build services.
//
//	type MailProvider struct{ container.BaseProvider }
//
//	func (p *MailProvider) Register(c *container.Container) error {
//	    if err := c.Types().RegisterFunc("Mailer", NewMailer); err != nil {
//	        return err
//	    }
//	    return c.Define("mailer", "Mailer").Params(":mail.from").Err()
//	}
type ServiceProvider interface {
	Register(c *Container) error
	Boot(c *Container) error
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable no-op Boot.
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container) error { return nil }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry registers and boots providers against one container.
type ProviderRegistry struct {
	container  *Container
	providers  []ServiceProvider
	registered map[ServiceProvider]bool
	booted     bool
}

// NewProviderRegistry creates a registry bound to c.
func NewProviderRegistry(c *Container) *ProviderRegistry {
	return &ProviderRegistry{
		container:  c,
		registered: make(map[ServiceProvider]bool),
	}
}

// Register calls provider.Register. Registering the same provider twice is a
// no-op. A provider registered after Boot is booted immediately.
func (r *ProviderRegistry) Register(provider ServiceProvider) error {
	if r.registered[provider] {
		return nil
	}
	if err := provider.Register(r.container); err != nil {
		return err
	}
	r.registered[provider] = true
	r.providers = append(r.providers, provider)

	if r.booted {
		return provider.Boot(r.container)
	}
	return nil
}

// Boot calls Boot on every registered provider, in registration order. Only
// the first call does anything.
func (r *ProviderRegistry) Boot() error {
	if r.booted {
		return nil
	}
	r.booted = true
	for _, provider := range r.providers {
		if err := provider.Boot(r.container); err != nil {
			return err
		}
	}
	return nil
}

// Booted returns true if Boot has been called.
func (r *ProviderRegistry) Booted() bool { return r.booted }

// Providers returns the registered providers.
func (r *ProviderRegistry) Providers() []ServiceProvider { return r.providers }
