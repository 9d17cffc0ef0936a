package providers

import (
	"os"

	"github.com/pkg/errors"

	"github.com/km-arc/go-container/framework/container"
	gohttp "github.com/km-arc/go-container/framework/http"
	"github.com/km-arc/go-container/framework/routing"
)

// RouterClass is the class name the router is registered under.
const RouterClass = "Router"

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider fills the container's config store from dotenv and
// YAML files. APP_PORT in a .env file becomes the config key "app.port".
//
// Files are read in order; later files win.
type ConfigServiceProvider struct {
	container.BaseProvider
	EnvFiles  []string // default: .env (skipped when missing)
	YAMLFiles []string
}

func (p *ConfigServiceProvider) Register(c *container.Container) error {
	repo := c.Config()
	if err := repo.LoadEnv(p.EnvFiles...); err != nil {
		return err
	}
	for _, f := range p.YAMLFiles {
		if err := repo.LoadYAML(f); err != nil {
			return err
		}
	}
	c.Logger().WithField("keys", len(repo.Keys())).Debug("providers: config loaded")
	return nil
}

// ── DefinitionsServiceProvider ────────────────────────────────────────────────

// DefinitionsServiceProvider loads service definitions files. A file may
// also carry a config section.
//
//	config:
//	  greeting: Hello
//	services:
//	  mailer: {class: Mailer, params: [":greeting"]}
type DefinitionsServiceProvider struct {
	container.BaseProvider
	Files []string
}

func (p *DefinitionsServiceProvider) Register(c *container.Container) error {
	for _, name := range p.Files {
		if err := loadFile(c, name); err != nil {
			return err
		}
	}
	return nil
}

func loadFile(c *container.Container, name string) error {
	f, err := os.Open(name)
	if err != nil {
		return errors.Wrapf(err, "providers: opening %s", name)
	}
	defer f.Close()
	return errors.Wrapf(c.LoadYAML(f), "providers: loading %s", name)
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router class and the shared
// "router" service built from it.
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(c *container.Container) error {
	log := c.Logger()
	c.Types().Register(RouterClass, func(...any) (any, error) {
		return routing.New(log), nil
	})
	return c.Define("router", RouterClass).Shared().Err()
}

// ── InspectionServiceProvider ─────────────────────────────────────────────────

// InspectionServiceProvider mounts the read-only container inspector on the
// shared router during Boot.
type InspectionServiceProvider struct {
	container.BaseProvider
	Prefix string // default: /_container
}

func (p *InspectionServiceProvider) Register(_ *container.Container) error { return nil }

func (p *InspectionServiceProvider) Boot(c *container.Container) error {
	router, err := container.Resolve[*routing.Router](c, "router")
	if err != nil {
		return errors.Wrap(err, "providers: inspector needs the router")
	}
	prefix := p.Prefix
	if prefix == "" {
		prefix = "/_container"
	}
	gohttp.NewInspector(c).Mount(router, prefix)
	return nil
}
