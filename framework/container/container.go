package container

import (
	"github.com/pkg/errors"
	metrics "github.com/rcrowley/go-metrics"
	"github.com/sirupsen/logrus"

	"github.com/km-arc/go-container/framework/config"
)

// ── Container ─────────────────────────────────────────────────────────────────

// Container is the public entry point. It owns the definition registry, the
// config store and the instance cache, and hands them to the builder for
// the duration of each build.
//
//	c := container.New()
//	c.Types().RegisterFunc("Mailer", NewMailer)
//	c.SetConfig("greeting", "Hello")
//	c.Register("mailer", "Mailer")
//	c.SetParams("mailer", ":greeting")
//	mailer, err := container.Resolve[*Mailer](c, "mailer")
type Container struct {
	registry *Registry
	config   *config.Repository
	types    *Types
	cache    *instanceCache
	builder  *builder
	metrics  *buildMetrics
	log      logrus.FieldLogger

	metricsRegistry metrics.Registry
	maxDepth        int
	sharedTokens    bool
}

// New creates an empty container.
func New(opts ...Option) *Container {
	c := &Container{
		registry: NewRegistry(),
		cache:    newInstanceCache(),
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.config == nil {
		c.config = config.New(nil)
	}
	if c.types == nil {
		c.types = NewTypes()
	}
	c.metrics = newBuildMetrics(c.metricsRegistry)

	r := &resolver{config: c.config}
	c.builder = &builder{
		registry: c.registry,
		types:    c.types,
		resolver: r,
		metrics:  c.metrics,
		log:      c.log,
		maxDepth: c.maxDepth,
	}
	if c.sharedTokens {
		r.service = c.instance
	} else {
		r.service = c.builder.build
	}
	return c
}

// NewWithDefinitions creates a container preloaded with configs and
// services. Either both or neither must be given; supplying exactly one
// fails with ErrInvalidBulkInit.
func NewWithDefinitions(configs map[string]any, services map[string]DefinitionRecord, opts ...Option) (*Container, error) {
	if (configs == nil) != (services == nil) {
		return nil, ErrInvalidBulkInit
	}
	c := New(opts...)
	if configs != nil {
		c.LoadConfigs(configs)
		if err := c.LoadServices(services); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ── Registration ──────────────────────────────────────────────────────────────

// Register creates or fully replaces the definition for id.
//
//	c.Register("email", "Email")
func (c *Container) Register(id, class string) {
	c.registry.Register(id, class)
	c.log.WithFields(logrus.Fields{"service": id, "class": class}).Debug("container: registered service")
}

// Exists reports whether id was registered.
func (c *Container) Exists(id string) bool { return c.registry.Exists(id) }

// SetParams declares the constructor arguments of id.
//
//	c.SetParams("mailer", ":greeting", "::logger", 42)
func (c *Container) SetParams(id string, params ...any) error {
	return c.registry.SetParams(id, params...)
}

// SetFactory builds id through the type-level method class::method.
//
//	c.SetFactory("mailer", "MailerFactory", "Create", ":smtp.host")
func (c *Container) SetFactory(id, class, method string, params ...any) error {
	return c.registry.SetFactory(id, class, method, params...)
}

// AddCall declares a method invoked on every new instance of id. Adding a
// method a second time replaces its arguments.
//
//	c.AddCall("mailer", "SetLogger", "::logger")
func (c *Container) AddCall(id, method string, params ...any) error {
	return c.registry.AddCall(id, method, params...)
}

// SetShared toggles the singleton lifetime of id.
func (c *Container) SetShared(id string, shared bool) error {
	return c.registry.SetShared(id, shared)
}

// SetProtected hides id from GetService. Protected services can still be
// referenced by service tokens.
func (c *Container) SetProtected(id string, protected bool) error {
	return c.registry.SetProtected(id, protected)
}

// Define starts a fluent definition for id.
func (c *Container) Define(id, class string) *DefinitionBuilder {
	c.Register(id, class)
	return &DefinitionBuilder{container: c, id: id}
}

// ── Config ────────────────────────────────────────────────────────────────────

// SetConfig stores a config value.
func (c *Container) SetConfig(key string, value any) { c.config.Set(key, value) }

// HasConfig reports whether key was set.
func (c *Container) HasConfig(key string) bool { return c.config.Has(key) }

// GetConfig returns the value for key or an *UnknownConfigKeyError.
func (c *Container) GetConfig(key string) (any, error) { return c.config.Get(key) }

// LoadConfigs replaces the whole config store with configs.
func (c *Container) LoadConfigs(configs map[string]any) { c.config.Replace(configs) }

// ── Resolution ────────────────────────────────────────────────────────────────

// GetService returns the instance for id.
//
//   - protected: ErrProtectedAccessDenied, nothing is built
//   - shared:    built on first access, then the same instance every time
//   - otherwise: a new instance on every call
func (c *Container) GetService(id string) (any, error) {
	def, err := c.registry.Definition(id)
	if err != nil {
		return nil, err
	}
	if def.Protected {
		c.log.WithField("service", id).Warn("container: access to protected service denied")
		return nil, ErrProtectedAccessDenied
	}
	if def.Shared {
		return c.cache.getOrBuild(id, func() (any, error) {
			return c.builder.build(id, nil)
		})
	}
	return c.builder.build(id, nil)
}

// Build always constructs a new instance of id, ignoring protection and
// the instance cache. It is the path service tokens take.
func (c *Container) Build(id string) (any, error) {
	return c.builder.build(id, nil)
}

// instance satisfies service tokens when shared tokens are enabled.
func (c *Container) instance(id string, path buildPath) (any, error) {
	def, err := c.registry.Definition(id)
	if err != nil {
		return nil, err
	}
	if !def.Shared {
		return c.builder.build(id, path)
	}
	if path.contains(id) {
		return nil, &UnresolvedTokenCycleError{Path: path.push(id)}
	}
	return c.cache.getOrBuild(id, func() (any, error) {
		return c.builder.build(id, path)
	})
}

// ResolveValue substitutes tokens in v the way constructor arguments are
// resolved: ":key" becomes a config value, "::id" a new instance of id,
// and slices and string-keyed maps are walked recursively.
//
//	v, _ := c.ResolveValue(map[string]any{"a": ":greeting"}) // map[a:Hello]
func (c *Container) ResolveValue(v any) (any, error) {
	return c.builder.resolver.resolveArg(ParseArg(v), nil)
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// Resolved reports whether the shared instance of id has been built.
func (c *Container) Resolved(id string) bool { return c.cache.has(id) }

// Services returns the registered ids, sorted.
func (c *Container) Services() []string { return c.registry.IDs() }

// Definition returns a copy of the definition for id.
func (c *Container) Definition(id string) (Definition, error) { return c.registry.Definition(id) }

// Stats returns build metrics for id.
func (c *Container) Stats(id string) BuildStats { return c.metrics.stats(id) }

// Registry exposes the definition registry.
func (c *Container) Registry() *Registry { return c.registry }

// Types exposes the class registry.
func (c *Container) Types() *Types { return c.types }

// Config exposes the config store.
func (c *Container) Config() *config.Repository { return c.config }

// Logger returns the container's logger.
func (c *Container) Logger() logrus.FieldLogger { return c.log }

// ── Generics helper ───────────────────────────────────────────────────────────

// Resolve calls GetService and type-asserts the result.
//
//	mailer, err := container.Resolve[*Mailer](c, "mailer")
func Resolve[T any](c *Container, id string) (T, error) {
	var zero T
	instance, err := c.GetService(id)
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, errors.Errorf("container: Resolve[%T]: [%s] resolved to %T", zero, id, instance)
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on error.
func MustResolve[T any](c *Container, id string) T {
	typed, err := Resolve[T](c, id)
	if err != nil {
		panic(err)
	}
	return typed
}
