package container

import (
	metrics "github.com/rcrowley/go-metrics"
	"github.com/sirupsen/logrus"

	"github.com/km-arc/go-container/framework/config"
)

// Option configures a Container.
type Option func(*Container)

// WithLogger sets the logger (default logrus.StandardLogger()).
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Container) { c.log = log }
}

// WithTypes uses types to resolve class references instead of a fresh
// registry.
func WithTypes(types *Types) Option {
	return func(c *Container) { c.types = types }
}

// WithConfig uses repo as the config store.
func WithConfig(repo *config.Repository) Option {
	return func(c *Container) { c.config = repo }
}

// WithMetrics records build metrics in r instead of a private registry.
func WithMetrics(r metrics.Registry) Option {
	return func(c *Container) { c.metricsRegistry = r }
}

// WithMaxDepth fails a build with *UnresolvedTokenCycleError once service
// tokens nest deeper than n builds. Zero means unlimited.
func WithMaxDepth(n int) Option {
	return func(c *Container) { c.maxDepth = n }
}

// WithSharedServiceTokens makes "::id" tokens honor the shared lifetime:
// a token referencing a shared service receives the cached singleton. By
// default service tokens always build a fresh instance.
func WithSharedServiceTokens() Option {
	return func(c *Container) { c.sharedTokens = true }
}
