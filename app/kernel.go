package app

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/km-arc/go-container/framework/container"
	"github.com/km-arc/go-container/framework/providers"
	"github.com/km-arc/go-container/framework/routing"
)

// Options configures New.
type Options struct {
	EnvFiles        []string
	ConfigFiles     []string
	DefinitionFiles []string
	Logger          logrus.FieldLogger
	Container       []container.Option
}

// Application is the top-level application. It embeds the service
// container and the provider registry, so user code can call app.Define,
// app.GetService and app.Register directly.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry
}

// New creates the application and registers the framework providers in
// order: config, demo classes, definitions files, router, inspector.
func New(opts Options) (*Application, error) {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	c := container.New(append([]container.Option{container.WithLogger(log)}, opts.Container...)...)

	a := &Application{
		Container: c,
		Providers: container.NewProviderRegistry(c),
	}
	for _, p := range []container.ServiceProvider{
		&providers.ConfigServiceProvider{EnvFiles: opts.EnvFiles, YAMLFiles: opts.ConfigFiles},
		&ClassesServiceProvider{},
		&providers.DefinitionsServiceProvider{Files: opts.DefinitionFiles},
		&providers.RoutingServiceProvider{},
		&providers.InspectionServiceProvider{},
	} {
		if err := a.Register(p); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) error {
	return a.Providers.Register(provider)
}

// Boot runs the Boot phase on all providers.
func (a *Application) Boot() error {
	return a.Providers.Boot()
}

// Router resolves the shared router.
func (a *Application) Router() (*routing.Router, error) {
	return container.Resolve[*routing.Router](a.Container, "router")
}

// Addr is the listen address built from app.port (default 8000).
func (a *Application) Addr() string {
	return ":" + a.Config().String("app.port", "8000")
}

// Environment returns app.env (default "local").
func (a *Application) Environment() string { return a.Config().String("app.env", "local") }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsDebug() bool       { return a.Config().Bool("app.debug", false) }

// Run boots the application (if needed) and serves HTTP until ctx is done,
// then shuts the server down gracefully.
func (a *Application) Run(ctx context.Context) error {
	if !a.Providers.Booted() {
		if err := a.Boot(); err != nil {
			return err
		}
	}
	router, err := a.Router()
	if err != nil {
		return err
	}

	srv := &http.Server{Addr: a.Addr(), Handler: router, ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	a.Logger().WithFields(logrus.Fields{
		"addr": srv.Addr,
		"env":  a.Environment(),
		"name": a.Config().String("app.name", "dic"),
	}).Info("app: listening")
	for _, route := range router.Routes() {
		a.Logger().WithFields(logrus.Fields{"method": route.Method, "pattern": route.Pattern}).Debug("app: route")
	}

	select {
	case err := <-errc:
		return errors.Wrap(err, "app: server")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "app: shutdown")
	}
	a.Logger().Info("app: stopped")
	return nil
}
