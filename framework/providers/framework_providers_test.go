package providers_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/km-arc/go-container/framework/container"
	"github.com/km-arc/go-container/framework/providers"
	"github.com/km-arc/go-container/framework/routing"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func newContainer() *container.Container {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return container.New(container.WithLogger(log))
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

type greeter struct{ greeting string }

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

func TestConfigServiceProvider_EnvAndYAML(t *testing.T) {
	env := writeFile(t, ".env", "APP_NAME=dic\nAPP_PORT=9000\n")
	yml := writeFile(t, "config.yaml", "greeting: Hello\napp.port: 9100\n")

	c := newContainer()
	p := &providers.ConfigServiceProvider{EnvFiles: []string{env}, YAMLFiles: []string{yml}}
	if err := p.Register(c); err != nil {
		t.Fatal(err)
	}

	if got := c.Config().String("app.name", ""); got != "dic" {
		t.Errorf("app.name: got %q", got)
	}
	if got := c.Config().Int("app.port", 0); got != 9100 {
		t.Errorf("app.port: got %d, want the YAML value 9100", got)
	}
	if got := c.Config().String("greeting", ""); got != "Hello" {
		t.Errorf("greeting: got %q", got)
	}
}

func TestConfigServiceProvider_MissingEnvSkipped(t *testing.T) {
	c := newContainer()
	p := &providers.ConfigServiceProvider{EnvFiles: []string{filepath.Join(t.TempDir(), "none.env")}}
	if err := p.Register(c); err != nil {
		t.Errorf("missing .env should be skipped, got %v", err)
	}
}

func TestConfigServiceProvider_MissingYAMLFails(t *testing.T) {
	c := newContainer()
	p := &providers.ConfigServiceProvider{
		EnvFiles:  []string{filepath.Join(t.TempDir(), "none.env")},
		YAMLFiles: []string{filepath.Join(t.TempDir(), "none.yaml")},
	}
	if err := p.Register(c); err == nil {
		t.Error("missing YAML file should fail")
	}
}

// ── DefinitionsServiceProvider ────────────────────────────────────────────────

func TestDefinitionsServiceProvider_Loads(t *testing.T) {
	defs := writeFile(t, "services.yaml", `
config:
  greeting: Hi
services:
  greeter:
    class: Greeter
    params: [":greeting"]
    shared: true
`)
	c := newContainer()
	if err := c.Types().RegisterFunc("Greeter", func(s string) *greeter { return &greeter{s} }); err != nil {
		t.Fatal(err)
	}
	p := &providers.DefinitionsServiceProvider{Files: []string{defs}}
	if err := p.Register(c); err != nil {
		t.Fatal(err)
	}

	g, err := container.Resolve[*greeter](c, "greeter")
	if err != nil {
		t.Fatal(err)
	}
	if g.greeting != "Hi" {
		t.Errorf("greeting: got %q", g.greeting)
	}
}

func TestDefinitionsServiceProvider_BadFile(t *testing.T) {
	c := newContainer()
	p := &providers.DefinitionsServiceProvider{Files: []string{writeFile(t, "bad.yaml", "services:\n  a: {}\n")}}
	if err := p.Register(c); err == nil {
		t.Error("definition without class should fail")
	}
}

// ── Routing + Inspection ──────────────────────────────────────────────────────

func TestRoutingServiceProvider_SharedRouter(t *testing.T) {
	c := newContainer()
	if err := (&providers.RoutingServiceProvider{}).Register(c); err != nil {
		t.Fatal(err)
	}

	a, err := container.Resolve[*routing.Router](c, "router")
	if err != nil {
		t.Fatal(err)
	}
	b, err := container.Resolve[*routing.Router](c, "router")
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("router should be shared")
	}
}

func TestInspectionServiceProvider_MountsRoutes(t *testing.T) {
	c := newContainer()
	reg := container.NewProviderRegistry(c)
	for _, p := range []container.ServiceProvider{
		&providers.RoutingServiceProvider{},
		&providers.InspectionServiceProvider{},
	} {
		if err := reg.Register(p); err != nil {
			t.Fatal(err)
		}
	}
	if err := reg.Boot(); err != nil {
		t.Fatal(err)
	}

	router := container.MustResolve[*routing.Router](c, "router")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/_container/services/router", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("status: got %d want 200", rr.Code)
	}
}

func TestInspectionServiceProvider_NeedsRouter(t *testing.T) {
	c := newContainer()
	if err := (&providers.InspectionServiceProvider{}).Boot(c); !container.IsUnknownService(err) {
		t.Errorf("err: got %v, want UnknownServiceError", err)
	}
}
