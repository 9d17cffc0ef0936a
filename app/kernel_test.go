package app_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/km-arc/go-container/app"
	"github.com/km-arc/go-container/framework/container"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newApp(t *testing.T, opts app.Options) *app.Application {
	t.Helper()
	opts.Logger = quietLogger()
	if opts.EnvFiles == nil {
		opts.EnvFiles = []string{filepath.Join(t.TempDir(), "none.env")}
	}
	a, err := app.New(opts)
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	return a
}

// ── Kernel ────────────────────────────────────────────────────────────────────

func TestNew_RegistersFrameworkServices(t *testing.T) {
	a := newApp(t, app.Options{})

	if !a.Exists("router") {
		t.Error("router should be defined")
	}
	for _, class := range []string{"User", "Email", "Mailer", "Logger", "Router"} {
		if !a.Types().Has(class) {
			t.Errorf("class %s should be registered", class)
		}
	}
}

func TestNew_LoadsDefinitionFiles(t *testing.T) {
	dir := t.TempDir()
	defs := filepath.Join(dir, "services.yaml")
	err := os.WriteFile(defs, []byte(`
config:
  greeting: Howdy
services:
  email: {class: Email, shared: true}
  mailer:
    class: Mailer
    params: [":greeting", "::email"]
`), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	a := newApp(t, app.Options{DefinitionFiles: []string{defs}})
	m, err := container.Resolve[*app.Mailer](a.Container, "mailer")
	if err != nil {
		t.Fatal(err)
	}
	if got := m.Send("you"); got != "Howdy, you" {
		t.Errorf("got %q", got)
	}
}

func TestNew_BadDefinitionFile(t *testing.T) {
	_, err := app.New(app.Options{
		Logger:          quietLogger(),
		EnvFiles:        []string{filepath.Join(t.TempDir(), "none.env")},
		DefinitionFiles: []string{filepath.Join(t.TempDir(), "missing.yaml")},
	})
	if err == nil {
		t.Error("missing definitions file should fail")
	}
}

func TestApplication_Addr(t *testing.T) {
	a := newApp(t, app.Options{})
	if got := a.Addr(); got != ":8000" {
		t.Errorf("default addr: got %q", got)
	}
	a.SetConfig("app.port", 9001)
	if got := a.Addr(); got != ":9001" {
		t.Errorf("addr: got %q", got)
	}
}

func TestApplication_BootMountsInspector(t *testing.T) {
	a := newApp(t, app.Options{})
	if err := a.Boot(); err != nil {
		t.Fatal(err)
	}
	router, err := a.Router()
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/_container/services", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"id":"router"`) {
		t.Errorf("got %d %s", rr.Code, rr.Body.String())
	}

	var patterns []string
	for _, route := range router.Routes() {
		patterns = append(patterns, route.Pattern)
	}
	if !reflect.DeepEqual(patterns, []string{"/_container/config", "/_container/services", "/_container/services/{id}"}) {
		t.Errorf("routes: got %v", patterns)
	}
}

func TestApplication_RunStopsOnCancel(t *testing.T) {
	a := newApp(t, app.Options{})
	a.SetConfig("app.port", "0")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := a.Run(ctx); err != nil {
		t.Errorf("Run: %v", err)
	}
}

// ── Demo ──────────────────────────────────────────────────────────────────────

func TestDemo(t *testing.T) {
	a := newApp(t, app.Options{})

	var out bytes.Buffer
	if err := app.Demo(a.Container, &out); err != nil {
		t.Fatal(err)
	}

	report := out.String()
	for _, want := range []string{
		"shared: true",
		"mailer #1: Hello, world",
		"shared email: false",
		"secret: " + container.ErrProtectedAccessDenied.Error(),
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
	if strings.Contains(report, "shared email: true") {
		t.Errorf("mailers should get their own Email:\n%s", report)
	}
}
