package container_test

import (
	"errors"
	"io"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/km-arc/go-container/framework/container"
)

// ── fixture classes ───────────────────────────────────────────────────────────

type Logger struct {
	lines []string
}

func NewLogger() *Logger { return &Logger{} }

func (l *Logger) Log(line string) { l.lines = append(l.lines, line) }

type Mailer struct {
	Greeting string
	Logger   *Logger
	inits    []int
}

func NewMailer(greeting string) *Mailer { return &Mailer{Greeting: greeting} }

func (m *Mailer) SetLogger(l *Logger) { m.Logger = l }

func (m *Mailer) Init(n int) { m.inits = append(m.inits, n) }

func (m *Mailer) Fail() error { return errors.New("call failed") }

type Collector struct {
	Items []any
}

func NewCollector(items ...any) *Collector { return &Collector{Items: items} }

// counter counts constructions of the "Counted" class.
type counter struct {
	n atomic.Int64
}

func (c *counter) ctor() container.Constructor {
	return func(args ...any) (any, error) {
		c.n.Add(1)
		return &Logger{}, nil
	}
}

func (c *counter) count() int64 { return c.n.Load() }

// ── helpers ──────────────────────────────────────────────────────────────────

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newContainer(t *testing.T, opts ...container.Option) *container.Container {
	t.Helper()
	opts = append([]container.Option{container.WithLogger(quietLogger())}, opts...)
	c := container.New(opts...)
	types := c.Types()
	must(t, types.RegisterFunc("Logger", NewLogger))
	must(t, types.RegisterFunc("Mailer", NewMailer))
	must(t, types.RegisterFunc("Collector", NewCollector))
	must(t, types.RegisterStatic("MailerFactory", "Create", func(greeting string) *Mailer {
		return &Mailer{Greeting: "factory:" + greeting}
	}))
	types.Register("Exploding", func(args ...any) (any, error) {
		return nil, errors.New("constructor must not run")
	})
	return c
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
