package app

import (
	"github.com/sirupsen/logrus"

	"github.com/km-arc/go-container/framework/container"
)

// ── Demo classes ──────────────────────────────────────────────────────────────

// User has a name and an optional email.
type User struct {
	name  string
	Email *Email
}

func NewUser(name string) *User { return &User{name: name} }

func (u *User) GetName() string       { return u.name }
func (u *User) SetEmail(email *Email) { u.Email = email }

// Email sends nothing; it counts.
type Email struct {
	sent int
}

func NewEmail() *Email { return &Email{} }

func (e *Email) SendMail() string {
	e.sent++
	return "Sending.."
}

func (e *Email) SaySomething() string { return "hi..." }

// Sent returns how many mails went out through e.
func (e *Email) Sent() int { return e.sent }

// Logger writes through the application's logrus logger under a prefix.
type Logger struct {
	Prefix string
	log    logrus.FieldLogger
}

func (l *Logger) Log(msg string) {
	l.log.WithField("prefix", l.Prefix).Info(msg)
}

// SetPrefix is a call target for definitions.
func (l *Logger) SetPrefix(prefix string) { l.Prefix = prefix }

// Mailer greets through an Email, logging to an optional Logger.
type Mailer struct {
	Greeting string
	Email    *Email
	Logger   *Logger
}

func NewMailer(greeting string, email *Email) *Mailer {
	return &Mailer{Greeting: greeting, Email: email}
}

func (m *Mailer) SetLogger(l *Logger) { m.Logger = l }

// Send delivers one mail and returns the greeting line.
func (m *Mailer) Send(to string) string {
	line := m.Greeting + ", " + to
	if m.Email != nil {
		m.Email.SendMail()
	}
	if m.Logger != nil {
		m.Logger.Log(line)
	}
	return line
}

// MailerFactory builds mailers without an Email attached.
type MailerFactory struct{}

func (MailerFactory) Create(greeting string) *Mailer { return &Mailer{Greeting: greeting} }

// ── ClassesServiceProvider ────────────────────────────────────────────────────

// ClassesServiceProvider registers the demo classes with the container's
// type registry. Definitions naming them can then come from YAML.
type ClassesServiceProvider struct {
	container.BaseProvider
}

func (p *ClassesServiceProvider) Register(c *container.Container) error {
	types := c.Types()
	log := c.Logger()
	types.Register("Logger", func(...any) (any, error) {
		return &Logger{log: log}, nil
	})
	for class, fn := range map[string]any{
		"User":   NewUser,
		"Email":  NewEmail,
		"Mailer": NewMailer,
	} {
		if err := types.RegisterFunc(class, fn); err != nil {
			return err
		}
	}
	return types.RegisterStatic("MailerFactory", "Create", MailerFactory{}.Create)
}
