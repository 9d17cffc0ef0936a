// Package container provides a declarative service container.
//
// # Overview
//
// Services are described, not constructed: a Definition names a class, the
// arguments to build it with, the methods to call afterwards and its
// lifetime. Nothing is built until the service is asked for.
//
// Because Go has no runtime class lookup, every class a definition names
// must first be registered with the container's Types.
//
// # Classes
//
//	c := container.New()
//	c.Types().RegisterFunc("Logger", NewLogger)   // func() *Logger
//	c.Types().RegisterFunc("Mailer", NewMailer)   // func(greeting string) *Mailer
//	c.Types().RegisterStatic("MailerFactory", "Create", CreateMailer)
//
// # Definitions
//
//	c.Register("logger", "Logger")
//	c.SetShared("logger", true)
//
//	c.Register("mailer", "Mailer")
//	c.SetParams("mailer", ":greeting")      // config token
//	c.AddCall("mailer", "SetLogger", "::logger") // service token
//
//	// or fluently
//	c.Define("mailer", "Mailer").Params(":greeting").Call("SetLogger", "::logger")
//
// # Tokens
//
// String arguments are classified once, when declared:
//
//	"::id"   a new instance of service id (the instance cache is bypassed)
//	":key"   the config value for key
//	other    passed through unchanged; use Literal to force a literal
//
// Slices and string-keyed maps are walked recursively; other values pass
// through untouched.
//
// # Construction
//
// A factory, when set, wins over params; params, when declared (even empty),
// win over the no-argument constructor. Declared calls then run in order.
//
// # Lifetimes
//
//	shared     built once on first GetService, cached for the container's life
//	transient  built on every GetService
//	protected  GetService returns ErrProtectedAccessDenied without building
//
// # Bulk definitions
//
//	config:
//	  greeting: Hello
//	services:
//	  logger: {class: Logger, shared: true}
//	  mailer:
//	    class: Mailer
//	    params: [":greeting"]
//	    calls:
//	      SetLogger: ["::logger"]
//
//	err := c.LoadYAML(file)
//
// # Service Providers
//
//	registry := container.NewProviderRegistry(c)
//	registry.Register(&MailProvider{})
//	registry.Boot()
package container
