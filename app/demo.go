package app

import (
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/km-arc/go-container/framework/container"
)

// Demo walks through the container's lifetimes and tokens on c, which must
// have the demo classes registered, and writes a report to w.
//
//  1. a shared "email" resolved three times is one instance
//  2. a "mailer" built from ":greeting" and "::email" gets a fresh Email
//     each time, never the shared one
//  3. a protected "secret" is refused
func Demo(c *container.Container, w io.Writer) error {
	if !c.HasConfig("greeting") {
		c.SetConfig("greeting", "Hello")
	}

	if err := c.Define("email", "Email").Shared().Err(); err != nil {
		return err
	}
	var emails [3]*Email
	for i := range emails {
		e, err := container.Resolve[*Email](c, "email")
		if err != nil {
			return err
		}
		emails[i] = e
		fmt.Fprintf(w, "email #%d: %p\n", i+1, e)
	}
	fmt.Fprintf(w, "shared: %t\n", emails[0] == emails[1] && emails[1] == emails[2])

	err := c.Define("mailer", "Mailer").
		Params(":greeting", "::email").
		Call("SetLogger", "::logger").
		Err()
	if err != nil {
		return err
	}
	c.Register("logger", "Logger")
	if err := c.AddCall("logger", "SetPrefix", "demo"); err != nil {
		return err
	}
	for i := 0; i < 2; i++ {
		m, err := container.Resolve[*Mailer](c, "mailer")
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "mailer #%d: %s (email %p, shared email: %t)\n",
			i+1, m.Send("world"), m.Email, m.Email == emails[0])
	}

	c.Register("secret", "User")
	if err := c.SetParams("secret", "root"); err != nil {
		return err
	}
	if err := c.SetProtected("secret", true); err != nil {
		return err
	}
	_, err = c.GetService("secret")
	if !errors.Is(err, container.ErrProtectedAccessDenied) {
		return errors.Errorf("app: protected service was handed out (err: %v)", err)
	}
	fmt.Fprintf(w, "secret: %v\n", err)
	return nil
}
