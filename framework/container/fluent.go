package container

// DefinitionBuilder implements the fluent definition API.
//
//	c.Define("mailer", "Mailer").
//	    Params(":greeting").
//	    Call("SetLogger", "::logger").
//	    Shared()
type DefinitionBuilder struct {
	container *Container
	id        string
	err       error
}

// Params declares the constructor arguments.
func (b *DefinitionBuilder) Params(params ...any) *DefinitionBuilder {
	return b.apply(func() error { return b.container.SetParams(b.id, params...) })
}

// Factory builds the service through class::method instead of its own
// constructor.
func (b *DefinitionBuilder) Factory(class, method string, params ...any) *DefinitionBuilder {
	return b.apply(func() error { return b.container.SetFactory(b.id, class, method, params...) })
}

// Call adds (or replaces) a post-construction method call.
func (b *DefinitionBuilder) Call(method string, params ...any) *DefinitionBuilder {
	return b.apply(func() error { return b.container.AddCall(b.id, method, params...) })
}

// Shared gives the service the singleton lifetime.
func (b *DefinitionBuilder) Shared() *DefinitionBuilder {
	return b.apply(func() error { return b.container.SetShared(b.id, true) })
}

// Protected hides the service from GetService.
func (b *DefinitionBuilder) Protected() *DefinitionBuilder {
	return b.apply(func() error { return b.container.SetProtected(b.id, true) })
}

// Err returns the first error met along the chain.
func (b *DefinitionBuilder) Err() error { return b.err }

func (b *DefinitionBuilder) apply(fn func() error) *DefinitionBuilder {
	if b.err == nil {
		b.err = fn()
	}
	return b
}
