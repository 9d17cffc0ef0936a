package container

// Definition describes how to construct one service.
//
// Construction precedence is Factory, then Params, then the class's
// no-argument constructor. Calls run afterwards in registration order.
type Definition struct {
	Class     string
	Params    Args // nil: not declared
	Calls     Calls
	Factory   *Factory
	Shared    bool
	Protected bool
}

// Factory invokes Class.Method with Params instead of the definition's own
// constructor. Class and Method are used verbatim; only Params are resolved.
type Factory struct {
	Class  string
	Method string
	Params Args
}

// Clone deep-copies d.
func (d Definition) Clone() Definition {
	d.Params = d.Params.Clone()
	d.Calls = d.Calls.Clone()
	if d.Factory != nil {
		f := *d.Factory
		f.Params = f.Params.Clone()
		d.Factory = &f
	}
	return d
}

// Dependencies lists the service ids referenced by the definition's
// factory, params and calls.
func (d Definition) Dependencies() []string {
	var deps []string
	if d.Factory != nil {
		deps = append(deps, d.Factory.Params.ServiceRefs()...)
	} else {
		deps = append(deps, d.Params.ServiceRefs()...)
	}
	d.Calls.Each(func(_ string, params Args) {
		deps = append(deps, params.ServiceRefs()...)
	})
	return deps
}

// ── Calls ────────────────────────────────────────────────────────────────────

// Call is one post-construction method invocation.
type Call struct {
	Method string
	Params Args
}

// Calls is an insertion-ordered map from method name to arguments. Setting a
// method that is already present replaces its arguments in place; it does
// not add a second invocation or move the entry.
type Calls struct {
	entries []Call
}

// Set adds or replaces the call for method.
func (c *Calls) Set(method string, params Args) {
	for i := range c.entries {
		if c.entries[i].Method == method {
			c.entries[i].Params = params
			return
		}
	}
	c.entries = append(c.entries, Call{Method: method, Params: params})
}

// Get returns the arguments registered for method.
func (c Calls) Get(method string) (Args, bool) {
	for _, e := range c.entries {
		if e.Method == method {
			return e.Params, true
		}
	}
	return nil, false
}

// Len returns the number of distinct methods.
func (c Calls) Len() int { return len(c.entries) }

// Methods returns the method names in registration order.
func (c Calls) Methods() []string {
	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Method
	}
	return out
}

// Each visits calls in registration order.
func (c Calls) Each(fn func(method string, params Args)) {
	for _, e := range c.entries {
		fn(e.Method, e.Params)
	}
}

// List returns a copy of the calls in registration order.
func (c Calls) List() []Call {
	out := make([]Call, len(c.entries))
	for i, e := range c.entries {
		out[i] = Call{Method: e.Method, Params: e.Params.Clone()}
	}
	return out
}

// Clone deep-copies c.
func (c Calls) Clone() Calls {
	if c.entries == nil {
		return Calls{}
	}
	return Calls{entries: c.List()}
}
