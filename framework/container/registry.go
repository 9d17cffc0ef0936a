package container

import (
	"sort"
	"sync"
)

// Registry maps service ids to their Definition. It is pure data: nothing
// in here builds anything.
//
// Every method taking an id of a definition that was never registered
// returns an *UnknownServiceError.
type Registry struct {
	mu          sync.RWMutex
	definitions map[string]*Definition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{definitions: make(map[string]*Definition)}
}

// ── Registration ─────────────────────────────────────────────────────────────

// Register creates or fully replaces the definition for id: no params, no
// calls, no factory, not shared, not protected.
func (r *Registry) Register(id, class string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.definitions[id] = &Definition{Class: class}
}

// Put stores a complete definition under id, replacing any previous one.
func (r *Registry) Put(id string, def Definition) {
	d := def.Clone()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.definitions[id] = &d
}

// Replace swaps every definition for defs.
func (r *Registry) Replace(defs map[string]Definition) {
	fresh := make(map[string]*Definition, len(defs))
	for id, def := range defs {
		d := def.Clone()
		fresh[id] = &d
	}
	r.mu.Lock()
	r.definitions = fresh
	r.mu.Unlock()
}

// Exists reports whether id was registered.
func (r *Registry) Exists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.definitions[id]
	return ok
}

// IDs returns every registered id, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.definitions))
	for id := range r.definitions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ── Mutators ─────────────────────────────────────────────────────────────────

// SetParams declares positional constructor arguments. Calling it with no
// params still declares an explicit empty sequence.
func (r *Registry) SetParams(id string, params ...any) error {
	parsed := ParseArgs(params...)
	return r.update(id, func(d *Definition) { d.Params = parsed })
}

// SetFactory makes class.method (with params) the construction path for id.
func (r *Registry) SetFactory(id, class, method string, params ...any) error {
	f := &Factory{Class: class, Method: method, Params: ParseArgs(params...)}
	return r.update(id, func(d *Definition) { d.Factory = f })
}

// AddCall declares a post-construction method call. Adding the same method
// again replaces the earlier arguments.
func (r *Registry) AddCall(id, method string, params ...any) error {
	parsed := ParseArgs(params...)
	return r.update(id, func(d *Definition) { d.Calls.Set(method, parsed) })
}

// SetShared toggles the singleton lifetime.
func (r *Registry) SetShared(id string, shared bool) error {
	return r.update(id, func(d *Definition) { d.Shared = shared })
}

// SetProtected toggles visibility through GetService.
func (r *Registry) SetProtected(id string, protected bool) error {
	return r.update(id, func(d *Definition) { d.Protected = protected })
}

func (r *Registry) update(id string, fn func(*Definition)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.definitions[id]
	if !ok {
		return &UnknownServiceError{ID: id}
	}
	fn(d)
	return nil
}

// ── Accessors ────────────────────────────────────────────────────────────────

// Definition returns a deep copy of the definition for id.
func (r *Registry) Definition(id string) (Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.definitions[id]
	if !ok {
		return Definition{}, &UnknownServiceError{ID: id}
	}
	return d.Clone(), nil
}

// Class returns the class reference of id.
func (r *Registry) Class(id string) (string, error) {
	d, err := r.Definition(id)
	return d.Class, err
}

// Params returns the declared constructor params of id (nil if none).
func (r *Registry) Params(id string) (Args, error) {
	d, err := r.Definition(id)
	return d.Params, err
}

// Calls returns the declared calls of id.
func (r *Registry) Calls(id string) (Calls, error) {
	d, err := r.Definition(id)
	return d.Calls, err
}

// Factory returns the factory descriptor of id (nil if none).
func (r *Registry) Factory(id string) (*Factory, error) {
	d, err := r.Definition(id)
	return d.Factory, err
}

// IsShared reports whether id has the singleton lifetime.
func (r *Registry) IsShared(id string) (bool, error) {
	d, err := r.Definition(id)
	return d.Shared, err
}

// IsProtected reports whether id is hidden from GetService.
func (r *Registry) IsProtected(id string) (bool, error) {
	d, err := r.Definition(id)
	return d.Protected, err
}
