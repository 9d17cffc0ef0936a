package container

import (
	"github.com/km-arc/go-container/framework/config"
)

// buildPath is the chain of service ids currently being built, outermost
// first.
type buildPath []string

func (p buildPath) push(id string) buildPath {
	next := make(buildPath, len(p), len(p)+1)
	copy(next, p)
	return append(next, id)
}

func (p buildPath) contains(id string) bool {
	for _, e := range p {
		if e == id {
			return true
		}
	}
	return false
}

// resolver substitutes tokens in declared arguments. Config tokens read the
// config store; service tokens go through the service func, which by default
// builds a fresh instance and never consults the instance cache.
type resolver struct {
	config  *config.Repository
	service func(id string, path buildPath) (any, error)
}

// resolve returns a copy of args with every token substituted. The result has
// the same length and order as args; nested lists and maps keep their shape.
func (r *resolver) resolve(args Args, path buildPath) ([]any, error) {
	out := make([]any, len(args))
	for i, a := range args {
		v, err := r.resolveArg(a, path)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (r *resolver) resolveArg(a Arg, path buildPath) (any, error) {
	switch a.Kind {
	case KindService:
		return r.service(a.Ref, path)
	case KindConfig:
		return r.config.Get(a.Ref)
	case KindList:
		return r.resolve(a.List, path)
	case KindMap:
		m := make(map[string]any, len(a.Map))
		for k, e := range a.Map {
			v, err := r.resolveArg(e, path)
			if err != nil {
				return nil, err
			}
			m[k] = v
		}
		return m, nil
	}
	return a.Value, nil
}
