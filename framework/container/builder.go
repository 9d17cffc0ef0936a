package container

import (
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// builder turns a Definition into a live instance. It keeps no state of its
// own between builds.
type builder struct {
	registry *Registry
	types    *Types
	resolver *resolver
	metrics  *buildMetrics
	log      logrus.FieldLogger
	maxDepth int
}

// build constructs a new instance of id. Strategy, first match wins:
//
//  1. factory: resolve factory params, call Class::Method with them
//  2. params:  resolve params, call the class constructor with them
//  3. default: call the class constructor with no arguments
//
// then every declared call runs in registration order. Any failure is
// returned as is; nothing is cached here.
func (b *builder) build(id string, path buildPath) (any, error) {
	if b.maxDepth > 0 && len(path) >= b.maxDepth {
		return nil, &UnresolvedTokenCycleError{Path: path.push(id)}
	}

	def, err := b.registry.Definition(id)
	if err != nil {
		return nil, err
	}
	path = path.push(id)
	start := time.Now()

	instance, err := b.construct(id, def, path)
	if err != nil {
		return nil, b.fail(id, def, path, err)
	}

	for _, c := range def.Calls.List() {
		args, err := b.resolver.resolve(c.Params, path)
		if err != nil {
			return nil, b.fail(id, def, path, err)
		}
		if err := invokeMethod(instance, c.Method, args); err != nil {
			return nil, b.fail(id, def, path, &ConstructionFailure{ID: id, Class: def.Class, Method: c.Method, Cause: err})
		}
	}

	elapsed := time.Since(start)
	b.metrics.built(id, elapsed)
	b.log.WithFields(logrus.Fields{
		"service": id,
		"class":   def.Class,
		"depth":   len(path),
		"elapsed": elapsed,
	}).Debug("container: built service")
	return instance, nil
}

func (b *builder) construct(id string, def Definition, path buildPath) (any, error) {
	if f := def.Factory; f != nil {
		args, err := b.resolver.resolve(f.Params, path)
		if err != nil {
			return nil, err
		}
		ctor, err := b.types.static(f.Class, f.Method)
		if err != nil {
			return nil, &ConstructionFailure{ID: id, Class: f.Class, Method: f.Method, Cause: err}
		}
		instance, err := ctor(args...)
		if err != nil {
			return nil, &ConstructionFailure{ID: id, Class: f.Class, Method: f.Method, Cause: err}
		}
		return instance, nil
	}

	var args []any
	if def.Params != nil {
		resolved, err := b.resolver.resolve(def.Params, path)
		if err != nil {
			return nil, err
		}
		args = resolved
	}
	ctor, err := b.types.constructor(def.Class)
	if err != nil {
		return nil, &ConstructionFailure{ID: id, Class: def.Class, Cause: err}
	}
	instance, err := ctor(args...)
	if err != nil {
		return nil, &ConstructionFailure{ID: id, Class: def.Class, Cause: err}
	}
	return instance, nil
}

func (b *builder) fail(id string, def Definition, path buildPath, err error) error {
	b.metrics.failed(id)
	b.log.WithFields(logrus.Fields{
		"service": id,
		"class":   def.Class,
		"path":    strings.Join(path, " -> "),
	}).WithError(err).Debug("container: build failed")
	return err
}
