package container

import (
	"math"
	"reflect"
	"sort"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// Constructor builds an instance of a class from positional arguments.
type Constructor func(args ...any) (any, error)

// Types resolves class references to constructors. Go cannot look a type up
// from a string at runtime, so every class a definition names has to be
// registered here first.
//
//	types.RegisterFunc("Mailer", NewMailer)              // func(greeting string) *Mailer
//	types.RegisterStatic("MailerFactory", "Create", CreateMailer)
type Types struct {
	mu      sync.RWMutex
	classes map[string]Constructor
	statics map[string]map[string]Constructor
}

// NewTypes creates an empty type registry.
func NewTypes() *Types {
	return &Types{
		classes: make(map[string]Constructor),
		statics: make(map[string]map[string]Constructor),
	}
}

// Register binds class to ctor.
func (t *Types) Register(class string, ctor Constructor) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.classes[class] = ctor
}

// RegisterFunc binds class to an ordinary Go function. fn must return the
// instance, optionally followed by an error.
func (t *Types) RegisterFunc(class string, fn any) error {
	ctor, err := FuncConstructor(fn)
	if err != nil {
		return errors.Wrapf(err, "container: class %s", class)
	}
	t.Register(class, ctor)
	return nil
}

// RegisterStatic binds the type-level method class::method, used by factory
// definitions. fn follows the same rules as for RegisterFunc.
func (t *Types) RegisterStatic(class, method string, fn any) error {
	ctor, err := FuncConstructor(fn)
	if err != nil {
		return errors.Wrapf(err, "container: factory %s::%s", class, method)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.statics[class]; !ok {
		t.statics[class] = make(map[string]Constructor)
	}
	t.statics[class][method] = ctor
	return nil
}

// Has reports whether class has a constructor.
func (t *Types) Has(class string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.classes[class]
	return ok
}

// Classes returns every class with a constructor, sorted.
func (t *Types) Classes() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, 0, len(t.classes))
	for c := range t.classes {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func (t *Types) constructor(class string) (Constructor, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ctor, ok := t.classes[class]
	if !ok {
		return nil, errors.Errorf("class %q not found", class)
	}
	return ctor, nil
}

func (t *Types) static(class, method string) (Constructor, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ctor, ok := t.statics[class][method]
	if !ok {
		return nil, errors.Errorf("factory method %s::%s not found", class, method)
	}
	return ctor, nil
}

// ── Reflection ───────────────────────────────────────────────────────────────

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// FuncConstructor adapts fn to a Constructor. fn must return exactly one
// value, or two with the second an error.
func FuncConstructor(fn any) (Constructor, error) {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return nil, errors.Errorf("constructor must be a func; was %T", fn)
	}
	ft := v.Type()
	switch {
	case ft.NumOut() == 1:
	case ft.NumOut() == 2 && ft.Out(1).Implements(errorType):
	default:
		return nil, errors.Errorf("constructor must return a value or (value, error); was %v", ft)
	}
	return func(args ...any) (any, error) {
		out, err := call(v, args)
		if err != nil {
			return nil, err
		}
		if len(out) == 2 {
			if err := asError(out[1]); err != nil {
				return nil, err
			}
		}
		return out[0].Interface(), nil
	}, nil
}

// invokeMethod calls the exported method name on instance, discarding its
// results except a trailing non-nil error.
func invokeMethod(instance any, name string, args []any) error {
	if instance == nil {
		return errors.Errorf("cannot call %s on nil instance", name)
	}
	rv := reflect.ValueOf(instance)
	m := rv.MethodByName(name)
	if !m.IsValid() {
		m = rv.MethodByName(exported(name))
	}
	if !m.IsValid() {
		return errors.Errorf("method %s not found on %T", name, instance)
	}
	out, err := call(m, args)
	if err != nil {
		return err
	}
	if n := len(out); n > 0 && m.Type().Out(n-1).Implements(errorType) {
		return asError(out[n-1])
	}
	return nil
}

func asError(v reflect.Value) error {
	switch v.Kind() {
	case reflect.Interface, reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if v.IsNil() {
			return nil
		}
	}
	err, _ := v.Interface().(error)
	return err
}

// call invokes fn with positional args, converting each to the declared
// parameter type. A panic inside fn is returned as an error.
func call(fn reflect.Value, args []any) (out []reflect.Value, err error) {
	ft := fn.Type()
	in, err := convertArgs(ft, args)
	if err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("panic: %v", r)
		}
	}()
	return fn.Call(in), nil
}

func convertArgs(ft reflect.Type, args []any) ([]reflect.Value, error) {
	n := ft.NumIn()
	if ft.IsVariadic() {
		if len(args) < n-1 {
			return nil, errors.Errorf("wrong arity: want at least %d arguments, got %d", n-1, len(args))
		}
	} else if len(args) != n {
		return nil, errors.Errorf("wrong arity: want %d arguments, got %d", n, len(args))
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		var target reflect.Type
		if ft.IsVariadic() && i >= n-1 {
			target = ft.In(n - 1).Elem()
		} else {
			target = ft.In(i)
		}
		v, err := convert(arg, target)
		if err != nil {
			return nil, errors.Wrapf(err, "argument %d", i)
		}
		in[i] = v
	}
	return in, nil
}

func convert(arg any, target reflect.Type) (reflect.Value, error) {
	if arg == nil {
		return reflect.Zero(target), nil
	}
	v := reflect.ValueOf(arg)
	if v.Type().AssignableTo(target) {
		return v, nil
	}
	if isNumber(v.Kind()) && isNumber(target.Kind()) {
		return convertNumber(v, target)
	}
	if sameFamily(v.Kind(), target.Kind()) && v.Type().ConvertibleTo(target) {
		return v.Convert(target), nil
	}
	switch {
	case v.Kind() == reflect.Slice && target.Kind() == reflect.Slice:
		out := reflect.MakeSlice(target, v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			e, err := convert(v.Index(i).Interface(), target.Elem())
			if err != nil {
				return reflect.Value{}, errors.Wrapf(err, "element %d", i)
			}
			out.Index(i).Set(e)
		}
		return out, nil
	case v.Kind() == reflect.Map && target.Kind() == reflect.Map:
		out := reflect.MakeMapWithSize(target, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			k, err := convert(iter.Key().Interface(), target.Key())
			if err != nil {
				return reflect.Value{}, err
			}
			e, err := convert(iter.Value().Interface(), target.Elem())
			if err != nil {
				return reflect.Value{}, errors.Wrapf(err, "key %v", iter.Key().Interface())
			}
			out.SetMapIndex(k, e)
		}
		return out, nil
	}
	return reflect.Value{}, errors.Errorf("cannot use %T as %s", arg, target)
}

// convertNumber converts between numeric kinds. Values the target cannot hold
// exactly are refused rather than truncated or wrapped.
func convertNumber(v reflect.Value, target reflect.Type) (reflect.Value, error) {
	out := reflect.New(target).Elem()
	fail := func(why string) (reflect.Value, error) {
		return reflect.Value{}, errors.Errorf("cannot use %v as %s: %s", v.Interface(), target, why)
	}
	switch {
	case isInt(target.Kind()):
		var n int64
		switch {
		case isInt(v.Kind()):
			n = v.Int()
		case isUint(v.Kind()):
			if v.Uint() > math.MaxInt64 {
				return fail("out of range")
			}
			n = int64(v.Uint())
		default:
			f := v.Float()
			if f != math.Trunc(f) {
				return fail("not a whole number")
			}
			if f < -(1<<63) || f >= 1<<63 {
				return fail("out of range")
			}
			n = int64(f)
		}
		if out.OverflowInt(n) {
			return fail("out of range")
		}
		out.SetInt(n)
	case isUint(target.Kind()):
		var n uint64
		switch {
		case isInt(v.Kind()):
			if v.Int() < 0 {
				return fail("negative")
			}
			n = uint64(v.Int())
		case isUint(v.Kind()):
			n = v.Uint()
		default:
			f := v.Float()
			if f != math.Trunc(f) {
				return fail("not a whole number")
			}
			if f < 0 {
				return fail("negative")
			}
			if f >= 1<<64 {
				return fail("out of range")
			}
			n = uint64(f)
		}
		if out.OverflowUint(n) {
			return fail("out of range")
		}
		out.SetUint(n)
	default:
		var f float64
		switch {
		case isInt(v.Kind()):
			f = float64(v.Int())
		case isUint(v.Kind()):
			f = float64(v.Uint())
		default:
			f = v.Float()
		}
		if out.OverflowFloat(f) {
			return fail("out of range")
		}
		out.SetFloat(f)
	}
	return out, nil
}

func sameFamily(a, b reflect.Kind) bool {
	return (isNumber(a) && isNumber(b)) || (a == reflect.String && b == reflect.String) ||
		(a == reflect.Bool && b == reflect.Bool)
}

func isNumber(k reflect.Kind) bool {
	return isInt(k) || isUint(k) || k == reflect.Float32 || k == reflect.Float64
}

func isInt(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUint(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func exported(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}
