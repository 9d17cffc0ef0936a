package container

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// ArgKind tags an Arg.
type ArgKind int

const (
	// KindLiteral passes its value through unchanged.
	KindLiteral ArgKind = iota
	// KindConfig resolves to a config store value (":key").
	KindConfig
	// KindService resolves to a freshly built service ("::id").
	KindService
	// KindList is an ordered sequence of args.
	KindList
	// KindMap is a string-keyed mapping of args.
	KindMap
)

func (k ArgKind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindConfig:
		return "config"
	case KindService:
		return "service"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	}
	return fmt.Sprintf("ArgKind(%d)", int(k))
}

// Arg is a declared construction argument, classified once when it is
// registered so that building is a plain dispatch on Kind.
type Arg struct {
	Kind  ArgKind
	Value any            // KindLiteral
	Ref   string         // KindConfig, KindService
	List  Args           // KindList
	Map   map[string]Arg // KindMap
}

// Args is an ordered argument sequence. A nil Args means "not declared";
// a non-nil empty Args is an explicit empty sequence.
type Args []Arg

// Literal forces v to be passed through verbatim, even a string that looks
// like a token.
func Literal(v any) Arg { return Arg{Kind: KindLiteral, Value: v} }

// ConfigRef references the config key.
func ConfigRef(key string) Arg { return Arg{Kind: KindConfig, Ref: key} }

// ServiceRef references the service id.
func ServiceRef(id string) Arg { return Arg{Kind: KindService, Ref: id} }

// ParseArgs classifies every value. The result is never nil.
func ParseArgs(values ...any) Args {
	out := make(Args, len(values))
	for i, v := range values {
		out[i] = ParseArg(v)
	}
	return out
}

// ParseArg classifies a single value:
//
//	"::id"  → ServiceRef("id")
//	":key"  → ConfigRef("key")
//	slices  → List, string-keyed maps → Map
//	anything else (including Arg) → unchanged / Literal
func ParseArg(v any) Arg {
	switch t := v.(type) {
	case Arg:
		return t
	case Args:
		return Arg{Kind: KindList, List: t.Clone()}
	case string:
		return parseToken(t)
	case []any:
		return Arg{Kind: KindList, List: ParseArgs(t...)}
	case map[string]any:
		m := make(map[string]Arg, len(t))
		for k, e := range t {
			m[k] = ParseArg(e)
		}
		return Arg{Kind: KindMap, Map: m}
	case nil:
		return Literal(nil)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return Literal(v)
		}
		list := make(Args, rv.Len())
		for i := range list {
			list[i] = ParseArg(rv.Index(i).Interface())
		}
		return Arg{Kind: KindList, List: list}
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Literal(v)
		}
		m := make(map[string]Arg, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = ParseArg(iter.Value().Interface())
		}
		return Arg{Kind: KindMap, Map: m}
	}
	return Literal(v)
}

// parseToken checks the service form before the config form; neither may
// contain a colon past its prefix.
func parseToken(s string) Arg {
	if strings.HasPrefix(s, "::") && !strings.Contains(s[2:], ":") {
		return ServiceRef(s[2:])
	}
	if strings.HasPrefix(s, ":") && !strings.Contains(s[1:], ":") {
		return ConfigRef(s[1:])
	}
	return Literal(s)
}

// Clone deep-copies a, preserving nil vs empty.
func (a Args) Clone() Args {
	if a == nil {
		return nil
	}
	out := make(Args, len(a))
	for i, arg := range a {
		out[i] = arg.clone()
	}
	return out
}

func (a Arg) clone() Arg {
	switch a.Kind {
	case KindList:
		a.List = a.List.Clone()
	case KindMap:
		m := make(map[string]Arg, len(a.Map))
		for k, v := range a.Map {
			m[k] = v.clone()
		}
		a.Map = m
	}
	return a
}

// Raw converts a back to its declared form (tokens as strings).
func (a Arg) Raw() any {
	switch a.Kind {
	case KindConfig:
		return ":" + a.Ref
	case KindService:
		return "::" + a.Ref
	case KindList:
		return a.List.Raw()
	case KindMap:
		m := make(map[string]any, len(a.Map))
		for k, v := range a.Map {
			m[k] = v.Raw()
		}
		return m
	}
	return a.Value
}

// Raw converts every arg back to its declared form.
func (a Args) Raw() []any {
	if a == nil {
		return nil
	}
	out := make([]any, len(a))
	for i, arg := range a {
		out[i] = arg.Raw()
	}
	return out
}

// ServiceRefs lists every service id referenced anywhere in a, in order of
// appearance (map keys visited sorted).
func (a Args) ServiceRefs() []string {
	var out []string
	for _, arg := range a {
		out = append(out, arg.serviceRefs()...)
	}
	return out
}

func (a Arg) serviceRefs() []string {
	switch a.Kind {
	case KindService:
		return []string{a.Ref}
	case KindList:
		return a.List.ServiceRefs()
	case KindMap:
		keys := make([]string, 0, len(a.Map))
		for k := range a.Map {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var out []string
		for _, k := range keys {
			out = append(out, a.Map[k].serviceRefs()...)
		}
		return out
	}
	return nil
}
