package container_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/km-arc/go-container/framework/container"
)

// ── Classification ────────────────────────────────────────────────────────────

func TestParseArg_Tokens(t *testing.T) {
	cases := []struct {
		in   any
		kind container.ArgKind
		ref  string
	}{
		{"::logger", container.KindService, "logger"},
		{":greeting", container.KindConfig, "greeting"},
		{"::", container.KindService, ""},
		{":", container.KindConfig, ""},
		{":::x", container.KindLiteral, ""},
		{":a:b", container.KindLiteral, ""},
		{"plain", container.KindLiteral, ""},
		{"a::b", container.KindLiteral, ""},
		{42, container.KindLiteral, ""},
		{nil, container.KindLiteral, ""},
		{[]byte("::x"), container.KindLiteral, ""},
	}
	for _, tc := range cases {
		got := container.ParseArg(tc.in)
		if got.Kind != tc.kind || got.Ref != tc.ref {
			t.Errorf("ParseArg(%#v): got %s(%q), want %s(%q)", tc.in, got.Kind, got.Ref, tc.kind, tc.ref)
		}
	}
}

func TestParseArg_LiteralWrapperWins(t *testing.T) {
	got := container.ParseArg(container.Literal("::logger"))
	if got.Kind != container.KindLiteral || got.Value != "::logger" {
		t.Errorf("got %+v", got)
	}
}

func TestParseArg_NestedShapes(t *testing.T) {
	got := container.ParseArg(map[string]any{
		"list": []string{":x", "::y"},
		"n":    7,
	})
	if got.Kind != container.KindMap {
		t.Fatalf("kind: got %s", got.Kind)
	}
	list := got.Map["list"]
	if list.Kind != container.KindList || len(list.List) != 2 {
		t.Fatalf("list: got %+v", list)
	}
	if list.List[0].Kind != container.KindConfig || list.List[1].Kind != container.KindService {
		t.Errorf("list kinds: %s, %s", list.List[0].Kind, list.List[1].Kind)
	}
	if got.Map["n"].Value != 7 {
		t.Errorf("n: got %v", got.Map["n"].Value)
	}
}

func TestParseArgs_NeverNil(t *testing.T) {
	if container.ParseArgs() == nil {
		t.Error("ParseArgs() should return an empty, non-nil Args")
	}
}

func TestArgs_Clone_PreservesNil(t *testing.T) {
	var none container.Args
	if none.Clone() != nil {
		t.Error("nil Args should clone to nil")
	}
	if container.ParseArgs().Clone() == nil {
		t.Error("empty Args should clone to empty")
	}
}

func TestArgs_ServiceRefs(t *testing.T) {
	args := container.ParseArgs("::a", ":cfg", []any{"::b", map[string]any{"z": "::d", "y": "::c"}})
	want := []string{"a", "b", "c", "d"}
	if got := args.ServiceRefs(); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

// ── Properties ────────────────────────────────────────────────────────────────

func TestParseArg_Properties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("strings without a colon are literals", prop.ForAll(
		func(s string) bool {
			got := container.ParseArg(s)
			return got.Kind == container.KindLiteral && got.Value == s
		},
		gen.AlphaString(),
	))

	properties.Property("::id is a service token", prop.ForAll(
		func(id string) bool {
			got := container.ParseArg("::" + id)
			return got.Kind == container.KindService && got.Ref == id
		},
		gen.Identifier(),
	))

	properties.Property(":key is a config token", prop.ForAll(
		func(key string) bool {
			got := container.ParseArg(":" + key)
			return got.Kind == container.KindConfig && got.Ref == key
		},
		gen.Identifier(),
	))

	properties.Property("Raw inverts classification", prop.ForAll(
		func(s string) bool {
			return container.ParseArg(s).Raw() == s
		},
		gen.AnyString(),
	))

	properties.Property("parsed lists keep length and order", prop.ForAll(
		func(values []string) bool {
			prefixes := []string{"", ":", "::"}
			in := make([]any, len(values))
			for i, v := range values {
				in[i] = prefixes[i%len(prefixes)] + v
			}
			args := container.ParseArgs(in...)
			if len(args) != len(values) {
				return false
			}
			return reflect.DeepEqual(args.Raw(), in)
		},
		gen.SliceOf(gen.Identifier()),
	))

	properties.Property("token refs never contain a colon", prop.ForAll(
		func(s string) bool {
			return !strings.Contains(container.ParseArg(s).Ref, ":")
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
