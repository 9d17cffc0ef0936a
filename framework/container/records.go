package container

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// DefinitionRecord is the serializable form of a Definition used by bulk
// loading:
//
//	mailer:
//	  class: Mailer
//	  params: [":greeting"]
//	  calls:
//	    SetLogger: ["::logger"]
//	  shared: false
//	  protected: false
type DefinitionRecord struct {
	Class     string         `yaml:"class" json:"class"`
	Params    ParamList      `yaml:"params,omitempty" json:"params"`
	Calls     CallRecords    `yaml:"calls,omitempty" json:"calls,omitempty"`
	Factory   *FactoryRecord `yaml:"factory,omitempty" json:"factory,omitempty"`
	Shared    bool           `yaml:"shared" json:"shared"`
	Protected bool           `yaml:"protected" json:"protected"`
}

// ParamList is a raw argument list that keeps "not declared" (nil) apart
// from "declared empty". Only nil is omitted when encoding, so `params: []`
// survives a round trip.
type ParamList []any

// IsZero reports whether the list was never declared.
func (p ParamList) IsZero() bool { return p == nil }

// FactoryRecord is the serializable form of a Factory.
type FactoryRecord struct {
	Class  string `yaml:"class" json:"class"`
	Method string `yaml:"method" json:"method"`
	Params []any  `yaml:"params,omitempty" json:"params"`
}

// CallRecord is one entry of CallRecords.
type CallRecord struct {
	Method string
	Params []any
}

// CallRecords keeps calls in document order. In YAML and JSON it is a mapping
// from method name to argument list.
type CallRecords []CallRecord

// UnmarshalYAML decodes a mapping node without losing key order.
func (c *CallRecords) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return errors.Errorf("calls: line %d: expected a mapping of method to params", node.Line)
	}
	out := make(CallRecords, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var method string
		if err := node.Content[i].Decode(&method); err != nil {
			return errors.Wrapf(err, "calls: line %d", node.Content[i].Line)
		}
		var params []any
		if err := node.Content[i+1].Decode(&params); err != nil {
			return errors.Wrapf(err, "calls: %s", method)
		}
		out = append(out, CallRecord{Method: method, Params: params})
	}
	*c = out
	return nil
}

// MarshalYAML encodes calls as an ordered mapping.
func (c CallRecords) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, call := range c {
		var value yaml.Node
		params := call.Params
		if params == nil {
			params = []any{}
		}
		if err := value.Encode(params); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: call.Method},
			&value,
		)
	}
	return node, nil
}

// MarshalJSON encodes calls as an object whose keys keep call order.
func (c CallRecords) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, call := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(call.Method)
		if err != nil {
			return nil, err
		}
		params := call.Params
		if params == nil {
			params = []any{}
		}
		value, err := json.Marshal(params)
		if err != nil {
			return nil, errors.Wrapf(err, "calls: %s", call.Method)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object without losing key order.
func (c *CallRecords) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return errors.Wrap(err, "calls")
	}
	if tok == nil {
		*c = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("calls: expected an object of method to params")
	}
	var out CallRecords
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return errors.Wrap(err, "calls")
		}
		method, _ := tok.(string)
		var params []any
		if err := dec.Decode(&params); err != nil {
			return errors.Wrapf(err, "calls: %s", method)
		}
		out = append(out, CallRecord{Method: method, Params: params})
	}
	*c = out
	return nil
}

// Definition converts r, classifying every argument. Later calls to the
// same method replace earlier ones.
func (r DefinitionRecord) Definition() Definition {
	def := Definition{
		Class:     r.Class,
		Params:    parseOptional(r.Params),
		Shared:    r.Shared,
		Protected: r.Protected,
	}
	for _, call := range r.Calls {
		def.Calls.Set(call.Method, ParseArgs(call.Params...))
	}
	if r.Factory != nil {
		def.Factory = &Factory{
			Class:  r.Factory.Class,
			Method: r.Factory.Method,
			Params: ParseArgs(r.Factory.Params...),
		}
	}
	return def
}

// RecordOf converts def back to its serializable form.
func RecordOf(def Definition) DefinitionRecord {
	r := DefinitionRecord{
		Class:     def.Class,
		Params:    def.Params.Raw(),
		Shared:    def.Shared,
		Protected: def.Protected,
	}
	def.Calls.Each(func(method string, params Args) {
		r.Calls = append(r.Calls, CallRecord{Method: method, Params: params.Raw()})
	})
	if f := def.Factory; f != nil {
		r.Factory = &FactoryRecord{Class: f.Class, Method: f.Method, Params: f.Params.Raw()}
	}
	return r
}

func parseOptional(values []any) Args {
	if values == nil {
		return nil
	}
	return ParseArgs(values...)
}

func validateRecord(id string, r DefinitionRecord) error {
	if r.Factory != nil {
		if r.Factory.Class == "" || r.Factory.Method == "" {
			return errors.Errorf("container: service %s: factory needs class and method", id)
		}
		return nil
	}
	if r.Class == "" {
		return errors.Errorf("container: service %s: class is required", id)
	}
	return nil
}

// ── Bulk loading ──────────────────────────────────────────────────────────────

// LoadServices replaces every definition with services. Instances already
// cached for shared services are kept.
func (c *Container) LoadServices(services map[string]DefinitionRecord) error {
	defs := make(map[string]Definition, len(services))
	for id, r := range services {
		if err := validateRecord(id, r); err != nil {
			return err
		}
		defs[id] = r.Definition()
	}
	c.registry.Replace(defs)
	c.log.WithField("services", len(defs)).Debug("container: loaded service definitions")
	return nil
}

// File is the layout of a definitions file.
//
//	config:
//	  greeting: Hello
//	services:
//	  mailer:
//	    class: Mailer
//	    params: [":greeting"]
type File struct {
	Config   map[string]any              `yaml:"config,omitempty"`
	Services map[string]DefinitionRecord `yaml:"services,omitempty"`
}

// ParseFile decodes a definitions file.
func ParseFile(r io.Reader) (*File, error) {
	var f File
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "container: parsing definitions")
	}
	for id, rec := range f.Services {
		if err := validateRecord(id, rec); err != nil {
			return nil, err
		}
	}
	return &f, nil
}

// LoadYAML reads a definitions file and adds its config values and services
// to c. Existing entries with the same key or id are overwritten; others are
// kept.
func (c *Container) LoadYAML(r io.Reader) error {
	f, err := ParseFile(r)
	if err != nil {
		return err
	}
	c.config.Merge(f.Config)
	for id, rec := range f.Services {
		c.registry.Put(id, rec.Definition())
	}
	c.log.WithFields(logrus.Fields{"services": len(f.Services), "config": len(f.Config)}).
		Debug("container: loaded definitions file")
	return nil
}
