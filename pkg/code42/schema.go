package code42

import (
	"errors"
	"fmt"

	"github.com/code42/code42-go/internal/constants"
)

// Direction selects which way Translate converts attribute names.
type Direction int

const (
	// Deserialize converts wire names to internal names.
	Deserialize Direction = iota
	// Serialize converts internal names to wire names.
	Serialize
)

func (d Direction) String() string {
	if d == Serialize {
		return "serialize"
	}

	return "deserialize"
}

// Static errors for err113 compliance.
var (
	ErrMissingEnvelope = errors.New("response has no data envelope")
	ErrUnexpectedShape = errors.New("unexpected payload shape")
)

// Schema declares the attributes a resource type recognizes and how their
// names map to the wire. Schemas are built once at program start and are
// read-only afterwards, so a Schema may be shared between goroutines once
// declaration is finished.
type Schema struct {
	naming    NamingConvention
	names     []string
	declared  map[string]struct{}
	wireNames map[string]string
	// byWire maps the wire name of every declared attribute back to it.
	byWire map[string]string
}

// SchemaOption configures a Schema.
type SchemaOption func(*Schema)

// WithNaming replaces the default SnakeCamel naming convention.
func WithNaming(naming NamingConvention) SchemaOption {
	return func(s *Schema) {
		s.naming = naming
	}
}

// AttributeOption configures a single declared attribute.
type AttributeOption func(name string, s *Schema)

// WireName overrides the name an attribute carries on the wire.
func WireName(wire string) AttributeOption {
	return func(name string, s *Schema) {
		s.wireNames[name] = wire
	}
}

// NewSchema creates an empty schema.
func NewSchema(opts ...SchemaOption) *Schema {
	s := &Schema{
		naming:    SnakeCamel,
		declared:  make(map[string]struct{}),
		wireNames: make(map[string]string),
		byWire:    make(map[string]string),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Declare registers name as a recognized attribute. Declaring a name twice
// keeps a single entry but replaces its wire-name override.
func (s *Schema) Declare(name string, opts ...AttributeOption) *Schema {
	if _, ok := s.declared[name]; !ok {
		s.declared[name] = struct{}{}
		s.names = append(s.names, name)
	} else if previous := s.wireName(name); s.byWire[previous] == name {
		delete(s.byWire, previous)
	}

	for _, opt := range opts {
		opt(name, s)
	}

	s.byWire[s.wireName(name)] = name

	return s
}

// Attributes returns the declared attribute names in declaration order.
func (s *Schema) Attributes() []string {
	names := make([]string, len(s.names))
	copy(names, s.names)

	return names
}

// Declared reports whether name is a declared attribute.
func (s *Schema) Declared(name string) bool {
	_, ok := s.declared[name]

	return ok
}

// Translate renames the keys of data for the given direction and drops every
// key that does not resolve to a declared attribute. data is not modified.
func (s *Schema) Translate(data map[string]any, dir Direction) map[string]any {
	out := make(map[string]any, len(data))

	for key, value := range data {
		name, ok := s.resolve(key, dir)
		if !ok {
			continue
		}

		if dir == Serialize {
			out[s.wireName(name)] = value
		} else {
			out[name] = value
		}
	}

	return out
}

// Serialize converts internal attribute names to wire names.
func (s *Schema) Serialize(data map[string]any) map[string]any {
	return s.Translate(data, Serialize)
}

// Deserialize converts wire attribute names to internal names.
func (s *Schema) Deserialize(data map[string]any) map[string]any {
	return s.Translate(data, Deserialize)
}

// Build deserializes a wire payload and constructs a Resource from it. The
// resource's attributes follow declaration order.
func (s *Schema) Build(data map[string]any) *Resource {
	attrs := s.Deserialize(data)

	keys := make([]string, 0, len(attrs))
	for _, name := range s.names {
		if _, ok := attrs[name]; ok {
			keys = append(keys, name)
		}
	}

	return newOrderedResource(keys, attrs)
}

// FromResponse builds a Resource from a response body carrying the resource
// under the data envelope key.
func (s *Schema) FromResponse(body any) (*Resource, error) {
	data, err := envelope(body)
	if err != nil {
		return nil, err
	}

	payload, ok := asMap(data)
	if !ok {
		return nil, fmt.Errorf("%w: data is %T, want object", ErrUnexpectedShape, data)
	}

	return s.Build(payload), nil
}

// CollectionFromResponse builds a Collection from a response body. The members
// are read from data[key] when key is set and data is an object, or from data
// itself when it is a list.
func (s *Schema) CollectionFromResponse(body any, key string) (*Collection, error) {
	data, err := envelope(body)
	if err != nil {
		return nil, err
	}

	if obj, ok := asMap(data); ok && key != "" {
		data = obj[key]
	}

	items, ok := data.([]any)
	if !ok {
		if data == nil {
			return NewCollection(), nil
		}

		return nil, fmt.Errorf("%w: collection %q is %T, want list", ErrUnexpectedShape, key, data)
	}

	resources := make([]*Resource, 0, len(items))

	for i, item := range items {
		payload, ok := asMap(item)
		if !ok {
			return nil, fmt.Errorf("%w: item %d is %T, want object", ErrUnexpectedShape, i, item)
		}

		resources = append(resources, s.Build(payload))
	}

	return NewCollection(resources...), nil
}

// resolve finds the declared internal name a key refers to.
func (s *Schema) resolve(key string, dir Direction) (string, bool) {
	if dir == Serialize {
		if s.Declared(key) {
			return key, true
		}

		name := s.naming.ToInternal(key)

		return name, s.Declared(name)
	}

	// Naming conventions are not always reversible ("ab_c_d" -> "abCD" ->
	// "ab_cd"), so exact wire names are matched first.
	if name, ok := s.byWire[key]; ok {
		return name, true
	}

	name := s.naming.ToInternal(key)
	if _, overridden := s.wireNames[name]; overridden {
		return "", false
	}

	return name, s.Declared(name)
}

func (s *Schema) wireName(name string) string {
	if wire, ok := s.wireNames[name]; ok {
		return wire
	}

	return s.naming.ToWire(name)
}

func envelope(body any) (any, error) {
	obj, ok := asMap(body)
	if !ok {
		return nil, fmt.Errorf("%w: body is %T", ErrMissingEnvelope, body)
	}

	data, ok := obj[constants.DataEnvelopeKey]
	if !ok {
		return nil, ErrMissingEnvelope
	}

	return data, nil
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)

	return m, ok
}
