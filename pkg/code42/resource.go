package code42

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// ErrUnknownAttribute is returned when a resource is asked to change an
// attribute it was not constructed with.
var ErrUnknownAttribute = errors.New("unknown attribute")

// Resource is a value object holding the attributes of one remote entity. The
// set of attributes is fixed at construction: a resource only answers for the
// names it was built with.
type Resource struct {
	keys  []string
	attrs map[string]any
}

// NewResource creates a resource from an attribute map. The map is copied and
// its keys are ordered lexically.
func NewResource(attrs map[string]any) *Resource {
	keys := make([]string, 0, len(attrs))
	for key := range attrs {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return newOrderedResource(keys, attrs)
}

func newOrderedResource(keys []string, attrs map[string]any) *Resource {
	r := &Resource{
		keys:  make([]string, 0, len(keys)),
		attrs: make(map[string]any, len(keys)),
	}

	for _, key := range keys {
		if _, seen := r.attrs[key]; seen {
			continue
		}

		r.keys = append(r.keys, key)
		r.attrs[key] = attrs[key]
	}

	return r
}

// Get returns the value of an attribute and whether the resource has it.
func (r *Resource) Get(name string) (any, bool) {
	v, ok := r.attrs[name]

	return v, ok
}

// Has reports whether the resource was constructed with name.
func (r *Resource) Has(name string) bool {
	_, ok := r.attrs[name]

	return ok
}

// Set changes the value of an existing attribute.
func (r *Resource) Set(name string, value any) error {
	if !r.Has(name) {
		return fmt.Errorf("%w: %s", ErrUnknownAttribute, name)
	}

	r.attrs[name] = value

	return nil
}

// String returns a string attribute. ok is false when the attribute is
// missing or not a string.
func (r *Resource) String(name string) (string, bool) {
	s, ok := r.attrs[name].(string)

	return s, ok
}

// Bool returns a boolean attribute.
func (r *Resource) Bool(name string) (bool, bool) {
	b, ok := r.attrs[name].(bool)

	return b, ok
}

// Int returns an integral attribute. JSON numbers decoded as float64 or
// json.Number are accepted as long as they carry no fraction.
func (r *Resource) Int(name string) (int64, bool) {
	v, ok := r.attrs[name]
	if !ok {
		return 0, false
	}

	return toInt64(v)
}

// Keys returns the attribute names in construction order.
func (r *Resource) Keys() []string {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)

	return keys
}

// Attributes returns the live attribute map.
func (r *Resource) Attributes() map[string]any {
	return r.attrs
}

// Serialize converts the resource back to its wire representation.
func (r *Resource) Serialize(schema *Schema) map[string]any {
	return schema.Serialize(r.attrs)
}

// Decode copies the attributes into a typed struct. Fields are matched by
// their mapstructure tag; RFC 3339 strings decode into time.Time.
func (r *Resource) Decode(out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		),
	})
	if err != nil {
		return fmt.Errorf("creating decoder: %w", err)
	}

	err = decoder.Decode(r.attrs)
	if err != nil {
		return fmt.Errorf("decoding resource: %w", err)
	}

	return nil
}

// MarshalJSON implements json.Marshaler.
func (r *Resource) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(r.attrs)
	if err != nil {
		return nil, fmt.Errorf("marshaling resource: %w", err)
	}

	return data, nil
}

// MarshalYAML implements yaml.Marshaler.
func (r *Resource) MarshalYAML() (interface{}, error) {
	return r.attrs, nil
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}

		return int64(n), true
	case json.Number:
		i, err := n.Int64()

		return i, err == nil
	case string:
		i, err := strconv.ParseInt(n, 10, 64)

		return i, err == nil
	default:
		return 0, false
	}
}
