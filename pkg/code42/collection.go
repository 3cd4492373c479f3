package code42

import (
	"encoding/json"
	"fmt"
)

// Collection is an ordered list of resources of one type. Members may carry
// different attribute sets; queries on an attribute skip members without it.
type Collection struct {
	items []*Resource
}

// NewCollection creates a collection from resources.
func NewCollection(items ...*Resource) *Collection {
	return &Collection{items: items}
}

// Len returns the number of members.
func (c *Collection) Len() int {
	return len(c.items)
}

// Empty reports whether the collection has no members.
func (c *Collection) Empty() bool {
	return len(c.items) == 0
}

// Items returns the members in order.
func (c *Collection) Items() []*Resource {
	items := make([]*Resource, len(c.items))
	copy(items, c.items)

	return items
}

// Each calls fn for every member in order.
func (c *Collection) Each(fn func(*Resource)) {
	for _, item := range c.items {
		fn(item)
	}
}

// Attributes returns the attribute map of every member.
func (c *Collection) Attributes() []map[string]any {
	out := make([]map[string]any, 0, len(c.items))
	for _, item := range c.items {
		out = append(out, item.Attributes())
	}

	return out
}

// Serialize returns the wire representation of every member.
func (c *Collection) Serialize(schema *Schema) []map[string]any {
	out := make([]map[string]any, 0, len(c.items))
	for _, item := range c.items {
		out = append(out, item.Serialize(schema))
	}

	return out
}

// Find returns the first member matching fn, or nil.
func (c *Collection) Find(fn func(*Resource) bool) *Resource {
	for _, item := range c.items {
		if fn(item) {
			return item
		}
	}

	return nil
}

// IncludesID reports whether a member has the given id.
func (c *Collection) IncludesID(id int64) bool {
	return c.Find(func(r *Resource) bool {
		v, ok := r.Int("id")

		return ok && v == id
	}) != nil
}

// IncludesName reports whether a member has the given name.
func (c *Collection) IncludesName(name string) bool {
	return c.Find(func(r *Resource) bool {
		v, ok := r.String("name")

		return ok && v == name
	}) != nil
}

// MarshalYAML implements yaml.Marshaler.
func (c *Collection) MarshalYAML() (interface{}, error) {
	return c.Attributes(), nil
}

// MarshalJSON implements json.Marshaler.
func (c *Collection) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(c.Attributes())
	if err != nil {
		return nil, fmt.Errorf("marshaling collection: %w", err)
	}

	return data, nil
}
