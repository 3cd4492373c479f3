package code42_test

import (
	"encoding/json"
	"testing"

	"github.com/code42/code42-go/pkg/code42"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollection(t *testing.T) {
	t.Parallel()

	collection := code42.NewCollection(
		code42.RoleSchema.Build(map[string]any{"roleId": float64(1), "roleName": "Admin"}),
		code42.RoleSchema.Build(map[string]any{"roleId": float64(2), "roleName": "Desktop User"}),
		code42.RoleSchema.Build(map[string]any{"locked": true}),
	)

	assert.Equal(t, 3, collection.Len())
	assert.False(t, collection.Empty())

	assert.True(t, collection.IncludesID(2))
	assert.False(t, collection.IncludesID(3))
	assert.True(t, collection.IncludesName("Admin"))
	assert.False(t, collection.IncludesName("Org Manager"))

	found := collection.Find(func(r *code42.Resource) bool {
		locked, _ := r.Bool("locked")

		return locked
	})
	require.NotNil(t, found)
	assert.False(t, found.Has("id"))

	var names []string

	collection.Each(func(r *code42.Resource) {
		if name, ok := r.String("name"); ok {
			names = append(names, name)
		}
	})
	assert.Equal(t, []string{"Admin", "Desktop User"}, names)

	assert.Equal(t, []map[string]any{
		{"roleId": float64(1), "roleName": "Admin"},
		{"roleId": float64(2), "roleName": "Desktop User"},
		{"locked": true},
	}, collection.Serialize(code42.RoleSchema))

	data, err := json.Marshal(collection)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"name":"Admin"},{"id":2,"name":"Desktop User"},{"locked":true}]`, string(data))
}

func TestCollection_Empty(t *testing.T) {
	t.Parallel()

	collection := code42.NewCollection()
	assert.True(t, collection.Empty())
	assert.Empty(t, collection.Items())
	assert.Nil(t, collection.Find(func(*code42.Resource) bool { return true }))
}
