package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/code42/code42-go/internal/constants"
	"github.com/code42/code42-go/pkg/code42"
)

// objectFromResponse sends a request and builds a single resource from the
// data envelope. Attribute maps sent as bodies are serialized with schema
// first.
func objectFromResponse(
	ctx context.Context,
	conn code42.Connection,
	schema *code42.Schema,
	method, path string,
	payload any,
) (*code42.Resource, error) {
	body, err := conn.MakeRequest(ctx, method, path, serializePayload(schema, method, payload))
	if err != nil {
		return nil, err
	}

	resource, err := schema.FromResponse(body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s response: %w", path, err)
	}

	return resource, nil
}

// objectsFromResponse sends a request and builds a collection. The key query
// parameter names the collection field in the data envelope.
func objectsFromResponse(
	ctx context.Context,
	conn code42.Connection,
	schema *code42.Schema,
	method, path string,
	params url.Values,
) (*code42.Collection, error) {
	var key string
	if params != nil {
		key = params.Get(constants.CollectionKeyParam)
	}

	body, err := conn.MakeRequest(ctx, method, path, params)
	if err != nil {
		return nil, err
	}

	collection, err := schema.CollectionFromResponse(body, key)
	if err != nil {
		return nil, fmt.Errorf("parsing %s response: %w", path, err)
	}

	return collection, nil
}

func serializePayload(schema *code42.Schema, method string, payload any) any {
	attrs, ok := payload.(map[string]any)
	if !ok {
		return payload
	}

	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return schema.Serialize(attrs)
	default:
		return payload
	}
}

// cloneValues copies params so callers' values are never modified.
func cloneValues(params url.Values) url.Values {
	out := make(url.Values, len(params))
	for key, values := range params {
		out[key] = append([]string(nil), values...)
	}

	return out
}

func orgID(id string) string {
	if id == "" {
		return constants.DefaultOrgID
	}

	return id
}
