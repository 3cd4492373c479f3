package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/code42/code42-go/internal/constants"
	"github.com/code42/code42-go/pkg/code42"
)

// OrgsClient implements code42.OrgsClient.
type OrgsClient struct {
	conn code42.Connection
}

// NewOrgsClient creates a new orgs client.
func NewOrgsClient(conn code42.Connection) *OrgsClient {
	return &OrgsClient{conn: conn}
}

// Create implements code42.OrgsClient.Create.
func (c *OrgsClient) Create(ctx context.Context, attrs map[string]any) (*code42.Org, error) {
	return c.org(ctx, http.MethodPost, "org", attrs, "creating org")
}

// CreatePro implements code42.OrgsClient.CreatePro. The server creates the
// org together with its first user.
func (c *OrgsClient) CreatePro(ctx context.Context, attrs map[string]any) (*code42.Org, error) {
	return c.org(ctx, http.MethodPost, "proOrgChannel", attrs, "creating pro org")
}

// Get implements code42.OrgsClient.Get.
func (c *OrgsClient) Get(ctx context.Context, id string, params url.Values) (*code42.Org, error) {
	return c.org(ctx, http.MethodGet, "org/"+orgID(id), params, "getting org")
}

// FindByName implements code42.OrgsClient.FindByName. Among the search
// results the first org whose name matches exactly is returned.
func (c *OrgsClient) FindByName(ctx context.Context, name string, params url.Values) (*code42.Org, error) {
	orgs, err := c.Search(ctx, name, params)
	if err != nil {
		return nil, err
	}

	for _, org := range orgs {
		if org.Name == name {
			return org, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", code42.ErrOrgNotFound, name)
}

// FindInactiveByName implements code42.OrgsClient.FindInactiveByName. Orgs
// are renamed when deactivated, so the first inactive org matching the query
// is returned.
func (c *OrgsClient) FindInactiveByName(ctx context.Context, name string, params url.Values) (*code42.Org, error) {
	query := cloneValues(params)
	query.Set("active", "false")

	orgs, err := c.Search(ctx, name, query)
	if err != nil {
		return nil, err
	}

	if len(orgs) == 0 {
		return nil, fmt.Errorf("%w: %s", code42.ErrOrgNotFound, name)
	}

	return orgs[0], nil
}

// Search implements code42.OrgsClient.Search.
func (c *OrgsClient) Search(ctx context.Context, query string, params url.Values) ([]*code42.Org, error) {
	values := cloneValues(params)
	values.Set("q", query)

	return c.List(ctx, values)
}

// List implements code42.OrgsClient.List.
func (c *OrgsClient) List(ctx context.Context, params url.Values) ([]*code42.Org, error) {
	values := cloneValues(params)
	values.Set(constants.CollectionKeyParam, "orgs")

	collection, err := objectsFromResponse(ctx, c.conn, code42.OrgSchema, http.MethodGet, "org", values)
	if err != nil {
		return nil, fmt.Errorf("listing orgs: %w", err)
	}

	orgs, err := code42.NewOrgs(collection)
	if err != nil {
		return nil, fmt.Errorf("listing orgs: %w", err)
	}

	return orgs, nil
}

// Update implements code42.OrgsClient.Update.
func (c *OrgsClient) Update(ctx context.Context, id string, attrs map[string]any) (*code42.Org, error) {
	return c.org(ctx, http.MethodPut, "org/"+orgID(id), attrs, "updating org")
}

// Activate implements code42.OrgsClient.Activate.
func (c *OrgsClient) Activate(ctx context.Context, id string, params url.Values) (*code42.Org, error) {
	return c.org(ctx, http.MethodDelete, "OrgDeactivation/"+orgID(id), params, "activating org")
}

// Deactivate implements code42.OrgsClient.Deactivate.
func (c *OrgsClient) Deactivate(ctx context.Context, id string, attrs map[string]any) (*code42.Org, error) {
	return c.org(ctx, http.MethodPut, "OrgDeactivation/"+orgID(id), attrs, "deactivating org")
}

// Block implements code42.OrgsClient.Block.
func (c *OrgsClient) Block(ctx context.Context, id string, attrs map[string]any) (*code42.Org, error) {
	return c.org(ctx, http.MethodPut, "orgBlock/"+orgID(id), attrs, "blocking org")
}

// Unblock implements code42.OrgsClient.Unblock.
func (c *OrgsClient) Unblock(ctx context.Context, id string, params url.Values) (*code42.Org, error) {
	return c.org(ctx, http.MethodDelete, "orgBlock/"+orgID(id), params, "unblocking org")
}

// ShareDestinations implements code42.OrgsClient.ShareDestinations. The
// payload is returned undecoded.
func (c *OrgsClient) ShareDestinations(ctx context.Context, id string) (any, error) {
	body, err := c.conn.MakeRequest(ctx, http.MethodGet, "orgShareDestinations/"+orgID(id), nil)
	if err != nil {
		return nil, fmt.Errorf("getting org share destinations: %w", err)
	}

	obj, ok := body.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: body is %T", code42.ErrMissingEnvelope, body)
	}

	return obj[constants.DataEnvelopeKey], nil
}

func (c *OrgsClient) org(ctx context.Context, method, path string, payload any, action string) (*code42.Org, error) {
	resource, err := objectFromResponse(ctx, c.conn, code42.OrgSchema, method, path, payload)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}

	org, err := code42.NewOrg(resource)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}

	return org, nil
}
