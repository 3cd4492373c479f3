package code42

import (
	"context"
	"net/url"
)

// Connection is the request pipeline shared by every resource client: it
// owns the target, the credential headers and the last observed response.
// A Connection is not safe for concurrent use; give each goroutine its own or
// serialize calls.
type Connection interface {
	MakeRequest(ctx context.Context, method, path string, payload any) (any, error)
	LastResponse() *Response

	SetToken(token string)
	SetMasterLicenseKey(key string)
	SetUsername(username string)
	SetPassword(password string)
	HasValidCredentials() bool

	SetVerifyHTTPS(verify bool)
	VerifyHTTPS() bool

	Transport() Transport
}

// OrgsClient manages organizations. An empty id selects the caller's own
// org ("my").
type OrgsClient interface {
	Create(ctx context.Context, attrs map[string]any) (*Org, error)
	CreatePro(ctx context.Context, attrs map[string]any) (*Org, error)
	Get(ctx context.Context, id string, params url.Values) (*Org, error)
	FindByName(ctx context.Context, name string, params url.Values) (*Org, error)
	FindInactiveByName(ctx context.Context, name string, params url.Values) (*Org, error)
	Search(ctx context.Context, query string, params url.Values) ([]*Org, error)
	List(ctx context.Context, params url.Values) ([]*Org, error)
	Update(ctx context.Context, id string, attrs map[string]any) (*Org, error)
	Activate(ctx context.Context, id string, params url.Values) (*Org, error)
	Deactivate(ctx context.Context, id string, attrs map[string]any) (*Org, error)
	Block(ctx context.Context, id string, attrs map[string]any) (*Org, error)
	Unblock(ctx context.Context, id string, params url.Values) (*Org, error)
	ShareDestinations(ctx context.Context, id string) (any, error)
}

// RolesClient manages roles and their assignment to users.
type RolesClient interface {
	List(ctx context.Context) (*Collection, error)
	UserRoles(ctx context.Context, userID int64) (*Collection, error)
	Assign(ctx context.Context, userID int64, roleName string) (*UserRole, error)
	Unassign(ctx context.Context, userID int64, roleName string) error
}

// Client provides access to all resource clients.
type Client interface {
	Orgs() OrgsClient
	Roles() RolesClient

	// AuthToken requests a login token using the configured basic
	// credentials. The result can be passed to Connection().SetToken.
	AuthToken(ctx context.Context) (string, error)

	// Ping checks that the server is reachable and accepts the configured
	// credentials.
	Ping(ctx context.Context) error

	Connection() Connection
}
