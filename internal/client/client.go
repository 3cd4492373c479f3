package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/code42/code42-go/internal/constants"
	"github.com/code42/code42-go/pkg/code42"
)

// Static errors for err113 compliance.
var (
	ErrConnectionRequired = errors.New("connection is required")
	ErrMalformedToken     = errors.New("malformed auth token response")
)

// Client implements the code42.Client interface.
type Client struct {
	conn code42.Connection

	// Resource clients
	orgs  code42.OrgsClient
	roles code42.RolesClient
}

var _ code42.Client = (*Client)(nil)

// New creates a client whose resource clients share conn.
func New(conn code42.Connection) (*Client, error) {
	if conn == nil {
		return nil, ErrConnectionRequired
	}

	client := &Client{conn: conn}
	client.initializeResourceClients()

	return client, nil
}

// Orgs implements code42.Client.Orgs.
func (c *Client) Orgs() code42.OrgsClient {
	return c.orgs
}

// Roles implements code42.Client.Roles.
func (c *Client) Roles() code42.RolesClient {
	return c.roles
}

// Connection implements code42.Client.Connection.
func (c *Client) Connection() code42.Connection {
	return c.conn
}

// AuthToken implements code42.Client.AuthToken. The server answers with the
// two halves of the token, which are joined with a dash.
func (c *Client) AuthToken(ctx context.Context) (string, error) {
	body, err := c.conn.MakeRequest(ctx, http.MethodPost, "authToken", nil)
	if err != nil {
		return "", fmt.Errorf("requesting auth token: %w", err)
	}

	obj, ok := body.(map[string]any)
	if !ok {
		return "", fmt.Errorf("%w: body is %T", ErrMalformedToken, body)
	}

	parts, ok := obj[constants.DataEnvelopeKey].([]any)
	if !ok || len(parts) == 0 {
		return "", ErrMalformedToken
	}

	halves := make([]string, 0, len(parts))

	for _, part := range parts {
		s, ok := part.(string)
		if !ok {
			return "", fmt.Errorf("%w: token part is %T", ErrMalformedToken, part)
		}

		halves = append(halves, s)
	}

	return strings.Join(halves, "-"), nil
}

// Ping implements code42.Client.Ping.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.conn.MakeRequest(ctx, http.MethodGet, "ping", nil)
	if err != nil {
		return fmt.Errorf("pinging server: %w", err)
	}

	return nil
}

// initializeResourceClients initializes all resource-specific clients.
func (c *Client) initializeResourceClients() {
	c.orgs = NewOrgsClient(c.conn)
	c.roles = NewRolesClient(c.conn)
}
