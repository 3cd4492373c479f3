package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/code42/code42-go/pkg/code42"
)

// RolesClient implements code42.RolesClient.
type RolesClient struct {
	conn code42.Connection
}

// NewRolesClient creates a new roles client.
func NewRolesClient(conn code42.Connection) *RolesClient {
	return &RolesClient{conn: conn}
}

// List implements code42.RolesClient.List.
func (c *RolesClient) List(ctx context.Context) (*code42.Collection, error) {
	roles, err := objectsFromResponse(ctx, c.conn, code42.RoleSchema, http.MethodGet, "role", nil)
	if err != nil {
		return nil, fmt.Errorf("listing roles: %w", err)
	}

	return roles, nil
}

// UserRoles implements code42.RolesClient.UserRoles.
func (c *RolesClient) UserRoles(ctx context.Context, userID int64) (*code42.Collection, error) {
	path := "userRole/" + strconv.FormatInt(userID, 10)

	roles, err := objectsFromResponse(ctx, c.conn, code42.UserRoleSchema, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("listing user roles: %w", err)
	}

	return roles, nil
}

// Assign implements code42.RolesClient.Assign.
func (c *RolesClient) Assign(ctx context.Context, userID int64, roleName string) (*code42.UserRole, error) {
	attrs := map[string]any{
		"user_id":   userID,
		"role_name": roleName,
	}

	resource, err := objectFromResponse(ctx, c.conn, code42.UserRoleSchema, http.MethodPost, "userRole", attrs)
	if err != nil {
		return nil, fmt.Errorf("assigning role: %w", err)
	}

	userRole, err := code42.NewUserRole(resource)
	if err != nil {
		return nil, fmt.Errorf("assigning role: %w", err)
	}

	return userRole, nil
}

// Unassign implements code42.RolesClient.Unassign.
func (c *RolesClient) Unassign(ctx context.Context, userID int64, roleName string) error {
	params := url.Values{
		"userId":   []string{strconv.FormatInt(userID, 10)},
		"roleName": []string{roleName},
	}

	_, err := c.conn.MakeRequest(ctx, http.MethodDelete, "userRole", params)
	if err != nil {
		return fmt.Errorf("unassigning role: %w", err)
	}

	return nil
}
