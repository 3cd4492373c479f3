package code42

import (
	"fmt"
	"time"
)

// OrgSchema describes organizations.
var OrgSchema = NewSchema().
	Declare("id", WireName("orgId")).
	Declare("uid", WireName("orgUid")).
	Declare("name", WireName("orgName")).
	Declare("status").
	Declare("active").
	Declare("blocked").
	Declare("parent_id", WireName("parentOrgId")).
	Declare("type").
	Declare("external_id").
	Declare("hierarchy_counts").
	Declare("config_inheritance_counts").
	Declare("creation_date").
	Declare("modification_date").
	Declare("registration_key").
	Declare("reporting").
	Declare("custom_config").
	Declare("settings").
	Declare("settings_inherited").
	Declare("settings_summary")

// RoleSchema describes roles.
var RoleSchema = NewSchema().
	Declare("id", WireName("roleId")).
	Declare("name", WireName("roleName")).
	Declare("locked").
	Declare("permissions").
	Declare("creation_date").
	Declare("modification_date")

// UserRoleSchema describes a role assigned to a user.
var UserRoleSchema = NewSchema().
	Declare("user_id").
	Declare("role_id").
	Declare("role_name").
	Declare("locked").
	Declare("permissions").
	Declare("creation_date").
	Declare("modification_date")

// Org is an organization.
type Org struct {
	ID               int64          `mapstructure:"id"                json:"id"                yaml:"id"`
	UID              string         `mapstructure:"uid"               json:"uid"               yaml:"uid"`
	Name             string         `mapstructure:"name"              json:"name"              yaml:"name"`
	Status           string         `mapstructure:"status"            json:"status"            yaml:"status"`
	Active           bool           `mapstructure:"active"            json:"active"            yaml:"active"`
	Blocked          bool           `mapstructure:"blocked"           json:"blocked"           yaml:"blocked"`
	ParentID         int64          `mapstructure:"parent_id"         json:"parent_id"         yaml:"parent_id"`
	Type             string         `mapstructure:"type"              json:"type"              yaml:"type"`
	ExternalID       string         `mapstructure:"external_id"       json:"external_id"       yaml:"external_id"`
	RegistrationKey  string         `mapstructure:"registration_key"  json:"registration_key"  yaml:"registration_key"`
	CreationDate     time.Time      `mapstructure:"creation_date"     json:"creation_date"     yaml:"creation_date"`
	ModificationDate time.Time      `mapstructure:"modification_date" json:"modification_date" yaml:"modification_date"`
	Settings         map[string]any `mapstructure:"settings"          json:"settings"          yaml:"settings"`
	// Extra holds declared attributes without a dedicated field.
	Extra map[string]any `mapstructure:",remain" json:"extra,omitempty" yaml:"extra,omitempty"`

	Resource *Resource `mapstructure:"-" json:"-" yaml:"-"`
}

// Role is a named set of permissions.
type Role struct {
	ID               int64     `mapstructure:"id"                json:"id"                yaml:"id"`
	Name             string    `mapstructure:"name"              json:"name"              yaml:"name"`
	Locked           bool      `mapstructure:"locked"            json:"locked"            yaml:"locked"`
	Permissions      []any     `mapstructure:"permissions"       json:"permissions"       yaml:"permissions"`
	CreationDate     time.Time `mapstructure:"creation_date"     json:"creation_date"     yaml:"creation_date"`
	ModificationDate time.Time `mapstructure:"modification_date" json:"modification_date" yaml:"modification_date"`

	Extra map[string]any `mapstructure:",remain" json:"extra,omitempty" yaml:"extra,omitempty"`

	Resource *Resource `mapstructure:"-" json:"-" yaml:"-"`
}

// UserRole is a role assignment.
type UserRole struct {
	UserID           int64     `mapstructure:"user_id"           json:"user_id"           yaml:"user_id"`
	RoleID           int64     `mapstructure:"role_id"           json:"role_id"           yaml:"role_id"`
	RoleName         string    `mapstructure:"role_name"         json:"role_name"         yaml:"role_name"`
	Locked           bool      `mapstructure:"locked"            json:"locked"            yaml:"locked"`
	Permissions      []any     `mapstructure:"permissions"       json:"permissions"       yaml:"permissions"`
	CreationDate     time.Time `mapstructure:"creation_date"     json:"creation_date"     yaml:"creation_date"`
	ModificationDate time.Time `mapstructure:"modification_date" json:"modification_date" yaml:"modification_date"`

	Extra map[string]any `mapstructure:",remain" json:"extra,omitempty" yaml:"extra,omitempty"`

	Resource *Resource `mapstructure:"-" json:"-" yaml:"-"`
}

// NewOrg decodes an org from a resource built with OrgSchema.
func NewOrg(r *Resource) (*Org, error) {
	org := &Org{Resource: r}

	err := r.Decode(org)
	if err != nil {
		return nil, fmt.Errorf("decoding org: %w", err)
	}

	return org, nil
}

// NewRole decodes a role from a resource built with RoleSchema.
func NewRole(r *Resource) (*Role, error) {
	role := &Role{Resource: r}

	err := r.Decode(role)
	if err != nil {
		return nil, fmt.Errorf("decoding role: %w", err)
	}

	return role, nil
}

// NewUserRole decodes a role assignment from a resource built with
// UserRoleSchema.
func NewUserRole(r *Resource) (*UserRole, error) {
	userRole := &UserRole{Resource: r}

	err := r.Decode(userRole)
	if err != nil {
		return nil, fmt.Errorf("decoding user role: %w", err)
	}

	return userRole, nil
}

// NewOrgs decodes every member of a collection built with OrgSchema.
func NewOrgs(c *Collection) ([]*Org, error) {
	orgs := make([]*Org, 0, c.Len())

	for _, r := range c.Items() {
		org, err := NewOrg(r)
		if err != nil {
			return nil, err
		}

		orgs = append(orgs, org)
	}

	return orgs, nil
}

// NewRoles decodes every member of a collection built with RoleSchema.
func NewRoles(c *Collection) ([]*Role, error) {
	roles := make([]*Role, 0, c.Len())

	for _, r := range c.Items() {
		role, err := NewRole(r)
		if err != nil {
			return nil, err
		}

		roles = append(roles, role)
	}

	return roles, nil
}
