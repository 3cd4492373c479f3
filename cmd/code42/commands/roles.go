package commands

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/code42/code42-go/pkg/code42"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewRolesCommand creates the roles command group.
func NewRolesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "roles",
		Aliases: []string{"role"},
		Short:   "Manage roles",
		Long:    "List roles and manage the roles assigned to users",
	}

	cmd.AddCommand(newRolesListCommand())
	cmd.AddCommand(newRolesUserCommand())
	cmd.AddCommand(newRolesAssignCommand())
	cmd.AddCommand(newRolesUnassignCommand())

	return cmd
}

func newRolesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List roles",
		Long:  "List all roles defined on the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cleanup, err := CreateClient()
			if err != nil {
				return err
			}
			defer cleanup()

			collection, err := client.Roles().List(commandContext(cmd))
			if err != nil {
				return fmt.Errorf("failed to list roles: %w", err)
			}

			roles, err := code42.NewRoles(collection)
			if err != nil {
				return fmt.Errorf("failed to list roles: %w", err)
			}

			return renderOutput(roles, renderRolesTable)
		},
	}
}

func renderRolesTable(roles []*code42.Role) error {
	if len(roles) == 0 {
		_, _ = os.Stdout.WriteString("No roles found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Name", "Locked", "Permissions")

	for _, role := range roles {
		_ = table.Append(
			formatID(role.ID),
			role.Name,
			strconv.FormatBool(role.Locked),
			strconv.Itoa(len(role.Permissions)),
		)
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func newRolesUserCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "user USER_ID",
		Short: "List the roles of a user",
		Long:  "List the roles assigned to a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseID(args[0])
			if err != nil {
				return err
			}

			client, cleanup, err := CreateClient()
			if err != nil {
				return err
			}
			defer cleanup()

			collection, err := client.Roles().UserRoles(commandContext(cmd), userID)
			if err != nil {
				return fmt.Errorf("failed to list user roles: %w", err)
			}

			userRoles := make([]*code42.UserRole, 0, collection.Len())

			for _, resource := range collection.Items() {
				userRole, err := code42.NewUserRole(resource)
				if err != nil {
					return fmt.Errorf("failed to list user roles: %w", err)
				}

				userRoles = append(userRoles, userRole)
			}

			return renderOutput(userRoles, renderUserRolesTable)
		},
	}
}

func renderUserRolesTable(userRoles []*code42.UserRole) error {
	if len(userRoles) == 0 {
		_, _ = os.Stdout.WriteString("No roles assigned\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Role ID", "Role", "Locked", "Assigned")

	for _, userRole := range userRoles {
		_ = table.Append(
			formatID(userRole.RoleID),
			userRole.RoleName,
			strconv.FormatBool(userRole.Locked),
			formatDate(userRole.CreationDate, dateFormat),
		)
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func newRolesAssignCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "assign USER_ID ROLE_NAME",
		Short: "Assign a role to a user",
		Long:  "Assign a named role to a user",
		Args:  cobra.ExactArgs(2), //nolint:mnd // user and role
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseID(args[0])
			if err != nil {
				return err
			}

			client, cleanup, err := CreateClient()
			if err != nil {
				return err
			}
			defer cleanup()

			userRole, err := client.Roles().Assign(commandContext(cmd), userID, args[1])
			if err != nil {
				return fmt.Errorf("failed to assign role: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Successfully assigned role '%s' to user %d\n", userRole.RoleName, userID)

			if len(userRole.Permissions) > 0 {
				permissions := make([]string, 0, len(userRole.Permissions))
				for _, permission := range userRole.Permissions {
					permissions = append(permissions, fmt.Sprint(permission))
				}

				_, _ = fmt.Fprintf(os.Stdout, "Permissions: %s\n", strings.Join(permissions, ", "))
			}

			return nil
		},
	}
}

func newRolesUnassignCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unassign USER_ID ROLE_NAME",
		Short: "Remove a role from a user",
		Long:  "Remove a named role from a user",
		Args:  cobra.ExactArgs(2), //nolint:mnd // user and role
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseID(args[0])
			if err != nil {
				return err
			}

			client, cleanup, err := CreateClient()
			if err != nil {
				return err
			}
			defer cleanup()

			err = client.Roles().Unassign(commandContext(cmd), userID, args[1])
			if err != nil {
				return fmt.Errorf("failed to unassign role: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Successfully removed role '%s' from user %d\n", args[1], userID)

			return nil
		},
	}
}
