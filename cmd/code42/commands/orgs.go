package commands

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/code42/code42-go/pkg/code42"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewOrgsCommand creates the organizations command group.
func NewOrgsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "orgs",
		Aliases: []string{"organizations", "org"},
		Short:   "Manage organizations",
		Long:    "List, create, update, activate, deactivate, block, and unblock Code42 organizations",
	}

	cmd.AddCommand(newOrgsListCommand())
	cmd.AddCommand(newOrgsGetCommand())
	cmd.AddCommand(newOrgsFindCommand())
	cmd.AddCommand(newOrgsCreateCommand())
	cmd.AddCommand(newOrgsUpdateCommand())
	cmd.AddCommand(newOrgsToggleCommand("activate", "Activate an organization", "activated",
		func(ctx context.Context, orgs code42.OrgsClient, id string) (*code42.Org, error) {
			return orgs.Activate(ctx, id, nil)
		}))
	cmd.AddCommand(newOrgsToggleCommand("deactivate", "Deactivate an organization", "deactivated",
		func(ctx context.Context, orgs code42.OrgsClient, id string) (*code42.Org, error) {
			return orgs.Deactivate(ctx, id, nil)
		}))
	cmd.AddCommand(newOrgsToggleCommand("block", "Block an organization", "blocked",
		func(ctx context.Context, orgs code42.OrgsClient, id string) (*code42.Org, error) {
			return orgs.Block(ctx, id, nil)
		}))
	cmd.AddCommand(newOrgsToggleCommand("unblock", "Unblock an organization", "unblocked",
		func(ctx context.Context, orgs code42.OrgsClient, id string) (*code42.Org, error) {
			return orgs.Unblock(ctx, id, nil)
		}))
	cmd.AddCommand(newOrgsShareDestinationsCommand())

	return cmd
}

func newOrgsListCommand() *cobra.Command {
	var (
		query    string
		inactive bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List organizations",
		Long:  "List the organizations visible to the user, optionally filtered by a search query",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cleanup, err := CreateClient()
			if err != nil {
				return err
			}
			defer cleanup()

			params := url.Values{}
			if inactive {
				params.Set("active", "false")
			}

			var orgs []*code42.Org
			if query != "" {
				orgs, err = client.Orgs().Search(commandContext(cmd), query, params)
			} else {
				orgs, err = client.Orgs().List(commandContext(cmd), params)
			}

			if err != nil {
				return fmt.Errorf("failed to list organizations: %w", err)
			}

			return renderOutput(orgs, renderOrganizationTable)
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "search query")
	cmd.Flags().BoolVar(&inactive, "inactive", false, "list inactive organizations")

	return cmd
}

func renderOrganizationTable(orgs []*code42.Org) error {
	if len(orgs) == 0 {
		_, _ = os.Stdout.WriteString("No organizations found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Name", "Status", "Parent", "Blocked", "Created")

	for _, org := range orgs {
		_ = table.Append(
			formatID(org.ID),
			org.Name,
			org.Status,
			formatID(org.ParentID),
			strconv.FormatBool(org.Blocked),
			formatDate(org.CreationDate, dateFormat),
		)
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func newOrgsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get [ORG_ID]",
		Short: "Get organization details",
		Long:  "Display detailed information about an organization, the user's own by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cleanup, err := CreateClient()
			if err != nil {
				return err
			}
			defer cleanup()

			var id string
			if len(args) == 1 {
				id = args[0]
			}

			org, err := client.Orgs().Get(commandContext(cmd), id, nil)
			if err != nil {
				return fmt.Errorf("failed to get organization: %w", err)
			}

			return renderOutput(org, renderOrganizationDetailsTable)
		},
	}
}

func newOrgsFindCommand() *cobra.Command {
	var inactive bool

	cmd := &cobra.Command{
		Use:   "find ORG_NAME",
		Short: "Find an organization by name",
		Long:  "Find an organization by its exact name, or the first inactive organization matching the name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cleanup, err := CreateClient()
			if err != nil {
				return err
			}
			defer cleanup()

			find := client.Orgs().FindByName
			if inactive {
				find = client.Orgs().FindInactiveByName
			}

			org, err := find(commandContext(cmd), args[0], nil)
			if err != nil {
				return fmt.Errorf("failed to find organization: %w", err)
			}

			return renderOutput(org, renderOrganizationDetailsTable)
		},
	}

	cmd.Flags().BoolVar(&inactive, "inactive", false, "search inactive organizations")

	return cmd
}

func renderOrganizationDetailsTable(org *code42.Org) error {
	_, _ = os.Stdout.WriteString("Organization details:\n\n")

	return renderProperties(os.Stdout, organizationProperties(org))
}

func organizationProperties(org *code42.Org) [][2]string {
	rows := [][2]string{
		{"ID", formatID(org.ID)},
		{"UID", org.UID},
		{"Name", org.Name},
		{"Status", org.Status},
		{"Active", strconv.FormatBool(org.Active)},
		{"Blocked", strconv.FormatBool(org.Blocked)},
		{"Parent ID", formatID(org.ParentID)},
		{"Type", org.Type},
		{"Created", formatDate(org.CreationDate, dateTimeFormat)},
		{"Updated", formatDate(org.ModificationDate, dateTimeFormat)},
	}

	if org.ExternalID != "" {
		rows = append(rows, [2]string{"External ID", org.ExternalID})
	}

	if org.RegistrationKey != "" {
		rows = append(rows, [2]string{"Registration Key", org.RegistrationKey})
	}

	return rows
}

// orgAttributes collects the organization attributes set on the command line.
func orgAttributes(cmd *cobra.Command) map[string]any {
	attrs := map[string]any{}

	if cmd.Flags().Changed("name") {
		name, _ := cmd.Flags().GetString("name")
		attrs["name"] = name
	}

	if cmd.Flags().Changed("parent-id") {
		parentID, _ := cmd.Flags().GetInt64("parent-id")
		attrs["parent_id"] = parentID
	}

	if cmd.Flags().Changed("external-id") {
		externalID, _ := cmd.Flags().GetString("external-id")
		attrs["external_id"] = externalID
	}

	return attrs
}

func addOrgAttributeFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "organization name")
	cmd.Flags().Int64("parent-id", 0, "parent organization ID")
	cmd.Flags().String("external-id", "", "external identifier")
}

func newOrgsCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new organization",
		Long:  "Create a new Code42 organization",
		RunE: func(cmd *cobra.Command, args []string) error {
			attrs := orgAttributes(cmd)
			if attrs["name"] == nil || attrs["name"] == "" {
				return ErrNameRequired
			}

			client, cleanup, err := CreateClient()
			if err != nil {
				return err
			}
			defer cleanup()

			org, err := client.Orgs().Create(commandContext(cmd), attrs)
			if err != nil {
				return fmt.Errorf("failed to create organization: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Successfully created organization '%s' (%d)\n", org.Name, org.ID)

			return nil
		},
	}

	addOrgAttributeFlags(cmd)

	return cmd
}

func newOrgsUpdateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update ORG_ID",
		Short: "Update an organization",
		Long:  "Update an existing Code42 organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cleanup, err := CreateClient()
			if err != nil {
				return err
			}
			defer cleanup()

			org, err := client.Orgs().Update(commandContext(cmd), args[0], orgAttributes(cmd))
			if err != nil {
				return fmt.Errorf("failed to update organization: %w", err)
			}

			return renderOutput(org, renderOrganizationDetailsTable)
		},
	}

	addOrgAttributeFlags(cmd)

	return cmd
}

// orgToggleFunc changes the state of a single organization.
type orgToggleFunc func(ctx context.Context, orgs code42.OrgsClient, id string) (*code42.Org, error)

func newOrgsToggleCommand(use, short, past string, toggle orgToggleFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ORG_ID",
		Short: short,
		Long:  short + " by its ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cleanup, err := CreateClient()
			if err != nil {
				return err
			}
			defer cleanup()

			org, err := toggle(commandContext(cmd), client.Orgs(), args[0])
			if err != nil {
				return fmt.Errorf("failed to %s organization: %w", use, err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Successfully %s organization '%s'\n", past, org.Name)

			return nil
		},
	}
}

func newOrgsShareDestinationsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "share-destinations [ORG_ID]",
		Short: "Show organization share destinations",
		Long:  "Display the destinations an organization may back up to",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cleanup, err := CreateClient()
			if err != nil {
				return err
			}
			defer cleanup()

			var id string
			if len(args) == 1 {
				id = args[0]
			}

			destinations, err := client.Orgs().ShareDestinations(commandContext(cmd), id)
			if err != nil {
				return fmt.Errorf("failed to get share destinations: %w", err)
			}

			return renderOutput(destinations, renderShareDestinationsTable)
		},
	}
}

func renderShareDestinationsTable(destinations any) error {
	entries, ok := destinations.(map[string]any)
	if !ok {
		return StandardYAMLRenderer(destinations)
	}

	if len(entries) == 0 {
		_, _ = os.Stdout.WriteString("No share destinations found\n")

		return nil
	}

	rows := make([][2]string, 0, len(entries))
	for _, key := range sortedKeys(entries) {
		rows = append(rows, [2]string{key, fmt.Sprint(entries[key])})
	}

	return renderProperties(os.Stdout, rows)
}
