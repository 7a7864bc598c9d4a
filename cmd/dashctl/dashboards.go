package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/GregMSThompson/dashboard-builder/internal/dto"
	"github.com/GregMSThompson/dashboard-builder/internal/models"
	"github.com/GregMSThompson/dashboard-builder/pkg/helpers"
)

func (a *app) dashboardsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dashboards",
		Aliases: []string{"dash"},
		Short:   "Manage dashboards",
	}
	cmd.AddCommand(a.dashboardsListCmd(), a.dashboardsCreateCmd(), a.dashboardsShowCmd(),
		a.dashboardsSettingsCmd(), a.dashboardsDeleteCmd())
	return cmd
}

func (a *app) printDashboards(cmd *cobra.Command, ds []models.Dashboard) error {
	return printOutput(cmd.OutOrStdout(), a.output(), ds, func(w io.Writer) {
		rows := make([][]string, len(ds))
		for i, d := range ds {
			rows[i] = []string{d.Slug, truncate(d.Name, 32), string(d.Visibility), fmt.Sprint(len(d.Components)), d.UpdatedAt.Format("2006-01-02 15:04")}
		}
		printTable(w, []string{"slug", "name", "visibility", "widgets", "updated"}, rows)
	})
}

func (a *app) dashboardsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your dashboards",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, err := a.client().ListDashboards(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list dashboards: %w", err)
			}
			return a.printDashboards(cmd, ds)
		},
	}
}

func (a *app) dashboardsCreateCmd() *cobra.Command {
	var req dto.CreateDashboardRequest
	var visibility string

	cmd := &cobra.Command{
		Use:   "create <slug>",
		Short: "Create a dashboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Slug = args[0]
			if req.Name == "" {
				req.Name = args[0]
			}
			req.Visibility = models.Visibility(visibility)
			req.Password = a.v.GetString("password")
			d, err := a.client().CreateDashboard(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("failed to create dashboard: %w", err)
			}
			return a.printDashboards(cmd, []models.Dashboard{d})
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "Display name (defaults to the slug)")
	cmd.Flags().StringVar(&req.Description, "description", "", "Description")
	cmd.Flags().StringVar(&visibility, "visibility", string(models.VisibilityPrivate), "private, public or password-protected")
	return cmd
}

func (a *app) dashboardsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <slug>",
		Short: "Show a dashboard and its widgets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.client().GetDashboard(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get dashboard: %w", err)
			}
			return printOutput(cmd.OutOrStdout(), a.output(), d, func(w io.Writer) {
				fmt.Fprintf(w, "%s (%s, %s)\n\n", d.Name, d.Slug, d.Visibility)
				rows := make([][]string, len(d.Components))
				for i, c := range d.Components {
					p := c.Position
					rows[i] = []string{c.ComponentID, c.Type, truncate(c.Name, 32),
						fmt.Sprintf("%d,%d", p.X, p.Y), fmt.Sprintf("%dx%d", p.W, p.H), fmt.Sprint(len(c.FieldSchema))}
				}
				printTable(w, []string{"id", "type", "name", "pos", "size", "fields"}, rows)
			})
		},
	}
}

func (a *app) dashboardsSettingsCmd() *cobra.Command {
	var name, description, thumbnail, visibility string

	cmd := &cobra.Command{
		Use:   "settings <slug>",
		Short: "Change name, description, thumbnail or visibility",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req dto.UpdateDashboardRequest
			flags := cmd.Flags()
			if flags.Changed("name") {
				req.Name = helpers.Ptr(name)
			}
			if flags.Changed("description") {
				req.Description = helpers.Ptr(description)
			}
			if flags.Changed("thumbnail") {
				req.Thumbnail = helpers.Ptr(thumbnail)
			}
			if flags.Changed("visibility") {
				req.Visibility = helpers.Ptr(models.Visibility(visibility))
			}
			if pw := a.v.GetString("password"); pw != "" {
				req.Password = helpers.Ptr(pw)
			}

			s, err := a.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer s.Close(cmd.Context())
			d, err := s.UpdateSettings(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("failed to update settings: %w", err)
			}
			return a.printDashboards(cmd, []models.Dashboard{d})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New display name")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().StringVar(&thumbnail, "thumbnail", "", "New thumbnail URL")
	cmd.Flags().StringVar(&visibility, "visibility", "", "private, public or password-protected (needs --password)")
	return cmd
}

func (a *app) dashboardsDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <slug>",
		Short: "Delete a dashboard with all its widgets and data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := confirm(cmd, fmt.Sprintf("Delete dashboard %q and all of its data?", args[0]))
			if err != nil || !ok {
				return err
			}
			s, err := a.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := s.DeleteDashboard(cmd.Context()); err != nil {
				return fmt.Errorf("failed to delete dashboard: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	return cmd
}
