package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/GregMSThompson/dashboard-builder/internal/composer"
)

func (a *app) renderCmd() *cobra.Command {
	var widget string

	cmd := &cobra.Command{
		Use:   "render <slug>",
		Short: "Render a dashboard to its visual tree",
		Long: `render fetches every widget's records and runs the matching renderer. Table
output summarises each widget; json and yaml print the full node trees.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer s.Close(cmd.Context())

			var widgets []composer.Widget
			if widget != "" {
				w, err := s.RenderWidget(cmd.Context(), widget)
				if err != nil {
					return fmt.Errorf("failed to render widget: %w", err)
				}
				widgets = []composer.Widget{w}
			} else {
				widgets, err = s.Render(cmd.Context())
				if err != nil {
					return fmt.Errorf("failed to render dashboard: %w", err)
				}
			}

			return printOutput(cmd.OutOrStdout(), a.output(), widgets, func(w io.Writer) {
				rows := make([][]string, len(widgets))
				for i, wd := range widgets {
					tag := ""
					if wd.Node != nil {
						tag = wd.Node.Tag
					}
					status := "ok"
					if wd.Err != nil {
						status = truncate(wd.Err.Error(), 40)
					}
					rows[i] = []string{wd.Component.ComponentID, wd.Component.Type, truncate(wd.Component.Name, 28),
						tag, fmt.Sprint(wd.Records), status}
				}
				printTable(w, []string{"id", "type", "name", "node", "records", "status"}, rows)
			})
		},
	}
	cmd.Flags().StringVar(&widget, "widget", "", "Render only this component id")
	return cmd
}
