package main

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/GregMSThompson/dashboard-builder/internal/registry"
)

func (a *app) typesCmd() *cobra.Command {
	var category string
	var remote bool

	cmd := &cobra.Command{
		Use:   "types",
		Short: "List the widget types that can be added to a dashboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			descs := a.registry.All()
			if remote {
				var err error
				if descs, err = a.client().WidgetTypes(cmd.Context()); err != nil {
					return fmt.Errorf("failed to fetch widget types: %w", err)
				}
			}
			if category != "" {
				c := registry.Category(category)
				if !slices.Contains(registry.Categories(), c) {
					return fmt.Errorf("unknown category %q (want one of %v)", category, registry.Categories())
				}
				descs = slices.DeleteFunc(descs, func(d registry.Descriptor) bool { return d.Category != c })
			}
			return printOutput(cmd.OutOrStdout(), a.output(), descs, func(w io.Writer) {
				rows := make([][]string, len(descs))
				for i, d := range descs {
					rows[i] = []string{
						string(d.Type),
						string(d.Category),
						d.Label,
						fmt.Sprintf("%dx%d", d.DefaultPosition.W, d.DefaultPosition.H),
						truncate(d.Description, 48),
					}
				}
				printTable(w, []string{"type", "category", "label", "size", "description"}, rows)
			})
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "Only list one category: chart, data, content, layout")
	cmd.Flags().BoolVar(&remote, "remote", false, "Ask the server for its catalogue instead of the built-in one")
	return cmd
}
