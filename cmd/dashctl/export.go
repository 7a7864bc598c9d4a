package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/GregMSThompson/dashboard-builder/internal/export"
)

func (a *app) exportCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "export <slug>",
		Short: "Export every widget's records to an xlsx workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c := a.client()
			d, err := c.GetDashboard(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get dashboard: %w", err)
			}

			sheets := make([]export.Sheet, len(d.Components))
			g, gctx := errgroup.WithContext(ctx)
			g.SetLimit(4)
			for i, comp := range d.Components {
				g.Go(func() error {
					recs, err := c.ListRecords(gctx, comp.ComponentID)
					if err != nil {
						return fmt.Errorf("records of %s: %w", comp.ComponentID, err)
					}
					sheets[i] = export.Sheet{Component: comp, Records: recs}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			if file == "" {
				file = d.Slug + ".xlsx"
			}
			out, err := os.Create(file)
			if err != nil {
				return err
			}
			if err := export.Write(out, sheets); err != nil {
				out.Close()
				return fmt.Errorf("failed to write workbook: %w", err)
			}
			if err := out.Close(); err != nil {
				return err
			}
			a.log.Info("workbook written", "file", file, "sheets", len(sheets))
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d sheet(s) to %s\n", len(sheets), file)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Output path (defaults to <slug>.xlsx)")
	return cmd
}
