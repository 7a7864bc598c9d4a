package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/GregMSThompson/dashboard-builder/internal/dto"
	"github.com/GregMSThompson/dashboard-builder/internal/errs"
	"github.com/GregMSThompson/dashboard-builder/internal/layout"
)

func (a *app) widgetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "widgets",
		Aliases: []string{"widget"},
		Short:   "Add, remove and move widgets",
	}
	cmd.AddCommand(a.widgetsAddCmd(), a.widgetsRemoveCmd(), a.widgetsMoveCmd())
	return cmd
}

func (a *app) widgetsAddCmd() *cobra.Command {
	var name string
	var config []string

	cmd := &cobra.Command{
		Use:   "add <slug> <type>",
		Short: "Add a widget with its default configuration",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides, err := parseAssignments(config)
			if err != nil {
				return err
			}
			s, err := a.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer s.Close(cmd.Context())
			s.SetEditMode(true)

			c, err := s.AddWidget(cmd.Context(), dto.CreateComponentRequest{Type: args[1], Name: name, Config: overrides})
			if err != nil {
				return fmt.Errorf("failed to add widget: %w", err)
			}
			return printOutput(cmd.OutOrStdout(), a.output(), c, func(w io.Writer) {
				fmt.Fprintf(w, "added %s %q as %s at %d,%d (%dx%d)\n",
					c.Type, c.Name, c.ComponentID, c.Position.X, c.Position.Y, c.Position.W, c.Position.H)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Widget title (defaults to the type label)")
	cmd.Flags().StringArrayVar(&config, "config", nil, "Config override key=value; values are parsed as JSON when possible")
	return cmd
}

func (a *app) widgetsRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rm <slug> <component-id>",
		Aliases: []string{"remove"},
		Short:   "Remove a widget and its data",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := confirm(cmd, fmt.Sprintf("Remove widget %s and its data?", args[1]))
			if err != nil || !ok {
				return err
			}
			s, err := a.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer s.Close(cmd.Context())
			s.SetEditMode(true)
			if err := s.DeleteWidget(cmd.Context(), args[1]); err != nil {
				return fmt.Errorf("failed to remove widget: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[1])
			return nil
		},
	}
	cmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func (a *app) widgetsMoveCmd() *cobra.Command {
	var x, y, w, h int

	cmd := &cobra.Command{
		Use:   "move <slug> <component-id>",
		Short: "Move or resize a widget on the grid",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			s.SetEditMode(true)

			items := s.Layout().Items()
			found := false
			flags := cmd.Flags()
			for i := range items {
				if items[i].I != args[1] {
					continue
				}
				found = true
				if flags.Changed("x") {
					items[i].X = x
				}
				if flags.Changed("y") {
					items[i].Y = y
				}
				if flags.Changed("w") {
					items[i].W = w
				}
				if flags.Changed("h") {
					items[i].H = h
				}
			}
			if !found {
				s.Close(cmd.Context())
				return errs.NewNotFoundError(fmt.Sprintf("component %s not found on %s", args[1], args[0]))
			}
			s.OnLayoutChange(items)

			// Close flushes the pending save without waiting for the debounce.
			report, err := s.Close(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to save layout: %w", err)
			}
			return printOutput(cmd.OutOrStdout(), a.output(), report, func(out io.Writer) {
				printSaveReport(out, report)
			})
		},
	}
	cmd.Flags().IntVar(&x, "x", 0, "Column (0-11)")
	cmd.Flags().IntVar(&y, "y", 0, "Row")
	cmd.Flags().IntVar(&w, "w", 0, "Width in columns")
	cmd.Flags().IntVar(&h, "h", 0, "Height in rows")
	return cmd
}

func printSaveReport(w io.Writer, r layout.SaveReport) {
	mode := "per widget"
	if r.Batched {
		mode = "batch"
	}
	fmt.Fprintf(w, "saved %d widget(s) (%s)\n", len(r.Saved), mode)
	for _, f := range r.Failed {
		fmt.Fprintf(w, "failed %s: %s\n", f.ComponentID, f.Message)
	}
}

// parseAssignments turns key=value pairs into a map. Values that are valid
// JSON keep their JSON type; anything else is a string.
func parseAssignments(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, p := range pairs {
		key, raw, ok := strings.Cut(p, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, errs.NewValidationError(fmt.Sprintf("expected key=value, got %q", p))
		}
		out[key] = parseLiteral(raw)
	}
	return out, nil
}

func parseLiteral(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v
	}
	return raw
}
