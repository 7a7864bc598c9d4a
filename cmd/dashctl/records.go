package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/GregMSThompson/dashboard-builder/internal/errs"
	"github.com/GregMSThompson/dashboard-builder/internal/export"
	"github.com/GregMSThompson/dashboard-builder/internal/models"
)

func (a *app) recordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "records",
		Aliases: []string{"data"},
		Short:   "List and edit a widget's data records",
	}
	cmd.AddCommand(a.recordsListCmd(), a.recordsAddCmd(), a.recordsUpdateCmd(), a.recordsRemoveCmd())
	return cmd
}

func (a *app) printRecords(cmd *cobra.Command, fields []models.FieldDescriptor, recs []models.DataRecord) error {
	return printOutput(cmd.OutOrStdout(), a.output(), recs, func(w io.Writer) {
		cols := export.Columns(models.Component{FieldSchema: fields}, recs)
		headers := append([]string{"id"}, cols...)
		rows := make([][]string, len(recs))
		for i, r := range recs {
			row := []string{r.ID}
			for _, c := range cols {
				v, ok := r.Data[c]
				if !ok || v == nil {
					row = append(row, "")
					continue
				}
				row = append(row, truncate(fmt.Sprint(v), 24))
			}
			rows[i] = row
		}
		printTable(w, headers, rows)
	})
}

func (a *app) recordsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <component-id>",
		Short: "List records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.editor(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			recs, err := st.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list records: %w", err)
			}
			return a.printRecords(cmd, st.Schema().Saved(), recs)
		},
	}
}

func (a *app) recordsAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <component-id> key=value...",
		Short: "Add a record; the first record locks the current fields",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.editor(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			values, err := parseValues(st.Schema().Saved(), args[1:])
			if err != nil {
				return err
			}
			rec, err := st.Create(cmd.Context(), values)
			if err != nil {
				return fmt.Errorf("failed to add record: %w", err)
			}
			return a.printRecords(cmd, st.Schema().Saved(), []models.DataRecord{rec})
		},
	}
}

func (a *app) recordsUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <component-id> <record-id> key=value...",
		Short: "Replace a record's values",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := confirm(cmd, fmt.Sprintf("Replace all values of record %s?", args[1]))
			if err != nil || !ok {
				return err
			}
			st, err := a.editor(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			values, err := parseValues(st.Schema().Saved(), args[2:])
			if err != nil {
				return err
			}
			rec, err := st.Update(cmd.Context(), args[1], values)
			if err != nil {
				return fmt.Errorf("failed to update record: %w", err)
			}
			return a.printRecords(cmd, st.Schema().Saved(), []models.DataRecord{rec})
		},
	}
	cmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func (a *app) recordsRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rm <component-id> <record-id>",
		Aliases: []string{"delete"},
		Short:   "Delete a record",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := confirm(cmd, fmt.Sprintf("Delete record %s?", args[1]))
			if err != nil || !ok {
				return err
			}
			st, err := a.editor(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := st.Delete(cmd.Context(), args[1]); err != nil {
				return fmt.Errorf("failed to delete record: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[1])
			return nil
		},
	}
	cmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	return cmd
}

// parseValues converts key=value arguments using the declared field types.
// Keys outside the schema keep their JSON type when they parse as JSON.
func parseValues(fields []models.FieldDescriptor, pairs []string) (map[string]any, error) {
	types := make(map[string]models.FieldType, len(fields))
	for _, f := range fields {
		types[f.Name] = f.Type
	}
	out := make(map[string]any, len(pairs))
	for _, p := range pairs {
		key, raw, ok := strings.Cut(p, "=")
		if !ok || key == "" {
			return nil, errs.NewValidationError(fmt.Sprintf("expected key=value, got %q", p))
		}
		ft, known := types[key]
		switch {
		case !known:
			out[key] = parseLiteral(raw)
		case raw == "":
			out[key] = nil
		case ft == models.FieldNumber:
			n, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, errs.NewValidationError(fmt.Sprintf("%s must be a number", key))
			}
			out[key] = n
		case ft == models.FieldBoolean:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return nil, errs.NewValidationError(fmt.Sprintf("%s must be true or false", key))
			}
			out[key] = b
		default:
			out[key] = raw
		}
	}
	return out, nil
}
