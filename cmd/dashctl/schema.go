package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/GregMSThompson/dashboard-builder/internal/errs"
	"github.com/GregMSThompson/dashboard-builder/internal/models"
	"github.com/GregMSThompson/dashboard-builder/internal/schema"
	"github.com/GregMSThompson/dashboard-builder/pkg/helpers"
)

func (a *app) schemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Inspect and edit a widget's field schema",
	}
	cmd.AddCommand(a.schemaShowCmd(), a.schemaAddFieldCmd(), a.schemaRemoveFieldCmd(), a.schemaChangeFieldCmd())
	return cmd
}

type schemaView struct {
	ComponentID string                   `json:"componentId"`
	State       string                   `json:"state"`
	LockCount   int                      `json:"lockCount"`
	Fields      []models.FieldDescriptor `json:"fieldSchema"`
}

func (a *app) loadSchema(cmd *cobra.Command, componentID string) (*schema.Manager, error) {
	sm := schema.NewManager(a.client(), componentID)
	if err := sm.Load(cmd.Context()); err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}
	return sm, nil
}

func (a *app) printSchema(cmd *cobra.Command, sm *schema.Manager) error {
	view := schemaView{
		ComponentID: sm.ComponentID(),
		State:       sm.State().String(),
		LockCount:   sm.LockCount(),
		Fields:      sm.Fields(),
	}
	return printOutput(cmd.OutOrStdout(), a.output(), view, func(w io.Writer) {
		fmt.Fprintf(w, "%s: %s, %d locked\n\n", view.ComponentID, view.State, view.LockCount)
		rows := make([][]string, len(view.Fields))
		for i, f := range view.Fields {
			lock := ""
			if sm.IsFieldLocked(i) {
				lock = "locked"
			}
			rows[i] = []string{strconv.Itoa(i), f.Name, string(f.Type), strconv.FormatBool(f.Required), lock}
		}
		printTable(w, []string{"#", "name", "type", "required", "lock"}, rows)
	})
}

// saveSchema persists the draft and prints the confirmed schema.
func (a *app) saveSchema(cmd *cobra.Command, sm *schema.Manager) error {
	if err := sm.Save(cmd.Context()); err != nil {
		return fmt.Errorf("failed to save schema: %w", err)
	}
	return a.printSchema(cmd, sm)
}

func (a *app) schemaShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <component-id>",
		Short: "Show fields and lock state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sm, err := a.loadSchema(cmd, args[0])
			if err != nil {
				return err
			}
			return a.printSchema(cmd, sm)
		},
	}
}

func (a *app) schemaAddFieldCmd() *cobra.Command {
	var fieldType string
	var required bool

	cmd := &cobra.Command{
		Use:   "add-field <component-id> <name>",
		Short: "Append a field",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sm, err := a.loadSchema(cmd, args[0])
			if err != nil {
				return err
			}
			f := models.FieldDescriptor{Name: args[1], Type: models.FieldType(fieldType), Required: required}
			if err := sm.AddField(f); err != nil {
				return err
			}
			return a.saveSchema(cmd, sm)
		},
	}
	cmd.Flags().StringVar(&fieldType, "type", string(models.FieldString), "Field type: string, number, boolean, date, datetime, email, url")
	cmd.Flags().BoolVar(&required, "required", false, "Mark the field as required")
	return cmd
}

func (a *app) schemaRemoveFieldCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm-field <component-id> <name|index>",
		Short: "Remove an unlocked field",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sm, err := a.loadSchema(cmd, args[0])
			if err != nil {
				return err
			}
			idx, err := fieldIndex(sm.Fields(), args[1])
			if err != nil {
				return err
			}
			if err := sm.RemoveField(idx); err != nil {
				return err
			}
			return a.saveSchema(cmd, sm)
		},
	}
}

func (a *app) schemaChangeFieldCmd() *cobra.Command {
	var name, fieldType string
	var required bool

	cmd := &cobra.Command{
		Use:     "change-field <component-id> <name|index>",
		Aliases: []string{"rename"},
		Short:   "Rename, retype or toggle required on an unlocked field",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			var change schema.FieldChange
			if flags.Changed("name") {
				change.Name = helpers.Ptr(name)
			}
			if flags.Changed("type") {
				change.Type = helpers.Ptr(models.FieldType(fieldType))
			}
			if flags.Changed("required") {
				change.Required = helpers.Ptr(required)
			}
			if change.Name == nil && change.Type == nil && change.Required == nil {
				return errs.NewValidationError("nothing to change: pass --name, --type or --required")
			}

			sm, err := a.loadSchema(cmd, args[0])
			if err != nil {
				return err
			}
			idx, err := fieldIndex(sm.Fields(), args[1])
			if err != nil {
				return err
			}
			if err := sm.RenameOrRetype(idx, change); err != nil {
				return err
			}
			return a.saveSchema(cmd, sm)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New field name")
	cmd.Flags().StringVar(&fieldType, "type", "", "New field type")
	cmd.Flags().BoolVar(&required, "required", false, "Whether the field is required")
	return cmd
}

// fieldIndex resolves a field by name first, then by position.
func fieldIndex(fields []models.FieldDescriptor, ref string) (int, error) {
	for i, f := range fields {
		if f.Name == ref {
			return i, nil
		}
	}
	if i, err := strconv.Atoi(ref); err == nil && i >= 0 && i < len(fields) {
		return i, nil
	}
	return -1, errs.NewNotFoundError(fmt.Sprintf("field %q not found", ref))
}
