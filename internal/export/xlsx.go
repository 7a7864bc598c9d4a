// Package export writes widget data to spreadsheets.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/GregMSThompson/dashboard-builder/internal/models"
	"github.com/GregMSThompson/dashboard-builder/internal/render"
)

const maxSheetName = 31

// Sheet is one widget's data.
type Sheet struct {
	Component models.Component
	Records   []models.DataRecord
}

// Columns lists the schema fields in order, followed by any keys the records
// carry that the schema does not declare.
func Columns(c models.Component, recs []models.DataRecord) []string {
	cols := make([]string, 0, len(c.FieldSchema))
	declared := make(map[string]bool, len(c.FieldSchema))
	for _, f := range c.FieldSchema {
		cols = append(cols, f.Name)
		declared[f.Name] = true
	}
	rows := make([]map[string]any, len(recs))
	for i, r := range recs {
		rows[i] = r.Data
	}
	for _, k := range render.TableColumns(rows) {
		if !declared[k] {
			cols = append(cols, k)
		}
	}
	return cols
}

// Workbook builds a workbook with one sheet per widget. The caller closes it.
func Workbook(sheets []Sheet) (*excelize.File, error) {
	f := excelize.NewFile()
	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}

	used := map[string]bool{}
	for i, s := range sheets {
		name := uniqueSheetName(s.Component.Name, used)
		if i == 0 {
			err = f.SetSheetName("Sheet1", name)
		} else {
			_, err = f.NewSheet(name)
		}
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("sheet %q: %w", name, err)
		}
		if err := writeSheet(f, name, header, s); err != nil {
			f.Close()
			return nil, fmt.Errorf("sheet %q: %w", name, err)
		}
	}
	return f, nil
}

// Write encodes the workbook for sheets to w.
func Write(w io.Writer, sheets []Sheet) error {
	f, err := Workbook(sheets)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteTo(w)
	return err
}

func writeSheet(f *excelize.File, sheet string, headerStyle int, s Sheet) error {
	cols := Columns(s.Component, s.Records)
	if len(cols) == 0 {
		return nil
	}
	head := make([]any, len(cols))
	for i, c := range cols {
		head[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &head); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(cols), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for i, r := range s.Records {
		row := make([]any, len(cols))
		for j, c := range cols {
			row[j] = cellValue(r.Data[c])
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

// cellValue flattens values excelize cannot store natively.
func cellValue(v any) any {
	switch v.(type) {
	case nil, string, bool, float64, float32, int, int64, int32:
		return v
	}
	return fmt.Sprint(v)
}

var sheetNameReplacer = strings.NewReplacer(":", "-", "\\", "-", "/", "-", "?", "", "*", "", "[", "(", "]", ")")

func uniqueSheetName(name string, used map[string]bool) string {
	base := strings.Trim(sheetNameReplacer.Replace(strings.TrimSpace(name)), "'")
	if base == "" {
		base = "Widget"
	}
	base = truncate(base, maxSheetName)
	candidate := base
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		candidate = truncate(base, maxSheetName-len(suffix)) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
