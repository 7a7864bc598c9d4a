package render

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/GregMSThompson/dashboard-builder/internal/models"
)

type ProgressItem struct {
	Label   string  `json:"label"`
	Value   any     `json:"value"`
	Max     float64 `json:"max"`
	Percent float64 `json:"percent"`
}

type HeatCell struct {
	X     string `json:"x"`
	Y     string `json:"y"`
	Value any    `json:"value"`
}

// TableColumns is the ordered union of record keys: each record's keys sorted,
// new ones appended in first-seen order.
func TableColumns(rows []map[string]any) []string {
	seen := mapset.NewThreadUnsafeSet[string]()
	var cols []string
	for _, row := range rows {
		for _, k := range sortedKeys(row) {
			if seen.Add(k) {
				cols = append(cols, k)
			}
		}
	}
	return cols
}

func renderTable(c models.Component, rows []map[string]any) *VNode {
	cols := TableColumns(rows)
	cells := make([][]any, 0, len(rows))
	for _, row := range rows {
		line := make([]any, len(cols))
		for i, col := range cols {
			line[i] = row[col]
		}
		cells = append(cells, line)
	}

	pageSize := int(configFloat(c.Config, "pageSize", 10))
	pages := 1
	if configBool(c.Config, "pagination", true) && pageSize > 0 {
		pages = (len(cells) + pageSize - 1) / pageSize
	}
	return El(TagTable, Props{
		"columns":    cols,
		"rows":       cells,
		"sortable":   configBool(c.Config, "sortable", true),
		"filterable": configBool(c.Config, "filterable", true),
		"pagination": configBool(c.Config, "pagination", true),
		"pageSize":   pageSize,
		"pages":      pages,
	})
}

// renderMetric shows the latest record.
func renderMetric(c models.Component, rows []map[string]any) *VNode {
	last := rows[len(rows)-1]
	valueKey := MetricValueKeys.Pick(last)
	labelKey := MetricLabelKeys.Pick(last)

	props := Props{
		"valueKey": valueKey,
		"value":    number(last[valueKey]),
		"prefix":   configString(c.Config, "prefix", ""),
		"suffix":   configString(c.Config, "suffix", ""),
	}
	if v, ok := last[labelKey]; ok {
		props["label"] = label(v)
	} else {
		props["label"] = c.Name
	}
	if configBool(c.Config, "showTrend", true) {
		trendKey := MetricTrendKeys.Pick(last)
		if t, ok := last[trendKey]; ok {
			props["trend"] = number(t)
		}
	}
	props["showIcon"] = configBool(c.Config, "showIcon", true)
	return El(TagMetric, props)
}

func renderProgress(c models.Component, rows []map[string]any) *VNode {
	labelKey := ProgressLabelKeys.Pick(rows[0])
	valueKey := ProgressValueKeys.Pick(rows[0])
	maxKey := ProgressMaxKeys.Pick(rows[0])
	fallbackMax := configFloat(c.Config, "max", 100)

	items := make([]ProgressItem, 0, len(rows))
	for _, row := range rows {
		it := ProgressItem{Label: label(row[labelKey]), Value: number(row[valueKey]), Max: fallbackMax}
		if m, ok := toFloat(row[maxKey]); ok && m > 0 {
			it.Max = m
		}
		if v, ok := toFloat(row[valueKey]); ok && it.Max > 0 {
			it.Percent = clamp(v/it.Max*100, 0, 100)
		}
		items = append(items, it)
	}
	return El(TagProgress, Props{
		"labelKey":       labelKey,
		"valueKey":       valueKey,
		"items":          items,
		"showPercentage": configBool(c.Config, "showPercentage", true),
	})
}

func renderHeatmap(c models.Component, rows []map[string]any) *VNode {
	xKey := HeatmapXKeys.Pick(rows[0])
	yKey := HeatmapYKeys.Pick(rows[0])
	valueKey := HeatmapValueKeys.Pick(rows[0])

	xs, ys := mapset.NewThreadUnsafeSet[string](), mapset.NewThreadUnsafeSet[string]()
	var xLabels, yLabels []string
	cells := make([]HeatCell, 0, len(rows))
	lo, hi, found := 0.0, 0.0, false
	for _, row := range rows {
		cell := HeatCell{X: label(row[xKey]), Y: label(row[yKey]), Value: number(row[valueKey])}
		if xs.Add(cell.X) {
			xLabels = append(xLabels, cell.X)
		}
		if ys.Add(cell.Y) {
			yLabels = append(yLabels, cell.Y)
		}
		if v, ok := toFloat(row[valueKey]); ok {
			if !found {
				lo, hi, found = v, v, true
			}
			lo, hi = min(lo, v), max(hi, v)
		}
		cells = append(cells, cell)
	}
	return El(TagHeatmap, Props{
		"xKey":       xKey,
		"yKey":       yKey,
		"valueKey":   valueKey,
		"xLabels":    xLabels,
		"yLabels":    yLabels,
		"cells":      cells,
		"min":        lo,
		"max":        hi,
		"colorScale": configString(c.Config, "colorScale", "blues"),
		"showValues": configBool(c.Config, "showValues", false),
	})
}

func renderTreemap(c models.Component, rows []map[string]any) *VNode {
	labelKey := TreemapLabelKeys.Pick(rows[0])
	valueKey := TreemapValueKeys.Pick(rows[0])

	tiles := make([]Slice, 0, len(rows))
	for _, row := range rows {
		tiles = append(tiles, Slice{Label: label(row[labelKey]), Value: number(row[valueKey])})
	}
	withShares(tiles)
	return El(TagTreemap, Props{
		"labelKey":   labelKey,
		"valueKey":   valueKey,
		"tiles":      sortedSlices(tiles),
		"showLabels": configBool(c.Config, "showLabels", true),
	})
}
