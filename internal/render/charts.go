package render

import (
	"slices"

	"github.com/GregMSThompson/dashboard-builder/internal/models"
)

// Slice is one labelled value: a pie slice, funnel stage or treemap tile.
type Slice struct {
	Label string  `json:"label"`
	Value any     `json:"value"`
	Share float64 `json:"share,omitempty"`
}

type ScatterPoint struct {
	X     any    `json:"x"`
	Y     any    `json:"y"`
	Label string `json:"label"`
}

func renderPie(c models.Component, rows []map[string]any) *VNode {
	labelKey := PieLabelKeys.Pick(rows[0])
	valueKey := PieValueKeys.Pick(rows[0])

	pie := make([]Slice, 0, len(rows))
	for _, row := range rows {
		pie = append(pie, Slice{Label: label(row[labelKey]), Value: number(row[valueKey])})
	}
	withShares(pie)
	return El(TagChart, Props{
		"chartType":   "pie",
		"labelKey":    labelKey,
		"valueKey":    valueKey,
		"slices":      pie,
		"showLegend":  configBool(c.Config, "showLegend", true),
		"showLabels":  configBool(c.Config, "showLabels", true),
		"innerRadius": configFloat(c.Config, "innerRadius", 0),
	})
}

// series renderers share the x-axis probe and plot every other numeric key.
func seriesChart(chartType string) renderer {
	return func(c models.Component, rows []map[string]any) *VNode {
		xKey := XAxisKeys.Pick(rows[0])
		series := numericKeys(rows[0], xKey)

		points := make([]map[string]any, 0, len(rows))
		for _, row := range rows {
			p := map[string]any{xKey: row[xKey]}
			for _, s := range series {
				p[s] = number(row[s])
			}
			points = append(points, p)
		}

		props := Props{
			"chartType":  chartType,
			"xKey":       xKey,
			"series":     series,
			"data":       points,
			"showLegend": configBool(c.Config, "showLegend", true),
			"showGrid":   configBool(c.Config, "showGrid", true),
		}
		switch chartType {
		case "bar":
			props["stacked"] = configBool(c.Config, "stacked", false)
			props["horizontal"] = configBool(c.Config, "horizontal", false)
		case "line":
			props["smooth"] = configBool(c.Config, "smooth", false)
			props["showDots"] = configBool(c.Config, "showDots", true)
		case "area":
			props["stacked"] = configBool(c.Config, "stacked", false)
			props["fillOpacity"] = configFloat(c.Config, "fillOpacity", 0.3)
		}
		return El(TagChart, props)
	}
}

func renderScatter(c models.Component, rows []map[string]any) *VNode {
	xKey := ScatterXKeys.Pick(rows[0])
	yKey := ScatterYKeys.Pick(rows[0])
	labelKey := ScatterLabelKeys.Pick(rows[0])

	points := make([]ScatterPoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, ScatterPoint{X: number(row[xKey]), Y: number(row[yKey]), Label: label(row[labelKey])})
	}
	return El(TagChart, Props{
		"chartType": "scatter",
		"xKey":      xKey,
		"yKey":      yKey,
		"labelKey":  labelKey,
		"points":    points,
		"showGrid":  configBool(c.Config, "showGrid", true),
		"pointSize": configFloat(c.Config, "pointSize", 6),
	})
}

// renderGauge shows the most recent record's value against the configured range.
func renderGauge(c models.Component, rows []map[string]any) *VNode {
	last := rows[len(rows)-1]
	valueKey := GaugeValueKeys.Pick(last)
	lo := configFloat(c.Config, "min", 0)
	hi := configFloat(c.Config, "max", 100)

	props := Props{
		"chartType": "gauge",
		"valueKey":  valueKey,
		"value":     number(last[valueKey]),
		"min":       lo,
		"max":       hi,
		"unit":      configString(c.Config, "unit", ""),
	}
	if v, ok := toFloat(last[valueKey]); ok && hi > lo {
		props["percent"] = clamp((v-lo)/(hi-lo)*100, 0, 100)
	}
	return El(TagChart, props)
}

func renderFunnel(c models.Component, rows []map[string]any) *VNode {
	labelKey := FunnelLabelKeys.Pick(rows[0])
	valueKey := FunnelValueKeys.Pick(rows[0])

	stages := make([]Slice, 0, len(rows))
	for _, row := range rows {
		stages = append(stages, Slice{Label: label(row[labelKey]), Value: number(row[valueKey])})
	}
	// funnel shares are relative to the first stage
	if top, ok := toFloat(stages[0].Value); ok && top > 0 {
		for i := range stages {
			if v, ok := toFloat(stages[i].Value); ok {
				stages[i].Share = v / top * 100
			}
		}
	}
	return El(TagChart, Props{
		"chartType":       "funnel",
		"labelKey":        labelKey,
		"valueKey":        valueKey,
		"stages":          stages,
		"showPercentages": configBool(c.Config, "showPercentages", true),
	})
}

func numericKeys(sample map[string]any, exclude string) []string {
	var keys []string
	for _, k := range sortedKeys(sample) {
		if k == exclude {
			continue
		}
		if _, ok := toFloat(sample[k]); ok {
			keys = append(keys, k)
		}
	}
	return keys
}

// withShares fills each slice's share of the numeric total, in percent.
func withShares(s []Slice) {
	var total float64
	for _, sl := range s {
		if v, ok := toFloat(sl.Value); ok && v > 0 {
			total += v
		}
	}
	if total == 0 {
		return
	}
	for i := range s {
		if v, ok := toFloat(s[i].Value); ok && v > 0 {
			s[i].Share = v / total * 100
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}

// sortedSlices returns a copy ordered by descending numeric value.
func sortedSlices(s []Slice) []Slice {
	out := slices.Clone(s)
	slices.SortStableFunc(out, func(a, b Slice) int {
		av, _ := toFloat(a.Value)
		bv, _ := toFloat(b.Value)
		switch {
		case av > bv:
			return -1
		case av < bv:
			return 1
		}
		return 0
	})
	return out
}
