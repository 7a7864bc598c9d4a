package render

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// undefinedLabel is what a missing key renders as.
const undefinedLabel = "undefined"

// KeyCandidates is an ordered list of field names a renderer probes for, and
// the literal key it falls back to when none is present.
type KeyCandidates struct {
	Candidates []string
	Default    string
}

// Pick returns the first candidate present in sample, else the default.
func (k KeyCandidates) Pick(sample map[string]any) string {
	for _, c := range k.Candidates {
		if _, ok := sample[c]; ok {
			return c
		}
	}
	return k.Default
}

// Candidate lists per renderer. First match wins.
var (
	PieLabelKeys = KeyCandidates{[]string{"region", "channel", "category", "name"}, "name"}
	PieValueKeys = KeyCandidates{[]string{"revenue", "spend", "value", "count"}, "value"}

	XAxisKeys = KeyCandidates{[]string{"month", "date", "period", "week"}, "name"}

	ScatterXKeys     = KeyCandidates{[]string{"x", "spend", "cost", "value"}, "x"}
	ScatterYKeys     = KeyCandidates{[]string{"y", "revenue", "count", "conversions"}, "y"}
	ScatterLabelKeys = KeyCandidates{[]string{"name", "label", "category"}, "name"}

	GaugeValueKeys = KeyCandidates{[]string{"value", "current", "progress", "percentage", "score"}, "value"}

	FunnelLabelKeys = KeyCandidates{[]string{"stage", "step", "name"}, "stage"}
	FunnelValueKeys = KeyCandidates{[]string{"count", "value", "users"}, "count"}

	MetricValueKeys = KeyCandidates{[]string{"value", "total", "revenue", "count", "amount"}, "value"}
	MetricLabelKeys = KeyCandidates{[]string{"label", "name", "metric", "title"}, "label"}
	MetricTrendKeys = KeyCandidates{[]string{"trend", "change", "delta"}, "trend"}

	ProgressLabelKeys = KeyCandidates{[]string{"label", "name", "task", "title"}, "label"}
	ProgressValueKeys = KeyCandidates{[]string{"progress", "value", "percentage", "completed"}, "value"}
	ProgressMaxKeys   = KeyCandidates{[]string{"max", "target", "total"}, "max"}

	HeatmapXKeys     = KeyCandidates{[]string{"x", "day", "weekday", "column"}, "x"}
	HeatmapYKeys     = KeyCandidates{[]string{"y", "hour", "row"}, "y"}
	HeatmapValueKeys = KeyCandidates{[]string{"value", "count", "intensity"}, "value"}

	TreemapLabelKeys = KeyCandidates{[]string{"name", "category", "label"}, "name"}
	TreemapValueKeys = KeyCandidates{[]string{"value", "size", "count"}, "value"}

	TextContentKeys = KeyCandidates{[]string{"content", "text", "body", "markdown"}, "content"}

	ImageURLKeys = KeyCandidates{[]string{"url", "src", "image", "imageUrl"}, "url"}
	ImageAltKeys = KeyCandidates{[]string{"alt", "caption", "title"}, "alt"}

	IframeURLKeys = KeyCandidates{[]string{"url", "src", "embedUrl"}, "url"}

	HTMLKeys = KeyCandidates{[]string{"html", "content", "markup"}, "html"}

	TimelineDateKeys  = KeyCandidates{[]string{"date", "time", "timestamp", "when"}, "date"}
	TimelineTitleKeys = KeyCandidates{[]string{"title", "event", "name"}, "title"}
	TimelineDescKeys  = KeyCandidates{[]string{"description", "details", "notes"}, "description"}

	CalendarDateKeys  = KeyCandidates{[]string{"date", "start", "day"}, "date"}
	CalendarTitleKeys = KeyCandidates{[]string{"title", "event", "name"}, "title"}

	KanbanColumnKeys = KeyCandidates{[]string{"status", "column", "stage", "state"}, "status"}
	KanbanTitleKeys  = KeyCandidates{[]string{"title", "name", "task"}, "title"}

	MapLatKeys   = KeyCandidates{[]string{"lat", "latitude"}, "lat"}
	MapLngKeys   = KeyCandidates{[]string{"lng", "lon", "longitude"}, "lng"}
	MapLabelKeys = KeyCandidates{[]string{"name", "label", "location", "city"}, "name"}
	MapValueKeys = KeyCandidates{[]string{"value", "count"}, "value"}
)

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// number normalises numeric values to float64 and passes anything else through.
func number(v any) any {
	if f, ok := toFloat(v); ok {
		return f
	}
	return v
}

func label(v any) string {
	switch t := v.(type) {
	case nil:
		return undefinedLabel
	case string:
		return t
	}
	if f, ok := toFloat(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func configFloat(cfg map[string]any, key string, fallback float64) float64 {
	if f, ok := toFloat(cfg[key]); ok {
		return f
	}
	return fallback
}

func configBool(cfg map[string]any, key string, fallback bool) bool {
	if b, ok := cfg[key].(bool); ok {
		return b
	}
	return fallback
}

func configString(cfg map[string]any, key, fallback string) string {
	if s, ok := cfg[key].(string); ok {
		return s
	}
	return fallback
}
