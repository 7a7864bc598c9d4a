package render

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GregMSThompson/dashboard-builder/internal/models"
	"github.com/GregMSThompson/dashboard-builder/internal/registry"
	"github.com/GregMSThompson/dashboard-builder/pkg/logger"
)

func newDispatcher(t *testing.T) *Dispatcher {
	t.Helper()
	d, err := NewDispatcher(registry.New(), slog.New(logger.NewTestHandler(slog.LevelInfo)))
	require.NoError(t, err)
	return d
}

func recs(rows ...map[string]any) []models.DataRecord {
	out := make([]models.DataRecord, len(rows))
	for i, r := range rows {
		out[i] = models.DataRecord{ID: string(rune('a' + i)), Data: r}
	}
	return out
}

func widget(t *testing.T, kind registry.Kind) models.Component {
	t.Helper()
	c, err := registry.New().NewComponent(string(kind), "", nil)
	require.NoError(t, err)
	c.ComponentID = "c1"
	return c
}

func TestRender_LineChartPicksMonthAndNumericSeries(t *testing.T) {
	d := newDispatcher(t)
	node := d.Render(widget(t, registry.KindLineChart), recs(
		map[string]any{"month": "Jan", "sales": 100.0},
		map[string]any{"month": "Feb", "sales": 150.0},
	))

	require.Equal(t, TagChart, node.Tag)
	assert.Equal(t, "line", node.Prop("chartType"))
	assert.Equal(t, "month", node.Prop("xKey"))
	assert.Equal(t, []string{"sales"}, node.Prop("series"))

	points := node.Prop("data").([]map[string]any)
	require.Len(t, points, 2)
	assert.Equal(t, "Jan", points[0]["month"])
	assert.Equal(t, 150.0, points[1]["sales"])
}

func TestRender_PieChartPicksRegionAndRevenue(t *testing.T) {
	d := newDispatcher(t)
	node := d.Render(widget(t, registry.KindPieChart), recs(map[string]any{"region": "East", "revenue": 500}))

	assert.Equal(t, "region", node.Prop("labelKey"))
	assert.Equal(t, "revenue", node.Prop("valueKey"))
	slices := node.Prop("slices").([]Slice)
	require.Len(t, slices, 1)
	assert.Equal(t, "East", slices[0].Label)
	assert.Equal(t, 500.0, slices[0].Value)
	assert.Equal(t, 100.0, slices[0].Share)
}

func TestRender_PieChartFallsBackToLiteralKeys(t *testing.T) {
	d := newDispatcher(t)
	node := d.Render(widget(t, registry.KindPieChart), recs(map[string]any{"foo": 1}))

	assert.Equal(t, "name", node.Prop("labelKey"))
	assert.Equal(t, "value", node.Prop("valueKey"))
	slices := node.Prop("slices").([]Slice)
	assert.Equal(t, undefinedLabel, slices[0].Label)
	assert.Nil(t, slices[0].Value)
}

func TestRender_UnknownTypeGetsDiagnostic(t *testing.T) {
	d := newDispatcher(t)
	c := models.Component{ComponentID: "c9", Type: "unsupported-widget", Name: "Mystery"}

	node := d.Render(c, recs(map[string]any{"a": 1}))
	require.Equal(t, TagDiagnostic, node.Tag)
	assert.Equal(t, NotImplementedMessage, node.Prop("message"))
	assert.Contains(t, node.Children[0].Text, "unsupported-widget")

	// empty records do not change the outcome
	assert.Equal(t, TagDiagnostic, d.Render(c, nil).Tag)
}

func TestRender_EmptyStateForEveryKind(t *testing.T) {
	d := newDispatcher(t)
	for _, k := range registry.New().Kinds() {
		c := widget(t, k)
		first := d.Render(c, nil)
		second := d.Render(c, []models.DataRecord{})
		assert.Equal(t, TagEmptyState, first.Tag, k)
		assert.Equal(t, first, second, k)
	}
}

func TestRender_EveryKindHasARenderer(t *testing.T) {
	d := newDispatcher(t)
	row := map[string]any{
		"name": "North", "value": 10.0, "date": "2024-01-02", "title": "Kickoff",
		"status": "Done", "lat": 51.5, "lng": -0.1, "url": "https://example.com/a.png",
		"content": "**hi**", "html": "<b>hi</b>",
	}
	for _, k := range registry.New().Kinds() {
		node := d.Render(widget(t, k), recs(row))
		assert.NotEqual(t, TagDiagnostic, node.Tag, k)
		assert.Equal(t, string(k), node.Prop("widgetType"), k)
	}
}

func TestRender_TableColumnsAreOrderedUnion(t *testing.T) {
	d := newDispatcher(t)
	node := d.Render(widget(t, registry.KindTable), recs(
		map[string]any{"b": 1, "a": 2},
		map[string]any{"c": 3, "a": 4},
	))

	assert.Equal(t, []string{"a", "b", "c"}, node.Prop("columns"))
	rows := node.Prop("rows").([][]any)
	assert.Equal(t, []any{4, nil, 3}, rows[1])
	assert.Equal(t, 10, node.Prop("pageSize"))
}

func TestRender_MetricCardUsesLatestRecord(t *testing.T) {
	d := newDispatcher(t)
	node := d.Render(widget(t, registry.KindMetricCard), recs(
		map[string]any{"label": "MRR", "value": 10.0, "trend": 1.5},
		map[string]any{"label": "MRR", "value": 12.0, "trend": 2.0},
	))
	assert.Equal(t, 12.0, node.Prop("value"))
	assert.Equal(t, "MRR", node.Prop("label"))
	assert.Equal(t, 2.0, node.Prop("trend"))
	assert.Equal(t, "hash", node.Prop("icon"))
}

func TestRender_GaugePercentUsesConfiguredRange(t *testing.T) {
	d := newDispatcher(t)
	node := d.Render(widget(t, registry.KindGauge), recs(map[string]any{"current": 150.0}))
	assert.Equal(t, "current", node.Prop("valueKey"))
	assert.Equal(t, 100.0, node.Prop("percent"))
	assert.Equal(t, "%", node.Prop("unit"))
}

func TestRender_KanbanKeepsConfiguredColumns(t *testing.T) {
	d := newDispatcher(t)
	node := d.Render(widget(t, registry.KindKanban), recs(
		map[string]any{"status": "Done", "title": "Ship"},
		map[string]any{"status": "Blocked", "title": "Review"},
	))
	lanes := node.Prop("lanes").([]KanbanLane)
	require.Len(t, lanes, 4)
	assert.Equal(t, "To Do", lanes[0].Name)
	assert.Empty(t, lanes[0].Cards)
	assert.Equal(t, []string{"Ship"}, lanes[2].Cards)
	assert.Equal(t, "Blocked", lanes[3].Name)
}

func TestRender_TextBlockRendersMarkdown(t *testing.T) {
	d := newDispatcher(t)
	node := d.Render(widget(t, registry.KindTextBlock), recs(map[string]any{"content": "# Title\n\n<script>x()</script>"}))
	require.Len(t, node.Children, 1)
	html := node.Children[0]
	assert.Equal(t, KindRaw, html.Kind)
	assert.Contains(t, html.Text, "<h1")
	assert.NotContains(t, html.Text, "<script>")
}

func TestSanitize(t *testing.T) {
	out, err := Sanitize(`<p onclick="steal()">hi <a href="javascript:alert(1)">x</a><a href="/ok">y</a></p><script>bad()</script>`)
	require.NoError(t, err)
	assert.Contains(t, out, "<p>hi")
	assert.Contains(t, out, `href="/ok"`)
	assert.NotContains(t, out, "onclick")
	assert.NotContains(t, out, "javascript:")
	assert.False(t, strings.Contains(out, "script"))
}

func TestKeyCandidates_Pick(t *testing.T) {
	assert.Equal(t, "region", PieLabelKeys.Pick(map[string]any{"name": "x", "region": "y"}))
	assert.Equal(t, "name", XAxisKeys.Pick(map[string]any{"sales": 1}))
}

// flipped returns a config value that differs from v in a way the renderer
// can observe.
func flipped(key string, v any) any {
	switch key {
	case "order":
		return "desc"
	case "columns":
		return []any{"Backlog"}
	case "center":
		return []any{51.5, -0.1}
	}
	switch t := v.(type) {
	case bool:
		return !t
	case string:
		return t + "-alt"
	case int:
		return t + 1
	case float64:
		return t + 1
	}
	return nil
}

func TestRender_EveryDefaultConfigKeyIsHonoured(t *testing.T) {
	d := newDispatcher(t)
	reg := registry.New()
	rows := recs(
		map[string]any{
			"name": "North", "value": 10.0, "trend": 1.5, "date": "2024-01-02", "title": "Kickoff",
			"status": "Done", "lat": 51.5, "lng": -0.1, "url": "https://example.com/a.png",
			"content": "**hi**", "html": "<b onclick=\"x()\">hi</b>",
		},
		map[string]any{
			"name": "South", "value": 30.0, "trend": 2.5, "date": "2024-03-04", "title": "Launch",
			"status": "To Do", "lat": 40.7, "lng": -74.0, "url": "https://example.com/b.png",
			"content": "_bye_", "html": "<i>bye</i>",
		},
	)

	for _, desc := range reg.All() {
		base, err := reg.NewComponent(string(desc.Type), "", nil)
		require.NoError(t, err)
		baseline := d.Render(base, rows)

		for key, v := range desc.DefaultConfig {
			t.Run(string(desc.Type)+"/"+key, func(t *testing.T) {
				override := flipped(key, v)
				require.NotNil(t, override, "no override for %T", v)

				c, err := reg.NewComponent(string(desc.Type), "", map[string]any{key: override})
				require.NoError(t, err)
				node := d.Render(c, rows)
				require.NotEqual(t, TagDiagnostic, node.Tag)
				assert.NotEqual(t, baseline, node, "changing %s left the output unchanged", key)
			})
		}
	}
}

func TestRender_FunnelAndHeatmapConfig(t *testing.T) {
	d := newDispatcher(t)
	reg := registry.New()

	funnel, err := reg.NewComponent(string(registry.KindFunnelChart), "", map[string]any{"showPercentages": false})
	require.NoError(t, err)
	node := d.Render(funnel, recs(map[string]any{"stage": "Visit", "count": 100}))
	assert.Equal(t, false, node.Prop("showPercentages"))

	heat, err := reg.NewComponent(string(registry.KindHeatmap), "", map[string]any{"colorScale": "reds", "showValues": true})
	require.NoError(t, err)
	node = d.Render(heat, recs(map[string]any{"x": "Mon", "y": "9am", "value": 4}))
	assert.Equal(t, "reds", node.Prop("colorScale"))
	assert.Equal(t, true, node.Prop("showValues"))
}

func TestRender_TimelineOrder(t *testing.T) {
	d := newDispatcher(t)
	rows := recs(
		map[string]any{"date": "2024-03-01", "title": "Launch"},
		map[string]any{"date": "2024-01-01", "title": "Kickoff"},
	)

	node := d.Render(widget(t, registry.KindTimeline), rows)
	events := node.Prop("events").([]TimelineEvent)
	assert.Equal(t, "Kickoff", events[0].Title)

	c, err := registry.New().NewComponent(string(registry.KindTimeline), "", map[string]any{"order": "desc"})
	require.NoError(t, err)
	events = d.Render(c, rows).Prop("events").([]TimelineEvent)
	assert.Equal(t, "Launch", events[0].Title)
}
