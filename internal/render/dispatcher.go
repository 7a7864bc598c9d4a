// Package render turns a widget and its records into a visual tree. Each
// widget kind has one renderer; unknown kinds get a diagnostic placeholder
// instead of an error so one bad widget never takes down a dashboard.
package render

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/GregMSThompson/dashboard-builder/internal/models"
	"github.com/GregMSThompson/dashboard-builder/internal/registry"
)

// NotImplementedMessage is shown for widget types with no renderer.
const NotImplementedMessage = "renderer not implemented"

const emptyMessage = "No data yet. Add records in the data editor to populate this widget."

// renderer draws a widget from at least one record's data.
type renderer func(c models.Component, rows []map[string]any) *VNode

var renderers = map[registry.Kind]renderer{
	registry.KindPieChart:    renderPie,
	registry.KindBarChart:    seriesChart("bar"),
	registry.KindLineChart:   seriesChart("line"),
	registry.KindAreaChart:   seriesChart("area"),
	registry.KindScatterPlot: renderScatter,
	registry.KindGauge:       renderGauge,
	registry.KindFunnelChart: renderFunnel,

	registry.KindTable:       renderTable,
	registry.KindMetricCard:  renderMetric,
	registry.KindProgressBar: renderProgress,
	registry.KindHeatmap:     renderHeatmap,
	registry.KindTreemap:     renderTreemap,

	registry.KindTextBlock:  renderText,
	registry.KindImage:      renderImage,
	registry.KindIframe:     renderIframe,
	registry.KindCustomHTML: renderCustomHTML,

	registry.KindTimeline: renderTimeline,
	registry.KindCalendar: renderCalendar,
	registry.KindKanban:   renderKanban,
	registry.KindMap:      renderMap,
}

type Dispatcher struct {
	registry  *registry.Registry
	renderers map[registry.Kind]renderer
	log       *slog.Logger
}

// NewDispatcher fails when any registered kind lacks a renderer.
func NewDispatcher(reg *registry.Registry, log *slog.Logger) (*Dispatcher, error) {
	var missing []string
	for _, k := range reg.Kinds() {
		if _, ok := renderers[k]; !ok {
			missing = append(missing, string(k))
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("no renderer for widget types: %s", strings.Join(missing, ", "))
	}
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{registry: reg, renderers: renderers, log: log}, nil
}

// Render never fails: unknown kinds and renderer panics yield a diagnostic
// node, widgets without records yield the empty state.
func (d *Dispatcher) Render(c models.Component, recs []models.DataRecord) (node *VNode) {
	desc, ok := d.registry.Lookup(c.Type)
	if !ok {
		d.log.Warn("no renderer for widget type", "component_id", c.ComponentID, "type", c.Type)
		return Diagnostic(c, NotImplementedMessage)
	}
	if len(recs) == 0 {
		return decorate(EmptyState(desc), c, desc)
	}

	defer func() {
		if r := recover(); r != nil {
			d.log.Error("renderer panicked", "component_id", c.ComponentID, "type", c.Type, "panic", r)
			node = Diagnostic(c, fmt.Sprintf("render failed: %v", r))
		}
	}()

	rows := make([]map[string]any, len(recs))
	for i, rec := range recs {
		rows[i] = rec.Data
		if rows[i] == nil {
			rows[i] = map[string]any{}
		}
	}
	return decorate(d.renderers[desc.Type](c, rows), c, desc)
}

// EmptyState is the placeholder for a widget that has no records yet.
func EmptyState(desc registry.Descriptor) *VNode {
	return El(TagEmptyState, Props{"message": emptyMessage, "label": desc.Label}, Text(emptyMessage))
}

// Diagnostic is the placeholder for a widget that cannot be drawn.
func Diagnostic(c models.Component, msg string) *VNode {
	return El(TagDiagnostic, Props{
		"widgetType":  c.Type,
		"componentId": c.ComponentID,
		"title":       c.Name,
		"message":     msg,
	}, Text(fmt.Sprintf("%s: %s", c.Type, msg)))
}

// decorate stamps the widget identity onto a renderer's root node.
func decorate(n *VNode, c models.Component, desc registry.Descriptor) *VNode {
	if n.Props == nil {
		n.Props = Props{}
	}
	n.Props["widgetType"] = string(desc.Type)
	n.Props["componentId"] = c.ComponentID
	n.Props["title"] = c.Name
	n.Props["icon"] = desc.Icon
	return n
}
