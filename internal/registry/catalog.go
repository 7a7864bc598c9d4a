package registry

// catalog is the compiled-in widget table. Order is declaration order and is
// what ListByCategory returns. Entries are never handed out directly; see clone.
var catalog = []Descriptor{
	// --- chart ---
	{
		Type:        KindPieChart,
		Label:       "Pie Chart",
		Description: "Show proportions of a whole",
		Icon:        "pie-chart",
		Category:    CategoryChart,
		DefaultConfig: map[string]any{
			"showLegend":  true,
			"showLabels":  true,
			"innerRadius": 0,
		},
		DefaultPosition: DefaultPosition{X: 0, Y: 0, W: 4, H: 4, MinW: 3, MinH: 3},
	},
	{
		Type:        KindBarChart,
		Label:       "Bar Chart",
		Description: "Compare values across categories",
		Icon:        "bar-chart",
		Category:    CategoryChart,
		DefaultConfig: map[string]any{
			"showLegend": true,
			"showGrid":   true,
			"stacked":    false,
			"horizontal": false,
		},
		DefaultPosition: DefaultPosition{X: 0, Y: 0, W: 6, H: 4, MinW: 3, MinH: 3},
	},
	{
		Type:        KindLineChart,
		Label:       "Line Chart",
		Description: "Show trends over time",
		Icon:        "line-chart",
		Category:    CategoryChart,
		DefaultConfig: map[string]any{
			"showLegend": true,
			"showGrid":   true,
			"smooth":     false,
			"showDots":   true,
		},
		DefaultPosition: DefaultPosition{X: 0, Y: 0, W: 6, H: 4, MinW: 3, MinH: 3},
	},
	{
		Type:        KindAreaChart,
		Label:       "Area Chart",
		Description: "Show cumulative trends over time",
		Icon:        "area-chart",
		Category:    CategoryChart,
		DefaultConfig: map[string]any{
			"showLegend":  true,
			"showGrid":    true,
			"stacked":     false,
			"fillOpacity": 0.3,
		},
		DefaultPosition: DefaultPosition{X: 0, Y: 0, W: 6, H: 4, MinW: 3, MinH: 3},
	},
	{
		Type:        KindScatterPlot,
		Label:       "Scatter Plot",
		Description: "Show correlation between two measures",
		Icon:        "scatter-chart",
		Category:    CategoryChart,
		DefaultConfig: map[string]any{
			"showGrid":  true,
			"pointSize": 6,
		},
		DefaultPosition: DefaultPosition{X: 0, Y: 0, W: 6, H: 4, MinW: 3, MinH: 3},
	},
	{
		Type:        KindGauge,
		Label:       "Gauge",
		Description: "Show a single value against a range",
		Icon:        "gauge",
		Category:    CategoryChart,
		DefaultConfig: map[string]any{
			"min":  0,
			"max":  100,
			"unit": "%",
		},
		DefaultPosition: DefaultPosition{X: 0, Y: 0, W: 3, H: 3, MinW: 2, MinH: 2},
	},
	{
		Type:        KindFunnelChart,
		Label:       "Funnel Chart",
		Description: "Show conversion through sequential stages",
		Icon:        "funnel",
		Category:    CategoryChart,
		DefaultConfig: map[string]any{
			"showPercentages": true,
		},
		DefaultPosition: DefaultPosition{X: 0, Y: 0, W: 4, H: 4, MinW: 3, MinH: 3},
	},

	// --- data ---
	{
		Type:        KindTable,
		Label:       "Table",
		Description: "Display records in rows and columns",
		Icon:        "table",
		Category:    CategoryData,
		DefaultConfig: map[string]any{
			"sortable":   true,
			"filterable": true,
			"pagination": true,
			"pageSize":   10,
		},
		DefaultPosition: DefaultPosition{X: 0, Y: 0, W: 6, H: 4, MinW: 4, MinH: 3},
	},
	{
		Type:        KindMetricCard,
		Label:       "Metric Card",
		Description: "Highlight a single key number",
		Icon:        "hash",
		Category:    CategoryData,
		DefaultConfig: map[string]any{
			"showTrend": true,
			"showIcon":  true,
		},
		DefaultPosition: DefaultPosition{X: 0, Y: 0, W: 3, H: 2, MinW: 2, MinH: 2},
	},
	{
		Type:        KindProgressBar,
		Label:       "Progress Bar",
		Description: "Track progress toward goals",
		Icon:        "progress",
		Category:    CategoryData,
		DefaultConfig: map[string]any{
			"max":            100,
			"showPercentage": true,
		},
		DefaultPosition: DefaultPosition{X: 0, Y: 0, W: 4, H: 2, MinW: 2, MinH: 2},
	},
	{
		Type:        KindHeatmap,
		Label:       "Heatmap",
		Description: "Show intensity across two dimensions",
		Icon:        "grid",
		Category:    CategoryData,
		DefaultConfig: map[string]any{
			"colorScale": "blues",
			"showValues": false,
		},
		DefaultPosition: DefaultPosition{X: 0, Y: 0, W: 6, H: 4, MinW: 4, MinH: 3},
	},
	{
		Type:        KindTreemap,
		Label:       "Treemap",
		Description: "Show hierarchical proportions as nested rectangles",
		Icon:        "layers",
		Category:    CategoryData,
		DefaultConfig: map[string]any{
			"showLabels": true,
		},
		DefaultPosition: DefaultPosition{X: 0, Y: 0, W: 6, H: 4, MinW: 3, MinH: 3},
	},

	// --- content ---
	{
		Type:        KindTextBlock,
		Label:       "Text Block",
		Description: "Add formatted text and notes",
		Icon:        "type",
		Category:    CategoryContent,
		DefaultConfig: map[string]any{
			"markdown":  true,
			"alignment": "left",
		},
		DefaultPosition: DefaultPosition{X: 0, Y: 0, W: 4, H: 2, MinW: 2, MinH: 1},
	},
	{
		Type:        KindImage,
		Label:       "Image",
		Description: "Display an image",
		Icon:        "image",
		Category:    CategoryContent,
		DefaultConfig: map[string]any{
			"fit": "contain",
		},
		DefaultPosition: DefaultPosition{X: 0, Y: 0, W: 4, H: 3, MinW: 2, MinH: 2},
	},
	{
		Type:        KindIframe,
		Label:       "Embed",
		Description: "Embed external content",
		Icon:        "globe",
		Category:    CategoryContent,
		DefaultConfig: map[string]any{
			"allowFullscreen": false,
			"sandbox":         true,
		},
		DefaultPosition: DefaultPosition{X: 0, Y: 0, W: 6, H: 4, MinW: 3, MinH: 3},
	},
	{
		Type:        KindCustomHTML,
		Label:       "Custom HTML",
		Description: "Render custom HTML content",
		Icon:        "code",
		Category:    CategoryContent,
		DefaultConfig: map[string]any{
			"sanitize": true,
		},
		DefaultPosition: DefaultPosition{X: 0, Y: 0, W: 4, H: 3, MinW: 2, MinH: 2},
	},

	// --- layout ---
	{
		Type:        KindTimeline,
		Label:       "Timeline",
		Description: "Show events in chronological order",
		Icon:        "clock",
		Category:    CategoryLayout,
		DefaultConfig: map[string]any{
			"orientation": "vertical",
			"showDates":   true,
			"order":       "asc",
		},
		DefaultPosition: DefaultPosition{X: 0, Y: 0, W: 6, H: 5, MinW: 3, MinH: 3},
	},
	{
		Type:        KindCalendar,
		Label:       "Calendar",
		Description: "Show events on a calendar",
		Icon:        "calendar",
		Category:    CategoryLayout,
		DefaultConfig: map[string]any{
			"view":         "month",
			"weekStartsOn": 0,
		},
		DefaultPosition: DefaultPosition{X: 0, Y: 0, W: 6, H: 5, MinW: 4, MinH: 4},
	},
	{
		Type:        KindKanban,
		Label:       "Kanban Board",
		Description: "Organize items into columns by status",
		Icon:        "columns",
		Category:    CategoryLayout,
		DefaultConfig: map[string]any{
			"columns": []any{"To Do", "In Progress", "Done"},
		},
		DefaultPosition: DefaultPosition{X: 0, Y: 0, W: 8, H: 5, MinW: 4, MinH: 3},
	},
	{
		Type:        KindMap,
		Label:       "Map",
		Description: "Plot locations on a map",
		Icon:        "map-pin",
		Category:    CategoryLayout,
		DefaultConfig: map[string]any{
			"zoom":   2,
			"center": []any{0, 0},
		},
		DefaultPosition: DefaultPosition{X: 0, Y: 0, W: 6, H: 5, MinW: 4, MinH: 3},
	},
}
