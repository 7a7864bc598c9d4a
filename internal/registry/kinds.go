package registry

// Kind is a widget type string such as "bar-chart".
type Kind string

const (
	KindPieChart    Kind = "pie-chart"
	KindBarChart    Kind = "bar-chart"
	KindLineChart   Kind = "line-chart"
	KindAreaChart   Kind = "area-chart"
	KindScatterPlot Kind = "scatter-plot"
	KindGauge       Kind = "gauge"
	KindFunnelChart Kind = "funnel-chart"

	KindTable       Kind = "table"
	KindMetricCard  Kind = "metric-card"
	KindProgressBar Kind = "progress-bar"
	KindHeatmap     Kind = "heatmap"
	KindTreemap     Kind = "treemap"

	KindTextBlock  Kind = "text-block"
	KindImage      Kind = "image"
	KindIframe     Kind = "iframe"
	KindCustomHTML Kind = "custom-html"

	KindTimeline Kind = "timeline"
	KindCalendar Kind = "calendar"
	KindKanban   Kind = "kanban"
	KindMap      Kind = "map"
)

type Category string

const (
	CategoryChart   Category = "chart"
	CategoryData    Category = "data"
	CategoryContent Category = "content"
	CategoryLayout  Category = "layout"
)

// Categories in display order.
var categories = []Category{CategoryChart, CategoryData, CategoryContent, CategoryLayout}

// DefaultPosition is the grid footprint a new widget of a kind starts with.
type DefaultPosition struct {
	X    int `json:"x"`
	Y    int `json:"y"`
	W    int `json:"w"`
	H    int `json:"h"`
	MinW int `json:"minW"`
	MinH int `json:"minH"`
}

// Descriptor describes one widget kind and its compiled-in defaults.
type Descriptor struct {
	Type            Kind            `json:"type"`
	Label           string          `json:"label"`
	Description     string          `json:"description"`
	Icon            string          `json:"icon"`
	Category        Category        `json:"category"`
	DefaultConfig   map[string]any  `json:"defaultConfig"`
	DefaultPosition DefaultPosition `json:"defaultPosition"`
}
