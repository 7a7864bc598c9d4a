package render

// NodeKind is the node type discriminator.
type NodeKind uint8

const (
	KindElement NodeKind = iota // widget body, chart, table, placeholder...
	KindText                    // plain text
	KindRaw                     // pre-rendered, sanitised HTML
)

func (k NodeKind) String() string {
	switch k {
	case KindElement:
		return "element"
	case KindText:
		return "text"
	case KindRaw:
		return "raw"
	default:
		return "unknown"
	}
}

func (k NodeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Props holds the renderer's normalised data for a node.
type Props map[string]any

// VNode is one node of the visual tree handed to the drawing layer.
type VNode struct {
	Kind     NodeKind `json:"kind"`
	Tag      string   `json:"tag,omitempty"`
	Props    Props    `json:"props,omitempty"`
	Children []*VNode `json:"children,omitempty"`
	Text     string   `json:"text,omitempty"`
}

// Element tags produced by the renderers.
const (
	TagEmptyState = "empty-state"
	TagDiagnostic = "diagnostic"
	TagChart      = "chart"
	TagTable      = "table"
	TagMetric     = "metric-card"
	TagProgress   = "progress-list"
	TagHeatmap    = "heatmap"
	TagTreemap    = "treemap"
	TagContent    = "content"
	TagImage      = "image"
	TagIframe     = "iframe"
	TagTimeline   = "timeline"
	TagCalendar   = "calendar"
	TagKanban     = "kanban"
	TagMap        = "map"
)

func El(tag string, props Props, children ...*VNode) *VNode {
	return &VNode{Kind: KindElement, Tag: tag, Props: props, Children: children}
}

func Text(s string) *VNode {
	return &VNode{Kind: KindText, Text: s}
}

func Raw(html string) *VNode {
	return &VNode{Kind: KindRaw, Text: html}
}

// Prop returns a prop value, or nil for a nil node.
func (v *VNode) Prop(key string) any {
	if v == nil {
		return nil
	}
	return v.Props[key]
}
