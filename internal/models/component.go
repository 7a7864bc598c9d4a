package models

import "time"

// Position is a widget's placement on the 12-column grid. MaxW and MaxH of zero
// mean unbounded.
type Position struct {
	X      int  `firestore:"x" json:"x"`
	Y      int  `firestore:"y" json:"y"`
	W      int  `firestore:"w" json:"w"`
	H      int  `firestore:"h" json:"h"`
	MinW   int  `firestore:"minW" json:"minW"`
	MinH   int  `firestore:"minH" json:"minH"`
	MaxW   int  `firestore:"maxW,omitempty" json:"maxW,omitempty"`
	MaxH   int  `firestore:"maxH,omitempty" json:"maxH,omitempty"`
	Static bool `firestore:"static,omitempty" json:"static,omitempty"`
}

type DataSource struct {
	Type string `firestore:"type" json:"type"`
}

// Component is one configured, positioned widget instance on a dashboard.
type Component struct {
	ComponentID   string            `firestore:"componentId" json:"componentId"`
	DashboardSlug string            `firestore:"dashboardSlug" json:"dashboardSlug"`
	OwnerUID      string            `firestore:"ownerUid" json:"-"`
	Type          string            `firestore:"type" json:"type"`
	Name          string            `firestore:"name" json:"name"`
	Position      Position          `firestore:"position" json:"position"`
	Config        map[string]any    `firestore:"config" json:"config"`
	FieldSchema   []FieldDescriptor `firestore:"fieldSchema" json:"fieldSchema"`
	LockCount     int               `firestore:"lockCount" json:"lockCount"`
	DataSource    DataSource        `firestore:"dataSource" json:"dataSource"`
	Styling       map[string]any    `firestore:"styling,omitempty" json:"styling,omitempty"`
	CreatedAt     time.Time         `firestore:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time         `firestore:"updatedAt" json:"updatedAt"`
}
