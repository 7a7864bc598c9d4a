package dto

import (
	"github.com/GregMSThompson/dashboard-builder/internal/models"
)

// Header carrying the access password for password-protected dashboards.
const DashboardPasswordHeader = "X-Dashboard-Password"

// --- Request types ---

type CreateDashboardRequest struct {
	Slug        string            `json:"slug"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Thumbnail   string            `json:"thumbnail,omitempty"`
	Visibility  models.Visibility `json:"visibility,omitempty"`
	Password    string            `json:"password,omitempty"`
}

// UpdateDashboardRequest is a partial settings update; nil fields are left as is.
type UpdateDashboardRequest struct {
	Name        *string            `json:"name,omitempty"`
	Description *string            `json:"description,omitempty"`
	Thumbnail   *string            `json:"thumbnail,omitempty"`
	Visibility  *models.Visibility `json:"visibility,omitempty"`
	Password    *string            `json:"password,omitempty"`
}

type CreateComponentRequest struct {
	Type        string                   `json:"type"`
	Name        string                   `json:"name"`
	Position    *models.Position         `json:"position,omitempty"`
	Config      map[string]any           `json:"config,omitempty"`
	DataSource  *models.DataSource       `json:"dataSource,omitempty"`
	FieldSchema []models.FieldDescriptor `json:"fieldSchema,omitempty"`
	Styling     map[string]any           `json:"styling,omitempty"`
}

type UpdateComponentRequest struct {
	Name       *string            `json:"name,omitempty"`
	Position   *models.Position   `json:"position,omitempty"`
	Config     map[string]any     `json:"config,omitempty"`
	DataSource *models.DataSource `json:"dataSource,omitempty"`
	Styling    map[string]any     `json:"styling,omitempty"`
}

type UpdateSchemaRequest struct {
	FieldSchema []models.FieldDescriptor `json:"fieldSchema"`
}

type RecordRequest struct {
	Data map[string]any `json:"data"`
}

// LayoutItem is one grid entry keyed by component id.
type LayoutItem struct {
	I      string `json:"i"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	W      int    `json:"w"`
	H      int    `json:"h"`
	MinW   int    `json:"minW"`
	MinH   int    `json:"minH"`
	MaxW   int    `json:"maxW,omitempty"`
	MaxH   int    `json:"maxH,omitempty"`
	Static bool   `json:"static,omitempty"`
}

type UpdateLayoutRequest struct {
	Layout []LayoutItem `json:"layout"`
}

// --- Response types ---

// SchemaResponse carries the schema status. LockCount is a pointer so the client
// can tell an older server that omits it from a genuine zero.
type SchemaResponse struct {
	FieldSchema []models.FieldDescriptor `json:"fieldSchema"`
	IsLocked    bool                     `json:"isLocked"`
	LockCount   *int                     `json:"lockCount,omitempty"`
}

type LayoutFailure struct {
	ComponentID string `json:"componentId"`
	Message     string `json:"message"`
}

type UpdateLayoutResponse struct {
	Updated []string        `json:"updated"`
	Failed  []LayoutFailure `json:"failed,omitempty"`
}
