package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/GregMSThompson/dashboard-builder/internal/dto"
	"github.com/GregMSThompson/dashboard-builder/internal/models"
	"github.com/GregMSThompson/dashboard-builder/internal/registry"
)

const apiPrefix = "/api/v1"

func dashboardPath(slug string) string {
	return apiPrefix + "/dashboards/" + url.PathEscape(slug)
}

func componentPath(id string) string {
	return apiPrefix + "/components/" + url.PathEscape(id)
}

// --- dashboards ---

func (c *Client) ListDashboards(ctx context.Context) ([]models.Dashboard, error) {
	var out []models.Dashboard
	err := c.do(ctx, http.MethodGet, apiPrefix+"/dashboards", nil, &out)
	return out, err
}

func (c *Client) CreateDashboard(ctx context.Context, req dto.CreateDashboardRequest) (models.Dashboard, error) {
	var out models.Dashboard
	err := c.do(ctx, http.MethodPost, apiPrefix+"/dashboards", req, &out)
	return out, err
}

func (c *Client) GetDashboard(ctx context.Context, slug string) (models.Dashboard, error) {
	var out models.Dashboard
	err := c.do(ctx, http.MethodGet, dashboardPath(slug), nil, &out)
	return out, err
}

func (c *Client) UpdateDashboard(ctx context.Context, slug string, req dto.UpdateDashboardRequest) (models.Dashboard, error) {
	var out models.Dashboard
	err := c.do(ctx, http.MethodPatch, dashboardPath(slug), req, &out)
	return out, err
}

// DeleteDashboard removes the dashboard; the server cascades to its widgets
// and their records.
func (c *Client) DeleteDashboard(ctx context.Context, slug string) error {
	return c.do(ctx, http.MethodDelete, dashboardPath(slug), nil, nil)
}

// UpdateLayout saves every widget position in one request.
func (c *Client) UpdateLayout(ctx context.Context, slug string, items []dto.LayoutItem) (dto.UpdateLayoutResponse, error) {
	var out dto.UpdateLayoutResponse
	err := c.do(ctx, http.MethodPut, dashboardPath(slug)+"/layout", dto.UpdateLayoutRequest{Layout: items}, &out)
	return out, err
}

// --- components ---

func (c *Client) CreateComponent(ctx context.Context, slug string, req dto.CreateComponentRequest) (models.Component, error) {
	var out models.Component
	err := c.do(ctx, http.MethodPost, dashboardPath(slug)+"/components", req, &out)
	return out, err
}

func (c *Client) GetComponent(ctx context.Context, id string) (models.Component, error) {
	var out models.Component
	err := c.do(ctx, http.MethodGet, componentPath(id), nil, &out)
	return out, err
}

func (c *Client) UpdateComponent(ctx context.Context, id string, req dto.UpdateComponentRequest) (models.Component, error) {
	var out models.Component
	err := c.do(ctx, http.MethodPatch, componentPath(id), req, &out)
	return out, err
}

func (c *Client) DeleteComponent(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, componentPath(id), nil, nil)
}

// --- schema ---

func (c *Client) GetSchema(ctx context.Context, id string) (dto.SchemaResponse, error) {
	var out dto.SchemaResponse
	err := c.do(ctx, http.MethodGet, componentPath(id)+"/schema", nil, &out)
	return out, err
}

func (c *Client) PutSchema(ctx context.Context, id string, fields []models.FieldDescriptor) (dto.SchemaResponse, error) {
	var out dto.SchemaResponse
	err := c.do(ctx, http.MethodPut, componentPath(id)+"/schema", dto.UpdateSchemaRequest{FieldSchema: fields}, &out)
	return out, err
}

// --- records ---

func (c *Client) ListRecords(ctx context.Context, id string) ([]models.DataRecord, error) {
	var out []models.DataRecord
	err := c.do(ctx, http.MethodGet, componentPath(id)+"/data", nil, &out)
	return out, err
}

func (c *Client) CreateRecord(ctx context.Context, id string, data map[string]any) (models.DataRecord, error) {
	var out models.DataRecord
	err := c.do(ctx, http.MethodPost, componentPath(id)+"/data", dto.RecordRequest{Data: data}, &out)
	return out, err
}

func (c *Client) UpdateRecord(ctx context.Context, id, recordID string, data map[string]any) (models.DataRecord, error) {
	var out models.DataRecord
	err := c.do(ctx, http.MethodPut, componentPath(id)+"/data/"+url.PathEscape(recordID), dto.RecordRequest{Data: data}, &out)
	return out, err
}

func (c *Client) DeleteRecord(ctx context.Context, id, recordID string) error {
	return c.do(ctx, http.MethodDelete, componentPath(id)+"/data/"+url.PathEscape(recordID), nil, nil)
}

// --- catalogue ---

func (c *Client) WidgetTypes(ctx context.Context) ([]registry.Descriptor, error) {
	var out []registry.Descriptor
	err := c.do(ctx, http.MethodGet, apiPrefix+"/widget-types", nil, &out)
	return out, err
}
