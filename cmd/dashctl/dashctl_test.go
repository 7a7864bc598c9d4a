package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/GregMSThompson/dashboard-builder/internal/dto"
	"github.com/GregMSThompson/dashboard-builder/internal/models"
	"github.com/GregMSThompson/dashboard-builder/internal/registry"
)

// fakeAPI serves a single dashboard with one table widget.
type fakeAPI struct {
	mu      sync.Mutex
	records []models.DataRecord
	layouts [][]dto.LayoutItem
	created []map[string]any
}

func newFakeAPI(t *testing.T) (*fakeAPI, *httptest.Server) {
	t.Helper()
	f := &fakeAPI{
		records: []models.DataRecord{
			{ID: "r1", ComponentID: "c1", Data: map[string]any{"name": "Ada", "score": 9.5}},
		},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/widget-types", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, registry.New().All())
	})
	mux.HandleFunc("GET /api/v1/dashboards/{slug}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("slug") != "sales" {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"code": "not_found", "message": "dashboard not found"})
			return
		}
		writeData(w, f.dashboard())
	})
	mux.HandleFunc("PUT /api/v1/dashboards/{slug}/layout", func(w http.ResponseWriter, r *http.Request) {
		var req dto.UpdateLayoutRequest
		json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		f.layouts = append(f.layouts, req.Layout)
		f.mu.Unlock()
		ids := make([]string, len(req.Layout))
		for i, it := range req.Layout {
			ids[i] = it.I
		}
		writeData(w, dto.UpdateLayoutResponse{Updated: ids})
	})
	mux.HandleFunc("GET /api/v1/components/{id}/schema", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		n := 0
		if len(f.records) > 0 {
			n = 2
		}
		f.mu.Unlock()
		writeData(w, dto.SchemaResponse{FieldSchema: testFields(), IsLocked: n > 0, LockCount: &n})
	})
	mux.HandleFunc("GET /api/v1/components/{id}/data", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeData(w, f.records)
	})
	mux.HandleFunc("POST /api/v1/components/{id}/data", func(w http.ResponseWriter, r *http.Request) {
		var req dto.RecordRequest
		json.NewDecoder(r.Body).Decode(&req)
		rec := models.DataRecord{ID: "r2", ComponentID: r.PathValue("id"), Data: req.Data}
		f.mu.Lock()
		f.created = append(f.created, req.Data)
		f.records = append(f.records, rec)
		f.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		writeData(w, rec)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeAPI) dashboard() models.Dashboard {
	now := time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC)
	return models.Dashboard{
		Slug:       "sales",
		Name:       "Sales",
		Visibility: models.VisibilityPublic,
		Components: []models.Component{{
			ComponentID:   "c1",
			DashboardSlug: "sales",
			Type:          "table",
			Name:          "Leads",
			Position:      models.Position{X: 0, Y: 0, W: 6, H: 4, MinW: 2, MinH: 2},
			FieldSchema:   testFields(),
			CreatedAt:     now,
		}},
		UpdatedAt: now,
	}
}

func testFields() []models.FieldDescriptor {
	return []models.FieldDescriptor{
		{Name: "name", Type: models.FieldString, Required: true},
		{Name: "score", Type: models.FieldNumber},
	}
}

func writeData(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true, "data": v})
}

func run(t *testing.T, server string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(append([]string{"--server", server, "--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestTypes_JSON(t *testing.T) {
	_, srv := newFakeAPI(t)
	out, err := run(t, srv.URL, "types", "--remote", "-o", "json")
	require.NoError(t, err)

	var descs []registry.Descriptor
	require.NoError(t, json.Unmarshal([]byte(out), &descs))
	assert.Len(t, descs, len(registry.New().All()))
}

func TestTypes_CategoryFilter(t *testing.T) {
	out, err := run(t, "http://unused.invalid", "types", "--category", "content")
	require.NoError(t, err)
	assert.Contains(t, out, "TYPE")
	assert.NotContains(t, out, "line-chart")

	_, err = run(t, "http://unused.invalid", "types", "--category", "nope")
	assert.Error(t, err)
}

func TestDashboardsShow_YAML(t *testing.T) {
	_, srv := newFakeAPI(t)
	out, err := run(t, srv.URL, "dashboards", "show", "sales", "-o", "yaml")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "sales", doc["slug"])
}

func TestDashboardsShow_NotFound(t *testing.T) {
	_, srv := newFakeAPI(t)
	_, err := run(t, srv.URL, "dashboards", "show", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dashboard not found")
}

func TestRender_Table(t *testing.T) {
	_, srv := newFakeAPI(t)
	out, err := run(t, srv.URL, "render", "sales")
	require.NoError(t, err)
	assert.Contains(t, out, "c1")
	assert.Contains(t, out, "table")
	assert.Contains(t, out, "ok")
}

func TestRecordsAdd_CoercesByFieldType(t *testing.T) {
	f, srv := newFakeAPI(t)
	_, err := run(t, srv.URL, "records", "add", "c1", "name=Grace", "score=7")
	require.NoError(t, err)

	require.Len(t, f.created, 1)
	assert.Equal(t, "Grace", f.created[0]["name"])
	assert.Equal(t, 7.0, f.created[0]["score"])
}

func TestRecordsAdd_RejectsBadNumber(t *testing.T) {
	f, srv := newFakeAPI(t)
	_, err := run(t, srv.URL, "records", "add", "c1", "name=Grace", "score=lots")
	require.Error(t, err)
	assert.Empty(t, f.created)
}

func TestRecordsAdd_ValidatesRequiredFields(t *testing.T) {
	f, srv := newFakeAPI(t)
	_, err := run(t, srv.URL, "records", "add", "c1", "score=1")
	require.Error(t, err)
	assert.Empty(t, f.created)
}

func TestWidgetsMove_FlushesLayout(t *testing.T) {
	f, srv := newFakeAPI(t)
	out, err := run(t, srv.URL, "widgets", "move", "sales", "c1", "--x", "10", "--w", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "saved 1 widget(s) (batch)")

	require.Len(t, f.layouts, 1)
	item := f.layouts[0][0]
	assert.Equal(t, "c1", item.I)
	// clamped back inside the 12 column grid
	assert.Equal(t, 8, item.X)
	assert.Equal(t, 4, item.W)
}

func TestWidgetsMove_UnknownWidget(t *testing.T) {
	f, srv := newFakeAPI(t)
	_, err := run(t, srv.URL, "widgets", "move", "sales", "ghost", "--x", "1")
	require.Error(t, err)
	assert.Empty(t, f.layouts)
}

func TestSchemaShow(t *testing.T) {
	_, srv := newFakeAPI(t)
	out, err := run(t, srv.URL, "schema", "show", "c1")
	require.NoError(t, err)
	assert.Contains(t, out, "2 locked")
	assert.Contains(t, out, "score")
}

func TestParseValues(t *testing.T) {
	fields := []models.FieldDescriptor{
		{Name: "n", Type: models.FieldNumber},
		{Name: "b", Type: models.FieldBoolean},
		{Name: "s", Type: models.FieldString},
	}
	got, err := parseValues(fields, []string{"n=1.5", "b=true", "s=42", "extra=[1,2]", "blank="})
	require.NoError(t, err)
	assert.Equal(t, 1.5, got["n"])
	assert.Equal(t, true, got["b"])
	assert.Equal(t, "42", got["s"])
	assert.Equal(t, []any{1.0, 2.0}, got["extra"])
	assert.Equal(t, "", got["blank"])

	_, err = parseValues(fields, []string{"novalue"})
	assert.Error(t, err)
}

func TestParseAssignments(t *testing.T) {
	got, err := parseAssignments([]string{"showLegend=false", "title=Revenue", "max=100"})
	require.NoError(t, err)
	assert.Equal(t, false, got["showLegend"])
	assert.Equal(t, "Revenue", got["title"])
	assert.Equal(t, 100.0, got["max"])
}

func TestFieldIndex(t *testing.T) {
	fields := testFields()
	i, err := fieldIndex(fields, "score")
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	i, err = fieldIndex(fields, "0")
	require.NoError(t, err)
	assert.Equal(t, 0, i)

	_, err = fieldIndex(fields, "missing")
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "héllo w...", truncate("héllo wörld!", 10))
}
