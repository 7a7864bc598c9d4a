package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GregMSThompson/dashboard-builder/internal/dto"
	"github.com/GregMSThompson/dashboard-builder/internal/errs"
	"github.com/GregMSThompson/dashboard-builder/internal/models"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", opts...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestGetDashboard_UnwrapsEnvelopeAndSendsHeaders(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/dashboards/q3%20sales", r.URL.EscapedPath())
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "hunter2", r.Header.Get(dto.DashboardPasswordHeader))
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data": map[string]any{
				"slug": "q3 sales", "name": "Q3", "visibility": "password-protected",
				"components": []any{map[string]any{"componentId": "c1", "type": "pie-chart"}},
			},
		})
	}, WithToken("tok"), WithDashboardPassword("hunter2"))

	d, err := c.GetDashboard(context.Background(), "q3 sales")
	require.NoError(t, err)
	assert.Equal(t, "Q3", d.Name)
	assert.Equal(t, models.VisibilityPasswordProtected, d.Visibility)
	require.Len(t, d.Components, 1)
	assert.Equal(t, "pie-chart", d.Components[0].Type)
}

func TestGetSchema_AcceptsBareBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"fieldSchema": []any{map[string]any{"name": "revenue", "type": "number"}},
			"isLocked":    true,
		})
	})

	s, err := c.GetSchema(context.Background(), "c1")
	require.NoError(t, err)
	assert.True(t, s.IsLocked)
	assert.Nil(t, s.LockCount)
	assert.Equal(t, models.FieldNumber, s.FieldSchema[0].Type)
}

func TestErrorExtraction(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantMsg  string
		wantCode string
	}{
		{"code and message", 409, `{"code":"schema_locked","message":"existing fields cannot be removed because data exists"}`, "existing fields cannot be removed because data exists", "schema_locked"},
		{"nested error", 400, `{"error":{"message":"bad field"}}`, "bad field", ""},
		{"string error", 400, `{"error":"nope"}`, "nope", ""},
		{"empty json", 503, `{}`, "Service Unavailable", ""},
		{"not json", 404, "404 page not found", "Not Found", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})
			err := c.DeleteComponent(context.Background(), "c1")
			var te *errs.TransportError
			require.True(t, errors.As(err, &te))
			assert.Equal(t, tt.status, te.Status)
			assert.Equal(t, tt.wantMsg, te.Message)
			assert.Equal(t, tt.wantCode, te.Code)
		})
	}
}

func TestNetworkFailureIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c := New(srv.URL)

	_, err := c.ListRecords(context.Background(), "c1")
	var te *errs.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, 0, te.Status)
	assert.Contains(t, te.Message, "request failed")
}

func TestRecordsRoundTrip(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			assert.Equal(t, "/api/v1/components/c1/data", r.URL.Path)
			var req dto.RecordRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			writeJSON(w, http.StatusCreated, map[string]any{
				"success": true,
				"data":    map[string]any{"_id": "r1", "componentId": "c1", "data": req.Data},
			})
		case http.MethodDelete:
			assert.Equal(t, "/api/v1/components/c1/data/r1", r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		}
	})

	rec, err := c.CreateRecord(context.Background(), "c1", map[string]any{"revenue": 500})
	require.NoError(t, err)
	assert.Equal(t, "r1", rec.ID)
	assert.Equal(t, 500.0, rec.Data["revenue"])
	require.NoError(t, c.DeleteRecord(context.Background(), "c1", "r1"))
}

func TestUpdateLayout_SendsBatch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/dashboards/sales/layout", r.URL.Path)
		var req dto.UpdateLayoutRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Layout, 2)
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data": dto.UpdateLayoutResponse{
				Updated: []string{req.Layout[0].I},
				Failed:  []dto.LayoutFailure{{ComponentID: req.Layout[1].I, Message: "component not found"}},
			},
		})
	})

	resp, err := c.UpdateLayout(context.Background(), "sales", []dto.LayoutItem{
		{I: "a", W: 4, H: 4, MinW: 3, MinH: 3},
		{I: "gone", W: 4, H: 4, MinW: 3, MinH: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, resp.Updated)
	assert.Equal(t, "gone", resp.Failed[0].ComponentID)
}

func TestRateLimitHonoursContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": []any{}})
	}, WithRateLimit(0.001, 1))

	_, err := c.ListDashboards(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.ListDashboards(ctx)
	var te *errs.TransportError
	require.True(t, errors.As(err, &te))
}
