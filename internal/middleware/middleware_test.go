package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/GregMSThompson/dashboard-builder/pkg/logger"
)

type stubVerifier struct {
	uid string
	err error
}

func (s stubVerifier) VerifyIDToken(_ context.Context, _ string) (*auth.Token, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &auth.Token{UID: s.uid}, nil
}

func uidEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(UID(r.Context())))
	})
}

func TestAuthModes(t *testing.T) {
	cases := []struct {
		name     string
		optional bool
		header   string
		verifier stubVerifier
		status   int
		body     string
	}{
		{"required missing", false, "", stubVerifier{uid: "u"}, http.StatusUnauthorized, ""},
		{"optional missing", true, "", stubVerifier{uid: "u"}, http.StatusOK, ""},
		{"malformed", true, "Token abc", stubVerifier{uid: "u"}, http.StatusUnauthorized, ""},
		{"bad token", true, "Bearer abc", stubVerifier{err: errors.New("expired")}, http.StatusUnauthorized, ""},
		{"valid", false, "Bearer abc", stubVerifier{uid: "uid-1"}, http.StatusOK, "uid-1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := NewMiddleware(tc.verifier)
			h := m.FirebaseAuth(uidEcho())
			if tc.optional {
				h = m.OptionalAuth(uidEcho())
			}
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			if rr.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rr.Code)
			}
			if tc.status == http.StatusOK && rr.Body.String() != tc.body {
				t.Fatalf("expected uid %q, got %q", tc.body, rr.Body.String())
			}
		})
	}
}

func TestMetricsLabelsByRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/dashboards/{slug}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for _, slug := range []string{"a", "b"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/dashboards/"+slug, nil))
	}

	want := `
# HELP dashboard_http_requests_total HTTP requests by route, method and status.
# TYPE dashboard_http_requests_total counter
dashboard_http_requests_total{method="GET",route="/dashboards/{slug}",status="418"} 2
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(want), "dashboard_http_requests_total"); err != nil {
		t.Fatal(err)
	}
}

func TestLoggerMiddleware(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	h := NewLoggerMiddleware(log).LoggerMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Info("inside")
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/widget-types", nil))

	out := buf.String()
	if !strings.Contains(out, "msg=inside") || !strings.Contains(out, "path=/api/v1/widget-types") {
		t.Errorf("expected request-scoped logger, got %q", out)
	}
	if !strings.Contains(out, "status=418") {
		t.Errorf("expected finished line with status, got %q", out)
	}
}
