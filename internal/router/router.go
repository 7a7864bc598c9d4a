package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GregMSThompson/dashboard-builder/internal/dto"
	"github.com/GregMSThompson/dashboard-builder/internal/handlers"
	"github.com/GregMSThompson/dashboard-builder/internal/middleware"
)

type Options struct {
	Auth        *middleware.Middleware
	CORSOrigins []string
	// Registry receives the HTTP metrics and backs GET /metrics.
	Registry *prometheus.Registry
}

func NewRouter(deps *handlers.Deps, opts Options) chi.Router {
	r := chi.NewRouter()

	metrics := middleware.NewMetrics(opts.Registry)
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.NewLoggerMiddleware(deps.Log).LoggerMiddleware)
	r.Use(chimiddleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", dto.DashboardPasswordHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Handle("/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })

	dh := handlers.NewDashboardHandlers(deps)
	ch := handlers.NewComponentHandlers(deps)
	wh := handlers.NewWidgetTypeHandlers(deps)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/widget-types", wh.ListWidgetTypes)
		r.Group(func(r chi.Router) {
			r.Use(opts.Auth.OptionalAuth)
			r.Mount("/dashboards", dh.DashboardRoutes())
			r.Mount("/components", ch.ComponentRoutes())
		})
	})
	return r
}
