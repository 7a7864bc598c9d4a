package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/dashboard-builder/internal/dto"
	"github.com/GregMSThompson/dashboard-builder/internal/middleware"
	"github.com/GregMSThompson/dashboard-builder/internal/models"
	"github.com/GregMSThompson/dashboard-builder/internal/response"
)

type DashboardService interface {
	ListDashboards(ctx context.Context, uid string) ([]*models.Dashboard, error)
	CreateDashboard(ctx context.Context, uid string, req dto.CreateDashboardRequest) (*models.Dashboard, error)
	GetDashboard(ctx context.Context, uid, slug, password string) (*models.Dashboard, error)
	UpdateDashboard(ctx context.Context, uid, slug string, req dto.UpdateDashboardRequest) (*models.Dashboard, error)
	DeleteDashboard(ctx context.Context, uid, slug string) error
	UpdateLayout(ctx context.Context, uid, slug string, req dto.UpdateLayoutRequest) (dto.UpdateLayoutResponse, error)
}

type dashboardHandlers struct {
	ResponseHandler response.ResponseHandler
	DashboardSvc    DashboardService
	ComponentSvc    ComponentService
}

func NewDashboardHandlers(deps *Deps) *dashboardHandlers {
	return &dashboardHandlers{
		ResponseHandler: deps.ResponseHandler,
		DashboardSvc:    deps.DashboardSvc,
		ComponentSvc:    deps.ComponentSvc,
	}
}

// DashboardRoutes expects an auth middleware upstream that may leave the uid
// empty for anonymous readers.
func (h *dashboardHandlers) DashboardRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListDashboards)
	r.Post("/", h.CreateDashboard)
	r.Get("/{slug}", h.GetDashboard)
	r.Patch("/{slug}", h.UpdateDashboard)
	r.Delete("/{slug}", h.DeleteDashboard)
	r.Put("/{slug}/layout", h.UpdateLayout)
	r.Post("/{slug}/components", h.CreateComponent)
	return r
}

func (h *dashboardHandlers) ListDashboards(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	out, err := h.DashboardSvc.ListDashboards(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, out)
}

func (h *dashboardHandlers) CreateDashboard(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDashboardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	d, err := h.DashboardSvc.CreateDashboard(r.Context(), uid, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, d)
}

func (h *dashboardHandlers) GetDashboard(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	uid := middleware.UID(r.Context())
	d, err := h.DashboardSvc.GetDashboard(r.Context(), uid, slug, dashboardPassword(r))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, d)
}

func (h *dashboardHandlers) UpdateDashboard(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	var req dto.UpdateDashboardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	d, err := h.DashboardSvc.UpdateDashboard(r.Context(), uid, slug, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, d)
}

func (h *dashboardHandlers) DeleteDashboard(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	uid := middleware.UID(r.Context())
	if err := h.DashboardSvc.DeleteDashboard(r.Context(), uid, slug); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *dashboardHandlers) UpdateLayout(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	var req dto.UpdateLayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	resp, err := h.DashboardSvc.UpdateLayout(r.Context(), uid, slug, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, resp)
}

func (h *dashboardHandlers) CreateComponent(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	var req dto.CreateComponentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	c, err := h.ComponentSvc.CreateComponent(r.Context(), uid, slug, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, c)
}

func dashboardPassword(r *http.Request) string {
	return r.Header.Get(dto.DashboardPasswordHeader)
}
