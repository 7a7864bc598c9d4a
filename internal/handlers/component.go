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

type ComponentService interface {
	CreateComponent(ctx context.Context, uid, slug string, req dto.CreateComponentRequest) (*models.Component, error)
	GetComponent(ctx context.Context, uid, componentID, password string) (*models.Component, error)
	UpdateComponent(ctx context.Context, uid, componentID string, req dto.UpdateComponentRequest) (*models.Component, error)
	DeleteComponent(ctx context.Context, uid, componentID string) error
	GetSchema(ctx context.Context, uid, componentID, password string) (dto.SchemaResponse, error)
	PutSchema(ctx context.Context, uid, componentID string, req dto.UpdateSchemaRequest) (dto.SchemaResponse, error)
}

type RecordService interface {
	ListRecords(ctx context.Context, uid, componentID, password string) ([]models.DataRecord, error)
	CreateRecord(ctx context.Context, uid, componentID string, req dto.RecordRequest) (*models.DataRecord, error)
	UpdateRecord(ctx context.Context, uid, componentID, recordID string, req dto.RecordRequest) (*models.DataRecord, error)
	DeleteRecord(ctx context.Context, uid, componentID, recordID string) error
}

type componentHandlers struct {
	ResponseHandler response.ResponseHandler
	ComponentSvc    ComponentService
	RecordSvc       RecordService
}

func NewComponentHandlers(deps *Deps) *componentHandlers {
	return &componentHandlers{
		ResponseHandler: deps.ResponseHandler,
		ComponentSvc:    deps.ComponentSvc,
		RecordSvc:       deps.RecordSvc,
	}
}

func (h *componentHandlers) ComponentRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{componentId}", h.GetComponent)
	r.Patch("/{componentId}", h.UpdateComponent)
	r.Delete("/{componentId}", h.DeleteComponent)
	r.Get("/{componentId}/schema", h.GetSchema)
	r.Put("/{componentId}/schema", h.PutSchema)
	r.Get("/{componentId}/data", h.ListRecords)
	r.Post("/{componentId}/data", h.CreateRecord)
	r.Put("/{componentId}/data/{recordId}", h.UpdateRecord)
	r.Delete("/{componentId}/data/{recordId}", h.DeleteRecord)
	return r
}

func (h *componentHandlers) GetComponent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "componentId")
	uid := middleware.UID(r.Context())
	c, err := h.ComponentSvc.GetComponent(r.Context(), uid, id, dashboardPassword(r))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, c)
}

func (h *componentHandlers) UpdateComponent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "componentId")
	var req dto.UpdateComponentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	c, err := h.ComponentSvc.UpdateComponent(r.Context(), uid, id, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, c)
}

func (h *componentHandlers) DeleteComponent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "componentId")
	uid := middleware.UID(r.Context())
	if err := h.ComponentSvc.DeleteComponent(r.Context(), uid, id); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *componentHandlers) GetSchema(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "componentId")
	uid := middleware.UID(r.Context())
	st, err := h.ComponentSvc.GetSchema(r.Context(), uid, id, dashboardPassword(r))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, st)
}

func (h *componentHandlers) PutSchema(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "componentId")
	var req dto.UpdateSchemaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	st, err := h.ComponentSvc.PutSchema(r.Context(), uid, id, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, st)
}

func (h *componentHandlers) ListRecords(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "componentId")
	uid := middleware.UID(r.Context())
	recs, err := h.RecordSvc.ListRecords(r.Context(), uid, id, dashboardPassword(r))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, recs)
}

func (h *componentHandlers) CreateRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "componentId")
	var req dto.RecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	rec, err := h.RecordSvc.CreateRecord(r.Context(), uid, id, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, rec)
}

func (h *componentHandlers) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "componentId")
	recordID := chi.URLParam(r, "recordId")
	var req dto.RecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	rec, err := h.RecordSvc.UpdateRecord(r.Context(), uid, id, recordID, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, rec)
}

func (h *componentHandlers) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "componentId")
	recordID := chi.URLParam(r, "recordId")
	uid := middleware.UID(r.Context())
	if err := h.RecordSvc.DeleteRecord(r.Context(), uid, id, recordID); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}
