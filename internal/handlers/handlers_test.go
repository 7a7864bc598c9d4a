package handlers

import (
	"context"
	"net/http"

	"github.com/GregMSThompson/dashboard-builder/internal/dto"
	"github.com/GregMSThompson/dashboard-builder/internal/models"
)

type stubResponseHandler struct {
	writeSuccessCalled bool
	writeSuccessStatus int
	writeSuccessData   any

	handleErrorCalled bool
	handleError       error

	writeErrorCalled bool
	writeErrorStatus int
	writeErrorCode   string
}

func (s *stubResponseHandler) WriteSuccess(w http.ResponseWriter, _ *http.Request, status int, data any) {
	s.writeSuccessCalled = true
	s.writeSuccessStatus = status
	s.writeSuccessData = data

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"success":true}`))
}

func (s *stubResponseHandler) WriteError(w http.ResponseWriter, _ *http.Request, status int, code, _ string) {
	s.writeErrorCalled = true
	s.writeErrorStatus = status
	s.writeErrorCode = code
	w.WriteHeader(status)
}

func (s *stubResponseHandler) HandleError(w http.ResponseWriter, _ *http.Request, err error) {
	s.handleErrorCalled = true
	s.handleError = err
	w.WriteHeader(http.StatusInternalServerError)
}

// stubDashboardService records the arguments of the last call.
type stubDashboardService struct {
	uid, slug, password string
	createReq           dto.CreateDashboardRequest
	layoutReq           dto.UpdateLayoutRequest
	err                 error
}

func (s *stubDashboardService) ListDashboards(_ context.Context, uid string) ([]*models.Dashboard, error) {
	s.uid = uid
	return []*models.Dashboard{{Slug: "sales"}}, s.err
}

func (s *stubDashboardService) CreateDashboard(_ context.Context, uid string, req dto.CreateDashboardRequest) (*models.Dashboard, error) {
	s.uid, s.createReq = uid, req
	if s.err != nil {
		return nil, s.err
	}
	return &models.Dashboard{Slug: req.Slug, Name: req.Name}, nil
}

func (s *stubDashboardService) GetDashboard(_ context.Context, uid, slug, password string) (*models.Dashboard, error) {
	s.uid, s.slug, s.password = uid, slug, password
	if s.err != nil {
		return nil, s.err
	}
	return &models.Dashboard{Slug: slug}, nil
}

func (s *stubDashboardService) UpdateDashboard(_ context.Context, uid, slug string, _ dto.UpdateDashboardRequest) (*models.Dashboard, error) {
	s.uid, s.slug = uid, slug
	if s.err != nil {
		return nil, s.err
	}
	return &models.Dashboard{Slug: slug}, nil
}

func (s *stubDashboardService) DeleteDashboard(_ context.Context, uid, slug string) error {
	s.uid, s.slug = uid, slug
	return s.err
}

func (s *stubDashboardService) UpdateLayout(_ context.Context, uid, slug string, req dto.UpdateLayoutRequest) (dto.UpdateLayoutResponse, error) {
	s.uid, s.slug, s.layoutReq = uid, slug, req
	updated := make([]string, 0, len(req.Layout))
	for _, li := range req.Layout {
		updated = append(updated, li.I)
	}
	return dto.UpdateLayoutResponse{Updated: updated}, s.err
}

type stubComponentService struct {
	uid, slug, id, password string
	schemaReq               dto.UpdateSchemaRequest
	err                     error
}

func (s *stubComponentService) CreateComponent(_ context.Context, uid, slug string, req dto.CreateComponentRequest) (*models.Component, error) {
	s.uid, s.slug = uid, slug
	if s.err != nil {
		return nil, s.err
	}
	return &models.Component{ComponentID: "c1", Type: req.Type}, nil
}

func (s *stubComponentService) GetComponent(_ context.Context, uid, id, password string) (*models.Component, error) {
	s.uid, s.id, s.password = uid, id, password
	if s.err != nil {
		return nil, s.err
	}
	return &models.Component{ComponentID: id}, nil
}

func (s *stubComponentService) UpdateComponent(_ context.Context, uid, id string, _ dto.UpdateComponentRequest) (*models.Component, error) {
	s.uid, s.id = uid, id
	if s.err != nil {
		return nil, s.err
	}
	return &models.Component{ComponentID: id}, nil
}

func (s *stubComponentService) DeleteComponent(_ context.Context, uid, id string) error {
	s.uid, s.id = uid, id
	return s.err
}

func (s *stubComponentService) GetSchema(_ context.Context, uid, id, password string) (dto.SchemaResponse, error) {
	s.uid, s.id, s.password = uid, id, password
	return dto.SchemaResponse{FieldSchema: []models.FieldDescriptor{}}, s.err
}

func (s *stubComponentService) PutSchema(_ context.Context, uid, id string, req dto.UpdateSchemaRequest) (dto.SchemaResponse, error) {
	s.uid, s.id, s.schemaReq = uid, id, req
	return dto.SchemaResponse{FieldSchema: req.FieldSchema}, s.err
}

type stubRecordService struct {
	uid, id, recordID, password string
	data                        map[string]any
	err                         error
}

func (s *stubRecordService) ListRecords(_ context.Context, uid, id, password string) ([]models.DataRecord, error) {
	s.uid, s.id, s.password = uid, id, password
	return []models.DataRecord{}, s.err
}

func (s *stubRecordService) CreateRecord(_ context.Context, uid, id string, req dto.RecordRequest) (*models.DataRecord, error) {
	s.uid, s.id, s.data = uid, id, req.Data
	if s.err != nil {
		return nil, s.err
	}
	return &models.DataRecord{ID: "r1", ComponentID: id, Data: req.Data}, nil
}

func (s *stubRecordService) UpdateRecord(_ context.Context, uid, id, recordID string, req dto.RecordRequest) (*models.DataRecord, error) {
	s.uid, s.id, s.recordID, s.data = uid, id, recordID, req.Data
	if s.err != nil {
		return nil, s.err
	}
	return &models.DataRecord{ID: recordID, ComponentID: id, Data: req.Data}, nil
}

func (s *stubRecordService) DeleteRecord(_ context.Context, uid, id, recordID string) error {
	s.uid, s.id, s.recordID = uid, id, recordID
	return s.err
}
