package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/GregMSThompson/dashboard-builder/internal/dto"
	"github.com/GregMSThompson/dashboard-builder/internal/models"
	"github.com/GregMSThompson/dashboard-builder/internal/schema"
)

// recordStore is the Firestore storage interface for component records.
type recordStore interface {
	List(ctx context.Context, componentID string) ([]models.DataRecord, error)
	Create(ctx context.Context, r *models.DataRecord, validate func(c *models.Component) error) error
	Update(ctx context.Context, r *models.DataRecord, validate func(c *models.Component) error) error
	Delete(ctx context.Context, componentID, recordID string) error
}

type componentReader interface {
	Get(ctx context.Context, componentID string) (*models.Component, error)
}

type recordService struct {
	store      recordStore
	components componentReader
	dashboards dashboardAccess
}

func NewRecordService(store recordStore, components componentReader, dashboards dashboardAccess) *recordService {
	return &recordService{store: store, components: components, dashboards: dashboards}
}

func (s *recordService) ListRecords(ctx context.Context, uid, componentID, password string) ([]models.DataRecord, error) {
	c, err := s.components.Get(ctx, componentID)
	if err != nil {
		return nil, err
	}
	if _, err := s.dashboards.Authorize(ctx, uid, c.DashboardSlug, password); err != nil {
		return nil, err
	}
	return s.store.List(ctx, componentID)
}

// CreateRecord validates the values against the stored schema and saves them.
// The first record of a component locks its current fields; later records
// lock any appended field they give a value for.
func (s *recordService) CreateRecord(ctx context.Context, uid, componentID string, req dto.RecordRequest) (*models.DataRecord, error) {
	r := &models.DataRecord{
		ID:          uuid.New().String(),
		ComponentID: componentID,
		Data:        dataOrEmpty(req.Data),
	}
	err := s.store.Create(ctx, r, func(c *models.Component) error {
		if err := requireOwner(c.OwnerUID, uid); err != nil {
			return err
		}
		return schema.ValidateValues(c.FieldSchema, r.Data)
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// UpdateRecord replaces a record's values after checking them against the
// stored schema.
func (s *recordService) UpdateRecord(ctx context.Context, uid, componentID, recordID string, req dto.RecordRequest) (*models.DataRecord, error) {
	r := &models.DataRecord{
		ID:          recordID,
		ComponentID: componentID,
		Data:        dataOrEmpty(req.Data),
	}
	err := s.store.Update(ctx, r, func(c *models.Component) error {
		if err := requireOwner(c.OwnerUID, uid); err != nil {
			return err
		}
		return schema.ValidateValues(c.FieldSchema, r.Data)
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *recordService) DeleteRecord(ctx context.Context, uid, componentID, recordID string) error {
	c, err := s.components.Get(ctx, componentID)
	if err != nil {
		return err
	}
	if err := requireOwner(c.OwnerUID, uid); err != nil {
		return err
	}
	return s.store.Delete(ctx, componentID, recordID)
}

func dataOrEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
