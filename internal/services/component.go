package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/GregMSThompson/dashboard-builder/internal/dto"
	"github.com/GregMSThompson/dashboard-builder/internal/errs"
	"github.com/GregMSThompson/dashboard-builder/internal/layout"
	"github.com/GregMSThompson/dashboard-builder/internal/models"
	"github.com/GregMSThompson/dashboard-builder/internal/schema"
	"github.com/GregMSThompson/dashboard-builder/pkg/logger"
)

// componentStore is the Firestore storage interface for components.
type componentStore interface {
	Create(ctx context.Context, c *models.Component) error
	Get(ctx context.Context, componentID string) (*models.Component, error)
	Update(ctx context.Context, c *models.Component) error
	Mutate(ctx context.Context, componentID string, fn func(c *models.Component) error) (*models.Component, error)
	Delete(ctx context.Context, componentID string) error
}

// dashboardAccess resolves who may read or change a dashboard.
type dashboardAccess interface {
	Authorize(ctx context.Context, uid, slug, password string) (*models.Dashboard, error)
	Owned(ctx context.Context, uid, slug string) (*models.Dashboard, error)
}

type recordPresence interface {
	Exists(ctx context.Context, componentID string) (bool, error)
}

type widgetDefaults interface {
	ApplyDefaults(req *dto.CreateComponentRequest) error
}

type componentService struct {
	store      componentStore
	dashboards dashboardAccess
	records    recordPresence
	registry   widgetDefaults
}

func NewComponentService(store componentStore, dashboards dashboardAccess, records recordPresence, registry widgetDefaults) *componentService {
	return &componentService{store: store, dashboards: dashboards, records: records, registry: registry}
}

func (s *componentService) CreateComponent(ctx context.Context, uid, slug string, req dto.CreateComponentRequest) (*models.Component, error) {
	d, err := s.dashboards.Owned(ctx, uid, slug)
	if err != nil {
		return nil, err
	}
	if err := s.registry.ApplyDefaults(&req); err != nil {
		return nil, err
	}
	if err := schema.ValidateFields(req.FieldSchema); err != nil {
		return nil, err
	}
	c := &models.Component{
		ComponentID:   uuid.New().String(),
		DashboardSlug: d.Slug,
		OwnerUID:      d.OwnerUID,
		Type:          req.Type,
		Name:          req.Name,
		Position:      normalizePosition(*req.Position),
		Config:        req.Config,
		FieldSchema:   req.FieldSchema,
		DataSource:    *req.DataSource,
		Styling:       req.Styling,
	}
	if err := s.store.Create(ctx, c); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("component created", "slug", slug, "component_id", c.ComponentID, "type", c.Type)
	return c, nil
}

// GetComponent returns a component when uid may read its dashboard.
func (s *componentService) GetComponent(ctx context.Context, uid, componentID, password string) (*models.Component, error) {
	c, err := s.store.Get(ctx, componentID)
	if err != nil {
		return nil, err
	}
	if _, err := s.dashboards.Authorize(ctx, uid, c.DashboardSlug, password); err != nil {
		return nil, err
	}
	return c, nil
}

// owned loads a component that uid must own.
func (s *componentService) owned(ctx context.Context, uid, componentID string) (*models.Component, error) {
	c, err := s.store.Get(ctx, componentID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(c.OwnerUID, uid); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *componentService) UpdateComponent(ctx context.Context, uid, componentID string, req dto.UpdateComponentRequest) (*models.Component, error) {
	c, err := s.owned(ctx, uid, componentID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, errs.NewValidationError("name cannot be empty")
		}
		c.Name = *req.Name
	}
	if req.Position != nil {
		c.Position = normalizePosition(*req.Position)
	}
	if req.Config != nil {
		c.Config = req.Config
	}
	if req.DataSource != nil {
		c.DataSource = *req.DataSource
	}
	if req.Styling != nil {
		c.Styling = req.Styling
	}
	if err := s.store.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *componentService) DeleteComponent(ctx context.Context, uid, componentID string) error {
	if _, err := s.owned(ctx, uid, componentID); err != nil {
		return err
	}
	return s.store.Delete(ctx, componentID)
}

func (s *componentService) GetSchema(ctx context.Context, uid, componentID, password string) (dto.SchemaResponse, error) {
	c, err := s.GetComponent(ctx, uid, componentID, password)
	if err != nil {
		return dto.SchemaResponse{}, err
	}
	return s.schemaStatus(ctx, c)
}

// PutSchema replaces the field schema. The locked prefix is checked against
// the stored schema inside the same transaction that writes the new one.
func (s *componentService) PutSchema(ctx context.Context, uid, componentID string, req dto.UpdateSchemaRequest) (dto.SchemaResponse, error) {
	if req.FieldSchema == nil {
		req.FieldSchema = []models.FieldDescriptor{}
	}
	if err := schema.ValidateFields(req.FieldSchema); err != nil {
		return dto.SchemaResponse{}, err
	}
	c, err := s.store.Mutate(ctx, componentID, func(c *models.Component) error {
		if err := requireOwner(c.OwnerUID, uid); err != nil {
			return err
		}
		if err := schema.CheckLockedPrefix(c.FieldSchema, req.FieldSchema, c.LockCount); err != nil {
			return err
		}
		c.FieldSchema = req.FieldSchema
		return nil
	})
	if err != nil {
		return dto.SchemaResponse{}, err
	}
	return s.schemaStatus(ctx, c)
}

func (s *componentService) schemaStatus(ctx context.Context, c *models.Component) (dto.SchemaResponse, error) {
	exists, err := s.records.Exists(ctx, c.ComponentID)
	if err != nil {
		return dto.SchemaResponse{}, err
	}
	lockCount := c.LockCount
	fields := c.FieldSchema
	if fields == nil {
		fields = []models.FieldDescriptor{}
	}
	return dto.SchemaResponse{
		FieldSchema: fields,
		IsLocked:    exists || lockCount > 0,
		LockCount:   &lockCount,
	}, nil
}

func normalizePosition(p models.Position) models.Position {
	return layout.Normalize(layout.Item{
		X: p.X, Y: p.Y, W: p.W, H: p.H,
		MinW: p.MinW, MinH: p.MinH, MaxW: p.MaxW, MaxH: p.MaxH,
		Static: p.Static,
	}).Position()
}
