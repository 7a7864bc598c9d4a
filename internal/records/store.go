// Package records provides CRUD over the data records of one widget. Every
// mutation is followed by a full re-read of the records and the schema status,
// because the lock state is derived from record existence.
package records

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/GregMSThompson/dashboard-builder/internal/models"
	"github.com/GregMSThompson/dashboard-builder/internal/schema"
	"github.com/GregMSThompson/dashboard-builder/pkg/logger"
)

type recordAPI interface {
	ListRecords(ctx context.Context, componentID string) ([]models.DataRecord, error)
	CreateRecord(ctx context.Context, componentID string, data map[string]any) (models.DataRecord, error)
	UpdateRecord(ctx context.Context, componentID, recordID string, data map[string]any) (models.DataRecord, error)
	DeleteRecord(ctx context.Context, componentID, recordID string) error
}

type Option func(*Store)

// WithValidation checks payloads against the saved schema before sending them.
// The server validates regardless.
func WithValidation() Option {
	return func(s *Store) { s.validate = true }
}

type Store struct {
	mu       sync.Mutex
	api      recordAPI
	schema   *schema.Manager
	records  []models.DataRecord
	validate bool
}

func NewStore(api recordAPI, sm *schema.Manager, opts ...Option) *Store {
	s := &Store{api: api, schema: sm}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) ComponentID() string { return s.schema.ComponentID() }

// Schema returns the schema manager the store keeps in sync.
func (s *Store) Schema() *schema.Manager { return s.schema }

// List fetches the records from the server.
func (s *Store) List(ctx context.Context) ([]models.DataRecord, error) {
	recs, err := s.api.ListRecords(ctx, s.ComponentID())
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.records = recs
	s.mu.Unlock()
	s.schema.ObserveRecords(recs)
	return slices.Clone(recs), nil
}

// Records returns the last fetched records.
func (s *Store) Records() []models.DataRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.records)
}

// Create adds a record. The first successful create is what locks the schema.
func (s *Store) Create(ctx context.Context, values map[string]any) (models.DataRecord, error) {
	if err := s.check(values); err != nil {
		return models.DataRecord{}, err
	}
	rec, err := s.api.CreateRecord(ctx, s.ComponentID(), values)
	if err != nil {
		return models.DataRecord{}, err
	}
	return rec, s.refresh(ctx)
}

func (s *Store) Update(ctx context.Context, recordID string, values map[string]any) (models.DataRecord, error) {
	if err := s.check(values); err != nil {
		return models.DataRecord{}, err
	}
	rec, err := s.api.UpdateRecord(ctx, s.ComponentID(), recordID, values)
	if err != nil {
		return models.DataRecord{}, err
	}
	return rec, s.refresh(ctx)
}

func (s *Store) Delete(ctx context.Context, recordID string) error {
	if err := s.api.DeleteRecord(ctx, s.ComponentID(), recordID); err != nil {
		return err
	}
	return s.refresh(ctx)
}

func (s *Store) check(values map[string]any) error {
	if !s.validate {
		return nil
	}
	return schema.ValidateValues(s.schema.Saved(), values)
}

// refresh re-reads the schema status and the record list after a mutation.
func (s *Store) refresh(ctx context.Context) error {
	log := logger.FromContext(ctx)
	if err := s.schema.Load(ctx); err != nil {
		log.Warn("schema refresh failed", "component_id", s.ComponentID(), "error", err)
		return fmt.Errorf("refresh schema: %w", err)
	}
	if _, err := s.List(ctx); err != nil {
		log.Warn("record refresh failed", "component_id", s.ComponentID(), "error", err)
		return fmt.Errorf("refresh records: %w", err)
	}
	return nil
}
