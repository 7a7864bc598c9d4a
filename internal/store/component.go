package store

import (
	"context"
	"slices"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/dashboard-builder/internal/errs"
	"github.com/GregMSThompson/dashboard-builder/internal/models"
	"github.com/GregMSThompson/dashboard-builder/pkg/logger"
)

type componentStore struct {
	client *firestore.Client
}

func NewComponentStore(client *firestore.Client) *componentStore {
	return &componentStore{client: client}
}

func (s *componentStore) collection() *firestore.CollectionRef {
	return s.client.Collection(componentsCollection)
}

func (s *componentStore) Create(ctx context.Context, c *models.Component) error {
	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	_, err := s.collection().Doc(c.ComponentID).Create(ctx, c)
	if err != nil {
		return errs.NewDatabaseError("create", "failed to create component", err)
	}
	return nil
}

func (s *componentStore) Get(ctx context.Context, componentID string) (*models.Component, error) {
	doc, err := s.collection().Doc(componentID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("component not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get component", err)
	}
	return decodeComponent(doc)
}

// ListByDashboard returns a dashboard's components in creation order.
func (s *componentStore) ListByDashboard(ctx context.Context, slug string) ([]models.Component, error) {
	// served by the (dashboardSlug, createdAt) composite index
	iter := s.collection().Where("dashboardSlug", "==", slug).OrderBy("createdAt", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var out []models.Component
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list components", err)
		}
		c, err := decodeComponent(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, nil
}

func (s *componentStore) Update(ctx context.Context, c *models.Component) error {
	c.UpdatedAt = time.Now()
	_, err := s.collection().Doc(c.ComponentID).Set(ctx, c)
	if err != nil {
		return errs.NewDatabaseError("update", "failed to update component", err)
	}
	return nil
}

// Mutate reads a component and writes back the result of fn in one
// transaction. An error from fn aborts without writing.
func (s *componentStore) Mutate(ctx context.Context, componentID string, fn func(c *models.Component) error) (*models.Component, error) {
	ref := s.collection().Doc(componentID)
	var out *models.Component
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			return err
		}
		c, err := decodeComponent(doc)
		if err != nil {
			return err
		}
		if err := fn(c); err != nil {
			return err
		}
		c.UpdatedAt = time.Now()
		out = c
		return tx.Set(ref, c)
	})
	if err != nil {
		return nil, txError(err, "component not found", "failed to update component")
	}
	return out, nil
}

// UpdatePositions writes each position independently. Missing components and
// failed writes are reported per id; the rest still go through.
func (s *componentStore) UpdatePositions(ctx context.Context, slug string, positions map[string]models.Position) ([]string, map[string]error) {
	log := logger.FromContext(ctx)
	bw := s.client.BulkWriter(ctx)
	now := time.Now()

	type positionJob struct {
		componentID string
		job         *firestore.BulkWriterJob
	}
	failed := map[string]error{}
	jobs := make([]positionJob, 0, len(positions))
	for id, pos := range positions {
		j, err := bw.Update(s.collection().Doc(id), []firestore.Update{
			{Path: "position", Value: pos},
			{Path: "updatedAt", Value: now},
		}, firestore.Exists)
		if err != nil {
			failed[id] = err
			continue
		}
		jobs = append(jobs, positionJob{componentID: id, job: j})
	}
	bw.End()

	var updated []string
	for _, entry := range jobs {
		if _, err := entry.job.Results(); err != nil {
			log.Warn("failed to update component position", "dashboard", slug, "component_id", entry.componentID, "error", err)
			if status.Code(err) == codes.NotFound {
				err = errs.NewNotFoundError("component not found")
			}
			failed[entry.componentID] = err
			continue
		}
		updated = append(updated, entry.componentID)
	}
	slices.Sort(updated)
	return updated, failed
}

// Delete removes a component and every record under it.
func (s *componentStore) Delete(ctx context.Context, componentID string) error {
	ref := s.collection().Doc(componentID)
	refs, err := recordRefs(ctx, ref)
	if err != nil {
		return err
	}
	return bulkDelete(ctx, s.client, append(refs, ref))
}

func decodeComponent(doc *firestore.DocumentSnapshot) (*models.Component, error) {
	var c models.Component
	if err := doc.DataTo(&c); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse component data", err)
	}
	return &c, nil
}

// txError keeps domain errors raised inside a transaction and wraps the rest.
func txError(err error, notFound, message string) error {
	switch err.(type) {
	case *errs.SchemaLockedError, *errs.ValidationError, *errs.NotFoundError, *errs.DatabaseError:
		return err
	}
	if status.Code(err) == codes.NotFound {
		return errs.NewNotFoundError(notFound)
	}
	return errs.NewDatabaseError("transaction", message, err)
}
