package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/dashboard-builder/internal/errs"
	"github.com/GregMSThompson/dashboard-builder/internal/models"
	"github.com/GregMSThompson/dashboard-builder/internal/schema"
)

type recordStore struct {
	client *firestore.Client
}

func NewRecordStore(client *firestore.Client) *recordStore {
	return &recordStore{client: client}
}

func (s *recordStore) component(componentID string) *firestore.DocumentRef {
	return s.client.Collection(componentsCollection).Doc(componentID)
}

func (s *recordStore) collection(componentID string) *firestore.CollectionRef {
	return s.component(componentID).Collection(recordsCollection)
}

func (s *recordStore) List(ctx context.Context, componentID string) ([]models.DataRecord, error) {
	iter := s.collection(componentID).OrderBy("createdAt", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	out := []models.DataRecord{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list records", err)
		}
		var r models.DataRecord
		if err := doc.DataTo(&r); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse record data", err)
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *recordStore) Get(ctx context.Context, componentID, recordID string) (*models.DataRecord, error) {
	doc, err := s.collection(componentID).Doc(recordID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("record not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get record", err)
	}
	var r models.DataRecord
	if err := doc.DataTo(&r); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse record data", err)
	}
	return &r, nil
}

// Exists reports whether the component has at least one record.
func (s *recordStore) Exists(ctx context.Context, componentID string) (bool, error) {
	docs, err := s.collection(componentID).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return false, errs.NewDatabaseError("read", "failed to count records", err)
	}
	return len(docs) > 0, nil
}

// Create stores a record. validate runs against the component as read inside
// the transaction. The component's lockCount is raised in the same
// transaction: to the whole schema for the first record, and past any later
// field the record holds a value for.
func (s *recordStore) Create(ctx context.Context, r *models.DataRecord, validate func(c *models.Component) error) error {
	compRef := s.component(r.ComponentID)
	recRef := s.collection(r.ComponentID).Doc(r.ID)
	now := time.Now()
	r.CreatedAt, r.UpdatedAt = now, now

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(compRef)
		if err != nil {
			return err
		}
		c, err := decodeComponent(doc)
		if err != nil {
			return err
		}
		existing, err := tx.Documents(s.collection(r.ComponentID).Limit(1)).GetAll()
		if err != nil {
			return err
		}
		if validate != nil {
			if err := validate(c); err != nil {
				return err
			}
		}
		lockCount := c.LockCount
		if len(existing) == 0 {
			lockCount = max(lockCount, len(c.FieldSchema))
		}
		if err := raiseLock(tx, compRef, c, lockCount, r.Data, now); err != nil {
			return err
		}
		return tx.Create(recRef, r)
	})
	if err != nil {
		return txError(err, "component not found", "failed to create record")
	}
	return nil
}

// Update replaces a record's data. Like Create, it locks any appended field
// the new data gives a value for.
func (s *recordStore) Update(ctx context.Context, r *models.DataRecord, validate func(c *models.Component) error) error {
	compRef := s.component(r.ComponentID)
	recRef := s.collection(r.ComponentID).Doc(r.ID)
	now := time.Now()

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(compRef)
		if err != nil {
			return err
		}
		c, err := decodeComponent(doc)
		if err != nil {
			return err
		}
		recDoc, err := tx.Get(recRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errs.NewNotFoundError("record not found")
			}
			return err
		}
		var stored models.DataRecord
		if err := recDoc.DataTo(&stored); err != nil {
			return errs.NewDatabaseError("read", "failed to parse record data", err)
		}
		if validate != nil {
			if err := validate(c); err != nil {
				return err
			}
		}
		if err := raiseLock(tx, compRef, c, c.LockCount, r.Data, now); err != nil {
			return err
		}
		r.CreatedAt, r.UpdatedAt = stored.CreatedAt, now
		return tx.Update(recRef, []firestore.Update{
			{Path: "data", Value: r.Data},
			{Path: "updatedAt", Value: now},
		})
	})
	if err != nil {
		return txError(err, "component not found", "failed to update record")
	}
	return nil
}

// raiseLock writes the component's new lockCount when data pushes it past the
// stored one.
func raiseLock(tx *firestore.Transaction, compRef *firestore.DocumentRef, c *models.Component, lockCount int, data map[string]any, now time.Time) error {
	lockCount = schema.LockCountFor(c.FieldSchema, lockCount, data)
	if lockCount <= c.LockCount {
		return nil
	}
	return tx.Update(compRef, []firestore.Update{
		{Path: "lockCount", Value: lockCount},
		{Path: "updatedAt", Value: now},
	})
}

// Delete removes one record. The component's lockCount is left as is.
func (s *recordStore) Delete(ctx context.Context, componentID, recordID string) error {
	_, err := s.collection(componentID).Doc(recordID).Delete(ctx, firestore.Exists)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errs.NewNotFoundError("record not found")
		}
		return errs.NewDatabaseError("delete", "failed to delete record", err)
	}
	return nil
}
