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
	"github.com/GregMSThompson/dashboard-builder/pkg/logger"
)

const (
	dashboardsCollection = "dashboards"
	componentsCollection = "components"
	recordsCollection    = "records"
)

type dashboardStore struct {
	client *firestore.Client
}

func NewDashboardStore(client *firestore.Client) *dashboardStore {
	return &dashboardStore{client: client}
}

func (s *dashboardStore) collection() *firestore.CollectionRef {
	return s.client.Collection(dashboardsCollection)
}

// Create fails with AlreadyExistsError when the slug is taken.
func (s *dashboardStore) Create(ctx context.Context, d *models.Dashboard) error {
	now := time.Now()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d.UpdatedAt = now
	_, err := s.collection().Doc(d.Slug).Create(ctx, d)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return errs.NewAlreadyExistsError("dashboard slug already in use")
		}
		return errs.NewDatabaseError("create", "failed to create dashboard", err)
	}
	return nil
}

func (s *dashboardStore) Get(ctx context.Context, slug string) (*models.Dashboard, error) {
	doc, err := s.collection().Doc(slug).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("dashboard not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get dashboard", err)
	}
	var d models.Dashboard
	if err := doc.DataTo(&d); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse dashboard data", err)
	}
	return &d, nil
}

func (s *dashboardStore) ListByOwner(ctx context.Context, uid string) ([]*models.Dashboard, error) {
	iter := s.collection().Where("ownerUid", "==", uid).OrderBy("updatedAt", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	var out []*models.Dashboard
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list dashboards", err)
		}
		var d models.Dashboard
		if err := doc.DataTo(&d); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse dashboard data", err)
		}
		out = append(out, &d)
	}
	return out, nil
}

func (s *dashboardStore) Update(ctx context.Context, d *models.Dashboard) error {
	d.UpdatedAt = time.Now()
	_, err := s.collection().Doc(d.Slug).Set(ctx, d)
	if err != nil {
		return errs.NewDatabaseError("update", "failed to update dashboard", err)
	}
	return nil
}

// Delete removes the dashboard together with its components and their records.
func (s *dashboardStore) Delete(ctx context.Context, slug string) error {
	log := logger.FromContext(ctx)
	comps, err := s.client.Collection(componentsCollection).Where("dashboardSlug", "==", slug).Documents(ctx).GetAll()
	if err != nil {
		return errs.NewDatabaseError("read", "failed to list dashboard components", err)
	}

	var refs []*firestore.DocumentRef
	for _, c := range comps {
		recs, err := recordRefs(ctx, c.Ref)
		if err != nil {
			return err
		}
		refs = append(refs, recs...)
		refs = append(refs, c.Ref)
	}
	refs = append(refs, s.collection().Doc(slug))

	if err := bulkDelete(ctx, s.client, refs); err != nil {
		return err
	}
	log.Info("dashboard deleted", "slug", slug, "components", len(comps), "documents", len(refs))
	return nil
}

// recordRefs lists the record documents under a component.
func recordRefs(ctx context.Context, component *firestore.DocumentRef) ([]*firestore.DocumentRef, error) {
	iter := component.Collection(recordsCollection).DocumentRefs(ctx)
	var refs []*firestore.DocumentRef
	for {
		ref, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list component records", err)
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

type bulkJob struct {
	ref *firestore.DocumentRef
	job *firestore.BulkWriterJob
}

// bulkDelete deletes documents with a BulkWriter. Children must precede their
// parents in refs.
func bulkDelete(ctx context.Context, client *firestore.Client, refs []*firestore.DocumentRef) error {
	if len(refs) == 0 {
		return nil
	}
	log := logger.FromContext(ctx)
	bw := client.BulkWriter(ctx)

	jobs := make([]bulkJob, 0, len(refs))
	for _, ref := range refs {
		j, err := bw.Delete(ref)
		if err != nil {
			bw.End()
			return errs.NewDatabaseError("delete", "failed to schedule delete", err)
		}
		jobs = append(jobs, bulkJob{ref: ref, job: j})
	}
	bw.End()

	for _, entry := range jobs {
		if _, err := entry.job.Results(); err != nil {
			log.Error("failed to delete document", "path", entry.ref.Path, "error", err)
			return errs.NewDatabaseError("delete", "failed to delete document", err)
		}
	}
	return nil
}
