package services

import (
	"context"
	"sort"
	"strings"

	"github.com/GregMSThompson/dashboard-builder/internal/errs"
	"github.com/GregMSThompson/dashboard-builder/internal/models"
	"github.com/GregMSThompson/dashboard-builder/internal/schema"
)

// --- Fakes ---

type fakeDashboardStore struct {
	dashboards map[string]*models.Dashboard
	createErr  error
	getErr     error
	updateErr  error
	deleted    []string
}

func newFakeDashboardStore() *fakeDashboardStore {
	return &fakeDashboardStore{dashboards: make(map[string]*models.Dashboard)}
}

func (f *fakeDashboardStore) Create(_ context.Context, d *models.Dashboard) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.dashboards[d.Slug]; ok {
		return errs.NewAlreadyExistsError("dashboard slug already in use")
	}
	cp := *d
	f.dashboards[d.Slug] = &cp
	return nil
}

func (f *fakeDashboardStore) Get(_ context.Context, slug string) (*models.Dashboard, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	d, ok := f.dashboards[slug]
	if !ok {
		return nil, errs.NewNotFoundError("dashboard not found")
	}
	cp := *d
	return &cp, nil
}

func (f *fakeDashboardStore) ListByOwner(_ context.Context, uid string) ([]*models.Dashboard, error) {
	var out []*models.Dashboard
	for _, d := range f.dashboards {
		if d.OwnerUID == uid {
			cp := *d
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

func (f *fakeDashboardStore) Update(_ context.Context, d *models.Dashboard) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	cp := *d
	cp.Components = nil
	f.dashboards[d.Slug] = &cp
	return nil
}

func (f *fakeDashboardStore) Delete(_ context.Context, slug string) error {
	delete(f.dashboards, slug)
	f.deleted = append(f.deleted, slug)
	return nil
}

type fakeComponentStore struct {
	components  map[string]*models.Component
	order       []string
	positionErr map[string]error
}

func newFakeComponentStore() *fakeComponentStore {
	return &fakeComponentStore{components: make(map[string]*models.Component), positionErr: map[string]error{}}
}

func (f *fakeComponentStore) Create(_ context.Context, c *models.Component) error {
	cp := *c
	f.components[c.ComponentID] = &cp
	f.order = append(f.order, c.ComponentID)
	return nil
}

func (f *fakeComponentStore) Get(_ context.Context, id string) (*models.Component, error) {
	c, ok := f.components[id]
	if !ok {
		return nil, errs.NewNotFoundError("component not found")
	}
	cp := *c
	return &cp, nil
}

func (f *fakeComponentStore) ListByDashboard(_ context.Context, slug string) ([]models.Component, error) {
	var out []models.Component
	for _, id := range f.order {
		if c, ok := f.components[id]; ok && c.DashboardSlug == slug {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeComponentStore) Update(_ context.Context, c *models.Component) error {
	if _, ok := f.components[c.ComponentID]; !ok {
		return errs.NewNotFoundError("component not found")
	}
	cp := *c
	f.components[c.ComponentID] = &cp
	return nil
}

func (f *fakeComponentStore) Mutate(_ context.Context, id string, fn func(c *models.Component) error) (*models.Component, error) {
	c, ok := f.components[id]
	if !ok {
		return nil, errs.NewNotFoundError("component not found")
	}
	cp := *c
	if err := fn(&cp); err != nil {
		return nil, err
	}
	f.components[id] = &cp
	out := cp
	return &out, nil
}

func (f *fakeComponentStore) UpdatePositions(_ context.Context, _ string, positions map[string]models.Position) ([]string, map[string]error) {
	var updated []string
	failed := map[string]error{}
	for id, p := range positions {
		if err := f.positionErr[id]; err != nil {
			failed[id] = err
			continue
		}
		c, ok := f.components[id]
		if !ok {
			failed[id] = errs.NewNotFoundError("component not found")
			continue
		}
		c.Position = p
		updated = append(updated, id)
	}
	sort.Strings(updated)
	return updated, failed
}

func (f *fakeComponentStore) Delete(_ context.Context, id string) error {
	delete(f.components, id)
	return nil
}

// fakeRecordStore mirrors the transactional lock rules of the real store.
type fakeRecordStore struct {
	components *fakeComponentStore
	records    map[string][]models.DataRecord
}

func newFakeRecordStore(components *fakeComponentStore) *fakeRecordStore {
	return &fakeRecordStore{components: components, records: make(map[string][]models.DataRecord)}
}

func (f *fakeRecordStore) List(_ context.Context, id string) ([]models.DataRecord, error) {
	return append([]models.DataRecord{}, f.records[id]...), nil
}

func (f *fakeRecordStore) Exists(_ context.Context, id string) (bool, error) {
	return len(f.records[id]) > 0, nil
}

func (f *fakeRecordStore) Create(_ context.Context, r *models.DataRecord, validate func(c *models.Component) error) error {
	c, ok := f.components.components[r.ComponentID]
	if !ok {
		return errs.NewNotFoundError("component not found")
	}
	if validate != nil {
		if err := validate(c); err != nil {
			return err
		}
	}
	if len(f.records[r.ComponentID]) == 0 {
		c.LockCount = max(c.LockCount, len(c.FieldSchema))
	}
	c.LockCount = schema.LockCountFor(c.FieldSchema, c.LockCount, r.Data)
	f.records[r.ComponentID] = append(f.records[r.ComponentID], *r)
	return nil
}

func (f *fakeRecordStore) Update(_ context.Context, r *models.DataRecord, validate func(c *models.Component) error) error {
	c, ok := f.components.components[r.ComponentID]
	if !ok {
		return errs.NewNotFoundError("component not found")
	}
	recs := f.records[r.ComponentID]
	for i := range recs {
		if recs[i].ID != r.ID {
			continue
		}
		if validate != nil {
			if err := validate(c); err != nil {
				return err
			}
		}
		c.LockCount = schema.LockCountFor(c.FieldSchema, c.LockCount, r.Data)
		recs[i] = *r
		return nil
	}
	return errs.NewNotFoundError("record not found")
}

func (f *fakeRecordStore) Delete(_ context.Context, cid, rid string) error {
	recs := f.records[cid]
	for i := range recs {
		if recs[i].ID == rid {
			f.records[cid] = append(recs[:i], recs[i+1:]...)
			return nil
		}
	}
	return errs.NewNotFoundError("record not found")
}

type fakePasswords struct{}

func (fakePasswords) Hash(_ context.Context, pw string) (string, error) { return "hash:" + pw, nil }

func (fakePasswords) Verify(_ context.Context, stored, pw string) (bool, error) {
	return strings.TrimPrefix(stored, "hash:") == pw, nil
}
