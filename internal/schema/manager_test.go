package schema

import (
	"context"
	"errors"
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GregMSThompson/dashboard-builder/internal/dto"
	"github.com/GregMSThompson/dashboard-builder/internal/errs"
	"github.com/GregMSThompson/dashboard-builder/internal/models"
	"github.com/GregMSThompson/dashboard-builder/pkg/helpers"
)

// fakeSchemaAPI mimics the server: it stores the schema and enforces the lock
// prefix itself.
type fakeSchemaAPI struct {
	fields    []models.FieldDescriptor
	lockCount int
	putErr    error
	puts      int
}

func (f *fakeSchemaAPI) GetSchema(_ context.Context, _ string) (dto.SchemaResponse, error) {
	return f.status(), nil
}

func (f *fakeSchemaAPI) PutSchema(_ context.Context, _ string, fields []models.FieldDescriptor) (dto.SchemaResponse, error) {
	f.puts++
	if f.putErr != nil {
		return dto.SchemaResponse{}, f.putErr
	}
	if err := CheckLockedPrefix(f.fields, fields, f.lockCount); err != nil {
		return dto.SchemaResponse{}, err
	}
	f.fields = slices.Clone(fields)
	return f.status(), nil
}

// lock simulates the first record being created.
func (f *fakeSchemaAPI) lock() {
	if f.lockCount == 0 {
		f.lockCount = len(f.fields)
	}
}

func (f *fakeSchemaAPI) status() dto.SchemaResponse {
	return dto.SchemaResponse{
		FieldSchema: slices.Clone(f.fields),
		IsLocked:    f.lockCount > 0,
		LockCount:   helpers.Ptr(f.lockCount),
	}
}

var (
	revenue = models.FieldDescriptor{Name: "revenue", Type: models.FieldNumber, Required: true}
	region  = models.FieldDescriptor{Name: "region", Type: models.FieldString}
)

func TestManager_UnlockedAllowsEverything(t *testing.T) {
	api := &fakeSchemaAPI{fields: []models.FieldDescriptor{revenue}}
	m := NewManager(api, "c1")
	require.NoError(t, m.Load(context.Background()))

	assert.Equal(t, Unlocked, m.State())
	require.NoError(t, m.AddField(region))
	require.NoError(t, m.RemoveField(0))
	assert.Equal(t, []models.FieldDescriptor{region}, m.Fields())
	require.NoError(t, m.Save(context.Background()))
	assert.Equal(t, []models.FieldDescriptor{region}, api.fields)
}

func TestManager_LockedPrefixRejectsRemoveAndChange(t *testing.T) {
	api := &fakeSchemaAPI{fields: []models.FieldDescriptor{revenue}}
	api.lock()
	m := NewManager(api, "c1")
	require.NoError(t, m.Load(context.Background()))

	assert.Equal(t, Locked, m.State())
	assert.Equal(t, 1, m.LockCount())

	err := m.RemoveField(0)
	var le *errs.SchemaLockedError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "existing fields cannot be removed because data exists", le.Message)

	err = m.RenameOrRetype(0, FieldChange{Name: helpers.Ptr("income")})
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "existing fields cannot be changed because data exists", le.Message)

	// fields appended after the lock stay editable
	require.NoError(t, m.AddField(region))
	require.NoError(t, m.RenameOrRetype(1, FieldChange{Type: helpers.Ptr(models.FieldEmail)}))
	require.NoError(t, m.RemoveField(1))
}

func TestManager_AddFieldRejectsDuplicates(t *testing.T) {
	m := NewManager(&fakeSchemaAPI{}, "c1")
	require.NoError(t, m.AddField(revenue))

	var ve *errs.ValidationError
	assert.True(t, errors.As(m.AddField(revenue), &ve))
	assert.True(t, errors.As(m.AddField(models.FieldDescriptor{Name: " ", Type: models.FieldString}), &ve))
	assert.True(t, errors.As(m.AddField(models.FieldDescriptor{Name: "x", Type: "money"}), &ve))
	assert.Len(t, m.Fields(), 1)
}

func TestManager_SaveFailureKeepsDraft(t *testing.T) {
	api := &fakeSchemaAPI{putErr: errs.NewTransportError(503, "", "")}
	m := NewManager(api, "c1")
	require.NoError(t, m.Load(context.Background()))
	require.NoError(t, m.AddField(revenue))

	err := m.Save(context.Background())
	var te *errs.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "Service Unavailable", te.Message)

	assert.Equal(t, []models.FieldDescriptor{revenue}, m.Fields())
	assert.True(t, m.Dirty())
	assert.Empty(t, m.Saved())
}

func TestManager_ObserveRecordCountLocksWithoutServerFlag(t *testing.T) {
	api := &fakeSchemaAPI{fields: []models.FieldDescriptor{revenue, region}}
	m := NewManager(api, "c1")
	require.NoError(t, m.Load(context.Background()))

	m.ObserveRecordCount(0)
	assert.Equal(t, Unlocked, m.State())

	m.ObserveRecordCount(3)
	assert.Equal(t, Locked, m.State())
	assert.Equal(t, 2, m.LockCount())

	// deleting every record does not unlock
	m.ObserveRecordCount(0)
	assert.Equal(t, Locked, m.State())
	assert.Equal(t, 2, m.LockCount())
}

func TestManager_ObserveRecordsLocksAppendedFieldsInUse(t *testing.T) {
	ctx := context.Background()
	api := &fakeSchemaAPI{fields: []models.FieldDescriptor{revenue}}
	api.lock()
	m := NewManager(api, "c1")
	require.NoError(t, m.Load(ctx))
	require.NoError(t, m.AddField(region))
	require.NoError(t, m.Save(ctx))
	assert.Equal(t, 1, m.LockCount())

	m.ObserveRecords([]models.DataRecord{{ID: "r1", Data: map[string]any{"revenue": 1.0}}})
	assert.Equal(t, 1, m.LockCount())

	m.ObserveRecords([]models.DataRecord{
		{ID: "r1", Data: map[string]any{"revenue": 1.0}},
		{ID: "r2", Data: map[string]any{"revenue": 2.0, "region": "EU"}},
	})
	assert.Equal(t, 2, m.LockCount())

	number := models.FieldNumber
	var le *errs.SchemaLockedError
	require.True(t, errors.As(m.RenameOrRetype(1, FieldChange{Type: &number}), &le))
	require.True(t, errors.As(m.RemoveField(1), &le))

	// a reload from a server that reports the older count keeps the higher one
	require.NoError(t, m.Load(ctx))
	assert.Equal(t, 2, m.LockCount())
}

func TestManager_LockCountFallsBackToSchemaLength(t *testing.T) {
	m := NewManager(&fakeSchemaAPI{}, "c1")
	m.apply(dto.SchemaResponse{FieldSchema: []models.FieldDescriptor{revenue, region}, IsLocked: true})
	assert.Equal(t, 2, m.LockCount())
}

func TestManager_SaveRejectsLockedPrefixLocally(t *testing.T) {
	api := &fakeSchemaAPI{fields: []models.FieldDescriptor{revenue}}
	api.lock()
	m := NewManager(api, "c1")
	require.NoError(t, m.Load(context.Background()))

	m.draft = nil // bypasses RemoveField's own check
	var le *errs.SchemaLockedError
	require.True(t, errors.As(m.Save(context.Background()), &le))
	assert.Equal(t, 0, api.puts)
}

// The locked prefix survives any sequence of edits and saves.
func TestManager_LockedPrefixNeverChanges(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	api := &fakeSchemaAPI{fields: []models.FieldDescriptor{revenue, region}}
	api.lock()
	prefix := slices.Clone(api.fields)

	m := NewManager(api, "c1")
	require.NoError(t, m.Load(context.Background()))

	names := []string{"a", "b", "c", "d", "e", "f"}
	for step := 0; step < 500; step++ {
		n := len(m.Fields())
		switch rng.Intn(4) {
		case 0:
			_ = m.AddField(models.FieldDescriptor{Name: names[rng.Intn(len(names))], Type: models.FieldString})
		case 1:
			if n > 0 {
				_ = m.RemoveField(rng.Intn(n))
			}
		case 2:
			if n > 0 {
				_ = m.RenameOrRetype(rng.Intn(n), FieldChange{Type: helpers.Ptr(models.FieldBoolean)})
			}
		case 3:
			_ = m.Save(context.Background())
		}
		require.Equal(t, prefix, api.fields[:len(prefix)], "step %d", step)
		require.Equal(t, prefix, m.Fields()[:len(prefix)], "step %d", step)
	}
}
