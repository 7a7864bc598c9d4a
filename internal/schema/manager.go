// Package schema implements the per-widget field list and its lock rules: fields
// can always be appended, but the fields that existed when the first data
// record was created, and any later field a record holds a value for, can
// never be removed or changed afterwards.
package schema

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/GregMSThompson/dashboard-builder/internal/dto"
	"github.com/GregMSThompson/dashboard-builder/internal/errs"
	"github.com/GregMSThompson/dashboard-builder/internal/models"
)

type State int

const (
	Unlocked State = iota
	Locked
)

func (s State) String() string {
	if s == Locked {
		return "locked"
	}
	return "unlocked"
}

type schemaAPI interface {
	GetSchema(ctx context.Context, componentID string) (dto.SchemaResponse, error)
	PutSchema(ctx context.Context, componentID string, fields []models.FieldDescriptor) (dto.SchemaResponse, error)
}

// FieldChange is a partial edit of one field; nil members are left as is.
type FieldChange struct {
	Name     *string
	Type     *models.FieldType
	Required *bool
}

// Manager holds the editable draft of one component's schema alongside the last
// copy the server confirmed.
type Manager struct {
	mu          sync.Mutex
	api         schemaAPI
	componentID string
	saved       []models.FieldDescriptor
	draft       []models.FieldDescriptor
	lockCount   int
	locked      bool
}

func NewManager(api schemaAPI, componentID string) *Manager {
	return &Manager{api: api, componentID: componentID}
}

func (m *Manager) ComponentID() string { return m.componentID }

// Load fetches the schema status from the server and resets the draft to it.
func (m *Manager) Load(ctx context.Context) error {
	resp, err := m.api.GetSchema(ctx, m.componentID)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apply(resp)
	return nil
}

// apply takes the server's view of the schema. The lock count only grows.
func (m *Manager) apply(resp dto.SchemaResponse) {
	m.saved = slices.Clone(resp.FieldSchema)
	m.draft = slices.Clone(resp.FieldSchema)

	lc := 0
	switch {
	case resp.LockCount != nil:
		lc = *resp.LockCount
	case resp.IsLocked:
		lc = len(resp.FieldSchema)
	}
	m.lockCount = min(max(m.lockCount, lc), len(m.saved))
	m.locked = m.locked || resp.IsLocked || lc > 0
}

// ObserveRecordCount recomputes the lock state from the number of records that
// exist for the component. There is no transition back to Unlocked.
func (m *Manager) ObserveRecordCount(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observe(n)
}

// ObserveRecords is ObserveRecordCount plus the fields the records hold values
// for, which lock even when they were appended after the first record.
func (m *Manager) ObserveRecords(recs []models.DataRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observe(len(recs))
	for _, r := range recs {
		m.lockCount = LockCountFor(m.saved, m.lockCount, r.Data)
	}
}

func (m *Manager) observe(n int) {
	if n == 0 || m.locked {
		return
	}
	m.locked = true
	if m.lockCount == 0 {
		m.lockCount = len(m.saved)
	}
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locked {
		return Locked
	}
	return Unlocked
}

func (m *Manager) LockCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lockCount
}

// Fields returns a copy of the draft.
func (m *Manager) Fields() []models.FieldDescriptor {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.draft)
}

// Saved returns a copy of the last server-confirmed schema.
func (m *Manager) Saved() []models.FieldDescriptor {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.saved)
}

func (m *Manager) IsFieldLocked(index int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return index < m.lockCount
}

func (m *Manager) Dirty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !slices.Equal(m.saved, m.draft)
}

// AddField appends a field to the draft.
func (m *Manager) AddField(f models.FieldDescriptor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := append(slices.Clone(m.draft), f)
	if err := ValidateFields(next); err != nil {
		return err
	}
	m.draft = next
	return nil
}

func (m *Manager) RemoveField(index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkEditable(index, msgCannotRemove); err != nil {
		return err
	}
	m.draft = slices.Delete(slices.Clone(m.draft), index, index+1)
	return nil
}

func (m *Manager) RenameOrRetype(index int, change FieldChange) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkEditable(index, msgCannotChange); err != nil {
		return err
	}
	next := slices.Clone(m.draft)
	if change.Name != nil {
		next[index].Name = *change.Name
	}
	if change.Type != nil {
		next[index].Type = *change.Type
	}
	if change.Required != nil {
		next[index].Required = *change.Required
	}
	if err := ValidateFields(next); err != nil {
		return err
	}
	m.draft = next
	return nil
}

func (m *Manager) checkEditable(index int, lockedMsg string) error {
	if index < 0 || index >= len(m.draft) {
		return errs.NewValidationError(fmt.Sprintf("field index %d out of range", index))
	}
	if index < m.lockCount {
		return errs.NewSchemaLockedError(index, lockedMsg)
	}
	return nil
}

// Save persists the full draft. On failure the draft is left untouched so the
// user can retry; on success the status is re-read from the server.
func (m *Manager) Save(ctx context.Context) error {
	m.mu.Lock()
	draft := slices.Clone(m.draft)
	saved := slices.Clone(m.saved)
	lockCount := m.lockCount
	m.mu.Unlock()

	if err := ValidateFields(draft); err != nil {
		return err
	}
	if err := CheckLockedPrefix(saved, draft, lockCount); err != nil {
		return err
	}

	resp, err := m.api.PutSchema(ctx, m.componentID, draft)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.apply(resp)
	m.mu.Unlock()

	return m.Load(ctx)
}
