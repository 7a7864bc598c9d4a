// Package composer holds the interactive state of one open dashboard: the
// dashboard itself, edit mode, the selected widget, the grid layout and the
// schema and data editors of its widgets.
package composer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/GregMSThompson/dashboard-builder/internal/dto"
	"github.com/GregMSThompson/dashboard-builder/internal/errs"
	"github.com/GregMSThompson/dashboard-builder/internal/layout"
	"github.com/GregMSThompson/dashboard-builder/internal/models"
	"github.com/GregMSThompson/dashboard-builder/internal/records"
	"github.com/GregMSThompson/dashboard-builder/internal/registry"
	"github.com/GregMSThompson/dashboard-builder/internal/render"
	"github.com/GregMSThompson/dashboard-builder/internal/schema"
)

const defaultFetchLimit = 4

// API is the part of the REST API a session uses.
type API interface {
	GetDashboard(ctx context.Context, slug string) (models.Dashboard, error)
	UpdateDashboard(ctx context.Context, slug string, req dto.UpdateDashboardRequest) (models.Dashboard, error)
	DeleteDashboard(ctx context.Context, slug string) error
	UpdateLayout(ctx context.Context, slug string, items []dto.LayoutItem) (dto.UpdateLayoutResponse, error)

	CreateComponent(ctx context.Context, slug string, req dto.CreateComponentRequest) (models.Component, error)
	UpdateComponent(ctx context.Context, id string, req dto.UpdateComponentRequest) (models.Component, error)
	DeleteComponent(ctx context.Context, id string) error

	GetSchema(ctx context.Context, id string) (dto.SchemaResponse, error)
	PutSchema(ctx context.Context, id string, fields []models.FieldDescriptor) (dto.SchemaResponse, error)

	ListRecords(ctx context.Context, id string) ([]models.DataRecord, error)
	CreateRecord(ctx context.Context, id string, data map[string]any) (models.DataRecord, error)
	UpdateRecord(ctx context.Context, id, recordID string, data map[string]any) (models.DataRecord, error)
	DeleteRecord(ctx context.Context, id, recordID string) error
}

var (
	ErrClosed      = errors.New("dashboard session is closed")
	ErrNotEditable = errs.NewValidationError("dashboard is not in edit mode")
)

type Option func(*Session)

func WithLogger(log *slog.Logger) Option {
	return func(s *Session) { s.log = log }
}

func WithLayoutOptions(opts ...layout.Option) Option {
	return func(s *Session) { s.layoutOpts = append(s.layoutOpts, opts...) }
}

// WithFetchLimit bounds how many widgets fetch their records at once.
func WithFetchLimit(n int) Option {
	return func(s *Session) { s.fetchLimit = n }
}

// WithRecordValidation makes data editors check values before sending them.
func WithRecordValidation() Option {
	return func(s *Session) { s.recordOpts = append(s.recordOpts, records.WithValidation()) }
}

// Session is one open dashboard. Open it when the dashboard is loaded and
// Close it when navigating away.
type Session struct {
	mu        sync.Mutex
	dashboard models.Dashboard
	editMode  bool
	selected  string
	editors   map[string]*records.Store
	closed    bool

	api        API
	registry   *registry.Registry
	dispatcher *render.Dispatcher
	layout     *layout.Engine
	log        *slog.Logger

	layoutOpts []layout.Option
	recordOpts []records.Option
	fetchLimit int
}

// Open loads a dashboard and builds its layout.
func Open(ctx context.Context, api API, reg *registry.Registry, slug string, opts ...Option) (*Session, error) {
	s := &Session{
		api:        api,
		registry:   reg,
		editors:    map[string]*records.Store{},
		log:        slog.Default(),
		fetchLimit: defaultFetchLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("dashboard", slug)

	d, err := api.GetDashboard(ctx, slug)
	if err != nil {
		return nil, err
	}
	s.dispatcher, err = render.NewDispatcher(reg, s.log)
	if err != nil {
		return nil, err
	}
	s.dashboard = d
	lopts := append([]layout.Option{layout.WithLogger(s.log)}, s.layoutOpts...)
	s.layout = layout.NewEngine(d.Slug, layout.FromComponents(d.Components), layout.NewAPISaver(api), lopts...)
	s.log.Info("dashboard opened", "components", len(d.Components))
	return s, nil
}

// Dashboard returns a copy of the current dashboard with the layout's
// positions applied.
func (s *Session) Dashboard() models.Dashboard {
	s.mu.Lock()
	d := s.dashboard
	d.Components = slices.Clone(s.dashboard.Components)
	s.mu.Unlock()

	for i := range d.Components {
		if it, ok := s.layout.Item(d.Components[i].ComponentID); ok {
			d.Components[i].Position = it.Position()
		}
	}
	return d
}

func (s *Session) Layout() *layout.Engine { return s.layout }

func (s *Session) EditMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editMode
}

// SetEditMode toggles dragging, resizing and the editors. A save already in
// flight is not cancelled.
func (s *Session) SetEditMode(on bool) {
	s.mu.Lock()
	s.editMode = on
	if !on {
		s.selected = ""
	}
	s.mu.Unlock()
	s.layout.SetEditable(on)
}

func (s *Session) Select(componentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.dashboard.Component(componentID); !ok {
		return errNotFound(componentID)
	}
	s.selected = componentID
	return nil
}

func (s *Session) Selected() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// OnLayoutChange forwards a drag or resize to the layout engine.
func (s *Session) OnLayoutChange(items []layout.Item) bool {
	if s.isClosed() {
		return false
	}
	return s.layout.OnLayoutChange(items)
}

// AddWidget creates a widget of the given kind from its registry defaults and
// reloads the dashboard.
func (s *Session) AddWidget(ctx context.Context, req dto.CreateComponentRequest) (models.Component, error) {
	if err := s.checkEditable(); err != nil {
		return models.Component{}, err
	}
	if err := s.registry.ApplyDefaults(&req); err != nil {
		return models.Component{}, err
	}
	c, err := s.api.CreateComponent(ctx, s.slug(), req)
	if err != nil {
		return models.Component{}, err
	}
	s.log.Info("widget added", "component_id", c.ComponentID, "type", c.Type)
	return c, s.Reload(ctx)
}

// DeleteWidget drops the widget locally first, then asks the server. The
// reload that follows is authoritative either way.
func (s *Session) DeleteWidget(ctx context.Context, componentID string) error {
	if err := s.checkEditable(); err != nil {
		return err
	}
	s.mu.Lock()
	s.dashboard.Components = slices.DeleteFunc(s.dashboard.Components, func(c models.Component) bool {
		return c.ComponentID == componentID
	})
	delete(s.editors, componentID)
	if s.selected == componentID {
		s.selected = ""
	}
	s.mu.Unlock()
	s.layout.Remove(componentID)

	delErr := s.api.DeleteComponent(ctx, componentID)
	if delErr != nil {
		s.log.Warn("widget delete failed", "component_id", componentID, "error", delErr)
	}
	if err := s.Reload(ctx); err != nil {
		return errors.Join(delErr, err)
	}
	return delErr
}

// UpdateSettings changes name, description, thumbnail, visibility or password.
func (s *Session) UpdateSettings(ctx context.Context, req dto.UpdateDashboardRequest) (models.Dashboard, error) {
	if err := s.checkOpen(); err != nil {
		return models.Dashboard{}, err
	}
	if req.Visibility != nil {
		if !req.Visibility.Valid() {
			return models.Dashboard{}, errs.NewValidationError(fmt.Sprintf("invalid visibility %q", *req.Visibility))
		}
		s.mu.Lock()
		current := s.dashboard.Visibility
		s.mu.Unlock()
		if *req.Visibility == models.VisibilityPasswordProtected && current != models.VisibilityPasswordProtected &&
			(req.Password == nil || *req.Password == "") {
			return models.Dashboard{}, errs.NewValidationError("a password is required for password-protected dashboards")
		}
	}

	updated, err := s.api.UpdateDashboard(ctx, s.slug(), req)
	if err != nil {
		return models.Dashboard{}, err
	}
	s.mu.Lock()
	s.dashboard.Name = updated.Name
	s.dashboard.Description = updated.Description
	s.dashboard.Thumbnail = updated.Thumbnail
	s.dashboard.Visibility = updated.Visibility
	s.dashboard.UpdatedAt = updated.UpdatedAt
	s.mu.Unlock()
	return s.Dashboard(), nil
}

// DeleteDashboard deletes the dashboard and closes the session. The server
// removes every widget and record with it.
func (s *Session) DeleteDashboard(ctx context.Context) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if err := s.api.DeleteDashboard(ctx, s.slug()); err != nil {
		return err
	}
	// nothing left to save
	s.layout.Reset(nil)
	s.layout.SetEditable(false)
	s.mu.Lock()
	s.closed = true
	s.editors = map[string]*records.Store{}
	s.mu.Unlock()
	s.log.Info("dashboard deleted")
	return nil
}

// Reload saves pending layout changes, then re-reads the dashboard.
func (s *Session) Reload(ctx context.Context) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if s.layout.Pending() {
		if _, err := s.layout.Flush(ctx); err != nil {
			return err
		}
	}
	d, err := s.api.GetDashboard(ctx, s.slug())
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.dashboard = d
	for id := range s.editors {
		if _, ok := d.Component(id); !ok {
			delete(s.editors, id)
		}
	}
	if _, ok := d.Component(s.selected); !ok {
		s.selected = ""
	}
	s.mu.Unlock()
	s.layout.Reset(layout.FromComponents(d.Components))
	return nil
}

// SchemaEditor opens the field editor of a widget.
func (s *Session) SchemaEditor(ctx context.Context, componentID string) (*schema.Manager, error) {
	st, err := s.DataEditor(ctx, componentID)
	if err != nil {
		return nil, err
	}
	return st.Schema(), nil
}

// DataEditor opens the record editor of a widget, loading its schema status
// and records.
func (s *Session) DataEditor(ctx context.Context, componentID string) (*records.Store, error) {
	if err := s.checkEditable(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	if st, ok := s.editors[componentID]; ok {
		s.mu.Unlock()
		return st, nil
	}
	_, ok := s.dashboard.Component(componentID)
	s.mu.Unlock()
	if !ok {
		return nil, errNotFound(componentID)
	}

	sm := schema.NewManager(s.api, componentID)
	if err := sm.Load(ctx); err != nil {
		return nil, err
	}
	st := records.NewStore(s.api, sm, s.recordOpts...)
	if _, err := st.List(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.editors[componentID]; ok {
		return existing, nil
	}
	s.editors[componentID] = st
	return st, nil
}

// Close saves pending layout changes and ends the session.
func (s *Session) Close(ctx context.Context) (layout.SaveReport, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return layout.SaveReport{}, nil
	}
	s.closed = true
	s.editMode = false
	s.selected = ""
	s.editors = map[string]*records.Store{}
	s.mu.Unlock()

	report, err := s.layout.Close(ctx)
	s.log.Info("dashboard closed", "saved", len(report.Saved), "failed", len(report.Failed))
	return report, err
}

func (s *Session) slug() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dashboard.Slug
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) checkOpen() error {
	if s.isClosed() {
		return ErrClosed
	}
	return nil
}

func (s *Session) checkEditable() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if !s.editMode {
		return ErrNotEditable
	}
	return nil
}

func errNotFound(componentID string) error {
	return errs.NewNotFoundError(fmt.Sprintf("component %s not found", componentID))
}
