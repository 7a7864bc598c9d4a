package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/GregMSThompson/dashboard-builder/internal/dto"
	"github.com/GregMSThompson/dashboard-builder/internal/errs"
	"github.com/GregMSThompson/dashboard-builder/internal/layout"
	"github.com/GregMSThompson/dashboard-builder/internal/models"
	"github.com/GregMSThompson/dashboard-builder/pkg/helpers"
	"github.com/GregMSThompson/dashboard-builder/pkg/logger"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// dashboardStore is the Firestore storage interface for dashboards.
type dashboardStore interface {
	Create(ctx context.Context, d *models.Dashboard) error
	Get(ctx context.Context, slug string) (*models.Dashboard, error)
	ListByOwner(ctx context.Context, uid string) ([]*models.Dashboard, error)
	Update(ctx context.Context, d *models.Dashboard) error
	Delete(ctx context.Context, slug string) error
}

// dashboardComponents is the slice of the component store dashboards need.
type dashboardComponents interface {
	ListByDashboard(ctx context.Context, slug string) ([]models.Component, error)
	UpdatePositions(ctx context.Context, slug string, positions map[string]models.Position) ([]string, map[string]error)
}

type passwordHasher interface {
	Hash(ctx context.Context, password string) (string, error)
	Verify(ctx context.Context, stored, password string) (bool, error)
}

type dashboardService struct {
	store      dashboardStore
	components dashboardComponents
	passwords  passwordHasher
}

func NewDashboardService(store dashboardStore, components dashboardComponents, passwords passwordHasher) *dashboardService {
	return &dashboardService{store: store, components: components, passwords: passwords}
}

func (s *dashboardService) ListDashboards(ctx context.Context, uid string) ([]*models.Dashboard, error) {
	if err := requireUser(uid); err != nil {
		return nil, err
	}
	out, err := s.store.ListByOwner(ctx, uid)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []*models.Dashboard{}
	}
	return out, nil
}

func (s *dashboardService) CreateDashboard(ctx context.Context, uid string, req dto.CreateDashboardRequest) (*models.Dashboard, error) {
	if err := requireUser(uid); err != nil {
		return nil, err
	}
	req.Slug = strings.TrimSpace(req.Slug)
	if !slugPattern.MatchString(req.Slug) {
		return nil, errs.NewValidationError("slug must be lowercase letters, digits and single hyphens")
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, errs.NewValidationError("name is required")
	}
	if req.Visibility == "" {
		req.Visibility = models.VisibilityPrivate
	}
	d := &models.Dashboard{
		Slug:        req.Slug,
		OwnerUID:    uid,
		Name:        req.Name,
		Description: req.Description,
		Thumbnail:   req.Thumbnail,
	}
	if err := s.setVisibility(ctx, d, req.Visibility, optional(req.Password)); err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, d); err != nil {
		return nil, err
	}
	d.Components = []models.Component{}
	logger.FromContext(ctx).Info("dashboard created", "slug", d.Slug, "visibility", d.Visibility)
	return d, nil
}

// GetDashboard returns the dashboard with its components when uid may read it.
func (s *dashboardService) GetDashboard(ctx context.Context, uid, slug, password string) (*models.Dashboard, error) {
	d, err := s.Authorize(ctx, uid, slug, password)
	if err != nil {
		return nil, err
	}
	comps, err := s.components.ListByDashboard(ctx, slug)
	if err != nil {
		return nil, err
	}
	if comps == nil {
		comps = []models.Component{}
	}
	d.Components = comps
	return d, nil
}

// Authorize loads a dashboard and checks read access. Owners and public
// dashboards always pass; password-protected ones need the right password.
// Private dashboards are reported as missing to everyone else.
func (s *dashboardService) Authorize(ctx context.Context, uid, slug, password string) (*models.Dashboard, error) {
	d, err := s.store.Get(ctx, slug)
	if err != nil {
		return nil, err
	}
	if uid != "" && d.OwnerUID == uid {
		return d, nil
	}
	switch d.Visibility {
	case models.VisibilityPublic:
		return d, nil
	case models.VisibilityPasswordProtected:
		if password == "" {
			return nil, errs.NewForbiddenError("dashboard password required")
		}
		ok, err := s.passwords.Verify(ctx, d.PasswordHash, password)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errs.NewForbiddenError("incorrect dashboard password")
		}
		return d, nil
	}
	return nil, errs.NewNotFoundError("dashboard not found")
}

// Owned loads a dashboard that uid must own.
func (s *dashboardService) Owned(ctx context.Context, uid, slug string) (*models.Dashboard, error) {
	if err := requireUser(uid); err != nil {
		return nil, err
	}
	d, err := s.store.Get(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(d.OwnerUID, uid); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *dashboardService) UpdateDashboard(ctx context.Context, uid, slug string, req dto.UpdateDashboardRequest) (*models.Dashboard, error) {
	d, err := s.Owned(ctx, uid, slug)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, errs.NewValidationError("name cannot be empty")
		}
		d.Name = *req.Name
	}
	if req.Description != nil {
		d.Description = *req.Description
	}
	if req.Thumbnail != nil {
		d.Thumbnail = *req.Thumbnail
	}
	visibility := helpers.ValueOr(req.Visibility, d.Visibility)
	if req.Visibility != nil || req.Password != nil {
		if err := s.setVisibility(ctx, d, visibility, req.Password); err != nil {
			return nil, err
		}
	}
	if err := s.store.Update(ctx, d); err != nil {
		return nil, err
	}
	return s.GetDashboard(ctx, uid, slug, "")
}

// setVisibility applies a visibility change. Switching to password-protected
// needs a password unless one is already stored; other levels drop the hash.
func (s *dashboardService) setVisibility(ctx context.Context, d *models.Dashboard, v models.Visibility, password *string) error {
	if !v.Valid() {
		return errs.NewValidationError(fmt.Sprintf("unknown visibility %q", v))
	}
	d.Visibility = v
	if v != models.VisibilityPasswordProtected {
		d.PasswordHash = ""
		return nil
	}
	if helpers.Value(password) == "" {
		if d.PasswordHash == "" {
			return errs.NewValidationError("password is required for password-protected dashboards")
		}
		return nil
	}
	hash, err := s.passwords.Hash(ctx, *password)
	if err != nil {
		return err
	}
	d.PasswordHash = hash
	return nil
}

func (s *dashboardService) DeleteDashboard(ctx context.Context, uid, slug string) error {
	if _, err := s.Owned(ctx, uid, slug); err != nil {
		return err
	}
	return s.store.Delete(ctx, slug)
}

// UpdateLayout saves a batch of grid positions. Items are clamped onto the
// grid first; ids that are not components of this dashboard are reported as
// failed and the rest are still written.
func (s *dashboardService) UpdateLayout(ctx context.Context, uid, slug string, req dto.UpdateLayoutRequest) (dto.UpdateLayoutResponse, error) {
	if _, err := s.Owned(ctx, uid, slug); err != nil {
		return dto.UpdateLayoutResponse{}, err
	}
	comps, err := s.components.ListByDashboard(ctx, slug)
	if err != nil {
		return dto.UpdateLayoutResponse{}, err
	}
	known := make(map[string]bool, len(comps))
	for _, c := range comps {
		known[c.ComponentID] = true
	}

	resp := dto.UpdateLayoutResponse{Updated: []string{}}
	positions := make(map[string]models.Position, len(req.Layout))
	for _, li := range req.Layout {
		if !known[li.I] {
			resp.Failed = append(resp.Failed, dto.LayoutFailure{ComponentID: li.I, Message: "component not found"})
			continue
		}
		positions[li.I] = layout.Normalize(layout.Item(li)).Position()
	}
	if logger.IsDebugEnabled(ctx) {
		logger.FromContext(ctx).Debug("saving layout", "slug", slug, "positions", positions)
	}
	if len(positions) == 0 {
		return resp, nil
	}

	updated, failed := s.components.UpdatePositions(ctx, slug, positions)
	resp.Updated = append(resp.Updated, updated...)
	for id, err := range failed {
		resp.Failed = append(resp.Failed, dto.LayoutFailure{ComponentID: id, Message: err.Error()})
	}
	if len(resp.Failed) > 0 {
		logger.FromContext(ctx).Warn("layout partially saved", "slug", slug, "updated", len(resp.Updated), "failed", len(resp.Failed))
	}
	return resp, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
