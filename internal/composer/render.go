package composer

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/GregMSThompson/dashboard-builder/internal/layout"
	"github.com/GregMSThompson/dashboard-builder/internal/models"
	"github.com/GregMSThompson/dashboard-builder/internal/records"
	"github.com/GregMSThompson/dashboard-builder/internal/render"
)

// Widget is one rendered cell of the dashboard grid.
type Widget struct {
	Component models.Component `json:"component"`
	Item      layout.Item      `json:"layout"`
	Node      *render.VNode    `json:"node"`
	Records   int              `json:"records"`
	Err       error            `json:"-"`
}

// Render fetches every widget's records and draws it. A widget whose records
// cannot be fetched gets a diagnostic node; the others are unaffected.
func (s *Session) Render(ctx context.Context) ([]Widget, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	d := s.Dashboard()

	s.mu.Lock()
	editors := make(map[string]*records.Store, len(s.editors))
	for id, st := range s.editors {
		editors[id] = st
	}
	s.mu.Unlock()

	out := make([]Widget, len(d.Components))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.fetchLimit, 1))
	for i, c := range d.Components {
		g.Go(func() error {
			out[i] = s.renderOne(gctx, c, editors[c.ComponentID])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// RenderWidget draws a single widget.
func (s *Session) RenderWidget(ctx context.Context, componentID string) (Widget, error) {
	if err := s.checkOpen(); err != nil {
		return Widget{}, err
	}
	d := s.Dashboard()
	c, ok := d.Component(componentID)
	if !ok {
		return Widget{}, errNotFound(componentID)
	}
	s.mu.Lock()
	st := s.editors[componentID]
	s.mu.Unlock()

	w := s.renderOne(ctx, *c, st)
	return w, w.Err
}

func (s *Session) renderOne(ctx context.Context, c models.Component, editor *records.Store) Widget {
	w := Widget{Component: c, Item: layout.FromComponent(c)}
	var (
		recs []models.DataRecord
		err  error
	)
	// an open editor keeps the schema lock in step with the records
	if editor != nil {
		recs, err = editor.List(ctx)
	} else {
		recs, err = s.api.ListRecords(ctx, c.ComponentID)
	}
	if err != nil {
		s.log.Warn("record fetch failed", "component_id", c.ComponentID, "error", err)
		w.Err = err
		w.Node = render.Diagnostic(c, err.Error())
		return w
	}
	w.Records = len(recs)
	w.Node = s.dispatcher.Render(c, recs)
	return w
}
