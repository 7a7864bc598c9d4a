package layout

import (
	"context"
	"errors"
	"net/http"

	"github.com/GregMSThompson/dashboard-builder/internal/dto"
	"github.com/GregMSThompson/dashboard-builder/internal/errs"
	"github.com/GregMSThompson/dashboard-builder/internal/models"
)

type Failure struct {
	ComponentID string `json:"componentId"`
	Message     string `json:"message"`
}

// SaveReport lists which items a save persisted and which it did not.
type SaveReport struct {
	Saved   []string  `json:"saved"`
	Failed  []Failure `json:"failed,omitempty"`
	Batched bool      `json:"batched"`
}

// Complete is true when every item was saved.
func (r SaveReport) Complete() bool { return len(r.Failed) == 0 }

type layoutAPI interface {
	UpdateLayout(ctx context.Context, slug string, items []dto.LayoutItem) (dto.UpdateLayoutResponse, error)
	UpdateComponent(ctx context.Context, componentID string, req dto.UpdateComponentRequest) (models.Component, error)
}

// APISaver sends the layout in one batch request. Servers without the batch
// route get one position update per widget instead.
type APISaver struct {
	api layoutAPI
}

func NewAPISaver(api layoutAPI) *APISaver {
	return &APISaver{api: api}
}

func (s *APISaver) SaveLayout(ctx context.Context, slug string, items []Item) (SaveReport, error) {
	wire := make([]dto.LayoutItem, len(items))
	for i, it := range items {
		wire[i] = it.wire()
	}

	resp, err := s.api.UpdateLayout(ctx, slug, wire)
	if err == nil {
		report := SaveReport{Saved: resp.Updated, Batched: true}
		for _, f := range resp.Failed {
			report.Failed = append(report.Failed, Failure(f))
		}
		return report, nil
	}
	if !batchUnsupported(err) {
		return SaveReport{}, err
	}
	return s.saveEach(ctx, items), nil
}

// saveEach updates widgets one at a time. A failure does not stop the loop and
// nothing already saved is rolled back.
func (s *APISaver) saveEach(ctx context.Context, items []Item) SaveReport {
	var report SaveReport
	for _, it := range items {
		pos := it.Position()
		_, err := s.api.UpdateComponent(ctx, it.I, dto.UpdateComponentRequest{Position: &pos})
		if err != nil {
			report.Failed = append(report.Failed, Failure{ComponentID: it.I, Message: err.Error()})
			continue
		}
		report.Saved = append(report.Saved, it.I)
	}
	return report
}

func batchUnsupported(err error) bool {
	var te *errs.TransportError
	if !errors.As(err, &te) {
		return false
	}
	switch te.Status {
	case http.StatusMethodNotAllowed:
		return true
	case http.StatusNotFound:
		// a missing dashboard comes back with an error code, a missing route does not
		return te.Code == ""
	}
	return false
}
