// Package registry holds the compiled-in table of widget kinds and the defaults
// each new widget starts from.
package registry

import (
	"github.com/GregMSThompson/dashboard-builder/internal/dto"
	"github.com/GregMSThompson/dashboard-builder/internal/errs"
	"github.com/GregMSThompson/dashboard-builder/internal/models"
)

// DefaultDataSource is used when a create request names no data source.
const DefaultDataSource = "manual"

// Registry is a read-only view over the widget catalog. Every method returns
// copies, so callers may mutate results freely.
type Registry struct {
	index map[Kind]int
}

func New() *Registry {
	index := make(map[Kind]int, len(catalog))
	for i, d := range catalog {
		index[d.Type] = i
	}
	return &Registry{index: index}
}

// Lookup returns the descriptor for a widget type.
func (r *Registry) Lookup(widgetType string) (Descriptor, bool) {
	i, ok := r.index[Kind(widgetType)]
	if !ok {
		return Descriptor{}, false
	}
	return clone(catalog[i]), true
}

// ListByCategory returns the kinds of one category in declaration order.
func (r *Registry) ListByCategory(c Category) []Descriptor {
	out := make([]Descriptor, 0)
	for _, d := range catalog {
		if d.Category == c {
			out = append(out, clone(d))
		}
	}
	return out
}

// All returns every descriptor in declaration order.
func (r *Registry) All() []Descriptor {
	out := make([]Descriptor, len(catalog))
	for i, d := range catalog {
		out[i] = clone(d)
	}
	return out
}

func (r *Registry) Kinds() []Kind {
	out := make([]Kind, len(catalog))
	for i, d := range catalog {
		out[i] = d.Type
	}
	return out
}

func Categories() []Category {
	return append([]Category(nil), categories...)
}

// ApplyDefaults fills the unset parts of a create request from the kind's
// descriptor. Config overrides are merged over the default config key by key.
func (r *Registry) ApplyDefaults(req *dto.CreateComponentRequest) error {
	d, ok := r.Lookup(req.Type)
	if !ok {
		return errs.NewUnknownWidgetTypeError(req.Type)
	}
	if req.Name == "" {
		req.Name = d.Label
	}
	if req.Position == nil {
		p := d.DefaultPosition.Position()
		req.Position = &p
	}
	cfg := d.DefaultConfig
	for k, v := range req.Config {
		cfg[k] = v
	}
	req.Config = cfg
	if req.DataSource == nil {
		req.DataSource = &models.DataSource{Type: DefaultDataSource}
	}
	if req.FieldSchema == nil {
		req.FieldSchema = []models.FieldDescriptor{}
	}
	if req.Styling == nil {
		req.Styling = map[string]any{}
	}
	return nil
}

// NewComponent builds an unsaved component of the given kind from its defaults.
func (r *Registry) NewComponent(widgetType, name string, overrides map[string]any) (models.Component, error) {
	req := dto.CreateComponentRequest{Type: widgetType, Name: name, Config: overrides}
	if err := r.ApplyDefaults(&req); err != nil {
		return models.Component{}, err
	}
	return models.Component{
		Type:        req.Type,
		Name:        req.Name,
		Position:    *req.Position,
		Config:      req.Config,
		FieldSchema: req.FieldSchema,
		DataSource:  *req.DataSource,
		Styling:     req.Styling,
	}, nil
}

// Position converts the footprint into a full grid position.
func (p DefaultPosition) Position() models.Position {
	return models.Position{X: p.X, Y: p.Y, W: p.W, H: p.H, MinW: p.MinW, MinH: p.MinH}
}

func clone(d Descriptor) Descriptor {
	d.DefaultConfig = cloneMap(d.DefaultConfig)
	return d
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
