package handlers

import (
	"net/http"
	"slices"

	"github.com/GregMSThompson/dashboard-builder/internal/errs"
	"github.com/GregMSThompson/dashboard-builder/internal/registry"
	"github.com/GregMSThompson/dashboard-builder/internal/response"
)

type WidgetCatalog interface {
	All() []registry.Descriptor
	ListByCategory(c registry.Category) []registry.Descriptor
}

type widgetTypeHandlers struct {
	ResponseHandler response.ResponseHandler
	Catalog         WidgetCatalog
}

func NewWidgetTypeHandlers(deps *Deps) *widgetTypeHandlers {
	return &widgetTypeHandlers{ResponseHandler: deps.ResponseHandler, Catalog: deps.Catalog}
}

// ListWidgetTypes returns the catalogue, optionally filtered with ?category=.
func (h *widgetTypeHandlers) ListWidgetTypes(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, h.Catalog.All())
		return
	}
	c := registry.Category(category)
	if !slices.Contains(registry.Categories(), c) {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("unknown category: "+category))
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, h.Catalog.ListByCategory(c))
}
