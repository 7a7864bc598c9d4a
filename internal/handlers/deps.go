package handlers

import (
	"log/slog"

	"github.com/GregMSThompson/dashboard-builder/internal/response"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	DashboardSvc    DashboardService
	ComponentSvc    ComponentService
	RecordSvc       RecordService
	Catalog         WidgetCatalog
}
