package analytics

import (
	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "crm_backend/internal/http"
	"crm_backend/platform/logger"
)

// Module is the analytics module implementing http.Module.
type Module struct {
	handler *Handler
	service *Service
}

var _ apphttp.Module = (*Module)(nil)

// NewModule creates and initializes the analytics module.
func NewModule(pool *pgxpool.Pool, forecaster Forecaster, log *logger.Logger) *Module {
	svc := NewService(NewRepository(pool), forecaster, log)
	return &Module{
		handler: NewHandler(svc, log),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "analytics"
}

// RegisterRoutes mounts analytics routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/analytics")
	group.GET("/dashboard", m.handler.Dashboard)
	group.GET("/notifications", m.handler.Notifications)
	group.GET("/sales-report", m.handler.SalesReport)
}
