package forecast

import (
	apphttp "crm_backend/internal/http"
	"crm_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module wires the forecast repository, service, and handler.
type Module struct {
	svc     *Service
	handler *Handler
}

var _ apphttp.Module = (*Module)(nil)

func NewModule(pool *pgxpool.Pool, log *logger.Logger) *Module {
	repo := NewRepository(pool)
	svc := NewService(repo, log)
	return &Module{
		svc:     svc,
		handler: NewHandler(svc, log),
	}
}

func (m *Module) Name() string { return "forecast" }

// Service exposes the forecast service for modules that embed quick
// forecasts in their own responses.
func (m *Module) Service() *Service { return m.svc }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/forecast")
	group.GET("", m.handler.GenerateForecast)
	group.GET("/quick", m.handler.QuickForecast)
}
