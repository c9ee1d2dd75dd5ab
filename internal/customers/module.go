// Package customers provides the customer bounded context module: CRUD,
// interaction history, opportunities, and lead scoring kept current on
// every mutation.
package customers

import (
	"crm_backend/internal/customers/handler"
	"crm_backend/internal/customers/repository"
	"crm_backend/internal/customers/service"
	"crm_backend/internal/events"
	apphttp "crm_backend/internal/http"
	"crm_backend/internal/scoring"
	"crm_backend/platform/logger"
	"crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the customers bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

var _ apphttp.Module = (*Module)(nil)

// NewModule creates and initializes the customers module with all its
// dependencies.
func NewModule(pool *pgxpool.Pool, scorer *scoring.Scorer, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, scorer, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "customers"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for direct access if needed.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts customer routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/customers")
	group.POST("", m.handler.Create)
	group.GET("", m.handler.List)
	group.POST("/score/batch", m.handler.BatchScore)
	group.GET("/:id", m.handler.Get)
	group.PUT("/:id", m.handler.Update)
	group.DELETE("/:id", m.handler.Delete)
	group.POST("/:id/interactions", m.handler.AddInteraction)
	group.GET("/:id/interactions", m.handler.ListInteractions)
	group.GET("/:id/insights", m.handler.Insights)
	group.POST("/:id/opportunities", m.handler.CreateOpportunity)
	group.GET("/:id/opportunities", m.handler.ListOpportunities)

	ctx.Protected.PATCH("/opportunities/:id/stage", m.handler.UpdateOpportunityStage)
}
