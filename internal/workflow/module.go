// Package workflow provides the workflow automation module: follow-up
// tasks, templated automation runs, reminders, and performance reports.
// It reacts to customer and scoring events published by other modules.
package workflow

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"crm_backend/internal/events"
	apphttp "crm_backend/internal/http"
	"crm_backend/internal/workflow/handler"
	"crm_backend/internal/workflow/repository"
	"crm_backend/internal/workflow/service"
	"crm_backend/platform/config"
	"crm_backend/platform/logger"
	"crm_backend/platform/validator"
)

// Module is the workflow automation module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	log     *logger.Logger
}

var _ apphttp.Module = (*Module)(nil)
var _ events.Handler = (*Module)(nil)

// NewModule creates and initializes the workflow module. The nurture
// campaign is loaded once at startup.
func NewModule(pool *pgxpool.Pool, cfg config.WorkflowConfig, mail service.EmailScheduler, bus events.Bus, val *validator.Validator, log *logger.Logger) (*Module, error) {
	campaign, err := service.LoadNurtureCampaign(cfg.GetNurtureCampaignFile())
	if err != nil {
		return nil, err
	}

	repo := repository.New(pool)
	svc := service.New(repo, mail, bus, campaign, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		log:     log,
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "workflow"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts workflow routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/workflows")
	group.POST("", m.handler.Run)
	group.GET("", m.handler.List)
	group.POST("/follow-up", m.handler.ScheduleFollowUp)
	group.GET("/reminders", m.handler.Reminders)
	group.PATCH("/tasks/:id/complete", m.handler.CompleteTask)

	ctx.Protected.GET("/reports", m.handler.Report)
}

// RegisterHandlers subscribes the module to the domain events that
// trigger automation.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.CustomerCreated{}.EventName(), m)
	bus.Subscribe(events.HighValueLeadDetected{}.EventName(), m)
}

// Handle reacts to subscribed domain events. New customers enter the
// new-lead workflow; leads crossing the high-value threshold get an
// expedited follow-up.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.CustomerCreated:
		if _, err := m.service.RunWorkflow(ctx, service.WorkflowNewLead, e.CustomerID); err != nil {
			m.log.Error("new lead workflow failed", "customerId", e.CustomerID, "error", err)
			return err
		}
	case events.HighValueLeadDetected:
		if _, err := m.service.ScheduleFollowUp(ctx, e.CustomerID, "high", nil); err != nil {
			m.log.Error("high value follow-up failed", "customerId", e.CustomerID, "error", err)
			return err
		}
	}
	return nil
}
