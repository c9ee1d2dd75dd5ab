package insights

import (
	customersrepo "crm_backend/internal/customers/repository"
	apphttp "crm_backend/internal/http"
	"crm_backend/platform/ai"
	"crm_backend/platform/logger"
	"crm_backend/platform/validator"
)

// Module is the AI insights module implementing http.Module.
type Module struct {
	handler *Handler
	service *Service
}

var _ apphttp.Module = (*Module)(nil)

// NewModule creates and initializes the insights module. The model
// client may be nil.
func NewModule(client *ai.Client, customers customersrepo.CustomerReader, val *validator.Validator, log *logger.Logger) *Module {
	svc := New(client, customers, log)
	return &Module{
		handler: NewHandler(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "insights"
}

// RegisterRoutes mounts insight routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/ai")
	group.GET("/customers/:id/insights", m.handler.CustomerInsights)
	group.GET("/customers/:id/churn-risk", m.handler.ChurnRisk)
	group.POST("/customers/:id/email", m.handler.EmailTemplate)
	group.POST("/customers/:id/pitch", m.handler.SalesPitch)
	group.GET("/business-insights", m.handler.BusinessInsights)
	group.POST("/sentiment", m.handler.Sentiment)
}
