// Package auth provides the authentication bounded context module.
package auth

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"crm_backend/internal/auth/handler"
	"crm_backend/internal/auth/repository"
	"crm_backend/internal/auth/service"
	apphttp "crm_backend/internal/http"
	"crm_backend/platform/config"
	"crm_backend/platform/logger"
	"crm_backend/platform/validator"
)

// Module is the auth bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

var _ apphttp.Module = (*Module)(nil)

// NewModule creates and initializes the auth module.
func NewModule(pool *pgxpool.Pool, cfg config.AuthServiceConfig, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// Service returns the auth service for startup tasks like admin seeding.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts auth routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public auth routes with stricter rate limiting.
	group := ctx.V1.Group("/auth")
	group.Use(ctx.AuthRateLimiter.RateLimit())
	group.POST("/login", m.handler.Login)
	group.POST("/refresh", m.handler.Refresh)

	ctx.Protected.GET("/users/me", m.handler.GetMe)
}
