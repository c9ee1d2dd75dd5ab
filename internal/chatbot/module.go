package chatbot

import (
	apphttp "crm_backend/internal/http"
	"crm_backend/platform/ai"
	"crm_backend/platform/config"
	"crm_backend/platform/logger"
	appvalidator "crm_backend/platform/validator"

	"github.com/redis/go-redis/v9"
)

// Module wires the chat session store, service, and handler.
type Module struct {
	svc     *Service
	handler *Handler
}

var _ apphttp.Module = (*Module)(nil)

// NewModule builds the chatbot module. Without a Redis URL sessions live
// in process memory only.
func NewModule(cfg config.ChatConfig, aiClient *ai.Client, recorder InteractionRecorder, validate *appvalidator.Validator, log *logger.Logger) (*Module, error) {
	var store Store = NewMemoryStore()
	if url := cfg.GetRedisURL(); url != "" {
		opts, err := redis.ParseURL(url)
		if err != nil {
			return nil, err
		}
		store = NewRedisStore(redis.NewClient(opts))
	}

	svc := NewService(aiClient, store, log)
	return &Module{
		svc:     svc,
		handler: NewHandler(svc, recorder, validate, log),
	}, nil
}

func (m *Module) Name() string { return "chatbot" }

// Service exposes the chat service for modules that reuse its extraction.
func (m *Module) Service() *Service { return m.svc }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/chatbot")
	group.POST("/message", m.handler.PostMessage)
	group.GET("/sessions/:sessionID/summary", m.handler.GetSummary)
}
