package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crm_backend/internal/analytics"
	"crm_backend/internal/auth"
	"crm_backend/internal/chatbot"
	"crm_backend/internal/customers"
	"crm_backend/internal/events"
	"crm_backend/internal/forecast"
	apphttp "crm_backend/internal/http"
	"crm_backend/internal/http/router"
	"crm_backend/internal/insights"
	"crm_backend/internal/scheduler"
	"crm_backend/internal/scoring"
	"crm_backend/internal/workflow"
	workflowsvc "crm_backend/internal/workflow/service"
	"crm_backend/platform/ai"
	"crm_backend/platform/config"
	"crm_backend/platform/db"
	"crm_backend/platform/logger"
	"crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// Text-generation client; nil when no API key is configured, every
	// consumer falls back to rule-based behavior in that case.
	aiClient := ai.New(ai.Config{
		APIKey:  cfg.GetAIAPIKey(),
		BaseURL: cfg.GetAIBaseURL(),
		Model:   cfg.GetAIModel(),
	})
	if aiClient == nil {
		log.Warn("AI API key not configured; rule-based fallbacks active")
	}

	// Asynq client for delayed campaign emails; nil without Redis.
	mailScheduler, closeScheduler := initEmailScheduler(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	scorer := scoring.NewScorer(scoring.NewAIClassifier(aiClient), log)

	authModule := auth.NewModule(pool, cfg, val, log)
	if err := authModule.Service().EnsureDefaultAdmin(ctx); err != nil {
		log.Error("failed to ensure default admin", "error", err)
		panic("failed to ensure default admin: " + err.Error())
	}

	customersModule := customers.NewModule(pool, scorer, eventBus, val, log)
	forecastModule := forecast.NewModule(pool, log)

	chatbotModule, err := chatbot.NewModule(cfg, aiClient, customersModule.Service(), val, log)
	if err != nil {
		log.Error("failed to initialize chatbot module", "error", err)
		panic("failed to initialize chatbot module: " + err.Error())
	}

	workflowModule, err := workflow.NewModule(pool, cfg, mailScheduler, eventBus, val, log)
	if err != nil {
		log.Error("failed to initialize workflow module", "error", err)
		panic("failed to initialize workflow module: " + err.Error())
	}
	workflowModule.RegisterHandlers(eventBus)

	analyticsModule := analytics.NewModule(pool, forecastModule.Service(), log)
	insightsModule := insights.NewModule(aiClient, customersModule.Repository(), val, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			authModule,
			customersModule,
			forecastModule,
			chatbotModule,
			workflowModule,
			analyticsModule,
			insightsModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initEmailScheduler(cfg config.SchedulerConfig, log *logger.Logger) (workflowsvc.EmailScheduler, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; campaign email delivery disabled")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize email scheduler client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
