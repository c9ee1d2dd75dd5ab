package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crm_backend/internal/email"
	"crm_backend/internal/events"
	"crm_backend/internal/scheduler"
	"crm_backend/platform/config"
	"crm_backend/platform/db"
	"crm_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	eventBus := events.NewInMemoryBus(log)

	// Due follow-ups surface as domain events; the scheduler process logs
	// them so operators see reminders even without a mail channel.
	eventBus.Subscribe(events.FollowUpDue{}.EventName(), events.HandlerFunc(func(_ context.Context, event events.Event) error {
		if due, ok := event.(events.FollowUpDue); ok {
			log.Info("follow-up due", "taskId", due.TaskID, "customerId", due.CustomerID, "priority", due.Priority)
		}
		return nil
	}))

	sender := email.NewSenderFromConfig(cfg, log)

	// Polls the tasks table and enqueues due follow-ups exactly once.
	dispatcher, err := scheduler.NewFollowUpDispatcher(cfg, pool, log)
	if err != nil {
		log.Error("failed to initialize follow-up dispatcher", "error", err)
		panic("failed to initialize follow-up dispatcher: " + err.Error())
	}
	defer func() { _ = dispatcher.Close() }()
	go dispatcher.Run(ctx)

	// Cron entries for recurring work (weekly performance report).
	periodic, err := scheduler.NewPeriodic(cfg, log)
	if err != nil {
		log.Error("failed to initialize periodic scheduler", "error", err)
		panic("failed to initialize periodic scheduler: " + err.Error())
	}
	go periodic.Run()
	defer periodic.Shutdown()

	worker, err := scheduler.NewWorker(cfg, pool, sender, eventBus, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
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
