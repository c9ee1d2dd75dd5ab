package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"crm_backend/internal/workflow/repository"
	"crm_backend/platform/config"
	"crm_backend/platform/logger"
)

const (
	followUpPollInterval = 30 * time.Second
	followUpClaimLimit   = 50
)

// FollowUpDispatcher polls for due follow-up tasks and enqueues a
// notification task for each one.
type FollowUpDispatcher struct {
	client *asynq.Client
	queue  string
	repo   repository.Repository
	log    *logger.Logger
}

func NewFollowUpDispatcher(cfg config.SchedulerConfig, pool *pgxpool.Pool, log *logger.Logger) (*FollowUpDispatcher, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	return &FollowUpDispatcher{
		client: asynq.NewClient(opt),
		queue:  queue,
		repo:   repository.New(pool),
		log:    log,
	}, nil
}

func (d *FollowUpDispatcher) Close() error {
	if d == nil || d.client == nil {
		return nil
	}
	return d.client.Close()
}

func (d *FollowUpDispatcher) Run(ctx context.Context) {
	if d == nil || d.client == nil || d.repo == nil {
		return
	}

	ticker := time.NewTicker(followUpPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		tasks, err := d.repo.ClaimDueTasks(ctx, followUpClaimLimit)
		if err != nil {
			d.log.Warn("claim due tasks failed", "error", err)
			continue
		}

		for _, t := range tasks {
			payload := FollowUpDuePayload{TaskID: t.ID.String(), Priority: t.Priority}
			if t.CustomerID != nil {
				payload.CustomerID = t.CustomerID.String()
			}

			task, err := NewFollowUpDueTask(payload)
			if err != nil {
				d.log.Warn("build follow-up task failed", "taskId", t.ID, "error", err)
				continue
			}

			if _, err := d.client.EnqueueContext(ctx, task, asynq.Queue(d.queue)); err != nil {
				d.log.Warn("enqueue follow-up task failed", "taskId", t.ID, "error", err)
			}
		}
	}
}
