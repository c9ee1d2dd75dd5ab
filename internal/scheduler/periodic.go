package scheduler

import (
	"fmt"

	"github.com/hibiken/asynq"

	"crm_backend/platform/config"
	"crm_backend/platform/logger"
)

// Periodic registers recurring tasks with the asynq scheduler. The
// weekly performance report is enqueued every Monday morning.
type Periodic struct {
	scheduler *asynq.Scheduler
	log       *logger.Logger
}

func NewPeriodic(cfg config.SchedulerConfig, log *logger.Logger) (*Periodic, error) {
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

	scheduler := asynq.NewScheduler(opt, nil)

	task, err := NewPeriodicReportTask(PeriodicReportPayload{Period: "weekly"})
	if err != nil {
		return nil, err
	}
	if _, err := scheduler.Register("0 8 * * 1", task, asynq.Queue(queue)); err != nil {
		return nil, fmt.Errorf("register weekly report: %w", err)
	}

	return &Periodic{scheduler: scheduler, log: log}, nil
}

// Run starts the scheduler and blocks until it stops.
func (p *Periodic) Run() {
	if p == nil || p.scheduler == nil {
		return
	}
	if err := p.scheduler.Run(); err != nil {
		p.log.Error("periodic scheduler stopped", "error", err)
	}
}

// Shutdown stops the scheduler.
func (p *Periodic) Shutdown() {
	if p == nil || p.scheduler == nil {
		return
	}
	p.scheduler.Shutdown()
}
