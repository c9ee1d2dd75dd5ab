package scheduler

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"crm_backend/internal/email"
	"crm_backend/internal/events"
	workflowrepo "crm_backend/internal/workflow/repository"
	workflowsvc "crm_backend/internal/workflow/service"
	"crm_backend/platform/config"
	"crm_backend/platform/logger"
)

// Worker consumes background tasks: campaign email delivery, due
// follow-up notifications, and periodic report generation.
type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	sender   email.Sender
	workflow *workflowsvc.Service
	bus      events.Bus
	log      *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, pool *pgxpool.Pool, sender email.Sender, bus events.Bus, log *logger.Logger) (*Worker, error) {
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

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		sender: sender,
		// The worker only reads report metrics, so it runs the
		// workflow service without an email scheduler or campaign.
		workflow: workflowsvc.New(workflowrepo.New(pool), nil, bus, nil, log),
		bus:      bus,
		log:      log,
	}

	mux.HandleFunc(TaskCampaignEmail, w.handleCampaignEmail)
	mux.HandleFunc(TaskFollowUpDue, w.handleFollowUpDue)
	mux.HandleFunc(TaskPeriodicReport, w.handlePeriodicReport)

	return w, nil
}

func (w *Worker) handleCampaignEmail(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseCampaignEmailPayload(task)
	if err != nil {
		return err
	}
	if w.sender == nil || payload.To == "" {
		return nil
	}
	return w.sender.SendCampaignEmail(ctx, payload.To, payload.CustomerName, payload.Subject, payload.Template)
}

func (w *Worker) handleFollowUpDue(ctx context.Context, task *asynq.Task) error {
	if w.bus == nil {
		return nil
	}

	payload, err := ParseFollowUpDuePayload(task)
	if err != nil {
		return err
	}

	taskID, err := uuid.Parse(payload.TaskID)
	if err != nil {
		return err
	}

	var customerID uuid.UUID
	if payload.CustomerID != "" {
		customerID, err = uuid.Parse(payload.CustomerID)
		if err != nil {
			return err
		}
	}

	return w.bus.PublishSync(ctx, events.FollowUpDue{
		BaseEvent:  events.NewBaseEvent(),
		TaskID:     taskID,
		CustomerID: customerID,
		Priority:   payload.Priority,
	})
}

func (w *Worker) handlePeriodicReport(ctx context.Context, task *asynq.Task) error {
	payload, err := ParsePeriodicReportPayload(task)
	if err != nil {
		return err
	}
	if payload.Period == "" {
		payload.Period = "weekly"
	}

	report, err := w.workflow.GenerateReport(ctx, payload.Period)
	if err != nil {
		return err
	}

	w.log.Info("periodic report generated",
		"period", report.Period,
		"newCustomers", report.Metrics.NewCustomers,
		"conversionRate", report.Metrics.ConversionRate,
		"revenue", report.Metrics.Revenue,
		"activeLeads", report.Metrics.ActiveLeads,
	)
	return nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
