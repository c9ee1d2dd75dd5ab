package scheduler

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	workflowsvc "crm_backend/internal/workflow/service"
	"crm_backend/platform/config"
)

// Client enqueues background tasks. It implements the workflow
// service's EmailScheduler so campaign emails are delivered by the
// worker instead of inline with the request.
type Client struct {
	client *asynq.Client
	queue  string
}

var _ workflowsvc.EmailScheduler = (*Client)(nil)

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
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

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queue,
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// ScheduleEmail enqueues a campaign email for delivery after its delay.
func (c *Client) ScheduleEmail(ctx context.Context, params workflowsvc.EmailParams) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewCampaignEmailTask(CampaignEmailPayload{
		CustomerID:   params.CustomerID.String(),
		CustomerName: params.CustomerName,
		To:           params.To,
		Subject:      params.Subject,
		Template:     params.Template,
	})
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.ProcessIn(params.Delay), asynq.Queue(c.queue))
	return err
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}
