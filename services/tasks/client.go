package tasks

import (
	"time"

	"cartscout/config"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Client enqueues background tasks. It satisfies checkout.AbandonNudger.
type Client struct {
	inner  *asynq.Client
	logger *zap.Logger
}

func NewClient(logger *zap.Logger) *Client {
	return &Client{
		inner: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
			DB:       config.AppConfig.RedisTaskDB,
		}),
		logger: logger,
	}
}

// EnqueueAbandonNudge schedules the abandoned-checkout follow-up. Enqueue
// failures are logged and swallowed; a missing nudge never fails a checkout.
func (c *Client) EnqueueAbandonNudge(handle, providerID string, fireAt time.Time) {
	task, opts, err := NewAbandonNudgeTask(AbandonNudgePayload{Handle: handle, ProviderID: providerID}, fireAt)
	if err != nil {
		c.logger.Error("failed to build nudge task", zap.Error(err))
		return
	}
	if _, err := c.inner.Enqueue(task, opts...); err != nil {
		c.logger.Warn("failed to enqueue nudge task", zap.String("handle", handle), zap.Error(err))
	}
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.inner.Close()
}
