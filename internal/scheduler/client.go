// Package scheduler enqueues and processes delayed background tasks over
// Redis. The API process only enqueues; cmd/scheduler runs the worker.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"admissions_crm_backend/platform/config"
)

const defaultQueue = "default"

// Client enqueues appointment reminder tasks. A nil Client is a no-op, so
// callers do not need to special-case a missing Redis configuration.
type Client struct {
	client   *asynq.Client
	leadTime time.Duration
}

// NewClient creates an asynq client for the configured Redis instance.
// Reminders fire leadTime before the appointment starts.
func NewClient(cfg config.RedisConfig, leadTime time.Duration) (*Client, error) {
	if cfg.GetRedisAddr() == "" {
		return nil, fmt.Errorf("redis address not configured")
	}

	return &Client{
		client:   asynq.NewClient(redisClientOpt(cfg)),
		leadTime: leadTime,
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// ScheduleReminder enqueues a reminder for the given appointment, due
// leadTime before it starts. Past-due reminders are processed immediately.
func (c *Client) ScheduleReminder(ctx context.Context, appointmentID, leadID uuid.UUID, appointmentAt time.Time) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewAppointmentReminderTask(AppointmentReminderPayload{
		AppointmentID: appointmentID.String(),
		LeadID:        leadID.String(),
	})
	if err != nil {
		return err
	}

	runAt := appointmentAt.Add(-c.leadTime)
	_, err = c.client.EnqueueContext(ctx, task, asynq.ProcessAt(runAt), asynq.Queue(defaultQueue))
	return err
}

func redisClientOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.GetRedisPassword(),
		DB:       cfg.GetRedisDB(),
	}
}
