package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// GeocodeTask asks the worker to backfill coordinates for one user's parsed
// applications.
type GeocodeTask struct {
	Username   string    `json:"username"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// Publisher pushes geocode tasks onto the Redis queue
type Publisher struct {
	client    *redis.Client
	queueName string
}

// NewPublisher creates a new queue publisher
func NewPublisher(client *redis.Client, queueName string) *Publisher {
	if queueName == "" {
		queueName = "geocode:tasks"
	}
	return &Publisher{
		client:    client,
		queueName: queueName,
	}
}

// Publish enqueues a geocode task for one user
func (p *Publisher) Publish(ctx context.Context, username string) error {
	task := GeocodeTask{Username: username, EnqueuedAt: time.Now().UTC()}
	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("marshal task: %w", err)
	}

	if err := p.client.LPush(ctx, p.queueName, data).Err(); err != nil {
		return fmt.Errorf("lpush: %w", err)
	}

	return nil
}

// QueueLength returns the current queue length
func (p *Publisher) QueueLength(ctx context.Context) (int64, error) {
	return p.client.LLen(ctx, p.queueName).Result()
}
