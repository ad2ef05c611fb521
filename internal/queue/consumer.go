package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Consumer consumes geocode tasks from the Redis queue
type Consumer struct {
	client    *redis.Client
	queueName string
	timeout   time.Duration
}

// NewConsumer creates a new queue consumer
func NewConsumer(client *redis.Client, queueName string, timeout time.Duration) *Consumer {
	if queueName == "" {
		queueName = "geocode:tasks"
	}
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &Consumer{
		client:    client,
		queueName: queueName,
		timeout:   timeout,
	}
}

// Consume blocks and waits for a task from the queue
// Returns nil, nil if timeout occurs with no task
func (c *Consumer) Consume(ctx context.Context) (*GeocodeTask, error) {
	result, err := c.client.BRPop(ctx, c.timeout, c.queueName).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Timeout, no task available
		}
		return nil, fmt.Errorf("brpop: %w", err)
	}

	if len(result) < 2 {
		return nil, nil
	}

	var task GeocodeTask
	if err := json.Unmarshal([]byte(result[1]), &task); err != nil {
		return nil, fmt.Errorf("unmarshal task: %w", err)
	}

	return &task, nil
}

// ConsumeBatch consumes up to maxBatch tasks from the queue.
// Uses BRPOP to block-wait for the first item (prevents CPU spinning),
// then RPOP to quickly drain the rest of the batch. Repeated refreshes for
// the same user collapse into a single task.
func (c *Consumer) ConsumeBatch(ctx context.Context, maxBatch int) ([]*GeocodeTask, error) {
	tasks := make([]*GeocodeTask, 0, maxBatch)
	seen := make(map[string]bool)

	result, err := c.client.BRPop(ctx, c.timeout, c.queueName).Result()
	if err != nil {
		if err == redis.Nil {
			return tasks, nil // Timeout, no tasks
		}
		return nil, fmt.Errorf("brpop: %w", err)
	}

	if len(result) >= 2 {
		var task GeocodeTask
		if err := json.Unmarshal([]byte(result[1]), &task); err == nil {
			tasks = append(tasks, &task)
			seen[task.Username] = true
		}
	}

	for len(tasks) < maxBatch {
		result, err := c.client.RPop(ctx, c.queueName).Result()
		if err != nil {
			if err == redis.Nil {
				break // No more tasks
			}
			return tasks, fmt.Errorf("rpop: %w", err)
		}

		var task GeocodeTask
		if err := json.Unmarshal([]byte(result), &task); err != nil {
			continue // Skip malformed tasks
		}
		if seen[task.Username] {
			continue
		}

		tasks = append(tasks, &task)
		seen[task.Username] = true
	}

	return tasks, nil
}
