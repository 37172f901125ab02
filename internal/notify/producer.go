package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Producer publishes notification messages to the work queue.
type Producer interface {
	// Publish submits the message to the queue and returns without waiting
	// for consumption. Callers on the mutation path treat a failure as
	// non-fatal.
	Publish(ctx context.Context, msg Message) error
}

// QueueProducer implements Producer on a Redis list. Messages are pushed to
// the head; the consumer pops from the tail, giving FIFO delivery.
type QueueProducer struct {
	client  *redis.Client
	queue   string
	timeout time.Duration
	logger  *slog.Logger
}

// NewProducer creates a Producer for the named queue. A nil client yields a
// degraded producer that skips every publish, keeping the mutation path
// alive without Redis.
func NewProducer(client *redis.Client, queue string, timeout time.Duration, logger *slog.Logger) Producer {
	if logger == nil {
		logger = slog.Default()
	}
	if client == nil {
		return &noopProducer{logger: logger.With(slog.String("component", "notification_producer"))}
	}

	return &QueueProducer{
		client:  client,
		queue:   queue,
		timeout: timeout,
		logger:  logger.With(slog.String("component", "notification_producer")),
	}
}

// Ensure QueueProducer implements Producer
var _ Producer = (*QueueProducer)(nil)

// Publish implements Producer.Publish
func (p *QueueProducer) Publish(ctx context.Context, msg Message) error {
	data, err := msg.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.client.LPush(ctx, p.queue, data).Err(); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	p.logger.Info("notification published",
		"task_id", msg.TaskID,
		"priority", msg.Priority)
	return nil
}

// noopProducer is used when Redis is not configured.
type noopProducer struct {
	logger *slog.Logger
}

func (p *noopProducer) Publish(_ context.Context, msg Message) error {
	p.logger.Debug("notification skipped, queue unavailable",
		"task_id", msg.TaskID)
	return nil
}
