package notify

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Handler processes a delivered notification message. An error causes the
// message to be dead-lettered; it is never redelivered.
type Handler interface {
	Handle(ctx context.Context, msg Message) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, msg Message) error

// Handle implements Handler.
func (f HandlerFunc) Handle(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}

// popTimeout bounds each blocking pop so the consumer notices context
// cancellation promptly.
const popTimeout = time.Second

// Consumer is a single long-lived process that drains the notification
// queue one message at a time. Each message is atomically moved to a
// processing list (a prefetch of exactly one), handed to the handler, and
// removed on success. Failed and malformed messages are moved to the
// dead-letter list instead of being requeued.
type Consumer struct {
	client     *redis.Client
	queue      string
	processing string
	deadLetter string
	handler    Handler
	logger     *slog.Logger
}

// NewConsumer creates a Consumer bound to the named queue. The processing
// and dead-letter lists are derived from the queue name.
func NewConsumer(client *redis.Client, queue string, handler Handler, logger *slog.Logger) *Consumer {
	if client == nil {
		panic("client cannot be nil")
	}
	if handler == nil {
		panic("handler cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Consumer{
		client:     client,
		queue:      queue,
		processing: queue + ":processing",
		deadLetter: queue + ":dead",
		handler:    handler,
		logger:     logger.With(slog.String("component", "notification_consumer")),
	}
}

// Run consumes messages until ctx is canceled. Transient queue errors are
// logged and retried after a short pause rather than terminating the loop.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.Info("notification consumer started",
		"queue", c.queue)

	for {
		if err := ctx.Err(); err != nil {
			c.logger.Info("notification consumer stopping")
			return err
		}

		payload, err := c.client.BLMove(ctx, c.queue, c.processing, "RIGHT", "LEFT", popTimeout).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue // queue empty
			}
			if ctx.Err() != nil {
				c.logger.Info("notification consumer stopping")
				return ctx.Err()
			}
			c.logger.Error("failed to receive from queue, retrying",
				"error", err,
				"queue", c.queue)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Second):
			}
			continue
		}

		c.process(ctx, payload)
	}
}

// process handles one delivered payload and settles it: ack on success,
// dead-letter on handler failure or malformed JSON.
func (c *Consumer) process(ctx context.Context, payload string) {
	msg, err := DecodeMessage([]byte(payload))
	if err != nil {
		c.logger.Error("discarding malformed notification",
			"error", err)
		c.deadLetterPayload(ctx, payload)
		return
	}

	if err := c.handler.Handle(ctx, msg); err != nil {
		c.logger.Error("notification handler failed, dead-lettering",
			"error", err,
			"task_id", msg.TaskID)
		c.deadLetterPayload(ctx, payload)
		return
	}

	if err := c.ack(ctx, payload); err != nil {
		c.logger.Error("failed to acknowledge notification",
			"error", err,
			"task_id", msg.TaskID)
		return
	}

	c.logger.Info("notification processed",
		"task_id", msg.TaskID,
		"user_id", msg.UserID)
}

func (c *Consumer) ack(ctx context.Context, payload string) error {
	return c.client.LRem(ctx, c.processing, 1, payload).Err()
}

func (c *Consumer) deadLetterPayload(ctx context.Context, payload string) {
	pipe := c.client.TxPipeline()
	pipe.LPush(ctx, c.deadLetter, payload)
	pipe.LRem(ctx, c.processing, 1, payload)
	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Error("failed to dead-letter notification",
			"error", err,
			"dead_letter", c.deadLetter)
	}
}
