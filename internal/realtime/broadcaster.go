package realtime

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Broadcaster is the orchestrator-facing side of the fan-out. Emit is
// best-effort: it never returns an error to the mutation path.
type Broadcaster interface {
	// Emit broadcasts a signal of the given kind to all connected clients
	// across all server instances.
	Emit(ctx context.Context, kind SignalKind)
}

// RedisBroadcaster publishes signals to a Redis pub/sub channel so that
// every server instance (including this one) rebroadcasts them to its local
// hub. When Redis is unavailable it falls back to the local hub directly.
type RedisBroadcaster struct {
	client  *redis.Client
	channel string
	hub     *Hub
	timeout time.Duration
	logger  *slog.Logger
}

// NewBroadcaster creates a Broadcaster over the given channel. With a nil
// client the broadcaster is local-only: signals reach only this instance's
// hub.
func NewBroadcaster(
	client *redis.Client,
	channel string,
	hub *Hub,
	timeout time.Duration,
	logger *slog.Logger,
) *RedisBroadcaster {
	if hub == nil {
		panic("hub cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &RedisBroadcaster{
		client:  client,
		channel: channel,
		hub:     hub,
		timeout: timeout,
		logger:  logger.With(slog.String("component", "broadcaster")),
	}
}

// Ensure RedisBroadcaster implements Broadcaster
var _ Broadcaster = (*RedisBroadcaster)(nil)

// Emit implements Broadcaster.Emit
// When the publish succeeds, local delivery happens through the subscriber
// loop like on any other instance; on failure the local hub is fed directly
// so this instance's clients still hear about the change.
func (b *RedisBroadcaster) Emit(ctx context.Context, kind SignalKind) {
	sig := NewSignal(kind)

	if b.client == nil {
		b.hub.Broadcast(sig)
		return
	}

	data, err := sig.Encode()
	if err != nil {
		b.logger.Error("failed to encode signal", "error", err, "kind", kind)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		b.logger.Warn("pub/sub publish failed, broadcasting locally",
			"error", err,
			"kind", kind)
		b.hub.Broadcast(sig)
	}
}

// Run subscribes to the pub/sub channel and rebroadcasts every received
// signal to the local hub, reconnecting on channel closure. It returns when
// ctx is canceled. With a nil client it returns immediately.
func (b *RedisBroadcaster) Run(ctx context.Context) error {
	if b.client == nil {
		return nil
	}

	for {
		sub := b.client.Subscribe(ctx, b.channel)
		ch := sub.Channel()

	recv:
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return ctx.Err()
			case msg, ok := <-ch:
				if !ok {
					break recv
				}
				sig, err := DecodeSignal([]byte(msg.Payload))
				if err != nil {
					b.logger.Error("unable to parse signal", "error", err)
					continue
				}
				b.hub.Broadcast(sig)
			}
		}

		_ = sub.Close()
		if errors.Is(ctx.Err(), context.Canceled) || ctx.Err() != nil {
			return ctx.Err()
		}
		b.logger.Error("pubsub channel closed, reconnecting")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
}
