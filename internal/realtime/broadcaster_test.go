package realtime

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBroadcasterTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func waitForSignal(t *testing.T, ch chan Signal, want SignalKind) {
	t.Helper()
	select {
	case got := <-ch:
		assert.Equal(t, want, got.Kind)
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for %s signal", want)
	}
}

func TestBroadcasterEmitReachesSubscriberLoop(t *testing.T) {
	client, _ := newBroadcasterTestRedis(t)
	hub := NewHub(nil)
	b := NewBroadcaster(client, "updates", hub, time.Second, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = b.Run(ctx) }()

	sub := hub.Subscribe()
	defer hub.Unsubscribe(sub)

	// Give the subscriber loop a moment to attach to the channel.
	require.Eventually(t, func() bool {
		return client.PubSubNumSub(context.Background(), "updates").Val()["updates"] > 0
	}, 5*time.Second, 10*time.Millisecond)

	b.Emit(context.Background(), SignalTasksUpdated)
	waitForSignal(t, sub, SignalTasksUpdated)

	b.Emit(context.Background(), SignalAnalyticsUpdated)
	waitForSignal(t, sub, SignalAnalyticsUpdated)
}

func TestBroadcasterWithNilClientFeedsLocalHub(t *testing.T) {
	hub := NewHub(nil)
	b := NewBroadcaster(nil, "updates", hub, time.Second, nil)

	sub := hub.Subscribe()
	defer hub.Unsubscribe(sub)

	b.Emit(context.Background(), SignalTasksUpdated)
	waitForSignal(t, sub, SignalTasksUpdated)

	// Run returns immediately without a client.
	assert.NoError(t, b.Run(context.Background()))
}

func TestBroadcasterFallsBackToLocalHubOnPublishFailure(t *testing.T) {
	client, mr := newBroadcasterTestRedis(t)
	hub := NewHub(nil)
	b := NewBroadcaster(client, "updates", hub, time.Second, nil)

	sub := hub.Subscribe()
	defer hub.Unsubscribe(sub)

	mr.Close()
	b.Emit(context.Background(), SignalTasksUpdated)
	waitForSignal(t, sub, SignalTasksUpdated)
}

func TestBroadcasterRunStopsOnCancellation(t *testing.T) {
	client, _ := newBroadcasterTestRedis(t)
	hub := NewHub(nil)
	b := NewBroadcaster(client, "updates", hub, time.Second, nil)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- b.Run(ctx) }()

	cancel()
	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("subscriber loop did not stop after cancellation")
	}
}

func TestBroadcasterIgnoresMalformedPayloads(t *testing.T) {
	client, _ := newBroadcasterTestRedis(t)
	hub := NewHub(nil)
	b := NewBroadcaster(client, "updates", hub, time.Second, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = b.Run(ctx) }()

	sub := hub.Subscribe()
	defer hub.Unsubscribe(sub)

	require.Eventually(t, func() bool {
		return client.PubSubNumSub(context.Background(), "updates").Val()["updates"] > 0
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, client.Publish(context.Background(), "updates", "{not json").Err())
	b.Emit(context.Background(), SignalTasksUpdated)

	// The malformed payload is skipped; the valid signal still arrives.
	waitForSignal(t, sub, SignalTasksUpdated)
}
