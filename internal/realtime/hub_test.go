package realtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubSubscribeBroadcastUnsubscribe(t *testing.T) {
	hub := NewHub(nil)

	a := hub.Subscribe()
	b := hub.Subscribe()
	assert.Equal(t, 2, hub.Subscribers())

	sig := NewSignal(SignalTasksUpdated)
	hub.Broadcast(sig)

	for _, ch := range []chan Signal{a, b} {
		select {
		case got := <-ch:
			assert.Equal(t, SignalTasksUpdated, got.Kind)
			assert.False(t, got.Timestamp.IsZero())
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive the signal")
		}
	}

	hub.Unsubscribe(a)
	assert.Equal(t, 1, hub.Subscribers())

	hub.Broadcast(NewSignal(SignalAnalyticsUpdated))
	select {
	case got := <-b:
		assert.Equal(t, SignalAnalyticsUpdated, got.Kind)
	case <-time.After(time.Second):
		t.Fatal("remaining subscriber did not receive the signal")
	}
	select {
	case <-a:
		t.Fatal("unsubscribed channel received a signal")
	default:
	}
}

func TestHubBroadcastDropsForSlowConsumer(t *testing.T) {
	hub := NewHub(nil)
	slow := hub.Subscribe()

	// Overfill the subscriber's buffer; Broadcast must not block.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < subscriberBuffer+5; i++ {
			hub.Broadcast(NewSignal(SignalTasksUpdated))
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Broadcast blocked on a slow consumer")
	}

	// The buffer holds at most subscriberBuffer signals; the rest were
	// dropped.
	assert.Len(t, slow, subscriberBuffer)
}

func TestHubBroadcastWithNoSubscribers(t *testing.T) {
	hub := NewHub(nil)
	require.NotPanics(t, func() {
		hub.Broadcast(NewSignal(SignalTasksUpdated))
	})
}

func TestSignalEncodeDecode(t *testing.T) {
	sig := NewSignal(SignalAnalyticsUpdated)
	data, err := sig.Encode()
	require.NoError(t, err)

	got, err := DecodeSignal(data)
	require.NoError(t, err)
	assert.Equal(t, sig.Kind, got.Kind)
	assert.True(t, sig.Timestamp.Equal(got.Timestamp))
}
