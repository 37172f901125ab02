package realtime

import (
	"log/slog"
	"sync"
)

// subscriberBuffer is the per-client signal buffer. A client that falls
// further behind than this drops signals rather than blocking the
// broadcast; a dropped signal only delays the client's next re-fetch until
// the following mutation.
const subscriberBuffer = 8

// Hub fans signals out to the process's connected clients. Each subscriber
// gets a buffered channel; Broadcast never blocks on a slow consumer.
type Hub struct {
	mu     sync.Mutex
	subs   map[chan Signal]struct{}
	logger *slog.Logger
}

// NewHub creates an empty Hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		subs:   make(map[chan Signal]struct{}),
		logger: logger.With(slog.String("component", "realtime_hub")),
	}
}

// Subscribe registers a new client and returns its signal channel.
// The caller must Unsubscribe when the connection closes.
func (h *Hub) Subscribe() chan Signal {
	ch := make(chan Signal, subscriberBuffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	count := len(h.subs)
	h.mu.Unlock()

	h.logger.Debug("client subscribed", "subscribers", count)
	return ch
}

// Unsubscribe removes a client registered with Subscribe.
func (h *Hub) Unsubscribe(ch chan Signal) {
	h.mu.Lock()
	delete(h.subs, ch)
	count := len(h.subs)
	h.mu.Unlock()

	h.logger.Debug("client unsubscribed", "subscribers", count)
}

// Broadcast delivers the signal to every currently-subscribed client,
// dropping it for clients whose buffers are full.
func (h *Hub) Broadcast(sig Signal) {
	h.mu.Lock()
	for ch := range h.subs {
		select {
		case ch <- sig:
		default:
			// Slow consumer; the next signal will catch it up.
		}
	}
	h.mu.Unlock()
}

// Subscribers reports the number of currently-connected clients.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
