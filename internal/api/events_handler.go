package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/taskpulse/taskpulse-api/internal/realtime"
)

// keepAliveInterval bounds how long an SSE connection stays silent. Comment
// frames keep intermediaries from timing the stream out.
const keepAliveInterval = 30 * time.Second

// EventsHandler streams live-update signals to clients over
// Server-Sent Events.
type EventsHandler struct {
	hub    *realtime.Hub
	logger *slog.Logger
}

// NewEventsHandler creates a new EventsHandler.
func NewEventsHandler(hub *realtime.Hub, logger *slog.Logger) *EventsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventsHandler{
		hub:    hub,
		logger: logger.With("component", "events_handler"),
	}
}

// Stream handles GET /api/events requests. It holds the connection open
// and writes one SSE event per broadcast signal until the client
// disconnects.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	// An immediate comment frame confirms the stream to the client.
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	ch := h.hub.Subscribe()
	defer h.hub.Unsubscribe(ch)

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-keepAlive.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		case sig := <-ch:
			if err := writeSignalEvent(w, sig); err != nil {
				h.logger.Debug("client write failed, closing stream", "error", err)
				return
			}
			flusher.Flush()
		}
	}
}

// writeSignalEvent emits a signal as an SSE event named after its kind,
// with a timestamp-only JSON payload.
func writeSignalEvent(w http.ResponseWriter, sig realtime.Signal) error {
	payload, err := json.Marshal(struct {
		Timestamp time.Time `json:"timestamp"`
	}{Timestamp: sig.Timestamp})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", sig.Kind, payload)
	return err
}
