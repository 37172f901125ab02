// Package realtime implements the live-update fan-out: payload-free signals
// telling every connected client that task or analytics data changed so it
// should re-fetch. Delivery is best-effort and at-most-once per connected
// client; a disconnected client receives no backlog.
//
// Signals flow orchestrator -> Broadcaster -> Redis pub/sub channel ->
// per-instance subscriber loop -> Hub -> SSE connections. Without Redis the
// Broadcaster feeds the local Hub directly (single-instance semantics).
package realtime

import (
	"encoding/json"
	"time"
)

// SignalKind names a fan-out signal.
type SignalKind string

const (
	// SignalTasksUpdated tells clients to re-fetch task lists.
	SignalTasksUpdated SignalKind = "tasks:updated"

	// SignalAnalyticsUpdated tells clients to re-fetch analytics views.
	SignalAnalyticsUpdated SignalKind = "analytics:updated"
)

// Signal is a broadcast notification. It carries only a timestamp; clients
// are expected to re-query state through the regular read APIs.
type Signal struct {
	Kind      SignalKind `json:"kind"`
	Timestamp time.Time  `json:"timestamp"`
}

// NewSignal builds a signal of the given kind stamped with the current time.
func NewSignal(kind SignalKind) Signal {
	return Signal{Kind: kind, Timestamp: time.Now().UTC()}
}

// Encode serializes the signal for the pub/sub wire.
func (s Signal) Encode() ([]byte, error) {
	return json.Marshal(s)
}

// DecodeSignal parses a pub/sub payload back into a Signal.
func DecodeSignal(data []byte) (Signal, error) {
	var s Signal
	err := json.Unmarshal(data, &s)
	return s, err
}
