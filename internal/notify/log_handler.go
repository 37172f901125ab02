package notify

import (
	"context"
	"log/slog"
)

// LogHandler is the default side-effect handler: it records the alert in
// the structured log. Integrations with external alerting (email, push)
// slot in by replacing it with their own Handler.
type LogHandler struct {
	logger *slog.Logger
}

// NewLogHandler creates a LogHandler.
func NewLogHandler(logger *slog.Logger) *LogHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogHandler{
		logger: logger.With(slog.String("component", "notification_handler")),
	}
}

// Ensure LogHandler implements Handler
var _ Handler = (*LogHandler)(nil)

// Handle implements Handler.Handle
func (h *LogHandler) Handle(_ context.Context, msg Message) error {
	h.logger.Info("high priority task created",
		"task_id", msg.TaskID,
		"title", msg.Title,
		"priority", msg.Priority,
		"user_id", msg.UserID,
		"created_at", msg.CreatedAt)
	return nil
}
