// Package notify implements the high-priority task notification pipeline:
// a durable, at-least-once work queue on a Redis list, with a fire-and-forget
// producer on the mutation path and a single prefetch-one consumer that
// acknowledges on success and dead-letters on failure.
package notify

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/taskpulse/taskpulse-api/internal/domain"
)

// Message is the queued record of a newly created high-priority task,
// destined for the asynchronous alerting handler.
type Message struct {
	TaskID    uuid.UUID           `json:"task_id"`
	Title     string              `json:"title"`
	Priority  domain.TaskPriority `json:"priority"`
	UserID    uuid.UUID           `json:"user_id"`
	CreatedAt time.Time           `json:"created_at"`
}

// NewMessage builds a notification message from a task.
func NewMessage(task *domain.Task) Message {
	return Message{
		TaskID:    task.ID,
		Title:     task.Title,
		Priority:  task.Priority,
		UserID:    task.UserID,
		CreatedAt: task.CreatedAt,
	}
}

// Encode serializes the message for the wire.
func (m Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// DecodeMessage parses a wire payload back into a Message.
func DecodeMessage(data []byte) (Message, error) {
	var m Message
	err := json.Unmarshal(data, &m)
	return m, err
}
