package model

import "time"

// EventType identifies the kind of deadline crossing an Event records.
type EventType string

const (
	// EventWarning fires 30 minutes before a task's deadline.
	EventWarning EventType = "30min-warning"

	// EventOverdue fires once the deadline has passed.
	EventOverdue EventType = "overdue"
)

// User-facing alert messages, kept verbatim from the product.
const (
	MessageWarning = "30分前です"
	MessageOverdue = "期限切れ"
)

// Message returns the display message for the event type.
func (t EventType) Message() string {
	if t == EventOverdue {
		return MessageOverdue
	}
	return MessageWarning
}

// Event records a single deadline crossing for a task. At most one live
// event exists per (task ID, type) pair; that pair is the dedup key.
type Event struct {
	// ID is the unique identifier for this event.
	ID string `json:"id"`

	// Type is the kind of crossing.
	Type EventType `json:"type"`

	// Task is a snapshot of the task as it looked when the event fired.
	// Identity is carried by Task.ID.
	Task Task `json:"task"`

	// Timestamp is when the event was created.
	Timestamp time.Time `json:"timestamp"`

	// Message is the human-readable label derived from Type.
	Message string `json:"message"`

	// IsRead indicates whether the user has seen this event.
	IsRead bool `json:"is_read"`
}
