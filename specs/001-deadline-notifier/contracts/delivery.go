// Package contracts pins the deadline notifier's boundaries: the delivery
// adapter interface toward platform alerting, and the wire surface of the
// remote todo backend.
package contracts

// EventType identifies the kind of deadline crossing.
type EventType string

const (
	EventWarning EventType = "30min-warning"
	EventOverdue EventType = "overdue"
)

// Event is a stored notification as handed to a delivery adapter.
type Event struct {
	ID        string
	Type      EventType
	TaskID    string
	TaskTitle string
	Deadline  string // "YYYY-MM-DD" or "YYYY-MM-DD HH:MM"
	Message   string
}

// Delivery is the contract every platform alert adapter must implement.
type Delivery interface {
	// RequestPermission asks the platform for alerting permission.
	// A refusal degrades alerting to in-app only; it is never an error.
	RequestPermission() bool

	// Show renders a platform alert for the event. A returned error is
	// logged and never unwinds the stored event.
	Show(Event) error
}
