package notify

import "github.com/nhle/taskflow/internal/model"

// Delivery maps a stored notification event to a platform-level alert.
// Implementations are owned by the host environment; the core never
// depends on one being present or functional.
type Delivery interface {
	// RequestPermission asks the platform for alerting permission.
	// A refusal is non-fatal: alerting degrades to in-app only.
	RequestPermission() bool

	// Show renders a platform alert for the event. Errors are reported
	// for logging only and never affect repository state.
	Show(model.Event) error
}

// NopDelivery discards every alert. Used when no platform adapter is
// available or permission was refused.
type NopDelivery struct{}

func (NopDelivery) RequestPermission() bool { return false }

func (NopDelivery) Show(model.Event) error { return nil }
