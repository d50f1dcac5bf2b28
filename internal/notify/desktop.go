package notify

import (
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/nhle/taskflow/internal/model"
)

const (
	notifyObj    = "org.freedesktop.Notifications"
	notifyPath   = "/org/freedesktop/Notifications"
	notifyMethod = "org.freedesktop.Notifications.Notify"

	appName = "TaskFlow"

	// alertExpireMs auto-dismisses the alert after five seconds.
	alertExpireMs = 5000
)

// DesktopDelivery renders alerts through the desktop notification service
// on the D-Bus session bus.
type DesktopDelivery struct {
	bus *dbus.Conn
}

// NewDesktopDelivery connects to the session bus. The returned error is
// non-fatal for the application; callers fall back to in-app alerts.
func NewDesktopDelivery() (*DesktopDelivery, error) {
	bus, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("connecting to session bus: %w", err)
	}
	return &DesktopDelivery{bus: bus}, nil
}

// RequestPermission reports whether the notification service is reachable.
// The desktop has no permission prompt comparable to a browser's; a live
// bus connection is what stands in for "granted".
func (d *DesktopDelivery) RequestPermission() bool {
	return d.bus != nil
}

// Show posts a desktop alert for the event: the title carries the alert
// message, the body names the task and its deadline.
func (d *DesktopDelivery) Show(ev model.Event) error {
	obj := d.bus.Object(notifyObj, notifyPath)
	if obj == nil {
		return fmt.Errorf("object %s not found on session bus", notifyObj)
	}

	title := fmt.Sprintf("%s: %s", appName, ev.Message)
	body := fmt.Sprintf("タスク: %s\n期限: %s %s", ev.Task.Title, ev.Task.Date, ev.Task.Time)

	call := obj.Call(
		notifyMethod,
		0,
		appName,
		uint32(0),
		"",
		title,
		body,
		[]string{},
		map[string]dbus.Variant{},
		int32(alertExpireMs),
	)
	if call.Err != nil {
		return fmt.Errorf("posting desktop notification: %w", call.Err)
	}

	return nil
}

// Close releases the bus connection.
func (d *DesktopDelivery) Close() error {
	if d.bus == nil {
		return nil
	}
	return d.bus.Close()
}
