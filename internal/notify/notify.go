// Package notify sends desktop notifications through the
// org.freedesktop.Notifications D-Bus service.
package notify

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

// Notification service constants.
const (
	notifyService   = "org.freedesktop.Notifications"
	notifyPath      = dbus.ObjectPath("/org/freedesktop/Notifications")
	notifyMethod    = "org.freedesktop.Notifications.Notify"
	appName         = "hotstringd"
	expireMs        = int32(5000)
	urgencyNormal   = byte(1)
	urgencyCritical = byte(2)
)

// Notifier delivers desktop notifications on the session bus.
type Notifier struct {
	conn *dbus.Conn
}

// New connects to the session bus. The returned Notifier owns the
// connection and must be closed.
func New() (*Notifier, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("notify: session bus: %w", err)
	}
	return &Notifier{conn: conn}, nil
}

// Info sends a normal-urgency notification.
func (n *Notifier) Info(summary, body string) error {
	return n.send(summary, body, urgencyNormal)
}

// Error sends a critical-urgency notification.
func (n *Notifier) Error(summary, body string) error {
	return n.send(summary, body, urgencyCritical)
}

func (n *Notifier) send(summary, body string, urgency byte) error {
	obj := n.conn.Object(notifyService, notifyPath)
	call := obj.Call(notifyMethod, 0,
		appName,
		uint32(0), // do not replace earlier notifications
		"",        // no icon
		summary,
		body,
		[]string{},
		map[string]dbus.Variant{"urgency": dbus.MakeVariant(urgency)},
		expireMs,
	)
	if call.Err != nil {
		return fmt.Errorf("notify: %w", call.Err)
	}
	return nil
}

// Close releases the bus connection.
func (n *Notifier) Close() error {
	return n.conn.Close()
}
