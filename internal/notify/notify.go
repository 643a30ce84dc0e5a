package notify

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	notificationsService = "org.freedesktop.Notifications"
	notificationsPath    = "/org/freedesktop/Notifications"
)

// DesktopNotifier delivers the one-shot "tea is ready" alert over the D-Bus
// session bus. It holds a single pending alert slot: arming it again replaces
// whatever was pending before.
type DesktopNotifier struct {
	appName string

	mu     sync.Mutex
	timer  *time.Timer
	lastID uint32
}

// NewDesktopNotifier creates a notifier posting under the given app name.
func NewDesktopNotifier(appName string) *DesktopNotifier {
	return &DesktopNotifier{appName: appName}
}

// Schedule arms the alert to fire after the given delay.
func (notifier *DesktopNotifier) Schedule(after time.Duration, title, body string) error {
	if after < 0 {
		after = 0
	}

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if notifier.timer != nil {
		notifier.timer.Stop()
	}
	notifier.timer = time.AfterFunc(after, func() {
		if err := notifier.deliver(title, body); err != nil {
			log.Printf("notify: deliver: %v", err)
		}
		if err := PlayChime(); err != nil {
			log.Printf("notify: chime: %v", err)
		}
	})
	return nil
}

// Cancel disarms the pending alert and closes one that was already posted.
func (notifier *DesktopNotifier) Cancel() error {
	notifier.mu.Lock()
	timer := notifier.timer
	lastID := notifier.lastID
	notifier.timer = nil
	notifier.lastID = 0
	notifier.mu.Unlock()

	if timer != nil {
		timer.Stop()
	}
	if lastID == 0 {
		return nil
	}

	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("connect session bus: %w", err)
	}
	defer conn.Close()

	obj := conn.Object(notificationsService, notificationsPath)
	if call := obj.Call("org.freedesktop.Notifications.CloseNotification", 0, lastID); call.Err != nil {
		return fmt.Errorf("close notification: %w", call.Err)
	}
	return nil
}

func (notifier *DesktopNotifier) deliver(title, body string) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("connect session bus: %w", err)
	}
	defer conn.Close()

	obj := conn.Object(notificationsService, notificationsPath)
	call := obj.Call("org.freedesktop.Notifications.Notify", 0,
		notifier.appName,
		uint32(0),            // replaces_id
		"dialog-information", // app_icon
		title,
		body,
		[]string{}, // actions
		map[string]dbus.Variant{
			"urgency": dbus.MakeVariant(byte(1)),
		},
		int32(10000), // expire_timeout
	)
	if call.Err != nil {
		return fmt.Errorf("send notification: %w", call.Err)
	}

	var id uint32
	if err := call.Store(&id); err != nil {
		return fmt.Errorf("parse notification id: %w", err)
	}

	notifier.mu.Lock()
	notifier.lastID = id
	notifier.mu.Unlock()
	return nil
}
