package indicator

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/gen2brain/beeep"
	"github.com/godbus/dbus/v5"

	"github.com/rbright/transkeet/internal/hypr"
)

// Notifier delivers one (title, message) pair to the user.
type Notifier interface {
	Notify(ctx context.Context, title, message string) error
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, title, message string) error

func (f NotifierFunc) Notify(ctx context.Context, title, message string) error {
	return f(ctx, title, message)
}

// NopNotifier drops every notification.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, string, string) error { return nil }

const (
	notificationsDest   = "org.freedesktop.Notifications"
	notificationsPath   = dbus.ObjectPath("/org/freedesktop/Notifications")
	notificationsNotify = "org.freedesktop.Notifications.Notify"
)

// DesktopNotifier sends freedesktop notifications on the session bus. Each
// notification replaces the previous one so status messages do not pile up.
type DesktopNotifier struct {
	AppName   string
	TimeoutMS int

	mu        sync.Mutex
	conn      *dbus.Conn
	replaceID uint32
}

// NewDesktopNotifier returns a notifier for appName.
func NewDesktopNotifier(appName string, timeoutMS int) *DesktopNotifier {
	return &DesktopNotifier{AppName: appName, TimeoutMS: timeoutMS}
}

func (d *DesktopNotifier) Notify(ctx context.Context, title, message string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	conn, err := d.connect()
	if err != nil {
		return err
	}

	obj := conn.Object(notificationsDest, notificationsPath)
	call := obj.CallWithContext(ctx, notificationsNotify, 0,
		d.AppName,
		d.replaceID,
		"audio-input-microphone",
		title,
		message,
		[]string{},
		map[string]dbus.Variant{},
		int32(d.TimeoutMS),
	)
	if call.Err != nil {
		return fmt.Errorf("desktop notify: %w", call.Err)
	}

	var id uint32
	if err := call.Store(&id); err != nil {
		return fmt.Errorf("desktop notify invalid response: %w", err)
	}
	d.replaceID = id
	return nil
}

func (d *DesktopNotifier) connect() (*dbus.Conn, error) {
	if d.conn != nil && d.conn.Connected() {
		return d.conn, nil
	}
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}
	d.conn = conn
	return conn, nil
}

// BeeepNotifier uses the platform notifier (notification center, toast, or DBus).
type BeeepNotifier struct {
	AppName string
}

func (b BeeepNotifier) Notify(_ context.Context, title, message string) error {
	if b.AppName != "" {
		beeep.AppName = b.AppName
	}
	if err := beeep.Notify(title, message, ""); err != nil {
		return fmt.Errorf("beeep notify: %w", err)
	}
	return nil
}

// HyprNotifier shows notifications through Hyprland's built-in notify dispatcher.
type HyprNotifier struct {
	TimeoutMS int
}

func (h HyprNotifier) Notify(ctx context.Context, title, message string) error {
	text := strings.TrimSpace(title)
	if message = strings.TrimSpace(message); message != "" {
		if text != "" {
			text += ": "
		}
		text += message
	}
	icon := hypr.IconInfo
	if isErrorTitle(title) {
		icon = hypr.IconError
	}
	return hypr.Notify(ctx, icon, h.TimeoutMS, "", text)
}
