package output

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/micmonay/keybd_event"
	"github.com/rbright/transkeet/internal/hypr"
)

// linuxKeyboardWarmup is how long a fresh uinput device needs before the
// compositor accepts its events.
const linuxKeyboardWarmup = 2 * time.Second

// KeyboardPaster presses Cmd+V on macOS and Ctrl+V elsewhere through a virtual keyboard.
type KeyboardPaster struct {
	mu    sync.Mutex
	kb    keybd_event.KeyBonding
	ready time.Time
}

// NewKeyboardPaster creates the virtual keyboard. On Linux this needs write
// access to /dev/uinput.
func NewKeyboardPaster() (*KeyboardPaster, error) {
	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return nil, fmt.Errorf("create virtual keyboard: %w", err)
	}
	kb.SetKeys(keybd_event.VK_V)
	if runtime.GOOS == "darwin" {
		kb.HasSuper(true)
	} else {
		kb.HasCTRL(true)
	}

	p := &KeyboardPaster{kb: kb, ready: time.Now()}
	if runtime.GOOS == "linux" {
		p.ready = p.ready.Add(linuxKeyboardWarmup)
	}
	return p, nil
}

func (p *KeyboardPaster) Paste(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if wait := time.Until(p.ready); wait > 0 {
		sleepContext(ctx, wait)
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	if err := p.kb.Launching(); err != nil {
		return fmt.Errorf("send paste keystroke: %w", err)
	}
	return nil
}

// HyprPaster sends the paste shortcut to the active Hyprland window.
type HyprPaster struct {
	Shortcut string
}

func (p HyprPaster) Paste(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 1200*time.Millisecond)
	defer cancel()

	window, err := activeWindowWithRetry(ctx, 5, 10*time.Millisecond)
	if err != nil {
		return err
	}

	payload, err := buildPasteShortcut(p.Shortcut, strings.TrimSpace(window.Address))
	if err != nil {
		return err
	}
	return hypr.SendShortcut(ctx, payload)
}

// CommandPaster runs a user command such as `wtype -M ctrl v`.
type CommandPaster struct {
	Argv []string
}

func (p CommandPaster) Paste(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()
	return runCommandWithInput(ctx, p.Argv, "")
}

func buildPasteShortcut(shortcut string, windowAddress string) (string, error) {
	shortcut = strings.TrimSpace(shortcut)
	if shortcut == "" {
		return "", fmt.Errorf("paste shortcut cannot be empty")
	}

	address := strings.TrimSpace(windowAddress)
	if address == "" {
		return "", fmt.Errorf("active window address is required")
	}

	return fmt.Sprintf("%s,address:%s", shortcut, address), nil
}

func activeWindowWithRetry(ctx context.Context, attempts int, delay time.Duration) (hypr.ActiveWindow, error) {
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		window, err := hypr.QueryActiveWindow(ctx)
		if err == nil {
			return window, nil
		}
		lastErr = err
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return hypr.ActiveWindow{}, ctx.Err()
		case <-time.After(delay):
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("active window unavailable")
	}
	return hypr.ActiveWindow{}, fmt.Errorf("resolve active window: %w", lastErr)
}
