// Package tray shows the recorder state in the menu bar and exposes the
// manual record toggle.
package tray

import (
	"sync"

	"github.com/getlantern/systray"

	"github.com/rbright/transkeet/internal/fsm"
)

const (
	iconIdle         = "🦜"
	iconRecording    = "🔴"
	iconTranscribing = "🔄"

	labelStart = "Start Recording"
	labelStop  = "Stop Recording"
)

// Info is shown as disabled menu items under the toggle.
type Info struct {
	Mic    string
	Hotkey string
	Model  string
}

// Present maps a state to the tray title, toggle label, and tooltip.
func Present(state fsm.State) (title, label, tooltip string) {
	switch state {
	case fsm.StateRecording:
		return iconRecording, labelStop, "Transkeet: recording"
	case fsm.StateTranscribing:
		return iconTranscribing, labelStart, "Transkeet: transcribing"
	default:
		return iconIdle, labelStart, "Transkeet"
	}
}

// Tray owns the systray menu. SetState may be called from any goroutine,
// before or after the menu is ready.
type Tray struct {
	info     Info
	onToggle func()
	onQuit   func()

	mu     sync.Mutex
	state  fsm.State
	ready  bool
	toggle *systray.MenuItem
	done   chan struct{}
}

// New builds a tray. onToggle runs for each toggle click; onQuit runs once
// when Quit is chosen.
func New(info Info, onToggle, onQuit func()) *Tray {
	return &Tray{
		info:     info,
		onToggle: onToggle,
		onQuit:   onQuit,
		state:    fsm.StateIdle,
		done:     make(chan struct{}),
	}
}

// Run blocks on the platform event loop until Quit. It must be called from
// the main goroutine on macOS.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit stops the event loop started by Run.
func (t *Tray) Quit() {
	systray.Quit()
}

// SetState updates the title and toggle label.
func (t *Tray) SetState(state fsm.State) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = state
	if t.ready {
		t.applyLocked()
	}
}

// State returns the last state passed to SetState.
func (t *Tray) State() fsm.State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *Tray) applyLocked() {
	title, label, tooltip := Present(t.state)
	systray.SetTitle(title)
	systray.SetTooltip(tooltip)
	t.toggle.SetTitle(label)
}

func (t *Tray) onReady() {
	toggle := systray.AddMenuItem(labelStart, "Start or stop a recording")
	systray.AddSeparator()
	for _, line := range t.infoLines() {
		item := systray.AddMenuItem(line, "")
		item.Disable()
	}
	systray.AddSeparator()
	quit := systray.AddMenuItem("Quit", "Quit Transkeet")

	t.mu.Lock()
	t.toggle = toggle
	t.ready = true
	t.applyLocked()
	t.mu.Unlock()

	go func() {
		for {
			select {
			case <-toggle.ClickedCh:
				if t.onToggle != nil {
					t.onToggle()
				}
			case <-quit.ClickedCh:
				if t.onQuit != nil {
					t.onQuit()
				}
				systray.Quit()
				return
			case <-t.done:
				return
			}
		}
	}()
}

func (t *Tray) onExit() {
	t.mu.Lock()
	t.ready = false
	t.mu.Unlock()
	close(t.done)
}

func (t *Tray) infoLines() []string {
	return []string{
		"Mic: " + fallback(t.info.Mic),
		"Hotkey: " + fallback(t.info.Hotkey),
		"Model: " + fallback(t.info.Model),
	}
}

func fallback(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
