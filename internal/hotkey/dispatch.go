package hotkey

import (
	"log/slog"
	"sync"
)

// Dispatcher turns matcher edges into recording start/stop calls. Release only
// stops recordings this dispatcher started; a recording begun from the tray or
// the socket keeps running when the hotkey is let go.
type Dispatcher struct {
	logger *slog.Logger
	start  func() error
	stop   func() error

	mu    sync.Mutex
	owned bool
}

// NewDispatcher wires edge handling to controller callbacks.
func NewDispatcher(logger *slog.Logger, start func() error, stop func() error) *Dispatcher {
	return &Dispatcher{logger: logger, start: start, stop: stop}
}

// Handle applies one signal.
func (d *Dispatcher) Handle(sig Signal) {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch sig {
	case SignalStart:
		if d.owned {
			return
		}
		if err := d.start(); err != nil {
			d.log("hotkey start ignored", err)
			return
		}
		d.owned = true
	case SignalStop:
		if !d.owned {
			return
		}
		d.owned = false
		if err := d.stop(); err != nil {
			d.log("hotkey stop ignored", err)
		}
	}
}

func (d *Dispatcher) log(msg string, err error) {
	if d.logger == nil {
		return
	}
	d.logger.Debug(msg, "error", err.Error())
}
