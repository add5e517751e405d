package hotkey

import (
	"context"
	"errors"
	"log/slog"

	hook "github.com/robotn/gohook"
)

// virtual keycodes reported by the global hook
const (
	vcEsc       uint16 = 0x0001
	vcBackspace uint16 = 0x000E
	vcTab       uint16 = 0x000F
	vcEnter     uint16 = 0x001C
	vcCtrlL     uint16 = 0x001D
	vcShiftL    uint16 = 0x002A
	vcShiftR    uint16 = 0x0036
	vcAltL      uint16 = 0x0038
	vcSpace     uint16 = 0x0039
	vcCapsLock  uint16 = 0x003A
	vcCtrlR     uint16 = 0x0E1D
	vcAltR      uint16 = 0x0E38
	vcHome      uint16 = 0x0E47
	vcPageUp    uint16 = 0x0E49
	vcEnd       uint16 = 0x0E4F
	vcPageDown  uint16 = 0x0E51
	vcInsert    uint16 = 0x0E52
	vcDelete    uint16 = 0x0E53
	vcMetaL     uint16 = 0x0E5B
	vcMetaR     uint16 = 0x0E5C
	vcUp        uint16 = 0xE048
	vcLeft      uint16 = 0xE04B
	vcRight     uint16 = 0xE04D
	vcDown      uint16 = 0xE050
)

var keycodes = buildKeycodeTable()

func buildKeycodeTable() map[uint16]Key {
	table := map[uint16]Key{
		vcEsc: Esc, vcBackspace: Backspace, vcTab: Tab, vcEnter: Enter,
		vcCtrlL: CtrlL, vcCtrlR: CtrlR, vcShiftL: ShiftL, vcShiftR: ShiftR,
		vcAltL: AltL, vcAltR: AltR, vcMetaL: CmdL, vcMetaR: CmdR,
		vcSpace: Space, vcCapsLock: CapsLock,
		vcHome: Home, vcEnd: End, vcPageUp: PageUp, vcPageDown: PageDown,
		vcInsert: Insert, vcDelete: Delete,
		vcUp: Up, vcDown: Down, vcLeft: Left, vcRight: Right,
	}

	rows := []struct {
		first uint16
		chars string
	}{
		{0x0002, "1234567890-="},
		{0x0010, "qwertyuiop[]"},
		{0x001E, "asdfghjkl;'`"},
		{0x002B, `\zxcvbnm,./`},
	}
	for _, row := range rows {
		for i, r := range row.chars {
			table[row.first+uint16(i)] = Key(r)
		}
	}

	// F1-F10 are contiguous; the rest are scattered.
	for i := 0; i < 10; i++ {
		table[0x003B+uint16(i)] = F(i + 1)
	}
	for i, code := range []uint16{0x0057, 0x0058, 0x005B, 0x005C, 0x005D, 0x0063, 0x0064, 0x0065, 0x0066, 0x0067, 0x0068, 0x0069, 0x006A, 0x006B} {
		table[code] = F(i + 11)
	}
	return table
}

// KeyForCode maps a hook keycode to a Key.
func KeyForCode(code uint16) (Key, bool) {
	key, ok := keycodes[code]
	return key, ok
}

// Listener reads global key events and feeds the matcher. Edges are forwarded
// to a separate goroutine so controller work never stalls the event loop.
type Listener struct {
	logger   *slog.Logger
	matcher  *Matcher
	dispatch *Dispatcher
}

// NewListener binds a matcher to a dispatcher.
func NewListener(logger *slog.Logger, matcher *Matcher, dispatch *Dispatcher) *Listener {
	return &Listener{logger: logger, matcher: matcher, dispatch: dispatch}
}

// Run blocks until ctx is cancelled or the hook channel closes.
func (l *Listener) Run(ctx context.Context) error {
	events := hook.Start()
	defer hook.End()
	// keys held across a hook restart never deliver their release
	l.matcher.Reset()

	signals := make(chan Signal, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for sig := range signals {
			l.dispatch.Handle(sig)
		}
	}()
	defer func() {
		close(signals)
		<-done
	}()

	if l.logger != nil {
		l.logger.Info("hotkey listener started", "hotkey", l.matcher.Combo().String())
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return errors.New("global key hook closed")
			}
			sig := l.handle(ev)
			if sig == SignalNone {
				continue
			}
			select {
			case signals <- sig:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

// handle applies one hook event to the matcher. KeyDown is the physical
// press (auto-repeat included); KeyHold is the typed-character event, which
// carries no keycode and never fires for modifiers.
func (l *Listener) handle(ev hook.Event) Signal {
	key, ok := KeyForCode(ev.Keycode)
	if !ok {
		return SignalNone
	}
	switch ev.Kind {
	case hook.KeyDown:
		return l.matcher.Press(key)
	case hook.KeyUp:
		return l.matcher.Release(key)
	default:
		return SignalNone
	}
}
