// Package hotkey parses push-to-talk key combinations and tracks whether they are held.
package hotkey

import (
	"fmt"
	"strings"
)

// Key identifies one key. Printable characters use their lower-case rune value;
// modifiers and named keys are allocated above the Unicode range.
type Key uint32

const namedBase Key = 0x110000

const (
	Cmd Key = namedBase + iota
	CmdL
	CmdR
	Shift
	ShiftL
	ShiftR
	Ctrl
	CtrlL
	CtrlR
	Alt
	AltL
	AltR

	Space
	Enter
	Tab
	Esc
	Backspace
	Delete
	Insert
	Home
	End
	PageUp
	PageDown
	Up
	Down
	Left
	Right
	CapsLock
	F1
)

const maxFunctionKey = 24

// F returns the function key Fn for n in [1, 24].
func F(n int) Key {
	if n < 1 || n > maxFunctionKey {
		return 0
	}
	return F1 + Key(n-1)
}

var modifierNames = map[string]Key{
	"cmd":       Cmd,
	"command":   Cmd,
	"super":     Cmd,
	"meta":      Cmd,
	"win":       Cmd,
	"cmd_l":     CmdL,
	"command_l": CmdL,
	"super_l":   CmdL,
	"cmd_r":     CmdR,
	"command_r": CmdR,
	"super_r":   CmdR,
	"shift":     Shift,
	"shift_l":   ShiftL,
	"shift_r":   ShiftR,
	"ctrl":      Ctrl,
	"control":   Ctrl,
	"ctrl_l":    CtrlL,
	"control_l": CtrlL,
	"ctrl_r":    CtrlR,
	"control_r": CtrlR,
	"alt":       Alt,
	"option":    Alt,
	"alt_l":     AltL,
	"option_l":  AltL,
	"alt_r":     AltR,
	"option_r":  AltR,
	"alt_gr":    AltR,
}

var namedKeys = map[string]Key{
	"space":     Space,
	"enter":     Enter,
	"return":    Enter,
	"tab":       Tab,
	"esc":       Esc,
	"escape":    Esc,
	"backspace": Backspace,
	"delete":    Delete,
	"insert":    Insert,
	"home":      Home,
	"end":       End,
	"page_up":   PageUp,
	"pageup":    PageUp,
	"page_down": PageDown,
	"pagedown":  PageDown,
	"up":        Up,
	"down":      Down,
	"left":      Left,
	"right":     Right,
	"caps_lock": CapsLock,
	"capslock":  CapsLock,
}

var displayNames = map[Key]string{
	Cmd: "cmd", CmdL: "cmd_l", CmdR: "cmd_r",
	Shift: "shift", ShiftL: "shift_l", ShiftR: "shift_r",
	Ctrl: "ctrl", CtrlL: "ctrl_l", CtrlR: "ctrl_r",
	Alt: "alt", AltL: "alt_l", AltR: "alt_r",
	Space: "space", Enter: "enter", Tab: "tab", Esc: "esc",
	Backspace: "backspace", Delete: "delete", Insert: "insert",
	Home: "home", End: "end", PageUp: "page_up", PageDown: "page_down",
	Up: "up", Down: "down", Left: "left", Right: "right",
	CapsLock: "caps_lock",
}

// Generic returns the side-less modifier for a side-specific modifier.
func (k Key) Generic() (Key, bool) {
	switch k {
	case CmdL, CmdR:
		return Cmd, true
	case ShiftL, ShiftR:
		return Shift, true
	case CtrlL, CtrlR:
		return Ctrl, true
	case AltL, AltR:
		return Alt, true
	default:
		return k, false
	}
}

// IsModifier reports whether k is a generic or side-specific modifier.
func (k Key) IsModifier() bool {
	return k >= Cmd && k <= AltR
}

func (k Key) String() string {
	if name, ok := displayNames[k]; ok {
		return name
	}
	if k >= F1 && k < F1+maxFunctionKey {
		return fmt.Sprintf("f%d", int(k-F1)+1)
	}
	if k < namedBase {
		return string(rune(k))
	}
	return fmt.Sprintf("key(%#x)", uint32(k))
}

// lookupToken resolves one already-normalized combo token.
func lookupToken(token string) (Key, bool) {
	if key, ok := modifierNames[token]; ok {
		return key, true
	}
	if runes := []rune(token); len(runes) == 1 {
		return Key(runes[0]), true
	}
	if key, ok := namedKeys[token]; ok {
		return key, true
	}
	if strings.HasPrefix(token, "f") {
		var n int
		if _, err := fmt.Sscanf(token, "f%d", &n); err == nil && fmt.Sprintf("f%d", n) == token {
			if key := F(n); key != 0 {
				return key, true
			}
		}
	}
	return 0, false
}
