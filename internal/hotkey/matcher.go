package hotkey

// Signal is an edge produced by the matcher.
type Signal int

const (
	SignalNone Signal = iota
	// SignalStart fires once when the combo goes from not-held to held.
	SignalStart
	// SignalStop fires once when the combo goes from held to not-held.
	SignalStop
)

func (s Signal) String() string {
	switch s {
	case SignalStart:
		return "start"
	case SignalStop:
		return "stop"
	default:
		return "none"
	}
}

// Matcher owns the pressed-key set for one combo. It is not safe for concurrent
// use; the key-event goroutine is its only caller.
type Matcher struct {
	combo Combo

	// raw tracks physical keys so auto-repeat presses are ignored.
	raw map[Key]struct{}
	// pressed counts physical keys per canonical key; left and right shift
	// both feed "shift" when the combo is generic.
	pressed map[Key]int
	held    bool
}

// NewMatcher returns a matcher for combo with nothing pressed.
func NewMatcher(combo Combo) *Matcher {
	return &Matcher{
		combo:   combo,
		raw:     make(map[Key]struct{}),
		pressed: make(map[Key]int),
	}
}

// Combo returns the combination being matched.
func (m *Matcher) Combo() Combo {
	return m.combo
}

// Canonical rewrites a side-specific modifier to its generic form only when the
// combo names the generic form. A combo naming cmd_r keeps cmd_r and cmd_l distinct.
func (m *Matcher) Canonical(k Key) Key {
	if m.combo.Contains(k) {
		return k
	}
	if generic, ok := k.Generic(); ok && m.combo.Contains(generic) {
		return generic
	}
	return k
}

// Press records a key press and reports SignalStart on the held edge.
func (m *Matcher) Press(k Key) Signal {
	if _, repeat := m.raw[k]; repeat {
		return SignalNone
	}
	m.raw[k] = struct{}{}
	m.pressed[m.Canonical(k)]++

	if m.held || !m.matches() {
		return SignalNone
	}
	m.held = true
	return SignalStart
}

// Release records a key release and reports SignalStop on the released edge.
func (m *Matcher) Release(k Key) Signal {
	if _, down := m.raw[k]; !down {
		return SignalNone
	}
	delete(m.raw, k)

	canonical := m.Canonical(k)
	if m.pressed[canonical] <= 1 {
		delete(m.pressed, canonical)
	} else {
		m.pressed[canonical]--
	}

	if !m.held || m.matches() {
		return SignalNone
	}
	m.held = false
	return SignalStop
}

// Held reports whether every combo key is currently pressed.
func (m *Matcher) Held() bool {
	return m.held
}

// Reset forgets all pressed keys, e.g. after the event source restarts.
func (m *Matcher) Reset() {
	clear(m.raw)
	clear(m.pressed)
	m.held = false
}

// matches is the subset test combo ⊆ pressed.
func (m *Matcher) matches() bool {
	if m.combo.Empty() {
		return false
	}
	for _, k := range m.combo.keys {
		if m.pressed[k] == 0 {
			return false
		}
	}
	return true
}
