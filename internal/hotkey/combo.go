package hotkey

import (
	"fmt"
	"slices"
	"strings"
)

// ConfigError reports an unusable hotkey specification. It is fatal at startup.
type ConfigError struct {
	Spec   string
	Token  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("invalid hotkey %q: %s", e.Spec, e.Reason)
	}
	return fmt.Sprintf("invalid hotkey %q: %s %q", e.Spec, e.Reason, e.Token)
}

// Combo is the immutable set of keys that must be held together.
type Combo struct {
	keys []Key
}

// Parse converts a spec such as "cmd_r" or "ctrl+shift+space" into a Combo.
func Parse(spec string) (Combo, error) {
	if strings.TrimSpace(spec) == "" {
		return Combo{}, &ConfigError{Spec: spec, Reason: "combination is empty"}
	}

	var keys []Key
	for _, raw := range strings.Split(spec, "+") {
		token := strings.ToLower(strings.TrimSpace(raw))
		if token == "" {
			return Combo{}, &ConfigError{Spec: spec, Reason: "empty key in combination"}
		}
		key, ok := lookupToken(token)
		if !ok {
			return Combo{}, &ConfigError{Spec: spec, Token: token, Reason: "unknown key"}
		}
		if !slices.Contains(keys, key) {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	return Combo{keys: keys}, nil
}

// MustParse is Parse for compile-time constants.
func MustParse(spec string) Combo {
	combo, err := Parse(spec)
	if err != nil {
		panic(err)
	}
	return combo
}

// Keys returns a copy of the combo's keys in canonical order.
func (c Combo) Keys() []Key {
	return slices.Clone(c.keys)
}

// Contains reports whether k is one of the combo's keys.
func (c Combo) Contains(k Key) bool {
	_, found := slices.BinarySearch(c.keys, k)
	return found
}

// Empty reports whether the combo is the zero value.
func (c Combo) Empty() bool {
	return len(c.keys) == 0
}

func (c Combo) String() string {
	parts := make([]string, 0, len(c.keys))
	for _, k := range c.keys {
		parts = append(parts, k.String())
	}
	return strings.Join(parts, "+")
}
