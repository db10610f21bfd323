package backend

import (
	"fmt"
	"sort"
	"strings"

	"github.com/atomicstack/keynav/internal/engine"
)

// Modifier names accepted in chords, in canonical order.
const (
	ModCtrl  = "ctrl"
	ModAlt   = "alt"
	ModShift = "shift"
	ModSuper = "super"
)

var modifierOrder = []string{ModCtrl, ModAlt, ModShift, ModSuper}

var namedKeys = []string{
	"space", "enter", "backspace", "escape", "tab", "delete", "insert",
	"home", "end", "pgup", "pgdown", "up", "down", "left", "right",
	"f1", "f2", "f3", "f4", "f5", "f6", "f7", "f8", "f9", "f10", "f11", "f12",
	",", ".", "/", ";", "'", "[", "]", "-", "=", "`", "\\",
}

// KnownKeys lists every canonical key name: the named keys, then the letters
// and digits.
func KnownKeys() []string {
	out := append([]string(nil), namedKeys...)
	for r := 'a'; r <= 'z'; r++ {
		out = append(out, string(r))
	}
	for r := '0'; r <= '9'; r++ {
		out = append(out, string(r))
	}
	return out
}

// IsKnownKey reports whether name is a canonical key name.
func IsKnownKey(name string) bool {
	if _, ok := SelectionRune(name); ok {
		return true
	}
	for _, k := range namedKeys {
		if k == name {
			return true
		}
	}
	return false
}

// IsModifier reports whether name is a chord modifier.
func IsModifier(name string) bool {
	for _, m := range modifierOrder {
		if m == name {
			return true
		}
	}
	return false
}

// SelectionRune returns the rune of a letter or digit key name. Upper-case
// letters are accepted and folded.
func SelectionRune(name string) (rune, bool) {
	if len(name) != 1 {
		return 0, false
	}
	r := engine.Fold(rune(name[0]))
	if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
		return r, true
	}
	return 0, false
}

// Chord is a key with optional modifiers, written like "ctrl+alt+g".
type Chord struct {
	Mods []string
	Key  string
}

// ParseChord parses a chord. Modifiers may appear in any order.
func ParseChord(s string) (Chord, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Chord{}, fmt.Errorf("empty key")
	}
	parts := strings.Split(s, "+")
	key := parts[len(parts)-1]
	if key == "" {
		return Chord{}, fmt.Errorf("key %q has no base key", s)
	}
	var c Chord
	seen := map[string]bool{}
	for _, m := range parts[:len(parts)-1] {
		if !IsModifier(m) {
			return Chord{}, fmt.Errorf("unknown modifier %q in %q", m, s)
		}
		if seen[m] {
			return Chord{}, fmt.Errorf("modifier %q repeated in %q", m, s)
		}
		seen[m] = true
	}
	for _, m := range modifierOrder {
		if seen[m] {
			c.Mods = append(c.Mods, m)
		}
	}
	if !IsKnownKey(key) {
		return Chord{}, &UnknownKeyError{Name: key}
	}
	c.Key = key
	return c, nil
}

func (c Chord) String() string {
	if len(c.Mods) == 0 {
		return c.Key
	}
	return strings.Join(c.Mods, "+") + "+" + c.Key
}

// Has reports whether the chord includes modifier m.
func (c Chord) Has(m string) bool {
	for _, have := range c.Mods {
		if have == m {
			return true
		}
	}
	return false
}

// Matches reports whether a key event is a press of this chord.
func (c Chord) Matches(ev KeyEvent) bool {
	if !ev.Pressed || ev.Name != c.Key {
		return false
	}
	return ev.Ctrl == c.Has(ModCtrl) &&
		ev.Alt == c.Has(ModAlt) &&
		ev.Shift == c.Has(ModShift) &&
		ev.Super == c.Has(ModSuper)
}

// UnknownKeyError names a key that is not in KnownKeys.
type UnknownKeyError struct {
	Name string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("unknown key %q", e.Name)
}

// Keymap binds the activation chord and the control keys.
type Keymap struct {
	Activate Chord
	controls map[string]engine.Command
}

// NewKeymap builds a keymap. Empty bindings leave a command unbound. Control
// keys may not be selection keys, and no two commands may share a key.
func NewKeymap(activate string, bindings map[engine.Command]string) (Keymap, error) {
	chord, err := ParseChord(activate)
	if err != nil {
		return Keymap{}, fmt.Errorf("activate: %w", err)
	}
	km := Keymap{Activate: chord, controls: map[string]engine.Command{}}
	for _, cmd := range engine.Commands() {
		name := strings.ToLower(strings.TrimSpace(bindings[cmd]))
		if name == "" {
			continue
		}
		if !IsKnownKey(name) {
			return Keymap{}, fmt.Errorf("%s: %w", cmd, &UnknownKeyError{Name: name})
		}
		if _, ok := SelectionRune(name); ok {
			return Keymap{}, fmt.Errorf("%s: %q is a selection key", cmd, name)
		}
		if prev, dup := km.controls[name]; dup {
			return Keymap{}, fmt.Errorf("%s: %q already bound to %s", cmd, name, prev)
		}
		km.controls[name] = cmd
	}
	return km, nil
}

// DefaultKeymap returns the stock bindings.
func DefaultKeymap() Keymap {
	km, err := NewKeymap("alt+g", DefaultBindings())
	if err != nil {
		panic(err)
	}
	return km
}

// DefaultBindings returns the stock control keys.
func DefaultBindings() map[engine.Command]string {
	return map[engine.Command]string{
		engine.CommandConfirm:    "space",
		engine.CommandAltConfirm: "enter",
		engine.CommandUndo:       "backspace",
		engine.CommandCancel:     "escape",
	}
}

// Command returns the command bound to a key name.
func (k Keymap) Command(name string) (engine.Command, bool) {
	cmd, ok := k.controls[name]
	return cmd, ok
}

// KeyFor returns the key bound to cmd, or "" when unbound.
func (k Keymap) KeyFor(cmd engine.Command) string {
	for name, c := range k.controls {
		if c == cmd {
			return name
		}
	}
	return ""
}

// Bound lists the bound key names in sorted order.
func (k Keymap) Bound() []string {
	names := make([]string, 0, len(k.controls))
	for name := range k.controls {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
