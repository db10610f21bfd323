package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/atomicstack/keynav/internal/backend"
)

// namedKeysyms maps canonical key names to X keysym names, as understood by
// keybind's key strings.
var namedKeysyms = map[string]string{
	"space":     "space",
	"enter":     "Return",
	"backspace": "BackSpace",
	"escape":    "Escape",
	"tab":       "Tab",
	"delete":    "Delete",
	"insert":    "Insert",
	"home":      "Home",
	"end":       "End",
	"pgup":      "Prior",
	"pgdown":    "Next",
	"up":        "Up",
	"down":      "Down",
	"left":      "Left",
	"right":     "Right",
	",":         "comma",
	".":         "period",
	"/":         "slash",
	";":         "semicolon",
	"'":         "apostrophe",
	"[":         "bracketleft",
	"]":         "bracketright",
	"-":         "minus",
	"=":         "equal",
	"`":         "grave",
	"\\":        "backslash",
}

var keysymNames = map[xproto.Keysym]string{
	0x0020: "space",
	0xff0d: "enter",
	0xff8d: "enter", // KP_Enter
	0xff08: "backspace",
	0xff1b: "escape",
	0xff09: "tab",
	0xffff: "delete",
	0xff63: "insert",
	0xff50: "home",
	0xff57: "end",
	0xff55: "pgup",
	0xff56: "pgdown",
	0xff51: "left",
	0xff52: "up",
	0xff53: "right",
	0xff54: "down",
	0x002c: ",",
	0x002e: ".",
	0x002f: "/",
	0x003b: ";",
	0x0027: "'",
	0x005b: "[",
	0x005d: "]",
	0x002d: "-",
	0x003d: "=",
	0x0060: "`",
	0x005c: "\\",
}

const (
	keysymF1  xproto.Keysym = 0xffbe
	keysymF12 xproto.Keysym = 0xffc9
)

// modifierKeysyms are released after activation so the chord's modifiers do
// not leak into synthesized clicks.
var modifierKeysyms = []string{
	"Shift_L", "Shift_R",
	"Control_L", "Control_R",
	"Alt_L", "Alt_R",
	"Super_L", "Super_R",
	"Meta_L", "Meta_R",
}

// keyName returns the canonical name of an unshifted keysym.
func keyName(sym xproto.Keysym) (string, bool) {
	switch {
	case sym >= 'a' && sym <= 'z', sym >= '0' && sym <= '9':
		return string(rune(sym)), true
	case sym >= 'A' && sym <= 'Z':
		return string(rune(sym - 'A' + 'a')), true
	case sym >= keysymF1 && sym <= keysymF12:
		return fmt.Sprintf("f%d", sym-keysymF1+1), true
	}
	name, ok := keysymNames[sym]
	return name, ok
}

// keyEvent translates an X key event into the dispatcher's vocabulary.
func keyEvent(sym xproto.Keysym, state uint16, pressed bool) (backend.KeyEvent, bool) {
	name, ok := keyName(sym)
	if !ok {
		return backend.KeyEvent{}, false
	}
	return backend.KeyEvent{
		Name:    name,
		Pressed: pressed,
		Shift:   state&xproto.ModMaskShift != 0,
		Ctrl:    state&xproto.ModMaskControl != 0,
		Alt:     state&xproto.ModMask1 != 0,
		Super:   state&xproto.ModMask4 != 0,
	}, true
}

var chordMods = map[string]string{
	backend.ModCtrl:  "Control",
	backend.ModAlt:   "Mod1",
	backend.ModShift: "Shift",
	backend.ModSuper: "Mod4",
}

// keyString renders a chord as a keybind key string such as "Mod1-g".
func keyString(c backend.Chord) (string, error) {
	key := c.Key
	if sym, ok := namedKeysyms[key]; ok {
		key = sym
	} else if strings.HasPrefix(key, "f") && len(key) > 1 {
		key = "F" + key[1:]
	} else if _, ok := backend.SelectionRune(key); !ok {
		return "", fmt.Errorf("no keysym for %q", c.Key)
	}
	parts := make([]string, 0, len(c.Mods)+1)
	for _, m := range c.Mods {
		parts = append(parts, chordMods[m])
	}
	return strings.Join(append(parts, key), "-"), nil
}
