package ui

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/keynav/internal/backend"
	"github.com/atomicstack/keynav/internal/engine"
)

var namedKeyTypes = map[tea.KeyType]string{
	tea.KeySpace:     "space",
	tea.KeyEnter:     "enter",
	tea.KeyBackspace: "backspace",
	tea.KeyEsc:       "escape",
	tea.KeyTab:       "tab",
	tea.KeyDelete:    "delete",
	tea.KeyInsert:    "insert",
	tea.KeyHome:      "home",
	tea.KeyEnd:       "end",
	tea.KeyPgUp:      "pgup",
	tea.KeyPgDown:    "pgdown",
	tea.KeyUp:        "up",
	tea.KeyDown:      "down",
	tea.KeyLeft:      "left",
	tea.KeyRight:     "right",
	tea.KeyF1:        "f1",
	tea.KeyF2:        "f2",
	tea.KeyF3:        "f3",
	tea.KeyF4:        "f4",
	tea.KeyF5:        "f5",
	tea.KeyF6:        "f6",
	tea.KeyF7:        "f7",
	tea.KeyF8:        "f8",
	tea.KeyF9:        "f9",
	tea.KeyF10:       "f10",
	tea.KeyF11:       "f11",
	tea.KeyF12:       "f12",
}

// translateKey converts a terminal key press to a canonical key event.
func translateKey(msg tea.KeyMsg) (backend.KeyEvent, bool) {
	ev := backend.KeyEvent{Pressed: true, Alt: msg.Alt}
	switch msg.Type {
	case tea.KeyCtrlC:
		ev.Name, ev.Ctrl = "c", true
		return ev, true
	case tea.KeyRunes:
		if len(msg.Runes) != 1 {
			return ev, false
		}
		r := msg.Runes[0]
		if r == ' ' {
			ev.Name = "space"
			return ev, true
		}
		if unicode.IsUpper(r) {
			ev.Shift = true
			r = unicode.ToLower(r)
		}
		ev.Name = string(r)
	default:
		name, ok := namedKeyTypes[msg.Type]
		if !ok {
			return ev, false
		}
		ev.Name = name
	}
	return ev, backend.IsKnownKey(ev.Name)
}

// keyMap feeds the help footer.
type keyMap struct {
	Activate key.Binding
	Select   key.Binding
	Controls []key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func newKeyMap(km backend.Keymap) keyMap {
	m := keyMap{
		Activate: key.NewBinding(
			key.WithKeys(km.Activate.String()),
			key.WithHelp(km.Activate.String(), "activate"),
		),
		Select: key.NewBinding(
			key.WithKeys("a", "z", "0", "9"),
			key.WithHelp("a-z 0-9", "select"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
	for _, cmd := range engine.Commands() {
		name := km.KeyFor(cmd)
		if name == "" {
			continue
		}
		m.Controls = append(m.Controls, key.NewBinding(
			key.WithKeys(name),
			key.WithHelp(name, strings.ReplaceAll(cmd.String(), "_", " ")),
		))
	}
	return m
}

func (k keyMap) ShortHelp() []key.Binding {
	out := []key.Binding{k.Activate, k.Select}
	if len(k.Controls) > 0 {
		out = append(out, k.Controls[0])
	}
	return append(out, k.Help, k.Quit)
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Activate, k.Select},
		k.Controls,
		{k.Help, k.Quit},
	}
}
