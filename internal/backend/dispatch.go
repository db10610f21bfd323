package backend

import (
	"time"

	"github.com/atomicstack/keynav/internal/engine"
	"github.com/atomicstack/keynav/internal/logging/events"
)

// KeyEvent is a key transition translated to canonical names.
type KeyEvent struct {
	Name    string
	Pressed bool
	Shift   bool
	Ctrl    bool
	Alt     bool
	Super   bool
}

// Target is the part of the engine the dispatcher drives.
type Target interface {
	Activate()
	SelectPrimary(key rune, shift bool)
	ReleasePrimary(key rune)
	Control(cmd engine.Command)
	Snapshot() engine.State
}

// Result summarizes what one key event did.
type Result struct {
	Activated bool
	Selected  bool
	Released  bool
	Command   engine.Command
	Repeat    bool
	Quit      bool
}

// Dispatcher routes key events from a backend into the engine.
type Dispatcher struct {
	name     string
	target   Target
	keymap   Keymap
	debounce *Debouncer
}

// DispatchOption customizes a Dispatcher.
type DispatchOption func(*Dispatcher)

// WithReleaseDebounce holds releases for window so auto-repeat pairs can be
// dropped.
func WithReleaseDebounce(window time.Duration) DispatchOption {
	return func(d *Dispatcher) {
		d.debounce = NewDebouncer(window, d.release)
	}
}

// WithDebouncer installs a preconfigured debouncer. Its emit function is
// replaced.
func WithDebouncer(db *Debouncer) DispatchOption {
	return func(d *Dispatcher) {
		db.emit = d.release
		d.debounce = db
	}
}

// NewDispatcher builds a dispatcher for the named backend.
func NewDispatcher(name string, t Target, km Keymap, opts ...DispatchOption) *Dispatcher {
	d := &Dispatcher{name: name, target: t, keymap: km}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Keymap returns the bindings in use.
func (d *Dispatcher) Keymap() Keymap {
	return d.keymap
}

// State returns the engine's current state.
func (d *Dispatcher) State() engine.State {
	return d.target.Snapshot()
}

// Hotkey starts a navigation. Backends with a global hotkey binding call it
// directly.
func (d *Dispatcher) Hotkey() {
	events.Backend.Key(d.name, d.keymap.Activate.String(), true)
	d.target.Activate()
}

// Handle routes one key event.
func (d *Dispatcher) Handle(ev KeyEvent) Result {
	var res Result
	events.Backend.Key(d.name, ev.Name, ev.Pressed)
	if ev.Pressed && ev.Ctrl && ev.Name == "c" {
		res.Quit = true
		return res
	}
	if !ev.Pressed {
		if d.debounce != nil {
			d.debounce.Release(ev.Name)
			return res
		}
		if _, ok := SelectionRune(ev.Name); ok {
			d.release(ev.Name)
			res.Released = true
		}
		return res
	}
	if d.debounce != nil && d.debounce.Press(ev.Name) {
		events.Backend.DropRepeat(d.name, ev.Name)
		res.Repeat = true
		return res
	}

	if !d.target.Snapshot().Active() {
		if d.keymap.Activate.Matches(ev) {
			d.target.Activate()
			res.Activated = true
		}
		return res
	}
	if cmd, ok := d.keymap.Command(ev.Name); ok {
		d.target.Control(cmd)
		res.Command = cmd
		return res
	}
	if r, ok := SelectionRune(ev.Name); ok {
		d.target.SelectPrimary(r, ev.Shift)
		res.Selected = true
	}
	return res
}

// Flush delivers any release still held by the debouncer.
func (d *Dispatcher) Flush() {
	if d.debounce != nil {
		d.debounce.Flush()
	}
}

func (d *Dispatcher) release(name string) {
	if r, ok := SelectionRune(name); ok {
		d.target.ReleasePrimary(r)
	}
}
