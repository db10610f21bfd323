package engine

import (
	"sync"
	"time"

	"github.com/atomicstack/keynav/internal/bounds"
	"github.com/atomicstack/keynav/internal/geom"
	"github.com/atomicstack/keynav/internal/logging"
	"github.com/atomicstack/keynav/internal/logging/events"
)

// Engine is the navigation state machine. All methods are safe for
// concurrent use.
type Engine struct {
	settings   Settings
	deps       Collaborators
	reconciler *bounds.Reconciler
	sleep      func(time.Duration)

	mu         sync.Mutex
	state      State
	activating bool
	closed     bool
}

// Option customizes an Engine.
type Option func(*Engine)

// WithSleep replaces time.Sleep for the settle and post-ungrab waits.
func WithSleep(sleep func(time.Duration)) Option {
	return func(e *Engine) {
		if sleep != nil {
			e.sleep = sleep
		}
	}
}

// New builds an inactive Engine.
func New(settings Settings, deps Collaborators, opts ...Option) *Engine {
	e := &Engine{
		settings: settings,
		deps:     deps.withDefaults(),
		sleep:    time.Sleep,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.reconciler = bounds.New(settings.Bounds, e.sleep)
	e.state = e.baseline()
	return e
}

// Settings returns the configuration the engine was built with.
func (e *Engine) Settings() Settings {
	return e.settings
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.clone()
}

func (e *Engine) baseline() State {
	return State{
		Mode: ModeInactive,
		Rows: e.settings.Level0Rows,
		Cols: e.settings.Level0Cols,
	}
}

// Activate starts a navigation over the whole screen. It blocks while the
// overlay geometry settles. Calling it while active does nothing.
func (e *Engine) Activate() {
	e.mu.Lock()
	if e.state.Mode != ModeInactive || e.activating || e.closed {
		busy := e.activating
		e.mu.Unlock()
		if busy {
			events.Engine.Ignore(ModeInactive.String(), 0, events.IgnoreBusy)
		}
		return
	}
	e.activating = true
	e.mu.Unlock()

	w, h := e.deps.Screen.ScreenSize()
	screen := geom.FullScreen(w, h)
	e.deps.Overlay.Show()
	if !screen.Valid() {
		e.mu.Lock()
		e.activating = false
		e.mu.Unlock()
		e.deps.Overlay.Hide()
		logging.Info("activation aborted: screen size %dx%d", w, h)
		return
	}
	rect := e.reconciler.Reconcile(screen, e.deps.Overlay)

	e.mu.Lock()
	e.activating = false
	if e.closed {
		e.mu.Unlock()
		e.deps.Overlay.Hide()
		return
	}
	e.state = State{
		Mode: ModeAwaitingRow,
		Rect: rect,
		Rows: e.settings.Level0Rows,
		Cols: e.settings.Level0Cols,
	}
	frame := e.frameLocked()
	e.mu.Unlock()

	events.Engine.Activate(screen, rect)
	e.deps.Overlay.Render(frame)
	e.deps.Input.GrabExclusive()
	e.deps.Input.ReleaseModifiers()
}

// Deactivate ends the navigation without clicking.
func (e *Engine) Deactivate() {
	e.mu.Lock()
	if e.state.Mode == ModeInactive {
		e.mu.Unlock()
		return
	}
	from := e.state.Mode
	e.state = e.baseline()
	e.mu.Unlock()

	events.Engine.Deactivate(from.String())
	e.deps.Overlay.Hide()
	e.deps.Input.Release()
	e.deps.Input.ReleaseModifiers()
}

// Shutdown deactivates an active navigation and refuses later activations.
func (e *Engine) Shutdown() {
	e.mu.Lock()
	e.closed = true
	active := e.state.Mode != ModeInactive
	e.mu.Unlock()

	events.Engine.Shutdown(active)
	if active {
		e.Deactivate()
		return
	}
	e.deps.Input.ReleaseModifiers()
}

// SelectPrimary handles a press of a selection key. Keys that do not address
// a cell of the current grid are ignored.
func (e *Engine) SelectPrimary(key rune, shift bool) {
	key = Fold(key)

	e.mu.Lock()
	s := &e.state
	mode := s.Mode
	var target geom.Point
	var frame Frame
	moved := false

	switch s.Mode {
	case ModeInactive:
		e.mu.Unlock()
		events.Engine.Ignore(mode.String(), key, events.IgnoreInactive)
		return

	case ModeAwaitingRow:
		if idx, ok := RowColIndex(key); !ok || idx >= s.Rows {
			e.mu.Unlock()
			events.Engine.Ignore(mode.String(), key, events.IgnoreOutOfRange)
			return
		}
		s.PendingRow = key
		s.Mode = ModeAwaitingCol

	case ModeAwaitingCol:
		col, ok := RowColIndex(key)
		if !ok || col >= s.Cols {
			e.mu.Unlock()
			events.Engine.Ignore(mode.String(), key, events.IgnoreOutOfRange)
			return
		}
		row, _ := RowColIndex(s.PendingRow)
		next := geom.MapCell(s.Rect, s.Rows, s.Cols, row, col)
		s.History = append(s.History, s.Rect)
		s.Rect = next
		s.PendingRow = 0
		s.Rows = e.settings.Level1Rows
		s.Cols = e.settings.Level1Cols
		s.Mode = ModeRecursive
		s.Depth = 0
		if e.settings.MaxDepth <= 0 {
			s.LastKey = key
			s.ShowMarker = true
		}
		target, frame, moved = next.Center(), e.frameLocked(), true

	case ModeRecursive:
		if s.Depth >= e.settings.MaxDepth {
			e.mu.Unlock()
			events.Engine.Ignore(mode.String(), key, events.IgnoreDepthLimit)
			return
		}
		idx, ok := CellIndex(key)
		if !ok || idx >= s.Rows*s.Cols {
			e.mu.Unlock()
			events.Engine.Ignore(mode.String(), key, events.IgnoreOutOfRange)
			return
		}
		next := geom.MapIndex(s.Rect, s.Rows, s.Cols, idx)
		if next.W < e.settings.MinCellSize || next.H < e.settings.MinCellSize {
			e.mu.Unlock()
			events.Engine.Ignore(mode.String(), key, events.IgnoreDegenerate)
			return
		}
		s.History = append(s.History, s.Rect)
		s.Rect = next
		s.Depth++
		s.LastKey = key
		if s.Depth >= e.settings.MaxDepth {
			s.ShowMarker = true
		}
		target, frame, moved = next.Center(), e.frameLocked(), true
	}
	rect, depth := s.Rect, s.Depth
	e.mu.Unlock()

	events.Engine.Select(mode.String(), key, shift, rect, depth)
	if moved {
		e.deps.Pointer.WarpTo(target.X, target.Y)
		e.deps.Overlay.Render(frame)
	}
}

// ReleasePrimary handles a key release. Releasing the key that reached the
// depth limit confirms the position by deactivating.
func (e *Engine) ReleasePrimary(key rune) {
	key = Fold(key)

	e.mu.Lock()
	confirm := e.state.Mode == ModeRecursive && e.state.ShowMarker && key == e.state.LastKey
	e.mu.Unlock()

	if confirm {
		events.Engine.ReleaseConfirm(key)
		e.Deactivate()
	}
}

// Control dispatches a control command.
func (e *Engine) Control(cmd Command) {
	if !e.Snapshot().Active() {
		return
	}
	events.Engine.Control(cmd.String())
	switch cmd {
	case CommandUndo:
		e.Undo()
	case CommandCancel:
		e.Deactivate()
	default:
		if click, ok := cmd.Click(); ok {
			e.RequestClick(click.Button, click.Count, click.Deactivate)
		}
	}
}

// Undo steps back one selection.
func (e *Engine) Undo() {
	e.mu.Lock()
	s := &e.state
	if s.Mode == ModeInactive {
		e.mu.Unlock()
		return
	}
	s.ShowMarker = false
	moved := false

	switch s.Mode {
	case ModeAwaitingCol:
		s.Mode = ModeAwaitingRow
		s.PendingRow = 0
	case ModeRecursive:
		if n := len(s.History); n > 0 {
			s.Rect = s.History[n-1]
			s.History = s.History[:n-1]
			s.Depth--
			if len(s.History) == 0 || s.Depth < 0 {
				s.Mode = ModeAwaitingRow
				s.PendingRow = 0
				s.Rows = e.settings.Level0Rows
				s.Cols = e.settings.Level0Cols
				s.Depth = 0
				s.History = nil
			}
		}
		moved = true
	}
	mode, rect, depth := s.Mode, s.Rect, s.Depth
	target, frame := rect.Center(), e.frameLocked()
	e.mu.Unlock()

	events.Engine.Undo(mode.String(), rect, depth)
	e.deps.Overlay.Show()
	if moved {
		e.deps.Pointer.WarpTo(target.X, target.Y)
		e.deps.Overlay.Render(frame)
	}
}

// RequestClick warps to the center of the current rectangle and clicks.
// With deactivate set the navigation ends first; otherwise the overlay is
// hidden around the click and shown again afterwards.
func (e *Engine) RequestClick(button Button, count int, deactivate bool) {
	e.mu.Lock()
	if e.state.Mode == ModeInactive {
		e.mu.Unlock()
		return
	}
	at := e.state.Rect.Center()
	e.mu.Unlock()

	events.Engine.Click(button.String(), count, at, deactivate)
	e.deps.Pointer.WarpTo(at.X, at.Y)
	if deactivate {
		e.Deactivate()
	} else {
		e.deps.Overlay.Hide()
	}
	// window systems drop synthetic clicks sent right after an ungrab
	if e.settings.PostUngrabDelay > 0 {
		e.sleep(e.settings.PostUngrabDelay)
	}
	e.deps.Pointer.Click(button, count)
	if !deactivate {
		e.deps.Overlay.Show()
	}
}

func (e *Engine) frameLocked() Frame {
	s := e.state
	f := Frame{Rows: s.Rows, Cols: s.Cols, Rect: s.Rect, ShowMarker: s.ShowMarker}
	if s.ShowMarker {
		return f
	}
	if s.Mode == ModeRecursive {
		f.Labels = levelOneLabels(s.Rows, s.Cols)
	} else {
		f.Labels = levelZeroLabels(s.Rows, s.Cols)
	}
	return f
}
