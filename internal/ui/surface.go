package ui

import (
	"sync"
	"time"

	"github.com/atomicstack/keynav/internal/engine"
	"github.com/atomicstack/keynav/internal/geom"
)

// Terminal cells are mapped to this many virtual pixels.
const (
	CellWidthPx  = 10
	CellHeightPx = 20
)

// settleSteps is how many samples the simulated overlay needs after Show
// before it reports its full geometry.
const settleSteps = 3

// Click records one synthetic click delivered to the virtual screen.
type Click struct {
	Button engine.Button
	Count  int
	At     geom.Point
}

// surfaceChangedMsg tells the program to redraw.
type surfaceChangedMsg struct{}

// Surface is the preview's virtual screen. It implements every engine
// collaborator and is safe for concurrent use.
type Surface struct {
	pressRelease time.Duration
	doubleGap    time.Duration
	sleep        func(time.Duration)

	mu      sync.Mutex
	width   int
	height  int
	visible bool
	grabbed bool
	samples int
	frame   engine.Frame
	pointer geom.Point
	clicks  []Click
	notify  func()
}

// NewSurface creates a surface covering cols x rows terminal cells.
func NewSurface(cols, rows int, pressRelease, doubleGap time.Duration) *Surface {
	return &Surface{
		pressRelease: pressRelease,
		doubleGap:    doubleGap,
		sleep:        time.Sleep,
		width:        cols * CellWidthPx,
		height:       rows * CellHeightPx,
	}
}

// SetNotify installs the redraw callback. It runs without the surface lock.
func (s *Surface) SetNotify(fn func()) {
	s.mu.Lock()
	s.notify = fn
	s.mu.Unlock()
}

// Resize changes the virtual screen to cols x rows terminal cells.
func (s *Surface) Resize(cols, rows int) {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	s.mu.Lock()
	s.width = cols * CellWidthPx
	s.height = rows * CellHeightPx
	s.mu.Unlock()
}

func (s *Surface) changed() {
	s.mu.Lock()
	fn := s.notify
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (s *Surface) ScreenSize() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

func (s *Surface) GrabExclusive() {
	s.mu.Lock()
	s.grabbed = true
	s.mu.Unlock()
}

func (s *Surface) Release() {
	s.mu.Lock()
	s.grabbed = false
	s.mu.Unlock()
}

// ReleaseModifiers has nothing to lift: terminals report no held keys.
func (s *Surface) ReleaseModifiers() {}

func (s *Surface) Show() {
	s.mu.Lock()
	if !s.visible {
		s.samples = 0
	}
	s.visible = true
	s.mu.Unlock()
	s.changed()
}

func (s *Surface) Hide() {
	s.mu.Lock()
	s.visible = false
	s.mu.Unlock()
	s.changed()
}

func (s *Surface) Render(f engine.Frame) {
	s.mu.Lock()
	f.Labels = append([]string(nil), f.Labels...)
	s.frame = f
	s.mu.Unlock()
	s.changed()
}

// SampleBounds imitates a compositor mapping the overlay: nothing at first,
// then a partial window, then the full screen with a rounding sliver.
func (s *Surface) SampleBounds() (geom.Rect, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.visible {
		return geom.Rect{}, false
	}
	step := s.samples
	s.samples++
	full := geom.FullScreen(s.width, s.height)
	switch {
	case step == 0:
		return geom.Rect{}, false
	case step < settleSteps-1:
		return geom.Rect{W: full.W / 2, H: full.H / 2}, true
	default:
		return geom.Rect{X: -0.5, Y: -0.5, W: full.W + 1, H: full.H + 1}, true
	}
}

func (s *Surface) WarpTo(x, y int) {
	s.mu.Lock()
	s.pointer = geom.Point{X: x, Y: y}
	s.mu.Unlock()
	s.changed()
}

// Click delivers count press/release pairs at the pointer.
func (s *Surface) Click(b engine.Button, count int) {
	for i := 0; i < count; i++ {
		if i > 0 && s.doubleGap > 0 {
			s.sleep(s.doubleGap)
		}
		if s.pressRelease > 0 {
			s.sleep(s.pressRelease)
		}
	}
	s.mu.Lock()
	s.clicks = append(s.clicks, Click{Button: b, Count: count, At: s.pointer})
	s.mu.Unlock()
	s.changed()
}

// surfaceState is a consistent copy of the surface for rendering.
type surfaceState struct {
	Width   int
	Height  int
	Visible bool
	Grabbed bool
	Frame   engine.Frame
	Pointer geom.Point
	Clicks  []Click
}

func (s *Surface) snapshot() surfaceState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return surfaceState{
		Width:   s.width,
		Height:  s.height,
		Visible: s.visible,
		Grabbed: s.grabbed,
		Frame:   s.frame,
		Pointer: s.pointer,
		Clicks:  append([]Click(nil), s.clicks...),
	}
}

// Clicks returns every click delivered so far.
func (s *Surface) Clicks() []Click {
	return s.snapshot().Clicks
}

// Pointer returns the current pointer position.
func (s *Surface) Pointer() geom.Point {
	return s.snapshot().Pointer
}

// Collaborators exposes the surface to the engine.
func (s *Surface) Collaborators() engine.Collaborators {
	return engine.Collaborators{Input: s, Overlay: s, Pointer: s, Screen: s}
}
