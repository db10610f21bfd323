package engine

import "github.com/atomicstack/keynav/internal/geom"

// Button identifies a pointer button using X11 numbering.
type Button int

const (
	ButtonLeft   Button = 1
	ButtonMiddle Button = 2
	ButtonRight  Button = 3
)

func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonMiddle:
		return "middle"
	case ButtonRight:
		return "right"
	default:
		return "unknown"
	}
}

// Frame is everything an overlay needs to draw one state of the navigation.
type Frame struct {
	Rows       int
	Cols       int
	Rect       geom.Rect
	ShowMarker bool
	// Labels holds one label per cell in row-major order. It is empty when
	// ShowMarker is set.
	Labels []string
}

// InputSource owns the keyboard while a navigation is active.
type InputSource interface {
	GrabExclusive()
	Release()
	// ReleaseModifiers lifts any modifier keys the window system still
	// believes are held from the activation chord.
	ReleaseModifiers()
}

// OverlaySurface draws the grid over the screen.
type OverlaySurface interface {
	Show()
	Hide()
	Render(Frame)
	// SampleBounds reports the surface's current on-screen geometry.
	SampleBounds() (geom.Rect, bool)
}

// PointerController moves the pointer and synthesizes clicks.
type PointerController interface {
	WarpTo(x, y int)
	Click(button Button, count int)
}

// ScreenInfo reports the size of the screen the navigation covers.
type ScreenInfo interface {
	ScreenSize() (width, height int)
}

// Collaborators bundles the backend implementations an Engine drives.
// Nil members are replaced with no-op implementations.
type Collaborators struct {
	Input   InputSource
	Overlay OverlaySurface
	Pointer PointerController
	Screen  ScreenInfo
}

type nopCollaborator struct{}

func (nopCollaborator) GrabExclusive()                  {}
func (nopCollaborator) Release()                        {}
func (nopCollaborator) ReleaseModifiers()               {}
func (nopCollaborator) Show()                           {}
func (nopCollaborator) Hide()                           {}
func (nopCollaborator) Render(Frame)                    {}
func (nopCollaborator) SampleBounds() (geom.Rect, bool) { return geom.Rect{}, false }
func (nopCollaborator) WarpTo(int, int)                 {}
func (nopCollaborator) Click(Button, int)               {}
func (nopCollaborator) ScreenSize() (int, int)          { return 0, 0 }

func (c Collaborators) withDefaults() Collaborators {
	if c.Input == nil {
		c.Input = nopCollaborator{}
	}
	if c.Overlay == nil {
		c.Overlay = nopCollaborator{}
	}
	if c.Pointer == nil {
		c.Pointer = nopCollaborator{}
	}
	if c.Screen == nil {
		c.Screen = nopCollaborator{}
	}
	return c
}
