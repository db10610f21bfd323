// Package geom holds the screen-space geometry shared by the navigation engine
// and its backends.
package geom

import (
	"fmt"
	"math"
)

// Rect is an axis-aligned rectangle in screen pixels.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Point is an integer pixel position.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// FullScreen returns the rectangle anchored at the origin covering w×h pixels.
func FullScreen(w, h int) Rect {
	return Rect{W: float64(w), H: float64(h)}
}

// Valid reports whether both dimensions are positive.
func (r Rect) Valid() bool {
	return r.W > 0 && r.H > 0
}

// Area returns w*h.
func (r Rect) Area() float64 {
	return r.W * r.H
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.X + r.W
}

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// Center returns the midpoint truncated toward zero to whole pixels.
func (r Rect) Center() Point {
	return Point{
		X: int(r.X + r.W/2),
		Y: int(r.Y + r.H/2),
	}
}

// Contains reports whether (x, y) falls inside r, including the top/left edge
// and excluding the bottom/right edge.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Overlaps reports whether r and o share any interior area.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Near reports whether a and b differ by at most tol.
func Near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func (r Rect) String() string {
	return fmt.Sprintf("(%g,%g %gx%g)", r.X, r.Y, r.W, r.H)
}
