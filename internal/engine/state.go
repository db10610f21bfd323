package engine

import (
	"time"

	"github.com/atomicstack/keynav/internal/bounds"
	"github.com/atomicstack/keynav/internal/geom"
)

// Mode is the activation phase of the engine.
type Mode int

const (
	ModeInactive Mode = iota
	ModeAwaitingRow
	ModeAwaitingCol
	ModeRecursive
)

func (m Mode) String() string {
	switch m {
	case ModeInactive:
		return "inactive"
	case ModeAwaitingRow:
		return "awaiting-row"
	case ModeAwaitingCol:
		return "awaiting-col"
	case ModeRecursive:
		return "recursive"
	default:
		return "unknown"
	}
}

// State is a copy of the engine's navigation state.
type State struct {
	Mode Mode
	Rect geom.Rect
	// History holds the rectangles replaced by each selection, oldest first.
	History []geom.Rect
	Rows    int
	Cols    int
	Depth   int
	// PendingRow is the row key captured while awaiting the column key.
	PendingRow rune
	// LastKey is the key that most recently advanced recursion; releasing it
	// at the depth limit deactivates.
	LastKey    rune
	ShowMarker bool
}

func (s State) clone() State {
	if s.History != nil {
		s.History = append([]geom.Rect(nil), s.History...)
	}
	return s
}

// Active reports whether a navigation is in progress.
func (s State) Active() bool {
	return s.Mode != ModeInactive
}

const (
	DefaultLevel0Rows      = 11
	DefaultLevel0Cols      = 11
	DefaultLevel1Rows      = 6
	DefaultLevel1Cols      = 6
	DefaultMaxDepth        = 1
	DefaultMinCellSize     = 1.0
	DefaultPostUngrabDelay = 50 * time.Millisecond
)

// Settings are the immutable per-session tunables of an Engine.
type Settings struct {
	Level0Rows int
	Level0Cols int
	Level1Rows int
	Level1Cols int
	MaxDepth   int
	// MinCellSize is the smallest cell dimension, in pixels, recursion may
	// produce. Smaller candidates are refused.
	MinCellSize float64
	// PostUngrabDelay separates releasing the keyboard (or hiding the
	// overlay) from delivering a synthetic click.
	PostUngrabDelay time.Duration
	Bounds          bounds.Policy
}

// DefaultSettings returns the stock grid shapes and timings.
func DefaultSettings() Settings {
	return Settings{
		Level0Rows:      DefaultLevel0Rows,
		Level0Cols:      DefaultLevel0Cols,
		Level1Rows:      DefaultLevel1Rows,
		Level1Cols:      DefaultLevel1Cols,
		MaxDepth:        DefaultMaxDepth,
		MinCellSize:     DefaultMinCellSize,
		PostUngrabDelay: DefaultPostUngrabDelay,
		Bounds:          bounds.DefaultPolicy(),
	}
}
