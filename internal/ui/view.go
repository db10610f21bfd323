package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/truncate"

	"github.com/atomicstack/keynav/internal/engine"
	"github.com/atomicstack/keynav/internal/geom"
	"github.com/atomicstack/keynav/internal/theme"
)

const (
	desktopGlyph = "·"
	pointerGlyph = "+"
	markerGlyph  = "●"
	rimGlyph     = "○"
)

// cellKind identifies the style of one terminal cell so runs of equal cells
// can be styled together.
type cellKind struct {
	kind  int
	tile  int
	label bool
}

const (
	kindDesktop = iota
	kindTile
	kindPointer
	kindMarker
	kindRim
)

// View implements tea.Model.
func (m *Model) View() string {
	st := m.surface.snapshot()
	lines := renderScreen(st, m.alpha)
	lines = append(lines, m.statusLine(st), m.footerLine())
	return strings.Join(lines, "\n")
}

func renderScreen(st surfaceState, alpha float64) []string {
	cols := st.Width / CellWidthPx
	rows := st.Height / CellHeightPx
	if cols <= 0 || rows <= 0 {
		return nil
	}
	labels := map[[2]int]rune{}
	if st.Visible {
		labels = placeLabels(st.Frame, cols, rows)
	}
	ptrX, ptrY := st.Pointer.X/CellWidthPx, st.Pointer.Y/CellHeightPx
	marker := st.Visible && st.Frame.ShowMarker

	lines := make([]string, rows)
	for y := 0; y < rows; y++ {
		var b strings.Builder
		var run strings.Builder
		var current cellKind
		flush := func() {
			if run.Len() == 0 {
				return
			}
			b.WriteString(styleFor(current, alpha).Render(run.String()))
			run.Reset()
		}
		for x := 0; x < cols; x++ {
			kind, glyph := describeCell(st, labels, x, y, ptrX, ptrY, marker)
			if kind != current {
				flush()
				current = kind
			}
			run.WriteString(glyph)
		}
		flush()
		lines[y] = b.String()
	}
	return lines
}

func describeCell(st surfaceState, labels map[[2]int]rune, x, y, ptrX, ptrY int, marker bool) (cellKind, string) {
	if marker {
		switch {
		case x == ptrX && y == ptrY:
			return cellKind{kind: kindMarker}, markerGlyph
		case (x == ptrX-1 || x == ptrX+1) && y == ptrY:
			return cellKind{kind: kindRim}, rimGlyph
		}
	} else if x == ptrX && y == ptrY {
		return cellKind{kind: kindPointer}, pointerGlyph
	}
	// Only the marker is drawn on the final step.
	if !st.Visible || marker {
		return cellKind{kind: kindDesktop}, desktopGlyph
	}
	f := st.Frame
	px := float64(x*CellWidthPx) + CellWidthPx/2
	py := float64(y*CellHeightPx) + CellHeightPx/2
	if !f.Rect.Contains(px, py) || f.Rows <= 0 || f.Cols <= 0 {
		return cellKind{kind: kindDesktop}, desktopGlyph
	}
	row, col, _ := geom.CellAt(f.Rect, f.Rows, f.Cols, px, py)
	idx := row*f.Cols + col
	if r, ok := labels[[2]int{x, y}]; ok {
		return cellKind{kind: kindTile, tile: idx, label: true}, string(r)
	}
	return cellKind{kind: kindTile, tile: idx}, " "
}

// placeLabels centers each cell label on its cell, cut to the cell width.
func placeLabels(f engine.Frame, cols, rows int) map[[2]int]rune {
	out := map[[2]int]rune{}
	if f.ShowMarker || f.Rows <= 0 || f.Cols <= 0 {
		return out
	}
	for i, label := range f.Labels {
		if label == "" {
			continue
		}
		cell := geom.MapIndex(f.Rect, f.Rows, f.Cols, i)
		width := int(cell.W / CellWidthPx)
		if width < 1 {
			continue
		}
		if ansi.StringWidth(label) > width {
			label = truncate.String(label, uint(width))
		}
		center := cell.Center()
		tx := center.X/CellWidthPx - ansi.StringWidth(label)/2
		ty := center.Y / CellHeightPx
		if ty < 0 || ty >= rows {
			continue
		}
		for j, r := range []rune(label) {
			if x := tx + j; x >= 0 && x < cols {
				out[[2]int{x, ty}] = r
			}
		}
	}
	return out
}

func styleFor(k cellKind, alpha float64) lipgloss.Style {
	switch k.kind {
	case kindTile:
		s := theme.TileStyle(k.tile, alpha)
		if k.label && styles.Label != nil {
			s = s.Inherit(*styles.Label)
		}
		return s
	case kindPointer:
		return *styles.Pointer
	case kindMarker:
		return *styles.Marker
	case kindRim:
		return *styles.MarkerRim
	default:
		return *styles.Desktop
	}
}

func (m *Model) statusLine(st surfaceState) string {
	state := m.dispatcher.State()
	mode := styles.StatusMode.Render(" " + state.Mode.String() + " ")
	parts := []string{
		fmt.Sprintf("ptr %d,%d", st.Pointer.X, st.Pointer.Y),
		fmt.Sprintf("screen %dx%d", st.Width, st.Height),
	}
	if state.Active() {
		parts = append(parts, fmt.Sprintf("rect %s depth %d", state.Rect, state.Depth))
		if state.PendingRow != 0 {
			parts = append(parts, fmt.Sprintf("row %c", state.PendingRow-'a'+'A'))
		}
	}
	if n := len(st.Clicks); n > 0 {
		c := st.Clicks[n-1]
		parts = append(parts, styles.StatusClick.Render(fmt.Sprintf("click %s x%d @%d,%d (%d total)", c.Button, c.Count, c.At.X, c.At.Y, n)))
	}
	if m.lastKey != "" {
		parts = append(parts, "key "+m.lastKey)
	}
	line := mode + " " + styles.Status.Render(strings.Join(parts, "  "))
	if m.width > 0 && ansi.StringWidth(line) > m.width {
		line = truncate.StringWithTail(line, uint(m.width-1), "…")
	}
	return line
}

func (m *Model) footerLine() string {
	return styles.Footer.Render(m.help.View(m.keys))
}
