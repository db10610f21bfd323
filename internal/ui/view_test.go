package ui

import (
	"strings"
	"testing"

	"github.com/atomicstack/keynav/internal/engine"
	"github.com/atomicstack/keynav/internal/geom"
)

func TestViewShowsLevelZeroLabels(t *testing.T) {
	h, _, _ := newTestHarness(t, 192, 54)
	activate(h)
	view := h.View()
	for _, want := range []string{"AA", "JJ", "awaiting-row"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view", want)
		}
	}
}

func TestViewStatusShowsClicks(t *testing.T) {
	h, _, _ := newTestHarness(t, 192, 54)
	activate(h)
	h.Type("bb")
	h.Send(keySpace())
	view := h.View()
	if !strings.Contains(view, "click left x1 @288,162") {
		t.Fatalf("expected click in status line, got:\n%s", lastLines(view, 2))
	}
}

func TestRenderScreenMarker(t *testing.T) {
	st := surfaceState{
		Width:   400,
		Height:  200,
		Visible: true,
		Frame: engine.Frame{
			Rows:       6,
			Cols:       6,
			Rect:       geom.Rect{X: 100, Y: 40, W: 60, H: 60},
			ShowMarker: true,
		},
		Pointer: geom.Point{X: 130, Y: 70},
	}
	lines := renderScreen(st, 0.3)
	if len(lines) != 10 {
		t.Fatalf("expected 10 rows, got %d", len(lines))
	}
	if !strings.Contains(lines[3], markerGlyph) {
		t.Fatalf("expected marker on row 3, got %q", lines[3])
	}
	if strings.Contains(strings.Join(lines, "\n"), pointerGlyph) {
		t.Fatalf("pointer glyph drawn under the marker")
	}
}

func TestDescribeCellMarkerHidesGrid(t *testing.T) {
	st := surfaceState{
		Width:   400,
		Height:  200,
		Visible: true,
		Frame: engine.Frame{
			Rows:       6,
			Cols:       6,
			Rect:       geom.Rect{X: 100, Y: 40, W: 60, H: 60},
			ShowMarker: true,
		},
		Pointer: geom.Point{X: 130, Y: 70},
	}
	ptrX, ptrY := st.Pointer.X/CellWidthPx, st.Pointer.Y/CellHeightPx
	for y := 0; y < st.Height/CellHeightPx; y++ {
		for x := 0; x < st.Width/CellWidthPx; x++ {
			kind, _ := describeCell(st, nil, x, y, ptrX, ptrY, true)
			if kind.kind == kindTile {
				t.Fatalf("tile drawn at %d,%d under the marker", x, y)
			}
		}
	}
	kind, _ := describeCell(st, nil, 11, 3, ptrX, ptrY, true)
	if kind.kind != kindDesktop {
		t.Fatalf("expected desktop inside the old grid, got %+v", kind)
	}
}

func TestRenderScreenHiddenOverlay(t *testing.T) {
	st := surfaceState{Width: 100, Height: 40, Pointer: geom.Point{X: 55, Y: 25}}
	lines := renderScreen(st, 0.3)
	if len(lines) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(lines))
	}
	if !strings.Contains(lines[1], pointerGlyph) || !strings.Contains(lines[0], desktopGlyph) {
		t.Fatalf("unexpected hidden render %q", lines)
	}
}

func TestPlaceLabelsTruncatesToCell(t *testing.T) {
	f := engine.Frame{Rows: 1, Cols: 2, Rect: geom.Rect{W: 30, H: 20}, Labels: []string{"AB", "CD"}}
	got := placeLabels(f, 3, 1)
	// each cell is 15px, one terminal column wide
	if len(got) != 2 {
		t.Fatalf("expected one rune per cell, got %v", got)
	}
	if got[[2]int{0, 0}] != 'A' || got[[2]int{2, 0}] != 'C' {
		t.Fatalf("unexpected placement %v", got)
	}
}

func lastLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}
