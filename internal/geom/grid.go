package geom

import "math"

// MapCell returns the cell at (row, col) of a rows×cols subdivision of rect.
// The caller is responsible for keeping row and col in range.
func MapCell(rect Rect, rows, cols, row, col int) Rect {
	cellW := rect.W / float64(cols)
	cellH := rect.H / float64(rows)
	return Rect{
		X: rect.X + float64(col)*cellW,
		Y: rect.Y + float64(row)*cellH,
		W: cellW,
		H: cellH,
	}
}

// MapIndex maps a row-major linear index onto MapCell.
func MapIndex(rect Rect, rows, cols, index int) Rect {
	return MapCell(rect, rows, cols, index/cols, index%cols)
}

// CellAt returns the row and column of the cell containing (x, y), or false
// when the point lies outside rect.
func CellAt(rect Rect, rows, cols int, x, y float64) (row, col int, ok bool) {
	if rows <= 0 || cols <= 0 || !rect.Valid() || !rect.Contains(x, y) {
		return 0, 0, false
	}
	col = int(math.Floor((x - rect.X) / (rect.W / float64(cols))))
	row = int(math.Floor((y - rect.Y) / (rect.H / float64(rows))))
	// rounding can land exactly on the far edge
	if col >= cols {
		col = cols - 1
	}
	if row >= rows {
		row = rows - 1
	}
	return row, col, true
}
