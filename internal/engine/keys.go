package engine

import "strings"

const (
	// MaxRowColKeys is the number of distinct level-0 row or column keys.
	MaxRowColKeys = 26
	// MaxCellKeys is the number of distinct level-1 cell keys: letters, then digits.
	MaxCellKeys = 36
)

// Fold lowers ASCII capitals so shifted and unshifted presses select alike.
func Fold(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

// RowColIndex maps a level-0 key to its row or column index.
func RowColIndex(r rune) (int, bool) {
	r = Fold(r)
	if r >= 'a' && r <= 'z' {
		return int(r - 'a'), true
	}
	return 0, false
}

// CellIndex maps a level-1 key to its linear cell index.
func CellIndex(r rune) (int, bool) {
	r = Fold(r)
	switch {
	case r >= 'a' && r <= 'z':
		return int(r - 'a'), true
	case r >= '0' && r <= '9':
		return 26 + int(r-'0'), true
	}
	return 0, false
}

// CellKey is the inverse of CellIndex.
func CellKey(index int) (rune, bool) {
	switch {
	case index >= 0 && index < 26:
		return rune('a' + index), true
	case index >= 26 && index < MaxCellKeys:
		return rune('0' + index - 26), true
	}
	return 0, false
}

// RowColLabel is the two-letter label of a level-0 cell.
func RowColLabel(row, col int) string {
	if row < 0 || row >= MaxRowColKeys || col < 0 || col >= MaxRowColKeys {
		return ""
	}
	return string([]rune{rune('A' + row), rune('A' + col)})
}

// CellLabel is the one-character label of a level-1 cell.
func CellLabel(index int) string {
	r, ok := CellKey(index)
	if !ok {
		return ""
	}
	return strings.ToUpper(string(r))
}

func levelZeroLabels(rows, cols int) []string {
	labels := make([]string, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			labels = append(labels, RowColLabel(r, c))
		}
	}
	return labels
}

func levelOneLabels(rows, cols int) []string {
	labels := make([]string, rows*cols)
	for i := range labels {
		labels[i] = CellLabel(i)
	}
	return labels
}
