package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Tile is one entry of the cell fill palette.
type Tile struct {
	Name    string
	R, G, B uint8
}

var palette = [...]Tile{
	{"coral", 232, 77, 69},
	{"amber", 242, 143, 51},
	{"gold", 242, 199, 69},
	{"green", 92, 194, 112},
	{"cyan", 56, 184, 186},
	{"blue", 64, 122, 219},
	{"indigo", 122, 107, 222},
	{"violet", 201, 94, 207},
	{"rose", 224, 92, 135},
}

// PaletteSize is the number of distinct tile colors.
const PaletteSize = len(palette)

// TileFor returns the fill for the cell at a row-major index.
func TileFor(index int) Tile {
	if index < 0 {
		index = -index
	}
	return palette[index%PaletteSize]
}

// Hex is the color in #rrggbb form.
func (t Tile) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", t.R, t.G, t.B)
}

// Color is the tile as a Lip Gloss color.
func (t Tile) Color() lipgloss.Color {
	return lipgloss.Color(t.Hex())
}

// Blend mixes the tile over a background color at alpha, for surfaces
// without real transparency.
func (t Tile) Blend(bgR, bgG, bgB uint8, alpha float64) Tile {
	alpha = clampAlpha(alpha)
	mix := func(fg, bg uint8) uint8 {
		return uint8(float64(fg)*alpha + float64(bg)*(1-alpha) + 0.5)
	}
	return Tile{Name: t.Name, R: mix(t.R, bgR), G: mix(t.G, bgG), B: mix(t.B, bgB)}
}

// ARGB packs the tile into a premultiplied 32-bit ARGB pixel.
func (t Tile) ARGB(alpha float64) uint32 {
	alpha = clampAlpha(alpha)
	a := uint32(alpha*255 + 0.5)
	pm := func(c uint8) uint32 {
		return uint32(float64(c)*alpha + 0.5)
	}
	return a<<24 | pm(t.R)<<16 | pm(t.G)<<8 | pm(t.B)
}

// TileStyle returns the preview fill style for a cell.
func TileStyle(index int, alpha float64) lipgloss.Style {
	// preview cells sit on a near-black desktop
	bg := TileFor(index).Blend(18, 18, 24, alpha*2)
	return lipgloss.NewStyle().Background(bg.Color())
}

func clampAlpha(alpha float64) float64 {
	switch {
	case alpha < 0:
		return 0
	case alpha > 1:
		return 1
	}
	return alpha
}
