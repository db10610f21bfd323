package x11

import (
	"errors"
	"math"
	"sync"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/atomicstack/keynav/internal/engine"
	"github.com/atomicstack/keynav/internal/geom"
	"github.com/atomicstack/keynav/internal/theme"
)

// Metrics of the core "fixed" font (6x13).
const (
	fontName    = "fixed"
	fontWidth   = 6
	fontAscent  = 10
	fontDescent = 3
)

const fullCircle = 360 * 64

var (
	dividerPixel = theme.Tile{R: 255, G: 255, B: 255}.ARGB(0.6)
	borderPixel  = theme.Tile{R: 255, G: 255, B: 255}.ARGB(0.9)
	textPixel    = theme.Tile{R: 16, G: 16, B: 16}.ARGB(1)
	markerPixel  = theme.Tile{R: 220, G: 40, B: 40}.ARGB(1)
	rimPixel     = theme.Tile{R: 255, G: 255, B: 255}.ARGB(1)
)

var errNoARGBVisual = errors.New("no 32-bit TrueColor visual")

type fill struct {
	rect  xproto.Rectangle
	pixel uint32
}

type label struct {
	x, y int16
	text string
	bg   uint32
}

// scene is a frame resolved to drawing requests in window coordinates.
type scene struct {
	cells    []fill
	dividers []xproto.Segment
	border   xproto.Rectangle
	labels   []label
	marker   []fill // rim then dot, drawn as filled arcs
}

func span(from, to float64) (int16, uint16) {
	a, b := math.Round(from), math.Round(to)
	if b < a {
		b = a
	}
	return int16(a), uint16(b - a)
}

func rectangle(r geom.Rect, origin geom.Point) xproto.Rectangle {
	x, w := span(r.X-float64(origin.X), r.Right()-float64(origin.X))
	y, h := span(r.Y-float64(origin.Y), r.Bottom()-float64(origin.Y))
	return xproto.Rectangle{X: x, Y: y, Width: w, Height: h}
}

// layout resolves a frame against the overlay window's origin.
func layout(f engine.Frame, origin geom.Point, alpha float64) scene {
	var s scene
	if f.Rows <= 0 || f.Cols <= 0 || !f.Rect.Valid() {
		return s
	}
	// The final step shows only the point, no grid.
	if f.ShowMarker {
		c := f.Rect.Center()
		radius := int(math.Min(f.Rect.W, f.Rect.H) / 4)
		radius = max(3, min(radius, 12))
		dot := func(r int, px uint32) fill {
			return fill{
				rect: xproto.Rectangle{
					X: int16(c.X - origin.X - r), Y: int16(c.Y - origin.Y - r),
					Width: uint16(2 * r), Height: uint16(2 * r),
				},
				pixel: px,
			}
		}
		s.marker = []fill{dot(radius+2, rimPixel), dot(radius, markerPixel)}
		return s
	}
	s.border = rectangle(f.Rect, origin)
	for i := 0; i < f.Rows*f.Cols; i++ {
		cell := geom.MapIndex(f.Rect, f.Rows, f.Cols, i)
		px := theme.TileFor(i).ARGB(alpha)
		rect := rectangle(cell, origin)
		s.cells = append(s.cells, fill{rect: rect, pixel: px})
		if i >= len(f.Labels) {
			continue
		}
		text := f.Labels[i]
		width := fontWidth * len(text)
		if width == 0 || width > int(rect.Width) || int(rect.Height) < fontAscent+fontDescent {
			continue
		}
		s.labels = append(s.labels, label{
			x:    rect.X + int16((int(rect.Width)-width)/2),
			y:    rect.Y + int16((int(rect.Height)+fontAscent-fontDescent)/2),
			text: text,
			bg:   px,
		})
	}
	for c := 1; c < f.Cols; c++ {
		x := rectangle(geom.MapCell(f.Rect, f.Rows, f.Cols, 0, c), origin).X
		s.dividers = append(s.dividers, xproto.Segment{
			X1: x, Y1: s.border.Y,
			X2: x, Y2: s.border.Y + int16(s.border.Height),
		})
	}
	for r := 1; r < f.Rows; r++ {
		y := rectangle(geom.MapCell(f.Rect, f.Rows, f.Cols, r, 0), origin).Y
		s.dividers = append(s.dividers, xproto.Segment{
			X1: s.border.X, Y1: y,
			X2: s.border.X + int16(s.border.Width), Y2: y,
		})
	}
	return s
}

// overlay is a transparent override-redirect window covering the screen.
type overlay struct {
	conn  *xgb.Conn
	root  xproto.Window
	win   xproto.Window
	gc    xproto.Gcontext
	font  xproto.Font
	cmap  xproto.Colormap
	alpha float64

	mu     sync.Mutex
	mapped bool
	frame  engine.Frame
}

func argbVisual(screen *xproto.ScreenInfo) (xproto.Visualid, bool) {
	for _, depth := range screen.AllowedDepths {
		if depth.Depth != 32 {
			continue
		}
		for _, v := range depth.Visuals {
			if v.Class == xproto.VisualClassTrueColor {
				return v.VisualId, true
			}
		}
	}
	return 0, false
}

func newOverlay(xu *xgbutil.XUtil, alpha float64) (*overlay, error) {
	conn := xu.Conn()
	screen := xu.Screen()
	visual, ok := argbVisual(screen)
	if !ok {
		return nil, errNoARGBVisual
	}
	o := &overlay{conn: conn, root: xu.RootWin(), alpha: alpha}

	var err error
	if o.cmap, err = xproto.NewColormapId(conn); err != nil {
		return nil, err
	}
	if err = xproto.CreateColormapChecked(conn, xproto.ColormapAllocNone, o.cmap, o.root, visual).Check(); err != nil {
		return nil, err
	}
	if o.win, err = xproto.NewWindowId(conn); err != nil {
		return nil, err
	}
	err = xproto.CreateWindowChecked(conn, 32, o.win, o.root,
		0, 0, screen.WidthInPixels, screen.HeightInPixels, 0,
		xproto.WindowClassInputOutput, visual,
		xproto.CwBackPixel|xproto.CwBorderPixel|xproto.CwOverrideRedirect|xproto.CwEventMask|xproto.CwColormap,
		[]uint32{0, 0, 1, xproto.EventMaskExposure, uint32(o.cmap)}).Check()
	if err != nil {
		return nil, err
	}
	if o.font, err = xproto.NewFontId(conn); err != nil {
		return nil, err
	}
	if err = xproto.OpenFontChecked(conn, o.font, uint16(len(fontName)), fontName).Check(); err != nil {
		return nil, err
	}
	if o.gc, err = xproto.NewGcontextId(conn); err != nil {
		return nil, err
	}
	err = xproto.CreateGCChecked(conn, o.gc, xproto.Drawable(o.win),
		xproto.GcForeground|xproto.GcBackground|xproto.GcFont,
		[]uint32{0, 0, uint32(o.font)}).Check()
	if err != nil {
		return nil, err
	}

	xevent.ExposeFun(func(*xgbutil.XUtil, xevent.ExposeEvent) {
		o.mu.Lock()
		defer o.mu.Unlock()
		o.drawLocked()
	}).Connect(xu, o.win)
	return o, nil
}

func (o *overlay) Show() {
	o.mu.Lock()
	defer o.mu.Unlock()
	xproto.MapWindow(o.conn, o.win)
	xproto.ConfigureWindow(o.conn, o.win, xproto.ConfigWindowStackMode, []uint32{xproto.StackModeAbove})
	o.mapped = true
	o.drawLocked()
}

func (o *overlay) Hide() {
	o.mu.Lock()
	defer o.mu.Unlock()
	xproto.UnmapWindowChecked(o.conn, o.win).Check()
	o.mapped = false
}

func (o *overlay) Render(f engine.Frame) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.frame = f
	o.drawLocked()
}

// SampleBounds asks the server where the overlay currently is.
func (o *overlay) SampleBounds() (geom.Rect, bool) {
	o.mu.Lock()
	mapped := o.mapped
	o.mu.Unlock()
	if !mapped {
		return geom.Rect{}, false
	}
	g, err := xproto.GetGeometry(o.conn, xproto.Drawable(o.win)).Reply()
	if err != nil {
		return geom.Rect{}, false
	}
	at, err := xproto.TranslateCoordinates(o.conn, o.win, o.root, 0, 0).Reply()
	if err != nil {
		return geom.Rect{}, false
	}
	return geom.Rect{X: float64(at.DstX), Y: float64(at.DstY), W: float64(g.Width), H: float64(g.Height)}, true
}

func (o *overlay) foreground(px uint32) {
	xproto.ChangeGC(o.conn, o.gc, xproto.GcForeground, []uint32{px})
}

func (o *overlay) drawLocked() {
	if !o.mapped {
		return
	}
	d := xproto.Drawable(o.win)
	xproto.ClearArea(o.conn, false, o.win, 0, 0, 0, 0)

	s := layout(o.frame, geom.Point{}, o.alpha)
	for _, c := range s.cells {
		o.foreground(c.pixel)
		xproto.PolyFillRectangle(o.conn, d, o.gc, []xproto.Rectangle{c.rect})
	}
	if len(s.dividers) > 0 {
		o.foreground(dividerPixel)
		xproto.PolySegment(o.conn, d, o.gc, s.dividers)
	}
	if s.border.Width > 0 && s.border.Height > 0 {
		o.foreground(borderPixel)
		xproto.PolyRectangle(o.conn, d, o.gc, []xproto.Rectangle{s.border})
	}
	for _, l := range s.labels {
		xproto.ChangeGC(o.conn, o.gc, xproto.GcForeground|xproto.GcBackground, []uint32{textPixel, l.bg})
		xproto.ImageText8(o.conn, byte(len(l.text)), d, o.gc, l.x, l.y, l.text)
	}
	for _, m := range s.marker {
		o.foreground(m.pixel)
		xproto.PolyFillArc(o.conn, d, o.gc, []xproto.Arc{{
			X: m.rect.X, Y: m.rect.Y, Width: m.rect.Width, Height: m.rect.Height,
			Angle1: 0, Angle2: fullCircle,
		}})
	}
	// Round trip so the frame is on screen before the caller samples it.
	roundTrip(o.conn, "overlay")
}

func (o *overlay) close() {
	xproto.FreeGC(o.conn, o.gc)
	xproto.CloseFont(o.conn, o.font)
	xproto.DestroyWindow(o.conn, o.win)
	xproto.FreeColormap(o.conn, o.cmap)
}
