package ui

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/atomicstack/keynav/internal/backend"
	"github.com/atomicstack/keynav/internal/engine"
	"github.com/atomicstack/keynav/internal/logging/events"
)

// BackendName is the registry name of the terminal preview.
const BackendName = "preview"

// Platform runs the navigation engine against a simulated screen drawn in
// the terminal.
type Platform struct {
	opts    backend.Options
	surface *Surface
}

// Open is the backend.Factory for the preview.
func Open(opts backend.Options) (backend.Platform, error) {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) || !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, fmt.Errorf("%w: preview needs a terminal", backend.ErrUnavailable)
	}
	cols, rows := opts.PreviewWidth, opts.PreviewHeight
	if cols <= 0 || rows <= 0 {
		if w, h, err := term.GetSize(fd); err == nil {
			if cols <= 0 {
				cols = w
			}
			if rows <= 0 {
				rows = h - chromeRows
			}
		}
	}
	return newPlatform(opts, cols, rows), nil
}

func newPlatform(opts backend.Options, cols, rows int) *Platform {
	p := &Platform{
		opts:    opts,
		surface: NewSurface(cols, rows, opts.ClickPressRelease, opts.DoubleClickGap),
	}
	w, h := p.surface.ScreenSize()
	events.Backend.Open(BackendName, w, h)
	return p
}

func (p *Platform) Name() string { return BackendName }

func (p *Platform) Collaborators() engine.Collaborators {
	return p.surface.Collaborators()
}

// Surface exposes the virtual screen.
func (p *Platform) Surface() *Surface {
	return p.surface
}

// Run shows the preview until ctrl+c or ctx is cancelled.
func (p *Platform) Run(ctx context.Context, d *backend.Dispatcher) error {
	model := NewModel(p.surface, d, p.opts.OverlayAlpha, p.opts.PreviewWidth, p.opts.PreviewHeight)
	defer model.Close()
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	p.surface.SetNotify(func() { program.Send(surfaceChangedMsg{}) })
	defer p.surface.SetNotify(nil)

	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return ctx.Err()
	}
	return err
}

func (p *Platform) Close() error {
	events.Backend.Close(BackendName)
	return nil
}
