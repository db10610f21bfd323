// Package x11 drives the navigation engine on an X11 display: a global hotkey,
// a keyboard grab, a translucent overlay window and XTEST pointer input.
package x11

import (
	"context"
	"fmt"
	"time"

	"github.com/BurntSushi/xgb/xtest"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/atomicstack/keynav/internal/backend"
	"github.com/atomicstack/keynav/internal/engine"
	"github.com/atomicstack/keynav/internal/logging/events"
)

// BackendName is the registry name of the X11 backend.
const BackendName = "x11"

// Auto-repeat arrives as release/press pairs a few milliseconds apart.
const releaseDebounce = 30 * time.Millisecond

// Platform is a connection to an X server.
type Platform struct {
	xu       *xgbutil.XUtil
	overlay  *overlay
	keyboard *keyboard
	pointer  *pointer
}

// Open is the backend.Factory for X11.
func Open(opts backend.Options) (backend.Platform, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("%w: connect to X server: %v", backend.ErrUnavailable, err)
	}
	p, err := newPlatform(xu, opts)
	if err != nil {
		xu.Conn().Close()
		return nil, fmt.Errorf("%w: %v", backend.ErrUnavailable, err)
	}
	w, h := p.ScreenSize()
	events.Backend.Open(BackendName, w, h)
	return p, nil
}

func newPlatform(xu *xgbutil.XUtil, opts backend.Options) (*Platform, error) {
	if err := xtest.Init(xu.Conn()); err != nil {
		return nil, fmt.Errorf("XTEST extension: %w", err)
	}
	keybind.Initialize(xu)

	ov, err := newOverlay(xu, opts.OverlayAlpha)
	if err != nil {
		return nil, fmt.Errorf("overlay: %w", err)
	}
	kb, err := newKeyboard(xu)
	if err != nil {
		ov.close()
		return nil, fmt.Errorf("keyboard: %w", err)
	}
	return &Platform{
		xu:       xu,
		overlay:  ov,
		keyboard: kb,
		pointer:  newPointer(xu.Conn(), xu.RootWin(), opts.ClickPressRelease, opts.DoubleClickGap),
	}, nil
}

func (p *Platform) Name() string { return BackendName }

func (p *Platform) Collaborators() engine.Collaborators {
	return engine.Collaborators{
		Input:   p.keyboard,
		Overlay: p.overlay,
		Pointer: p.pointer,
		Screen:  p,
	}
}

// ScreenSize reports the default screen in pixels.
func (p *Platform) ScreenSize() (int, int) {
	s := p.xu.Screen()
	return int(s.WidthInPixels), int(s.HeightInPixels)
}

// ReleaseDebounce is how long key releases are held to detect auto-repeat.
func (p *Platform) ReleaseDebounce() time.Duration {
	return releaseDebounce
}

// Run binds the activation hotkey and processes X events until ctx is done or
// ctrl+c is pressed during a navigation.
func (p *Platform) Run(ctx context.Context, d *backend.Dispatcher) error {
	hotkey, err := keyString(d.Keymap().Activate)
	if err != nil {
		return err
	}
	root := p.xu.RootWin()
	err = keybind.KeyPressFun(func(*xgbutil.XUtil, xevent.KeyPressEvent) {
		d.Hotkey()
	}).Connect(p.xu, root, hotkey, true)
	if err != nil {
		return fmt.Errorf("bind %s: %w", d.Keymap().Activate, err)
	}
	defer keybind.Detach(p.xu, root)

	p.keyboard.setHandler(func(ev backend.KeyEvent) {
		if d.Handle(ev).Quit {
			xevent.Quit(p.xu)
		}
	})
	defer p.keyboard.setHandler(nil)

	before, after, quit := xevent.MainPing(p.xu)
	for {
		select {
		case <-before:
			<-after
		case <-quit:
			return nil
		case <-ctx.Done():
			xevent.Quit(p.xu)
			// Let the loop finish its current iteration and exit.
			go func() {
				for {
					select {
					case <-before:
					case <-after:
					case <-quit:
						return
					}
				}
			}()
			return ctx.Err()
		}
	}
}

func (p *Platform) Close() error {
	p.keyboard.close()
	p.overlay.close()
	p.xu.Conn().Close()
	events.Backend.Close(BackendName)
	return nil
}
