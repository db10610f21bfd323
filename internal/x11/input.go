package x11

import (
	"sync"
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgb/xtest"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/atomicstack/keynav/internal/backend"
	"github.com/atomicstack/keynav/internal/logging"
	"github.com/atomicstack/keynav/internal/logging/events"
)

const (
	grabAttempts = 5
	grabBackoff  = 10 * time.Millisecond
)

// keyboard grabs the keyboard while a navigation is active and routes key
// events from the grab window to a handler.
type keyboard struct {
	xu      *xgbutil.XUtil
	root    xproto.Window
	grabWin xproto.Window

	mu      sync.Mutex
	grabbed bool
	handle  func(backend.KeyEvent)
}

func newKeyboard(xu *xgbutil.XUtil) (*keyboard, error) {
	k := &keyboard{xu: xu, root: xu.RootWin()}
	conn := xu.Conn()
	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return nil, err
	}
	err = xproto.CreateWindowChecked(conn, 0, wid, k.root,
		0, 0, 1, 1, 0,
		xproto.WindowClassInputOnly, xproto.Visualid(0),
		xproto.CwEventMask,
		[]uint32{uint32(xproto.EventMaskKeyPress | xproto.EventMaskKeyRelease)}).Check()
	if err != nil {
		return nil, err
	}
	xproto.MapWindow(conn, wid)
	k.grabWin = wid

	xevent.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		k.deliver(ev.Detail, ev.State, true)
	}).Connect(xu, wid)
	xevent.KeyReleaseFun(func(xu *xgbutil.XUtil, ev xevent.KeyReleaseEvent) {
		k.deliver(ev.Detail, ev.State, false)
	}).Connect(xu, wid)
	return k, nil
}

func (k *keyboard) setHandler(fn func(backend.KeyEvent)) {
	k.mu.Lock()
	k.handle = fn
	k.mu.Unlock()
}

func (k *keyboard) deliver(code xproto.Keycode, state uint16, pressed bool) {
	k.mu.Lock()
	handle := k.handle
	k.mu.Unlock()
	if handle == nil {
		return
	}
	ev, ok := keyEvent(keybind.KeysymGet(k.xu, code, 0), state, pressed)
	if !ok {
		return
	}
	handle(ev)
}

// GrabExclusive takes the keyboard on the root window and redirects every key
// event to the grab window.
func (k *keyboard) GrabExclusive() {
	conn := k.xu.Conn()
	ok := false
	for attempt := 0; attempt < grabAttempts; attempt++ {
		reply, err := xproto.GrabKeyboard(conn, false, k.root, xproto.TimeCurrentTime,
			xproto.GrabModeAsync, xproto.GrabModeAsync).Reply()
		if err != nil {
			logging.Error(err)
			break
		}
		if reply.Status == xproto.GrabStatusSuccess {
			ok = true
			break
		}
		if reply.Status == xproto.GrabStatusAlreadyGrabbed {
			xproto.UngrabKeyboard(conn, xproto.TimeCurrentTime)
		}
		time.Sleep(grabBackoff)
	}
	events.Backend.Grab(BackendName, ok)
	if !ok {
		return
	}
	xevent.RedirectKeyEvents(k.xu, k.grabWin)
	k.mu.Lock()
	k.grabbed = true
	k.mu.Unlock()
}

func (k *keyboard) Release() {
	k.mu.Lock()
	grabbed := k.grabbed
	k.grabbed = false
	k.mu.Unlock()
	if !grabbed {
		return
	}
	xproto.UngrabKeyboard(k.xu.Conn(), xproto.TimeCurrentTime)
	xevent.RedirectKeyEvents(k.xu, 0)
}

// ReleaseModifiers sends a synthetic release for every modifier key the
// server reports as down.
func (k *keyboard) ReleaseModifiers() {
	conn := k.xu.Conn()
	keymap, err := xproto.QueryKeymap(conn).Reply()
	if err != nil {
		logging.Error(err)
		return
	}
	for _, code := range pressedModifiers(k.xu, keymap.Keys) {
		xtest.FakeInput(conn, xproto.KeyRelease, byte(code), xproto.TimeCurrentTime, k.root, 0, 0, 0)
	}
}

func pressedModifiers(xu *xgbutil.XUtil, down []byte) []xproto.Keycode {
	var out []xproto.Keycode
	for _, name := range modifierKeysyms {
		for _, code := range keybind.StrToKeycodes(xu, name) {
			if keyDown(down, code) {
				out = append(out, code)
			}
		}
	}
	return out
}

// keyDown reads a QueryKeymap bit vector.
func keyDown(down []byte, code xproto.Keycode) bool {
	i := int(code) / 8
	return i < len(down) && down[i]&(1<<(code%8)) != 0
}

func (k *keyboard) close() {
	k.Release()
	xevent.Detach(k.xu, k.grabWin)
	xproto.DestroyWindow(k.xu.Conn(), k.grabWin)
}
