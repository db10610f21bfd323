package x11

import (
	"fmt"
	"time"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgb/xtest"

	"github.com/atomicstack/keynav/internal/engine"
	"github.com/atomicstack/keynav/internal/logging"
)

// pointer moves the core pointer and synthesizes button events through XTEST.
type pointer struct {
	conn         *xgb.Conn
	root         xproto.Window
	pressRelease time.Duration
	pace         *pacer
	sleep        func(time.Duration)
}

func newPointer(conn *xgb.Conn, root xproto.Window, pressRelease, doubleGap time.Duration) *pointer {
	return &pointer{
		conn:         conn,
		root:         root,
		pressRelease: pressRelease,
		pace:         newPacer(pressRelease + doubleGap),
		sleep:        time.Sleep,
	}
}

func (p *pointer) WarpTo(x, y int) {
	xproto.WarpPointer(p.conn, 0, p.root, 0, 0, 0, 0, int16(x), int16(y))
	p.flush()
}

func (p *pointer) Click(b engine.Button, count int) {
	for i := 0; i < count; i++ {
		p.pace.wait()
		xtest.FakeInput(p.conn, xproto.ButtonPress, byte(b), xproto.TimeCurrentTime, p.root, 0, 0, 0)
		p.flush()
		if p.pressRelease > 0 {
			p.sleep(p.pressRelease)
		}
		xtest.FakeInput(p.conn, xproto.ButtonRelease, byte(b), xproto.TimeCurrentTime, p.root, 0, 0, 0)
		p.flush()
	}
}

// flush waits for the server to process everything sent so far.
func (p *pointer) flush() {
	roundTrip(p.conn, "pointer")
}

// roundTrip blocks until the server has handled every request sent on conn.
func roundTrip(conn *xgb.Conn, who string) {
	_, err := xproto.GetInputFocus(conn).Reply()
	logRoundTrip(who, err)
}

func logRoundTrip(who string, err error) {
	if err != nil {
		logging.Error(fmt.Errorf("%s: sync with X server: %w", who, err))
	}
}
