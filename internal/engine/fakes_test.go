package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/atomicstack/keynav/internal/geom"
)

// recorder implements every collaborator and logs calls in order.
type recorder struct {
	mu       sync.Mutex
	calls    []string
	frames   []Frame
	width    int
	height   int
	bounds   geom.Rect
	boundsOK bool
	onShow   func()
}

func newRecorder(w, h int) *recorder {
	return &recorder{width: w, height: h}
}

func (r *recorder) record(format string, args ...interface{}) {
	r.mu.Lock()
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
	r.mu.Unlock()
}

func (r *recorder) GrabExclusive()    { r.record("grab") }
func (r *recorder) Release()          { r.record("release") }
func (r *recorder) ReleaseModifiers() { r.record("release-mods") }

func (r *recorder) Show() {
	r.record("show")
	r.mu.Lock()
	hook := r.onShow
	r.mu.Unlock()
	if hook != nil {
		hook()
	}
}

func (r *recorder) Hide() { r.record("hide") }

func (r *recorder) Render(f Frame) {
	r.mu.Lock()
	r.frames = append(r.frames, f)
	r.mu.Unlock()
	r.record("render")
}

func (r *recorder) SampleBounds() (geom.Rect, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bounds, r.boundsOK
}

func (r *recorder) WarpTo(x, y int) { r.record("warp %d,%d", x, y) }

func (r *recorder) Click(b Button, count int) { r.record("click %s x%d", b, count) }

func (r *recorder) ScreenSize() (int, int) { return r.width, r.height }

func (r *recorder) sleep(d time.Duration) { r.record("sleep %s", d) }

func (r *recorder) take() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.calls
	r.calls = nil
	return out
}

func (r *recorder) lastFrame() Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.frames) == 0 {
		return Frame{}
	}
	return r.frames[len(r.frames)-1]
}

func (r *recorder) count(call string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c == call {
			n++
		}
	}
	return n
}

func testSettings() Settings {
	s := DefaultSettings()
	s.Level0Rows = 10
	s.Level0Cols = 10
	s.Bounds.Retries = 0
	return s
}

func newTestEngine(s Settings) (*Engine, *recorder) {
	rec := newRecorder(1920, 1080)
	e := New(s, Collaborators{Input: rec, Overlay: rec, Pointer: rec, Screen: rec}, WithSleep(rec.sleep))
	return e, rec
}
