package backend

import (
	"sync"
	"time"
)

type stopper interface {
	Stop() bool
}

// Debouncer filters keyboard auto-repeat. A release is held for a short
// window and dropped together with the press if the same key goes down again
// inside it. A press of a key that is already down is a repeat as well.
type Debouncer struct {
	window time.Duration
	emit   func(name string)
	after  func(time.Duration, func()) stopper

	mu      sync.Mutex
	held    map[string]bool
	pending map[string]stopper
}

// NewDebouncer returns a debouncer that calls emit for every real release.
// A zero window emits releases immediately.
func NewDebouncer(window time.Duration, emit func(name string)) *Debouncer {
	return &Debouncer{
		window:  window,
		emit:    emit,
		after:   func(d time.Duration, f func()) stopper { return time.AfterFunc(d, f) },
		held:    map[string]bool{},
		pending: map[string]stopper{},
	}
}

// Press records a key going down and reports whether it is an auto-repeat.
func (d *Debouncer) Press(name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.pending[name]; ok {
		if t.Stop() {
			delete(d.pending, name)
			return true
		}
		// the release already fired and is waiting for the lock
		return false
	}
	if d.held[name] {
		return true
	}
	d.held[name] = true
	return false
}

// Release records a key going up.
func (d *Debouncer) Release(name string) {
	d.mu.Lock()
	if d.window <= 0 {
		delete(d.held, name)
		d.mu.Unlock()
		d.emit(name)
		return
	}
	if t, ok := d.pending[name]; ok {
		t.Stop()
	}
	var t stopper
	t = d.after(d.window, func() {
		d.mu.Lock()
		if d.pending[name] != t {
			d.mu.Unlock()
			return
		}
		delete(d.pending, name)
		delete(d.held, name)
		d.mu.Unlock()
		d.emit(name)
	})
	d.pending[name] = t
	d.mu.Unlock()
}

// Flush emits every pending release now.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	var names []string
	for name, t := range d.pending {
		if !t.Stop() {
			continue
		}
		names = append(names, name)
		delete(d.pending, name)
		delete(d.held, name)
	}
	d.mu.Unlock()
	for _, name := range names {
		d.emit(name)
	}
}
