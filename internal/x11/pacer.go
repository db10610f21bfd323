package x11

import (
	"sync"
	"time"
)

// pacer keeps a minimum interval between successive synthetic input events,
// so a double click arrives as two clicks the server can tell apart.
type pacer struct {
	interval time.Duration
	now      func() time.Time
	sleep    func(time.Duration)

	mu   sync.Mutex
	next time.Time
}

func newPacer(interval time.Duration) *pacer {
	p := &pacer{now: time.Now, sleep: time.Sleep}
	if interval > 0 {
		p.interval = interval
	}
	return p
}

// wait blocks until the interval since the previous wait has passed.
func (p *pacer) wait() {
	if p == nil || p.interval <= 0 {
		return
	}
	for {
		p.mu.Lock()
		now := p.now()
		wait := p.next.Sub(now)
		if wait <= 0 {
			p.next = now.Add(p.interval)
			p.mu.Unlock()
			return
		}
		p.mu.Unlock()
		if wait > p.interval {
			wait = p.interval
		}
		p.sleep(wait)
	}
}
