package command

import (
	"fmt"
	"sync"

	"github.com/atomicstack/keynav/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
)

// Request encapsulates one unit of engine work.
type Request struct {
	ID    string
	Label string
	Run   func() tea.Msg
}

type job struct {
	req  Request
	done chan tea.Msg
}

// Bus runs requests one at a time in submission order. Engine calls may
// block for the settle and click delays, so they never run inside Update.
// The queue is unbounded; Execute never waits on the worker.
type Bus struct {
	mu      sync.Mutex
	ready   *sync.Cond
	pending []job
	closed  bool
	wg      sync.WaitGroup
}

// New starts a command bus worker.
func New() *Bus {
	b := &Bus{}
	b.ready = sync.NewCond(&b.mu)
	b.wg.Add(1)
	go b.work()
	return b
}

// work drains pending jobs, including those queued before Close.
func (b *Bus) work() {
	defer b.wg.Done()
	for {
		b.mu.Lock()
		for len(b.pending) == 0 && !b.closed {
			b.ready.Wait()
		}
		if len(b.pending) == 0 {
			b.mu.Unlock()
			return
		}
		j := b.pending[0]
		b.pending[0] = job{}
		b.pending = b.pending[1:]
		b.mu.Unlock()

		j.done <- j.req.Run()
	}
}

// Execute queues req immediately and returns a command that waits for its
// result, so ordering follows the Execute calls rather than the scheduler.
func (b *Bus) Execute(req Request) tea.Cmd {
	b.mu.Lock()
	if b.closed || req.Run == nil {
		b.mu.Unlock()
		events.Command.Skip(req.ID, req.Label)
		return nil
	}
	j := job{req: req, done: make(chan tea.Msg, 1)}
	b.pending = append(b.pending, j)
	b.ready.Signal()
	b.mu.Unlock()
	events.Command.Queue(req.ID, req.Label)

	return func() tea.Msg {
		msg := <-j.done
		events.Command.Result(req.ID, req.Label, fmt.Sprintf("%T", msg))
		return msg
	}
}

// Close stops accepting requests and waits for queued ones to finish.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.ready.Broadcast()
	b.mu.Unlock()
	b.wg.Wait()
}
