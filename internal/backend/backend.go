// Package backend defines what a platform integration provides to the
// navigation engine and how key events reach it.
package backend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/atomicstack/keynav/internal/engine"
)

var (
	// ErrUnknownBackend is returned when no backend is registered under a name.
	ErrUnknownBackend = errors.New("unknown backend")
	// ErrUnavailable is returned when a backend cannot run in this environment.
	ErrUnavailable = errors.New("backend unavailable")
)

// Options configures a backend instance.
type Options struct {
	Keymap            Keymap
	ClickPressRelease time.Duration
	DoubleClickGap    time.Duration
	OverlayAlpha      float64
	PreviewWidth      int
	PreviewHeight     int
}

// Platform is a window-system integration. Collaborators is valid once Open
// returns. Run blocks until ctx is done or the user asks to quit, feeding key
// events through the Dispatcher.
type Platform interface {
	Name() string
	Collaborators() engine.Collaborators
	Run(ctx context.Context, d *Dispatcher) error
	Close() error
}

// Factory opens a Platform.
type Factory func(Options) (Platform, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register makes a backend available under name. Registering the same name
// twice panics.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("backend %q registered twice", name))
	}
	registry[name] = f
}

// Names lists registered backends in sorted order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open instantiates the backend registered under name.
func Open(name string, opts Options) (Platform, error) {
	registryMu.RLock()
	f, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownBackend, name, Names())
	}
	p, err := f(opts)
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", name, err)
	}
	return p, nil
}
