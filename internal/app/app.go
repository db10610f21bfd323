package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/atomicstack/keynav/internal/backend"
	"github.com/atomicstack/keynav/internal/engine"
	"github.com/atomicstack/keynav/internal/logging/events"
	"github.com/atomicstack/keynav/internal/ui"
	"github.com/atomicstack/keynav/internal/x11"
)

// Config describes user-provided application options.
type Config struct {
	Backend           string
	Engine            engine.Settings
	Keymap            backend.Keymap
	ClickPressRelease time.Duration
	DoubleClickGap    time.Duration
	OverlayAlpha      float64
	PreviewWidth      int
	PreviewHeight     int
}

func init() {
	backend.Register(ui.BackendName, ui.Open)
	backend.Register(x11.BackendName, x11.Open)
}

// releaseDebouncer is implemented by backends whose key releases need
// auto-repeat filtering.
type releaseDebouncer interface {
	ReleaseDebounce() time.Duration
}

// Run opens the configured backend and navigates until interrupted.
func Run(cfg Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, cfg)
}

func run(ctx context.Context, cfg Config) error {
	platform, err := backend.Open(cfg.Backend, backend.Options{
		Keymap:            cfg.Keymap,
		ClickPressRelease: cfg.ClickPressRelease,
		DoubleClickGap:    cfg.DoubleClickGap,
		OverlayAlpha:      cfg.OverlayAlpha,
		PreviewWidth:      cfg.PreviewWidth,
		PreviewHeight:     cfg.PreviewHeight,
	})
	if err != nil {
		return err
	}
	defer platform.Close()

	eng := engine.New(cfg.Engine, platform.Collaborators())
	var opts []backend.DispatchOption
	if rd, ok := platform.(releaseDebouncer); ok {
		opts = append(opts, backend.WithReleaseDebounce(rd.ReleaseDebounce()))
	}
	dispatcher := backend.NewDispatcher(platform.Name(), eng, cfg.Keymap, opts...)

	err = platform.Run(ctx, dispatcher)
	dispatcher.Flush()
	eng.Shutdown()

	reason := "quit"
	switch {
	case ctx.Err() != nil:
		reason = "signal"
	case err != nil:
		reason = "error"
	}
	events.App.Stop(reason)

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
