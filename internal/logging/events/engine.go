package events

import (
	"github.com/atomicstack/keynav/internal/geom"
	"github.com/atomicstack/keynav/internal/logging"
)

type EngineTracer struct{}

type ignoreReason string

const (
	IgnoreInactive   ignoreReason = "inactive"
	IgnoreOutOfRange ignoreReason = "out-of-range"
	IgnoreDepthLimit ignoreReason = "depth-limit"
	IgnoreDegenerate ignoreReason = "degenerate"
	IgnoreBusy       ignoreReason = "busy"
)

var Engine = EngineTracer{}

func (EngineTracer) Activate(screen, rect geom.Rect) {
	logging.Trace("engine.activate", map[string]interface{}{"screen": screen, "rect": rect})
}

func (EngineTracer) Deactivate(from string) {
	logging.Trace("engine.deactivate", map[string]interface{}{"from": from})
}

func (EngineTracer) Select(mode string, key rune, shift bool, rect geom.Rect, depth int) {
	logging.Trace("engine.select", map[string]interface{}{
		"mode":  mode,
		"key":   string(key),
		"shift": shift,
		"rect":  rect,
		"depth": depth,
	})
}

func (EngineTracer) Ignore(mode string, key rune, reason ignoreReason) {
	logging.Trace("engine.select.ignore", map[string]interface{}{
		"mode":   mode,
		"key":    string(key),
		"reason": string(reason),
	})
}

func (EngineTracer) ReleaseConfirm(key rune) {
	logging.Trace("engine.release.confirm", map[string]interface{}{"key": string(key)})
}

func (EngineTracer) Undo(mode string, rect geom.Rect, depth int) {
	logging.Trace("engine.undo", map[string]interface{}{"mode": mode, "rect": rect, "depth": depth})
}

func (EngineTracer) Control(kind string) {
	logging.Trace("engine.control", map[string]interface{}{"kind": kind})
}

func (EngineTracer) Click(button string, count int, at geom.Point, deactivate bool) {
	logging.Trace("engine.click", map[string]interface{}{
		"button":     button,
		"count":      count,
		"x":          at.X,
		"y":          at.Y,
		"deactivate": deactivate,
	})
}

func (EngineTracer) Shutdown(wasActive bool) {
	logging.Trace("engine.shutdown", map[string]interface{}{"active": wasActive})
}
