package events

import (
	"github.com/atomicstack/keynav/internal/geom"
	"github.com/atomicstack/keynav/internal/logging"
)

type BoundsTracer struct{}

var Bounds = BoundsTracer{}

func (BoundsTracer) Sample(attempt int, candidate geom.Rect, ok, adopted bool) {
	logging.Trace("bounds.sample", map[string]interface{}{
		"attempt":   attempt,
		"candidate": candidate,
		"available": ok,
		"adopted":   adopted,
	})
}

func (BoundsTracer) Decide(nominal, best, result geom.Rect, areaRatio float64, accepted bool) {
	logging.Trace("bounds.decide", map[string]interface{}{
		"nominal":  nominal,
		"best":     best,
		"result":   result,
		"ratio":    areaRatio,
		"accepted": accepted,
	})
}
