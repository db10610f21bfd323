// Package bounds decides which rectangle a navigation session operates in when
// the overlay surface reports its geometry late, partially, or not at all.
package bounds

import (
	"time"

	"github.com/atomicstack/keynav/internal/geom"
	"github.com/atomicstack/keynav/internal/logging/events"
)

const (
	DefaultRetries       = 12
	DefaultPollInterval  = 8 * time.Millisecond
	DefaultAreaRatio     = 0.90
	DefaultEdgeTolerance = 3.0
	DefaultSnapTolerance = 2.0

	// candidates at or below this size in either dimension are never adopted
	minCandidateSize = 1.0
)

// Policy holds the tunables of one reconciliation pass.
type Policy struct {
	Retries      int
	PollInterval time.Duration
	// AreaRatio is the fraction of the nominal area a sample must reach to be
	// trusted without touching the screen edges.
	AreaRatio float64
	// EdgeTolerance is how far, in pixels, a sample may sit from a screen edge
	// and still count as touching it.
	EdgeTolerance float64
	// SnapTolerance is how far an accepted edge may sit from a screen edge
	// before it is pulled onto it.
	SnapTolerance float64
}

// DefaultPolicy returns the empirically tuned thresholds.
func DefaultPolicy() Policy {
	return Policy{
		Retries:       DefaultRetries,
		PollInterval:  DefaultPollInterval,
		AreaRatio:     DefaultAreaRatio,
		EdgeTolerance: DefaultEdgeTolerance,
		SnapTolerance: DefaultSnapTolerance,
	}
}

// MaxWait is the longest a Reconcile call can block.
func (p Policy) MaxWait() time.Duration {
	if p.Retries <= 0 {
		return 0
	}
	return time.Duration(p.Retries) * p.PollInterval
}

// Sampler reports the overlay's current on-screen geometry. ok is false when
// the geometry is not available yet.
type Sampler interface {
	SampleBounds() (rect geom.Rect, ok bool)
}

// SamplerFunc adapts a function to Sampler.
type SamplerFunc func() (geom.Rect, bool)

func (f SamplerFunc) SampleBounds() (geom.Rect, bool) {
	return f()
}

// Reconciler runs the bounded settle loop.
type Reconciler struct {
	policy Policy
	sleep  func(time.Duration)
}

// New returns a Reconciler using p. A nil sleep uses time.Sleep.
func New(p Policy, sleep func(time.Duration)) *Reconciler {
	if sleep == nil {
		sleep = time.Sleep
	}
	return &Reconciler{policy: p, sleep: sleep}
}

// Policy returns the thresholds r was built with.
func (r *Reconciler) Policy() Policy {
	return r.policy
}

// Reconcile samples s up to Retries times and returns the rectangle to
// navigate within. It never fails: implausible or missing samples leave
// nominal in place.
func (r *Reconciler) Reconcile(nominal geom.Rect, s Sampler) geom.Rect {
	best := nominal
	bestArea := nominal.Area()

	if s != nil {
		for attempt := 0; attempt < r.policy.Retries; attempt++ {
			candidate, ok := s.SampleBounds()
			adopted := false
			if ok && candidate.W > minCandidateSize && candidate.H > minCandidateSize {
				if area := candidate.Area(); area > bestArea {
					best, bestArea = candidate, area
					adopted = true
				}
			}
			events.Bounds.Sample(attempt, candidate, ok, adopted)
			if r.policy.PollInterval > 0 {
				r.sleep(r.policy.PollInterval)
			}
		}
	}

	ratio := 0.0
	if nominalArea := nominal.Area(); nominalArea > 0 {
		ratio = bestArea / nominalArea
	}
	accepted := ratio >= r.policy.AreaRatio || r.touchesEdges(nominal, best)

	result := nominal
	if accepted {
		result = best
	}
	result = r.snap(nominal, result)
	if !result.Valid() {
		result = nominal
	}
	events.Bounds.Decide(nominal, best, result, ratio, accepted)
	return result
}

func (r *Reconciler) touchesEdges(screen, rect geom.Rect) bool {
	tol := r.policy.EdgeTolerance
	touchesX := geom.Near(rect.X, screen.X, tol) || geom.Near(rect.Right(), screen.Right(), tol)
	touchesY := geom.Near(rect.Y, screen.Y, tol) || geom.Near(rect.Bottom(), screen.Bottom(), tol)
	return touchesX && touchesY
}

// snap pulls edges lying within SnapTolerance of the screen boundary onto it.
func (r *Reconciler) snap(screen, rect geom.Rect) geom.Rect {
	tol := r.policy.SnapTolerance
	// Edges are judged where the sample put them, before any moves.
	right, bottom := rect.Right(), rect.Bottom()
	if geom.Near(rect.X, screen.X, tol) {
		rect.X = screen.X
	}
	if geom.Near(rect.Y, screen.Y, tol) {
		rect.Y = screen.Y
	}
	if geom.Near(right, screen.Right(), tol) {
		right = screen.Right()
	}
	if geom.Near(bottom, screen.Bottom(), tol) {
		bottom = screen.Bottom()
	}
	rect.W = right - rect.X
	rect.H = bottom - rect.Y
	return rect
}
