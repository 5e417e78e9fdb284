package measure

import (
	"log/slog"

	"github.com/eric-ce/terrameasure/pkg/geometry"
	"github.com/eric-ce/terrameasure/pkg/terrain"
)

// Mode selects how segment distances are computed
type Mode int

const (
	// Straight measures the Euclidean chord between vertices
	Straight Mode = iota
	// GroundClamped corrects the chord for terrain relief by sampling
	// heights along it
	GroundClamped
)

// String returns the mode name for logging and UI
func (m Mode) String() string {
	if m == GroundClamped {
		return "ground-clamped"
	}
	return "straight"
}

// DefaultInterval is the spacing of ground-clamp samples in world units
const DefaultInterval = 2.0

// Engine computes segment and path distances. It is stateless with respect
// to paths: every call recomputes from the vertices it is given, so results
// stay correct across any structural edit. Ground clamping queries the
// sampler O(length/interval) times per segment, so callers invoke it only on
// commits, never per pointer-move frame.
type Engine struct {
	Mode     Mode
	Interval float64
	Sampler  terrain.Sampler // may be nil; clamping then degrades to straight

	log    *slog.Logger
	warned bool
}

// NewEngine creates a distance engine
func NewEngine(mode Mode, interval float64, sampler terrain.Sampler) *Engine {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Engine{
		Mode:     mode,
		Interval: interval,
		Sampler:  sampler,
		log:      slog.Default(),
	}
}

// StraightDistance returns the Euclidean distance between two points
func StraightDistance(a, b geometry.Vector3) float64 {
	return a.Distance(b)
}

// SegmentDistance measures one segment in the engine's configured mode
func (e *Engine) SegmentDistance(a, b geometry.Vector3) float64 {
	if e.Mode == GroundClamped {
		return e.GroundClampedDistance(a, b)
	}
	return a.Distance(b)
}

// GroundClampedDistance subdivides the chord from a to b at the configured
// interval, clamps each subdivision point to the terrain surface, and sums
// the resulting sub-segment distances. On flat terrain the result equals the
// straight distance; on relief it is always at least as long. If height
// sampling is unavailable the straight chord is used instead.
func (e *Engine) GroundClampedDistance(a, b geometry.Vector3) float64 {
	if e.Sampler == nil {
		e.warnOnce()
		return a.Distance(b)
	}

	chord := a.Distance(b)
	n := int(chord / e.Interval)
	if n < 1 {
		n = 1
	}

	prev := e.clampPoint(a)
	total := 0.0
	for i := 1; i <= n; i++ {
		p := e.clampPoint(a.Lerp(b, float64(i)/float64(n)))
		total += prev.Distance(p)
		prev = p
	}
	return total
}

// clampPoint moves a point onto the terrain surface. When sampling fails the
// chord point is kept, degrading that sub-segment to straight interpolation.
func (e *Engine) clampPoint(p geometry.Vector3) geometry.Vector3 {
	h, ok := e.Sampler.SampleHeight(p.X, p.Z)
	if !ok {
		e.warnOnce()
		return p
	}
	p.Y = h
	return p
}

func (e *Engine) warnOnce() {
	if e.warned {
		return
	}
	e.warned = true
	e.log.Warn("terrain height sampling unavailable, falling back to straight distances")
}

// PathDistances computes the per-segment distances and total for a path
func (e *Engine) PathDistances(p *Path) Distances {
	d := Distances{Segments: make([]float64, 0, p.SegmentCount())}
	for i := 0; i < p.SegmentCount(); i++ {
		a, b := p.Segment(i)
		dist := e.SegmentDistance(a, b)
		d.Segments = append(d.Segments, dist)
		d.Total += dist
	}
	return d
}

// ClampBatch clamps a set of points to the terrain surface in a background
// goroutine and delivers the result on the returned channel. Points whose
// height cannot be sampled are skipped rather than failing the batch.
func ClampBatch(points []geometry.Vector3, sampler terrain.Sampler) <-chan []geometry.Vector3 {
	out := make(chan []geometry.Vector3, 1)
	if sampler == nil {
		// No sampling available: the batch degrades to the unclamped input
		out <- append([]geometry.Vector3(nil), points...)
		close(out)
		return out
	}
	go func() {
		defer close(out)
		clamped := make([]geometry.Vector3, 0, len(points))
		for _, p := range points {
			h, ok := sampler.SampleHeight(p.X, p.Z)
			if !ok {
				continue
			}
			p.Y = h
			clamped = append(clamped, p)
		}
		out <- clamped
	}()
	return out
}
