package measure

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eric-ce/terrameasure/pkg/geometry"
)

// flatSampler is a terrain of constant height
type flatSampler struct{ height float64 }

func (s flatSampler) SampleHeight(x, z float64) (float64, bool) { return s.height, true }

// ridgeSampler rises linearly to a peak at x=5 and falls back down
type ridgeSampler struct{}

func (ridgeSampler) SampleHeight(x, z float64) (float64, bool) {
	return 5 - math.Abs(x-5), true
}

// deadSampler always fails, as when height queries are unsupported
type deadSampler struct{}

func (deadSampler) SampleHeight(x, z float64) (float64, bool) { return 0, false }

func TestStraightDistance(t *testing.T) {
	a := geometry.NewVector3(0, 0, 0)
	b := geometry.NewVector3(3, 4, 0)
	assert.InDelta(t, 5.0, StraightDistance(a, b), 1e-12)
}

func TestGroundClampedFlatEqualsStraight(t *testing.T) {
	e := NewEngine(GroundClamped, 0.5, flatSampler{height: 7})
	a := geometry.NewVector3(0, 7, 0)
	b := geometry.NewVector3(10, 7, 0)

	assert.InDelta(t, 10.0, e.GroundClampedDistance(a, b), 1e-9)
}

func TestGroundClampedExceedsStraightOnRelief(t *testing.T) {
	e := NewEngine(GroundClamped, 0.5, ridgeSampler{})
	a := geometry.NewVector3(0, 0, 0)
	b := geometry.NewVector3(10, 0, 0)

	clamped := e.GroundClampedDistance(a, b)
	straight := StraightDistance(a, b)
	assert.Greater(t, clamped, straight)

	// Climbing a symmetric ridge of height 5 over 2x5 horizontal units
	want := 2 * math.Sqrt(5*5+5*5)
	assert.InDelta(t, want, clamped, 1e-9)
}

func TestGroundClampedFallsBackWithoutSampler(t *testing.T) {
	a := geometry.NewVector3(0, 0, 0)
	b := geometry.NewVector3(10, 0, 0)

	noSampler := NewEngine(GroundClamped, 2, nil)
	assert.InDelta(t, 10.0, noSampler.GroundClampedDistance(a, b), 1e-12)

	failing := NewEngine(GroundClamped, 2, deadSampler{})
	assert.InDelta(t, 10.0, failing.GroundClampedDistance(a, b), 1e-12)
}

func TestGroundClampedShortSegmentUsesSingleSubdivision(t *testing.T) {
	e := NewEngine(GroundClamped, 2, flatSampler{})
	a := geometry.NewVector3(0, 0, 0)
	b := geometry.NewVector3(0.5, 0, 0)

	// chord < interval still measures, with n clamped to 1
	assert.InDelta(t, 0.5, e.GroundClampedDistance(a, b), 1e-9)
}

func TestPathDistancesTotalMatchesSum(t *testing.T) {
	e := NewEngine(GroundClamped, 0.5, ridgeSampler{})
	p := &Path{Vertices: []geometry.Vector3{
		{X: 0, Y: 0, Z: 0},
		{X: 4, Y: 1, Z: 0},
		{X: 10, Y: 0, Z: 3},
		{X: 12, Y: 0, Z: 9},
	}}

	d := e.PathDistances(p)
	require.Len(t, d.Segments, 3)

	sum := 0.0
	for _, s := range d.Segments {
		sum += s
	}
	assert.InDelta(t, sum, d.Total, 1e-9)
}

func TestPathDistancesScenario(t *testing.T) {
	e := NewEngine(Straight, 2, nil)
	p := &Path{Vertices: []geometry.Vector3{
		{X: 0, Y: 0, Z: 0},
		{X: 10, Y: 0, Z: 0},
		{X: 10, Y: 10, Z: 0},
	}}

	d := e.PathDistances(p)
	require.Equal(t, []float64{10, 10}, d.Segments)
	assert.InDelta(t, 20.0, d.Total, 1e-12)

	assert.Equal(t, "a0: 10.00 m", SegmentLabel(0, 0, d.Segments[0]))
	assert.Equal(t, "b0: 10.00 m", SegmentLabel(1, 0, d.Segments[1]))
	assert.Equal(t, "Total: 20.00 m", TotalLabel(d.Total))
}

// patchySampler only covers x in [0, 5]
type patchySampler struct{}

func (patchySampler) SampleHeight(x, z float64) (float64, bool) {
	if x < 0 || x > 5 {
		return 0, false
	}
	return 2, true
}

func TestClampBatchSkipsFailedSamples(t *testing.T) {
	points := []geometry.Vector3{
		{X: 1, Y: 0, Z: 0},
		{X: 9, Y: 0, Z: 0}, // outside coverage, skipped
		{X: 4, Y: 0, Z: 0},
	}

	clamped := <-ClampBatch(points, patchySampler{})
	require.Len(t, clamped, 2)
	assert.Equal(t, geometry.NewVector3(1, 2, 0), clamped[0])
	assert.Equal(t, geometry.NewVector3(4, 2, 0), clamped[1])
}

func TestClampBatchWithoutSamplerReturnsInputUnchanged(t *testing.T) {
	points := []geometry.Vector3{
		{X: 1, Y: 3, Z: 0},
		{X: 9, Y: 0, Z: 2},
	}

	clamped := <-ClampBatch(points, nil)
	assert.Equal(t, points, clamped)
}
