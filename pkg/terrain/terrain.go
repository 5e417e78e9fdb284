package terrain

import (
	"math"

	"github.com/eric-ce/terrameasure/pkg/geometry"
)

// Sampler answers terrain height queries. Implementations return ok=false
// when the query point is outside the covered area or sampling is not
// supported in the current mode.
type Sampler interface {
	SampleHeight(x, z float64) (float64, bool)
}

// Terrain is a regular height grid in the XZ plane. The grid spans
// [0, Width] x [0, Depth] with heights along Y.
type Terrain struct {
	Name     string
	Cols     int     // samples along X
	Rows     int     // samples along Z
	CellSize float64 // world units between neighboring samples

	heights []float64 // Rows * Cols, row-major
}

// New creates a terrain from a row-major height grid
func New(name string, cols, rows int, cellSize float64, heights []float64) *Terrain {
	return &Terrain{
		Name:     name,
		Cols:     cols,
		Rows:     rows,
		CellSize: cellSize,
		heights:  heights,
	}
}

// HeightAt returns the stored height at a grid sample
func (t *Terrain) HeightAt(col, row int) float64 {
	return t.heights[row*t.Cols+col]
}

// Width returns the terrain extent along X
func (t *Terrain) Width() float64 {
	return float64(t.Cols-1) * t.CellSize
}

// Depth returns the terrain extent along Z
func (t *Terrain) Depth() float64 {
	return float64(t.Rows-1) * t.CellSize
}

// SampleHeight returns the bilinearly interpolated height at (x, z).
// It reports false outside the covered area.
func (t *Terrain) SampleHeight(x, z float64) (float64, bool) {
	if t == nil || t.Cols < 2 || t.Rows < 2 {
		return 0, false
	}
	fx := x / t.CellSize
	fz := z / t.CellSize
	if fx < 0 || fz < 0 || fx > float64(t.Cols-1) || fz > float64(t.Rows-1) {
		return 0, false
	}

	c0 := int(fx)
	r0 := int(fz)
	if c0 >= t.Cols-1 {
		c0 = t.Cols - 2
	}
	if r0 >= t.Rows-1 {
		r0 = t.Rows - 2
	}
	tx := fx - float64(c0)
	tz := fz - float64(r0)

	h00 := t.HeightAt(c0, r0)
	h10 := t.HeightAt(c0+1, r0)
	h01 := t.HeightAt(c0, r0+1)
	h11 := t.HeightAt(c0+1, r0+1)

	top := h00 + (h10-h00)*tx
	bottom := h01 + (h11-h01)*tx
	return top + (bottom-top)*tz, true
}

// BoundingBox returns the axis-aligned bounds of the terrain surface
func (t *Terrain) BoundingBox() geometry.BoundingBox {
	bbox := geometry.NewBoundingBox()
	bbox.Extend(geometry.NewVector3(0, t.minHeight(), 0))
	bbox.Extend(geometry.NewVector3(t.Width(), t.maxHeight(), t.Depth()))
	return bbox
}

func (t *Terrain) minHeight() float64 {
	min := math.MaxFloat64
	for _, h := range t.heights {
		if h < min {
			min = h
		}
	}
	return min
}

func (t *Terrain) maxHeight() float64 {
	max := -math.MaxFloat64
	for _, h := range t.heights {
		if h > max {
			max = h
		}
	}
	return max
}
