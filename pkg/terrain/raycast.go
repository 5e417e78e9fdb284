package terrain

import (
	"github.com/eric-ce/terrameasure/pkg/geometry"
)

// RaycastSurface marches a ray against the heightfield and returns the first
// surface intersection. The march step is half a cell; once the ray dips
// below the surface the crossing is refined by bisection and the hit point
// is snapped onto the terrain. maxDist bounds the march in world units.
func (t *Terrain) RaycastSurface(origin, dir geometry.Vector3, maxDist float64) (geometry.Vector3, bool) {
	dir = dir.Normalize()

	step := t.CellSize / 2
	if step <= 0 {
		step = 0.5
	}
	if maxDist <= 0 {
		maxDist = t.Width() + t.Depth()
	}

	prev := 0.0
	for d := step; d <= maxDist; d += step {
		pt := origin.Add(dir.Mul(d))
		h, ok := t.SampleHeight(pt.X, pt.Z)
		if !ok || pt.Y > h {
			prev = d
			continue
		}

		// Crossed the surface between prev and d
		lo, hi := prev, d
		for i := 0; i < 24; i++ {
			mid := (lo + hi) / 2
			mp := origin.Add(dir.Mul(mid))
			mh, mok := t.SampleHeight(mp.X, mp.Z)
			if mok && mp.Y <= mh {
				hi = mid
			} else {
				lo = mid
			}
		}
		hit := origin.Add(dir.Mul(hi))
		if hh, hok := t.SampleHeight(hit.X, hit.Z); hok {
			hit.Y = hh
		}
		return hit, true
	}
	return geometry.Vector3{}, false
}
