package terrain

import "math"

// Generate creates a procedural terrain from layered value noise.
// It is used as the demo surface when no heightmap file is given.
func Generate(cols, rows int, cellSize, heightScale float64, seed int64) *Terrain {
	heights := make([]float64, cols*rows)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			x := float64(c) / float64(cols-1)
			z := float64(r) / float64(rows-1)
			heights[r*cols+c] = fbm(x*4, z*4, seed) * heightScale
		}
	}
	return New("procedural", cols, rows, cellSize, heights)
}

// fbm sums a few octaves of value noise, normalized to roughly [0, 1]
func fbm(x, z float64, seed int64) float64 {
	sum := 0.0
	amp := 0.5
	for octave := 0; octave < 4; octave++ {
		sum += amp * valueNoise(x, z, seed+int64(octave))
		x *= 2
		z *= 2
		amp *= 0.5
	}
	return sum
}

// valueNoise interpolates hashed lattice values with smoothstep
func valueNoise(x, z float64, seed int64) float64 {
	x0 := math.Floor(x)
	z0 := math.Floor(z)
	tx := smoothstep(x - x0)
	tz := smoothstep(z - z0)

	ix0, iz0 := int64(x0), int64(z0)
	v00 := latticeValue(ix0, iz0, seed)
	v10 := latticeValue(ix0+1, iz0, seed)
	v01 := latticeValue(ix0, iz0+1, seed)
	v11 := latticeValue(ix0+1, iz0+1, seed)

	top := v00 + (v10-v00)*tx
	bottom := v01 + (v11-v01)*tx
	return top + (bottom-top)*tz
}

func smoothstep(t float64) float64 {
	return t * t * (3 - 2*t)
}

// latticeValue hashes integer lattice coordinates to [0, 1]
func latticeValue(x, z, seed int64) float64 {
	h := uint64(x)*0x9E3779B97F4A7C15 ^ uint64(z)*0xC2B2AE3D27D4EB4F ^ uint64(seed)
	h ^= h >> 33
	h *= 0xFF51AFD7ED558CCD
	h ^= h >> 33
	return float64(h&0xFFFFFF) / float64(0xFFFFFF)
}
