package viewer

import (
	"image"
	"image/color"
	"math"

	"github.com/eric-ce/terrameasure/pkg/geometry"
	"github.com/eric-ce/terrameasure/pkg/terrain"
)

// RenderTerrain rasterizes the heightfield into an RGBA image with a
// z-buffer. Shading bakes a fixed light direction and tints by elevation,
// valley green rising to ridge gray.
func RenderTerrain(t *terrain.Terrain, cam *Camera, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	zbuffer := make([]float64, width*height)
	for i := range zbuffer {
		zbuffer[i] = math.Inf(1)
	}

	stats := terrain.Analyze(t)
	relief := stats.Relief
	if relief <= 0 {
		relief = 1
	}
	lightDir := geometry.NewVector3(-0.5, -1.0, -0.5).Normalize()

	w := float64(width)
	h := float64(height)

	point := func(col, row int) geometry.Vector3 {
		return geometry.NewVector3(
			float64(col)*t.CellSize,
			t.HeightAt(col, row),
			float64(row)*t.CellSize,
		)
	}

	shade := func(a, b, c geometry.Vector3) color.RGBA {
		normal := b.Sub(a).Cross(c.Sub(a)).Normalize()
		if normal.Y < 0 {
			normal = normal.Mul(-1)
		}
		intensity := math.Max(0.3, -normal.Dot(lightDir))
		elev := ((a.Y+b.Y+c.Y)/3 - stats.MinHeight) / relief
		return color.RGBA{
			R: uint8(intensity * (70 + 130*elev)),
			G: uint8(intensity * (140 + 60*elev)),
			B: uint8(intensity * (70 + 110*elev)),
			A: 255,
		}
	}

	raster := func(a, b, c geometry.Vector3) {
		x1, y1, z1 := cam.Project(a, w, h)
		x2, y2, z2 := cam.Project(b, w, h)
		x3, y3, z3 := cam.Project(c, w, h)
		// Skip triangles that clip the near plane
		if z1 <= 0.011 || z2 <= 0.011 || z3 <= 0.011 {
			return
		}
		fillTriangleWithDepth(img, zbuffer, x1, y1, z1, x2, y2, z2, x3, y3, z3, shade(a, b, c))
	}

	for row := 0; row < t.Rows-1; row++ {
		for col := 0; col < t.Cols-1; col++ {
			p00 := point(col, row)
			p10 := point(col+1, row)
			p01 := point(col, row+1)
			p11 := point(col+1, row+1)

			raster(p00, p01, p10)
			raster(p10, p01, p11)
		}
	}

	return img
}

// fillTriangleWithDepth fills a triangle with depth testing
func fillTriangleWithDepth(img *image.RGBA, zbuffer []float64, x1, y1, z1, x2, y2, z2, x3, y3, z3 float64, col color.RGBA) {
	vertices := [][3]float64{
		{x1, y1, z1},
		{x2, y2, z2},
		{x3, y3, z3},
	}

	// Sort vertices by Y coordinate (top to bottom)
	if vertices[0][1] > vertices[1][1] {
		vertices[0], vertices[1] = vertices[1], vertices[0]
	}
	if vertices[1][1] > vertices[2][1] {
		vertices[1], vertices[2] = vertices[2], vertices[1]
	}
	if vertices[0][1] > vertices[1][1] {
		vertices[0], vertices[1] = vertices[1], vertices[0]
	}

	x1, y1, z1 = vertices[0][0], vertices[0][1], vertices[0][2]
	x2, y2, z2 = vertices[1][0], vertices[1][1], vertices[1][2]
	x3, y3, z3 = vertices[2][0], vertices[2][1], vertices[2][2]

	bounds := img.Bounds()
	width := bounds.Max.X

	// Scanline algorithm with depth interpolation
	for y := int(math.Max(0, y1)); y <= int(math.Min(float64(bounds.Max.Y-1), y3)); y++ {
		fy := float64(y)

		var xStart, xEnd, zStart, zEnd float64
		foundStart := false
		foundEnd := false

		// Find intersections with triangle edges
		// Edge 1-2
		if y1 != y2 && fy >= y1 && fy <= y2 {
			t := (fy - y1) / (y2 - y1)
			x := x1 + t*(x2-x1)
			z := z1 + t*(z2-z1)
			xStart, zStart = x, z
			foundStart = true
		}

		// Edge 2-3
		if y2 != y3 && fy >= y2 && fy <= y3 {
			t := (fy - y2) / (y3 - y2)
			x := x2 + t*(x3-x2)
			z := z2 + t*(z3-z2)
			if !foundStart {
				xStart, zStart = x, z
				foundStart = true
			} else {
				xEnd, zEnd = x, z
				foundEnd = true
			}
		}

		// Edge 1-3
		if y1 != y3 && fy >= y1 && fy <= y3 {
			t := (fy - y1) / (y3 - y1)
			x := x1 + t*(x3-x1)
			z := z1 + t*(z3-z1)
			if !foundStart {
				xStart, zStart = x, z
				foundStart = true
			} else if !foundEnd {
				xEnd, zEnd = x, z
				foundEnd = true
			}
		}

		if foundStart && foundEnd {
			// Ensure xStart < xEnd
			if xStart > xEnd {
				xStart, xEnd = xEnd, xStart
				zStart, zEnd = zEnd, zStart
			}

			// Clamp to image bounds
			xStartInt := int(math.Max(0, xStart))
			xEndInt := int(math.Min(float64(bounds.Max.X-1), xEnd))

			// Draw horizontal line with depth testing
			for x := xStartInt; x <= xEndInt; x++ {
				t := 0.0
				if xEnd != xStart {
					t = (float64(x) - xStart) / (xEnd - xStart)
				}
				z := zStart + t*(zEnd-zStart)

				// Depth test - draw if closer (smaller z)
				idx := y*width + x
				if idx >= 0 && idx < len(zbuffer) {
					if z < zbuffer[idx] {
						zbuffer[idx] = z
						img.SetRGBA(x, y, col)
					}
				}
			}
		}
	}
}
