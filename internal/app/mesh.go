package app

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/eric-ce/terrameasure/pkg/geometry"
	"github.com/eric-ce/terrameasure/pkg/terrain"
)

// terrainToMesh converts a heightfield into a Raylib mesh with baked
// lighting. Elevation tints the color from valley green to ridge gray.
func terrainToMesh(t *terrain.Terrain) rl.Mesh {
	quadsX := t.Cols - 1
	quadsZ := t.Rows - 1
	triangleCount := quadsX * quadsZ * 2
	vertexCount := triangleCount * 3

	mesh := rl.Mesh{
		VertexCount:   int32(vertexCount),
		TriangleCount: int32(triangleCount),
	}

	vertices := make([]float32, 0, vertexCount*3)
	normals := make([]float32, 0, vertexCount*3)
	texcoords := make([]float32, 0, vertexCount*2)
	colors := make([]uint8, 0, vertexCount*4)

	stats := terrain.Analyze(t)
	relief := stats.Relief
	if relief <= 0 {
		relief = 1
	}

	// Light direction for baked lighting
	lightDir := geometry.NewVector3(-0.5, -1.0, -0.5).Normalize()

	point := func(col, row int) geometry.Vector3 {
		return geometry.NewVector3(
			float64(col)*t.CellSize,
			t.HeightAt(col, row),
			float64(row)*t.CellSize,
		)
	}

	emit := func(a, b, c geometry.Vector3) {
		normal := b.Sub(a).Cross(c.Sub(a)).Normalize()
		if normal.Y < 0 {
			b, c = c, b
			normal = normal.Mul(-1)
		}

		// Diffuse lighting with a 30% ambient floor
		lightIntensity := math.Max(0.3, -normal.Dot(lightDir))

		for _, v := range [3]geometry.Vector3{a, b, c} {
			elev := (v.Y - stats.MinHeight) / relief
			r := uint8(lightIntensity * (70 + 130*elev))
			g := uint8(lightIntensity * (140 + 60*elev))
			bl := uint8(lightIntensity * (70 + 110*elev))

			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, float32(normal.X), float32(normal.Y), float32(normal.Z))
			texcoords = append(texcoords, 0, 0)
			colors = append(colors, r, g, bl, 255)
		}
	}

	for row := 0; row < quadsZ; row++ {
		for col := 0; col < quadsX; col++ {
			p00 := point(col, row)
			p10 := point(col+1, row)
			p01 := point(col, row+1)
			p11 := point(col+1, row+1)

			emit(p00, p01, p10)
			emit(p10, p01, p11)
		}
	}

	if len(vertices) > 0 {
		mesh.Vertices = &vertices[0]
	}
	if len(normals) > 0 {
		mesh.Normals = &normals[0]
	}
	if len(texcoords) > 0 {
		mesh.Texcoords = &texcoords[0]
	}
	if len(colors) > 0 {
		mesh.Colors = &colors[0]
	}

	rl.UploadMesh(&mesh, false)

	return mesh
}

// drawWireframe overlays grid lines on the terrain. Dense heightmaps are
// strided so the overlay stays legible.
func (app *App) drawWireframe() {
	t := app.Terrain.terrain
	if t == nil {
		return
	}

	stride := t.Cols / 64
	if stride < 1 {
		stride = 1
	}
	color := rl.NewColor(255, 255, 255, 40)
	lift := t.CellSize * 0.02 // avoid z-fighting with the surface

	at := func(col, row int) rl.Vector3 {
		return rl.Vector3{
			X: float32(float64(col) * t.CellSize),
			Y: float32(t.HeightAt(col, row) + lift),
			Z: float32(float64(row) * t.CellSize),
		}
	}

	for row := 0; row < t.Rows; row += stride {
		for col := 0; col+stride < t.Cols; col += stride {
			rl.DrawLine3D(at(col, row), at(col+stride, row), color)
		}
	}
	for col := 0; col < t.Cols; col += stride {
		for row := 0; row+stride < t.Rows; row += stride {
			rl.DrawLine3D(at(col, row), at(col, row+stride), color)
		}
	}
}
