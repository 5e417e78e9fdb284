package app

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// setupCamera places the camera to frame the terrain and records the
// defaults used by resetCameraView.
func (app *App) setupCamera() {
	distance := app.Terrain.size * 1.6

	app.Camera.target = app.Terrain.center
	app.Camera.distance = distance
	app.Camera.angleX = 0.6
	app.Camera.angleY = 0.6

	app.Camera.defaultDist = distance
	app.Camera.defaultAngleX = 0.6
	app.Camera.defaultAngleY = 0.6

	app.Camera.camera = rl.Camera3D{
		Position:   rl.Vector3{X: 0, Y: distance, Z: distance},
		Target:     app.Camera.target,
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       45.0,
		Projection: rl.CameraPerspective,
	}
}

// resetCameraView resets the camera to the default view
func (app *App) resetCameraView() {
	app.Camera.distance = app.Camera.defaultDist
	app.Camera.angleX = app.Camera.defaultAngleX
	app.Camera.angleY = app.Camera.defaultAngleY
	app.Camera.target = app.Terrain.center
}

// setCameraTopView sets the camera to look straight down at the terrain
func (app *App) setCameraTopView() {
	app.Camera.angleX = 1.5
	app.Camera.angleY = 0
	app.Camera.target = app.Terrain.center
}

// updateCamera updates camera position based on angles
func (app *App) updateCamera() {
	x := app.Camera.distance * float32(math.Cos(float64(app.Camera.angleX))) * float32(math.Sin(float64(app.Camera.angleY)))
	y := app.Camera.distance * float32(math.Sin(float64(app.Camera.angleX)))
	z := app.Camera.distance * float32(math.Cos(float64(app.Camera.angleX))) * float32(math.Cos(float64(app.Camera.angleY)))

	app.Camera.camera.Position = rl.Vector3{
		X: app.Camera.target.X + x,
		Y: app.Camera.target.Y + y,
		Z: app.Camera.target.Z + z,
	}
	app.Camera.camera.Target = app.Camera.target
}

// doOrbit rotates the camera around its target based on mouse delta
func (app *App) doOrbit(delta rl.Vector2) {
	app.Camera.angleY += delta.X * 0.01
	app.Camera.angleX -= delta.Y * 0.01

	// Clamp vertical rotation; keep the camera above the terrain plane
	if app.Camera.angleX > 1.5 {
		app.Camera.angleX = 1.5
	}
	if app.Camera.angleX < 0.05 {
		app.Camera.angleX = 0.05
	}
}

// doPan performs camera panning based on mouse delta
func (app *App) doPan(delta rl.Vector2) {
	forward := rl.Vector3Normalize(rl.Vector3Subtract(app.Camera.target, app.Camera.camera.Position))
	right := rl.Vector3Normalize(rl.Vector3CrossProduct(forward, app.Camera.camera.Up))
	up := rl.Vector3Normalize(rl.Vector3CrossProduct(right, forward))

	// Pan speed based on distance from target
	panSpeed := app.Camera.distance * 0.001

	rightMove := rl.Vector3Scale(right, -delta.X*panSpeed)
	upMove := rl.Vector3Scale(up, delta.Y*panSpeed)

	app.Camera.target = rl.Vector3Add(app.Camera.target, rightMove)
	app.Camera.target = rl.Vector3Add(app.Camera.target, upMove)
}

// doZoom adjusts the camera distance from the mouse wheel
func (app *App) doZoom(wheel float32) {
	app.Camera.distance *= (1.0 - wheel*0.03)
	if app.Camera.distance < 1.0 {
		app.Camera.distance = 1.0
	}
}
