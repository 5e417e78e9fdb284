package app

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/eric-ce/terrameasure/internal/measure"
	"github.com/eric-ce/terrameasure/internal/scene"
)

// handleInput processes user input and forwards pointer events to the editor
func (app *App) handleInput() {
	mouse := rl.GetMousePosition()
	pos := scene.ScreenPos{X: float64(mouse.X), Y: float64(mouse.Y)}

	// Camera view preset shortcuts
	if rl.IsKeyPressed(rl.KeyHome) {
		app.resetCameraView()
	}
	if rl.IsKeyPressed(rl.KeyT) {
		app.setCameraTopView()
	}

	// Track mouse down for click vs drag detection
	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		app.Interaction.mouseDownPos = mouse
		app.Interaction.mouseMoved = false
		// Pan if Shift is pressed
		shiftPressed := rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift)
		app.Interaction.isPanning = shiftPressed
		if !shiftPressed {
			app.editor.PointerDown(pos)
		}
	}

	// The editor tracks the pointer every frame: hover highlighting, draw
	// previews and vertex drags all hang off this call. It must run before
	// orbit handling so a drag crossing the threshold suppresses the camera
	// in the same frame.
	app.editor.PointerMove(pos)

	// Camera panning with Shift + mouse drag or middle mouse button drag
	if (rl.IsMouseButtonDown(rl.MouseLeftButton) && app.Interaction.isPanning) || rl.IsMouseButtonDown(rl.MouseMiddleButton) {
		delta := rl.GetMouseDelta()
		if delta.X != 0 || delta.Y != 0 {
			app.Interaction.mouseMoved = true
			app.doPan(delta)
		}
	} else if rl.IsMouseButtonDown(rl.MouseLeftButton) && !app.Camera.suppressed {
		// Camera rotation with mouse drag
		delta := rl.GetMouseDelta()
		if math.Abs(float64(delta.X)) > 1.0 || math.Abs(float64(delta.Y)) > 1.0 {
			app.Interaction.mouseMoved = true
		}
		if delta.X != 0 || delta.Y != 0 {
			app.doOrbit(delta)
		}
	}

	if rl.IsMouseButtonReleased(rl.MouseLeftButton) {
		currentPos := rl.GetMousePosition()
		releasePos := scene.ScreenPos{X: float64(currentPos.X), Y: float64(currentPos.Y)}
		app.editor.PointerUp(releasePos)

		dragDistance := rl.Vector2Distance(app.Interaction.mouseDownPos, currentPos)
		if !app.Interaction.mouseMoved && !app.Interaction.isPanning && dragDistance < 5.0 { // Less than 5 pixels moved = click
			app.editor.PrimaryClick(releasePos)
		}
		app.Interaction.isPanning = false
	}

	// Right click finalizes the open draft
	if rl.IsMouseButtonPressed(rl.MouseRightButton) {
		app.editor.SecondaryClick(pos)
	}

	// Zoom with mouse wheel
	wheel := rl.GetMouseWheelMove()
	if wheel != 0 && !app.Camera.suppressed {
		app.doZoom(wheel)
	}

	// Keyboard controls
	if rl.IsKeyPressed(rl.KeyW) {
		app.View.showWireframe = !app.View.showWireframe
	}
	if rl.IsKeyPressed(rl.KeyH) {
		app.View.showHelp = !app.View.showHelp
	}
	if rl.IsKeyPressed(rl.KeyR) {
		app.View.showRecords = !app.View.showRecords
	}
	if rl.IsKeyPressed(rl.KeyG) {
		app.toggleClampMode()
	}
	if rl.IsKeyPressed(rl.KeyEscape) {
		app.editor.Escape()
	}
	if rl.IsKeyPressed(rl.KeyBackspace) || rl.IsKeyPressed(rl.KeyDelete) {
		app.editor.DeleteVertexAt(pos)
	}
}

// toggleClampMode switches between straight and ground-clamped distances.
// Existing paths keep their recorded distances; the new mode applies to
// commits from here on.
func (app *App) toggleClampMode() {
	engine := app.store.Engine()
	if engine.Mode == measure.GroundClamped {
		engine.Mode = measure.Straight
	} else {
		engine.Mode = measure.GroundClamped
	}
	app.log.Info("distance mode changed", "mode", engine.Mode.String())
}
