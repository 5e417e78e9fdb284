package app

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/eric-ce/terrameasure/internal/editor"
	"github.com/eric-ce/terrameasure/internal/measure"
	"github.com/eric-ce/terrameasure/pkg/terrain"
	"github.com/eric-ce/terrameasure/version"
)

// drawUI draws the info panel, record log and contextual hints
func (app *App) drawUI() {
	y := float32(10)
	lineHeight := float32(20)
	fontSize16 := float32(16)
	fontSize14 := float32(14)
	fontSize12 := float32(12)

	screenWidth := float32(rl.GetScreenWidth())

	// Loading indicator
	if app.FileWatch.isLoading {
		elapsed := time.Since(app.FileWatch.loadingStart).Seconds()
		loadingText := fmt.Sprintf("Reloading... (%.1fs)", elapsed)

		boxWidth := float32(250)
		boxHeight := float32(40)
		boxX := screenWidth - boxWidth - 20
		boxY := float32(20)

		rl.DrawRectangle(int32(boxX), int32(boxY), int32(boxWidth), int32(boxHeight), rl.NewColor(0, 0, 0, 180))
		rl.DrawRectangleLines(int32(boxX), int32(boxY), int32(boxWidth), int32(boxHeight), rl.Yellow)

		textSize := rl.MeasureTextEx(app.UI.font, loadingText, fontSize16, 1)
		textX := boxX + (boxWidth-textSize.X)/2
		textY := boxY + (boxHeight-textSize.Y)/2
		rl.DrawTextEx(app.UI.font, loadingText, rl.Vector2{X: textX, Y: textY}, fontSize16, 1, rl.Yellow)
	}

	// === TERRAIN ===
	stats := terrain.Analyze(app.Terrain.terrain)
	rl.DrawTextEx(app.UI.font, "Terrain:", rl.Vector2{X: 10, Y: y}, fontSize16, 1, rl.Yellow)
	y += lineHeight
	rl.DrawTextEx(app.UI.font, fmt.Sprintf("  %s (%dx%d)", app.Terrain.terrain.Name, stats.Cols, stats.Rows), rl.Vector2{X: 10, Y: y}, fontSize14, 1, rl.White)
	y += lineHeight
	rl.DrawTextEx(app.UI.font, fmt.Sprintf("  Extent: %.0f x %.0f, relief %.1f", stats.Width, stats.Depth, stats.Relief), rl.Vector2{X: 10, Y: y}, fontSize14, 1, rl.White)
	y += lineHeight
	rl.DrawTextEx(app.UI.font, fmt.Sprintf("  Mode: %s", app.store.Engine().Mode), rl.Vector2{X: 10, Y: y}, fontSize14, 1, rl.NewColor(100, 200, 255, 255))
	y += lineHeight * 2

	// === STATUS + HINTS ===
	rl.DrawTextEx(app.UI.font, "Measure:", rl.Vector2{X: 10, Y: y}, fontSize16, 1, rl.Yellow)
	y += lineHeight

	switch app.editor.State() {
	case editor.Drawing:
		draft := app.store.Draft()
		count := 0
		if draft != nil {
			count = len(draft.Vertices)
		}
		rl.DrawTextEx(app.UI.font, fmt.Sprintf("  Drawing path (%d points)", count), rl.Vector2{X: 10, Y: y}, fontSize14, 1, rl.Green)
		y += lineHeight
		rl.DrawTextEx(app.UI.font, "  Left Click: Add point", rl.Vector2{X: 10, Y: y}, fontSize14, 1, rl.NewColor(144, 238, 144, 255))
		y += lineHeight
		rl.DrawTextEx(app.UI.font, "  Right Click: Finish path", rl.Vector2{X: 10, Y: y}, fontSize14, 1, rl.NewColor(255, 200, 100, 255))
		y += lineHeight
	case editor.AddMode:
		rl.DrawTextEx(app.UI.font, "  ADD MODE", rl.Vector2{X: 10, Y: y}, fontSize16, 1, rl.Magenta)
		y += lineHeight
		rl.DrawTextEx(app.UI.font, "  Left Click: Insert point on segment", rl.Vector2{X: 10, Y: y}, fontSize14, 1, rl.NewColor(255, 150, 255, 255))
		y += lineHeight
		rl.DrawTextEx(app.UI.font, "  ESC: Cancel", rl.Vector2{X: 10, Y: y}, fontSize14, 1, rl.NewColor(255, 100, 100, 255))
		y += lineHeight
	case editor.Dragging:
		rl.DrawTextEx(app.UI.font, "  Dragging point, release to commit", rl.Vector2{X: 10, Y: y}, fontSize14, 1, rl.Green)
		y += lineHeight
		rl.DrawTextEx(app.UI.font, "  ESC: Cancel drag", rl.Vector2{X: 10, Y: y}, fontSize14, 1, rl.NewColor(255, 100, 100, 255))
		y += lineHeight
	default:
		rl.DrawTextEx(app.UI.font, "  Left Click: Start a path", rl.Vector2{X: 10, Y: y}, fontSize14, 1, rl.NewColor(144, 238, 144, 255))
		y += lineHeight
		rl.DrawTextEx(app.UI.font, "  Click line: Insert | Drag point: Move", rl.Vector2{X: 10, Y: y}, fontSize14, 1, rl.LightGray)
		y += lineHeight
		rl.DrawTextEx(app.UI.font, "  Backspace: Delete hovered point", rl.Vector2{X: 10, Y: y}, fontSize14, 1, rl.LightGray)
		y += lineHeight
	}
	y += lineHeight

	if app.View.showHelp {
		app.drawHelp(y, lineHeight, fontSize16, fontSize14)
	} else {
		rl.DrawTextEx(app.UI.font, "H: Help", rl.Vector2{X: 10, Y: y}, fontSize14, 1, rl.Gray)
	}

	if app.View.showRecords {
		app.drawRecords(screenWidth, lineHeight, fontSize14)
	}

	// Version and FPS in bottom-left corner
	bottomY := float32(rl.GetScreenHeight()) - 30
	versionText := fmt.Sprintf("v%s", version.GetVersion())
	rl.DrawTextEx(app.UI.font, versionText, rl.Vector2{X: 10, Y: bottomY}, fontSize12, 1, rl.Gray)

	fpsText := fmt.Sprintf("FPS: %d", rl.GetFPS())
	versionWidth := rl.MeasureTextEx(app.UI.font, versionText, fontSize12, 1).X
	rl.DrawTextEx(app.UI.font, fpsText, rl.Vector2{X: 10 + versionWidth + 15, Y: bottomY}, fontSize12, 1, rl.Lime)
}

func (app *App) drawHelp(y, lineHeight, fontSize16, fontSize14 float32) {
	rl.DrawTextEx(app.UI.font, "Navigate:", rl.Vector2{X: 10, Y: y}, fontSize16, 1, rl.Yellow)
	y += lineHeight
	rl.DrawTextEx(app.UI.font, "  Left Drag: Rotate | Shift+Drag: Pan", rl.Vector2{X: 10, Y: y}, fontSize14, 1, rl.LightGray)
	y += lineHeight
	rl.DrawTextEx(app.UI.font, "  Mouse Wheel: Zoom | Middle: Pan", rl.Vector2{X: 10, Y: y}, fontSize14, 1, rl.LightGray)
	y += lineHeight
	rl.DrawTextEx(app.UI.font, "  Home: Reset view | T: Top view", rl.Vector2{X: 10, Y: y}, fontSize14, 1, rl.LightGray)
	y += lineHeight * 2

	rl.DrawTextEx(app.UI.font, "Toggles:", rl.Vector2{X: 10, Y: y}, fontSize16, 1, rl.Yellow)
	y += lineHeight
	rl.DrawTextEx(app.UI.font, "  W: Wireframe | G: Ground clamp", rl.Vector2{X: 10, Y: y}, fontSize14, 1, rl.LightGray)
	y += lineHeight
	rl.DrawTextEx(app.UI.font, "  R: Record log | H: Help", rl.Vector2{X: 10, Y: y}, fontSize14, 1, rl.LightGray)
	y += lineHeight
	rl.DrawTextEx(app.UI.font, "  Ctrl+C: Quit", rl.Vector2{X: 10, Y: y}, fontSize14, 1, rl.LightGray)
}

// drawRecords shows the most recent commit records in the top-right corner
func (app *App) drawRecords(screenWidth, lineHeight, fontSize float32) {
	const maxRows = 8

	records := app.UI.records
	if len(records) == 0 {
		return
	}
	if len(records) > maxRows {
		records = records[len(records)-maxRows:]
	}

	boxWidth := float32(300)
	boxHeight := float32(len(records)+1)*lineHeight + 10
	boxX := screenWidth - boxWidth - 20
	boxY := float32(70)

	rl.DrawRectangle(int32(boxX), int32(boxY), int32(boxWidth), int32(boxHeight), rl.NewColor(0, 0, 0, 180))
	rl.DrawRectangleLines(int32(boxX), int32(boxY), int32(boxWidth), int32(boxHeight), rl.NewColor(80, 200, 255, 255))

	y := boxY + 5
	rl.DrawTextEx(app.UI.font, "Records:", rl.Vector2{X: boxX + 10, Y: y}, fontSize, 1, rl.Yellow)
	y += lineHeight

	for _, rec := range records {
		line := fmt.Sprintf("path %d %-8s %d seg  %s",
			rec.Path, rec.Kind, len(rec.SegmentDistances), measure.FormatDistance(rec.TotalDistance))
		rl.DrawTextEx(app.UI.font, line, rl.Vector2{X: boxX + 10, Y: y}, fontSize, 1, rl.White)
		y += lineHeight
	}
}
