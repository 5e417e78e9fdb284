package main

import (
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/eric-ce/terrameasure/internal/measure"
	"github.com/eric-ce/terrameasure/pkg/terrain"
	"github.com/eric-ce/terrameasure/pkg/viewer"
)

const maxRecordLines = 12

type App struct {
	window   fyne.Window
	terrain  *terrain.Terrain
	renderer *viewer.TerrainRenderer

	terrainInfoLabel *widget.Label
	recordsLabel     *widget.Label
	records          []string
}

func main() {
	a := app.New()
	w := a.NewWindow("terrameasure - Terrain Path Measurement")

	appInstance := &App{
		window: w,
	}

	if len(os.Args) > 1 {
		appInstance.loadFile(os.Args[1])
	} else {
		appInstance.setTerrain(terrain.Generate(129, 129, 1.0, 20.0, 7))
	}

	w.Resize(fyne.NewSize(1200, 800))
	w.ShowAndRun()
}

func (a *App) showFileDialog() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()

		a.loadFile(reader.URI().Path())
	}, a.window)
}

func (a *App) loadFile(filename string) {
	t, err := terrain.Parse(filename, terrain.Options{CellSize: 1.0, HeightScale: 20.0})
	if err != nil {
		dialog.ShowError(fmt.Errorf("failed to load heightmap: %w", err), a.window)
		return
	}

	a.setTerrain(t)
}

func (a *App) setTerrain(t *terrain.Terrain) {
	a.terrain = t
	a.records = nil
	a.setupMainUI()
}

func (a *App) setupMainUI() {
	a.terrainInfoLabel = widget.NewLabel("")
	a.recordsLabel = widget.NewLabel("No paths committed yet")

	a.renderer = viewer.NewTerrainRenderer(a.terrain, viewer.Options{
		Interval: 2.0,
		Epsilon:  0.3,
	})
	a.renderer.Store().SetRecordFunc(func(rec measure.DistanceRecord) {
		a.appendRecord(rec)
	})

	openButton := widget.NewButton("Open Heightmap", func() {
		a.showFileDialog()
	})

	clampCheck := widget.NewCheck("Ground-clamped distances", func(checked bool) {
		engine := a.renderer.Store().Engine()
		if checked {
			engine.Mode = measure.GroundClamped
		} else {
			engine.Mode = measure.Straight
		}
	})
	clampCheck.SetChecked(false)

	stats := terrain.Analyze(a.terrain)
	info := fmt.Sprintf("Terrain: %s\n%s", a.terrain.Name, stats)
	a.terrainInfoLabel.SetText(info)

	instructions := widget.NewLabel(
		"Instructions:\n" +
			"• Click on the terrain to place path vertices\n" +
			"• Right-click to finalize the path\n" +
			"• Click a marker and move to reposition it\n" +
			"• Click a segment line to insert a vertex\n" +
			"• Delete removes the vertex under the cursor\n" +
			"• Escape cancels an insert or drag\n" +
			"• Drag empty terrain to rotate, scroll to zoom",
	)
	instructions.Wrapping = fyne.TextWrapWord

	infoPanel := container.NewVBox(
		widget.NewLabel("Terrain Information:"),
		widget.NewSeparator(),
		a.terrainInfoLabel,
		widget.NewSeparator(),
		widget.NewLabel("Display Options:"),
		clampCheck,
		widget.NewSeparator(),
		widget.NewLabel("Committed Paths:"),
		widget.NewSeparator(),
		a.recordsLabel,
		widget.NewSeparator(),
		instructions,
		widget.NewSeparator(),
		openButton,
	)

	infoScroll := container.NewVScroll(infoPanel)
	infoScroll.SetMinSize(fyne.NewSize(300, 0))

	content := container.NewBorder(
		nil,        // top
		nil,        // bottom
		nil,        // left
		infoScroll, // right
		a.renderer, // center
	)

	a.window.SetContent(content)

	a.window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyEscape:
			a.renderer.HandleEscape()
		case fyne.KeyBackspace, fyne.KeyDelete:
			a.renderer.HandleDelete()
		}
	})
}

func (a *App) appendRecord(rec measure.DistanceRecord) {
	line := fmt.Sprintf("path %d %s: %d segments, %s",
		rec.Path, rec.Kind, len(rec.SegmentDistances), measure.FormatDistance(rec.TotalDistance))
	a.records = append(a.records, line)
	if len(a.records) > maxRecordLines {
		a.records = a.records[len(a.records)-maxRecordLines:]
	}

	text := ""
	for i, l := range a.records {
		if i > 0 {
			text += "\n"
		}
		text += l
	}
	a.recordsLabel.SetText(text)
}
