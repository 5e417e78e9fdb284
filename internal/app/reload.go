package app

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/eric-ce/terrameasure/pkg/terrain"
	"github.com/eric-ce/terrameasure/pkg/watcher"
)

// setupFileWatcher watches the source heightmap for auto-reload
func (app *App) setupFileWatcher() error {
	fw, err := watcher.New(500 * time.Millisecond)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	err = fw.Watch(app.FileWatch.sourceFile, func(changed string) {
		app.log.Info("heightmap changed", "file", changed)
		app.FileWatch.needsReload.Store(true)
	})
	if err != nil {
		fw.Close()
		return fmt.Errorf("failed to watch %s: %w", app.FileWatch.sourceFile, err)
	}

	app.FileWatch.fileWatcher = fw
	app.log.Info("watching heightmap for changes", "file", app.FileWatch.sourceFile)
	return nil
}

// reloadTerrain parses the heightmap in the background. Mesh creation must
// happen on the main thread, so the result is handed over via FileWatch and
// applied by applyLoadedTerrain.
func (app *App) reloadTerrain(cfg Config) {
	if app.FileWatch.isLoading {
		// A change arrived mid-load; pick it up after this load lands
		app.FileWatch.needsReload.Store(true)
		return
	}

	app.FileWatch.isLoading = true
	app.FileWatch.loadingStart = time.Now()
	app.log.Info("reloading terrain", "file", app.FileWatch.sourceFile)

	go func() {
		t, err := terrain.Parse(app.FileWatch.sourceFile, terrain.Options{
			CellSize:    cfg.CellSize,
			HeightScale: cfg.HeightScale,
		})
		if err != nil {
			app.log.Error("terrain reload failed", "error", err)
			t = nil
		}
		app.FileWatch.loaded.Store(t)
		app.FileWatch.loadDone.Store(true)
	}()
}

// applyLoadedTerrain swaps in a background-loaded terrain on the main
// thread. Measurement paths are world-space data and survive the swap
// untouched; only the surface they were measured against changes.
func (app *App) applyLoadedTerrain() {
	if !app.FileWatch.loadDone.CompareAndSwap(true, false) {
		return
	}
	app.FileWatch.isLoading = false

	t := app.FileWatch.loaded.Swap(nil)
	if t == nil {
		// Parse failed, keep the current terrain
		return
	}

	savedDistance := app.Camera.distance
	savedAngleX := app.Camera.angleX
	savedAngleY := app.Camera.angleY
	savedTarget := app.Camera.target
	oldCenter := app.Terrain.center

	app.setTerrain(t)

	// Keep the view steady relative to the terrain center
	app.Camera.distance = savedDistance
	app.Camera.angleX = savedAngleX
	app.Camera.angleY = savedAngleY
	app.Camera.target = rl.Vector3Add(savedTarget, rl.Vector3Subtract(app.Terrain.center, oldCenter))

	app.log.Info("terrain reloaded",
		"file", app.FileWatch.sourceFile,
		"seconds", time.Since(app.FileWatch.loadingStart).Seconds())
}
