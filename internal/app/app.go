package app

import (
	"fmt"
	"log/slog"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/eric-ce/terrameasure/internal/editor"
	"github.com/eric-ce/terrameasure/internal/measure"
	"github.com/eric-ce/terrameasure/internal/scene"
	"github.com/eric-ce/terrameasure/pkg/terrain"
)

// Config carries the command-line options into the viewer.
type Config struct {
	HeightmapFile string // PGM heightmap; procedural terrain when empty
	CellSize      float64
	HeightScale   float64
	Seed          int64
	Cols          int // Procedural terrain dimensions
	Rows          int
	Clamp         bool    // Start in ground-clamped distance mode
	Interval      float64 // Clamping subdivision interval in world units
	Epsilon       float64 // Coincident vertex rejection radius, 0 keeps the default
}

type App struct {
	Camera      CameraState
	Terrain     TerrainData
	View        ViewSettings
	Interaction InteractionState
	FileWatch   FileWatchState
	UI          UIState

	scene  *SceneView
	store  *measure.Store
	editor *editor.Editor
	log    *slog.Logger
}

// Run starts the interactive viewer and blocks until the window closes.
func Run(cfg Config) error {
	t, err := loadTerrain(cfg)
	if err != nil {
		return fmt.Errorf("failed to load terrain: %w", err)
	}

	screenWidth := int32(1400)
	screenHeight := int32(900)
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagWindowHighdpi | rl.FlagMsaa4xHint) // Must be before InitWindow
	rl.InitWindow(screenWidth, screenHeight, "terrameasure")
	rl.SetTargetFPS(60)

	app := &App{
		View: ViewSettings{
			showRecords: true,
		},
		FileWatch: FileWatchState{
			sourceFile: cfg.HeightmapFile,
		},
		log: slog.Default().With("component", "app"),
	}

	app.Terrain.material = rl.LoadMaterialDefault()
	app.UI.font = rl.GetFontDefault()
	app.setTerrain(t)

	// Measurement engine, path store and visual sync share one scene backend.
	app.scene = NewSceneView(app)
	mode := measure.Straight
	if cfg.Clamp {
		mode = measure.GroundClamped
	}
	engine := measure.NewEngine(mode, cfg.Interval, app.scene)
	app.store = measure.NewStore(engine)
	if cfg.Epsilon > 0 {
		app.store.SetEpsilon(cfg.Epsilon)
	}
	app.store.SetRecordFunc(app.onRecord)
	app.editor = editor.New(app.store, scene.NewSync(app.scene), app.scene)

	if cfg.HeightmapFile != "" {
		if err := app.setupFileWatcher(); err != nil {
			app.log.Warn("file watching unavailable, auto-reload disabled", "error", err)
		} else {
			defer app.FileWatch.fileWatcher.Close()
		}
	}

	app.setupCamera()

	for {
		// ESC is handled by the editor, not as window close
		if rl.WindowShouldClose() && !rl.IsKeyPressed(rl.KeyEscape) {
			break
		}
		ctrlPressed := rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl)
		if ctrlPressed && rl.IsKeyPressed(rl.KeyC) {
			break
		}

		if app.FileWatch.needsReload.CompareAndSwap(true, false) {
			app.reloadTerrain(cfg)
		}
		app.applyLoadedTerrain()

		app.handleInput()
		app.updateCamera()

		rl.BeginDrawing()
		rl.ClearBackground(rl.NewColor(15, 18, 25, 255))

		rl.BeginMode3D(app.Camera.camera)
		rl.DrawMesh(app.Terrain.mesh, app.Terrain.material, rl.MatrixIdentity())
		if app.View.showWireframe {
			app.drawWireframe()
		}
		rl.EndMode3D()

		// Measurement elements render in screen space over the terrain
		app.scene.Draw()
		app.drawUI()

		rl.EndDrawing()
	}

	rl.UnloadMesh(&app.Terrain.mesh)
	rl.CloseWindow()
	return nil
}

func loadTerrain(cfg Config) (*terrain.Terrain, error) {
	if cfg.HeightmapFile != "" {
		return terrain.Parse(cfg.HeightmapFile, terrain.Options{
			CellSize:    cfg.CellSize,
			HeightScale: cfg.HeightScale,
		})
	}
	cols, rows := cfg.Cols, cfg.Rows
	if cols < 2 {
		cols = 129
	}
	if rows < 2 {
		rows = 129
	}
	cellSize := cfg.CellSize
	if cellSize <= 0 {
		cellSize = 1.0
	}
	heightScale := cfg.HeightScale
	if heightScale <= 0 {
		heightScale = 20.0
	}
	return terrain.Generate(cols, rows, cellSize, heightScale, cfg.Seed), nil
}

// setTerrain swaps in a terrain and rebuilds its GPU mesh. Must run on the
// main thread.
func (app *App) setTerrain(t *terrain.Terrain) {
	if app.Terrain.hasMesh {
		oldMesh := app.Terrain.mesh
		rl.UnloadMesh(&oldMesh)
	}

	app.Terrain.terrain = t
	app.Terrain.mesh = terrainToMesh(t)
	app.Terrain.hasMesh = true

	bbox := t.BoundingBox()
	center := bbox.Center()
	size := bbox.Size()
	maxDim := math.Max(size.X, math.Max(size.Y, size.Z))

	app.Terrain.center = rl.Vector3{X: float32(center.X), Y: float32(center.Y), Z: float32(center.Z)}
	app.Terrain.size = float32(maxDim)
}

// onRecord receives every committed measurement from the store
func (app *App) onRecord(rec measure.DistanceRecord) {
	app.UI.records = append(app.UI.records, rec)
	app.log.Info("measurement committed",
		"path", int(rec.Path),
		"kind", rec.Kind.String(),
		"segments", len(rec.SegmentDistances),
		"total", measure.FormatDistance(rec.TotalDistance))
}
