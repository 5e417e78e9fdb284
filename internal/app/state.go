package app

import (
	"sync/atomic"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/eric-ce/terrameasure/internal/measure"
	"github.com/eric-ce/terrameasure/pkg/terrain"
	"github.com/eric-ce/terrameasure/pkg/watcher"
)

// CameraState holds all camera-related state
type CameraState struct {
	camera        rl.Camera3D
	distance      float32
	angleX        float32
	angleY        float32
	target        rl.Vector3 // Current camera target (can be panned)
	defaultDist   float32    // Default camera distance (for reset)
	defaultAngleX float32    // Default camera angle X (for reset)
	defaultAngleY float32    // Default camera angle Y (for reset)
	suppressed    bool       // Orbit/pan/zoom disabled while a vertex drag is active
}

// TerrainData holds the loaded terrain and its GPU resources
type TerrainData struct {
	terrain  *terrain.Terrain
	mesh     rl.Mesh
	hasMesh  bool
	material rl.Material
	center   rl.Vector3 // Terrain center
	size     float32    // Terrain size (max dimension)
}

// ViewSettings holds display settings
type ViewSettings struct {
	showWireframe bool
	showHelp      bool
	showRecords   bool
}

// InteractionState holds mouse state for click vs drag detection
type InteractionState struct {
	mouseDownPos rl.Vector2
	mouseMoved   bool
	isPanning    bool
}

// FileWatchState holds heightmap watching and reload state.
// The atomics are written from watcher and loader goroutines and
// consumed on the main thread each frame.
type FileWatchState struct {
	sourceFile   string           // Heightmap path, empty for procedural terrain
	fileWatcher  *watcher.Watcher // File watcher for auto-reload
	needsReload  atomic.Bool      // Set by the watcher callback
	isLoading    bool             // A background parse is in progress (main thread only)
	loadingStart time.Time
	loaded       atomic.Pointer[terrain.Terrain] // Parsed terrain waiting to be applied
	loadDone     atomic.Bool                     // Background parse finished (nil loaded means failure)
}

// UIState holds UI-related state
type UIState struct {
	font    rl.Font
	records []measure.DistanceRecord // Most recent last
}
