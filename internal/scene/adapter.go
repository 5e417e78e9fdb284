package scene

import (
	"github.com/eric-ce/terrameasure/pkg/geometry"
	"github.com/eric-ce/terrameasure/pkg/terrain"
)

// ElementID identifies a visual element owned by the scene backend.
// Zero means "no element"; creation calls return it on rejection.
type ElementID int64

// NoElement is the zero ElementID
const NoElement ElementID = 0

// Kind distinguishes the visual element families kept in sync with paths
type Kind int

const (
	KindMarker Kind = iota // one per vertex
	KindLine               // one per segment
	KindLabel              // one per segment
	KindTotal              // one per finalized path
)

// ScreenPos is a position in screen pixels
type ScreenPos struct {
	X, Y float64
}

// DistSq returns the squared pixel distance to another screen position
func (p ScreenPos) DistSq(other ScreenPos) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return dx*dx + dy*dy
}

// PickHit is one element found under a screen position
type PickHit struct {
	ID       ElementID
	World    geometry.Vector3
	HasWorld bool
}

// Adapter is the rendering backend collaborating with the editor. It owns
// element lifetimes and picking; the engine never touches the scene graph
// directly. Implementations must reject CreateLine calls with fewer than two
// points by returning NoElement, and must answer height queries with ok=false
// when sampling is unsupported in the current mode.
type Adapter interface {
	terrain.Sampler

	PickTopmost(p ScreenPos) (PickHit, bool)
	PickAllAt(p ScreenPos, limit int) []PickHit
	PointerToWorld(p ScreenPos) (geometry.Vector3, bool)

	CreateMarker(pos geometry.Vector3) ElementID
	CreateLine(points []geometry.Vector3) ElementID
	CreateLabel(text string, pos geometry.Vector3) ElementID

	SetMarker(id ElementID, pos geometry.Vector3)
	SetLine(id ElementID, points []geometry.Vector3)
	SetLabel(id ElementID, text string, pos geometry.Vector3)
	SetHighlight(id ElementID, on bool)

	Remove(id ElementID)
	SuppressCameraControls(suppress bool)
}
