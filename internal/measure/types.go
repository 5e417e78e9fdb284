package measure

import (
	"github.com/eric-ce/terrameasure/pkg/geometry"
)

// PathID identifies a measurement path. Zero is never a valid ID.
type PathID int

// NoPath is the zero PathID, used when no draft is open
const NoPath PathID = 0

// Path is an ordered sequence of measurement vertices. While a path is the
// open draft its vertices accumulate as the user clicks; Finalize marks it
// committed and stamps its label number, which never changes afterwards.
type Path struct {
	ID          PathID
	Vertices    []geometry.Vector3
	Committed   bool
	LabelNumber int // finalized-path ordinal; -1 while drafting
}

// SegmentCount returns the number of implied segments between vertices
func (p *Path) SegmentCount() int {
	if len(p.Vertices) < 2 {
		return 0
	}
	return len(p.Vertices) - 1
}

// Segment returns the endpoints of segment i
func (p *Path) Segment(i int) (geometry.Vector3, geometry.Vector3) {
	return p.Vertices[i], p.Vertices[i+1]
}

// Distances holds per-segment distances and their sum for one path
type Distances struct {
	Segments []float64
	Total    float64
}

// CommitKind names the structural mutation that produced a DistanceRecord
type CommitKind int

const (
	CommitFinalize CommitKind = iota
	CommitDelete
	CommitInsert
	CommitMove
)

// String returns the commit kind name for logging
func (k CommitKind) String() string {
	switch k {
	case CommitFinalize:
		return "finalize"
	case CommitDelete:
		return "delete"
	case CommitInsert:
		return "insert"
	case CommitMove:
		return "move"
	}
	return "unknown"
}

// DistanceRecord is emitted on every commit. It is the engine's sole
// data-egress point.
type DistanceRecord struct {
	Path             PathID
	Kind             CommitKind
	SegmentDistances []float64
	TotalDistance    float64
}

// RecordFunc receives DistanceRecords as commits happen
type RecordFunc func(DistanceRecord)
