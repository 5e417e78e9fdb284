package measure

import (
	"log/slog"

	"github.com/eric-ce/terrameasure/pkg/geometry"
)

// DefaultEpsilon is the coincidence tolerance in world units: appending a
// vertex closer than this to any existing vertex is a no-op.
const DefaultEpsilon = 0.3

// Store owns all measurement paths and is the only place that mutates them.
// At most one path is the open draft, tracked by ID rather than by aliasing
// its vertex slice. Every operation that references a path or vertex which is
// no longer present is a silent no-op; the editor must stay usable with stale
// picks in flight.
type Store struct {
	engine    *Engine
	paths     []*Path
	byID      map[PathID]*Path
	nextID    PathID
	draftID   PathID
	finalized int
	epsilon   float64
	onRecord  RecordFunc
	log       *slog.Logger
}

// NewStore creates an empty path store backed by the given distance engine
func NewStore(engine *Engine) *Store {
	return &Store{
		engine:  engine,
		byID:    make(map[PathID]*Path),
		nextID:  1,
		draftID: NoPath,
		epsilon: DefaultEpsilon,
		log:     slog.Default(),
	}
}

// SetRecordFunc installs the callback fired on every commit
func (s *Store) SetRecordFunc(fn RecordFunc) {
	s.onRecord = fn
}

// SetEpsilon overrides the vertex coincidence tolerance
func (s *Store) SetEpsilon(eps float64) {
	s.epsilon = eps
}

// FinalizedCount returns how many paths have been finalized so far. It is
// also the label number the next finalized path will receive.
func (s *Store) FinalizedCount() int {
	return s.finalized
}

// Engine returns the distance engine backing this store
func (s *Store) Engine() *Engine {
	return s.engine
}

// Paths returns all stored paths in creation order
func (s *Store) Paths() []*Path {
	return s.paths
}

// Path looks up a path by ID
func (s *Store) Path(id PathID) (*Path, bool) {
	p, ok := s.byID[id]
	return p, ok
}

// Draft returns the open draft path, or nil when none is open
func (s *Store) Draft() *Path {
	if s.draftID == NoPath {
		return nil
	}
	return s.byID[s.draftID]
}

// StartPath opens a new empty draft. If a draft is already open it is
// returned unchanged.
func (s *Store) StartPath() *Path {
	if draft := s.Draft(); draft != nil {
		return draft
	}
	p := &Path{
		ID:          s.nextID,
		LabelNumber: -1,
	}
	s.nextID++
	s.paths = append(s.paths, p)
	s.byID[p.ID] = p
	s.draftID = p.ID
	return p
}

// AppendVertex adds a vertex to the open draft. The append is rejected when
// no draft is open or when pos coincides (within epsilon) with any existing
// vertex of any path. Returns the new vertex index and whether it was added.
func (s *Store) AppendVertex(pos geometry.Vector3) (int, bool) {
	draft := s.Draft()
	if draft == nil {
		s.log.Debug("append ignored: no open draft")
		return -1, false
	}
	for _, p := range s.paths {
		for _, v := range p.Vertices {
			if v.Distance(pos) < s.epsilon {
				s.log.Debug("append ignored: coincident vertex", "path", p.ID)
				return -1, false
			}
		}
	}
	draft.Vertices = append(draft.Vertices, pos)
	return len(draft.Vertices) - 1, true
}

// FinalizePath commits the open draft: it is marked committed, stamped with
// the next finalized-path number, and a DistanceRecord for the full path is
// emitted. An empty draft is discarded instead. The path stays in the store
// for later editing.
func (s *Store) FinalizePath() (*Path, bool) {
	draft := s.Draft()
	if draft == nil {
		s.log.Debug("finalize ignored: no open draft")
		return nil, false
	}
	s.draftID = NoPath
	if len(draft.Vertices) == 0 {
		s.removePath(draft.ID)
		return nil, false
	}
	draft.Committed = true
	draft.LabelNumber = s.finalized
	s.finalized++
	s.emit(draft, CommitFinalize)
	return draft, true
}

// DeleteVertex removes the vertex at index from the path. Deleting the last
// remaining vertex removes the path entirely; deleting an interior vertex
// implicitly reconnects its neighbors into a single segment. A
// DistanceRecord is emitted for the path's new state.
func (s *Store) DeleteVertex(id PathID, index int) (removedPath bool, ok bool) {
	p, found := s.byID[id]
	if !found || index < 0 || index >= len(p.Vertices) {
		s.log.Debug("delete ignored: stale vertex reference", "path", id, "index", index)
		return false, false
	}

	p.Vertices = append(p.Vertices[:index], p.Vertices[index+1:]...)
	if len(p.Vertices) == 0 {
		s.removePath(id)
		s.emitRemoved(id)
		return true, true
	}
	s.emit(p, CommitDelete)
	return false, true
}

// InsertVertexOnSegment splits segment segIndex of the path by inserting pos
// between its endpoints. Following segments shift one ordinal and are
// relabeled by derivation. A DistanceRecord is emitted.
func (s *Store) InsertVertexOnSegment(id PathID, segIndex int, pos geometry.Vector3) bool {
	p, found := s.byID[id]
	if !found || segIndex < 0 || segIndex >= p.SegmentCount() {
		s.log.Debug("insert ignored: stale segment reference", "path", id, "segment", segIndex)
		return false
	}

	at := segIndex + 1
	p.Vertices = append(p.Vertices, geometry.Vector3{})
	copy(p.Vertices[at+1:], p.Vertices[at:])
	p.Vertices[at] = pos

	s.emit(p, CommitInsert)
	return true
}

// MoveVertex updates a vertex position in place. Identity and index are
// unchanged. No record is emitted; the editor calls CommitMove when the drag
// ends.
func (s *Store) MoveVertex(id PathID, index int, pos geometry.Vector3) bool {
	p, found := s.byID[id]
	if !found || index < 0 || index >= len(p.Vertices) {
		s.log.Debug("move ignored: stale vertex reference", "path", id, "index", index)
		return false
	}
	p.Vertices[index] = pos
	return true
}

// CommitMove emits the DistanceRecord for a completed vertex drag
func (s *Store) CommitMove(id PathID) bool {
	p, found := s.byID[id]
	if !found {
		s.log.Debug("move commit ignored: stale path reference", "path", id)
		return false
	}
	s.emit(p, CommitMove)
	return true
}

func (s *Store) removePath(id PathID) {
	delete(s.byID, id)
	for i, p := range s.paths {
		if p.ID == id {
			s.paths = append(s.paths[:i], s.paths[i+1:]...)
			break
		}
	}
	if s.draftID == id {
		s.draftID = NoPath
	}
}

func (s *Store) emit(p *Path, kind CommitKind) {
	if s.onRecord == nil {
		return
	}
	d := s.engine.PathDistances(p)
	s.onRecord(DistanceRecord{
		Path:             p.ID,
		Kind:             kind,
		SegmentDistances: d.Segments,
		TotalDistance:    d.Total,
	})
}

// emitRemoved reports the commit that deleted a path's last vertex
func (s *Store) emitRemoved(id PathID) {
	if s.onRecord == nil {
		return
	}
	s.onRecord(DistanceRecord{Path: id, Kind: CommitDelete})
}
