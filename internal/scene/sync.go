package scene

import (
	"log/slog"

	"github.com/eric-ce/terrameasure/internal/measure"
	"github.com/eric-ce/terrameasure/pkg/geometry"
)

// Ref addresses one visual element by what it represents: a vertex marker,
// a segment line or label, or a path total. Ordinal is the vertex index for
// markers and the segment ordinal for lines and labels.
type Ref struct {
	Kind    Kind
	Path    measure.PathID
	Ordinal int
}

// dragPreview is the fixed substitute pool alive during a vertex drag
type dragPreview struct {
	path      measure.PathID
	index     int
	number    int
	neighbors []geometry.Vector3 // one per adjoining segment
	ordinals  []int              // segment ordinals the substitutes stand in for
	lines     []ElementID
	labels    []ElementID
}

// Sync derives the visual elements for every path from store state and keeps
// them consistent across mutations. Elements are tracked in typed indexes
// keyed by Ref, never by parsing formatted ID strings. Preview elements
// (drawing and dragging) live in small fixed pools that are mutated in place
// on pointer moves instead of being recreated.
type Sync struct {
	adapter Adapter

	byRef    map[Ref]ElementID
	elements map[ElementID]Ref
	pending  map[measure.PathID]bool

	highlight    ElementID
	insertTarget ElementID

	previewLine  ElementID
	previewLabel ElementID
	drag         *dragPreview

	log *slog.Logger
}

// NewSync creates a visual sync bound to a scene adapter
func NewSync(adapter Adapter) *Sync {
	return &Sync{
		adapter:  adapter,
		byRef:    make(map[Ref]ElementID),
		elements: make(map[ElementID]Ref),
		pending:  make(map[measure.PathID]bool),
		log:      slog.Default(),
	}
}

// Resolve maps a picked element back to what it represents
func (s *Sync) Resolve(id ElementID) (Ref, bool) {
	ref, ok := s.elements[id]
	return ref, ok
}

// Element returns the element currently representing ref
func (s *Sync) Element(ref Ref) (ElementID, bool) {
	id, ok := s.byRef[ref]
	return id, ok
}

// IsPending reports whether a path's visuals are still tagged as draft
func (s *Sync) IsPending(id measure.PathID) bool {
	return s.pending[id]
}

// RefreshPath reconciles all of a path's visuals with its current vertices
// and distances. Existing elements are mutated in place, missing ones
// created, stale ones removed, so every mutation ends with an exact
// path-to-element bijection. number is the label number to render; for an
// open draft that is the number the path would receive at finalize.
func (s *Sync) RefreshPath(p *measure.Path, d measure.Distances, number int) {
	for i, v := range p.Vertices {
		s.upsertMarker(Ref{KindMarker, p.ID, i}, v)
	}
	s.trimOrdinals(KindMarker, p.ID, len(p.Vertices))

	for i := 0; i < p.SegmentCount(); i++ {
		a, b := p.Segment(i)
		s.upsertLine(Ref{KindLine, p.ID, i}, a, b)

		text := measure.SegmentLabel(i, number, d.Segments[i])
		s.upsertLabel(Ref{KindLabel, p.ID, i}, text, a.Lerp(b, 0.5))
	}
	s.trimOrdinals(KindLine, p.ID, p.SegmentCount())
	s.trimOrdinals(KindLabel, p.ID, p.SegmentCount())

	totalRef := Ref{KindTotal, p.ID, 0}
	if p.Committed && p.SegmentCount() > 0 {
		anchor := p.Vertices[len(p.Vertices)-1]
		s.upsertLabel(totalRef, measure.TotalLabel(d.Total), anchor)
	} else {
		s.removeRef(totalRef)
	}

	if !p.Committed {
		s.pending[p.ID] = true
	}
}

// FinalizePath clears the path's pending tags atomically and brings its
// visuals (including the total label) to committed state
func (s *Sync) FinalizePath(p *measure.Path, d measure.Distances) {
	delete(s.pending, p.ID)
	s.ClearDrawPreview()
	s.RefreshPath(p, d, p.LabelNumber)
}

// RemovePath removes every element belonging to a path
func (s *Sync) RemovePath(id measure.PathID) {
	for ref, el := range s.byRef {
		if ref.Path != id {
			continue
		}
		s.adapter.Remove(el)
		s.untrack(ref, el)
	}
	delete(s.pending, id)
}

// Hover highlights the element under the pointer, always clearing the
// previous highlight first. The add-mode insert target keeps its highlight.
func (s *Sync) Hover(id ElementID) {
	if s.highlight == id {
		return
	}
	if s.highlight != NoElement && s.highlight != s.insertTarget {
		s.adapter.SetHighlight(s.highlight, false)
	}
	s.highlight = NoElement
	if id != NoElement {
		s.adapter.SetHighlight(id, true)
		s.highlight = id
	}
}

// SelectForInsert highlights a committed segment as the armed add-mode target
func (s *Sync) SelectForInsert(id ElementID) {
	if s.insertTarget != NoElement && s.insertTarget != id {
		s.adapter.SetHighlight(s.insertTarget, false)
	}
	s.insertTarget = id
	s.adapter.SetHighlight(id, true)
}

// InsertTarget returns the currently armed add-mode element
func (s *Sync) InsertTarget() ElementID {
	return s.insertTarget
}

// ClearInsertSelection disarms add mode
func (s *Sync) ClearInsertSelection() {
	if s.insertTarget != NoElement {
		s.adapter.SetHighlight(s.insertTarget, false)
	}
	s.insertTarget = NoElement
}

// UpdateDrawPreview mutates the single drawing preview line+label in place,
// creating them on first use
func (s *Sync) UpdateDrawPreview(from, to geometry.Vector3, text string) {
	points := []geometry.Vector3{from, to}
	mid := from.Lerp(to, 0.5)
	if s.previewLine == NoElement {
		s.previewLine = s.adapter.CreateLine(points)
		s.previewLabel = s.adapter.CreateLabel(text, mid)
		return
	}
	s.adapter.SetLine(s.previewLine, points)
	s.adapter.SetLabel(s.previewLabel, text, mid)
}

// ClearDrawPreview discards the drawing preview elements
func (s *Sync) ClearDrawPreview() {
	if s.previewLine != NoElement {
		s.adapter.Remove(s.previewLine)
		s.previewLine = NoElement
	}
	if s.previewLabel != NoElement {
		s.adapter.Remove(s.previewLabel)
		s.previewLabel = NoElement
	}
}

// BeginDrag removes the dragged vertex's adjoining committed lines and
// labels and spawns moving substitutes (up to two pairs for an interior
// vertex). number is the path's label number for the substitute label texts.
func (s *Sync) BeginDrag(p *measure.Path, index, number int) {
	drag := &dragPreview{path: p.ID, index: index, number: number}

	if index > 0 {
		drag.neighbors = append(drag.neighbors, p.Vertices[index-1])
		drag.ordinals = append(drag.ordinals, index-1)
	}
	if index < len(p.Vertices)-1 {
		drag.neighbors = append(drag.neighbors, p.Vertices[index+1])
		drag.ordinals = append(drag.ordinals, index)
	}

	pos := p.Vertices[index]
	for i, ordinal := range drag.ordinals {
		s.removeRef(Ref{KindLine, p.ID, ordinal})
		s.removeRef(Ref{KindLabel, p.ID, ordinal})

		neighbor := drag.neighbors[i]
		dist := measure.StraightDistance(neighbor, pos)
		text := measure.SegmentLabel(ordinal, number, dist)
		drag.lines = append(drag.lines, s.adapter.CreateLine([]geometry.Vector3{neighbor, pos}))
		drag.labels = append(drag.labels, s.adapter.CreateLabel(text, neighbor.Lerp(pos, 0.5)))
	}
	s.drag = drag
}

// UpdateDrag moves only the substitute elements and the dragged marker.
// Distances shown are cheap straight-line estimates; the full recompute
// happens at commit.
func (s *Sync) UpdateDrag(pos geometry.Vector3) {
	if s.drag == nil {
		return
	}
	for i, neighbor := range s.drag.neighbors {
		dist := measure.StraightDistance(neighbor, pos)
		text := measure.SegmentLabel(s.drag.ordinals[i], s.drag.number, dist)
		s.adapter.SetLine(s.drag.lines[i], []geometry.Vector3{neighbor, pos})
		s.adapter.SetLabel(s.drag.labels[i], text, neighbor.Lerp(pos, 0.5))
	}
	if marker, ok := s.byRef[Ref{KindMarker, s.drag.path, s.drag.index}]; ok {
		s.adapter.SetMarker(marker, pos)
	}
}

// Dragging reports whether a drag preview is active
func (s *Sync) Dragging() bool {
	return s.drag != nil
}

// EndDrag discards the substitutes and rebuilds the path's committed
// visuals from store state. It serves both commit and cancel: the store
// already holds the authoritative positions in either case.
func (s *Sync) EndDrag(p *measure.Path, d measure.Distances, number int) {
	if s.drag == nil {
		return
	}
	for _, el := range s.drag.lines {
		s.adapter.Remove(el)
	}
	for _, el := range s.drag.labels {
		s.adapter.Remove(el)
	}
	s.drag = nil
	s.RefreshPath(p, d, number)
}

func (s *Sync) upsertMarker(ref Ref, pos geometry.Vector3) {
	if el, ok := s.byRef[ref]; ok {
		s.adapter.SetMarker(el, pos)
		return
	}
	s.track(ref, s.adapter.CreateMarker(pos))
}

func (s *Sync) upsertLine(ref Ref, a, b geometry.Vector3) {
	points := []geometry.Vector3{a, b}
	if el, ok := s.byRef[ref]; ok {
		s.adapter.SetLine(el, points)
		return
	}
	s.track(ref, s.adapter.CreateLine(points))
}

func (s *Sync) upsertLabel(ref Ref, text string, pos geometry.Vector3) {
	if el, ok := s.byRef[ref]; ok {
		s.adapter.SetLabel(el, text, pos)
		return
	}
	s.track(ref, s.adapter.CreateLabel(text, pos))
}

// trimOrdinals removes elements of one kind whose ordinal is now past the end
func (s *Sync) trimOrdinals(kind Kind, path measure.PathID, count int) {
	for ref, el := range s.byRef {
		if ref.Kind == kind && ref.Path == path && ref.Ordinal >= count {
			s.adapter.Remove(el)
			s.untrack(ref, el)
		}
	}
}

func (s *Sync) track(ref Ref, id ElementID) {
	if id == NoElement {
		return
	}
	s.byRef[ref] = id
	s.elements[id] = ref
}

func (s *Sync) untrack(ref Ref, id ElementID) {
	delete(s.byRef, ref)
	delete(s.elements, id)
	if s.highlight == id {
		s.highlight = NoElement
	}
	if s.insertTarget == id {
		s.insertTarget = NoElement
	}
}

func (s *Sync) removeRef(ref Ref) {
	el, ok := s.byRef[ref]
	if !ok {
		return
	}
	s.adapter.Remove(el)
	s.untrack(ref, el)
}
