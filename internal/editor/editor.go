// Package editor drives the measurement engine from pointer events. It is
// the single place that routes input by interaction state; frontends feed it
// the five pointer events and never touch the store or sync directly.
package editor

import (
	"log/slog"

	"github.com/eric-ce/terrameasure/internal/measure"
	"github.com/eric-ce/terrameasure/internal/scene"
	"github.com/eric-ce/terrameasure/pkg/geometry"
)

// State is the editor interaction state
type State int

const (
	// Idle: no paths drawn yet, nothing armed
	Idle State = iota
	// Drawing: a draft path is open and accumulating vertices
	Drawing
	// Finalized: paths exist, pointer picks committed elements for editing
	Finalized
	// AddMode: a committed segment is armed, the next plain click inserts
	AddMode
	// Dragging: a committed vertex follows the pointer until release
	Dragging
)

// String returns the state name for logging
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Drawing:
		return "drawing"
	case Finalized:
		return "finalized"
	case AddMode:
		return "add-mode"
	case Dragging:
		return "dragging"
	}
	return "unknown"
}

// DragThresholdPx is the pixel distance a pressed pointer must move before a
// press on a vertex becomes a drag instead of a click
const DragThresholdPx = 5.0

// Editor is the interaction state machine. All event methods run
// synchronously on the frontend's event thread; one event is fully applied
// before the next is dispatched.
type Editor struct {
	store   *measure.Store
	sync    *scene.Sync
	adapter scene.Adapter

	state State
	prior State // state to restore when a drag ends

	pointerDown   bool
	downPos       scene.ScreenPos
	dragRef       *scene.Ref // committed vertex under the pressed pointer
	dragPos       geometry.Vector3
	hasDragPos    bool
	addTarget     *scene.Ref // armed add-mode segment
	suppressClick bool

	log *slog.Logger
}

// New creates an editor over a store, its visual sync, and the scene adapter
func New(store *measure.Store, sync *scene.Sync, adapter scene.Adapter) *Editor {
	return &Editor{
		store:   store,
		sync:    sync,
		adapter: adapter,
		state:   Idle,
		log:     slog.Default(),
	}
}

// State returns the current interaction state
func (e *Editor) State() State {
	return e.state
}

// PointerDown records the press position and remembers a committed vertex
// under the pointer as the drag candidate
func (e *Editor) PointerDown(p scene.ScreenPos) {
	e.pointerDown = true
	e.downPos = p
	e.dragRef = nil
	// A click suppressed at the end of the previous gesture must not leak
	// into this one. Frontends are free to skip delivering that click.
	e.suppressClick = false

	hit, ok := e.adapter.PickTopmost(p)
	if !ok {
		return
	}
	ref, ok := e.sync.Resolve(hit.ID)
	if !ok || ref.Kind != scene.KindMarker {
		return
	}
	if path, found := e.store.Path(ref.Path); found && path.Committed {
		e.dragRef = &ref
	}
}

// PointerMove updates previews and hover highlighting. A pressed pointer
// crossing the drag threshold over a committed vertex starts a drag.
func (e *Editor) PointerMove(p scene.ScreenPos) {
	if e.state == Dragging {
		e.dragMove(p)
		return
	}
	if e.pointerDown && e.dragRef != nil &&
		p.DistSq(e.downPos) > DragThresholdPx*DragThresholdPx {
		e.beginDrag()
		e.dragMove(p)
		return
	}

	if e.state == Drawing {
		e.updateDrawPreview(p)
		return
	}
	if hit, ok := e.adapter.PickTopmost(p); ok {
		e.sync.Hover(hit.ID)
	} else {
		e.sync.Hover(scene.NoElement)
	}
}

// PointerUp commits a running drag; a below-threshold press/release pair is
// left for the frontend's plain click
func (e *Editor) PointerUp(p scene.ScreenPos) {
	e.pointerDown = false
	if e.state != Dragging {
		e.dragRef = nil
		return
	}

	ref := *e.dragRef
	if e.hasDragPos {
		e.store.MoveVertex(ref.Path, ref.Ordinal, e.dragPos)
		e.store.CommitMove(ref.Path)
	}
	e.finishDrag(ref)
}

// PrimaryClick places vertices, arms add mode, performs armed inserts, and
// starts new paths, depending on state
func (e *Editor) PrimaryClick(p scene.ScreenPos) {
	if e.suppressClick {
		e.suppressClick = false
		return
	}

	switch e.state {
	case Drawing:
		e.appendAt(p)
	case AddMode:
		e.insertAt(p)
	default: // Idle, Finalized
		e.pickOrStart(p)
	}
}

// SecondaryClick finishes the open draft path
func (e *Editor) SecondaryClick(p scene.ScreenPos) {
	if e.state != Drawing {
		return
	}
	draft := e.store.Draft()
	e.sync.ClearDrawPreview()

	path, ok := e.store.FinalizePath()
	if !ok {
		// empty draft was discarded
		if draft != nil {
			e.sync.RemovePath(draft.ID)
		}
		e.state = Finalized
		return
	}
	e.sync.FinalizePath(path, e.store.Engine().PathDistances(path))
	e.state = Finalized
}

// Escape cancels an armed add mode or an in-flight drag without persisting
// speculative changes
func (e *Editor) Escape() {
	switch e.state {
	case AddMode:
		e.sync.ClearInsertSelection()
		e.addTarget = nil
		e.state = Finalized
	case Dragging:
		e.CancelDrag()
	}
}

// CancelDrag aborts an in-flight drag and restores the committed visuals.
// Frontends call it when the pointer leaves every pickable surface.
func (e *Editor) CancelDrag() {
	if e.state != Dragging {
		return
	}
	e.finishDrag(*e.dragRef)
}

func (e *Editor) appendAt(p scene.ScreenPos) {
	world, ok := e.adapter.PointerToWorld(p)
	if !ok {
		return
	}
	if _, added := e.store.AppendVertex(world); !added {
		return
	}
	draft := e.store.Draft()
	e.sync.RefreshPath(draft, e.store.Engine().PathDistances(draft), e.store.FinalizedCount())
}

func (e *Editor) insertAt(p scene.ScreenPos) {
	// clicking another committed segment re-arms instead of inserting
	if hit, ok := e.adapter.PickTopmost(p); ok {
		if ref, found := e.sync.Resolve(hit.ID); found && e.isCommittedSegment(ref) &&
			(e.addTarget == nil || ref != *e.addTarget) {
			e.sync.SelectForInsert(hit.ID)
			e.addTarget = &ref
			return
		}
	}

	target := e.addTarget
	e.sync.ClearInsertSelection()
	e.addTarget = nil
	e.state = Finalized

	world, ok := e.adapter.PointerToWorld(p)
	if !ok || target == nil {
		return
	}
	if !e.store.InsertVertexOnSegment(target.Path, target.Ordinal, world) {
		return
	}
	if path, found := e.store.Path(target.Path); found {
		e.sync.RefreshPath(path, e.store.Engine().PathDistances(path), path.LabelNumber)
	}
}

func (e *Editor) pickOrStart(p scene.ScreenPos) {
	if hit, ok := e.adapter.PickTopmost(p); ok {
		if ref, found := e.sync.Resolve(hit.ID); found {
			if e.isCommittedSegment(ref) {
				e.sync.SelectForInsert(hit.ID)
				e.addTarget = &ref
				e.state = AddMode
			}
			// committed vertices and totals: click selects, editing
			// them happens through drag or the host's label modal
			return
		}
	}

	world, ok := e.adapter.PointerToWorld(p)
	if !ok {
		return
	}
	e.store.StartPath()
	if _, added := e.store.AppendVertex(world); !added {
		// coincident first click: keep the draft open for the next one
		e.state = Drawing
		return
	}
	draft := e.store.Draft()
	e.sync.RefreshPath(draft, e.store.Engine().PathDistances(draft), e.store.FinalizedCount())
	e.state = Drawing
}

// DeleteVertexAt removes the committed vertex under the screen position,
// reconnecting its neighbors when it had two
func (e *Editor) DeleteVertexAt(p scene.ScreenPos) bool {
	hit, ok := e.adapter.PickTopmost(p)
	if !ok {
		return false
	}
	ref, found := e.sync.Resolve(hit.ID)
	if !found || ref.Kind != scene.KindMarker {
		return false
	}
	// Draft vertices are not editable; only committed paths take deletes
	if path, exists := e.store.Path(ref.Path); !exists || !path.Committed {
		return false
	}
	removed, ok := e.store.DeleteVertex(ref.Path, ref.Ordinal)
	if !ok {
		return false
	}
	if removed {
		e.sync.RemovePath(ref.Path)
		return true
	}
	if path, exists := e.store.Path(ref.Path); exists {
		e.sync.RefreshPath(path, e.store.Engine().PathDistances(path), path.LabelNumber)
	}
	return true
}

func (e *Editor) updateDrawPreview(p scene.ScreenPos) {
	draft := e.store.Draft()
	if draft == nil || len(draft.Vertices) == 0 {
		return
	}
	world, ok := e.adapter.PointerToWorld(p)
	if !ok {
		return
	}
	last := draft.Vertices[len(draft.Vertices)-1]
	// cheap single-segment estimate; no terrain queries during moves
	dist := measure.StraightDistance(last, world)
	text := measure.SegmentLabel(draft.SegmentCount(), e.store.FinalizedCount(), dist)
	e.sync.UpdateDrawPreview(last, world, text)
}

func (e *Editor) beginDrag() {
	ref := *e.dragRef
	path, found := e.store.Path(ref.Path)
	if !found || ref.Ordinal >= len(path.Vertices) {
		e.dragRef = nil
		return
	}
	e.sync.Hover(scene.NoElement)
	e.sync.BeginDrag(path, ref.Ordinal, path.LabelNumber)
	e.adapter.SuppressCameraControls(true)
	e.prior = e.state
	e.state = Dragging
	e.hasDragPos = false
}

func (e *Editor) dragMove(p scene.ScreenPos) {
	world, ok := e.adapter.PointerToWorld(p)
	if !ok {
		// pointer left every pickable surface
		e.CancelDrag()
		return
	}
	e.dragPos = world
	e.hasDragPos = true
	e.sync.UpdateDrag(world)
}

// finishDrag tears down the substitutes and restores committed visuals from
// store state, which is authoritative for both commit and cancel
func (e *Editor) finishDrag(ref scene.Ref) {
	if path, found := e.store.Path(ref.Path); found {
		e.sync.EndDrag(path, e.store.Engine().PathDistances(path), path.LabelNumber)
	}
	e.adapter.SuppressCameraControls(false)
	e.state = e.prior
	e.dragRef = nil
	e.hasDragPos = false
	e.pointerDown = false
	e.suppressClick = true
}

func (e *Editor) isCommittedSegment(ref scene.Ref) bool {
	if ref.Kind != scene.KindLine && ref.Kind != scene.KindLabel {
		return false
	}
	path, found := e.store.Path(ref.Path)
	return found && path.Committed
}
