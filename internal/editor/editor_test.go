package editor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eric-ce/terrameasure/internal/editor"
	"github.com/eric-ce/terrameasure/internal/measure"
	"github.com/eric-ce/terrameasure/internal/scene"
	"github.com/eric-ce/terrameasure/internal/scene/scenetest"
	"github.com/eric-ce/terrameasure/pkg/geometry"
)

type fixture struct {
	fake    *scenetest.Fake
	sync    *scene.Sync
	store   *measure.Store
	editor  *editor.Editor
	records []measure.DistanceRecord
}

func newFixture() *fixture {
	f := &fixture{fake: scenetest.New()}
	f.sync = scene.NewSync(f.fake)
	f.store = measure.NewStore(measure.NewEngine(measure.Straight, 2, nil))
	f.store.SetRecordFunc(func(r measure.DistanceRecord) {
		f.records = append(f.records, r)
	})
	f.editor = editor.New(f.store, f.sync, f.fake)
	return f
}

func sp(x, y float64) scene.ScreenPos {
	return scene.ScreenPos{X: x, Y: y}
}

// clickAt maps a screen position to a world position and clicks it
func (f *fixture) clickAt(p scene.ScreenPos, world geometry.Vector3) {
	f.fake.SetWorld(p, world)
	f.editor.PrimaryClick(p)
}

// drawPath draws and finalizes the standard 3-vertex right-angle path
func (f *fixture) drawPath(t *testing.T) *measure.Path {
	t.Helper()
	f.clickAt(sp(10, 10), geometry.NewVector3(0, 0, 0))
	f.clickAt(sp(20, 10), geometry.NewVector3(10, 0, 0))
	f.clickAt(sp(20, 20), geometry.NewVector3(10, 10, 0))
	require.Equal(t, editor.Drawing, f.editor.State())
	f.editor.SecondaryClick(sp(20, 20))
	require.Equal(t, editor.Finalized, f.editor.State())
	paths := f.store.Paths()
	require.Len(t, paths, 1)
	return paths[0]
}

// pickMarker injects a pick answer for the marker of a vertex
func (f *fixture) pickMarker(t *testing.T, at scene.ScreenPos, p *measure.Path, index int) scene.ElementID {
	t.Helper()
	id, ok := f.sync.Element(scene.Ref{Kind: scene.KindMarker, Path: p.ID, Ordinal: index})
	require.True(t, ok)
	f.fake.SetPick(at, scene.PickHit{ID: id})
	return id
}

// pickLine injects a pick answer for a segment line
func (f *fixture) pickLine(t *testing.T, at scene.ScreenPos, p *measure.Path, ordinal int) scene.ElementID {
	t.Helper()
	id, ok := f.sync.Element(scene.Ref{Kind: scene.KindLine, Path: p.ID, Ordinal: ordinal})
	require.True(t, ok)
	f.fake.SetPick(at, scene.PickHit{ID: id})
	return id
}

func TestDrawAndFinalize(t *testing.T) {
	f := newFixture()

	assert.Equal(t, editor.Idle, f.editor.State())
	p := f.drawPath(t)

	assert.True(t, p.Committed)
	assert.Equal(t, 3, f.fake.Count(scenetest.Marker))
	assert.Equal(t, 2, f.fake.Count(scenetest.Line))
	assert.ElementsMatch(t,
		[]string{"a0: 10.00 m", "b0: 10.00 m", "Total: 20.00 m"},
		f.fake.LabelTexts())

	require.Len(t, f.records, 1)
	assert.Equal(t, measure.CommitFinalize, f.records[0].Kind)
	assert.Equal(t, []float64{10, 10}, f.records[0].SegmentDistances)
	assert.InDelta(t, 20.0, f.records[0].TotalDistance, 1e-12)
}

func TestEmptyClickAfterFinalizeStartsNewPath(t *testing.T) {
	f := newFixture()
	f.drawPath(t)

	f.clickAt(sp(200, 200), geometry.NewVector3(50, 0, 50))
	assert.Equal(t, editor.Drawing, f.editor.State())
	assert.Len(t, f.store.Paths(), 2)
}

func TestDrawPreviewMutatesFixedPool(t *testing.T) {
	f := newFixture()
	f.clickAt(sp(10, 10), geometry.NewVector3(0, 0, 0))

	f.fake.SetWorld(sp(30, 10), geometry.NewVector3(20, 0, 0))
	f.editor.PointerMove(sp(30, 10))
	created := len(f.fake.Elements)

	for i := 0; i < 8; i++ {
		pos := sp(30+float64(i), 10)
		f.fake.SetWorld(pos, geometry.NewVector3(20+float64(i), 0, 0))
		f.editor.PointerMove(pos)
	}
	assert.Len(t, f.fake.Elements, created)

	f.editor.SecondaryClick(sp(40, 10))
	for _, el := range f.fake.Elements {
		if el.Kind == scenetest.Line {
			assert.Len(t, el.Points, 2)
		}
	}
}

func TestSecondaryClickOnEmptyDraftDiscardsIt(t *testing.T) {
	f := newFixture()
	f.drawPath(t)

	// open a draft whose only click lands on an existing vertex (rejected)
	f.clickAt(sp(300, 300), geometry.NewVector3(0.1, 0, 0))
	require.Equal(t, editor.Drawing, f.editor.State())

	f.editor.SecondaryClick(sp(300, 300))
	assert.Equal(t, editor.Finalized, f.editor.State())
	assert.Len(t, f.store.Paths(), 1)
}

func TestAddModeInsertOnSegment(t *testing.T) {
	f := newFixture()
	p := f.drawPath(t)

	lineID := f.pickLine(t, sp(15, 10), p, 0)
	f.editor.PrimaryClick(sp(15, 10))
	assert.Equal(t, editor.AddMode, f.editor.State())
	assert.True(t, f.fake.Elements[lineID].Highlighted)

	f.clickAt(sp(15, 11), geometry.NewVector3(5, 0, 0))
	assert.Equal(t, editor.Finalized, f.editor.State())

	last := f.records[len(f.records)-1]
	assert.Equal(t, measure.CommitInsert, last.Kind)
	assert.Equal(t, []float64{5, 5, 10}, last.SegmentDistances)
	assert.ElementsMatch(t,
		[]string{"a0: 5.00 m", "b0: 5.00 m", "c0: 10.00 m", "Total: 20.00 m"},
		f.fake.LabelTexts())
}

func TestEscapeCancelsAddModeWithoutMutation(t *testing.T) {
	f := newFixture()
	p := f.drawPath(t)
	emitted := len(f.records)

	lineID := f.pickLine(t, sp(15, 10), p, 0)
	f.editor.PrimaryClick(sp(15, 10))
	require.Equal(t, editor.AddMode, f.editor.State())

	f.editor.Escape()
	assert.Equal(t, editor.Finalized, f.editor.State())
	assert.False(t, f.fake.Elements[lineID].Highlighted)
	assert.Len(t, f.records, emitted)
	assert.Len(t, p.Vertices, 3)
}

func TestDragCommitsOnRelease(t *testing.T) {
	f := newFixture()
	p := f.drawPath(t)

	f.pickMarker(t, sp(20, 10), p, 1)
	f.editor.PointerDown(sp(20, 10))
	assert.NotEqual(t, editor.Dragging, f.editor.State())

	f.fake.SetWorld(sp(40, 10), geometry.NewVector3(20, 0, 0))
	f.editor.PointerMove(sp(40, 10))
	assert.Equal(t, editor.Dragging, f.editor.State())
	assert.True(t, f.fake.CameraSuppressed)

	f.fake.SetWorld(sp(42, 10), geometry.NewVector3(20, 0, 2))
	f.editor.PointerMove(sp(42, 10))

	f.editor.PointerUp(sp(42, 10))
	assert.Equal(t, editor.Finalized, f.editor.State())
	assert.False(t, f.fake.CameraSuppressed)
	assert.Equal(t, geometry.NewVector3(20, 0, 2), p.Vertices[1])

	last := f.records[len(f.records)-1]
	assert.Equal(t, measure.CommitMove, last.Kind)
}

func TestBelowThresholdPressIsNotADrag(t *testing.T) {
	f := newFixture()
	p := f.drawPath(t)

	f.pickMarker(t, sp(20, 10), p, 1)
	f.editor.PointerDown(sp(20, 10))
	f.editor.PointerMove(sp(22, 11)) // under 5 px
	assert.NotEqual(t, editor.Dragging, f.editor.State())

	f.editor.PointerUp(sp(22, 11))
	assert.Equal(t, editor.Finalized, f.editor.State())
	assert.Equal(t, geometry.NewVector3(10, 0, 0), p.Vertices[1])
}

func TestInterruptedDragRestoresCommittedVisuals(t *testing.T) {
	f := newFixture()
	p := f.drawPath(t)
	emitted := len(f.records)
	steady := len(f.fake.Elements)

	f.pickMarker(t, sp(20, 10), p, 1)
	f.editor.PointerDown(sp(20, 10))
	f.fake.SetWorld(sp(40, 10), geometry.NewVector3(20, 0, 0))
	f.editor.PointerMove(sp(40, 10))
	require.Equal(t, editor.Dragging, f.editor.State())

	// pointer leaves every pickable surface: no world position
	f.editor.PointerMove(sp(999, 999))

	assert.Equal(t, editor.Finalized, f.editor.State())
	assert.False(t, f.fake.CameraSuppressed)
	assert.Equal(t, geometry.NewVector3(10, 0, 0), p.Vertices[1])
	assert.Len(t, f.fake.Elements, steady, "no orphaned moving elements")
	assert.Len(t, f.records, emitted, "an aborted drag is not a commit")
}

func TestDeleteInteriorVertexViaEditor(t *testing.T) {
	f := newFixture()
	p := f.drawPath(t)

	f.pickMarker(t, sp(20, 10), p, 1)
	require.True(t, f.editor.DeleteVertexAt(sp(20, 10)))

	assert.Len(t, p.Vertices, 2)
	assert.Equal(t, 1, f.fake.Count(scenetest.Line))
	last := f.records[len(f.records)-1]
	assert.Equal(t, measure.CommitDelete, last.Kind)
	require.Len(t, last.SegmentDistances, 1)
	assert.InDelta(t, geometry.NewVector3(0, 0, 0).Distance(geometry.NewVector3(10, 10, 0)),
		last.SegmentDistances[0], 1e-12)
}

func TestDeleteSoleVertexRemovesPathAndVisuals(t *testing.T) {
	f := newFixture()
	// single-vertex path
	f.clickAt(sp(10, 10), geometry.NewVector3(0, 0, 0))
	f.editor.SecondaryClick(sp(10, 10))
	p := f.store.Paths()[0]
	f.sync.RefreshPath(p, f.store.Engine().PathDistances(p), p.LabelNumber)

	f.pickMarker(t, sp(10, 10), p, 0)
	require.True(t, f.editor.DeleteVertexAt(sp(10, 10)))

	assert.Empty(t, f.store.Paths())
	assert.Empty(t, f.fake.Elements)
}

func TestDeleteIgnoresDraftVertices(t *testing.T) {
	f := newFixture()

	f.clickAt(sp(10, 10), geometry.NewVector3(0, 0, 0))
	f.clickAt(sp(20, 10), geometry.NewVector3(10, 0, 0))
	f.clickAt(sp(20, 20), geometry.NewVector3(10, 10, 0))
	require.Equal(t, editor.Drawing, f.editor.State())
	draft := f.store.Draft()
	require.NotNil(t, draft)

	f.pickMarker(t, sp(20, 20), draft, 2)
	assert.False(t, f.editor.DeleteVertexAt(sp(20, 20)))

	assert.Len(t, draft.Vertices, 3)
	assert.Empty(t, f.records, "no commit may be emitted for an unfinalized path")
	for _, text := range f.fake.LabelTexts() {
		assert.NotContains(t, text, "-1", "draft labels must never carry the sentinel number")
	}
}

func TestHoverHighlightsTopmostPick(t *testing.T) {
	f := newFixture()
	p := f.drawPath(t)

	markerID := f.pickMarker(t, sp(20, 10), p, 1)
	f.editor.PointerMove(sp(20, 10))
	assert.True(t, f.fake.Elements[markerID].Highlighted)

	f.editor.PointerMove(sp(500, 500))
	assert.False(t, f.fake.Elements[markerID].Highlighted)
}

func TestLabelNumbersSurviveEditsToOtherPaths(t *testing.T) {
	f := newFixture()
	first := f.drawPath(t)

	f.clickAt(sp(300, 300), geometry.NewVector3(100, 0, 0))
	f.clickAt(sp(310, 300), geometry.NewVector3(110, 0, 0))
	f.editor.SecondaryClick(sp(310, 300))
	second := f.store.Paths()[1]
	assert.Equal(t, 1, second.LabelNumber)

	f.pickMarker(t, sp(20, 10), first, 1)
	require.True(t, f.editor.DeleteVertexAt(sp(20, 10)))
	assert.Equal(t, 0, first.LabelNumber)
	assert.Equal(t, 1, second.LabelNumber)
}
