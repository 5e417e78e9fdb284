package scene_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eric-ce/terrameasure/internal/measure"
	"github.com/eric-ce/terrameasure/internal/scene"
	"github.com/eric-ce/terrameasure/internal/scene/scenetest"
	"github.com/eric-ce/terrameasure/pkg/geometry"
)

func newSyncFixture(t *testing.T) (*scenetest.Fake, *scene.Sync, *measure.Store) {
	t.Helper()
	fake := scenetest.New()
	return fake, scene.NewSync(fake), measure.NewStore(measure.NewEngine(measure.Straight, 2, nil))
}

func commitPath(t *testing.T, s *measure.Store, vertices ...geometry.Vector3) *measure.Path {
	t.Helper()
	s.StartPath()
	for _, v := range vertices {
		_, ok := s.AppendVertex(v)
		require.True(t, ok)
	}
	p, ok := s.FinalizePath()
	require.True(t, ok)
	return p
}

func refresh(sync *scene.Sync, s *measure.Store, p *measure.Path) {
	sync.RefreshPath(p, s.Engine().PathDistances(p), p.LabelNumber)
}

func TestRefreshPathCreatesBijection(t *testing.T) {
	fake, sync, store := newSyncFixture(t)
	p := commitPath(t, store,
		geometry.NewVector3(0, 0, 0),
		geometry.NewVector3(10, 0, 0),
		geometry.NewVector3(10, 10, 0),
	)
	refresh(sync, store, p)

	assert.Equal(t, 3, fake.Count(scenetest.Marker))
	assert.Equal(t, 2, fake.Count(scenetest.Line))
	// two segment labels plus the path total
	assert.Equal(t, 3, fake.Count(scenetest.Label))
	assert.ElementsMatch(t,
		[]string{"a0: 10.00 m", "b0: 10.00 m", "Total: 20.00 m"},
		fake.LabelTexts())
}

func TestRefreshIsIdempotentAndInPlace(t *testing.T) {
	fake, sync, store := newSyncFixture(t)
	p := commitPath(t, store, geometry.NewVector3(0, 0, 0), geometry.NewVector3(10, 0, 0))

	refresh(sync, store, p)
	created := len(fake.Elements)
	refresh(sync, store, p)

	assert.Len(t, fake.Elements, created)
	assert.Empty(t, fake.Removed, "steady-state refresh must mutate, not churn")
}

func TestDeleteInteriorVertexReconnects(t *testing.T) {
	fake, sync, store := newSyncFixture(t)
	p := commitPath(t, store,
		geometry.NewVector3(0, 0, 0),
		geometry.NewVector3(10, 0, 0),
		geometry.NewVector3(10, 10, 0),
	)
	refresh(sync, store, p)

	_, ok := store.DeleteVertex(p.ID, 1)
	require.True(t, ok)
	refresh(sync, store, p)

	assert.Equal(t, 2, fake.Count(scenetest.Marker))
	assert.Equal(t, 1, fake.Count(scenetest.Line))
	// reconnect segment takes letter "a" and the straight diagonal distance
	assert.ElementsMatch(t,
		[]string{"a0: 14.14 m", "Total: 14.14 m"},
		fake.LabelTexts())
}

func TestInsertOnSegmentRelabelsFollowing(t *testing.T) {
	fake, sync, store := newSyncFixture(t)
	p := commitPath(t, store,
		geometry.NewVector3(0, 0, 0),
		geometry.NewVector3(10, 0, 0),
		geometry.NewVector3(10, 10, 0),
	)
	refresh(sync, store, p)

	require.True(t, store.InsertVertexOnSegment(p.ID, 0, geometry.NewVector3(5, 0, 0)))
	refresh(sync, store, p)

	assert.Equal(t, 4, fake.Count(scenetest.Marker))
	assert.Equal(t, 3, fake.Count(scenetest.Line))
	assert.ElementsMatch(t,
		[]string{"a0: 5.00 m", "b0: 5.00 m", "c0: 10.00 m", "Total: 20.00 m"},
		fake.LabelTexts())
}

func TestPendingClearedAtomicallyOnFinalize(t *testing.T) {
	_, sync, store := newSyncFixture(t)

	draft := store.StartPath()
	store.AppendVertex(geometry.NewVector3(0, 0, 0))
	store.AppendVertex(geometry.NewVector3(10, 0, 0))
	sync.RefreshPath(draft, store.Engine().PathDistances(draft), store.FinalizedCount())
	assert.True(t, sync.IsPending(draft.ID))

	p, ok := store.FinalizePath()
	require.True(t, ok)
	sync.FinalizePath(p, store.Engine().PathDistances(p))
	assert.False(t, sync.IsPending(p.ID))
}

func TestHoverClearsPreviousHighlight(t *testing.T) {
	fake, sync, store := newSyncFixture(t)
	p := commitPath(t, store, geometry.NewVector3(0, 0, 0), geometry.NewVector3(10, 0, 0))
	refresh(sync, store, p)

	first, ok := sync.Element(scene.Ref{Kind: scene.KindMarker, Path: p.ID, Ordinal: 0})
	require.True(t, ok)
	second, ok := sync.Element(scene.Ref{Kind: scene.KindMarker, Path: p.ID, Ordinal: 1})
	require.True(t, ok)

	sync.Hover(first)
	assert.True(t, fake.Elements[first].Highlighted)

	sync.Hover(second)
	assert.False(t, fake.Elements[first].Highlighted)
	assert.True(t, fake.Elements[second].Highlighted)

	sync.Hover(scene.NoElement)
	assert.False(t, fake.Elements[second].Highlighted)
}

func TestInsertTargetExemptFromHoverReset(t *testing.T) {
	fake, sync, store := newSyncFixture(t)
	p := commitPath(t, store, geometry.NewVector3(0, 0, 0), geometry.NewVector3(10, 0, 0))
	refresh(sync, store, p)

	line, ok := sync.Element(scene.Ref{Kind: scene.KindLine, Path: p.ID, Ordinal: 0})
	require.True(t, ok)
	marker, ok := sync.Element(scene.Ref{Kind: scene.KindMarker, Path: p.ID, Ordinal: 0})
	require.True(t, ok)

	sync.SelectForInsert(line)
	sync.Hover(line)
	sync.Hover(marker)
	assert.True(t, fake.Elements[line].Highlighted, "armed target must keep its highlight")
	assert.True(t, fake.Elements[marker].Highlighted)

	sync.ClearInsertSelection()
	assert.False(t, fake.Elements[line].Highlighted)
}

func TestDrawPreviewMutatesInPlace(t *testing.T) {
	fake, sync, _ := newSyncFixture(t)

	from := geometry.NewVector3(0, 0, 0)
	sync.UpdateDrawPreview(from, geometry.NewVector3(5, 0, 0), "a0: 5.00 m")
	created := len(fake.Elements)

	for i := 0; i < 10; i++ {
		sync.UpdateDrawPreview(from, geometry.NewVector3(float64(i), 0, 0), "a0: …")
	}
	assert.Len(t, fake.Elements, created, "pointer moves must not create elements")

	sync.ClearDrawPreview()
	assert.Empty(t, fake.Elements)
}

func TestDragLifecycleInteriorVertex(t *testing.T) {
	fake, sync, store := newSyncFixture(t)
	p := commitPath(t, store,
		geometry.NewVector3(0, 0, 0),
		geometry.NewVector3(10, 0, 0),
		geometry.NewVector3(10, 10, 0),
	)
	refresh(sync, store, p)
	steady := len(fake.Elements)

	sync.BeginDrag(p, 1, p.LabelNumber)
	assert.True(t, sync.Dragging())
	// two committed line+label pairs swapped for two substitute pairs
	assert.Equal(t, 2, fake.Count(scenetest.Line))
	assert.Len(t, fake.Removed, 4)

	elementsDuringDrag := len(fake.Elements)
	for i := 0; i < 5; i++ {
		sync.UpdateDrag(geometry.NewVector3(8, 0, float64(i)))
	}
	assert.Len(t, fake.Elements, elementsDuringDrag, "drag moves mutate substitutes in place")

	require.True(t, store.MoveVertex(p.ID, 1, geometry.NewVector3(8, 0, 4)))
	sync.EndDrag(p, store.Engine().PathDistances(p), p.LabelNumber)

	assert.False(t, sync.Dragging())
	assert.Len(t, fake.Elements, steady, "commit restores the exact element bijection")
	assert.Equal(t, geometry.NewVector3(8, 0, 4), fake.Elements[mustElement(t, sync, scene.Ref{Kind: scene.KindMarker, Path: p.ID, Ordinal: 1})].Pos)
}

func TestEndDragWithoutMoveRestoresCommittedVisuals(t *testing.T) {
	fake, sync, store := newSyncFixture(t)
	p := commitPath(t, store, geometry.NewVector3(0, 0, 0), geometry.NewVector3(10, 0, 0))
	refresh(sync, store, p)
	steady := len(fake.Elements)

	sync.BeginDrag(p, 1, p.LabelNumber)
	sync.UpdateDrag(geometry.NewVector3(50, 0, 50))
	// interrupted drag: no store mutation happened
	sync.EndDrag(p, store.Engine().PathDistances(p), p.LabelNumber)

	assert.Len(t, fake.Elements, steady)
	marker := fake.Elements[mustElement(t, sync, scene.Ref{Kind: scene.KindMarker, Path: p.ID, Ordinal: 1})]
	assert.Equal(t, geometry.NewVector3(10, 0, 0), marker.Pos, "marker snaps back to the committed position")
}

func TestRemovePathRemovesEverything(t *testing.T) {
	fake, sync, store := newSyncFixture(t)
	p := commitPath(t, store, geometry.NewVector3(0, 0, 0), geometry.NewVector3(10, 0, 0))
	other := commitPath(t, store, geometry.NewVector3(100, 0, 0), geometry.NewVector3(110, 0, 0))
	refresh(sync, store, p)
	refresh(sync, store, other)

	sync.RemovePath(p.ID)

	for id := range fake.Elements {
		ref, ok := sync.Resolve(id)
		require.True(t, ok)
		assert.Equal(t, other.ID, ref.Path)
	}
}

func mustElement(t *testing.T, sync *scene.Sync, ref scene.Ref) scene.ElementID {
	t.Helper()
	id, ok := sync.Element(ref)
	require.True(t, ok)
	return id
}
