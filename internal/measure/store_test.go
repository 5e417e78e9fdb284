package measure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eric-ce/terrameasure/pkg/geometry"
)

func newTestStore() (*Store, *[]DistanceRecord) {
	records := &[]DistanceRecord{}
	s := NewStore(NewEngine(Straight, 2, nil))
	s.SetRecordFunc(func(r DistanceRecord) {
		*records = append(*records, r)
	})
	return s, records
}

// drawPath appends vertices to a fresh draft and finalizes it
func drawPath(t *testing.T, s *Store, vertices ...geometry.Vector3) *Path {
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

func TestStartPathReusesOpenDraft(t *testing.T) {
	s, _ := newTestStore()

	first := s.StartPath()
	second := s.StartPath()
	assert.Same(t, first, second)
	assert.Len(t, s.Paths(), 1)
}

func TestAppendVertexRejectsCoincident(t *testing.T) {
	s, _ := newTestStore()
	s.StartPath()

	_, ok := s.AppendVertex(geometry.NewVector3(1, 0, 1))
	require.True(t, ok)

	// within epsilon of the existing vertex, including across paths
	_, ok = s.AppendVertex(geometry.NewVector3(1.1, 0, 1))
	assert.False(t, ok)

	_, ok = s.AppendVertex(geometry.NewVector3(5, 0, 5))
	require.True(t, ok)
	s.FinalizePath()

	s.StartPath()
	_, ok = s.AppendVertex(geometry.NewVector3(5.05, 0, 5))
	assert.False(t, ok, "coincidence check must span all paths")
}

func TestAppendVertexWithoutDraftIsNoop(t *testing.T) {
	s, _ := newTestStore()
	_, ok := s.AppendVertex(geometry.NewVector3(0, 0, 0))
	assert.False(t, ok)
}

func TestFinalizeStampsStableNumbers(t *testing.T) {
	s, records := newTestStore()

	p0 := drawPath(t, s, geometry.NewVector3(0, 0, 0), geometry.NewVector3(10, 0, 0))
	p1 := drawPath(t, s, geometry.NewVector3(20, 0, 0), geometry.NewVector3(30, 0, 0))

	assert.Equal(t, 0, p0.LabelNumber)
	assert.Equal(t, 1, p1.LabelNumber)
	assert.True(t, p0.Committed)

	// later edits never reassign numbers
	s.DeleteVertex(p0.ID, 0)
	s.DeleteVertex(p0.ID, 0)
	_, exists := s.Path(p0.ID)
	assert.False(t, exists)
	assert.Equal(t, 1, p1.LabelNumber)

	p2 := drawPath(t, s, geometry.NewVector3(40, 0, 0), geometry.NewVector3(50, 0, 0))
	assert.Equal(t, 2, p2.LabelNumber)

	require.NotEmpty(t, *records)
	assert.Equal(t, CommitFinalize, (*records)[0].Kind)
}

func TestFinalizeEmptyDraftDiscardsPath(t *testing.T) {
	s, records := newTestStore()
	s.StartPath()

	_, ok := s.FinalizePath()
	assert.False(t, ok)
	assert.Empty(t, s.Paths())
	assert.Empty(t, *records)
}

func TestDeleteSoleVertexRemovesPath(t *testing.T) {
	s, records := newTestStore()
	p := drawPath(t, s, geometry.NewVector3(0, 0, 0))

	removed, ok := s.DeleteVertex(p.ID, 0)
	require.True(t, ok)
	assert.True(t, removed)
	assert.Empty(t, s.Paths())

	// the removal is still a commit
	last := (*records)[len(*records)-1]
	assert.Equal(t, CommitDelete, last.Kind)
	assert.Empty(t, last.SegmentDistances)
}

func TestDeleteEndpointShrinksByOneSegment(t *testing.T) {
	s, _ := newTestStore()
	p := drawPath(t, s,
		geometry.NewVector3(0, 0, 0),
		geometry.NewVector3(10, 0, 0),
		geometry.NewVector3(10, 10, 0),
	)

	removed, ok := s.DeleteVertex(p.ID, 2)
	require.True(t, ok)
	assert.False(t, removed)
	assert.Len(t, p.Vertices, 2)
	assert.Equal(t, 1, p.SegmentCount())
}

func TestDeleteInteriorReconnectsNeighbors(t *testing.T) {
	s, records := newTestStore()
	p := drawPath(t, s,
		geometry.NewVector3(0, 0, 0),
		geometry.NewVector3(10, 0, 0),
		geometry.NewVector3(10, 10, 0),
	)

	_, ok := s.DeleteVertex(p.ID, 1)
	require.True(t, ok)
	require.Equal(t, 1, p.SegmentCount())

	// exactly one segment joining the former neighbors directly
	last := (*records)[len(*records)-1]
	require.Len(t, last.SegmentDistances, 1)
	want := geometry.NewVector3(0, 0, 0).Distance(geometry.NewVector3(10, 10, 0))
	assert.InDelta(t, want, last.SegmentDistances[0], 1e-12)
	assert.InDelta(t, want, last.TotalDistance, 1e-12)
}

func TestInsertVertexOnSegment(t *testing.T) {
	s, records := newTestStore()
	p := drawPath(t, s,
		geometry.NewVector3(0, 0, 0),
		geometry.NewVector3(10, 0, 0),
		geometry.NewVector3(10, 10, 0),
	)

	ok := s.InsertVertexOnSegment(p.ID, 0, geometry.NewVector3(5, 0, 0))
	require.True(t, ok)
	require.Len(t, p.Vertices, 4)
	assert.Equal(t, geometry.NewVector3(5, 0, 0), p.Vertices[1])

	last := (*records)[len(*records)-1]
	assert.Equal(t, CommitInsert, last.Kind)
	assert.Equal(t, []float64{5, 5, 10}, last.SegmentDistances)
	assert.InDelta(t, 20.0, last.TotalDistance, 1e-12)
}

func TestInsertOnStaleSegmentIsNoop(t *testing.T) {
	s, records := newTestStore()
	p := drawPath(t, s, geometry.NewVector3(0, 0, 0), geometry.NewVector3(10, 0, 0))
	emitted := len(*records)

	assert.False(t, s.InsertVertexOnSegment(p.ID, 5, geometry.NewVector3(1, 0, 0)))
	assert.False(t, s.InsertVertexOnSegment(PathID(99), 0, geometry.NewVector3(1, 0, 0)))
	assert.Len(t, *records, emitted)
}

func TestMoveVertexIsIdempotent(t *testing.T) {
	s, _ := newTestStore()
	p := drawPath(t, s, geometry.NewVector3(0, 0, 0), geometry.NewVector3(10, 0, 0))

	target := geometry.NewVector3(12, 0, 3)
	require.True(t, s.MoveVertex(p.ID, 1, target))
	once := append([]geometry.Vector3(nil), p.Vertices...)

	require.True(t, s.MoveVertex(p.ID, 1, target))
	assert.Equal(t, once, p.Vertices)
	assert.Len(t, p.Vertices, 2, "move must not change vertex identity or count")
}

func TestCommitMoveEmitsRecord(t *testing.T) {
	s, records := newTestStore()
	p := drawPath(t, s, geometry.NewVector3(0, 0, 0), geometry.NewVector3(10, 0, 0))

	s.MoveVertex(p.ID, 1, geometry.NewVector3(20, 0, 0))
	require.True(t, s.CommitMove(p.ID))

	last := (*records)[len(*records)-1]
	assert.Equal(t, CommitMove, last.Kind)
	assert.Equal(t, []float64{20}, last.SegmentDistances)
}

func TestStaleReferencesAreSilentNoops(t *testing.T) {
	s, records := newTestStore()
	p := drawPath(t, s, geometry.NewVector3(0, 0, 0), geometry.NewVector3(10, 0, 0))
	emitted := len(*records)

	_, ok := s.DeleteVertex(PathID(42), 0)
	assert.False(t, ok)
	_, ok = s.DeleteVertex(p.ID, 7)
	assert.False(t, ok)
	assert.False(t, s.MoveVertex(p.ID, -1, geometry.Vector3{}))
	assert.False(t, s.CommitMove(PathID(42)))
	assert.Len(t, *records, emitted)
}
