package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshsite/planner/pkg/core"
)

func newLoadedState(t *testing.T) *State {
	t.Helper()
	s := NewState()
	seq := s.BeginImageLoad()
	require.True(t, s.CompleteImageLoad(seq, ImageInfo{Name: "site.png", Width: 1000, Height: 800, Data: []byte("img")}))
	return s
}

func TestAddNode_RequiresImage(t *testing.T) {
	s := NewState()

	_, ok := s.AddNode(core.Position{X: 10, Y: 10})
	assert.False(t, ok)
}

func TestAddNode_UsesDefaultThreshold(t *testing.T) {
	s := newLoadedState(t)
	require.True(t, s.SetDefaultThreshold(core.ThresholdLongM))

	n, ok := s.AddNode(core.Position{X: 10, Y: 20})

	require.True(t, ok)
	assert.Equal(t, float64(core.ThresholdLongM), n.ThresholdM)
	assert.Equal(t, core.Position{X: 10, Y: 20}, n.Pos)
}

func TestAddNode_CapIsSilentNoOp(t *testing.T) {
	s := newLoadedState(t)

	for i := 0; i < core.MaxNodes; i++ {
		_, ok := s.AddNode(core.Position{X: float64(i), Y: 0})
		require.True(t, ok)
	}

	_, ok := s.AddNode(core.Position{X: 999, Y: 0})
	assert.False(t, ok)
	assert.Len(t, s.Nodes(), core.MaxNodes)
}

func TestAddNode_ClampsIntoImageBounds(t *testing.T) {
	s := newLoadedState(t)

	n, ok := s.AddNode(core.Position{X: 2000, Y: -5})

	require.True(t, ok)
	assert.Equal(t, core.Position{X: 1000, Y: 0}, n.Pos)
}

func TestMoveNode_ClampsAtRightEdge(t *testing.T) {
	s := newLoadedState(t)
	n, _ := s.AddNode(core.Position{X: 500, Y: 400})

	require.True(t, s.MoveNode(n.ID, core.Position{X: 1234, Y: 400}))

	got, ok := s.NodeByID(n.ID)
	require.True(t, ok)
	assert.Equal(t, float64(1000), got.Pos.X)
}

func TestAddWaypoint_RejectsUnknownKind(t *testing.T) {
	s := newLoadedState(t)

	_, ok := s.AddWaypoint(core.Position{X: 1, Y: 1}, core.WaypointKind("volcano"))
	assert.False(t, ok)
}

func TestAddWaypoint_Uncapped(t *testing.T) {
	s := newLoadedState(t)

	for i := 0; i < core.MaxNodes+10; i++ {
		_, ok := s.AddWaypoint(core.Position{X: float64(i), Y: 0}, core.WaypointNote)
		require.True(t, ok)
	}
	assert.Len(t, s.Waypoints(), core.MaxNodes+10)
}

func TestSetNodeThreshold_OnlyAllowedValues(t *testing.T) {
	s := newLoadedState(t)
	n, _ := s.AddNode(core.Position{X: 1, Y: 1})

	assert.True(t, s.SetNodeThreshold(n.ID, core.ThresholdLongM))
	assert.False(t, s.SetNodeThreshold(n.ID, 400))

	got, _ := s.NodeByID(n.ID)
	assert.Equal(t, float64(core.ThresholdLongM), got.ThresholdM)
}

func TestUndo_NodeFirstFallback(t *testing.T) {
	s := newLoadedState(t)
	s.AddWaypoint(core.Position{X: 1, Y: 1}, core.WaypointPower)
	s.AddNode(core.Position{X: 2, Y: 2})
	s.AddWaypoint(core.Position{X: 3, Y: 3}, core.WaypointNote)

	// Undo removes the node even though a waypoint was created later.
	require.True(t, s.Undo())
	assert.Empty(t, s.Nodes())
	assert.Len(t, s.Waypoints(), 2)

	// Only with no nodes left does undo reach waypoints, newest first.
	require.True(t, s.Undo())
	wps := s.Waypoints()
	require.Len(t, wps, 1)
	assert.Equal(t, core.WaypointPower, wps[0].Kind)

	require.True(t, s.Undo())
	assert.False(t, s.Undo(), "undo on empty state should report nothing removed")
}

func TestClearAnnotations(t *testing.T) {
	s := newLoadedState(t)
	s.AddNode(core.Position{X: 1, Y: 1})
	s.AddWaypoint(core.Position{X: 2, Y: 2}, core.WaypointAccess)

	s.ClearAnnotations()

	assert.Empty(t, s.Nodes())
	assert.Empty(t, s.Waypoints())
}

func TestInsertionOrderPreserved(t *testing.T) {
	s := newLoadedState(t)
	a, _ := s.AddNode(core.Position{X: 300, Y: 0})
	b, _ := s.AddNode(core.Position{X: 100, Y: 0})
	c, _ := s.AddNode(core.Position{X: 200, Y: 0})

	nodes := s.Nodes()
	require.Len(t, nodes, 3)
	assert.Equal(t, []uint{a.ID, b.ID, c.ID}, []uint{nodes[0].ID, nodes[1].ID, nodes[2].ID})
}

func TestSetScale_RespectsLock(t *testing.T) {
	s := newLoadedState(t)

	assert.False(t, s.SetScale(2.5), "scale is locked by default")
	assert.Equal(t, float64(1), s.Settings().ScaleMPerPx)

	s.SetScaleLocked(false)
	assert.True(t, s.SetScale(2.5))
	assert.Equal(t, 2.5, s.Settings().ScaleMPerPx)

	assert.False(t, s.SetScale(-1), "non-positive scale rejected")
}

func TestImageLoad_StaleCompletionDropped(t *testing.T) {
	s := NewState()

	first := s.BeginImageLoad()
	second := s.BeginImageLoad()

	assert.False(t, s.CompleteImageLoad(first, ImageInfo{Name: "old.png", Width: 10, Height: 10}))
	assert.True(t, s.CompleteImageLoad(second, ImageInfo{Name: "new.png", Width: 20, Height: 20}))

	img := s.Image()
	require.NotNil(t, img)
	assert.Equal(t, "new.png", img.Name)
	assert.False(t, s.ImageLoading())
}

func TestImageLoad_FailureLeavesPriorImage(t *testing.T) {
	s := newLoadedState(t)

	seq := s.BeginImageLoad()
	s.FailImageLoad(seq)

	img := s.Image()
	require.NotNil(t, img)
	assert.Equal(t, "site.png", img.Name)
	assert.False(t, s.ImageLoading())
}

func TestNewImageClearsAnnotations(t *testing.T) {
	s := newLoadedState(t)
	s.AddNode(core.Position{X: 1, Y: 1})

	seq := s.BeginImageLoad()
	require.True(t, s.CompleteImageLoad(seq, ImageInfo{Name: "other.png", Width: 50, Height: 50}))

	assert.Empty(t, s.Nodes())
}

func TestRestoreSnapshot_ResumesIDCounter(t *testing.T) {
	s := NewState()

	s.RestoreSnapshot(
		ImageInfo{Name: "site.png", Width: 1000, Height: 800, Data: []byte("img")},
		[]core.Node{{ID: 4, Pos: core.Position{X: 1, Y: 1}, ThresholdM: 300}},
		[]core.Waypoint{{ID: 9, Pos: core.Position{X: 2, Y: 2}, Kind: core.WaypointNote}},
		core.DefaultSettings(),
	)

	n, ok := s.AddNode(core.Position{X: 5, Y: 5})
	require.True(t, ok)
	assert.Equal(t, uint(10), n.ID, "new IDs must not collide with restored ones")
}

func TestOnChange_FiresPerMutation(t *testing.T) {
	s := newLoadedState(t)

	var fired int
	s.OnChange(func() { fired++ })

	s.AddNode(core.Position{X: 1, Y: 1})
	s.SetDefaultThreshold(core.ThresholdLongM)
	s.Undo()

	assert.Equal(t, 3, fired)
}

func TestGraph_UsesCurrentScale(t *testing.T) {
	s := newLoadedState(t)
	s.AddNode(core.Position{X: 0, Y: 0})
	s.AddNode(core.Position{X: 0, Y: 200})

	g := s.Graph(core.DefaultMaxDegree)
	require.Len(t, g.Edges, 1, "200px at 1 m/px is within 300m")

	s.SetScaleLocked(false)
	require.True(t, s.SetScale(2)) // 200px -> 400m, out of range

	g = s.Graph(core.DefaultMaxDegree)
	assert.Empty(t, g.Edges)
}
