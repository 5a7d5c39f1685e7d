package handlers

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshsite/planner/internal/dispatcher"
	"github.com/meshsite/planner/internal/interaction"
	"github.com/meshsite/planner/internal/logging"
	"github.com/meshsite/planner/internal/plan"
	"github.com/meshsite/planner/internal/session"
	"github.com/meshsite/planner/internal/status"
	"github.com/meshsite/planner/internal/store/memory"
	"github.com/meshsite/planner/pkg/core"
)

type nopLogger struct{}

func (nopLogger) Debug(msg string, keysAndValues ...any) {}
func (nopLogger) Info(msg string, keysAndValues ...any)  {}
func (nopLogger) Error(msg string, keysAndValues ...any) {}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

// newTestService builds a service over a 1000x800 image in a container
// of the same size, so container and image coordinates coincide.
func newTestService(t *testing.T, imageData []byte) *Service {
	t.Helper()

	state := plan.NewState()
	seq := state.BeginImageLoad()
	require.True(t, state.CompleteImageLoad(seq, plan.ImageInfo{
		Name:   "site.png",
		Width:  1000,
		Height: 800,
		Data:   imageData,
	}))

	controller := interaction.NewController(state, 10)
	controller.Resize(1000, 800)

	st := memory.New()
	require.NoError(t, st.Init())

	logManager := logging.NewSlogManager()
	sess := session.NewService(state, st, logManager.Logger())

	return NewService(Dependencies{
		State:      state,
		Controller: controller,
		Session:    sess,
		Status:     status.NewReporter(),
		LogManager: logManager,
		MaxDegree:  4,
	})
}

func TestRegisterHandlers(t *testing.T) {
	svc := newTestService(t, []byte("img"))

	d, err := dispatcher.New(nopLogger{})
	require.NoError(t, err)
	svc.RegisterHandlers(d)

	commands := []dispatcher.Command{
		":POINTER:MOVE:", ":POINTER:DOWN:", ":POINTER:UP:", ":POINTER:LEAVE:",
		":CLICK:", ":RESIZE:", ":TOOL:", ":THRESHOLD:", ":SCALE:", ":SCALE:LOCK:",
		":UNDO:", ":CLEAR:", ":IMAGE:LOAD:", ":SESSION:SAVE:", ":SESSION:RESTORE:",
		":SESSION:DELETE:", ":QUERY:GRAPH:", ":QUERY:STATE:", ":EXPORT:GEO:", ":STATUS:",
	}
	for _, cmd := range commands {
		assert.True(t, d.HasHandler(cmd), "missing handler for %s", cmd)
	}
}

func TestHandleClick_PlacesNode(t *testing.T) {
	svc := newTestService(t, []byte("img"))

	result, err := svc.HandleClick([]string{`"[500,400]"`})
	require.NoError(t, err)
	assert.Equal(t, "ok", result)

	nodes := svc.deps.State.Nodes()
	require.Len(t, nodes, 1)
	assert.Equal(t, core.Position{X: 500, Y: 400}, nodes[0].Pos)
	assert.Equal(t, float64(core.ThresholdShortM), nodes[0].ThresholdM)
}

func TestHandleClick_PlacesWaypointPerTool(t *testing.T) {
	svc := newTestService(t, []byte("img"))

	_, err := svc.HandleTool([]string{"waypoint:power"})
	require.NoError(t, err)

	_, err = svc.HandleClick([]string{"[300,300]"})
	require.NoError(t, err)

	assert.Empty(t, svc.deps.State.Nodes())
	waypoints := svc.deps.State.Waypoints()
	require.Len(t, waypoints, 1)
	assert.Equal(t, core.WaypointPower, waypoints[0].Kind)
}

func TestHandleClick_BadPayload(t *testing.T) {
	svc := newTestService(t, []byte("img"))

	_, err := svc.HandleClick([]string{"not a pair"})
	assert.Error(t, err)
	_, err = svc.HandleClick(nil)
	assert.Error(t, err)
}

func TestHandleResize(t *testing.T) {
	svc := newTestService(t, []byte("img"))

	_, err := svc.HandleResize([]string{"[2000,1600]"})
	require.NoError(t, err)
	assert.Equal(t, 2.0, svc.deps.Controller.Transform().Scale)

	_, err = svc.HandleResize([]string{"[0,100]"})
	assert.Error(t, err)
}

func TestHandleTool_Unknown(t *testing.T) {
	svc := newTestService(t, []byte("img"))

	_, err := svc.HandleTool([]string{"laser"})
	assert.Error(t, err)
}

func TestHandleThreshold(t *testing.T) {
	svc := newTestService(t, []byte("img"))
	n, ok := svc.deps.State.AddNode(core.Position{X: 10, Y: 10})
	require.True(t, ok)

	_, err := svc.HandleThreshold([]string{"default", "350"})
	require.NoError(t, err)
	assert.Equal(t, float64(350), svc.deps.State.Settings().DefaultThresholdM)

	_, err = svc.HandleThreshold([]string{"1", "350"})
	require.NoError(t, err)
	got, _ := svc.deps.State.NodeByID(n.ID)
	assert.Equal(t, float64(350), got.ThresholdM)

	_, err = svc.HandleThreshold([]string{"99", "300"})
	assert.Error(t, err, "unknown node must be rejected")

	_, err = svc.HandleThreshold([]string{"1", "400"})
	assert.Error(t, err, "disallowed value must be rejected")
}

func TestHandleScale_RespectsLock(t *testing.T) {
	svc := newTestService(t, []byte("img"))

	// locked by default
	_, err := svc.HandleScale([]string{"2.5"})
	assert.Error(t, err)

	_, err = svc.HandleScaleLock([]string{"false"})
	require.NoError(t, err)

	_, err = svc.HandleScale([]string{"2.5"})
	require.NoError(t, err)
	assert.Equal(t, 2.5, svc.deps.State.Settings().ScaleMPerPx)

	_, err = svc.HandleScaleLock([]string{"true"})
	require.NoError(t, err)
	_, err = svc.HandleScale([]string{"3"})
	assert.Error(t, err)
}

func TestHandleUndo(t *testing.T) {
	svc := newTestService(t, []byte("img"))

	result, err := svc.HandleUndo()
	require.NoError(t, err)
	assert.Equal(t, "empty", result)

	svc.deps.State.AddNode(core.Position{X: 10, Y: 10})
	result, err = svc.HandleUndo()
	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Empty(t, svc.deps.State.Nodes())
}

func TestHandleClear(t *testing.T) {
	svc := newTestService(t, []byte("img"))
	svc.deps.State.AddNode(core.Position{X: 100, Y: 100})
	svc.deps.State.AddWaypoint(core.Position{X: 50, Y: 50}, core.WaypointNote)

	// select the node first
	_, err := svc.HandleClick([]string{"[100,100]"})
	require.NoError(t, err)
	require.False(t, svc.deps.Controller.Selected().IsNone())

	_, err = svc.HandleClear()
	require.NoError(t, err)
	assert.Empty(t, svc.deps.State.Nodes())
	assert.Empty(t, svc.deps.State.Waypoints())
	assert.True(t, svc.deps.Controller.Selected().IsNone())
}

func TestDragSequence(t *testing.T) {
	svc := newTestService(t, []byte("img"))
	n, ok := svc.deps.State.AddNode(core.Position{X: 100, Y: 100})
	require.True(t, ok)

	_, err := svc.HandlePointerDown([]string{"[100,100]"})
	require.NoError(t, err)
	assert.Equal(t, core.NodeTarget(n.ID), svc.deps.Controller.Dragging())

	_, err = svc.HandlePointerMove([]string{"[400,300]"})
	require.NoError(t, err)
	_, err = svc.HandlePointerUp()
	require.NoError(t, err)

	moved, _ := svc.deps.State.NodeByID(n.ID)
	assert.Equal(t, core.Position{X: 400, Y: 300}, moved.Pos)

	// the click ending the drag gesture must not place a node
	_, err = svc.HandleClick([]string{"[400,300]"})
	require.NoError(t, err)
	assert.Len(t, svc.deps.State.Nodes(), 1)
}

func TestHandleImageLoad(t *testing.T) {
	svc := newTestService(t, []byte("img"))
	raw := encodePNG(t, 640, 480)

	result, err := svc.HandleImageLoad([]string{"floor2.png", base64.StdEncoding.EncodeToString(raw)})
	require.NoError(t, err)
	assert.Equal(t, "loading", result)

	require.Eventually(t, func() bool {
		img := svc.deps.State.Image()
		return img != nil && img.Name == "floor2.png"
	}, 2*time.Second, 10*time.Millisecond)

	img := svc.deps.State.Image()
	assert.Equal(t, 640, img.Width)
	assert.Equal(t, 480, img.Height)

	require.Eventually(t, func() bool { return svc.deps.Status.Len() > 0 }, 2*time.Second, 10*time.Millisecond)
	messages := svc.deps.Status.Drain()
	assert.Equal(t, status.LevelInfo, messages[0].Level)
}

func TestHandleImageLoad_DecodeFailure(t *testing.T) {
	svc := newTestService(t, []byte("img"))
	svc.deps.State.AddNode(core.Position{X: 10, Y: 10})

	_, err := svc.HandleImageLoad([]string{"bad.png", base64.StdEncoding.EncodeToString([]byte("not an image at all"))})
	require.NoError(t, err, "decode failures surface async, not on submit")

	require.Eventually(t, func() bool { return svc.deps.Status.Len() > 0 }, 2*time.Second, 10*time.Millisecond)
	messages := svc.deps.Status.Drain()
	assert.Equal(t, status.LevelError, messages[0].Level)

	// prior image and annotations untouched
	assert.Equal(t, "site.png", svc.deps.State.Image().Name)
	assert.Len(t, svc.deps.State.Nodes(), 1)
	assert.False(t, svc.deps.State.ImageLoading())
}

func TestHandleImageLoad_BadPayload(t *testing.T) {
	svc := newTestService(t, []byte("img"))

	_, err := svc.HandleImageLoad([]string{"only-a-name"})
	assert.Error(t, err)
	_, err = svc.HandleImageLoad([]string{"name.png", "@@not-base64@@"})
	assert.Error(t, err)
}

func TestSessionSaveRestoreDelete(t *testing.T) {
	svc := newTestService(t, encodePNG(t, 1000, 800))
	n, ok := svc.deps.State.AddNode(core.Position{X: 100, Y: 100})
	require.True(t, ok)

	result, err := svc.HandleSessionSave()
	require.NoError(t, err)
	assert.Equal(t, "ok", result)

	// diverge from the saved record
	svc.deps.State.AddNode(core.Position{X: 500, Y: 500})
	_, err = svc.HandleClick([]string{"[100,100]"})
	require.NoError(t, err)
	require.False(t, svc.deps.Controller.Selected().IsNone())

	_, err = svc.HandleSessionRestore()
	require.NoError(t, err)

	nodes := svc.deps.State.Nodes()
	require.Len(t, nodes, 1)
	assert.Equal(t, n.ID, nodes[0].ID)
	assert.True(t, svc.deps.Controller.Selected().IsNone(), "restore clears selection")

	_, err = svc.HandleSessionDelete()
	require.NoError(t, err)
	_, err = svc.HandleSessionRestore()
	assert.Error(t, err, "restore after delete finds no session")
}

func TestHandleSessionSave_NoImage(t *testing.T) {
	state := plan.NewState()
	controller := interaction.NewController(state, 10)
	st := memory.New()
	require.NoError(t, st.Init())
	logManager := logging.NewSlogManager()

	svc := NewService(Dependencies{
		State:      state,
		Controller: controller,
		Session:    session.NewService(state, st, logManager.Logger()),
		Status:     status.NewReporter(),
		LogManager: logManager,
		MaxDegree:  4,
	})

	_, err := svc.HandleSessionSave()
	assert.ErrorIs(t, err, session.ErrNothingToSave)
}

func TestHandleQueryGraph(t *testing.T) {
	svc := newTestService(t, []byte("img"))
	svc.deps.State.AddNode(core.Position{X: 100, Y: 100})
	svc.deps.State.AddNode(core.Position{X: 200, Y: 100})

	result, err := svc.HandleQueryGraph()
	require.NoError(t, err)

	var view graphView
	require.NoError(t, json.Unmarshal([]byte(result.(string)), &view))
	require.Len(t, view.Edges, 1)
	assert.Equal(t, float64(100), view.Edges[0].DistPx)
	assert.Equal(t, []int{1, 1}, view.Degrees)
}

func TestHandleQueryGraph_Empty(t *testing.T) {
	svc := newTestService(t, []byte("img"))

	result, err := svc.HandleQueryGraph()
	require.NoError(t, err)
	assert.JSONEq(t, `{"edges":[],"degrees":[]}`, result.(string))
}

func TestHandleQueryState(t *testing.T) {
	svc := newTestService(t, []byte("img"))
	svc.deps.State.AddNode(core.Position{X: 100, Y: 100})
	_, err := svc.HandleClick([]string{"[100,100]"})
	require.NoError(t, err)

	result, err := svc.HandleQueryState()
	require.NoError(t, err)

	var view stateView
	require.NoError(t, json.Unmarshal([]byte(result.(string)), &view))
	require.NotNil(t, view.Image)
	assert.Equal(t, "site.png", view.Image.Name)
	assert.Equal(t, 1000, view.Image.Width)
	require.NotNil(t, view.Transform)
	assert.Equal(t, 1.0, view.Transform.Scale)
	require.Len(t, view.Nodes, 1)
	assert.Equal(t, core.ToolNode, view.Settings.ActiveTool)
	assert.Equal(t, core.TargetNode, view.Selected.Kind)
	assert.True(t, view.Dragging.IsNone())
	assert.NotZero(t, view.Revision)
}

func TestHandleExportGeo(t *testing.T) {
	svc := newTestService(t, []byte("img"))
	svc.deps.State.AddNode(core.Position{X: 0, Y: 0})
	svc.deps.State.AddNode(core.Position{X: 100, Y: 0})

	result, err := svc.HandleExportGeo([]string{`"0,0"`})
	require.NoError(t, err)

	var fc map[string]any
	require.NoError(t, json.Unmarshal([]byte(result.(string)), &fc))
	assert.Equal(t, "FeatureCollection", fc["type"])
	assert.Len(t, fc["features"], 3)

	_, err = svc.HandleExportGeo([]string{`"200,95"`})
	assert.Error(t, err)
	_, err = svc.HandleExportGeo(nil)
	assert.Error(t, err)
}

func TestHandleStatus(t *testing.T) {
	svc := newTestService(t, []byte("img"))

	result, err := svc.HandleStatus()
	require.NoError(t, err)
	assert.Equal(t, "[]", result)

	svc.deps.Status.Warn("storage almost full")
	result, err = svc.HandleStatus()
	require.NoError(t, err)

	var messages []status.Message
	require.NoError(t, json.Unmarshal([]byte(result.(string)), &messages))
	require.Len(t, messages, 1)
	assert.Equal(t, status.LevelWarn, messages[0].Level)

	// drained on read
	result, err = svc.HandleStatus()
	require.NoError(t, err)
	assert.Equal(t, "[]", result)
}
