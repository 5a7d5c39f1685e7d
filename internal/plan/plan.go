// Package plan owns the mutable planning state: the loaded site image,
// the node and waypoint lists, and the session settings. All mutations
// go through State so that insertion order, the node cap, and bounds
// clamping hold everywhere, and so listeners see every committed change.
package plan

import (
	"sync"

	"github.com/meshsite/planner/internal/cache"
	"github.com/meshsite/planner/internal/linkgraph"
	"github.com/meshsite/planner/pkg/core"
)

// ImageInfo describes the currently loaded site image. Data holds the
// original encoded bytes so the session record can embed them.
type ImageInfo struct {
	Name   string
	Width  int
	Height int
	Data   []byte
}

// State is the single source of truth for a live planning session.
type State struct {
	mu        sync.RWMutex
	nodes     []core.Node
	waypoints []core.Waypoint
	settings  core.Settings
	image     *ImageInfo
	loading   bool
	loadSeq   uint64
	idCounter uint
	revision  uint64

	nodeIdx *cache.IndexCache
	wpIdx   *cache.IndexCache

	listenerMu sync.Mutex
	listeners  []func()
}

// NewState creates a State with default settings and no image.
func NewState() *State {
	return &State{
		settings: core.DefaultSettings(),
		nodeIdx:  cache.NewIndexCache(),
		wpIdx:    cache.NewIndexCache(),
	}
}

// OnChange registers a listener invoked after every committed mutation.
// Listeners run outside the state lock and may call back into State.
func (s *State) OnChange(fn func()) {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *State) notify() {
	s.listenerMu.Lock()
	listeners := s.listeners
	s.listenerMu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

// Revision returns the monotonic mutation counter.
func (s *State) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Nodes returns a copy of the node list in insertion order.
func (s *State) Nodes() []core.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Node, len(s.nodes))
	copy(out, s.nodes)
	return out
}

// Waypoints returns a copy of the waypoint list in insertion order.
func (s *State) Waypoints() []core.Waypoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Waypoint, len(s.waypoints))
	copy(out, s.waypoints)
	return out
}

// Settings returns the current settings snapshot.
func (s *State) Settings() core.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Image returns the loaded image info, or nil when none is loaded.
func (s *State) Image() *ImageInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.image == nil {
		return nil
	}
	img := *s.image
	return &img
}

// HasImage reports whether an image is fully loaded.
func (s *State) HasImage() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.image != nil
}

// ImageLoading reports whether a decode is in flight.
func (s *State) ImageLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Graph derives the link graph from the current nodes and scale.
func (s *State) Graph(maxDegree int) core.Graph {
	s.mu.RLock()
	nodes := make([]core.Node, len(s.nodes))
	copy(nodes, s.nodes)
	scale := s.settings.ScaleMPerPx
	s.mu.RUnlock()
	return linkgraph.Compute(nodes, scale, maxDegree)
}

// NodeByID returns the node with the given ID.
func (s *State) NodeByID(id uint) (core.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i, ok := s.nodeIdx.Get(id); ok {
		return s.nodes[i], true
	}
	return core.Node{}, false
}

// WaypointByID returns the waypoint with the given ID.
func (s *State) WaypointByID(id uint) (core.Waypoint, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i, ok := s.wpIdx.Get(id); ok {
		return s.waypoints[i], true
	}
	return core.Waypoint{}, false
}

// AddNode appends a node at pos with the current default threshold.
// Returns false when the node cap is reached or no image is loaded;
// neither case mutates state.
func (s *State) AddNode(pos core.Position) (core.Node, bool) {
	s.mu.Lock()
	if s.image == nil || len(s.nodes) >= core.MaxNodes {
		s.mu.Unlock()
		return core.Node{}, false
	}
	s.idCounter++
	n := core.Node{
		ID:         s.idCounter,
		Pos:        s.clampLocked(pos),
		ThresholdM: s.settings.DefaultThresholdM,
	}
	s.nodes = append(s.nodes, n)
	s.nodeIdx.Set(n.ID, len(s.nodes)-1)
	s.revision++
	s.mu.Unlock()
	s.notify()
	return n, true
}

// AddWaypoint appends a waypoint of the given kind. Waypoints have no
// count cap.
func (s *State) AddWaypoint(pos core.Position, kind core.WaypointKind) (core.Waypoint, bool) {
	s.mu.Lock()
	if s.image == nil || !core.ValidWaypointKind(kind) {
		s.mu.Unlock()
		return core.Waypoint{}, false
	}
	s.idCounter++
	w := core.Waypoint{ID: s.idCounter, Pos: s.clampLocked(pos), Kind: kind}
	s.waypoints = append(s.waypoints, w)
	s.wpIdx.Set(w.ID, len(s.waypoints)-1)
	s.revision++
	s.mu.Unlock()
	s.notify()
	return w, true
}

// MoveNode repositions a node, clamping into image bounds per axis.
func (s *State) MoveNode(id uint, pos core.Position) bool {
	s.mu.Lock()
	i, ok := s.nodeIdx.Get(id)
	if !ok {
		s.mu.Unlock()
		return false
	}
	s.nodes[i].Pos = s.clampLocked(pos)
	s.revision++
	s.mu.Unlock()
	s.notify()
	return true
}

// MoveWaypoint repositions a waypoint, clamping into image bounds.
func (s *State) MoveWaypoint(id uint, pos core.Position) bool {
	s.mu.Lock()
	i, ok := s.wpIdx.Get(id)
	if !ok {
		s.mu.Unlock()
		return false
	}
	s.waypoints[i].Pos = s.clampLocked(pos)
	s.revision++
	s.mu.Unlock()
	s.notify()
	return true
}

// SetNodeThreshold updates a node's range threshold. Only the
// selectable threshold values are accepted.
func (s *State) SetNodeThreshold(id uint, thr float64) bool {
	s.mu.Lock()
	i, ok := s.nodeIdx.Get(id)
	if !ok || !core.ValidThreshold(thr) {
		s.mu.Unlock()
		return false
	}
	s.nodes[i].ThresholdM = thr
	s.revision++
	s.mu.Unlock()
	s.notify()
	return true
}

// Undo removes the most recently created node if any exist, otherwise
// the most recently created waypoint. The node-first fallback is
// deliberate: waypoints are only reachable once the node list is empty.
func (s *State) Undo() bool {
	s.mu.Lock()
	switch {
	case len(s.nodes) > 0:
		last := s.nodes[len(s.nodes)-1]
		s.nodes = s.nodes[:len(s.nodes)-1]
		s.nodeIdx.Delete(last.ID)
	case len(s.waypoints) > 0:
		last := s.waypoints[len(s.waypoints)-1]
		s.waypoints = s.waypoints[:len(s.waypoints)-1]
		s.wpIdx.Delete(last.ID)
	default:
		s.mu.Unlock()
		return false
	}
	s.revision++
	s.mu.Unlock()
	s.notify()
	return true
}

// ClearAnnotations removes every node and waypoint.
func (s *State) ClearAnnotations() {
	s.mu.Lock()
	s.nodes = nil
	s.waypoints = nil
	s.nodeIdx.Reset()
	s.wpIdx.Reset()
	s.revision++
	s.mu.Unlock()
	s.notify()
}

// clampLocked clamps a position into the current image bounds. Caller
// holds the write lock and has checked that an image is loaded.
func (s *State) clampLocked(p core.Position) core.Position {
	w := float64(s.image.Width)
	h := float64(s.image.Height)
	if p.X < 0 {
		p.X = 0
	} else if p.X > w {
		p.X = w
	}
	if p.Y < 0 {
		p.Y = 0
	} else if p.Y > h {
		p.Y = h
	}
	return p
}
