package handlers

import "github.com/meshsite/planner/pkg/core"

// Renderer-facing JSON projections. Lists are always present, never
// null, so the frontend can iterate without nil checks.

type graphView struct {
	Edges   []core.Edge `json:"edges"`
	Degrees []int       `json:"degrees"`
}

type imageView struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type transformView struct {
	Scale   float64 `json:"scale"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
}

type stateView struct {
	Revision  uint64          `json:"revision"`
	Image     *imageView      `json:"image,omitempty"`
	Loading   bool            `json:"loading"`
	Transform *transformView  `json:"transform,omitempty"`
	Nodes     []core.Node     `json:"nodes"`
	Waypoints []core.Waypoint `json:"waypoints"`
	Settings  core.Settings   `json:"settings"`
	Hovered   core.Target     `json:"hovered"`
	Selected  core.Target     `json:"selected"`
	Dragging  core.Target     `json:"dragging"`
}

func emptyIfNilEdges(edges []core.Edge) []core.Edge {
	if edges == nil {
		return []core.Edge{}
	}
	return edges
}

func emptyIfNilInts(values []int) []int {
	if values == nil {
		return []int{}
	}
	return values
}

func emptyIfNilNodes(nodes []core.Node) []core.Node {
	if nodes == nil {
		return []core.Node{}
	}
	return nodes
}

func emptyIfNilWaypoints(waypoints []core.Waypoint) []core.Waypoint {
	if waypoints == nil {
		return []core.Waypoint{}
	}
	return waypoints
}
