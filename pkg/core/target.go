// pkg/core/target.go
package core

// TargetKind discriminates a Target reference.
type TargetKind string

const (
	TargetNone     TargetKind = ""
	TargetNode     TargetKind = "node"
	TargetWaypoint TargetKind = "waypoint"
)

// Target references at most one annotation. A target is either nothing,
// a node, or a waypoint, never more than one at a time.
type Target struct {
	Kind TargetKind `json:"kind,omitempty"`
	ID   uint       `json:"id,omitempty"`
}

// NoTarget returns the empty target.
func NoTarget() Target {
	return Target{}
}

// NodeTarget references the node with the given ID.
func NodeTarget(id uint) Target {
	return Target{Kind: TargetNode, ID: id}
}

// WaypointTarget references the waypoint with the given ID.
func WaypointTarget(id uint) Target {
	return Target{Kind: TargetWaypoint, ID: id}
}

// IsNone reports whether t references nothing.
func (t Target) IsNone() bool {
	return t.Kind == TargetNone
}
