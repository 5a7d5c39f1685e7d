// pkg/core/types.go
package core

import "time"

// MaxNodes is the hard cap on connecting nodes in a plan.
const MaxNodes = 50

// DefaultMaxDegree is the per-node link slot count for the link graph.
const DefaultMaxDegree = 4

// Radio range thresholds selectable per node, in meters.
const (
	ThresholdShortM = 300
	ThresholdLongM  = 350
)

// AllowedThresholds lists the valid node range thresholds in meters.
var AllowedThresholds = []float64{ThresholdShortM, ThresholdLongM}

// ValidThreshold reports whether thr is one of the selectable thresholds.
func ValidThreshold(thr float64) bool {
	for _, t := range AllowedThresholds {
		if thr == t {
			return true
		}
	}
	return false
}

// Position is a point in image pixel coordinates.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a connecting mesh radio annotation placed on the site plan.
type Node struct {
	ID         uint     `json:"id"`
	Pos        Position `json:"pos"`
	ThresholdM float64  `json:"thresholdM"`
}

// WaypointKind identifies the category of a waypoint.
type WaypointKind string

// The closed set of waypoint kinds.
const (
	WaypointPower    WaypointKind = "power"
	WaypointAccess   WaypointKind = "access"
	WaypointObstacle WaypointKind = "obstacle"
	WaypointNote     WaypointKind = "note"
)

// WaypointKinds lists every valid waypoint kind.
var WaypointKinds = []WaypointKind{WaypointPower, WaypointAccess, WaypointObstacle, WaypointNote}

// ValidWaypointKind reports whether k is one of the known kinds.
func ValidWaypointKind(k WaypointKind) bool {
	for _, v := range WaypointKinds {
		if k == v {
			return true
		}
	}
	return false
}

// Waypoint is a non-connecting site annotation. Waypoints never
// participate in the link graph.
type Waypoint struct {
	ID   uint         `json:"id"`
	Pos  Position     `json:"pos"`
	Kind WaypointKind `json:"kind"`
}

// SessionMeta describes a saved session for companion-service uploads.
type SessionMeta struct {
	ImageName     string
	SavedAt       time.Time
	NodeCount     int
	WaypointCount int
}
