// pkg/core/settings.go
package core

// Tool identifies what a placement click creates.
type Tool string

const (
	ToolNode             Tool = "node"
	ToolWaypointPower    Tool = "waypoint:power"
	ToolWaypointAccess   Tool = "waypoint:access"
	ToolWaypointObstacle Tool = "waypoint:obstacle"
	ToolWaypointNote     Tool = "waypoint:note"
)

// Tools lists every selectable tool.
var Tools = []Tool{ToolNode, ToolWaypointPower, ToolWaypointAccess, ToolWaypointObstacle, ToolWaypointNote}

// ValidTool reports whether t is a selectable tool.
func ValidTool(t Tool) bool {
	for _, v := range Tools {
		if t == v {
			return true
		}
	}
	return false
}

// WaypointKindForTool returns the waypoint kind a tool places, if any.
func WaypointKindForTool(t Tool) (WaypointKind, bool) {
	switch t {
	case ToolWaypointPower:
		return WaypointPower, true
	case ToolWaypointAccess:
		return WaypointAccess, true
	case ToolWaypointObstacle:
		return WaypointObstacle, true
	case ToolWaypointNote:
		return WaypointNote, true
	}
	return "", false
}

// Settings is the flat settings snapshot shared with the session record.
type Settings struct {
	ActiveTool        Tool    `json:"activeTool"`
	DefaultThresholdM float64 `json:"defaultThresholdM"`
	ScaleMPerPx       float64 `json:"scaleMPerPx"`
	ScaleLocked       bool    `json:"scaleLocked"`
	ShowLinks         bool    `json:"showLinks"`
	ShowLabels        bool    `json:"showLabels"`
}

// DefaultSettings returns the settings a fresh or partially restored
// session falls back to.
func DefaultSettings() Settings {
	return Settings{
		ActiveTool:        ToolNode,
		DefaultThresholdM: ThresholdShortM,
		ScaleMPerPx:       1,
		ScaleLocked:       true,
		ShowLinks:         true,
		ShowLabels:        true,
	}
}
