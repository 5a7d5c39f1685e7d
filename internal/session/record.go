package session

import "time"

// FormatVersion is the session record version this build reads and
// writes. Records with any other version are treated as no session.
const FormatVersion = 1

// MinImagePayload is the smallest plausible encoded image in bytes.
// Anything shorter is a truncated payload and fails validation.
const MinImagePayload = 32

// Record is the persisted session document.
type Record struct {
	Version   int              `json:"version"`
	SavedAt   time.Time        `json:"savedAt"`
	ImageName string           `json:"imageName"`
	ImageData string           `json:"imageData"`
	Nodes     []RecordNode     `json:"nodes"`
	Waypoints []RecordWaypoint `json:"waypoints"`
	Settings  *RecordSettings  `json:"settings,omitempty"`
}

// RecordNode is one persisted radio node.
type RecordNode struct {
	ID         uint    `json:"id"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	ThresholdM float64 `json:"thresholdM"`
}

// RecordWaypoint is one persisted waypoint.
type RecordWaypoint struct {
	ID   uint    `json:"id"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Kind string  `json:"kind"`
}

// RecordSettings carries the persisted settings. Fields are pointers
// so records written before a setting existed restore to the default
// instead of the zero value.
type RecordSettings struct {
	ActiveTool        *string  `json:"activeTool,omitempty"`
	DefaultThresholdM *float64 `json:"defaultThresholdM,omitempty"`
	ScaleMPerPx       *float64 `json:"scaleMPerPx,omitempty"`
	ScaleLocked       *bool    `json:"scaleLocked,omitempty"`
	ShowLinks         *bool    `json:"showLinks,omitempty"`
	ShowLabels        *bool    `json:"showLabels,omitempty"`
}
