package geometry

import (
	"math"

	"github.com/meshsite/planner/pkg/core"
)

// PickRadiusFactor widens the visual marker radius for pointer picks so
// annotations remain grabbable at small render scales.
const PickRadiusFactor = 1.25

// HitTest resolves the topmost annotation under a container-space
// pointer position. Nodes are tested before waypoints so a node wins
// when the two overlap; within each list the most recently created
// (visually topmost) annotation is tested first and the first hit wins.
func HitTest(t Transform, screen core.Position, nodes []core.Node, waypoints []core.Waypoint, visualRadiusPx float64) core.Target {
	pick := visualRadiusPx * PickRadiusFactor

	for i := len(nodes) - 1; i >= 0; i-- {
		sp := t.ImageToScreen(nodes[i].Pos)
		if math.Hypot(sp.X-screen.X, sp.Y-screen.Y) <= pick {
			return core.NodeTarget(nodes[i].ID)
		}
	}
	for i := len(waypoints) - 1; i >= 0; i-- {
		sp := t.ImageToScreen(waypoints[i].Pos)
		if math.Hypot(sp.X-screen.X, sp.Y-screen.Y) <= pick {
			return core.WaypointTarget(waypoints[i].ID)
		}
	}
	return core.NoTarget()
}
