// Package linkgraph derives the radio link graph from the current node
// sequence. It implements greedy nearest-neighbor matching under a
// per-node degree cap; with at most core.MaxNodes nodes the O(N² log N)
// pair scan needs no spatial index.
package linkgraph

import (
	"math"
	"sort"

	"github.com/meshsite/planner/pkg/core"
)

// Compute derives the link graph for nodes at the given map scale.
//
// A pair (i, j) is a candidate when its pixel distance is within the
// stricter of the two endpoint thresholds converted to pixels.
// Candidates are accepted shortest-first while both endpoints have
// fewer than maxDegree accepted links; a skipped candidate is never
// revisited. The result is a pure function of the inputs: same nodes,
// order, scale, and cap always produce the same edges and degrees.
//
// A non-finite or non-positive scale yields an empty graph with zero
// degrees. That is a defined degenerate case, not an error.
func Compute(nodes []core.Node, scaleMPerPx float64, maxDegree int) core.Graph {
	g := core.Graph{Degrees: make([]int, len(nodes))}

	if math.IsNaN(scaleMPerPx) || math.IsInf(scaleMPerPx, 0) || scaleMPerPx <= 0 {
		return g
	}
	if maxDegree < 0 {
		maxDegree = 0
	}

	var candidates []core.Edge
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			d := math.Hypot(nodes[j].Pos.X-nodes[i].Pos.X, nodes[j].Pos.Y-nodes[i].Pos.Y)
			thrM := math.Min(nodes[i].ThresholdM, nodes[j].ThresholdM)
			if d <= thrM/scaleMPerPx {
				candidates = append(candidates, core.Edge{A: i, B: j, DistPx: d})
			}
		}
	}

	// Stable sort keeps the (i, j) enumeration order for equal distances,
	// which makes edge acceptance deterministic.
	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].DistPx < candidates[b].DistPx
	})

	for _, e := range candidates {
		if g.Degrees[e.A] < maxDegree && g.Degrees[e.B] < maxDegree {
			g.Edges = append(g.Edges, e)
			g.Degrees[e.A]++
			g.Degrees[e.B]++
		}
	}

	return g
}
