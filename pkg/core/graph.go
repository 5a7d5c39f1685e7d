// pkg/core/graph.go
package core

// Edge is an undirected link between node index positions A < B.
type Edge struct {
	A      int     `json:"a"`
	B      int     `json:"b"`
	DistPx float64 `json:"distPx"`
}

// Graph is the derived link graph over the current node sequence.
// It is recomputed from scratch after every committed mutation and is
// never persisted.
type Graph struct {
	Edges   []Edge `json:"edges"`
	Degrees []int  `json:"degrees"`
}
