package geo

import (
	"encoding/json"
	"fmt"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/meshsite/planner/pkg/core"
)

type feature struct {
	Type       string         `json:"type"`
	Geometry   geom.Geometry  `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

// ExportGeoJSON projects nodes and their accepted links into EPSG:3857
// and returns them as a GeoJSON FeatureCollection: one point feature
// per node, one line feature per link.
func ExportGeoJSON(anchor Anchor, scaleMPerPx float64, nodes []core.Node, graph core.Graph) ([]byte, error) {
	p, err := NewProjector(anchor, scaleMPerPx)
	if err != nil {
		return nil, fmt.Errorf("building projector: %w", err)
	}

	fc := featureCollection{
		Type:     "FeatureCollection",
		Features: make([]feature, 0, len(nodes)+len(graph.Edges)),
	}

	for i, n := range nodes {
		degree := 0
		if i < len(graph.Degrees) {
			degree = graph.Degrees[i]
		}
		fc.Features = append(fc.Features, feature{
			Type:     "Feature",
			Geometry: p.NodePoint(n).AsGeometry(),
			Properties: map[string]any{
				"id":         n.ID,
				"thresholdM": n.ThresholdM,
				"degree":     degree,
			},
		})
	}

	for _, e := range graph.Edges {
		if e.A >= len(nodes) || e.B >= len(nodes) {
			return nil, fmt.Errorf("edge references node index out of range: %d-%d", e.A, e.B)
		}
		fc.Features = append(fc.Features, feature{
			Type:     "Feature",
			Geometry: p.LinkLine(nodes[e.A], nodes[e.B]).AsGeometry(),
			Properties: map[string]any{
				"from":  nodes[e.A].ID,
				"to":    nodes[e.B].ID,
				"distM": e.DistPx * scaleMPerPx,
			},
		})
	}

	return json.Marshal(fc)
}
