// Package geo georeferences the pixel-space plan for GIS handoff. An
// anchor pins image pixel (0,0) to a WGS84 coordinate; with the plan
// scale in meters per pixel, node positions and accepted links project
// into EPSG:3857, whose axes are meters at the anchor's latitude scale.
package geo

import (
	"errors"
	"strconv"
	"strings"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/wroge/wgs84"

	"github.com/meshsite/planner/pkg/core"
)

// ErrInvalidCoordinates is returned when the coordinates are invalid
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

// Anchor is the WGS84 (EPSG:4326) location of image pixel (0,0).
type Anchor struct {
	Lon float64
	Lat float64
}

// AnchorFromString parses a "lon,lat" string into an Anchor.
func AnchorFromString(coords string) (Anchor, error) {
	coordsSplit := strings.Split(coords, ",")
	if len(coordsSplit) != 2 {
		return Anchor{}, ErrInvalidCoordinates
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(coordsSplit[0]), 64)
	if err != nil {
		return Anchor{}, ErrInvalidCoordinates
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(coordsSplit[1]), 64)
	if err != nil {
		return Anchor{}, ErrInvalidCoordinates
	}
	if lon < -180 || lon > 180 || lat < -90 || lat > 90 {
		return Anchor{}, ErrInvalidCoordinates
	}
	return Anchor{Lon: lon, Lat: lat}, nil
}

// Coords3857From4326 projects a longitude and latitude to EPSG:3857.
func Coords3857From4326(longitude, latitude float64) (geom.Point, error) {
	epsg := wgs84.EPSG()
	f := epsg.Transform(4326, 3857)
	x, y, _ := f(longitude, latitude, 0)
	point := geom.NewPoint(
		geom.Coordinates{
			XY: geom.XY{X: x, Y: y},
		},
	)
	return point, nil
}

// Projector maps image pixel positions to EPSG:3857 coordinates.
type Projector struct {
	originX float64
	originY float64
	scale   float64
}

// NewProjector builds a Projector from an anchor and the plan scale.
func NewProjector(anchor Anchor, scaleMPerPx float64) (*Projector, error) {
	if scaleMPerPx <= 0 {
		return nil, errors.New("scale must be positive")
	}
	origin, err := Coords3857From4326(anchor.Lon, anchor.Lat)
	if err != nil {
		return nil, err
	}
	xy, _ := origin.XY()
	return &Projector{originX: xy.X, originY: xy.Y, scale: scaleMPerPx}, nil
}

// Project converts an image pixel position to EPSG:3857. Image y grows
// downward while projected y grows northward.
func (p *Projector) Project(pos core.Position) geom.XY {
	return geom.XY{
		X: p.originX + pos.X*p.scale,
		Y: p.originY - pos.Y*p.scale,
	}
}

// NodePoint projects one node as a point geometry.
func (p *Projector) NodePoint(n core.Node) geom.Point {
	xy := p.Project(n.Pos)
	return geom.NewPoint(geom.Coordinates{XY: xy})
}

// LinkLine projects an accepted link as a two-vertex line geometry.
func (p *Projector) LinkLine(a, b core.Node) geom.LineString {
	pa := p.Project(a.Pos)
	pb := p.Project(b.Pos)
	seq := geom.NewSequence([]float64{pa.X, pa.Y, pb.X, pb.Y}, geom.DimXY)
	return geom.NewLineString(seq)
}
