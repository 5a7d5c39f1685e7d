package geo

import (
	"errors"
	"math"
	"testing"

	"github.com/meshsite/planner/pkg/core"
)

func TestAnchorFromString_Valid(t *testing.T) {
	anchor, err := AnchorFromString("13.4050,52.5200")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if anchor.Lon != 13.4050 {
		t.Errorf("expected Lon=13.4050, got %f", anchor.Lon)
	}
	if anchor.Lat != 52.5200 {
		t.Errorf("expected Lat=52.5200, got %f", anchor.Lat)
	}
}

func TestAnchorFromString_Whitespace(t *testing.T) {
	anchor, err := AnchorFromString(" -71.06 , 42.36 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if anchor.Lon != -71.06 || anchor.Lat != 42.36 {
		t.Errorf("unexpected anchor: %+v", anchor)
	}
}

func TestAnchorFromString_Invalid(t *testing.T) {
	inputs := []string{
		"",
		"13.4050",
		"13.4,52.5,10",
		"east,north",
		"200,50",
		"10,95",
	}
	for _, input := range inputs {
		if _, err := AnchorFromString(input); !errors.Is(err, ErrInvalidCoordinates) {
			t.Errorf("AnchorFromString(%q): expected ErrInvalidCoordinates, got %v", input, err)
		}
	}
}

func TestCoords3857From4326_Origin(t *testing.T) {
	point, err := Coords3857From4326(0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	xy, ok := point.XY()
	if !ok {
		t.Fatal("expected valid coordinates")
	}
	if math.Abs(xy.X) > 1e-6 || math.Abs(xy.Y) > 1e-6 {
		t.Errorf("expected origin to project to (0,0), got (%f,%f)", xy.X, xy.Y)
	}
}

func TestCoords3857From4326_Antimeridian(t *testing.T) {
	point, err := Coords3857From4326(180, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	xy, _ := point.XY()
	// Half the web mercator circumference.
	if math.Abs(xy.X-20037508.34) > 1.0 {
		t.Errorf("expected X near 20037508.34, got %f", xy.X)
	}
}

func TestProjector_YAxisFlips(t *testing.T) {
	p, err := NewProjector(Anchor{Lon: 0, Lat: 0}, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	xy := p.Project(core.Position{X: 10, Y: 5})
	if math.Abs(xy.X-20) > 1e-6 {
		t.Errorf("expected X=20, got %f", xy.X)
	}
	if math.Abs(xy.Y-(-10)) > 1e-6 {
		t.Errorf("expected Y=-10 (image y grows downward), got %f", xy.Y)
	}
}

func TestNewProjector_RejectsBadScale(t *testing.T) {
	if _, err := NewProjector(Anchor{}, 0); err == nil {
		t.Error("expected error for zero scale")
	}
	if _, err := NewProjector(Anchor{}, -1); err == nil {
		t.Error("expected error for negative scale")
	}
}

func TestLinkLine_Endpoints(t *testing.T) {
	p, err := NewProjector(Anchor{Lon: 0, Lat: 0}, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a := core.Node{ID: 1, Pos: core.Position{X: 0, Y: 0}}
	b := core.Node{ID: 2, Pos: core.Position{X: 100, Y: 50}}

	ls := p.LinkLine(a, b)
	seq := ls.Coordinates()
	if seq.Length() != 2 {
		t.Fatalf("expected 2 vertices, got %d", seq.Length())
	}
	end := seq.GetXY(1)
	if math.Abs(end.X-100) > 1e-6 || math.Abs(end.Y-(-50)) > 1e-6 {
		t.Errorf("unexpected end vertex (%f,%f)", end.X, end.Y)
	}
}
