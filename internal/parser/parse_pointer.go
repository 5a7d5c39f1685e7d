package parser

import (
	"fmt"

	"github.com/meshsite/planner/internal/util"
	"github.com/meshsite/planner/pkg/core"
)

// ParsePointer parses a pointer event payload into a container-space
// position. Input: ["[x,y]"].
func (p *Parser) ParsePointer(data []string) (core.Position, error) {
	data = cleanArgs(data)
	if len(data) < 1 {
		return core.Position{}, fmt.Errorf("pointer payload is empty")
	}

	x, y, err := util.ParseFloatPair(data[0])
	if err != nil {
		return core.Position{}, fmt.Errorf("error parsing pointer position: %w", err)
	}
	return core.Position{X: x, Y: y}, nil
}

// ParseResize parses a container resize payload. Input: ["[w,h]"].
// Non-positive dimensions are rejected.
func (p *Parser) ParseResize(data []string) (w, h float64, err error) {
	data = cleanArgs(data)
	if len(data) < 1 {
		return 0, 0, fmt.Errorf("resize payload is empty")
	}

	w, h, err = util.ParseFloatPair(data[0])
	if err != nil {
		return 0, 0, fmt.Errorf("error parsing container size: %w", err)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("container size must be positive, got [%v,%v]", w, h)
	}
	return w, h, nil
}
