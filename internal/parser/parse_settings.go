package parser

import (
	"fmt"
	"strconv"

	"github.com/meshsite/planner/pkg/core"
)

// ParseTool parses a tool selection payload. Input: ["node"] or
// ["waypoint:power"] etc.
func (p *Parser) ParseTool(data []string) (core.Tool, error) {
	data = cleanArgs(data)
	if len(data) < 1 {
		return "", fmt.Errorf("tool payload is empty")
	}

	tool := core.Tool(data[0])
	if !core.ValidTool(tool) {
		return "", fmt.Errorf("unknown tool %q", data[0])
	}
	return tool, nil
}

// ThresholdChange is a parsed threshold payload. IsDefault selects the
// default threshold applied to new nodes instead of an existing node.
type ThresholdChange struct {
	NodeID    uint
	IsDefault bool
	ValueM    float64
}

// ParseThreshold parses a threshold payload. Input: ["default","350"]
// or ["<nodeID>","300"].
func (p *Parser) ParseThreshold(data []string) (ThresholdChange, error) {
	var change ThresholdChange

	data = cleanArgs(data)
	if len(data) < 2 {
		return change, fmt.Errorf("threshold payload needs target and value, got %d args", len(data))
	}

	if data[0] == "default" {
		change.IsDefault = true
	} else {
		id, err := parseUintFromFloat(data[0])
		if err != nil {
			return change, fmt.Errorf("error parsing node id: %w", err)
		}
		change.NodeID = uint(id)
	}

	value, err := strconv.ParseFloat(data[1], 64)
	if err != nil {
		return change, fmt.Errorf("error parsing threshold value: %w", err)
	}
	if !core.ValidThreshold(value) {
		return change, fmt.Errorf("threshold %v m is not an allowed value", value)
	}
	change.ValueM = value

	return change, nil
}

// ParseFlag parses a boolean payload. Input: ["true"] or ["false"].
func (p *Parser) ParseFlag(data []string) (bool, error) {
	data = cleanArgs(data)
	if len(data) < 1 {
		return false, fmt.Errorf("flag payload is empty")
	}

	value, err := strconv.ParseBool(data[0])
	if err != nil {
		return false, fmt.Errorf("error parsing flag: %w", err)
	}
	return value, nil
}

// ParseAnchor parses a georeference anchor payload into its raw
// "lon,lat" form. Input: ["13.4050,52.5200"].
func (p *Parser) ParseAnchor(data []string) (string, error) {
	data = cleanArgs(data)
	if len(data) < 1 || data[0] == "" {
		return "", fmt.Errorf("anchor payload is empty")
	}
	return data[0], nil
}

// ParseScale parses a plan scale payload in meters per pixel.
// Input: ["1.5"].
func (p *Parser) ParseScale(data []string) (float64, error) {
	data = cleanArgs(data)
	if len(data) < 1 {
		return 0, fmt.Errorf("scale payload is empty")
	}

	scale, err := strconv.ParseFloat(data[0], 64)
	if err != nil {
		return 0, fmt.Errorf("error parsing scale: %w", err)
	}
	if scale <= 0 {
		return 0, fmt.Errorf("scale must be positive, got %v", scale)
	}
	return scale, nil
}
