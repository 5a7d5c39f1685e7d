// Package parser converts raw frontend command payloads into typed
// values. Payloads arrive as arrays of quoted strings; every parse
// strips quoting first and reports malformed input as an error instead
// of panicking.
package parser

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/meshsite/planner/internal/util"
)

// Parser provides pure []string -> typed event conversion.
// It has zero external dependencies beyond a logger.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a new parser with only a logger dependency
func NewParser(logger *slog.Logger) *Parser {
	return &Parser{logger: logger}
}

// cleanArgs strips surrounding quotes and unescapes doubled quotes in
// place, returning the same slice.
func cleanArgs(data []string) []string {
	for i, v := range data {
		data[i] = util.FixEscapeQuotes(util.TrimQuotes(v))
	}
	return data
}

// parseUintFromFloat parses a string that may be an integer ("32") or
// float ("32.00") into uint64. Some frontends have no integer type and
// serialize all numbers as floats.
func parseUintFromFloat(s string) (uint64, error) {
	if v, err := strconv.ParseUint(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f < 0 || f != float64(uint64(f)) {
		return 0, fmt.Errorf("parseUintFromFloat: %q is not a valid uint64", s)
	}
	return uint64(f), nil
}
