// Package util provides common utility functions used across the planner.
package util

import (
	"fmt"
	"strconv"
	"strings"
)

// TrimQuotes removes leading and trailing double quotes from a string.
func TrimQuotes(s string) string {
	return strings.Trim(s, `"`)
}

// FixEscapeQuotes replaces escaped double quotes ("") with single double quotes (").
func FixEscapeQuotes(s string) string {
	return strings.ReplaceAll(s, `""`, `"`)
}

// Contains reports whether str occurs in slice.
func Contains(slice []string, str string) bool {
	for _, v := range slice {
		if v == str {
			return true
		}
	}
	return false
}

// ParseFloatPair parses a bracketed pair of floats.
// Input format: [1.5,2.25] with optional whitespace around the elements.
func ParseFloatPair(s string) (x, y float64, err error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return 0, 0, fmt.Errorf("not a bracketed pair: %q", s)
	}

	parts := strings.SplitN(s[1:len(s)-1], ",", 3)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected 2 elements in %q, got %d", s, len(parts))
	}

	x, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parsing x of %q: %w", s, err)
	}
	y, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parsing y of %q: %w", s, err)
	}
	return x, y, nil
}
