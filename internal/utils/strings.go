package utils

import (
	"math"
	"strings"
)

// CollapseSpaces trims s and folds every run of whitespace into one space.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeIssue strips a leading '#' and surrounding whitespace from an issue number.
func NormalizeIssue(issue string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(issue), "#"))
}

// StripLeadingZeros removes leading zeros from an issue number, keeping a lone "0".
func StripLeadingZeros(issue string) string {
	trimmed := strings.TrimLeft(issue, "0")
	if trimmed == "" && issue != "" {
		return "0"
	}
	return trimmed
}

// Round2 rounds v to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
