// Package grading implements the comic condition scale and value interpolation across it.
package grading

import (
	"math"
	"sort"

	"github.com/longboxhq/longbox/internal/domain"
)

// Step is one rung of the standard condition scale
type Step struct {
	Grade float64
	Label string
}

// Scale is the standard 25-step condition scale, best condition first.
var Scale = []Step{
	{10.0, "Gem Mint"},
	{9.9, "Mint"},
	{9.8, "NM/M"},
	{9.6, "NM+"},
	{9.4, "NM"},
	{9.2, "NM-"},
	{9.0, "VF/NM"},
	{8.5, "VF+"},
	{8.0, "VF"},
	{7.5, "VF-"},
	{7.0, "FN/VF"},
	{6.5, "FN+"},
	{6.0, "FN"},
	{5.5, "FN-"},
	{5.0, "VG/FN"},
	{4.5, "VG+"},
	{4.0, "VG"},
	{3.5, "VG-"},
	{3.0, "GD/VG"},
	{2.5, "GD+"},
	{2.0, "GD"},
	{1.8, "GD-"},
	{1.5, "FR/GD"},
	{1.0, "FR"},
	{0.5, "PR"},
}

// gradeEpsilon absorbs float noise in grades that arrive as decoded JSON
const gradeEpsilon = 1e-9

func sameGrade(a, b float64) bool {
	return math.Abs(a-b) < gradeEpsilon
}

// Label returns the scale label for grade, or "" when grade is not a scale step.
func Label(grade float64) string {
	for _, s := range Scale {
		if sameGrade(s.Grade, grade) {
			return s.Label
		}
	}
	return ""
}

// IsScaleGrade reports whether grade is one of the standard steps
func IsScaleGrade(grade float64) bool {
	return Label(grade) != ""
}

// position returns where grade sits on the scale: 0 for 10.0, 24 for 0.5.
// Grades between steps get a fractional position; grades beyond either end
// extend linearly using the width of the end step.
func position(grade float64) float64 {
	last := len(Scale) - 1

	if grade >= Scale[0].Grade {
		width := Scale[0].Grade - Scale[1].Grade
		return -(grade - Scale[0].Grade) / width
	}
	if grade <= Scale[last].Grade {
		width := Scale[last-1].Grade - Scale[last].Grade
		return float64(last) + (Scale[last].Grade-grade)/width
	}

	for i := 0; i < last; i++ {
		hi, lo := Scale[i].Grade, Scale[i+1].Grade
		if grade <= hi && grade >= lo {
			return float64(i) + (hi-grade)/(hi-lo)
		}
	}
	return float64(last)
}

// Normalize returns a copy of points sorted best grade first, with missing labels
// filled from the scale. The input is not modified.
func Normalize(points []domain.GradePoint) []domain.GradePoint {
	if len(points) == 0 {
		return nil
	}

	out := make([]domain.GradePoint, len(points))
	copy(out, points)
	for i := range out {
		if out[i].Label == "" {
			out[i].Label = Label(out[i].Grade)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Grade > out[j].Grade
	})

	return out
}
