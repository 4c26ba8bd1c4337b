package grading

import (
	"math"

	"github.com/longboxhq/longbox/internal/domain"
	"github.com/longboxhq/longbox/internal/utils"
)

func pointValue(p domain.GradePoint, isEncapsulated bool) float64 {
	if isEncapsulated {
		return p.SlabbedValue
	}
	return p.RawValue
}

// ValueAt returns the value at grade from a sparse set of grade points.
// The bool is false when there are no points to read from.
//
// Grades above the best point or below the worst point are clamped to that point.
// An exact match returns the stored figure untouched. Anything else is interpolated
// linearly between the two bracketing points, measured along the condition scale,
// and rounded to cents.
func ValueAt(points []domain.GradePoint, grade float64, isEncapsulated bool) (float64, bool) {
	if len(points) == 0 || math.IsNaN(grade) {
		return 0, false
	}

	sorted := Normalize(points)

	for _, p := range sorted {
		if sameGrade(p.Grade, grade) {
			return pointValue(p, isEncapsulated), true
		}
	}

	best, worst := sorted[0], sorted[len(sorted)-1]
	if grade > best.Grade {
		return pointValue(best, isEncapsulated), true
	}
	if grade < worst.Grade {
		return pointValue(worst, isEncapsulated), true
	}

	for i := 0; i < len(sorted)-1; i++ {
		upper, lower := sorted[i], sorted[i+1]
		if grade > upper.Grade || grade < lower.Grade {
			continue
		}

		lowerPos, upperPos := position(lower.Grade), position(upper.Grade)
		span := lowerPos - upperPos
		if span == 0 {
			return pointValue(lower, isEncapsulated), true
		}

		fraction := (lowerPos - position(grade)) / span
		lowerValue := pointValue(lower, isEncapsulated)
		upperValue := pointValue(upper, isEncapsulated)

		return utils.Round2(lowerValue + (upperValue-lowerValue)*fraction), true
	}

	return pointValue(worst, isEncapsulated), true
}

// RecordValueAt reads a record at a grade: interpolated across its grade estimates when
// it has any, otherwise its base estimated value. Nil means the record has no price.
func RecordValueAt(record *domain.PriceRecord, grade float64, isEncapsulated bool) *float64 {
	if record == nil {
		return nil
	}

	if v, ok := ValueAt(record.GradeEstimates, grade, isEncapsulated); ok {
		return &v
	}

	return record.EstimatedValue
}
