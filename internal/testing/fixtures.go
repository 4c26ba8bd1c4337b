package testing

import (
	"time"

	"github.com/longboxhq/longbox/internal/domain"
)

// GradePointFixtures returns three unsorted grade estimates.
// At 9.6 they read 400 raw and 650 slabbed.
func GradePointFixtures() []domain.GradePoint {
	return []domain.GradePoint{
		{Grade: 9.4, RawValue: 300, SlabbedValue: 500},
		{Grade: 8.0, RawValue: 100, SlabbedValue: 180},
		{Grade: 9.8, RawValue: 500, SlabbedValue: 800},
	}
}

// SaleFixtures returns sales relative to now: three recent ones averaging 1000
// and one from two years ago.
func SaleFixtures(now time.Time) []domain.SaleEvent {
	at := func(days int) string {
		return now.AddDate(0, 0, -days).Format(time.RFC3339)
	}
	return []domain.SaleEvent{
		{Price: 900, Date: at(10), Source: "ebay"},
		{Price: 1000, Date: at(5), Source: "ebay"},
		{Price: 1100, Date: at(1), Source: "ebay"},
		{Price: 4000, Date: at(730), Source: "ebay"},
	}
}

// ComicFixture returns a slabbed key issue
func ComicFixture() domain.ComicDetails {
	grade := 9.4
	year := 1988
	return domain.ComicDetails{
		Title:               "Amazing Spider-Man",
		IssueNumber:         "300",
		Publisher:           "Marvel",
		ReleaseYear:         &year,
		Grade:               &grade,
		IsSlabbed:           true,
		GradingCompany:      "CGC",
		CertificationNumber: "1234567001",
	}
}
