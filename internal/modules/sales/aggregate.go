// Package sales turns raw sale events into a single estimated value.
package sales

import (
	"fmt"
	"sort"
	"time"

	"github.com/longboxhq/longbox/internal/domain"
	"github.com/longboxhq/longbox/internal/utils"
	"gonum.org/v1/gonum/stat"
)

// RecentWindow is how far back a sale still counts as recent
const RecentWindow = 180 * 24 * time.Hour

// MaxAveraged is the number of most recent recent-sales averaged together
const MaxAveraged = 3

// Result is the outcome of aggregating a list of sales
type Result struct {
	EstimatedValue     *float64
	IsAveraged         bool
	Disclaimer         *string
	MostRecentSaleDate *string
	// Sales are the input sales, newest first, with age flags recomputed
	Sales []domain.SaleEvent
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDate parses an ISO-8601 sale date
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised sale date %q", s)
}

// Aggregate computes the estimated value for a list of sales as of now.
//
// Three or more sales inside the recent window average the newest three. One or two
// average all of them. With no recent sales the newest sale of any age is used as is.
// No sales means no value. The input slice is not modified.
func Aggregate(sales []domain.SaleEvent, now time.Time) Result {
	cutoff := now.Add(-RecentWindow)

	type dated struct {
		sale domain.SaleEvent
		at   time.Time
	}

	items := make([]dated, 0, len(sales))
	for _, s := range sales {
		// unparseable dates sort last and count as old
		at, _ := ParseDate(s.Date)
		s.IsOlderThan6Months = at.Before(cutoff)
		items = append(items, dated{sale: s, at: at})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].at.After(items[j].at)
	})

	res := Result{Sales: make([]domain.SaleEvent, 0, len(items))}
	var recent []float64
	for _, it := range items {
		res.Sales = append(res.Sales, it.sale)
		if !it.sale.IsOlderThan6Months {
			recent = append(recent, it.sale.Price)
		}
	}

	if len(items) == 0 {
		return res
	}

	newest := items[0].sale.Date
	res.MostRecentSaleDate = &newest

	var value float64
	var disclaimer string

	switch {
	case len(recent) >= MaxAveraged:
		value = stat.Mean(recent[:MaxAveraged], nil)
		res.IsAveraged = true
		disclaimer = fmt.Sprintf("Estimated from the average of the %d most recent sales in the last 6 months.", MaxAveraged)
	case len(recent) > 0:
		value = stat.Mean(recent, nil)
		res.IsAveraged = len(recent) > 1
		if res.IsAveraged {
			disclaimer = fmt.Sprintf("Estimated from the average of %d sales in the last 6 months. Limited sales data.", len(recent))
		} else {
			disclaimer = "Based on a single sale in the last 6 months. Limited sales data."
		}
	default:
		value = items[0].sale.Price
		disclaimer = fmt.Sprintf("No sales in the last 6 months. Based on the most recent sale from %s.", newest)
	}

	value = utils.Round2(value)
	res.EstimatedValue = &value
	res.Disclaimer = &disclaimer

	return res
}

// Usable drops sales that cannot contribute to a value: non-positive prices and
// dates that do not parse.
func Usable(sales []domain.SaleEvent) []domain.SaleEvent {
	out := make([]domain.SaleEvent, 0, len(sales))
	for _, s := range sales {
		if s.Price <= 0 {
			continue
		}
		if _, err := ParseDate(s.Date); err != nil {
			continue
		}
		out = append(out, s)
	}
	return out
}
