// Package valuation is the stable read side of pricing: the value of one item at its own
// grade, and totals across a collection.
package valuation

import (
	"github.com/longboxhq/longbox/internal/domain"
	"github.com/longboxhq/longbox/internal/modules/grading"
	"github.com/longboxhq/longbox/internal/utils"
)

// Item is one comic in a collection together with its resolved price record, if any
type Item struct {
	ID             string              `json:"id"`
	Title          string              `json:"title"`
	IssueNumber    string              `json:"issueNumber"`
	Grade          *float64            `json:"grade,omitempty"`
	IsEncapsulated bool                `json:"isEncapsulated"`
	PriceRecord    *domain.PriceRecord `json:"priceRecord,omitempty"`
}

// RankedItem is an item picked out by value
type RankedItem struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	IssueNumber string  `json:"issueNumber"`
	Value       float64 `json:"value"`
}

// Summary is the result of totalling a collection
type Summary struct {
	TotalValue    float64     `json:"totalValue"`
	PricedCount   int         `json:"pricedCount"`
	UnpricedCount int         `json:"unpricedCount"`
	Highest       *RankedItem `json:"highest"`
	Lowest        *RankedItem `json:"lowest"`
}

// GetValue returns what an item is worth at its own grade and encapsulation.
// It never returns "no value": an item without a usable price is worth 0.
func GetValue(item Item) float64 {
	if item.PriceRecord == nil {
		return 0
	}

	var v *float64
	if item.Grade == nil {
		v = item.PriceRecord.EstimatedValue
	} else {
		v = grading.RecordValueAt(item.PriceRecord, *item.Grade, item.IsEncapsulated)
	}

	if v == nil {
		return 0
	}
	return *v
}

// Totals sums a collection in one pass. An item worth exactly 0 is unpriced.
// Highest and Lowest consider priced items only; ties keep the first item seen.
func Totals(items []Item) Summary {
	var t Summary

	for _, item := range items {
		value := GetValue(item)
		if value == 0 {
			t.UnpricedCount++
			continue
		}

		t.PricedCount++
		t.TotalValue += value

		if t.Highest == nil || value > t.Highest.Value {
			t.Highest = rank(item, value)
		}
		if t.Lowest == nil || value < t.Lowest.Value {
			t.Lowest = rank(item, value)
		}
	}

	t.TotalValue = utils.Round2(t.TotalValue)
	return t
}

func rank(item Item, value float64) *RankedItem {
	return &RankedItem{
		ID:          item.ID,
		Title:       item.Title,
		IssueNumber: item.IssueNumber,
		Value:       value,
	}
}
