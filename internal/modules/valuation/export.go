package valuation

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet the collection export is written to
const SheetName = "Collection"

var exportHeader = []interface{}{"ID", "Title", "Issue", "Grade", "Slabbed", "Value", "Price Source"}

// ExportWorkbook writes one row per item plus a totals row as an XLSX workbook
func ExportWorkbook(items []Item, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(SheetName, "A1", &exportHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, item := range items {
		var grade interface{} = ""
		if item.Grade != nil {
			grade = *item.Grade
		}
		slabbed := "no"
		if item.IsEncapsulated {
			slabbed = "yes"
		}
		source := ""
		if item.PriceRecord != nil {
			source = string(item.PriceRecord.PriceSource)
		}

		row := []interface{}{item.ID, item.Title, item.IssueNumber, grade, slabbed, GetValue(item), source}
		if err := f.SetSheetRow(SheetName, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return fmt.Errorf("failed to write row for item %s: %w", item.ID, err)
		}
	}

	totals := Totals(items)
	totalsRow := []interface{}{
		"TOTAL",
		fmt.Sprintf("%d priced, %d unpriced", totals.PricedCount, totals.UnpricedCount),
		"", "", "",
		totals.TotalValue,
		"",
	}
	if err := f.SetSheetRow(SheetName, fmt.Sprintf("A%d", len(items)+2), &totalsRow); err != nil {
		return fmt.Errorf("failed to write totals: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetRowStyle(SheetName, 1, 1, bold)
		_ = f.SetRowStyle(SheetName, len(items)+2, len(items)+2, bold)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
