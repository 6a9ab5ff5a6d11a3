package report

import (
	"fmt"
	"time"

	"github.com/Veraticus/ageing-report/internal/layout"
	"github.com/Veraticus/ageing-report/internal/model"
)

// SummarySheetName is the name of the first sheet of every report.
const SummarySheetName = "Summary"

// DateFormat is how dates are written in the report.
const DateFormat = "02.01.2006"

// Summary sheet coordinates.
const (
	SummaryTitleRow  = 2
	SummaryTitleCol  = 2
	SummaryHeaderRow = 4
	SummaryFirstCol  = 2
)

// SummaryHeaders are the column captions of the summary sheet.
var SummaryHeaders = []string{
	"Company",
	"Account",
	"Document currency",
	"Amount in doc. curr.",
	"Local Currency",
	"Amount in local currency",
}

// SummaryTitle returns the caption placed above the summary table.
func SummaryTitle(title string, asOf time.Time) string {
	return fmt.Sprintf("%s as at %s", title, asOf.Format(DateFormat))
}

// BuildSummary lays out one row per group below a dated title and the header row.
// Groups are written in the order given.
func BuildSummary(groups []model.GroupTotals, asOf time.Time, title string) layout.Sheet {
	sheet := layout.Sheet{
		Name:       SummarySheetName,
		FrozenRows: SummaryHeaderRow,
		DataRows:   len(groups),
	}

	sheet.Set(SummaryTitleRow, SummaryTitleCol, layout.Text(SummaryTitle(title, asOf)), layout.StyleTitle)

	for i, h := range SummaryHeaders {
		sheet.Set(SummaryHeaderRow, SummaryFirstCol+i, layout.Text(h), layout.StyleHeader)
	}

	for i, g := range groups {
		row := SummaryHeaderRow + 1 + i
		col := SummaryFirstCol
		sheet.Set(row, col, layout.Text(g.Key.Company), layout.StyleDataCentered)
		sheet.Set(row, col+1, layout.Text(g.Key.Account), layout.StyleData)
		sheet.Set(row, col+2, layout.Text(g.Key.DocumentCurrency), layout.StyleDataCentered)
		sheet.Set(row, col+3, layout.Number(g.AmountDoc), layout.StyleData)
		sheet.Set(row, col+4, layout.Text(g.Key.LocalCurrency), layout.StyleDataCentered)
		sheet.Set(row, col+5, layout.Number(g.AmountLocal), layout.StyleData)
	}

	return sheet
}
