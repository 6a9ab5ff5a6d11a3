package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/ageing-report/internal/ageing"
	"github.com/Veraticus/ageing-report/internal/layout"
	"github.com/Veraticus/ageing-report/internal/model"
)

// DefaultTitle is the caption of the summary sheet.
const DefaultTitle = "Document Ageing Report"

// Options controls report layout.
type Options struct {
	Title     string
	Threshold decimal.Decimal
}

// DefaultOptions returns the standard report options.
func DefaultOptions() Options {
	return Options{
		Title:     DefaultTitle,
		Threshold: DefaultThreshold,
	}
}

// Stats describes what went into a report.
type Stats struct {
	Records        int
	Groups         int
	SummaryRows    int
	AccountSheets  int
	WithoutAgeing  int
	InvalidAmounts int
}

// Build lays out the complete report for records as of asOf. Ageing is
// computed on a copy, so the caller's records are left untouched.
func Build(records []model.DocumentRecord, asOf time.Time, opts Options) *layout.SheetSet {
	set, _ := BuildWithStats(records, asOf, opts)
	return set
}

// BuildWithStats is Build plus counts for run summaries.
func BuildWithStats(records []model.DocumentRecord, asOf time.Time, opts Options) (*layout.SheetSet, Stats) {
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}

	working := make([]model.DocumentRecord, len(records))
	copy(working, records)
	ageing.Compute(working, asOf)

	groups := Aggregate(working)
	surviving := FilterNegligible(groups, opts.Threshold)
	accounts := BuildAccountSheets(working)

	set := &layout.SheetSet{
		Title:  SummaryTitle(opts.Title, asOf),
		Sheets: make([]layout.Sheet, 0, len(accounts)+1),
	}
	set.Sheets = append(set.Sheets, BuildSummary(surviving, asOf, opts.Title))
	set.Sheets = append(set.Sheets, accounts...)

	stats := Stats{
		Records:       len(working),
		Groups:        len(groups),
		SummaryRows:   len(surviving),
		AccountSheets: len(accounts),
	}
	for _, r := range working {
		if !r.HasAgeing() {
			stats.WithoutAgeing++
		}
		if !r.AmountDoc.Valid || !r.AmountLocal.Valid {
			stats.InvalidAmounts++
		}
	}

	return set, stats
}
