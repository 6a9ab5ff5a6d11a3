package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/ageing-report/internal/service"
)

// dateFormat matches the date shown in report titles.
const dateFormat = "02.01.2006"

// FormatRunSummary renders the outcome of a report run as a box.
func FormatRunSummary(s service.RunSummary) string {
	lines := []string{
		FormatField("Run", s.RunID),
		FormatField("As of", s.AsOf.Format(dateFormat)),
		FormatField("Source", s.Source),
		FormatField("Records", s.Records),
		FormatField("Groups", s.Groups),
		FormatField("Summary rows", s.SummaryRows),
		FormatField("Account sheets", s.AccountSheets),
		FormatField("Output", s.Output),
	}
	if s.Published != "" {
		lines = append(lines, FormatField("Published", s.Published))
	}
	if s.Diagnostics != "" {
		lines = append(lines, FormatField("Diagnostics", s.Diagnostics))
	}
	lines = append(lines, FormatField("Time taken", s.Duration.Round(time.Millisecond)))

	if s.Issues > 0 {
		lines = append(lines, "", FormatWarning(fmt.Sprintf("%d input values could not be parsed", s.Issues)))
	}

	return RenderBox("Report Complete", strings.Join(lines, "\n"))
}

// FormatSheetList renders sheet names one per line.
func FormatSheetList(names []string) string {
	var b strings.Builder
	for i, name := range names {
		fmt.Fprintf(&b, "%s %s\n", SubtleStyle.Render(fmt.Sprintf("%3d.", i+1)), name)
	}
	return b.String()
}
