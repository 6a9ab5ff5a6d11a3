package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/schollz/progressbar/v3"
)

// SheetProgress shows a progress bar while workbook sheets are rendered.
type SheetProgress struct {
	writer io.Writer
	bar    *progressbar.ProgressBar
}

// NewSheetProgress creates a progress display writing to w.
func NewSheetProgress(w io.Writer) *SheetProgress {
	return &SheetProgress{writer: w}
}

// Update advances the bar. Its signature matches the workbook writer's
// progress callback; the bar is created on the first call once the total
// is known.
func (p *SheetProgress) Update(done, total int, sheet string) {
	if p.bar == nil {
		p.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(p.writer),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionShowCount(),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription("[cyan][bold]Writing sheets...[reset]"),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
			progressbar.OptionOnCompletion(func() {
				if _, err := fmt.Fprintln(p.writer); err != nil {
					slog.Warn("Failed to write newline after progress bar", "error", err)
				}
			}),
		)
	}
	if err := p.bar.Set(done); err != nil {
		slog.Warn("Failed to update progress bar", "sheet", sheet, "error", err)
	}
}
