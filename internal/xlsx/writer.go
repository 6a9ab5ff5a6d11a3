// Package xlsx renders a report layout into an Excel workbook with excelize.
package xlsx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/Veraticus/ageing-report/internal/common"
	"github.com/Veraticus/ageing-report/internal/layout"
)

// DefaultPath is where the report is saved when no output path is configured.
const DefaultPath = "Final Report.xlsx"

// ErrNoSheets is returned when asked to render an empty sheet set.
var ErrNoSheets = errors.New("report has no sheets")

// Config holds the settings of the workbook writer.
type Config struct {
	Path    string
	Creator string
	RunID   string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Path:    DefaultPath,
		Creator: "ageing-report",
	}
}

// ProgressFunc is called after each sheet is rendered.
type ProgressFunc func(done, total int, sheet string)

// Writer implements service.ReportWriter for .xlsx files.
type Writer struct {
	logger   *slog.Logger
	progress ProgressFunc
	config   Config
}

// NewWriter creates a workbook writer.
func NewWriter(config Config, logger *slog.Logger) *Writer {
	if config.Path == "" {
		config.Path = DefaultPath
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{config: config, logger: logger}
}

// WithProgress registers a callback invoked as sheets are rendered.
func (w *Writer) WithProgress(fn ProgressFunc) *Writer {
	w.progress = fn
	return w
}

// Write implements service.ReportWriter.
func (w *Writer) Write(ctx context.Context, set *layout.SheetSet) (string, error) {
	w.logger.Info("rendering workbook",
		"path", w.config.Path,
		"sheets", len(set.Sheets))

	f, err := w.render(ctx, set)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			w.logger.Warn("failed to close workbook", "error", cerr)
		}
	}()

	if dir := filepath.Dir(w.config.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return "", fmt.Errorf("%w: %w", common.ErrOutputUnwritable, err)
		}
	}

	if err := f.SaveAs(w.config.Path); err != nil {
		return "", fmt.Errorf("%w: failed to save %s: %w", common.ErrOutputUnwritable, w.config.Path, err)
	}

	w.logger.Info("workbook saved", "path", w.config.Path)
	return w.config.Path, nil
}

// Render builds an in-memory workbook from set.
func Render(ctx context.Context, set *layout.SheetSet) (*excelize.File, error) {
	return NewWriter(DefaultConfig(), nil).render(ctx, set)
}

func (w *Writer) render(ctx context.Context, set *layout.SheetSet) (*excelize.File, error) {
	if set == nil || len(set.Sheets) == 0 {
		return nil, ErrNoSheets
	}

	f := excelize.NewFile()
	styles := newStyleCache(f)

	for i := range set.Sheets {
		if err := ctx.Err(); err != nil {
			_ = f.Close()
			return nil, err
		}

		sheet := &set.Sheets[i]
		if err := w.addSheet(f, i, sheet.Name); err != nil {
			_ = f.Close()
			return nil, err
		}
		if err := renderSheet(f, styles, sheet); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("sheet %q: %w", sheet.Name, err)
		}

		w.logger.Debug("rendered sheet", "sheet", sheet.Name, "cells", len(sheet.Cells))
		if w.progress != nil {
			w.progress(i+1, len(set.Sheets), sheet.Name)
		}
	}

	f.SetActiveSheet(0)

	if err := f.SetDocProps(&excelize.DocProperties{
		Creator:     w.config.Creator,
		Title:       set.Title,
		Description: w.config.RunID,
	}); err != nil {
		w.logger.Warn("failed to set document properties", "error", err)
	}

	return f, nil
}

// addSheet reuses the default first sheet of a new workbook.
func (w *Writer) addSheet(f *excelize.File, index int, name string) error {
	if index == 0 {
		if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
			return fmt.Errorf("failed to rename sheet to %q: %w", name, err)
		}
		return nil
	}
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", name, err)
	}
	return nil
}

func renderSheet(f *excelize.File, styles *styleCache, sheet *layout.Sheet) error {
	for _, c := range sheet.Cells {
		ref, err := excelize.CoordinatesToCellName(c.Col, c.Row)
		if err != nil {
			return err
		}

		if v := c.Value.Any(); v != nil {
			if err := f.SetCellValue(sheet.Name, ref, v); err != nil {
				return fmt.Errorf("failed to set %s: %w", ref, err)
			}
		}

		id, ok, err := styles.id(c.Style, c.Value)
		if err != nil {
			return err
		}
		if ok {
			if err := f.SetCellStyle(sheet.Name, ref, ref, id); err != nil {
				return fmt.Errorf("failed to style %s: %w", ref, err)
			}
		}
	}

	for i, width := range sheet.ColumnWidths() {
		if width == 0 {
			continue
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet.Name, col, col, width); err != nil {
			return fmt.Errorf("failed to size column %s: %w", col, err)
		}
	}

	if sheet.FrozenRows > 0 {
		if err := f.SetPanes(sheet.Name, &excelize.Panes{
			Freeze:      true,
			YSplit:      sheet.FrozenRows,
			TopLeftCell: fmt.Sprintf("A%d", sheet.FrozenRows+1),
			ActivePane:  "bottomLeft",
		}); err != nil {
			return fmt.Errorf("failed to freeze header: %w", err)
		}
	}

	return nil
}
