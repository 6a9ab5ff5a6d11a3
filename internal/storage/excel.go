package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/Veraticus/ageing-report/internal/common"
	"github.com/Veraticus/ageing-report/internal/model"
)

// XLSXReader reads an Office Open XML workbook. Cells are read raw, so dates
// arrive as day serials and numbers unformatted.
type XLSXReader struct {
	Path  string
	Sheet string
}

// Location implements service.TableSource.
func (r *XLSXReader) Location() string { return r.Path }

// Load implements service.TableSource.
func (r *XLSXReader) Load(ctx context.Context) (*model.Table, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := checkFile(r.Path); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(r.Path, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open workbook: %w", common.ErrSourceUnreadable, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			slog.Warn("Failed to close workbook", "path", r.Path, "error", cerr)
		}
	}()

	sheet, err := r.pickSheet(f)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read sheet %q: %w", common.ErrSourceUnreadable, sheet, err)
	}

	return newTable(r.Path, rows)
}

func (r *XLSXReader) pickSheet(f *excelize.File) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("%w: workbook has no sheets", common.ErrEmptySource)
	}
	if r.Sheet == "" {
		return sheets[0], nil
	}
	for _, s := range sheets {
		if s == r.Sheet {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: sheet %q not found in %s", common.ErrSourceUnreadable, r.Sheet, r.Path)
}

// XLSReader reads a legacy BIFF workbook.
type XLSReader struct {
	Path  string
	Sheet string
}

// Location implements service.TableSource.
func (r *XLSReader) Location() string { return r.Path }

// Load implements service.TableSource.
func (r *XLSReader) Load(ctx context.Context) (*model.Table, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := checkFile(r.Path); err != nil {
		return nil, err
	}

	wb, err := xls.Open(r.Path, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open workbook: %w", common.ErrSourceUnreadable, err)
	}

	sheet, err := r.pickSheet(wb)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for j := row.FirstCol(); j < row.LastCol(); j++ {
			cells[j] = row.Col(j)
		}
		rows = append(rows, cells)
	}

	return newTable(r.Path, rows)
}

func (r *XLSReader) pickSheet(wb *xls.WorkBook) (*xls.WorkSheet, error) {
	if wb.NumSheets() == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", common.ErrEmptySource)
	}
	if r.Sheet == "" {
		if s := wb.GetSheet(0); s != nil {
			return s, nil
		}
		return nil, fmt.Errorf("%w: first sheet unreadable", common.ErrSourceUnreadable)
	}
	for i := 0; i < wb.NumSheets(); i++ {
		if s := wb.GetSheet(i); s != nil && s.Name == r.Sheet {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: sheet %q not found in %s", common.ErrSourceUnreadable, r.Sheet, r.Path)
}
