package testutil

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// WriteCSV writes headers and rows to name inside a temporary directory and
// returns the full path.
func WriteCSV(t *testing.T, name string, headers []string, rows [][]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			t.Errorf("failed to close %s: %v", path, err)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(headers); err != nil {
		t.Fatalf("failed to write headers: %v", err)
	}
	if err := w.WriteAll(rows); err != nil {
		t.Fatalf("failed to write rows: %v", err)
	}
	return path
}

// WriteXLSX writes headers and rows as text cells to the first sheet of a
// new workbook and returns its path.
func WriteXLSX(t *testing.T, name string, headers []string, rows [][]string) string {
	t.Helper()

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			t.Errorf("failed to close workbook: %v", err)
		}
	}()

	sheet := f.GetSheetName(0)
	all := append([][]string{headers}, rows...)
	for r, row := range all {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatalf("bad coordinates: %v", err)
			}
			if err := f.SetCellStr(sheet, cell, v); err != nil {
				t.Fatalf("failed to set %s: %v", cell, err)
			}
		}
	}

	path := filepath.Join(t.TempDir(), name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save %s: %v", path, err)
	}
	return path
}
