package xlsx

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Veraticus/ageing-report/internal/common"
	"github.com/Veraticus/ageing-report/internal/layout"
	"github.com/Veraticus/ageing-report/internal/report"
	"github.com/Veraticus/ageing-report/internal/testutil"
)

func writeScenario(t *testing.T) (string, *layout.SheetSet) {
	t.Helper()

	set := report.Build(testutil.ScenarioRecords(), testutil.AsOf, report.DefaultOptions())
	path := filepath.Join(t.TempDir(), "out", DefaultPath)

	var progressed []string
	w := NewWriter(Config{Path: path, Creator: "test", RunID: "run-1"}, nil).
		WithProgress(func(done, total int, sheet string) {
			assert.Equal(t, len(set.Sheets), total)
			progressed = append(progressed, sheet)
		})

	got, err := w.Write(context.Background(), set)
	require.NoError(t, err)
	assert.Equal(t, path, got)
	assert.Equal(t, set.Names(), progressed)
	return path, set
}

func openWorkbook(t *testing.T, path string) *excelize.File {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestWriter_ReadBack(t *testing.T) {
	path, set := writeScenario(t)
	f := openWorkbook(t, path)

	assert.Equal(t, set.Names(), f.GetSheetList())

	raw := excelize.Options{RawCellValue: true}
	cell := func(sheet, ref string) string {
		v, err := f.GetCellValue(sheet, ref, raw)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "Document Ageing Report as at 01.02.2024", cell("Summary", "B2"))
	assert.Equal(t, "Company", cell("Summary", "B4"))
	assert.Equal(t, "200", cell("Summary", "C5"))
	assert.Equal(t, "50", cell("Summary", "E5"))
	assert.Equal(t, "55", cell("Summary", "G5"))
	assert.Equal(t, "", cell("Summary", "B6"))

	assert.Equal(t, "Doc Ageing", cell("200", "J1"))
	assert.Equal(t, "10.01.2024", cell("200", "C2"))
	assert.Equal(t, "22", cell("200", "J2"))
	assert.Equal(t, "50", cell("200", "G3"))
	assert.Equal(t, "55", cell("200", "I3"))
	assert.Equal(t, "0", cell("100", "G4"))
}

func TestWriter_Formatting(t *testing.T) {
	path, set := writeScenario(t)
	f := openWorkbook(t, path)

	styleOf := func(sheet, ref string) *excelize.Style {
		id, err := f.GetCellStyle(sheet, ref)
		require.NoError(t, err)
		s, err := f.GetStyle(id)
		require.NoError(t, err)
		return s
	}

	title := styleOf("Summary", "B2")
	require.NotNil(t, title.Font)
	assert.True(t, title.Font.Bold)
	assert.InDelta(t, TitleSize, title.Font.Size, 0.01)

	header := styleOf("Summary", "B4")
	require.NotNil(t, header.Font)
	assert.True(t, header.Font.Bold)
	assert.Len(t, header.Border, 4)
	require.NotNil(t, header.Alignment)
	assert.Equal(t, "center", header.Alignment.Horizontal)

	amount := styleOf("Summary", "G5")
	assert.Equal(t, AmountFormat, amount.NumFmt)

	centered := styleOf("200", "F2")
	require.NotNil(t, centered.Alignment)
	assert.Equal(t, "center", centered.Alignment.Horizontal)
	assert.Equal(t, "bottom", centered.Alignment.Vertical)

	total := styleOf("200", "I3")
	require.NotNil(t, total.Font)
	assert.True(t, total.Font.Bold)

	panes, err := f.GetPanes("Summary")
	require.NoError(t, err)
	assert.True(t, panes.Freeze)
	assert.Equal(t, 4, panes.YSplit)

	summary, _ := set.Sheet("Summary")
	widths := summary.ColumnWidths()
	got, err := f.GetColWidth("Summary", "G")
	require.NoError(t, err)
	assert.InDelta(t, widths[6], got, 0.01)

	props, err := f.GetDocProps()
	require.NoError(t, err)
	assert.Equal(t, "test", props.Creator)
	assert.Equal(t, "run-1", props.Description)
}

func TestWriter_Errors(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	set := report.Build(testutil.ScenarioRecords(), testutil.AsOf, report.DefaultOptions())

	_, err := NewWriter(Config{Path: filepath.Join(blocker, "out.xlsx")}, nil).Write(context.Background(), set)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrOutputUnwritable))

	_, err = NewWriter(Config{Path: filepath.Join(dir, "empty.xlsx")}, nil).Write(context.Background(), &layout.SheetSet{})
	assert.True(t, errors.Is(err, ErrNoSheets))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewWriter(Config{Path: filepath.Join(dir, "cancelled.xlsx")}, nil).Write(ctx, set)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRender_InMemory(t *testing.T) {
	set := report.Build(nil, testutil.AsOf, report.DefaultOptions())

	f, err := Render(context.Background(), set)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{"Summary"}, f.GetSheetList())
	v, err := f.GetCellValue("Summary", "G4")
	require.NoError(t, err)
	assert.Equal(t, "Amount in local currency", v)
}
