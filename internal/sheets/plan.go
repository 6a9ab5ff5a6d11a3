package sheets

import (
	"fmt"
	"sort"
	"strings"

	"google.golang.org/api/sheets/v4"

	"github.com/Veraticus/ageing-report/internal/layout"
)

// Pixel width of one character for column sizing.
const pixelsPerChar = 7

// a1Range returns an A1 reference anchored on a tab, quoting the tab name.
func a1Range(sheetName string, row int) string {
	return fmt.Sprintf("'%s'!A%d", escapeQuote(sheetName), row)
}

func escapeQuote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// valueRanges splits the grid of each sheet into update ranges of at most
// batchSize rows. Blank cells are sent as empty strings so stale values
// are overwritten.
func valueRanges(set *layout.SheetSet, batchSize int) []*sheets.ValueRange {
	var ranges []*sheets.ValueRange

	for i := range set.Sheets {
		sh := &set.Sheets[i]
		grid := sh.Grid()

		for start := 0; start < len(grid); start += batchSize {
			end := start + batchSize
			if end > len(grid) {
				end = len(grid)
			}

			rows := make([][]any, 0, end-start)
			for _, r := range grid[start:end] {
				row := make([]any, len(r))
				for j, v := range r {
					if v == nil {
						v = ""
					}
					row[j] = v
				}
				rows = append(rows, row)
			}

			ranges = append(ranges, &sheets.ValueRange{
				Range:  a1Range(sh.Name, start+1),
				Values: rows,
			})
		}
	}

	return ranges
}

// styleRun is a horizontal run of cells sharing a format.
type styleRun struct {
	style    layout.Style
	row      int
	startCol int
	endCol   int // exclusive
	number   bool
}

// styleRuns groups styled cells into per-row runs of adjacent columns.
func styleRuns(sh *layout.Sheet) []styleRun {
	cells := make([]layout.Cell, 0, len(sh.Cells))
	for _, c := range sh.Cells {
		if c.Style == layout.StyleNone {
			continue
		}
		cells = append(cells, c)
	}
	sort.SliceStable(cells, func(i, j int) bool {
		if cells[i].Row != cells[j].Row {
			return cells[i].Row < cells[j].Row
		}
		return cells[i].Col < cells[j].Col
	})

	var runs []styleRun
	for _, c := range cells {
		number := c.Value.Kind == layout.KindNumber
		if n := len(runs); n > 0 {
			last := &runs[n-1]
			if last.row == c.Row && last.endCol == c.Col && last.style == c.Style && last.number == number {
				last.endCol++
				continue
			}
		}
		runs = append(runs, styleRun{style: c.Style, row: c.Row, startCol: c.Col, endCol: c.Col + 1, number: number})
	}
	return runs
}

var (
	headerFill = &sheets.Color{Red: 0xAD / 255.0, Green: 0xD8 / 255.0, Blue: 0xE6 / 255.0}
	thin       = &sheets.Border{Style: "SOLID"}
)

func cellFormat(run styleRun) *sheets.CellFormat {
	f := &sheets.CellFormat{}

	switch run.style {
	case layout.StyleTitle:
		f.TextFormat = &sheets.TextFormat{Bold: true, FontSize: 14}
	case layout.StyleHeader:
		f.TextFormat = &sheets.TextFormat{Bold: true}
		f.BackgroundColor = headerFill
		f.HorizontalAlignment = "CENTER"
		f.VerticalAlignment = "MIDDLE"
		f.Borders = &sheets.Borders{Top: thin, Bottom: thin, Left: thin, Right: thin}
	case layout.StyleData:
		f.Borders = &sheets.Borders{Top: thin, Bottom: thin, Left: thin, Right: thin}
	case layout.StyleDataCentered:
		f.HorizontalAlignment = "CENTER"
		f.VerticalAlignment = "BOTTOM"
		f.Borders = &sheets.Borders{Top: thin, Bottom: thin, Left: thin, Right: thin}
	case layout.StyleTotal:
		f.TextFormat = &sheets.TextFormat{Bold: true}
		f.Borders = &sheets.Borders{Top: thin, Bottom: &sheets.Border{Style: "DOUBLE"}}
	}

	if run.number {
		f.NumberFormat = &sheets.NumberFormat{Type: "NUMBER", Pattern: "#,##0.00"}
	}
	return f
}

// formatRequests builds the batch update that styles one tab.
func formatRequests(sh *layout.Sheet, sheetID int64) []*sheets.Request {
	var requests []*sheets.Request

	for _, run := range styleRuns(sh) {
		requests = append(requests, &sheets.Request{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    int64(run.row - 1),
					EndRowIndex:      int64(run.row),
					StartColumnIndex: int64(run.startCol - 1),
					EndColumnIndex:   int64(run.endCol - 1),
					ForceSendFields:  []string{"SheetId", "StartRowIndex", "StartColumnIndex"},
				},
				Cell:   &sheets.CellData{UserEnteredFormat: cellFormat(run)},
				Fields: "userEnteredFormat",
			},
		})
	}

	for i, width := range sh.ColumnWidths() {
		if width == 0 {
			continue
		}
		requests = append(requests, &sheets.Request{
			UpdateDimensionProperties: &sheets.UpdateDimensionPropertiesRequest{
				Range: &sheets.DimensionRange{
					SheetId:         sheetID,
					Dimension:       "COLUMNS",
					StartIndex:      int64(i),
					EndIndex:        int64(i + 1),
					ForceSendFields: []string{"SheetId", "StartIndex"},
				},
				Properties: &sheets.DimensionProperties{PixelSize: int64(width * pixelsPerChar)},
				Fields:     "pixelSize",
			},
		})
	}

	if sh.FrozenRows > 0 {
		requests = append(requests, &sheets.Request{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId:         sheetID,
					GridProperties:  &sheets.GridProperties{FrozenRowCount: int64(sh.FrozenRows)},
					ForceSendFields: []string{"SheetId"},
				},
				Fields: "gridProperties.frozenRowCount",
			},
		})
	}

	return requests
}
