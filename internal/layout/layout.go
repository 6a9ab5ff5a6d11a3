// Package layout describes report sheets as plain data: typed cell values at
// row/column coordinates plus style tags. Renderers turn a SheetSet into a
// concrete spreadsheet.
package layout

import (
	"strconv"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Kind is the type of a cell value.
type Kind int

// Cell value kinds.
const (
	KindBlank Kind = iota
	KindText
	KindNumber
	KindInteger
)

// Value is a typed cell value.
type Value struct {
	Number  decimal.Decimal
	Text    string
	Integer int
	Kind    Kind
}

// Blank returns an empty value.
func Blank() Value { return Value{} }

// Text returns a text value.
func Text(s string) Value { return Value{Kind: KindText, Text: s} }

// Number returns a decimal value.
func Number(d decimal.Decimal) Value { return Value{Kind: KindNumber, Number: d} }

// Integer returns an integer value.
func Integer(n int) Value { return Value{Kind: KindInteger, Integer: n} }

// IsBlank reports whether the value is empty.
func (v Value) IsBlank() bool { return v.Kind == KindBlank }

// String renders the value the way it should read in a cell.
func (v Value) String() string {
	switch v.Kind {
	case KindText:
		return v.Text
	case KindNumber:
		return v.Number.StringFixed(2)
	case KindInteger:
		return strconv.Itoa(v.Integer)
	default:
		return ""
	}
}

// Any returns the value as a plain Go value for writers that take interfaces.
// Numbers become float64, the type spreadsheets store.
func (v Value) Any() any {
	switch v.Kind {
	case KindText:
		return v.Text
	case KindNumber:
		return v.Number.InexactFloat64()
	case KindInteger:
		return v.Integer
	default:
		return nil
	}
}

// Style tags presentation; renderers decide what each tag looks like.
type Style int

// Style tags.
const (
	StyleNone Style = iota
	StyleTitle
	StyleHeader
	StyleData
	StyleDataCentered
	StyleTotal
)

func (s Style) String() string {
	switch s {
	case StyleTitle:
		return "title"
	case StyleHeader:
		return "header"
	case StyleData:
		return "data"
	case StyleDataCentered:
		return "data-centered"
	case StyleTotal:
		return "total"
	default:
		return "none"
	}
}

// Cell places a value at a 1-based row and column.
type Cell struct {
	Value Value
	Row   int
	Col   int
	Style Style
}

// Sheet is one worksheet of the report.
type Sheet struct {
	Name string
	// Cells are kept in row-major order.
	Cells []Cell
	// FrozenRows is the number of rows kept visible while scrolling.
	FrozenRows int
	// DataRows is the number of record rows below the header.
	DataRows int
}

// Set appends a cell.
func (s *Sheet) Set(row, col int, value Value, style Style) {
	s.Cells = append(s.Cells, Cell{Row: row, Col: col, Value: value, Style: style})
}

// At returns the cell at row/col.
func (s *Sheet) At(row, col int) (Cell, bool) {
	for _, c := range s.Cells {
		if c.Row == row && c.Col == col {
			return c, true
		}
	}
	return Cell{}, false
}

// Bounds returns the last used row and column.
func (s *Sheet) Bounds() (maxRow, maxCol int) {
	for _, c := range s.Cells {
		if c.Row > maxRow {
			maxRow = c.Row
		}
		if c.Col > maxCol {
			maxCol = c.Col
		}
	}
	return maxRow, maxCol
}

// Grid returns a dense row-major matrix of plain values, starting at A1.
func (s *Sheet) Grid() [][]any {
	maxRow, maxCol := s.Bounds()
	grid := make([][]any, maxRow)
	for i := range grid {
		grid[i] = make([]any, maxCol)
	}
	for _, c := range s.Cells {
		grid[c.Row-1][c.Col-1] = c.Value.Any()
	}
	return grid
}

// ColumnWidths returns the width of every column up to the last used one:
// the longest rendered value plus two characters of padding. Title cells do
// not widen their column.
func (s *Sheet) ColumnWidths() []float64 {
	_, maxCol := s.Bounds()
	longest := make([]int, maxCol)
	for _, c := range s.Cells {
		if c.Style == StyleTitle {
			continue
		}
		if n := utf8.RuneCountInString(c.Value.String()); n > longest[c.Col-1] {
			longest[c.Col-1] = n
		}
	}

	widths := make([]float64, maxCol)
	for i, n := range longest {
		if n == 0 {
			continue
		}
		widths[i] = float64(n + 2)
	}
	return widths
}

// SheetSet is the ordered collection of sheets that makes up a report.
type SheetSet struct {
	Title  string
	Sheets []Sheet
}

// Names returns the sheet names in order.
func (s *SheetSet) Names() []string {
	names := make([]string, len(s.Sheets))
	for i, sh := range s.Sheets {
		names[i] = sh.Name
	}
	return names
}

// Sheet looks a sheet up by name.
func (s *SheetSet) Sheet(name string) (*Sheet, bool) {
	for i := range s.Sheets {
		if s.Sheets[i].Name == name {
			return &s.Sheets[i], true
		}
	}
	return nil, false
}
