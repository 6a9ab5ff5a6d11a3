package model

// Table is the raw content loaded from a tabular store.
// Every cell is text; numbers are in plain decimal notation and dates either
// ISO formatted or as spreadsheet serials, depending on the source.
type Table struct {
	Source  string
	Headers []string
	Rows    [][]string
}

// Cell returns the value at row/col, or "" when the row is short.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 {
		return ""
	}
	r := t.Rows[row]
	if col >= len(r) {
		return ""
	}
	return r[col]
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}
