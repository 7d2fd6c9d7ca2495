package model

import "fmt"

// Column names shared by rule tables and statements.
const (
	ColumnKeyword        = "Key Word"
	ColumnCategory       = "Category"
	ColumnDescription    = "Description"
	ColumnCategorization = "Categorization"
)

// Table is an ordered set of named columns and rows of cells. Every row has
// exactly len(Columns) cells.
type Table struct {
	Columns []string
	Rows    [][]Value
}

// NewTable creates an empty table with the given header.
func NewTable(columns []string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Columns: cols}
}

// HeaderName returns the column name for a header cell, naming blank headers
// "Unnamed: <index>" so every column stays addressable.
func HeaderName(raw string, index int) string {
	if raw == "" {
		return fmt.Sprintf("Unnamed: %d", index)
	}
	return raw
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// ColumnIndex returns the index of the first column named name (exact,
// case-sensitive), or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the table has a column named name.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// AppendRow adds a row, padding short rows with Null. It returns an error if
// the row is wider than the header.
func (t *Table) AppendRow(row []Value) error {
	if len(row) > len(t.Columns) {
		return fmt.Errorf("expected at most %d fields, got %d", len(t.Columns), len(row))
	}
	cells := make([]Value, len(t.Columns))
	copy(cells, row)
	t.Rows = append(t.Rows, cells)
	return nil
}

// Cell returns the cell at row i in column name, or Null if the column does
// not exist.
func (t *Table) Cell(i int, name string) Value {
	idx := t.ColumnIndex(name)
	if idx < 0 || i < 0 || i >= len(t.Rows) {
		return NullValue()
	}
	return t.Rows[i][idx]
}

// Column returns every cell of the named column in row order.
func (t *Table) Column(name string) ([]Value, bool) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, false
	}
	out := make([]Value, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out, true
}

// Clone returns a deep copy; mutating the clone never affects t.
func (t *Table) Clone() *Table {
	c := NewTable(t.Columns)
	c.Rows = make([][]Value, len(t.Rows))
	for i, row := range t.Rows {
		cells := make([]Value, len(row))
		copy(cells, row)
		c.Rows[i] = cells
	}
	return c
}

// Head returns a copy holding the first n rows.
func (t *Table) Head(n int) *Table {
	if n < 0 {
		n = 0
	}
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	h := &Table{Columns: t.Columns, Rows: t.Rows[:n]}
	return h.Clone()
}
