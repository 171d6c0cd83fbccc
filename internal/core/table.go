package core

import (
	"fmt"
	"slices"
	"sort"
)

// Table is an ordered set of named columns and an ordered list of rows.
// Every row has exactly one cell per column. A Table is not modified after
// construction; accessors hand out copies.
type Table struct {
	columns []string
	rows    [][]string
}

// NewTable builds a Table, copying columns and rows.
// Returns an error if any row's length differs from the column count.
func NewTable(columns []string, rows [][]string) (*Table, error) {
	t := &Table{
		columns: slices.Clone(columns),
		rows:    make([][]string, 0, len(rows)),
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d has %d cells, expected %d", i, len(row), len(columns))
		}
		t.rows = append(t.rows, slices.Clone(row))
	}
	return t, nil
}

// newTableNoCopy takes ownership of columns and rows. Callers guarantee the
// row-length invariant.
func newTableNoCopy(columns []string, rows [][]string) *Table {
	return &Table{columns: columns, rows: rows}
}

// Columns returns a copy of the column names in order.
func (t *Table) Columns() []string {
	return slices.Clone(t.columns)
}

// Len returns the row count.
func (t *Table) Len() int {
	return len(t.rows)
}

// Row returns a copy of row i.
func (t *Table) Row(i int) []string {
	return slices.Clone(t.rows[i])
}

// Rows returns a copy of all rows.
func (t *Table) Rows() [][]string {
	out := make([][]string, len(t.rows))
	for i, r := range t.rows {
		out[i] = slices.Clone(r)
	}
	return out
}

// ColumnIndex returns the position of name, or -1.
func (t *Table) ColumnIndex(name string) int {
	return slices.Index(t.columns, name)
}

// columnSet returns the sorted column names, used for order-free comparison.
func (t *Table) columnSet() []string {
	set := slices.Clone(t.columns)
	sort.Strings(set)
	return slices.Compact(set)
}

// duplicateColumns returns column names that appear more than once, in
// first-repeat order.
func duplicateColumns(columns []string) []string {
	seen := make(map[string]bool, len(columns))
	var dups []string
	for _, c := range columns {
		if seen[c] {
			if !slices.Contains(dups, c) {
				dups = append(dups, c)
			}
			continue
		}
		seen[c] = true
	}
	return dups
}
