package core

import "slices"

// SchemasMatch reports whether a and b have the same set of column names,
// ignoring order.
func SchemasMatch(a, b *Table) bool {
	return slices.Equal(a.columnSet(), b.columnSet())
}

// CompareTables computes the rows found only in a and only in b.
//
// Rows are compared as whole tuples with set semantics: repeated rows within
// one table count once, and each result holds one representative per
// distinct row. Result row order is not significant.
//
// In ModeStrict a column-set mismatch returns *SchemaMismatchError and no
// comparison is made. In ModeOverride the comparison proceeds and each result
// keeps its own input's columns. When the column sets match, b's rows are
// keyed in a's column order so a reordered header does not produce false
// differences.
func CompareTables(a, b *Table, mode CompareMode) (*ComparisonResult, error) {
	match := SchemasMatch(a, b)
	if !match && mode != ModeOverride {
		return nil, &SchemaMismatchError{ColumnsA: a.Columns(), ColumnsB: b.Columns()}
	}

	var projB []int
	if match && !slices.Equal(a.columns, b.columns) {
		projB = make([]int, len(a.columns))
		for i, c := range a.columns {
			projB[i] = b.ColumnIndex(c)
		}
	}

	distinctA := distinctRows(a, nil)
	distinctB := distinctRows(b, projB)

	onlyA := distinctA.missingFrom(a, distinctB)
	onlyB := distinctB.missingFrom(b, distinctA)

	stats := CompareStats{
		RowsFirst:         a.Len(),
		RowsSecond:        b.Len(),
		DistinctFirst:     len(distinctA.order),
		DistinctSecond:    len(distinctB.order),
		DuplicatesFirst:   a.Len() - len(distinctA.order),
		DuplicatesSecond:  b.Len() - len(distinctB.order),
		Common:            len(distinctA.order) - len(onlyA),
		OnlyInFirstCount:  len(onlyA),
		OnlyInSecondCount: len(onlyB),
	}

	return &ComparisonResult{
		OnlyInFirst:  newTableNoCopy(a.Columns(), onlyA),
		OnlyInSecond: newTableNoCopy(b.Columns(), onlyB),
		Mode:         mode,
		Stats:        stats,
	}, nil
}

// rowSet is the distinct rows of one table: each key and the index of the
// first row that produced it, in input order.
type rowSet struct {
	keys  map[RowKey]struct{}
	order []keyedRow
}

type keyedRow struct {
	key   RowKey
	index int
}

// distinctRows keys every row of t. proj, when non-nil, reorders cells
// before keying.
func distinctRows(t *Table, proj []int) rowSet {
	s := rowSet{
		keys:  make(map[RowKey]struct{}, len(t.rows)),
		order: make([]keyedRow, 0, len(t.rows)),
	}
	for i, row := range t.rows {
		var k RowKey
		if proj != nil {
			k = projectedRowKey(row, proj)
		} else {
			k = NewRowKey(row)
		}
		if _, seen := s.keys[k]; seen {
			continue
		}
		s.keys[k] = struct{}{}
		s.order = append(s.order, keyedRow{key: k, index: i})
	}
	return s
}

func (s rowSet) contains(k RowKey) bool {
	_, ok := s.keys[k]
	return ok
}

// missingFrom returns copies of the representative rows of t whose key is
// absent from other.
func (s rowSet) missingFrom(t *Table, other rowSet) [][]string {
	var out [][]string
	for _, kr := range s.order {
		if other.contains(kr.key) {
			continue
		}
		out = append(out, slices.Clone(t.rows[kr.index]))
	}
	return out
}

// Combine stacks the two sides of a comparison into one table.
//
// Columns follow OnlyInFirst's order, followed by any columns that appear
// only in OnlyInSecond. Rows from OnlyInFirst come first. Rows are matched
// to output columns by name; cells for columns a side lacks are empty.
func Combine(r *ComparisonResult) *Table {
	first, second := r.OnlyInFirst, r.OnlyInSecond

	columns := slices.Clone(first.columns)
	for _, c := range second.columns {
		if !slices.Contains(columns, c) {
			columns = append(columns, c)
		}
	}

	rows := make([][]string, 0, first.Len()+second.Len())
	rows = appendProjected(rows, first, columns)
	rows = appendProjected(rows, second, columns)
	return newTableNoCopy(columns, rows)
}

// appendProjected appends t's rows laid out over columns.
func appendProjected(dst [][]string, t *Table, columns []string) [][]string {
	idx := make([]int, len(columns))
	for i, c := range columns {
		idx[i] = t.ColumnIndex(c)
	}
	for _, row := range t.rows {
		out := make([]string, len(columns))
		for i, j := range idx {
			if j >= 0 {
				out[i] = row[j]
			}
		}
		dst = append(dst, out)
	}
	return dst
}
