package core

import (
	"strconv"
	"strings"
)

// RowKey identifies a record by the ordered tuple of its cell values.
//
// Cells are length-prefixed so distinct tuples never encode to the same key:
// ["a,b"] and ["a", "b"] produce different keys. Two keys are equal iff their
// tuples are equal cell by cell. RowKey is comparable and can be used as a
// map key.
type RowKey struct {
	enc string
}

// NewRowKey builds the key for cells.
func NewRowKey(cells []string) RowKey {
	size := 0
	for _, c := range cells {
		size += len(c) + 4
	}
	var b strings.Builder
	b.Grow(size)
	for _, c := range cells {
		b.WriteString(strconv.Itoa(len(c)))
		b.WriteByte(':')
		b.WriteString(c)
	}
	return RowKey{enc: b.String()}
}

// projectedRowKey builds the key for row with cells taken in the order given
// by idx.
func projectedRowKey(row []string, idx []int) RowKey {
	cells := make([]string, len(idx))
	for i, j := range idx {
		cells[i] = row[j]
	}
	return NewRowKey(cells)
}

// String returns the encoded key. Useful in logs and test failures.
func (k RowKey) String() string {
	return k.enc
}
