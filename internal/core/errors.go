package core

import (
	"errors"
	"fmt"
	"strings"
)

// LoadErrorKind classifies why Load produced no table.
type LoadErrorKind string

const (
	KindDecode LoadErrorKind = "decode" // Bytes are not text in the configured encoding
	KindEmpty  LoadErrorKind = "empty"  // No header row after skipping
	KindHeader LoadErrorKind = "header" // Header row is unusable (e.g. duplicate names)
	KindParse  LoadErrorKind = "parse"  // Both parse passes failed
)

// LoadError is the failure outcome of Load. Excerpt holds the start of the
// raw input so callers can show what the loader was looking at.
type LoadError struct {
	Kind    LoadErrorKind
	Err     error
	Excerpt string
}

func (e *LoadError) Error() string {
	switch e.Kind {
	case KindDecode:
		return fmt.Sprintf("encoding error: %v", e.Err)
	case KindEmpty:
		return fmt.Sprintf("empty file: %v", e.Err)
	case KindHeader:
		return fmt.Sprintf("invalid header: %v", e.Err)
	default:
		return fmt.Sprintf("invalid csv: %v", e.Err)
	}
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

var (
	// ErrNoHeader is wrapped by LoadError when no header row survives.
	ErrNoHeader = errors.New("no header row found")

	// ErrNoParsableRows is wrapped by LoadError when the input has data rows
	// but every one of them was malformed.
	ErrNoParsableRows = errors.New("no parsable rows")

	// ErrFileTooLarge is wrapped when an input exceeds the size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrUnknownExportTarget is returned by ParseExportTarget.
	ErrUnknownExportTarget = errors.New("unknown export target")
)

// DuplicateColumnsError reports repeated header names.
type DuplicateColumnsError struct {
	Columns []string
}

func (e *DuplicateColumnsError) Error() string {
	return fmt.Sprintf("duplicate column names: %s", strings.Join(e.Columns, ", "))
}

// SchemaMismatchError is returned by CompareTables in strict mode when the
// two tables do not share a column set.
type SchemaMismatchError struct {
	ColumnsA []string
	ColumnsB []string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("schema mismatch: columns %v do not match %v", e.ColumnsA, e.ColumnsB)
}

// MissingInA returns columns present in B but not in A.
func (e *SchemaMismatchError) MissingInA() []string {
	return columnsMinus(e.ColumnsB, e.ColumnsA)
}

// MissingInB returns columns present in A but not in B.
func (e *SchemaMismatchError) MissingInB() []string {
	return columnsMinus(e.ColumnsA, e.ColumnsB)
}

func columnsMinus(a, b []string) []string {
	inB := make(map[string]bool, len(b))
	for _, c := range b {
		inB[c] = true
	}
	var out []string
	for _, c := range a {
		if !inB[c] {
			out = append(out, c)
		}
	}
	return out
}

// InvalidOptionError reports an unusable option value.
type InvalidOptionError struct {
	Option string
	Value  string
}

func (e *InvalidOptionError) Error() string {
	return fmt.Sprintf("invalid option %s: %q", e.Option, e.Value)
}
