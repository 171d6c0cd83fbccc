package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "decode failure",
			err:         &LoadError{Kind: KindDecode, Err: errors.New("invalid UTF-8 byte 0xFF at offset 3")},
			wantCode:    "FILE003",
			wantMessage: "File is not readable in the chosen encoding",
		},
		{
			name:        "no header",
			err:         &LoadError{Kind: KindEmpty, Err: ErrNoHeader},
			wantCode:    "FILE004",
			wantMessage: "No header row was found",
		},
		{
			name:        "duplicate header names",
			err:         &LoadError{Kind: KindHeader, Err: &DuplicateColumnsError{Columns: []string{"id"}}},
			wantCode:    "CSV002",
			wantMessage: "The header repeats a column name",
		},
		{
			name:        "invalid option beats invalid csv",
			err:         &LoadError{Kind: KindParse, Err: &InvalidOptionError{Option: "delimiter", Value: "\""}},
			wantCode:    "CSV001",
			wantMessage: "A loader setting is not usable",
		},
		{
			name:        "unparsable input",
			err:         &LoadError{Kind: KindParse, Err: errors.New("line 2: bare quote")},
			wantCode:    "CSV004",
			wantMessage: "File could not be parsed as delimited text",
		},
		{
			name:        "schema mismatch",
			err:         &SchemaMismatchError{ColumnsA: []string{"a"}, ColumnsB: []string{"b"}},
			wantCode:    "SCH001",
			wantMessage: "The files have different columns",
		},
		{
			name:        "wrapped limiter error",
			err:         fmt.Errorf("compare: %w", ErrTooManyComparisons),
			wantCode:    "CMP001",
			wantMessage: "System is busy processing other comparisons",
		},
		{
			name:        "deadline",
			err:         context.DeadlineExceeded,
			wantCode:    "UPL002",
			wantMessage: "Request timed out",
		},
		{
			name:        "file too large",
			err:         errors.New("file too large: 200MB exceeds limit"),
			wantCode:    "FILE001",
			wantMessage: "File exceeds the maximum upload size",
		},
		{
			name:        "rate limit maps correctly",
			err:         errors.New("rate limit exceeded"),
			wantCode:    "RATE001",
			wantMessage: "Too many requests",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
		{
			name:        "file name does not pick the code",
			err:         &InputError{Input: "file1", Name: "empty file report.csv", Err: &LoadError{Kind: KindHeader, Err: &DuplicateColumnsError{Columns: []string{"id"}}}},
			wantCode:    "CSV002",
			wantMessage: "The header repeats a column name",
		},
		{
			name:        "file name ignored by text patterns",
			err:         &InputError{Input: "file2", Name: "schema mismatch.csv", Err: errors.New("read failed")},
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
		{
			name:        "wrapped too large",
			err:         &InputError{Input: "file2", Name: "b.csv", Err: fmt.Errorf("%w: 10 bytes exceeds limit of 5", ErrFileTooLarge)},
			wantCode:    "FILE001",
			wantMessage: "File exceeds the maximum upload size",
		},
		{
			name:        "all rows malformed",
			err:         &LoadError{Kind: KindParse, Err: fmt.Errorf("%w: all 2 data rows were malformed", ErrNoParsableRows)},
			wantCode:    "CSV004",
			wantMessage: "File could not be parsed as delimited text",
		},
		{
			name:        "unknown export target",
			err:         fmt.Errorf("%w %q", ErrUnknownExportTarget, "both"),
			wantCode:    "CMP002",
			wantMessage: "Export target is not recognised",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("SCHEMA MISMATCH"),
			wantCode:    "SCH001",
			wantMessage: "The files have different columns",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	err := &SchemaMismatchError{ColumnsA: []string{"a"}, ColumnsB: []string{"b"}}
	result := FormatUserError(err)

	expected := "The files have different columns (Code: SCH001). Align the headers or compare with override enabled"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error is not user facing",
			err:  nil,
			want: false,
		},
		{
			name: "known error is user facing",
			err:  &LoadError{Kind: KindEmpty, Err: ErrNoHeader},
			want: true,
		},
		{
			name: "unknown error is not user facing",
			err:  errors.New("random internal error xyz"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsUserFacing(tt.err)
			if got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}
