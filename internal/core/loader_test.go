package core

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLoad(t *testing.T, raw string, opts LoadOptions) *LoadResult {
	t.Helper()
	res, err := Load([]byte(raw), opts)
	require.NoError(t, err)
	return res
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		opts         LoadOptions
		wantColumns  []string
		wantRows     [][]string
		wantStrategy ParseStrategy
		wantWarnings []RowWarning
	}{
		{
			name:         "well formed",
			raw:          "id,val\n1,x\n2,y\n",
			wantColumns:  []string{"id", "val"},
			wantRows:     [][]string{{"1", "x"}, {"2", "y"}},
			wantStrategy: StrategyLenient,
		},
		{
			name:         "no trailing newline and crlf",
			raw:          "id,val\r\n1,x\r\n2,y",
			wantColumns:  []string{"id", "val"},
			wantRows:     [][]string{{"1", "x"}, {"2", "y"}},
			wantStrategy: StrategyLenient,
		},
		{
			name:         "header only",
			raw:          "id,val\n",
			wantColumns:  []string{"id", "val"},
			wantRows:     nil,
			wantStrategy: StrategyLenient,
		},
		{
			name:         "custom delimiter",
			raw:          "id;val\n1;a,b\n",
			opts:         LoadOptions{Delimiter: ';'},
			wantColumns:  []string{"id", "val"},
			wantRows:     [][]string{{"1", "a,b"}},
			wantStrategy: StrategyLenient,
		},
		{
			name:         "tab delimiter",
			raw:          "id\tval\n1\tx\n",
			opts:         LoadOptions{Delimiter: '\t'},
			wantColumns:  []string{"id", "val"},
			wantRows:     [][]string{{"1", "x"}},
			wantStrategy: StrategyLenient,
		},
		{
			name:         "quoted delimiter and newline",
			raw:          "id,note\n1,\"a,b\"\n2,\"line1\nline2\"\n",
			wantColumns:  []string{"id", "note"},
			wantRows:     [][]string{{"1", "a,b"}, {"2", "line1\nline2"}},
			wantStrategy: StrategyLenient,
			wantWarnings: []RowWarning{{Line: 3, Reason: "record spans lines 3-4; a stray quote may have merged rows"}},
		},
		{
			name:         "stray quote closing later is flagged",
			raw:          "id,val\n1,\"x\n2,y\n3,z\"\n4,w\n",
			wantColumns:  []string{"id", "val"},
			wantRows:     [][]string{{"1", "x\n2,y\n3,z"}, {"4", "w"}},
			wantStrategy: StrategyLenient,
			wantWarnings: []RowWarning{{Line: 2, Reason: "record spans lines 2-4; a stray quote may have merged rows"}},
		},
		{
			name:         "skip rows before header",
			raw:          "Quarterly export\ngenerated 2024-01-01\nid,val\n1,x\n",
			opts:         LoadOptions{SkipRows: 2},
			wantColumns:  []string{"id", "val"},
			wantRows:     [][]string{{"1", "x"}},
			wantStrategy: StrategyLenient,
		},
		{
			name:         "blank lines ignored",
			raw:          "id,val\n\n1,x\n\n",
			wantColumns:  []string{"id", "val"},
			wantRows:     [][]string{{"1", "x"}},
			wantStrategy: StrategyLenient,
		},
		{
			name:         "empty header names",
			raw:          "id,,val\n1,2,3\n",
			wantColumns:  []string{"id", "Unnamed: 1", "val"},
			wantRows:     [][]string{{"1", "2", "3"}},
			wantStrategy: StrategyLenient,
		},
		{
			name:         "extra field dropped",
			raw:          "id,val\n1,x\n2,y,extra\n3,z\n",
			wantColumns:  []string{"id", "val"},
			wantRows:     [][]string{{"1", "x"}, {"3", "z"}},
			wantStrategy: StrategyLenient,
			wantWarnings: []RowWarning{{Line: 3, Reason: "row has 3 fields, expected 2", Dropped: true}},
		},
		{
			name:         "short row padded",
			raw:          "id,val\n1\n2,y\n",
			wantColumns:  []string{"id", "val"},
			wantRows:     [][]string{{"1", ""}, {"2", "y"}},
			wantStrategy: StrategyLenient,
			wantWarnings: []RowWarning{{Line: 2, Reason: "row has 1 fields, expected 2; padded with empty values"}},
		},
		{
			name:         "warning lines count skipped rows",
			raw:          "junk\nid,val\n1,x,9\n2,y\n",
			opts:         LoadOptions{SkipRows: 1},
			wantColumns:  []string{"id", "val"},
			wantRows:     [][]string{{"2", "y"}},
			wantStrategy: StrategyLenient,
			wantWarnings: []RowWarning{{Line: 3, Reason: "row has 3 fields, expected 2", Dropped: true}},
		},
		{
			name:         "bare quote on one line dropped",
			raw:          "id,val\n1,a\"b\n2,c\n",
			wantColumns:  []string{"id", "val"},
			wantRows:     [][]string{{"2", "c"}},
			wantStrategy: StrategyLenient,
			wantWarnings: []RowWarning{{Line: 2, Reason: `bare " in non-quoted-field`, Dropped: true}},
		},
		{
			name:         "unterminated quote falls back",
			raw:          "id,val\n1,\"x\n2,y\n3,z\n",
			wantColumns:  []string{"id", "val"},
			wantRows:     [][]string{{"2", "y"}, {"3", "z"}},
			wantStrategy: StrategyStrictFast,
			wantWarnings: []RowWarning{{Line: 2, Reason: "unterminated quoted field", Dropped: true}},
		},
		{
			name:         "quote error across lines falls back",
			raw:          "id,val\n1,\"a\n2,b\"x\n3,c\n",
			wantColumns:  []string{"id", "val"},
			wantRows:     [][]string{{"3", "c"}},
			wantStrategy: StrategyStrictFast,
			wantWarnings: []RowWarning{
				{Line: 2, Reason: "unterminated quoted field", Dropped: true},
				{Line: 3, Reason: "unterminated quoted field", Dropped: true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := mustLoad(t, tt.raw, tt.opts)
			assert.Equal(t, tt.wantColumns, res.Table.Columns())
			if len(tt.wantRows) == 0 {
				assert.Equal(t, 0, res.Table.Len())
			} else {
				assert.Equal(t, tt.wantRows, res.Table.Rows())
			}
			assert.Equal(t, tt.wantStrategy, res.Strategy)
			assert.Equal(t, tt.wantWarnings, res.Warnings)
		})
	}
}

func TestLoadMalformedRowRecovery(t *testing.T) {
	raw := "id,val\n1,a\n2,b\n3,c,oops\n4,d\n5,e\n"
	res := mustLoad(t, raw, LoadOptions{})

	assert.Equal(t, 5-res.DroppedRows(), res.Table.Len())
	assert.Equal(t, 1, res.DroppedRows())
	for _, row := range res.Table.Rows() {
		assert.Len(t, row, 2)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name     string
		raw      []byte
		opts     LoadOptions
		wantKind LoadErrorKind
		wantMsg  string
	}{
		{
			name:     "empty input",
			raw:      nil,
			wantKind: KindEmpty,
			wantMsg:  "empty file",
		},
		{
			name:     "only blank lines",
			raw:      []byte("\n\r\n\n"),
			wantKind: KindEmpty,
		},
		{
			name:     "skip past end",
			raw:      []byte("id\n1\n"),
			opts:     LoadOptions{SkipRows: 5},
			wantKind: KindEmpty,
		},
		{
			name:     "duplicate header",
			raw:      []byte("id,name,id\n1,a,2\n"),
			wantKind: KindHeader,
			wantMsg:  "duplicate column names: id",
		},
		{
			name:     "invalid utf-8",
			raw:      []byte("id\n\xc3\x28\n"),
			wantKind: KindDecode,
			wantMsg:  "encoding error",
		},
		{
			name:     "quote delimiter",
			raw:      []byte("a\n"),
			opts:     LoadOptions{Delimiter: '"'},
			wantKind: KindParse,
			wantMsg:  "invalid option delimiter",
		},
		{
			name:     "newline delimiter",
			raw:      []byte("a\n"),
			opts:     LoadOptions{Delimiter: '\n'},
			wantKind: KindParse,
		},
		{
			name:     "every row malformed",
			raw:      []byte("id,val\n1,x,extra\n2,y,extra\n"),
			wantKind: KindParse,
			wantMsg:  "all 2 data rows were malformed",
		},
		{
			name:     "every row malformed after fallback",
			raw:      []byte("id,val\n1,\"x\n2,\"y\n"),
			wantKind: KindParse,
			wantMsg:  "no parsable rows",
		},
		{
			name:     "negative skip rows",
			raw:      []byte("a\n"),
			opts:     LoadOptions{SkipRows: -1},
			wantKind: KindParse,
			wantMsg:  "skip_rows",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Load(tt.raw, tt.opts)
			assert.Nil(t, res)
			var le *LoadError
			require.True(t, errors.As(err, &le), "want *LoadError, got %T", err)
			assert.Equal(t, tt.wantKind, le.Kind)
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestLoadAllRowsMalformed(t *testing.T) {
	raw := "id,val\n1,x,extra\n2,y,extra\n"

	_, err := Load([]byte(raw), LoadOptions{})
	require.ErrorIs(t, err, ErrNoParsableRows)
	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, raw, le.Excerpt)

	// A header with no data rows is still a valid empty table.
	res := mustLoad(t, "id,val\n\n", LoadOptions{})
	assert.Equal(t, 0, res.Table.Len())
	assert.Empty(t, res.Warnings)
}

func TestLoadDecodeFailureExcerpt(t *testing.T) {
	raw := []byte("id,name\n" + strings.Repeat("1,abcdefghij\n", 100) + "\xff\n")

	_, err := Load(raw, LoadOptions{})
	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, KindDecode, le.Kind)
	assert.Equal(t, DefaultExcerptLength, utf8.RuneCountInString(le.Excerpt))
	assert.True(t, strings.HasPrefix(le.Excerpt, "id,name\n1,abcdefghij"))

	_, err = Load(raw, LoadOptions{ExcerptLength: 10})
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "id,name\n1,", le.Excerpt)
}

func TestLoadReplaceInvalid(t *testing.T) {
	res := mustLoad(t, "id,name\n1,caf\xe9\n", LoadOptions{ReplaceInvalid: true})
	assert.Equal(t, [][]string{{"1", "caf\uFFFD"}}, res.Table.Rows())
}

func TestLoadLatin1(t *testing.T) {
	res := mustLoad(t, "id,name\n1,caf\xe9\n", LoadOptions{Encoding: "latin-1"})
	assert.Equal(t, [][]string{{"1", "café"}}, res.Table.Rows())
}

func TestLoadNeverPanics(t *testing.T) {
	inputs := []string{
		`"`,
		`""`,
		"\"\n\"",
		",,,",
		"\r",
		"a,\"b\nc",
		"a\n\"",
		"a,b\n\"\"\"\n",
		"\"a\"b,c\n1,2\n",
		strings.Repeat(",", 1000),
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() {
			res, err := Load([]byte(in), LoadOptions{})
			if err == nil {
				for _, row := range res.Table.Rows() {
					assert.Len(t, row, len(res.Table.Columns()))
				}
			}
		}, "input %q", in)
	}
}
