package core

// loader.go parses delimited text into a Table.
//
// Parsing runs in up to two passes:
//
//  1. Lenient: a full RFC 4180 reader. Short rows are padded, long rows and
//     rows with single-line quote errors are dropped, each with a RowWarning.
//     A quote problem that spans several physical lines aborts the pass,
//     since the reader may have absorbed well-formed rows into one field.
//  2. Strict-fast: only after the lenient pass aborts. Every physical line is
//     parsed on its own with a fixed field count; any line that does not
//     parse cleanly is skipped.
//
// Either pass fails with ErrNoParsableRows when the input has data rows and
// none of them survive. Accepted records that span several physical lines
// get a RowWarning that is not marked Dropped, since a stray quote may have
// merged rows into one field.
//
// Header problems (none found, duplicate names) are not parse failures and
// do not trigger the second pass.

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// lenientAbort signals that the lenient pass cannot be trusted for this input.
type lenientAbort struct {
	line   int
	reason string
}

func (e *lenientAbort) Error() string {
	return fmt.Sprintf("line %d: %s", e.line, e.reason)
}

// Load parses raw delimited text into a Table. On failure the returned error
// is a *LoadError carrying a short excerpt of raw.
func Load(raw []byte, opts LoadOptions) (*LoadResult, error) {
	opts = opts.withDefaults()

	fail := func(kind LoadErrorKind, err error) error {
		return &LoadError{Kind: kind, Err: err, Excerpt: excerpt(raw, opts.ExcerptLength)}
	}

	if opts.SkipRows < 0 {
		return nil, fail(KindParse, &InvalidOptionError{Option: "skip_rows", Value: fmt.Sprint(opts.SkipRows)})
	}
	if !validDelimiter(opts.Delimiter) {
		return nil, fail(KindParse, &InvalidOptionError{Option: "delimiter", Value: string(opts.Delimiter)})
	}

	text, err := decodeInput(raw, opts)
	if err != nil {
		return nil, fail(KindDecode, err)
	}

	body, firstLine := skipLines(text, opts.SkipRows)

	res, err := parseLenient(body, opts.Delimiter, firstLine)
	var abort *lenientAbort
	if errors.As(err, &abort) {
		res, err = parseStrictFast(body, opts.Delimiter, firstLine)
	}
	if err != nil {
		return nil, fail(classifyParseError(err), err)
	}
	return res, nil
}

// classifyParseError maps parser errors to a LoadErrorKind.
func classifyParseError(err error) LoadErrorKind {
	var dup *DuplicateColumnsError
	switch {
	case errors.Is(err, ErrNoHeader):
		return KindEmpty
	case errors.As(err, &dup):
		return KindHeader
	default:
		return KindParse
	}
}

// validDelimiter mirrors the restrictions of encoding/csv.
func validDelimiter(r rune) bool {
	return r != 0 && r != '"' && r != '\r' && r != '\n' && utf8.ValidRune(r) && r != utf8.RuneError
}

// skipLines drops the first n physical lines of text. It returns the rest and
// the 1-indexed line number the rest starts at.
func skipLines(text string, n int) (string, int) {
	rest := text
	for i := 0; i < n; i++ {
		idx := strings.IndexByte(rest, '\n')
		if idx < 0 {
			return "", n + 1
		}
		rest = rest[idx+1:]
	}
	return rest, n + 1
}

// makeColumns turns a header record into column names. Empty names become
// "Unnamed: <i>"; duplicates are rejected.
func makeColumns(record []string) ([]string, error) {
	cols := make([]string, len(record))
	for i, name := range record {
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		cols[i] = name
	}
	if dups := duplicateColumns(cols); len(dups) > 0 {
		return nil, &DuplicateColumnsError{Columns: dups}
	}
	return cols, nil
}

func parseLenient(body string, delim rune, firstLine int) (*LoadResult, error) {
	r := csv.NewReader(strings.NewReader(body))
	r.Comma = delim
	r.FieldsPerRecord = -1

	lineOf := func(l int) int { return firstLine + l - 1 }

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return nil, &lenientAbort{line: lineOf(pe.StartLine), reason: "unparsable header: " + pe.Err.Error()}
		}
		return nil, err
	}
	columns, err := makeColumns(header)
	if err != nil {
		return nil, err
	}

	n := len(columns)
	var rows [][]string
	var warnings []RowWarning

	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if !errors.As(err, &pe) {
				return nil, err
			}
			if pe.Line > pe.StartLine {
				return nil, &lenientAbort{line: lineOf(pe.StartLine), reason: "quoted field spans lines: " + pe.Err.Error()}
			}
			warnings = append(warnings, RowWarning{Line: lineOf(pe.StartLine), Reason: pe.Err.Error(), Dropped: true})
			continue
		}

		start, _ := r.FieldPos(0)
		end, _ := r.FieldPos(len(rec) - 1)
		end += strings.Count(rec[len(rec)-1], "\n")
		multiLine := end > start

		// A quoted newline in a ragged row usually means a stray quote
		// merged neighbouring rows.
		if multiLine && len(rec) != n {
			return nil, &lenientAbort{line: lineOf(start), reason: fmt.Sprintf("multi-line row has %d fields, expected %d", len(rec), n)}
		}

		switch {
		case len(rec) == n:
			rows = append(rows, rec)
			if multiLine {
				warnings = append(warnings, RowWarning{
					Line:   lineOf(start),
					Reason: fmt.Sprintf("record spans lines %d-%d; a stray quote may have merged rows", lineOf(start), lineOf(end)),
				})
			}
		case len(rec) < n:
			padded := make([]string, n)
			copy(padded, rec)
			rows = append(rows, padded)
			warnings = append(warnings, RowWarning{
				Line:   lineOf(start),
				Reason: fmt.Sprintf("row has %d fields, expected %d; padded with empty values", len(rec), n),
			})
		default:
			warnings = append(warnings, RowWarning{
				Line:    lineOf(start),
				Reason:  fmt.Sprintf("row has %d fields, expected %d", len(rec), n),
				Dropped: true,
			})
		}
	}

	if len(rows) == 0 && len(warnings) > 0 {
		return nil, fmt.Errorf("%w: all %d data rows were malformed", ErrNoParsableRows, len(warnings))
	}

	return &LoadResult{
		Table:    newTableNoCopy(columns, rows),
		Strategy: StrategyLenient,
		Warnings: warnings,
	}, nil
}

func parseStrictFast(body string, delim rune, firstLine int) (*LoadResult, error) {
	lines := strings.Split(body, "\n")

	var columns []string
	var rows [][]string
	var warnings []RowWarning
	dropped := 0

	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		lineNum := firstLine + i

		if columns == nil {
			rec, err := splitLine(line, delim, -1)
			if err != nil {
				warnings = append(warnings, RowWarning{Line: lineNum, Reason: "unparsable header: " + err.Error(), Dropped: true})
				continue
			}
			cols, err := makeColumns(rec)
			if err != nil {
				return nil, err
			}
			columns = cols
			continue
		}

		rec, err := splitLine(line, delim, len(columns))
		if err != nil {
			warnings = append(warnings, RowWarning{Line: lineNum, Reason: err.Error(), Dropped: true})
			dropped++
			continue
		}
		rows = append(rows, rec)
	}

	if columns == nil {
		return nil, ErrNoHeader
	}
	if len(rows) == 0 && dropped > 0 {
		return nil, fmt.Errorf("%w: all %d data rows were malformed", ErrNoParsableRows, dropped)
	}
	return &LoadResult{
		Table:    newTableNoCopy(columns, rows),
		Strategy: StrategyStrictFast,
		Warnings: warnings,
	}, nil
}

// splitLine parses one physical line. Lines without quotes are split
// directly; quoted lines go through encoding/csv. want < 0 accepts any
// field count.
func splitLine(line string, delim rune, want int) ([]string, error) {
	var rec []string
	if !strings.ContainsRune(line, '"') {
		rec = strings.Split(line, string(delim))
	} else {
		// A lone physical line with an odd quote count opens a field it
		// never closes.
		if strings.Count(line, `"`)%2 == 1 {
			return nil, errors.New("unterminated quoted field")
		}
		r := csv.NewReader(strings.NewReader(line))
		r.Comma = delim
		r.FieldsPerRecord = -1
		var err error
		rec, err = r.Read()
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, pe.Err
			}
			return nil, err
		}
	}
	if want >= 0 && len(rec) != want {
		return nil, fmt.Errorf("row has %d fields, expected %d", len(rec), want)
	}
	return rec, nil
}
