package core

// CompareMode controls how CompareTables reacts to a schema mismatch.
type CompareMode int

const (
	// ModeStrict refuses to compare tables whose column sets differ.
	ModeStrict CompareMode = iota
	// ModeOverride compares anyway; the caller has confirmed the mismatch.
	ModeOverride
)

// String returns the mode name used in config, forms and CLI flags.
func (m CompareMode) String() string {
	if m == ModeOverride {
		return "override"
	}
	return "strict"
}

// ParseCompareMode converts "strict" or "override" to a CompareMode.
// Empty input yields ModeStrict.
func ParseCompareMode(s string) (CompareMode, error) {
	switch s {
	case "", "strict":
		return ModeStrict, nil
	case "override":
		return ModeOverride, nil
	default:
		return ModeStrict, &InvalidOptionError{Option: "mode", Value: s}
	}
}

// ParseStrategy identifies which loader pass produced a table.
type ParseStrategy string

const (
	StrategyLenient    ParseStrategy = "lenient"
	StrategyStrictFast ParseStrategy = "strict-fast"
)

// Default loader settings.
const (
	DefaultDelimiter     = ','
	DefaultEncoding      = "utf-8"
	DefaultExcerptLength = 500
)

// LoadOptions configures a single Load call.
type LoadOptions struct {
	Delimiter      rune   // Field separator (default ',')
	SkipRows       int    // Physical lines to discard before the header
	SkipRowsSet    bool   // SkipRows was given explicitly, so 0 is not replaced by a default
	Encoding       string // utf-8, utf-16, latin-1, windows-1252
	ReplaceInvalid bool   // Replace invalid UTF-8 instead of failing
	ExcerptLength  int    // Characters of raw input kept on failure (default 500)
}

// withDefaults fills zero values with package defaults.
func (o LoadOptions) withDefaults() LoadOptions {
	if o.Delimiter == 0 {
		o.Delimiter = DefaultDelimiter
	}
	if o.Encoding == "" {
		o.Encoding = DefaultEncoding
	}
	if o.ExcerptLength <= 0 {
		o.ExcerptLength = DefaultExcerptLength
	}
	return o
}

// RowWarning records a malformed input row that the loader recovered from
// (padded) or skipped.
type RowWarning struct {
	Line    int    `json:"line"`    // 1-indexed physical line in the decoded input
	Reason  string `json:"reason"`  // What was wrong
	Dropped bool   `json:"dropped"` // False when the row was kept (padded or multi-line)
}

// LoadResult is the successful outcome of Load.
type LoadResult struct {
	Table    *Table
	Strategy ParseStrategy
	Warnings []RowWarning
}

// DroppedRows returns the number of input rows the loader could not recover.
func (r *LoadResult) DroppedRows() int {
	n := 0
	for _, w := range r.Warnings {
		if w.Dropped {
			n++
		}
	}
	return n
}

// CompareStats summarizes a comparison.
type CompareStats struct {
	RowsFirst         int `json:"rowsFirst"`
	RowsSecond        int `json:"rowsSecond"`
	DistinctFirst     int `json:"distinctFirst"`
	DistinctSecond    int `json:"distinctSecond"`
	DuplicatesFirst   int `json:"duplicatesFirst"`  // Rows collapsed by set semantics
	DuplicatesSecond  int `json:"duplicatesSecond"` // Rows collapsed by set semantics
	Common            int `json:"common"`           // Distinct rows present on both sides
	OnlyInFirstCount  int `json:"onlyInFirst"`
	OnlyInSecondCount int `json:"onlyInSecond"`
}

// ComparisonResult holds the two one-sided difference tables.
// Row order within each table is not significant.
type ComparisonResult struct {
	OnlyInFirst  *Table
	OnlyInSecond *Table
	Mode         CompareMode
	Stats        CompareStats
}
