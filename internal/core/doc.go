// Package core provides the business logic for comparing two CSV files.
//
// This package holds all domain logic independent of any UI or transport
// layer. The web handlers and the CLI both go through [Service].
//
// # Loading
//
// [Load] turns raw bytes into a [Table]. Bytes are decoded with the
// configured encoding (a UTF-8 or UTF-16 BOM overrides it), leading lines
// are skipped, and the remainder is parsed in up to two passes:
//
//  1. Lenient: a quote-aware reader that pads short rows and skips long or
//     malformed ones, recording a [RowWarning] for each.
//  2. Strict-fast: when the lenient pass finds a quoted field that swallows
//     line breaks, every physical line is split on its own instead.
//
// A file whose data rows are all malformed fails with [ErrNoParsableRows]
// rather than loading as an empty table. When no table can be produced the
// error is a [*LoadError] carrying the first characters of the input, so
// callers can show what was read.
//
// # Comparing
//
// [CompareTables] treats each table as a set of rows. Duplicates collapse,
// column order is ignored when both tables share the same column names, and
// the result holds the rows found only in the first and only in the second
// table. In [ModeStrict] differing column sets fail with
// [*SchemaMismatchError]; [ModeOverride] compares the rows positionally
// anyway. [Combine] stacks both results under the union of their columns.
//
// # Concurrency
//
// [CompareLimiter] bounds how many comparisons run at once. Requests wait up
// to the configured time for a slot before failing with
// [ErrTooManyComparisons]. [Service.Inspect] takes a slot too.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError],
// which classifies typed errors before falling back to text patterns.
// Each error category has a unique code for support reference:
//
//   - FILE001-FILE004: File errors (size, missing, encoding, empty)
//   - CSV001-CSV004: Parsing errors (options, header, malformed text)
//   - SCH001: Column sets differ in strict mode
//   - CMP001-CMP002: Comparison errors (busy, unknown export)
//   - UPL001-UPL003: Request errors (cancelled, timeout, bad form)
//   - RATE001: Rate limited
package core
