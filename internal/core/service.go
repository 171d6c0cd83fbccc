package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/JonMunkholm/csvdiff/internal/logging"
	"github.com/google/uuid"
)

// CompareTimeout is the default bound on a single Compare or Export call,
// including the wait for a limiter slot.
var CompareTimeout = 5 * time.Minute

// DefaultMaxFileSize is the per-input byte limit used when none is configured.
const DefaultMaxFileSize int64 = 100 << 20

// Input is one uploaded or on-disk file.
type Input struct {
	Name string // Display name, e.g. the uploaded file name
	Data []byte
}

// InspectRequest asks for file information without comparing.
type InspectRequest struct {
	First   Input
	Second  Input
	Options LoadOptions
}

// CompareRequest describes a full comparison.
type CompareRequest struct {
	First   Input
	Second  Input
	Options LoadOptions
	Mode    CompareMode
	Combine bool // Also build the combined table
}

// FileInfo summarizes one loaded input.
type FileInfo struct {
	Name     string        `json:"name"`
	Rows     int           `json:"rows"`
	Columns  []string      `json:"columns"`
	Strategy ParseStrategy `json:"strategy"`
	Dropped  int           `json:"droppedRows"`
	Warnings []RowWarning  `json:"warnings,omitempty"`
}

// InspectReport is the result of Service.Inspect.
type InspectReport struct {
	First           FileInfo `json:"first"`
	Second          FileInfo `json:"second"`
	SchemasMatch    bool     `json:"schemasMatch"`
	MissingInFirst  []string `json:"missingInFirst,omitempty"`  // Columns only the second file has
	MissingInSecond []string `json:"missingInSecond,omitempty"` // Columns only the first file has
}

// CompareReport is the result of Service.Compare.
type CompareReport struct {
	ID           string
	First        FileInfo
	Second       FileInfo
	Mode         CompareMode
	Stats        CompareStats
	OnlyInFirst  *Table
	OnlyInSecond *Table
	Combined     *Table // Nil unless requested
	Duration     time.Duration
}

// Table returns the report table for target.
func (r *CompareReport) Table(target ExportTarget) *Table {
	switch target {
	case ExportFirst:
		return r.OnlyInFirst
	case ExportSecond:
		return r.OnlyInSecond
	default:
		if r.Combined == nil {
			r.Combined = Combine(&ComparisonResult{OnlyInFirst: r.OnlyInFirst, OnlyInSecond: r.OnlyInSecond})
		}
		return r.Combined
	}
}

// ExportTarget names one downloadable result table.
type ExportTarget string

const (
	ExportFirst    ExportTarget = "first"
	ExportSecond   ExportTarget = "second"
	ExportCombined ExportTarget = "combined"
)

// ParseExportTarget validates a target name from a URL or flag.
func ParseExportTarget(s string) (ExportTarget, error) {
	switch t := ExportTarget(s); t {
	case ExportFirst, ExportSecond, ExportCombined:
		return t, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownExportTarget, s)
	}
}

// FileName returns the download file name for t.
func (t ExportTarget) FileName() string {
	switch t {
	case ExportFirst:
		return ExportFileFirst
	case ExportSecond:
		return ExportFileSecond
	default:
		return ExportFileCombined
	}
}

// InputError tags a failure with the input it came from.
type InputError struct {
	Input string // "file1" or "file2"
	Name  string
	Err   error
}

func (e *InputError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s (%s): %v", e.Input, e.Name, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Input, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// ServiceConfig holds the limits a Service enforces.
type ServiceConfig struct {
	MaxFileSize   int64
	MaxConcurrent int
	MaxWaitTime   time.Duration
	Timeout       time.Duration // Per comparison; CompareTimeout when zero
	Defaults      LoadOptions   // Applied to zero-valued request options
}

// Service runs loads and comparisons for the HTTP and CLI front ends.
type Service struct {
	cfg     ServiceConfig
	limiter *CompareLimiter
}

// NewService creates a Service with its own comparison limiter.
func NewService(cfg ServiceConfig) *Service {
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = DefaultMaxFileSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = CompareTimeout
	}
	return &Service{
		cfg:     cfg,
		limiter: NewCompareLimiter(cfg.MaxConcurrent, cfg.MaxWaitTime),
	}
}

// Limiter exposes the comparison limiter for health reporting and shutdown.
func (s *Service) Limiter() *CompareLimiter {
	return s.limiter
}

// MaxFileSize returns the per-input byte limit.
func (s *Service) MaxFileSize() int64 {
	return s.cfg.MaxFileSize
}

// Inspect loads both inputs and reports their shape and schema agreement.
// It holds a limiter slot and the per-call timeout like Compare.
func (s *Service) Inspect(ctx context.Context, req InspectRequest) (*InspectReport, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	if err := s.limiter.Acquire(ctx); err != nil {
		s.logger(ctx).Warn("inspection rejected", "error", err)
		return nil, err
	}
	defer s.limiter.Release()

	opts := s.options(req.Options)

	a, err := s.load(ctx, "file1", req.First, opts)
	if err != nil {
		return nil, err
	}
	b, err := s.load(ctx, "file2", req.Second, opts)
	if err != nil {
		return nil, err
	}

	report := &InspectReport{
		First:        fileInfo(req.First.Name, a),
		Second:       fileInfo(req.Second.Name, b),
		SchemasMatch: SchemasMatch(a.Table, b.Table),
	}
	if !report.SchemasMatch {
		report.MissingInFirst = columnsMinus(b.Table.columns, a.Table.columns)
		report.MissingInSecond = columnsMinus(a.Table.columns, b.Table.columns)
	}
	return report, nil
}

// Compare loads both inputs and computes their symmetric difference.
// In ModeStrict a column mismatch returns *SchemaMismatchError.
func (s *Service) Compare(ctx context.Context, req CompareRequest) (*CompareReport, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	id := uuid.New().String()
	log := s.logger(ctx).With("comparison_id", id, "mode", req.Mode.String())

	if err := s.limiter.Acquire(ctx); err != nil {
		log.Warn("comparison rejected", "error", err)
		return nil, err
	}
	defer s.limiter.Release()

	start := time.Now()
	opts := s.options(req.Options)

	a, err := s.load(ctx, "file1", req.First, opts)
	if err != nil {
		log.Info("comparison failed", "error", err)
		return nil, err
	}
	b, err := s.load(ctx, "file2", req.Second, opts)
	if err != nil {
		log.Info("comparison failed", "error", err)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, err := CompareTables(a.Table, b.Table, req.Mode)
	if err != nil {
		log.Info("comparison refused", "error", err)
		return nil, err
	}

	report := &CompareReport{
		ID:           id,
		First:        fileInfo(req.First.Name, a),
		Second:       fileInfo(req.Second.Name, b),
		Mode:         res.Mode,
		Stats:        res.Stats,
		OnlyInFirst:  res.OnlyInFirst,
		OnlyInSecond: res.OnlyInSecond,
	}
	if req.Combine {
		report.Combined = Combine(res)
	}
	report.Duration = time.Since(start)

	log.Info("comparison completed",
		"rows_first", res.Stats.RowsFirst,
		"rows_second", res.Stats.RowsSecond,
		"only_in_first", res.Stats.OnlyInFirstCount,
		"only_in_second", res.Stats.OnlyInSecondCount,
		"duration_ms", report.Duration.Milliseconds(),
	)
	return report, nil
}

// Export runs req and writes the target table to w as CSV.
func (s *Service) Export(ctx context.Context, req CompareRequest, target ExportTarget, w io.Writer) error {
	if _, err := ParseExportTarget(string(target)); err != nil {
		return err
	}
	report, err := s.Compare(ctx, req)
	if err != nil {
		return err
	}
	if err := WriteCSV(w, report.Table(target)); err != nil {
		return fmt.Errorf("export %s: %w", target, err)
	}
	return nil
}

func (s *Service) load(ctx context.Context, label string, in Input, opts LoadOptions) (*LoadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if int64(len(in.Data)) > s.cfg.MaxFileSize {
		return nil, &InputError{
			Input: label,
			Name:  in.Name,
			Err:   fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrFileTooLarge, len(in.Data), s.cfg.MaxFileSize),
		}
	}

	res, err := Load(in.Data, opts)
	if err != nil {
		return nil, &InputError{Input: label, Name: in.Name, Err: err}
	}
	if len(res.Warnings) > 0 {
		s.logger(ctx).Debug("rows skipped or padded",
			"input", label,
			"strategy", res.Strategy,
			"warnings", len(res.Warnings),
			"dropped", res.DroppedRows(),
		)
	}
	return res, nil
}

// options fills unset request options from the configured defaults.
func (s *Service) options(o LoadOptions) LoadOptions {
	d := s.cfg.Defaults
	if o.Delimiter == 0 {
		o.Delimiter = d.Delimiter
	}
	if o.Encoding == "" {
		o.Encoding = d.Encoding
	}
	if o.ExcerptLength == 0 {
		o.ExcerptLength = d.ExcerptLength
	}
	if o.SkipRows == 0 && !o.SkipRowsSet {
		o.SkipRows = d.SkipRows
	}
	o.ReplaceInvalid = o.ReplaceInvalid || d.ReplaceInvalid
	return o
}

func (s *Service) logger(ctx context.Context) *slog.Logger {
	log := logging.FromContext(ctx)
	if m, ok := RequestMetaFrom(ctx); ok {
		log = log.With(m.logArgs()...)
	}
	return log
}

func fileInfo(name string, r *LoadResult) FileInfo {
	return FileInfo{
		Name:     name,
		Rows:     r.Table.Len(),
		Columns:  r.Table.Columns(),
		Strategy: r.Strategy,
		Dropped:  r.DroppedRows(),
		Warnings: r.Warnings,
	}
}
