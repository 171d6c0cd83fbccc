// Package cli implements the csvdiff command line: compare, inspect and
// export over two local CSV files, sharing the service used by the server.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/csvdiff/internal/cli/output"
	"github.com/JonMunkholm/csvdiff/internal/config"
	"github.com/JonMunkholm/csvdiff/internal/core"
	"github.com/JonMunkholm/csvdiff/internal/logging"
)

// ErrDifferent is returned by compare --exit-code when the files differ.
var ErrDifferent = errors.New("files differ")

// globalFlags are shared by every subcommand.
type globalFlags struct {
	format         string
	logLevel       string
	delimiter      string
	skipRows       int
	encoding       string
	replaceInvalid bool
}

// app holds state built once flags are parsed.
type app struct {
	cfg     *config.Config
	flags   globalFlags
	service *core.Service
}

// NewRootCommand builds the csvdiff command tree. cfg supplies defaults that
// flags override.
func NewRootCommand(cfg *config.Config) *cobra.Command {
	a := &app{cfg: cfg}

	root := &cobra.Command{
		Use:   "csvdiff",
		Short: "Find records that appear in only one of two CSV files",
		Long: `csvdiff loads two delimited text files and reports the records that
appear in one file but not the other. Rows are compared as whole records;
column order does not matter when both files share the same columns.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.flags.format, "format", "o", "", "Output format: table, json, yaml (default: table on a terminal, json otherwise)")
	pf.StringVar(&a.flags.logLevel, "log-level", cfg.Logging.Level, "Log level written to stderr: debug, info, warn, error")
	pf.StringVarP(&a.flags.delimiter, "delimiter", "d", cfg.Compare.Delimiter, `Field separator: a single character, "tab", "semicolon" or "pipe"`)
	pf.IntVar(&a.flags.skipRows, "skip-rows", cfg.Compare.SkipRows, "Lines to discard before the header row")
	pf.StringVar(&a.flags.encoding, "encoding", cfg.Compare.Encoding, "Text encoding of both files, e.g. utf-8, utf-16, latin-1, windows-1252")
	pf.BoolVar(&a.flags.replaceInvalid, "replace-invalid", cfg.Compare.ReplaceInvalid, "Replace undecodable bytes instead of failing")

	root.AddCommand(
		a.newCompareCommand(),
		a.newInspectCommand(),
		a.newExportCommand(),
	)
	return root
}

// setup validates global flags, installs the stderr logger and builds the
// service.
func (a *app) setup(stderr io.Writer) error {
	if _, err := output.ParseFormat(a.flags.format); err != nil {
		return err
	}
	logging.SetupWriter(stderr, a.flags.logLevel, a.cfg.Logging.Format)

	sc, err := a.cfg.Compare.ServiceConfig()
	if err != nil {
		return err
	}
	a.service = core.NewService(sc)
	return nil
}

// loadOptions turns the parsing flags into loader options.
func (a *app) loadOptions() (core.LoadOptions, error) {
	delim, err := config.ParseDelimiter(a.flags.delimiter)
	if err != nil {
		return core.LoadOptions{}, &core.InvalidOptionError{Option: "delimiter", Value: a.flags.delimiter}
	}
	if a.flags.skipRows < 0 {
		return core.LoadOptions{}, &core.InvalidOptionError{Option: "skip_rows", Value: fmt.Sprint(a.flags.skipRows)}
	}
	return core.LoadOptions{
		Delimiter:      delim,
		SkipRows:       a.flags.skipRows,
		SkipRowsSet:    true,
		Encoding:       a.flags.encoding,
		ReplaceInvalid: a.flags.replaceInvalid,
		ExcerptLength:  a.cfg.Compare.ExcerptLength,
	}, nil
}

// context tags ctx so service logs show the CLI as the caller.
func (a *app) context(ctx context.Context) context.Context {
	return core.WithRequestMeta(ctx, core.RequestMeta{Source: "cli"})
}

// formatter picks the output format for w.
func (a *app) formatter(w io.Writer) (output.Format, output.Formatter) {
	f := output.DetectFormat(a.flags.format, w)
	return f, output.NewFormatter(f)
}

// readInputs reads both files named on the command line.
func readInputs(first, second string) (core.Input, core.Input, error) {
	a, err := readInput("file1", first)
	if err != nil {
		return core.Input{}, core.Input{}, err
	}
	b, err := readInput("file2", second)
	if err != nil {
		return core.Input{}, core.Input{}, err
	}
	return a, b, nil
}

func readInput(label, path string) (core.Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return core.Input{}, &core.InputError{Input: label, Name: path, Err: err}
	}
	return core.Input{Name: path, Data: data}, nil
}

// ExitCode maps an Execute error to a process exit status: 1 for
// differences found, 2 for failures.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrDifferent):
		return 1
	default:
		return 2
	}
}

// ErrorMessage formats err for stderr, adding the support code and the
// file excerpt or mismatched columns when present.
func ErrorMessage(err error) string {
	msg := fmt.Sprintf("Error: %v", err)
	if core.IsUserFacing(err) {
		msg += "\n" + core.FormatUserError(err)
	}

	var schemaErr *core.SchemaMismatchError
	if errors.As(err, &schemaErr) {
		if cols := schemaErr.MissingInA(); len(cols) > 0 {
			msg += fmt.Sprintf("\nOnly in the second file: %v", cols)
		}
		if cols := schemaErr.MissingInB(); len(cols) > 0 {
			msg += fmt.Sprintf("\nOnly in the first file: %v", cols)
		}
	}
	var loadErr *core.LoadError
	if errors.As(err, &loadErr) && loadErr.Excerpt != "" {
		msg += "\nThe file starts with:\n" + loadErr.Excerpt
	}
	return msg
}
