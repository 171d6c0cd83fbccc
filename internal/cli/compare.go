package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/csvdiff/internal/cli/output"
	"github.com/JonMunkholm/csvdiff/internal/core"
)

type compareFlags struct {
	override bool
	combine  bool
	outDir   string
	limit    int
	exitCode bool
}

func (a *app) newCompareCommand() *cobra.Command {
	var f compareFlags

	cmd := &cobra.Command{
		Use:   "compare FILE1 FILE2",
		Short: "Show the records found in only one of the two files",
		Example: `  csvdiff compare old.csv new.csv
  csvdiff compare -d ';' --skip-rows 2 a.csv b.csv
  csvdiff compare --override --combine --out-dir results a.csv b.csv
  csvdiff compare -o json a.csv b.csv | jq .stats`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCompare(cmd, args[0], args[1], f)
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&f.override, "override", a.cfg.Compare.DefaultMode == core.ModeOverride.String(), "Compare even if the files have different columns")
	flags.BoolVar(&f.combine, "combine", false, "Also output one table with all unique records")
	flags.StringVar(&f.outDir, "out-dir", "", "Write "+core.ExportFileFirst+", "+core.ExportFileSecond+" and "+core.ExportFileCombined+" to this directory")
	flags.IntVar(&f.limit, "limit", 50, "Rows shown per table in table output (0 for all)")
	flags.BoolVar(&f.exitCode, "exit-code", false, "Exit with status 1 when the files differ")
	return cmd
}

func (a *app) runCompare(cmd *cobra.Command, first, second string, f compareFlags) error {
	opts, err := a.loadOptions()
	if err != nil {
		return err
	}
	in1, in2, err := readInputs(first, second)
	if err != nil {
		return err
	}

	mode := core.ModeStrict
	if f.override {
		mode = core.ModeOverride
	}
	report, err := a.service.Compare(a.context(cmd.Context()), core.CompareRequest{
		First:   in1,
		Second:  in2,
		Options: opts,
		Mode:    mode,
		Combine: f.combine || f.outDir != "",
	})
	if err != nil {
		return err
	}

	if f.outDir != "" {
		if err := writeExports(f.outDir, report); err != nil {
			return err
		}
	}

	w := cmd.OutOrStdout()
	format, formatter := a.formatter(w)
	if format == output.FormatTable {
		err = formatter.Format(w, compareTables{view: report.View(f.limit), outDir: f.outDir})
	} else {
		err = formatter.Format(w, report.View(0))
	}
	if err != nil {
		return err
	}

	if f.exitCode && (report.Stats.OnlyInFirstCount > 0 || report.Stats.OnlyInSecondCount > 0) {
		return ErrDifferent
	}
	return nil
}

// writeExports saves all three result tables under dir.
func writeExports(dir string, report *core.CompareReport) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	for _, target := range []core.ExportTarget{core.ExportFirst, core.ExportSecond, core.ExportCombined} {
		if err := writeCSVFile(filepath.Join(dir, target.FileName()), report.Table(target)); err != nil {
			return err
		}
	}
	return nil
}

func writeCSVFile(path string, t *core.Table) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	if err := core.WriteCSV(f, t); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// compareTables lays a report out for table output.
type compareTables struct {
	view   core.ReportView
	outDir string
}

func (c compareTables) Tables() []output.Data {
	v := c.view
	itoa := strconv.Itoa
	summary := output.Data{
		Title:   fmt.Sprintf("Comparison %s (%s mode, %d ms)", v.ID, v.Mode, v.DurationMS),
		Headers: []string{"", "first", "second"},
		Rows: [][]string{
			{"file", v.First.Name, v.Second.Name},
			{"rows", itoa(v.Stats.RowsFirst), itoa(v.Stats.RowsSecond)},
			{"distinct", itoa(v.Stats.DistinctFirst), itoa(v.Stats.DistinctSecond)},
			{"duplicates", itoa(v.Stats.DuplicatesFirst), itoa(v.Stats.DuplicatesSecond)},
			{"skipped rows", itoa(v.First.Dropped), itoa(v.Second.Dropped)},
			{"parser", string(v.First.Strategy), string(v.Second.Strategy)},
			{"unique records", itoa(v.Stats.OnlyInFirstCount), itoa(v.Stats.OnlyInSecondCount)},
		},
		RightAlign: []int{1, 2},
		Footer:     fmt.Sprintf("%d distinct records appear in both files.", v.Stats.Common),
	}

	tables := []output.Data{
		summary,
		recordTable("Only in "+v.First.Name, v.OnlyInFirst),
		recordTable("Only in "+v.Second.Name, v.OnlyInSecond),
	}
	if v.Combined != nil && c.outDir == "" {
		tables = append(tables, recordTable("All unique records", *v.Combined))
	}
	if c.outDir != "" {
		last := &tables[len(tables)-1]
		if last.Footer != "" {
			last.Footer += "\n"
		}
		last.Footer += "Results written to " + c.outDir
	}
	return tables
}

func recordTable(title string, t core.TableView) output.Data {
	d := output.Data{
		Title:   title,
		Headers: t.Columns,
		Rows:    t.Rows,
		Empty:   "No records.",
	}
	if t.Truncated {
		d.Footer = fmt.Sprintf("Showing %d of %d records.", len(t.Rows), t.Total)
	}
	return d
}
