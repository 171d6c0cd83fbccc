package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/csvdiff/internal/cli/output"
	"github.com/JonMunkholm/csvdiff/internal/core"
)

func (a *app) newInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE1 FILE2",
		Short: "Load both files and report their columns without comparing",
		Long: `Inspect parses both files with the current settings and reports row
counts, the parser used, recovered rows and whether the column sets match.
Use it to check delimiter and skip-rows settings before a comparison.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.loadOptions()
			if err != nil {
				return err
			}
			in1, in2, err := readInputs(args[0], args[1])
			if err != nil {
				return err
			}

			report, err := a.service.Inspect(a.context(cmd.Context()), core.InspectRequest{
				First:   in1,
				Second:  in2,
				Options: opts,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			format, formatter := a.formatter(w)
			if format == output.FormatTable {
				return formatter.Format(w, inspectTables{report})
			}
			return formatter.Format(w, report)
		},
	}
}

type inspectTables struct {
	report *core.InspectReport
}

func (t inspectTables) Tables() []output.Data {
	r := t.report
	match := "yes"
	if !r.SchemasMatch {
		match = "no"
	}
	summary := output.Data{
		Headers: []string{"", "first", "second"},
		Rows: [][]string{
			{"file", r.First.Name, r.Second.Name},
			{"rows", strconv.Itoa(r.First.Rows), strconv.Itoa(r.Second.Rows)},
			{"columns", strconv.Itoa(len(r.First.Columns)), strconv.Itoa(len(r.Second.Columns))},
			{"parser", string(r.First.Strategy), string(r.Second.Strategy)},
			{"skipped rows", strconv.Itoa(r.First.Dropped), strconv.Itoa(r.Second.Dropped)},
		},
		RightAlign: []int{1, 2},
		Footer:     "Columns match: " + match,
	}
	if len(r.MissingInFirst) > 0 {
		summary.Footer += "\nOnly in the second file: " + strings.Join(r.MissingInFirst, ", ")
	}
	if len(r.MissingInSecond) > 0 {
		summary.Footer += "\nOnly in the first file: " + strings.Join(r.MissingInSecond, ", ")
	}

	tables := []output.Data{summary}
	for _, f := range []core.FileInfo{r.First, r.Second} {
		if len(f.Warnings) == 0 {
			continue
		}
		rows := make([][]string, len(f.Warnings))
		for i, w := range f.Warnings {
			action := "padded"
			if w.Dropped {
				action = "skipped"
			}
			rows[i] = []string{strconv.Itoa(w.Line), action, w.Reason}
		}
		tables = append(tables, output.Data{
			Title:      fmt.Sprintf("Recovered rows in %s", f.Name),
			Headers:    []string{"line", "action", "reason"},
			Rows:       rows,
			RightAlign: []int{0},
		})
	}
	return tables
}
