package cli

import (
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/csvdiff/internal/core"
)

func (a *app) newExportCommand() *cobra.Command {
	var (
		target   string
		override bool
		outFile  string
	)

	cmd := &cobra.Command{
		Use:   "export FILE1 FILE2",
		Short: "Write one result table as CSV",
		Example: `  csvdiff export --target first a.csv b.csv > only_in_a.csv
  csvdiff export --target combined --out all.csv a.csv b.csv`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := core.ParseExportTarget(target)
			if err != nil {
				return err
			}
			opts, err := a.loadOptions()
			if err != nil {
				return err
			}
			in1, in2, err := readInputs(args[0], args[1])
			if err != nil {
				return err
			}

			mode := core.ModeStrict
			if override {
				mode = core.ModeOverride
			}
			req := core.CompareRequest{First: in1, Second: in2, Options: opts, Mode: mode}

			if outFile == "" {
				return a.service.Export(a.context(cmd.Context()), req, t, cmd.OutOrStdout())
			}
			report, err := a.service.Compare(a.context(cmd.Context()), req)
			if err != nil {
				return err
			}
			return writeCSVFile(outFile, report.Table(t))
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&target, "target", "t", string(core.ExportCombined), "Table to write: first, second or combined")
	flags.BoolVar(&override, "override", a.cfg.Compare.DefaultMode == core.ModeOverride.String(), "Compare even if the files have different columns")
	flags.StringVar(&outFile, "out", "", "Write to this file instead of stdout")
	return cmd
}
