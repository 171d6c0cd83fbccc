package core

import (
	"encoding/csv"
	"fmt"
	"io"
)

// Export file names offered for download.
const (
	ExportFileFirst    = "unique_records_file1.csv"
	ExportFileSecond   = "unique_records_file2.csv"
	ExportFileCombined = "combined_unique_records.csv"
)

// WriteCSV writes t to w as comma-separated text with a header row and no
// index column.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := cw.WriteAll(t.rows); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	return nil
}
