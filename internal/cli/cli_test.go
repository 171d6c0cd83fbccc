package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/csvdiff/internal/config"
	"github.com/JonMunkholm/csvdiff/internal/core"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadFrom(func(string) string { return "" })
	require.NoError(t, err)
	return cfg
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// run executes the command tree and returns stdout, stderr and the error.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return runWith(t, testConfig(t), args...)
}

func runWith(t *testing.T, cfg *config.Config, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCommand(cfg)
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func fixtures(t *testing.T) (string, string, string) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.csv", "id,name\n1,alpha\n2,beta\n2,beta\n")
	b := writeFile(t, dir, "b.csv", "name,id\nbeta,2\ngamma,3\n")
	return dir, a, b
}

func TestCompareJSON(t *testing.T) {
	_, a, b := fixtures(t)

	stdout, _, err := run(t, "compare", "-o", "json", a, b)
	require.NoError(t, err)

	var view core.ReportView
	require.NoError(t, json.Unmarshal([]byte(stdout), &view))
	assert.Equal(t, [][]string{{"1", "alpha"}}, view.OnlyInFirst.Rows)
	assert.Equal(t, [][]string{{"gamma", "3"}}, view.OnlyInSecond.Rows)
	assert.Equal(t, 1, view.Stats.DuplicatesFirst)
	assert.Nil(t, view.Combined)
}

func TestCompareYAML(t *testing.T) {
	_, a, b := fixtures(t)

	stdout, _, err := run(t, "compare", "--format", "yaml", a, b)
	require.NoError(t, err)
	assert.Contains(t, stdout, "mode: strict")
	assert.Contains(t, stdout, "onlyInFirst:")
}

func TestCompareTable(t *testing.T) {
	_, a, b := fixtures(t)

	stdout, _, err := run(t, "compare", "-o", "table", "--combine", a, b)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Only in "+a)
	assert.Contains(t, stdout, "gamma")
	assert.Contains(t, stdout, "All unique records")
	assert.Contains(t, stdout, "1 distinct records appear in both files.")
}

func TestCompareExitCode(t *testing.T) {
	dir, a, b := fixtures(t)

	_, _, err := run(t, "compare", "-o", "json", "--exit-code", a, b)
	assert.ErrorIs(t, err, ErrDifferent)
	assert.Equal(t, 1, ExitCode(err))

	same := writeFile(t, dir, "same.csv", "name,id\nbeta,2\nalpha,1\n")
	_, _, err = run(t, "compare", "-o", "json", "--exit-code", a, same)
	assert.NoError(t, err)
	assert.Equal(t, 0, ExitCode(err))
}

func TestCompareSchemaMismatch(t *testing.T) {
	dir, a, _ := fixtures(t)
	other := writeFile(t, dir, "c.csv", "id,email\n1,x@example.com\n")

	_, _, err := run(t, "compare", "-o", "json", a, other)
	require.Error(t, err)
	assert.Equal(t, 2, ExitCode(err))
	msg := ErrorMessage(err)
	assert.Contains(t, msg, "SCH001")
	assert.Contains(t, msg, "Only in the second file: [email]")

	_, _, err = run(t, "compare", "-o", "json", "--override", a, other)
	assert.NoError(t, err)
}

func TestCompareOutDir(t *testing.T) {
	dir, a, b := fixtures(t)
	out := filepath.Join(dir, "results")

	stdout, _, err := run(t, "compare", "-o", "table", "--out-dir", out, a, b)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Results written to "+out)

	first, err := os.ReadFile(filepath.Join(out, core.ExportFileFirst))
	require.NoError(t, err)
	assert.Equal(t, "id,name\n1,alpha\n", string(first))

	second, err := os.ReadFile(filepath.Join(out, core.ExportFileSecond))
	require.NoError(t, err)
	assert.Equal(t, "name,id\ngamma,3\n", string(second))

	combined, err := os.ReadFile(filepath.Join(out, core.ExportFileCombined))
	require.NoError(t, err)
	assert.Equal(t, "id,name\n1,alpha\n3,gamma\n", string(combined))
}

func TestCompareParsingFlags(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "exported 2026-01-01\n\nid;name\n1;alpha\n")
	b := writeFile(t, dir, "b.txt", "exported 2026-01-02\n\nid;name\n2;beta\n")

	stdout, _, err := run(t, "compare", "-o", "json", "-d", "semicolon", "--skip-rows", "2", a, b)
	require.NoError(t, err)

	var view core.ReportView
	require.NoError(t, json.Unmarshal([]byte(stdout), &view))
	assert.Equal(t, []string{"id", "name"}, view.First.Columns)
	assert.Equal(t, 1, view.Stats.OnlyInFirstCount)
}

func TestCompareExplicitZeroSkipRows(t *testing.T) {
	_, a, b := fixtures(t)
	cfg := testConfig(t)
	cfg.Compare.SkipRows = 1

	stdout, _, err := runWith(t, cfg, "compare", "-o", "json", "--skip-rows", "0", a, b)
	require.NoError(t, err)

	var view core.ReportView
	require.NoError(t, json.Unmarshal([]byte(stdout), &view))
	assert.Equal(t, []string{"id", "name"}, view.First.Columns)
	assert.Equal(t, 3, view.First.Rows)
}

func TestCompareAllRowsMalformed(t *testing.T) {
	dir, a, _ := fixtures(t)
	bad := writeFile(t, dir, "bad.csv", "id,name\n1,a,x\n2,b,y\n")

	_, _, err := run(t, "compare", a, bad)
	require.Error(t, err)
	assert.Equal(t, 2, ExitCode(err))
	assert.Contains(t, ErrorMessage(err), "CSV004")
}

func TestCompareErrors(t *testing.T) {
	dir, a, _ := fixtures(t)
	bad := writeFile(t, dir, "bad.csv", "id\n\x80\n")

	tests := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{"missing file", []string{"compare", a, filepath.Join(dir, "nope.csv")}, "file2"},
		{"bad delimiter", []string{"compare", "-d", "ab", a, a}, "CSV001"},
		{"bad format", []string{"compare", "-o", "xml", a, a}, "invalid format"},
		{"bad encoding bytes", []string{"compare", a, bad}, "The file starts with:\nid\n"},
		{"wrong arg count", []string{"compare", a}, "accepts 2 arg(s)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, ErrorMessage(err), tt.wantMsg)
		})
	}
}

func TestInspect(t *testing.T) {
	dir, a, _ := fixtures(t)
	other := writeFile(t, dir, "c.csv", "id,email\n1,x\n")

	stdout, _, err := run(t, "inspect", "-o", "json", a, other)
	require.NoError(t, err)

	var report core.InspectReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.False(t, report.SchemasMatch)
	assert.Equal(t, 3, report.First.Rows)
	assert.Equal(t, []string{"email"}, report.MissingInFirst)

	stdout, _, err = run(t, "inspect", "-o", "table", a, other)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Columns match: no")
	assert.Contains(t, stdout, "Only in the second file: email")
}

func TestInspectShowsRecoveredRows(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.csv", "id,name\n1,alpha\n2\n")

	stdout, _, err := run(t, "inspect", "-o", "table", a, a)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Recovered rows in "+a)
}

func TestExport(t *testing.T) {
	dir, a, b := fixtures(t)

	stdout, _, err := run(t, "export", "--target", "first", a, b)
	require.NoError(t, err)
	assert.Equal(t, "id,name\n1,alpha\n", stdout)

	out := filepath.Join(dir, "all.csv")
	_, _, err = run(t, "export", "--out", out, a, b)
	require.NoError(t, err)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "id,name\n1,alpha\n3,gamma\n", string(data))

	_, _, err = run(t, "export", "--target", "both", a, b)
	require.Error(t, err)
	assert.True(t, strings.Contains(ErrorMessage(err), "CMP002"))
}
