package templates

import (
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/csvdiff/internal/core"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, c.Render(context.Background(), &sb))
	return sb.String()
}

func TestIndexPage(t *testing.T) {
	html := renderString(t, IndexPage(FormDefaults{Delimiter: ";", SkipRows: 2, Encoding: "LATIN-1", Override: true}))

	assert.True(t, strings.HasPrefix(html, "<!doctype html>"))
	assert.Contains(t, html, `<title>Compare CSV files</title>`)
	assert.Contains(t, html, `name="delimiter" size="6" value=";"`)
	assert.Contains(t, html, `name="skip_rows" min="0" value="2"`)
	assert.Contains(t, html, `<option value="latin-1" selected>latin-1</option>`)
	assert.Contains(t, html, `<option value="utf-8">utf-8</option>`)
	assert.Contains(t, html, `value="override" checked>`)
	assert.Contains(t, html, `formaction="/export/second"`)
}

func TestIndexPage_EscapesDefaults(t *testing.T) {
	html := renderString(t, IndexPage(FormDefaults{Delimiter: `"><b>`}))
	assert.NotContains(t, html, `"><b>`)
	assert.NotContains(t, html, `value="override" checked`)
}

func TestResultsFragment(t *testing.T) {
	combined := core.TableView{Columns: []string{"id"}, Rows: [][]string{{"1"}, {"9"}}, Total: 2}
	v := core.ReportView{
		ID:   "abc",
		Mode: "strict",
		First: core.FileInfo{
			Name:     "a.csv",
			Strategy: core.StrategyLenient,
			Warnings: []core.RowWarning{{Line: 3, Reason: "row has 3 fields, expected 2", Dropped: true}},
		},
		Second:       core.FileInfo{Name: "b.csv", Strategy: core.StrategyStrictFast},
		Stats:        core.CompareStats{Common: 4, OnlyInFirstCount: 1, OnlyInSecondCount: 1},
		OnlyInFirst:  core.TableView{Columns: []string{"id"}, Rows: [][]string{{"<1>"}}, Total: 300, Truncated: true},
		OnlyInSecond: core.TableView{Columns: []string{"id"}, Total: 0},
		Combined:     &combined,
	}

	html := renderString(t, ResultsFragment(v))

	assert.True(t, strings.HasPrefix(html, `<section id="results">`))
	assert.NotContains(t, html, "<!doctype html>")
	assert.Contains(t, html, "<h2>Only in a.csv</h2>")
	assert.Contains(t, html, "<td>&lt;1&gt;</td>")
	assert.Contains(t, html, "Showing 1 of 300 records.")
	assert.Contains(t, html, "<h2>Only in b.csv</h2><p class=\"muted\">No records.</p>")
	assert.Contains(t, html, "4 distinct records appear in both files.")
	assert.Contains(t, html, "a.csv: 1 rows needed attention")
	assert.Contains(t, html, "line 3 skipped: row has 3 fields, expected 2")
	assert.Contains(t, html, "<h2>All unique records</h2>")
	assert.Contains(t, html, "<th>Parser</th><td>lenient</td><td>strict-fast</td>")
}

func TestResultsPage_WrapsFragment(t *testing.T) {
	html := renderString(t, ResultsPage(core.ReportView{ID: "x"}))
	assert.Contains(t, html, "<h1>Comparison results</h1><section id=\"results\">")
	assert.True(t, strings.HasSuffix(html, "</section></body></html>"))
	assert.Contains(t, html, "<h2>Only in first file</h2>")
}

func TestErrorBlock(t *testing.T) {
	html := renderString(t, ErrorBlock("Bad file", "Fix it", "CSV002", ErrorDetail{
		Input:           "file2: b.csv",
		Excerpt:         "id,id\n<x>",
		MissingInFirst:  []string{"email"},
		MissingInSecond: []string{"phone", "fax"},
	}))

	assert.Contains(t, html, "<strong>Bad file</strong>")
	assert.Contains(t, html, "(file2: b.csv)")
	assert.Contains(t, html, "<p>Fix it</p>")
	assert.Contains(t, html, "Only in the second file: email")
	assert.Contains(t, html, "Only in the first file: phone, fax")
	assert.Contains(t, html, "<pre>id,id\n&lt;x&gt;</pre>")
	assert.Contains(t, html, "Code: CSV002")
}

func TestErrorPage_OmitsEmptyDetail(t *testing.T) {
	html := renderString(t, ErrorPage("Busy", "", "CMP001", ErrorDetail{}))
	assert.Contains(t, html, "<title>Comparison failed</title>")
	assert.Contains(t, html, `<a href="/">Back</a>`)
	assert.NotContains(t, html, "<pre>")
	assert.NotContains(t, html, "Only in the")
}
