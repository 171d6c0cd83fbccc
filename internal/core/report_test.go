package core

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTableView(t *testing.T) {
	tbl, err := NewTable([]string{"id"}, [][]string{{"1"}, {"2"}, {"3"}})
	require.NoError(t, err)

	all := NewTableView(tbl, 0)
	assert.Len(t, all.Rows, 3)
	assert.False(t, all.Truncated)

	head := NewTableView(tbl, 2)
	assert.Equal(t, [][]string{{"1"}, {"2"}}, head.Rows)
	assert.Equal(t, 3, head.Total)
	assert.True(t, head.Truncated)
}

func TestReportViewJSON(t *testing.T) {
	report := &CompareReport{
		ID:           "abc",
		Mode:         ModeOverride,
		OnlyInFirst:  emptyTable([]string{"id"}),
		OnlyInSecond: emptyTable([]string{"id"}),
		Duration:     1500 * time.Millisecond,
	}

	b, err := json.Marshal(report.View(0))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "override", got["mode"])
	assert.Equal(t, float64(1500), got["durationMs"])
	assert.NotContains(t, got, "combined")

	rows := got["onlyInFirst"].(map[string]any)["rows"]
	assert.Equal(t, []any{}, rows, "empty results encode as [] not null")
}
