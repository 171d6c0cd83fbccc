package core

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	tbl, err := NewTable(
		[]string{"id", "note"},
		[][]string{{"1", "plain"}, {"2", "a,b"}, {"3", `say "hi"`}, {"4", "two\nlines"}},
	)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, tbl))

	want := "id,note\n1,plain\n2,\"a,b\"\n3,\"say \"\"hi\"\"\"\n4,\"two\nlines\"\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSVRoundTrip(t *testing.T) {
	tbl, err := NewTable([]string{"id", "val"}, [][]string{{"1", "x;y"}, {"2", ""}})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, tbl))

	res, err := Load(buf.Bytes(), LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, tbl.Columns(), res.Table.Columns())
	assert.Equal(t, tbl.Rows(), res.Table.Rows())
}

func TestWriteCSVEmptyTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, emptyTable([]string{"a", "b"})))
	assert.Equal(t, "a,b\n", buf.String())
}
