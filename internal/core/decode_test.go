package core

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeInput(t *testing.T) {
	tests := []struct {
		name    string
		raw     []byte
		opts    LoadOptions
		want    string
		wantErr string
	}{
		{
			name: "plain utf-8",
			raw:  []byte("id,name\n1,café\n"),
			opts: LoadOptions{Encoding: "utf-8"},
			want: "id,name\n1,café\n",
		},
		{
			name: "utf-8 bom removed",
			raw:  append([]byte{0xEF, 0xBB, 0xBF}, "id\n1\n"...),
			opts: LoadOptions{Encoding: "UTF-8"},
			want: "id\n1\n",
		},
		{
			name:    "invalid utf-8 rejected",
			raw:     []byte("id\n\xff\n"),
			opts:    LoadOptions{Encoding: "utf-8"},
			wantErr: "invalid UTF-8 byte 0xFF at offset 3",
		},
		{
			name: "invalid utf-8 replaced",
			raw:  []byte("id\na\xffb\n"),
			opts: LoadOptions{Encoding: "utf-8", ReplaceInvalid: true},
			want: "id\na\uFFFDb\n",
		},
		{
			name: "windows-1252",
			raw:  []byte("name\ncaf\xe9\n"),
			opts: LoadOptions{Encoding: "windows-1252"},
			want: "name\ncafé\n",
		},
		{
			name: "latin-1 alias",
			raw:  []byte("name\nna\xefve\n"),
			opts: LoadOptions{Encoding: "latin-1"},
			want: "name\nnaïve\n",
		},
		{
			name: "utf-16 with bom",
			raw:  []byte{0xFF, 0xFE, 'a', 0, ',', 0, 'b', 0, '\n', 0},
			opts: LoadOptions{Encoding: "utf-16"},
			want: "a,b\n",
		},
		{
			name:    "unknown encoding",
			raw:     []byte("a\n"),
			opts:    LoadOptions{Encoding: "klingon"},
			wantErr: "invalid option encoding",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeInput(tt.raw, tt.opts)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeInputUnknownEncodingIsOptionError(t *testing.T) {
	_, err := decodeInput([]byte("a"), LoadOptions{Encoding: "nope"})
	var optErr *InvalidOptionError
	require.True(t, errors.As(err, &optErr))
	assert.Equal(t, "encoding", optErr.Option)
}

func TestExcerpt(t *testing.T) {
	long := strings.Repeat("é", 600)
	got := excerpt([]byte(long), 500)
	assert.Equal(t, 500, utf8.RuneCountInString(got))

	assert.Equal(t, "short", excerpt([]byte("short"), 500))
	assert.Equal(t, "ab", excerpt([]byte("abcdef"), 2))

	withBad := excerpt([]byte("ok\xff\xfeend"), 500)
	assert.True(t, utf8.ValidString(withBad))
	assert.True(t, strings.HasPrefix(withBad, "ok"+replacementChar))
}

func TestUTF8SanitizerHoldsBackSplitRune(t *testing.T) {
	// "é" is 0xC3 0xA9; feed the first byte alone without atEOF.
	dst := make([]byte, 16)
	nDst, nSrc, err := utf8Sanitizer{}.Transform(dst, []byte{'a', 0xC3}, false)
	assert.Equal(t, 1, nDst)
	assert.Equal(t, 1, nSrc)
	assert.Error(t, err)

	nDst, nSrc, err = utf8Sanitizer{}.Transform(dst, []byte{0xC3}, true)
	require.NoError(t, err)
	assert.Equal(t, 1, nSrc)
	assert.Equal(t, replacementChar, string(dst[:nDst]))
}
