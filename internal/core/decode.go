package core

// decode.go turns raw upload bytes into text before parsing.
//
// UTF-8 input is validated strictly unless LoadOptions.ReplaceInvalid is set,
// in which case invalid bytes become U+FFFD. Other encodings are resolved by
// their WHATWG names through golang.org/x/text. A leading byte order mark is
// always removed.

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// encodingAliases covers common spellings that are not WHATWG labels.
var encodingAliases = map[string]string{
	"latin-1":   "iso-8859-1",
	"latin_1":   "iso-8859-1",
	"cp1252":    "windows-1252",
	"utf_16":    "utf-16",
	"utf-16-le": "utf-16le",
	"utf-16-be": "utf-16be",
}

// decodeInput converts raw to a string according to opts.Encoding.
func decodeInput(raw []byte, opts LoadOptions) (string, error) {
	name := strings.ToLower(strings.TrimSpace(opts.Encoding))

	if name == "utf-8" || name == "utf8" {
		if opts.ReplaceInvalid {
			out, _, err := transform.Bytes(unicode.BOMOverride(utf8Sanitizer{}), raw)
			if err != nil {
				return "", fmt.Errorf("sanitize utf-8: %w", err)
			}
			return string(out), nil
		}
		raw = bytes.TrimPrefix(raw, utf8BOM)
		if off := invalidUTF8Offset(raw); off >= 0 {
			return "", fmt.Errorf("invalid UTF-8 byte 0x%02X at offset %d", raw[off], off)
		}
		return string(raw), nil
	}

	if alias, ok := encodingAliases[name]; ok {
		name = alias
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return "", &InvalidOptionError{Option: "encoding", Value: opts.Encoding}
	}
	// BOMOverride lets a UTF-8 or UTF-16 BOM win over the configured encoding.
	out, _, err := transform.Bytes(unicode.BOMOverride(enc.NewDecoder()), raw)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", name, err)
	}
	return string(out), nil
}

// invalidUTF8Offset returns the offset of the first invalid byte, or -1.
func invalidUTF8Offset(b []byte) int {
	if utf8.Valid(b) {
		return -1
	}
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}

// excerpt returns up to n characters from the start of raw for display.
// Invalid bytes are shown as U+FFFD.
func excerpt(raw []byte, n int) string {
	limit := len(raw)
	if limit > n*utf8.UTFMax {
		limit = n * utf8.UTFMax
	}
	s := strings.ToValidUTF8(string(raw[:limit]), replacementChar)
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// utf8Sanitizer is a transform.Transformer that copies valid UTF-8 and
// replaces every invalid byte with U+FFFD. Incomplete sequences at a chunk
// boundary are held back until more input arrives.
type utf8Sanitizer struct{ transform.NopResetter }

const replacementChar = "\uFFFD"

func (utf8Sanitizer) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		c := src[nSrc]
		if c < utf8.RuneSelf {
			if nDst >= len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}
			dst[nDst] = c
			nDst++
			nSrc++
			continue
		}

		r, size := utf8.DecodeRune(src[nSrc:])
		if r == utf8.RuneError && size == 1 {
			if !atEOF && !utf8.FullRune(src[nSrc:]) {
				return nDst, nSrc, transform.ErrShortSrc
			}
			if nDst+len(replacementChar) > len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}
			nDst += copy(dst[nDst:], replacementChar)
			nSrc++
			continue
		}

		if nDst+size > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += copy(dst[nDst:], src[nSrc:nSrc+size])
		nSrc += size
	}
	return nDst, nSrc, nil
}
