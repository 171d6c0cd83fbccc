// Package templates renders the HTML pages of the comparison UI.
//
// Components are written in the .templ files next to this one; run
// `templ generate` after editing them.
package templates

import (
	"fmt"
	"strings"

	"github.com/JonMunkholm/csvdiff/internal/core"
)

// FormDefaults pre-fills the upload form.
type FormDefaults struct {
	Delimiter string
	SkipRows  int
	Encoding  string
	Override  bool
}

// Encodings offered in the upload form.
var Encodings = []string{"utf-8", "utf-16", "windows-1252", "iso-8859-1", "latin-1", "shift_jis", "gbk"}

// ErrorDetail carries optional context shown under an error message.
type ErrorDetail struct {
	Input           string   // Which upload failed, e.g. "file2"
	Excerpt         string   // Start of the file that failed to load
	MissingInFirst  []string // Schema mismatch columns
	MissingInSecond []string
}

func nameOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}

func encodingSelected(enc, current string) bool {
	return strings.EqualFold(enc, current)
}

// warningText describes one loader warning for the results page.
func warningText(w core.RowWarning) string {
	action := "kept"
	if w.Dropped {
		action = "skipped"
	}
	return fmt.Sprintf("line %d %s: %s", w.Line, action, w.Reason)
}
