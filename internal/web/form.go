package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/JonMunkholm/csvdiff/internal/config"
	"github.com/JonMunkholm/csvdiff/internal/core"
)

// formOverhead is allowed on top of the two files for the other form fields
// and multipart framing.
const formOverhead = 1 << 20

// parseCompareForm reads a multipart comparison request. Field names:
//
//	file1, file2       the two CSV files (required)
//	delimiter          single character or tab/comma/semicolon/pipe
//	skip_rows          lines before the header
//	encoding           text encoding of both files
//	replace_invalid    "true" or "on" to replace undecodable bytes
//	mode               strict or override
//	combine            "true" or "on" to build the combined table
func (s *Server) parseCompareForm(w http.ResponseWriter, r *http.Request) (core.CompareRequest, error) {
	var req core.CompareRequest

	limit := 2*s.service.MaxFileSize() + formOverhead
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return req, fmt.Errorf("%w: request exceeds %d bytes", core.ErrFileTooLarge, limit)
		}
		return req, fmt.Errorf("%w: %v", errInvalidForm, err)
	}

	var err error
	if req.First, err = formFile(r, "file1"); err != nil {
		return req, err
	}
	if req.Second, err = formFile(r, "file2"); err != nil {
		return req, err
	}

	if v := strings.TrimSpace(r.FormValue("delimiter")); v != "" {
		if req.Options.Delimiter, err = config.ParseDelimiter(v); err != nil {
			return req, &core.InvalidOptionError{Option: "delimiter", Value: v}
		}
	}
	if v := strings.TrimSpace(r.FormValue("skip_rows")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return req, &core.InvalidOptionError{Option: "skip_rows", Value: v}
		}
		req.Options.SkipRows = n
		req.Options.SkipRowsSet = true
	}
	req.Options.Encoding = strings.TrimSpace(r.FormValue("encoding"))
	req.Options.ReplaceInvalid = checked(r.FormValue("replace_invalid"))
	req.Combine = checked(r.FormValue("combine"))

	mode := strings.TrimSpace(r.FormValue("mode"))
	if mode == "" {
		mode = s.cfg.Compare.DefaultMode
	}
	if req.Mode, err = core.ParseCompareMode(mode); err != nil {
		return req, err
	}
	return req, nil
}

// formFile reads one uploaded file fully; the loader needs all bytes to
// detect the encoding and to retry with the second parse pass.
func formFile(r *http.Request, field string) (core.Input, error) {
	f, hdr, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return core.Input{}, fmt.Errorf("%w: %s", errNoFile, field)
	}
	if err != nil {
		return core.Input{}, fmt.Errorf("%w: %s: %v", errInvalidForm, field, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return core.Input{}, fmt.Errorf("%w: reading %s: %v", errInvalidForm, field, err)
	}
	return core.Input{Name: hdr.Filename, Data: data}, nil
}

func checked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "on", "1", "yes":
		return true
	}
	return false
}
