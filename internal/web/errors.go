package web

// errors.go provides unified error response handling for the web layer.
//
// It ensures all errors are:
//   - Logged with full technical details for debugging (server-side)
//   - Returned to clients as user-friendly messages with action suggestions
//   - Formatted appropriately based on request type (HTMX, JSON, or HTML)
//
// The error flow:
//  1. Handler encounters an error
//  2. Calls respondError(w, r, err)
//  3. statusFor picks the HTTP status from the error's type
//  4. Error is mapped via core.MapError to get user-friendly message
//  5. Technical error + context is logged with request ID for correlation
//  6. User message is rendered in appropriate format for the client

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/csvdiff/internal/core"
	"github.com/JonMunkholm/csvdiff/internal/logging"
	"github.com/JonMunkholm/csvdiff/internal/web/templates"
)

var (
	errNoFile      = errors.New("no file provided")
	errInvalidForm = errors.New("invalid form")
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error           string   `json:"error"`
	Message         string   `json:"message"`
	Action          string   `json:"action,omitempty"`
	Code            string   `json:"code"`
	Input           string   `json:"input,omitempty"`   // file1 or file2
	Excerpt         string   `json:"excerpt,omitempty"` // Start of a file that failed to load
	MissingInFirst  []string `json:"missingInFirst,omitempty"`
	MissingInSecond []string `json:"missingInSecond,omitempty"`
}

// statusFor maps service and form errors to HTTP status codes.
func statusFor(err error) int {
	var (
		loadErr   *core.LoadError
		optErr    *core.InvalidOptionError
		schemaErr *core.SchemaMismatchError
	)
	switch {
	case errors.Is(err, core.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errNoFile), errors.Is(err, errInvalidForm), errors.As(err, &optErr):
		return http.StatusBadRequest
	case errors.As(err, &schemaErr):
		return http.StatusConflict
	case errors.As(err, &loadErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrTooManyComparisons):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	case errors.Is(err, core.ErrUnknownExportTarget):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// errorDetail extracts the structured context carried by err.
func errorDetail(err error) templates.ErrorDetail {
	var d templates.ErrorDetail

	var inErr *core.InputError
	if errors.As(err, &inErr) {
		d.Input = inErr.Input
		if inErr.Name != "" {
			d.Input += ": " + inErr.Name
		}
	}
	var loadErr *core.LoadError
	if errors.As(err, &loadErr) {
		d.Excerpt = loadErr.Excerpt
	}
	var schemaErr *core.SchemaMismatchError
	if errors.As(err, &schemaErr) {
		d.MissingInFirst = schemaErr.MissingInA()
		d.MissingInSecond = schemaErr.MissingInB()
	}
	return d
}

// respondError handles error responses with user-friendly messages.
// It logs the technical error server-side and returns an appropriate response
// based on the request type (HTMX, JSON, or HTML).
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	userMsg := core.MapError(err)
	detail := errorDetail(err)

	log := logging.FromContext(r.Context()).With(
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", userMsg.Code,
	)
	if status >= http.StatusInternalServerError {
		log.Error("request error")
	} else {
		log.Info("request rejected")
	}

	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", strconv.Itoa(int(s.cfg.Compare.MaxWaitTime.Seconds())))
	}

	switch {
	case isHTMX(r):
		s.renderErrorPartial(w, r, userMsg, detail, status)
	case wantsJSON(r):
		respondErrorJSON(w, userMsg, detail, status)
	default:
		s.renderErrorPage(w, r, userMsg, detail, status)
	}
}

// respondErrorJSON writes a JSON error response.
func respondErrorJSON(w http.ResponseWriter, msg core.UserMessage, d templates.ErrorDetail, status int) {
	writeJSON(w, status, ErrorResponse{
		Error:           msg.Message,
		Message:         msg.Message,
		Action:          msg.Action,
		Code:            msg.Code,
		Input:           d.Input,
		Excerpt:         d.Excerpt,
		MissingInFirst:  d.MissingInFirst,
		MissingInSecond: d.MissingInSecond,
	})
}

// writeErrorJSON writes a bare error for middleware that runs before the
// request is routed.
func writeErrorJSON(w http.ResponseWriter, status int, message string) {
	msg := core.MapError(errors.New(message))
	writeJSON(w, status, ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// renderErrorPage renders a full HTML error page.
func (s *Server) renderErrorPage(w http.ResponseWriter, r *http.Request, msg core.UserMessage, d templates.ErrorDetail, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.ErrorPage(msg.Message, msg.Action, msg.Code, d).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render error page", "error", err)
	}
}

// renderErrorPartial renders an HTMX-compatible error fragment.
func (s *Server) renderErrorPartial(w http.ResponseWriter, r *http.Request, msg core.UserMessage, d templates.ErrorDetail, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.ErrorBlock(msg.Message, msg.Action, msg.Code, d).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render error partial", "error", err)
	}
}

// isHTMX checks if the request is an HTMX request.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// wantsJSON checks if the client prefers JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	// API routes default to JSON
	return strings.HasPrefix(r.URL.Path, "/api/")
}

// requestID returns chi's request ID for response headers.
func requestID(r *http.Request) string {
	return chimw.GetReqID(r.Context())
}
