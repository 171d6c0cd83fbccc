package web

import (
	"fmt"
	"net/http"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/csvdiff/internal/core"
	"github.com/JonMunkholm/csvdiff/internal/logging"
	"github.com/JonMunkholm/csvdiff/internal/web/templates"
)

// HealthResponse is returned by GET /healthz.
type HealthResponse struct {
	Status      string             `json:"status"`
	Comparisons core.LimiterStatus `json:"comparisons"`
}

// handleIndex renders the upload form.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	cc := s.cfg.Compare
	defaults := templates.FormDefaults{
		Delimiter: cc.Delimiter,
		SkipRows:  cc.SkipRows,
		Encoding:  cc.Encoding,
		Override:  cc.DefaultMode == core.ModeOverride.String(),
	}
	s.render(w, r, http.StatusOK, templates.IndexPage(defaults))
}

// handleHealth reports liveness and comparison slot usage.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:      "ok",
		Comparisons: s.service.Limiter().Status(),
	})
}

// handleCompare runs a comparison from the HTML form and renders the results.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseCompareForm(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	report, err := s.service.Compare(withRequestMeta(r), req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	view := report.View(previewRows)
	if isHTMX(r) {
		s.render(w, r, http.StatusOK, templates.ResultsFragment(view))
		return
	}
	s.render(w, r, http.StatusOK, templates.ResultsPage(view))
}

// handleAPIInspect loads both files and reports their columns and whether
// they can be compared strictly.
func (s *Server) handleAPIInspect(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseCompareForm(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	report, err := s.service.Inspect(withRequestMeta(r), core.InspectRequest{
		First:   req.First,
		Second:  req.Second,
		Options: req.Options,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleAPICompare runs a comparison and returns every unique record.
func (s *Server) handleAPICompare(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseCompareForm(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	report, err := s.service.Compare(withRequestMeta(r), req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report.View(0))
}

// handleExport runs a comparison and downloads one result table as CSV.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	target, err := core.ParseExportTarget(chi.URLParam(r, "target"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	req, err := s.parseCompareForm(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if target == core.ExportCombined {
		req.Combine = true
	}

	report, err := s.service.Compare(withRequestMeta(r), req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	// Headers are only set once the comparison succeeded so errors render
	// inline instead of as a download.
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", target.FileName()))
	w.Header().Set("X-Comparison-ID", report.ID)
	if err := core.WriteCSV(w, report.Table(target)); err != nil {
		logging.FromContext(r.Context()).Error("export write failed",
			"target", target,
			"comparison_id", report.ID,
			"error", err,
		)
	}
}

// render writes an HTML component with the given status.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if id := requestID(r); id != "" {
		w.Header().Set("X-Request-ID", id)
	}
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render failed", "path", r.URL.Path, "error", err)
	}
}
