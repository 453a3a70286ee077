package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"hotelier/internal/metrics"
	"hotelier/internal/reports"
	"hotelier/internal/service"
)

// ExportReportRequest is the request body for POST /api/reports/export.
type ExportReportRequest struct {
	Format string `json:"format"`           // csv, txt or xlsx
	Status string `json:"status,omitempty"` // optional filter: active, cancelled
}

// handleReportFormats lists the formats resolved at startup.
// GET /api/reports/formats
func (s *HTTPServer) handleReportFormats(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("report_formats")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"formats": s.reports.Formats()})
}

// handleReportExport renders the booking listing to a report file.
// POST /api/reports/export
func (s *HTTPServer) handleReportExport(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("report_export")
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req ExportReportRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.Format == "" {
		writeError(w, http.StatusBadRequest, "format is required")
		return
	}

	path, err := s.reports.Export(r.Context(), req.Format, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, reports.ErrFormatUnsupported):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrInvalidStatusFilter):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			s.log.Error().Err(err).Str("format", req.Format).Msg("failed to export report")
			writeError(w, http.StatusInternalServerError, "failed to export report")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"path": path})
}
