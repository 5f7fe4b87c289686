// Package handler provides HTTP handlers for the API.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"

	"lab-report-reader/internal/domain"
	"lab-report-reader/internal/extraction"
)

// XLSXContentType is the media type of exported workbooks
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// multipartOverhead leaves room for form boundaries and headers on top of
// the file size limit.
const multipartOverhead = 1 << 20

// ReportHandler handles lab report HTTP requests
type ReportHandler struct {
	reportService domain.ReportService
	patterns      []extraction.PatternEntry
	maxFileSize   int64
	logger        domain.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService domain.ReportService, patterns []extraction.TestPattern, maxFileSize int64, logger domain.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		patterns:      extraction.Entries(patterns),
		maxFileSize:   maxFileSize,
		logger:        logger,
	}
}

type extractRequest struct {
	Text string `json:"text"`
}

// UploadReport handles a multipart report upload and returns the stored analysis
func (h *ReportHandler) UploadReport(w http.ResponseWriter, r *http.Request) {
	if h.maxFileSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize+multipartOverhead)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, domain.ErrFileTooLarge.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "File is required")
		return
	}
	defer file.Close()

	// Sanitize filename (strip any path components)
	originalName := strings.TrimSpace(filepath.Base(header.Filename))
	if originalName == "" || originalName == "." || originalName == string(filepath.Separator) {
		writeError(w, http.StatusBadRequest, domain.ErrInvalidFile.Error())
		return
	}

	analysis, err := h.reportService.Analyze(r.Context(), originalName, file)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, analysis)
}

// ExtractText runs entity extraction on a JSON body of the form {"text": "..."}
func (h *ReportHandler) ExtractText(w http.ResponseWriter, r *http.Request) {
	if h.maxFileSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize+multipartOverhead)
	}

	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, domain.ErrFileTooLarge.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	writeJSON(w, http.StatusOK, h.reportService.ExtractText(req.Text))
}

// GetReport returns a stored analysis
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	analysis, err := h.reportService.GetReport(r.Context(), id)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, analysis)
}

// ExportReport streams a stored analysis as an XLSX workbook
func (h *ReportHandler) ExportReport(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	data, err := h.reportService.ExportReport(r.Context(), id)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", XLSXContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="lab-report-%s.xlsx"`, id))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// ListPatterns returns the active test pattern table in match order
func (h *ReportHandler) ListPatterns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, extraction.PatternFile{Tests: h.patterns})
}
