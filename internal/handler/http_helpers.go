package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"lab-report-reader/internal/domain"
	apperrors "lab-report-reader/pkg/errors"
)

type errorResponse struct {
	Error   string `json:"error"`
	Type    string `json:"type,omitempty"`
	Details string `json:"details,omitempty"`
}

// writeJSON writes a JSON response (helper function)
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response (helper function)
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, errorResponse{Error: message})
}

// writeAppError maps service errors to a response. AppErrors keep their
// status code and type; anything else is logged and reported as a 500.
func writeAppError(w http.ResponseWriter, logger domain.Logger, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		logger.Error("Unhandled error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	status := apperrors.GetStatusCode(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", err, "type", string(appErr.Type))
	}
	writeJSON(w, status, errorResponse{
		Error:   appErr.Message,
		Type:    string(appErr.Type),
		Details: appErr.Details,
	})
}
