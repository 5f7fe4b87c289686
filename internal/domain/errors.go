package domain

import "errors"

// Domain errors
var (
	ErrReportNotFound = errors.New("report not found")
	ErrInvalidFile    = errors.New("invalid file")
	ErrFileTooLarge   = errors.New("file too large")
)
