package domain

import (
	"context"
	"io"
)

// TextExtractor turns a document into raw text
type TextExtractor interface {
	Extract(path string) (*ExtractedDocument, error)
	ExtractWithMetadata(path string) (*ExtractedDocument, error)
	ExtractBytes(filename string, data []byte) (*ExtractedDocument, error)
}

// EntityExtractor recovers patient info and test results from report text
type EntityExtractor interface {
	ExtractAll(text string) ExtractionResult
}

// ReportRepository stores report analyses
type ReportRepository interface {
	Store(ctx context.Context, analysis *ReportAnalysis) error
	Retrieve(ctx context.Context, id string) (*ReportAnalysis, error)
}

// ReportService runs the upload → text → entities flow
type ReportService interface {
	Analyze(ctx context.Context, filename string, file io.Reader) (*ReportAnalysis, error)
	ExtractText(text string) ExtractionResult
	GetReport(ctx context.Context, id string) (*ReportAnalysis, error)
	ExportReport(ctx context.Context, id string) ([]byte, error)
}

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}

// Config defines the interface for configuration management
type Config interface {
	GetServerPort() string
	GetMaxFileSize() int64
	GetLogLevel() string
	GetSupportedExtensions() []string
	GetPatternsFile() string
	GetSupabaseURL() string
	GetSupabaseKey() string
	GetReportsTable() string
}
