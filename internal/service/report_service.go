package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"lab-report-reader/internal/domain"
	apperrors "lab-report-reader/pkg/errors"
)

// ReportService runs uploaded reports through text and entity extraction
// and keeps the results in a repository.
type ReportService struct {
	textExtractor   domain.TextExtractor
	entityExtractor domain.EntityExtractor
	repository      domain.ReportRepository
	maxFileSize     int64
	logger          domain.Logger
}

// NewReportService creates a new report service
func NewReportService(
	textExtractor domain.TextExtractor,
	entityExtractor domain.EntityExtractor,
	repository domain.ReportRepository,
	maxFileSize int64,
	logger domain.Logger,
) *ReportService {
	return &ReportService{
		textExtractor:   textExtractor,
		entityExtractor: entityExtractor,
		repository:      repository,
		maxFileSize:     maxFileSize,
		logger:          logger,
	}
}

// Analyze extracts text from an uploaded document, extracts entities from
// the text and stores the result. Entity extraction only runs when text
// extraction succeeded; a report with zero recognized tests is still a
// successful analysis.
func (s *ReportService) Analyze(ctx context.Context, filename string, file io.Reader) (*domain.ReportAnalysis, error) {
	reader := file
	if s.maxFileSize > 0 {
		reader = io.LimitReader(file, s.maxFileSize+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, apperrors.NewReadError("failed to read upload", err)
	}
	if s.maxFileSize > 0 && int64(len(data)) > s.maxFileSize {
		return nil, apperrors.NewValidationError(domain.ErrFileTooLarge.Error(), fmt.Sprintf("limit is %d bytes", s.maxFileSize))
	}

	doc, err := s.textExtractor.ExtractBytes(filename, data)
	if err != nil {
		return nil, err
	}

	analysis := &domain.ReportAnalysis{
		ID:         uuid.NewString(),
		Document:   *doc,
		Extraction: s.entityExtractor.ExtractAll(doc.Text),
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.repository.Store(ctx, analysis); err != nil {
		s.logger.Error("Failed to store report analysis", err, "report_id", analysis.ID)
		return nil, apperrors.NewInternalError("failed to store report", err)
	}

	s.logger.Info("Report analyzed",
		"report_id", analysis.ID,
		"file", doc.Filename,
		"pages", doc.PageCount,
		"tests", analysis.Extraction.TotalTests,
	)
	return analysis, nil
}

// ExtractText runs entity extraction on text that is already available
func (s *ReportService) ExtractText(text string) domain.ExtractionResult {
	return s.entityExtractor.ExtractAll(text)
}

// GetReport returns a stored analysis
func (s *ReportService) GetReport(ctx context.Context, id string) (*domain.ReportAnalysis, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NewValidationError("invalid report id", id)
	}
	analysis, err := s.repository.Retrieve(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrReportNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("report %s not found", id))
		}
		return nil, apperrors.NewInternalError("failed to load report", err)
	}
	return analysis, nil
}

// ExportReport renders a stored analysis as an XLSX workbook
func (s *ReportService) ExportReport(ctx context.Context, id string) ([]byte, error) {
	analysis, err := s.GetReport(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := BuildWorkbook(analysis.Extraction)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to export report", err)
	}
	s.logger.Info("Report exported", "report_id", id, "bytes", len(data))
	return data, nil
}
