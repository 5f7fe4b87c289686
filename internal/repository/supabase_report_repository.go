package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"lab-report-reader/internal/domain"
)

// reportRow is the shape of a row in the reports table. The full analysis
// is kept in a jsonb column; the scalar columns are for querying.
type reportRow struct {
	ID         string          `json:"id"`
	Filename   string          `json:"filename"`
	PageCount  int             `json:"page_count"`
	TotalTests int             `json:"total_tests"`
	Analysis   json.RawMessage `json:"analysis"`
	CreatedAt  string          `json:"created_at"`
}

// SupabaseReportRepository stores analyses in a Supabase (PostgREST) table
type SupabaseReportRepository struct {
	supabaseClient *SupabaseClient
	table          string
	logger         domain.Logger
}

// NewSupabaseReportRepository creates a new Supabase report repository
func NewSupabaseReportRepository(supabaseClient *SupabaseClient, table string, logger domain.Logger) *SupabaseReportRepository {
	return &SupabaseReportRepository{
		supabaseClient: supabaseClient,
		table:          table,
		logger:         logger,
	}
}

// Store inserts an analysis
func (r *SupabaseReportRepository) Store(ctx context.Context, analysis *domain.ReportAnalysis) error {
	client := r.supabaseClient.DB()
	if client == nil {
		return fmt.Errorf("supabase client not initialized")
	}

	row, err := newReportRow(analysis)
	if err != nil {
		return err
	}

	_, _, err = client.From(r.table).Insert(row, false, "", "", "").Execute()
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}

	r.logger.Debug("Stored report in Supabase", "report_id", analysis.ID, "table", r.table)
	return nil
}

// Retrieve loads an analysis by id
func (r *SupabaseReportRepository) Retrieve(ctx context.Context, id string) (*domain.ReportAnalysis, error) {
	client := r.supabaseClient.DB()
	if client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}

	data, _, err := client.From(r.table).
		Select("*", "", false).
		Eq("id", id).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to query report: %w", err)
	}

	return decodeReportRows(data)
}

func newReportRow(analysis *domain.ReportAnalysis) (reportRow, error) {
	payload, err := json.Marshal(analysis)
	if err != nil {
		return reportRow{}, fmt.Errorf("failed to marshal report: %w", err)
	}
	return reportRow{
		ID:         analysis.ID,
		Filename:   analysis.Document.Filename,
		PageCount:  analysis.Document.PageCount,
		TotalTests: analysis.Extraction.TotalTests,
		Analysis:   payload,
		CreatedAt:  analysis.CreatedAt.Format(time.RFC3339),
	}, nil
}

func decodeReportRows(data []byte) (*domain.ReportAnalysis, error) {
	var rows []reportRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse report rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrReportNotFound
	}

	var analysis domain.ReportAnalysis
	if err := json.Unmarshal(rows[0].Analysis, &analysis); err != nil {
		return nil, fmt.Errorf("failed to parse report analysis: %w", err)
	}
	return &analysis, nil
}
