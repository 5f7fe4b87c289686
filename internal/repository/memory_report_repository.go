package repository

import (
	"context"
	"sync"

	"lab-report-reader/internal/domain"
)

// MemoryReportRepository keeps analyses in process memory. It is the
// default store when Supabase is not configured.
type MemoryReportRepository struct {
	mu      sync.RWMutex
	reports map[string]domain.ReportAnalysis
}

// NewMemoryReportRepository creates an empty in-memory repository
func NewMemoryReportRepository() *MemoryReportRepository {
	return &MemoryReportRepository{
		reports: make(map[string]domain.ReportAnalysis),
	}
}

// Store saves a copy of the analysis
func (r *MemoryReportRepository) Store(ctx context.Context, analysis *domain.ReportAnalysis) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports[analysis.ID] = *analysis
	return nil
}

// Retrieve returns a copy of a stored analysis
func (r *MemoryReportRepository) Retrieve(ctx context.Context, id string) (*domain.ReportAnalysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	analysis, ok := r.reports[id]
	if !ok {
		return nil, domain.ErrReportNotFound
	}
	return &analysis, nil
}
