package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"lab-report-reader/internal/domain"
)

type MockLogger struct {
	mu       sync.Mutex
	messages []string
}

func NewMockLogger() *MockLogger {
	return &MockLogger{
		messages: []string{},
	}
}

func (m *MockLogger) record(line string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, line)
}

func (m *MockLogger) Info(msg string, args ...interface{}) {
	m.record("INFO: " + msg)
}

func (m *MockLogger) Error(msg string, err error, args ...interface{}) {
	if err == nil {
		m.record("ERROR: " + msg)
		return
	}
	m.record("ERROR: " + msg + " - " + err.Error())
}

func (m *MockLogger) Debug(msg string, args ...interface{}) {
	m.record("DEBUG: " + msg)
}

func (m *MockLogger) Warn(msg string, args ...interface{}) {
	m.record("WARN: " + msg)
}

func (m *MockLogger) Has(prefix string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, line := range m.messages {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// fakeDocument stands in for a decoded PDF
type fakeDocument struct {
	pages    []string
	pageErr  map[int]error
	metadata map[string]string
	closed   bool
}

func (d *fakeDocument) NumPage() int { return len(d.pages) }

func (d *fakeDocument) Text(pageNumber int) (string, error) {
	if err := d.pageErr[pageNumber]; err != nil {
		return "", err
	}
	if pageNumber < 0 || pageNumber >= len(d.pages) {
		return "", fmt.Errorf("page %d out of range", pageNumber)
	}
	return d.pages[pageNumber], nil
}

func (d *fakeDocument) Metadata() map[string]string { return d.metadata }

func (d *fakeDocument) Close() error {
	d.closed = true
	return nil
}

// MockTextExtractor serves canned documents by filename
type MockTextExtractor struct {
	docs  map[string]*domain.ExtractedDocument
	err   error
	calls int
}

func (m *MockTextExtractor) Extract(path string) (*domain.ExtractedDocument, error) {
	return m.ExtractBytes(path, nil)
}

func (m *MockTextExtractor) ExtractWithMetadata(path string) (*domain.ExtractedDocument, error) {
	return m.ExtractBytes(path, nil)
}

func (m *MockTextExtractor) ExtractBytes(filename string, data []byte) (*domain.ExtractedDocument, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	doc, ok := m.docs[filename]
	if !ok {
		return nil, errors.New("unexpected file " + filename)
	}
	copied := *doc
	return &copied, nil
}

// MockEntityExtractor counts calls and returns a fixed result
type MockEntityExtractor struct {
	result domain.ExtractionResult
	calls  int
	texts  []string
}

func (m *MockEntityExtractor) ExtractAll(text string) domain.ExtractionResult {
	m.calls++
	m.texts = append(m.texts, text)
	return m.result
}

// MockReportRepository is a map store with an injectable failure
type MockReportRepository struct {
	reports  map[string]*domain.ReportAnalysis
	storeErr error
	getErr   error
}

func NewMockReportRepository() *MockReportRepository {
	return &MockReportRepository{reports: make(map[string]*domain.ReportAnalysis)}
}

func (m *MockReportRepository) Store(ctx context.Context, analysis *domain.ReportAnalysis) error {
	if m.storeErr != nil {
		return m.storeErr
	}
	m.reports[analysis.ID] = analysis
	return nil
}

func (m *MockReportRepository) Retrieve(ctx context.Context, id string) (*domain.ReportAnalysis, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if analysis, ok := m.reports[id]; ok {
		return analysis, nil
	}
	return nil, domain.ErrReportNotFound
}
