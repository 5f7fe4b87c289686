package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"lab-report-reader/internal/repository"
)

const defaultMaxFileSize int64 = 15 * 1024 * 1024

type nopLogger struct{}

func (nopLogger) Info(msg string, fields ...interface{})             {}
func (nopLogger) Error(msg string, err error, fields ...interface{}) {}
func (nopLogger) Debug(msg string, fields ...interface{})            {}
func (nopLogger) Warn(msg string, fields ...interface{})             {}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "SERVER_PORT", "MAX_FILE_SIZE", "LOG_LEVEL", "SUPPORTED_EXTENSIONS",
		"PATTERNS_FILE", "SUPABASE_URL", "SUPABASE_ANON_KEY", "SUPABASE_REPORTS_TABLE",
	} {
		t.Setenv(key, "")
	}
}

func TestNewConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := NewConfig()

	if cfg.GetServerPort() != "8080" {
		t.Fatalf("expected default server port 8080, got %s", cfg.GetServerPort())
	}
	if cfg.GetMaxFileSize() != defaultMaxFileSize {
		t.Fatalf("expected default max file size %d, got %d", defaultMaxFileSize, cfg.GetMaxFileSize())
	}
	if cfg.GetLogLevel() != "info" {
		t.Fatalf("expected default log level info, got %s", cfg.GetLogLevel())
	}
	if !reflect.DeepEqual(cfg.GetSupportedExtensions(), []string{".pdf"}) {
		t.Fatalf("expected default extensions [.pdf], got %v", cfg.GetSupportedExtensions())
	}
	if cfg.GetPatternsFile() != "" {
		t.Fatalf("expected no patterns file, got %s", cfg.GetPatternsFile())
	}
	if cfg.GetSupabaseURL() != "" || cfg.GetSupabaseKey() != "" {
		t.Fatalf("expected empty supabase settings, got %s / %s", cfg.GetSupabaseURL(), cfg.GetSupabaseKey())
	}
	if cfg.GetReportsTable() != "lab_reports" {
		t.Fatalf("expected default reports table lab_reports, got %s", cfg.GetReportsTable())
	}
}

func TestNewConfig_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("MAX_FILE_SIZE", "12345")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SUPPORTED_EXTENSIONS", " .pdf, .TXT ,,")
	t.Setenv("PATTERNS_FILE", "/etc/lab/patterns.yaml")
	t.Setenv("SUPABASE_URL", "http://localhost:54321")
	t.Setenv("SUPABASE_ANON_KEY", "test-key")
	t.Setenv("SUPABASE_REPORTS_TABLE", "reports")

	cfg := NewConfig()

	if cfg.GetServerPort() != "9090" {
		t.Fatalf("expected server port 9090, got %s", cfg.GetServerPort())
	}
	if cfg.GetMaxFileSize() != 12345 {
		t.Fatalf("expected max file size 12345, got %d", cfg.GetMaxFileSize())
	}
	if cfg.GetLogLevel() != "debug" {
		t.Fatalf("expected log level debug, got %s", cfg.GetLogLevel())
	}
	if !reflect.DeepEqual(cfg.GetSupportedExtensions(), []string{".pdf", ".TXT"}) {
		t.Fatalf("unexpected extensions %v", cfg.GetSupportedExtensions())
	}
	if cfg.GetPatternsFile() != "/etc/lab/patterns.yaml" {
		t.Fatalf("unexpected patterns file %s", cfg.GetPatternsFile())
	}
	if cfg.GetSupabaseURL() != "http://localhost:54321" {
		t.Fatalf("expected supabase url http://localhost:54321, got %s", cfg.GetSupabaseURL())
	}
	if cfg.GetSupabaseKey() != "test-key" {
		t.Fatalf("expected supabase key test-key, got %s", cfg.GetSupabaseKey())
	}
	if cfg.GetReportsTable() != "reports" {
		t.Fatalf("expected reports table reports, got %s", cfg.GetReportsTable())
	}
}

func TestNewConfig_Fallbacks(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_PORT", "9091")
	t.Setenv("MAX_FILE_SIZE", "not-a-number")
	t.Setenv("SUPPORTED_EXTENSIONS", " , ")

	cfg := NewConfig()

	if cfg.GetServerPort() != "9091" {
		t.Fatalf("expected server port 9091, got %s", cfg.GetServerPort())
	}
	if cfg.GetMaxFileSize() != defaultMaxFileSize {
		t.Fatalf("expected default max file size %d, got %d", defaultMaxFileSize, cfg.GetMaxFileSize())
	}
	if !reflect.DeepEqual(cfg.GetSupportedExtensions(), []string{".pdf"}) {
		t.Fatalf("expected default extensions, got %v", cfg.GetSupportedExtensions())
	}
}

func TestNewContainerWith_InMemoryByDefault(t *testing.T) {
	clearEnv(t)

	c, err := NewContainerWith(NewConfig(), nopLogger{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := c.ReportRepository.(*repository.MemoryReportRepository); !ok {
		t.Fatalf("expected in-memory repository, got %T", c.ReportRepository)
	}
	if c.ReportService == nil || c.EntityExtractor == nil || c.DocumentExtractor == nil {
		t.Fatalf("container is missing components: %+v", c)
	}
}

func TestNewContainerWith_PatternsFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "patterns.yaml")
	if err := os.WriteFile(path, []byte("tests:\n  - key: ferritin\n    pattern: ferritin\n"), 0o644); err != nil {
		t.Fatalf("write patterns: %v", err)
	}
	t.Setenv("PATTERNS_FILE", path)

	c, err := NewContainerWith(NewConfig(), nopLogger{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.EntityExtractor.Patterns()[0].Key; got != "ferritin" {
		t.Fatalf("expected custom pattern first, got %s", got)
	}

	t.Setenv("PATTERNS_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := NewContainerWith(NewConfig(), nopLogger{}); err == nil {
		t.Fatalf("expected error for missing patterns file")
	}
}
