package config

import (
	"os"
	"strconv"
	"strings"

	"lab-report-reader/internal/domain"
)

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort          string
	MaxFileSize         int64
	LogLevel            string
	SupportedExtensions []string
	PatternsFile        string
	SupabaseURL         string
	SupabaseKey         string
	ReportsTable        string
}

// NewConfig creates a new configuration instance with default values
func NewConfig() domain.Config {
	return &AppConfig{
		// Cloud Run (and many PaaS) provide the listening port via PORT.
		// Keep SERVER_PORT for local/dev compatibility.
		ServerPort:          getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", "8080")),
		MaxFileSize:         getEnvInt64OrDefault("MAX_FILE_SIZE", 15*1024*1024), // 15MB default
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		SupportedExtensions: getEnvListOrDefault("SUPPORTED_EXTENSIONS", []string{".pdf"}),
		PatternsFile:        getEnvOrDefault("PATTERNS_FILE", ""),
		SupabaseURL:         getEnvOrDefault("SUPABASE_URL", ""),
		SupabaseKey:         getEnvOrDefault("SUPABASE_ANON_KEY", ""),
		ReportsTable:        getEnvOrDefault("SUPABASE_REPORTS_TABLE", "lab_reports"),
	}
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string {
	return c.ServerPort
}

// GetMaxFileSize returns the maximum allowed upload size
func (c *AppConfig) GetMaxFileSize() int64 {
	return c.MaxFileSize
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetSupportedExtensions returns the accepted document extensions
func (c *AppConfig) GetSupportedExtensions() []string {
	return c.SupportedExtensions
}

// GetPatternsFile returns the optional YAML file with extra test patterns
func (c *AppConfig) GetPatternsFile() string {
	return c.PatternsFile
}

// GetSupabaseURL returns the Supabase URL
func (c *AppConfig) GetSupabaseURL() string {
	return c.SupabaseURL
}

// GetSupabaseKey returns the Supabase anon key
func (c *AppConfig) GetSupabaseKey() string {
	return c.SupabaseKey
}

// GetReportsTable returns the table analyses are stored in
func (c *AppConfig) GetReportsTable() string {
	return c.ReportsTable
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvListOrDefault splits a comma separated value, e.g. ".pdf,.txt"
func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
