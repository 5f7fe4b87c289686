package config

import (
	"fmt"

	"lab-report-reader/internal/domain"
	"lab-report-reader/internal/extraction"
	"lab-report-reader/internal/repository"
	"lab-report-reader/internal/service"
	"lab-report-reader/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config            domain.Config
	Logger            domain.Logger
	DocumentExtractor *service.DocumentExtractor
	EntityExtractor   *extraction.EntityExtractor
	ReportRepository  domain.ReportRepository
	ReportService     *service.ReportService
}

// NewContainer creates a new dependency injection container
func NewContainer() (*Container, error) {
	return NewContainerWith(NewConfig(), nil)
}

// NewContainerWith wires the container from an explicit config. A nil
// logger selects the stdout logger at the configured level.
func NewContainerWith(config domain.Config, appLogger domain.Logger) (*Container, error) {
	if appLogger == nil {
		appLogger = logger.NewLogger(config.GetLogLevel())
	}

	patterns, err := extraction.LoadPatternFile(config.GetPatternsFile())
	if err != nil {
		return nil, fmt.Errorf("failed to load test patterns: %w", err)
	}

	documentExtractor := service.NewDocumentExtractor(config.GetSupportedExtensions(), componentLogger(appLogger, "documents"))
	entityExtractor := extraction.NewEntityExtractor(patterns, componentLogger(appLogger, "entities"))
	reportRepo := newReportRepository(config, componentLogger(appLogger, "storage"))

	reportService := service.NewReportService(
		documentExtractor,
		entityExtractor,
		reportRepo,
		config.GetMaxFileSize(),
		appLogger,
	)

	return &Container{
		Config:            config,
		Logger:            appLogger,
		DocumentExtractor: documentExtractor,
		EntityExtractor:   entityExtractor,
		ReportRepository:  reportRepo,
		ReportService:     reportService,
	}, nil
}

// componentLogger tags lines with the component name when the logger supports it
func componentLogger(base domain.Logger, component string) domain.Logger {
	if l, ok := base.(*logger.AppLogger); ok {
		return l.With(component)
	}
	return base
}

// newReportRepository uses Supabase when it is configured and reachable,
// otherwise analyses are kept in memory.
func newReportRepository(config domain.Config, appLogger domain.Logger) domain.ReportRepository {
	if config.GetSupabaseURL() == "" {
		appLogger.Info("Supabase not configured; storing reports in memory")
		return repository.NewMemoryReportRepository()
	}

	supabaseClient := repository.NewSupabaseClient(config, appLogger)
	if err := supabaseClient.Initialize(); err != nil {
		appLogger.Error("Failed to initialize Supabase; storing reports in memory", err)
		return repository.NewMemoryReportRepository()
	}
	return repository.NewSupabaseReportRepository(supabaseClient, config.GetReportsTable(), appLogger)
}
