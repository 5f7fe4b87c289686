package extraction

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"lab-report-reader/internal/domain"
)

// MinLineLength is the shortest collapsed line the parser will look at.
const MinLineLength = 10

// headerTokens mark column headers and rulings; matched case-insensitively
// as substrings.
var headerTokens = []string{"test name", "result", "normal range", "===", "---"}

var (
	leadingNameRe = regexp.MustCompile(`^[A-Za-z\s()]+`)
	valueRe       = regexp.MustCompile(`(\d+\.?\d*)\s+`)
	unitRe        = regexp.MustCompile(`[A-Za-z/%^]+$`)
)

// Reasons a line is dropped, reported in debug logs.
const (
	rejectTooShort  = "too_short"
	rejectNoPattern = "no_test_pattern"
	rejectNoName    = "no_test_name"
	rejectNoValue   = "no_value"
)

// EntityExtractor turns report text into an ExtractionResult. It holds only
// immutable state and is safe for concurrent use.
type EntityExtractor struct {
	patterns []TestPattern
	logger   domain.Logger
}

// NewEntityExtractor creates an extractor over the given pattern table.
// A nil or empty table selects DefaultTestPatterns.
func NewEntityExtractor(patterns []TestPattern, logger domain.Logger) *EntityExtractor {
	if len(patterns) == 0 {
		patterns = DefaultTestPatterns()
	} else {
		patterns = append([]TestPattern(nil), patterns...)
	}
	return &EntityExtractor{
		patterns: patterns,
		logger:   logger,
	}
}

// Patterns returns a copy of the recognition table in match order.
func (e *EntityExtractor) Patterns() []TestPattern {
	return append([]TestPattern(nil), e.patterns...)
}

// ExtractAll extracts patient info and test results. It never fails: lines
// that cannot be parsed are dropped and counted in Stats.
func (e *EntityExtractor) ExtractAll(text string) domain.ExtractionResult {
	e.logger.Info("Extracting entities from medical report", "chars", len(text))

	info := e.ExtractPatientInfo(text)
	results, stats := e.extractTestResults(text)

	e.logger.Info("Extracted test results",
		"tests", len(results),
		"lines_considered", stats.Considered(),
		"lines_rejected", stats.RejectedLines,
		"patient_fields", len(info),
	)

	return domain.ExtractionResult{
		PatientInfo: info,
		TestResults: results,
		TotalTests:  len(results),
		Stats:       stats,
	}
}

// ExtractTestResults returns the test results found in text, in line order.
func (e *EntityExtractor) ExtractTestResults(text string) []domain.TestResult {
	results, _ := e.extractTestResults(text)
	return results
}

func (e *EntityExtractor) extractTestResults(text string) ([]domain.TestResult, domain.ExtractionStats) {
	var stats domain.ExtractionStats
	results := make([]domain.TestResult, 0)

	for lineNum, line := range strings.Split(text, "\n") {
		stats.TotalLines++
		if strings.TrimSpace(line) == "" {
			stats.BlankLines++
			continue
		}
		if isHeaderLine(line) {
			stats.HeaderLines++
			continue
		}

		result, reason := e.parseTestLine(line)
		if reason != "" {
			stats.RejectedLines++
			e.logger.Debug("Dropped report line", "line", lineNum+1, "reason", reason)
			continue
		}
		stats.AcceptedLines++
		results = append(results, result)
	}

	return results, stats
}

// ParseTestLine parses a single report line. The boolean is false when the
// line is not a recognizable test result.
func (e *EntityExtractor) ParseTestLine(line string) (domain.TestResult, bool) {
	result, reason := e.parseTestLine(line)
	return result, reason == ""
}

func (e *EntityExtractor) parseTestLine(line string) (domain.TestResult, string) {
	line = strings.Join(strings.Fields(line), " ")
	if utf8.RuneCountInString(line) < MinLineLength {
		return domain.TestResult{}, rejectTooShort
	}

	pattern, ok := firstMatch(e.patterns, line)
	if !ok {
		return domain.TestResult{}, rejectNoPattern
	}

	// Keep the report's own wording rather than the canonical key.
	name := strings.TrimSpace(leadingNameRe.FindString(line))
	if name == "" {
		return domain.TestResult{}, rejectNoName
	}

	m := valueRe.FindStringSubmatch(line)
	if m == nil {
		return domain.TestResult{}, rejectNoValue
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return domain.TestResult{}, rejectNoValue
	}

	rng := parseReferenceRange(line)

	return domain.TestResult{
		TestName:    name,
		TestKey:     pattern.Key,
		Value:       value,
		NormalRange: rng.display,
		MinNormal:   rng.min,
		MaxNormal:   rng.max,
		Unit:        unitRe.FindString(line),
	}, ""
}

func isHeaderLine(line string) bool {
	lower := strings.ToLower(line)
	for _, token := range headerTokens {
		if strings.Contains(lower, token) {
			return true
		}
	}
	return false
}

// ExtractEntities is a one-shot helper using the built-in pattern table.
func ExtractEntities(text string, logger domain.Logger) domain.ExtractionResult {
	return NewEntityExtractor(nil, logger).ExtractAll(text)
}
