package extraction

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"lab-report-reader/internal/domain"
)

// patientField describes how one patient detail is found and normalized.
// normalize returns false when the captured value is unusable.
type patientField struct {
	key       string
	pattern   *regexp.Regexp
	normalize func(string) (string, bool)
}

var patientFields = []patientField{
	{
		key:       domain.PatientName,
		pattern:   regexp.MustCompile(`(?i)patient\s+name[: \t]+([a-z][a-z \t]*)`),
		normalize: normalizeName,
	},
	{
		key:       domain.PatientID,
		pattern:   regexp.MustCompile(`(?i)patient\s+id[:\s]+([a-z0-9]+)`),
		normalize: func(s string) (string, bool) { return strings.ToUpper(s), true },
	},
	{
		key:       domain.PatientAge,
		pattern:   regexp.MustCompile(`(?i)\bage[:\s]+(\d+)`),
		normalize: keepValue,
	},
	{
		key:       domain.PatientGender,
		pattern:   regexp.MustCompile(`(?i)\b(?:gender|sex)[:\s]+(male|female)\b`),
		normalize: capitalize,
	},
	{
		key:       domain.PatientCollectionDate,
		pattern:   regexp.MustCompile(`(?i)(?:date\s+of\s+collection|collection\s+date)[:\s]+(\d{4}-\d{2}-\d{2})`),
		normalize: keepValue,
	},
	{
		key:       domain.PatientReportDate,
		pattern:   regexp.MustCompile(`(?i)report\s+date[:\s]+(\d{4}-\d{2}-\d{2})`),
		normalize: keepValue,
	},
}

// Words that start the next label when report columns share a line,
// e.g. "Patient Name: John Doe    Age: 45 Years".
var nameStopWords = map[string]bool{
	"age":     true,
	"gender":  true,
	"sex":     true,
	"patient": true,
	"id":      true,
	"date":    true,
	"report":  true,
	"dob":     true,
}

// ExtractPatientInfo finds each patient field independently; the first
// match of a label wins and missing labels are simply left out.
func (e *EntityExtractor) ExtractPatientInfo(text string) domain.PatientInfo {
	info := make(domain.PatientInfo)
	for _, f := range patientFields {
		m := f.pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		value, ok := f.normalize(strings.TrimSpace(m[1]))
		if !ok {
			e.logger.Debug("Discarded patient field", "field", f.key, "raw", m[1])
			continue
		}
		info[f.key] = value
	}
	return info
}

func keepValue(s string) (string, bool) {
	return s, s != ""
}

func normalizeName(s string) (string, bool) {
	words := strings.Fields(s)
	kept := make([]string, 0, len(words))
	for _, w := range words {
		if nameStopWords[strings.ToLower(w)] {
			break
		}
		kept = append(kept, w)
	}
	if len(kept) == 0 {
		return "", false
	}
	// cases.Caser is not safe for concurrent use, so build one per call.
	return cases.Title(language.English).String(strings.Join(kept, " ")), true
}

func capitalize(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	lower := strings.ToLower(s)
	return strings.ToUpper(lower[:1]) + lower[1:], true
}
