package extraction

import (
	"regexp"
	"strconv"

	"lab-report-reader/internal/domain"
)

var (
	dashRangeRe   = regexp.MustCompile(`(\d+\.?\d*)\s*-\s*(\d+\.?\d*)`)
	lessThanRe    = regexp.MustCompile(`(?i)(?:less\s+than\s+|<=?\s*)(\d+\.?\d*)`)
	greaterThanRe = regexp.MustCompile(`(?i)(?:greater\s+than\s+|>=?\s*)(\d+\.?\d*)`)
)

// referenceRange is the parsed normal range of a line
type referenceRange struct {
	display string
	min     domain.Bound
	max     domain.Bound
}

// parseReferenceRange tries, in order, "min - max", then an upper-only form
// ("less than N", "< N"), then a lower-only form ("greater than N", "> N").
// Only the first form that matches is used.
func parseReferenceRange(line string) referenceRange {
	if m := dashRangeRe.FindStringSubmatch(line); m != nil {
		lo, errLo := strconv.ParseFloat(m[1], 64)
		hi, errHi := strconv.ParseFloat(m[2], 64)
		if errLo == nil && errHi == nil {
			return referenceRange{
				display: formatNumber(lo) + " - " + formatNumber(hi),
				min:     domain.ValueBound(lo),
				max:     domain.ValueBound(hi),
			}
		}
	}

	if m := lessThanRe.FindStringSubmatch(line); m != nil {
		if hi, err := strconv.ParseFloat(m[1], 64); err == nil {
			return referenceRange{
				display: "< " + formatNumber(hi),
				min:     domain.ValueBound(0),
				max:     domain.ValueBound(hi),
			}
		}
	}

	if m := greaterThanRe.FindStringSubmatch(line); m != nil {
		if lo, err := strconv.ParseFloat(m[1], 64); err == nil {
			return referenceRange{
				display: "> " + formatNumber(lo),
				min:     domain.ValueBound(lo),
				max:     domain.OpenBound(),
			}
		}
	}

	return referenceRange{
		display: domain.NotSpecifiedRange,
		min:     domain.NoBound(),
		max:     domain.NoBound(),
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
