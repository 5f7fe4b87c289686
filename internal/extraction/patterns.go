// Package extraction recovers patient details and lab test results from
// report text using an ordered table of recognition patterns.
package extraction

import (
	"fmt"
	"regexp"
	"strings"
)

// TestPattern recognizes one kind of lab test on a report line.
type TestPattern struct {
	Key     string
	Pattern string
	// NotFollowedBy rejects a match of Pattern when this expression matches
	// immediately after it. RE2 has no lookahead, so "mch(?!\s*c)" is
	// written as Pattern "mch" with NotFollowedBy `\s*c`.
	NotFollowedBy string

	match  *regexp.Regexp
	reject *regexp.Regexp
}

// NewTestPattern compiles a case-insensitive test pattern.
func NewTestPattern(key, pattern, notFollowedBy string) (TestPattern, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return TestPattern{}, fmt.Errorf("test pattern key is required")
	}
	if strings.TrimSpace(pattern) == "" {
		return TestPattern{}, fmt.Errorf("test pattern %q: pattern is required", key)
	}

	match, err := regexp.Compile(`(?i)(?:` + pattern + `)`)
	if err != nil {
		return TestPattern{}, fmt.Errorf("test pattern %q: %w", key, err)
	}

	p := TestPattern{Key: key, Pattern: pattern, NotFollowedBy: notFollowedBy, match: match}
	if notFollowedBy != "" {
		reject, err := regexp.Compile(`(?i)^(?:` + notFollowedBy + `)`)
		if err != nil {
			return TestPattern{}, fmt.Errorf("test pattern %q: not_followed_by: %w", key, err)
		}
		p.reject = reject
	}
	return p, nil
}

func mustTestPattern(key, pattern, notFollowedBy string) TestPattern {
	p, err := NewTestPattern(key, pattern, notFollowedBy)
	if err != nil {
		panic(err)
	}
	return p
}

// Matches reports whether the pattern occurs anywhere in line.
func (p TestPattern) Matches(line string) bool {
	if p.match == nil {
		return false
	}
	if p.reject == nil {
		return p.match.MatchString(line)
	}
	for _, loc := range p.match.FindAllStringIndex(line, -1) {
		if !p.reject.MatchString(line[loc[1]:]) {
			return true
		}
	}
	return false
}

// defaultTestPatterns is the built-in recognition table. Order is part of
// the contract: the first entry that matches a line decides its TestKey.
// Specific names come before the general ones they contain (hdl/ldl before
// cholesterol, mchc before mch).
var defaultTestPatterns = []TestPattern{
	mustTestPattern("hemoglobin", `hemoglobin|hb|hgb`, ""),
	mustTestPattern("hematocrit", `hematocrit|hct`, ""),
	mustTestPattern("rbc", `rbc\s+count|red\s+blood\s+cell`, ""),
	mustTestPattern("wbc", `wbc\s+count|white\s+blood\s+cell`, ""),
	mustTestPattern("platelets", `platelet`, ""),
	mustTestPattern("glucose", `glucose|blood\s+sugar`, ""),
	mustTestPattern("hdl", `hdl`, ""),
	mustTestPattern("ldl", `ldl`, ""),
	mustTestPattern("cholesterol", `cholesterol`, ""),
	mustTestPattern("triglycerides", `triglyceride`, ""),
	mustTestPattern("creatinine", `creatinine`, ""),
	mustTestPattern("mchc", `mchc`, ""),
	mustTestPattern("mch", `mch`, `\s*c`),
	mustTestPattern("mcv", `mcv`, ""),
}

// DefaultTestPatterns returns a copy of the built-in recognition table.
func DefaultTestPatterns() []TestPattern {
	out := make([]TestPattern, len(defaultTestPatterns))
	copy(out, defaultTestPatterns)
	return out
}

// MergePatterns places custom entries ahead of base. A custom entry whose
// key already exists in base replaces that entry in place instead.
func MergePatterns(base, custom []TestPattern) []TestPattern {
	replaced := make(map[string]TestPattern)
	for _, p := range custom {
		replaced[p.Key] = p
	}

	merged := make([]TestPattern, 0, len(base)+len(custom))
	baseKeys := make(map[string]bool, len(base))
	for _, p := range base {
		baseKeys[p.Key] = true
	}
	for _, p := range custom {
		if !baseKeys[p.Key] {
			merged = append(merged, p)
		}
	}
	for _, p := range base {
		if r, ok := replaced[p.Key]; ok {
			merged = append(merged, r)
			continue
		}
		merged = append(merged, p)
	}
	return merged
}

// firstMatch returns the first pattern in table order that matches line.
func firstMatch(patterns []TestPattern, line string) (TestPattern, bool) {
	for _, p := range patterns {
		if p.Matches(line) {
			return p, true
		}
	}
	return TestPattern{}, false
}
