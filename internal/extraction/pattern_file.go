package extraction

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PatternFile is the on-disk form of additional test patterns:
//
//	tests:
//	  - key: hba1c
//	    pattern: 'hba1c|glycated\s+hemoglobin'
//	  - key: mch
//	    pattern: 'mch'
//	    not_followed_by: '\s*c'
type PatternFile struct {
	Tests []PatternEntry `yaml:"tests" json:"tests"`
}

// PatternEntry is a single test pattern in a PatternFile.
type PatternEntry struct {
	Key           string `yaml:"key" json:"key"`
	Pattern       string `yaml:"pattern" json:"pattern"`
	NotFollowedBy string `yaml:"not_followed_by,omitempty" json:"not_followed_by,omitempty"`
}

// ParsePatterns decodes and compiles a YAML pattern document.
func ParsePatterns(data []byte) ([]TestPattern, error) {
	var file PatternFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse pattern file: %w", err)
	}

	seen := make(map[string]bool, len(file.Tests))
	patterns := make([]TestPattern, 0, len(file.Tests))
	for i, entry := range file.Tests {
		p, err := NewTestPattern(entry.Key, entry.Pattern, entry.NotFollowedBy)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
		if seen[p.Key] {
			return nil, fmt.Errorf("entry %d: duplicate key %q", i+1, p.Key)
		}
		seen[p.Key] = true
		patterns = append(patterns, p)
	}
	return patterns, nil
}

// LoadPatternFile reads a YAML pattern file and merges it with the
// built-in table. An empty path returns the built-in table unchanged.
func LoadPatternFile(path string) ([]TestPattern, error) {
	if path == "" {
		return DefaultTestPatterns(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pattern file: %w", err)
	}
	custom, err := ParsePatterns(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return MergePatterns(DefaultTestPatterns(), custom), nil
}

// Entries converts a pattern table back into its file form.
func Entries(patterns []TestPattern) []PatternEntry {
	out := make([]PatternEntry, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, PatternEntry{Key: p.Key, Pattern: p.Pattern, NotFollowedBy: p.NotFollowedBy})
	}
	return out
}
