package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter("warn", &buf)

	l.Debug("debug line")
	l.Info("info line")
	l.Warn("warn line", "page", 2)
	l.Error("error line", errors.New("boom"))

	out := buf.String()
	if strings.Contains(out, "debug line") || strings.Contains(out, "info line") {
		t.Fatalf("expected debug/info to be filtered at warn level, got:\n%s", out)
	}
	if !strings.Contains(out, "WARN: warn line page=2") {
		t.Fatalf("expected warn line with fields, got:\n%s", out)
	}
	if !strings.Contains(out, "ERROR: error line error=boom") {
		t.Fatalf("expected error line with error field, got:\n%s", out)
	}
}

func TestLogger_WithComponent(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter("debug", &buf).(*AppLogger).With("entity-extractor")

	l.Info("Extracted test results", "count", 3, "dangling")

	out := buf.String()
	if !strings.Contains(out, "INFO: (entity-extractor) Extracted test results count=3") {
		t.Fatalf("unexpected output: %s", out)
	}
	if strings.Contains(out, "dangling") {
		t.Fatalf("odd trailing field should be dropped, got: %s", out)
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":   DEBUG,
		"INFO":    INFO,
		"warning": WARN,
		" error ": ERROR,
		"bogus":   INFO,
		"":        INFO,
	}
	for in, want := range cases {
		if got := parseLogLevel(in); got != want {
			t.Fatalf("parseLogLevel(%q) = %d, want %d", in, got, want)
		}
	}
}
