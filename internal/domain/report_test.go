package domain

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
)

func TestBound_JSON(t *testing.T) {
	tests := []struct {
		name  string
		bound Bound
		json  string
	}{
		{"none", NoBound(), `null`},
		{"open", OpenBound(), `"inf"`},
		{"value", ValueBound(13.5), `13.5`},
		{"zero", ValueBound(0), `0`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.bound)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(data) != tt.json {
				t.Fatalf("expected %s, got %s", tt.json, data)
			}

			var got Bound
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got != tt.bound {
				t.Fatalf("expected %+v, got %+v", tt.bound, got)
			}
		})
	}
}

func TestBound_UnmarshalInvalid(t *testing.T) {
	var b Bound
	if err := json.Unmarshal([]byte(`"infinity"`), &b); err == nil {
		t.Fatalf("expected error for unknown bound")
	}
}

func TestBound_Limits(t *testing.T) {
	if v, ok := OpenBound().Upper(); !ok || !math.IsInf(v, 1) {
		t.Fatalf("open upper bound should be +Inf, got %v %v", v, ok)
	}
	if v, ok := OpenBound().Lower(); !ok || !math.IsInf(v, -1) {
		t.Fatalf("open lower bound should be -Inf, got %v %v", v, ok)
	}
	if v, ok := ValueBound(40).Upper(); !ok || v != 40 {
		t.Fatalf("expected 40, got %v %v", v, ok)
	}
	if _, ok := NoBound().Lower(); ok {
		t.Fatalf("no bound should report ok=false")
	}
	if NoBound().IsSet() || !ValueBound(0).IsSet() {
		t.Fatalf("IsSet mismatch")
	}
	if OpenBound().String() != "inf" || ValueBound(17.5).String() != "17.5" || NoBound().String() != "none" {
		t.Fatalf("unexpected String forms")
	}
}

func TestTestResult_JSONFieldNames(t *testing.T) {
	data, err := json.Marshal(TestResult{
		TestName:    "HDL Cholesterol",
		TestKey:     "hdl",
		Value:       55,
		NormalRange: "> 40",
		MinNormal:   ValueBound(40),
		MaxNormal:   OpenBound(),
		Unit:        "mg/dL",
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"test_name":"HDL Cholesterol","test_key":"hdl","value":55,"normal_range":"\u003e 40","min_normal":40,"max_normal":"inf","unit":"mg/dL"}`
	if string(data) != want {
		t.Fatalf("expected %s, got %s", want, data)
	}
}

func TestExtractedDocument_MetadataOmittedWhenNotRead(t *testing.T) {
	data, err := json.Marshal(ExtractedDocument{Filename: "report.pdf", Text: "x", PageCount: 1})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), "metadata") {
		t.Fatalf("expected no metadata key, got %s", data)
	}

	data, err = json.Marshal(ExtractedDocument{Metadata: &DocumentMetadata{Author: UnknownMetadataValue}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"author":"Unknown"`) {
		t.Fatalf("expected author in metadata, got %s", data)
	}
}

func TestExtractionStats_Considered(t *testing.T) {
	s := ExtractionStats{TotalLines: 10, BlankLines: 2, HeaderLines: 1, RejectedLines: 4, AcceptedLines: 3}
	if s.Considered() != 7 {
		t.Fatalf("expected 7, got %d", s.Considered())
	}
}

func TestPatientInfo_Get(t *testing.T) {
	info := PatientInfo{PatientName: "John Doe"}
	if v, ok := info.Get(PatientName); !ok || v != "John Doe" {
		t.Fatalf("expected John Doe, got %q %v", v, ok)
	}
	if _, ok := info.Get(PatientAge); ok {
		t.Fatalf("absent field should not be found")
	}
}
