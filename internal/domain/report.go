package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// UnknownMetadataValue is used for document metadata fields the file does not carry
const UnknownMetadataValue = "Unknown"

// DocumentMetadata contains the descriptive fields of a source document
type DocumentMetadata struct {
	Author   string `json:"author"`
	Creator  string `json:"creator"`
	Producer string `json:"producer"`
	Subject  string `json:"subject"`
	Title    string `json:"title"`
}

// ExtractedDocument is the raw text of a report plus page and document metadata
type ExtractedDocument struct {
	Filename  string            `json:"filename"`
	Text      string            `json:"text"`
	PageCount int               `json:"page_count"`
	CharCount int               `json:"char_count"`
	WordCount int               `json:"word_count"`
	Metadata  *DocumentMetadata `json:"metadata,omitempty"`
}

// Patient info keys
const (
	PatientName           = "name"
	PatientID             = "id"
	PatientAge            = "age"
	PatientGender         = "gender"
	PatientCollectionDate = "collection_date"
	PatientReportDate     = "report_date"
)

// PatientInfo maps patient field keys to normalized values.
// A key is only present when the field was found in the text.
type PatientInfo map[string]string

// Get returns the value for key and whether it was found
func (p PatientInfo) Get(key string) (string, bool) {
	v, ok := p[key]
	return v, ok
}

// BoundKind discriminates the three shapes a reference range side can take
type BoundKind int

const (
	// BoundNone means the report gave no bound on this side
	BoundNone BoundKind = iota
	// BoundOpen means the side is unlimited (e.g. the upper side of "> 40")
	BoundOpen
	// BoundValue means the side is a concrete number
	BoundValue
)

// Bound is one side of a reference range
type Bound struct {
	Kind  BoundKind
	Value float64
}

// NoBound returns a bound for a side the report did not specify
func NoBound() Bound { return Bound{Kind: BoundNone} }

// OpenBound returns an unlimited bound
func OpenBound() Bound { return Bound{Kind: BoundOpen} }

// ValueBound returns a numeric bound
func ValueBound(v float64) Bound { return Bound{Kind: BoundValue, Value: v} }

// IsSet reports whether the bound carries any information
func (b Bound) IsSet() bool { return b.Kind != BoundNone }

// Upper returns the bound as an upper limit: +Inf when open
func (b Bound) Upper() (float64, bool) {
	switch b.Kind {
	case BoundOpen:
		return math.Inf(1), true
	case BoundValue:
		return b.Value, true
	}
	return 0, false
}

// Lower returns the bound as a lower limit: -Inf when open
func (b Bound) Lower() (float64, bool) {
	switch b.Kind {
	case BoundOpen:
		return math.Inf(-1), true
	case BoundValue:
		return b.Value, true
	}
	return 0, false
}

func (b Bound) String() string {
	switch b.Kind {
	case BoundOpen:
		return "inf"
	case BoundValue:
		return strconv.FormatFloat(b.Value, 'f', -1, 64)
	}
	return "none"
}

// MarshalJSON encodes a bound as null, a number, or the string "inf"
func (b Bound) MarshalJSON() ([]byte, error) {
	switch b.Kind {
	case BoundOpen:
		return []byte(`"inf"`), nil
	case BoundValue:
		return json.Marshal(b.Value)
	}
	return []byte("null"), nil
}

// UnmarshalJSON is the inverse of MarshalJSON
func (b *Bound) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "null":
		*b = NoBound()
		return nil
	case `"inf"`:
		*b = OpenBound()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid bound %s: %w", string(data), err)
	}
	*b = ValueBound(v)
	return nil
}

// NotSpecifiedRange is the display form of a missing reference range
const NotSpecifiedRange = "Not specified"

// TestResult is one lab test recognized on a single report line
type TestResult struct {
	TestName    string  `json:"test_name"`
	TestKey     string  `json:"test_key"`
	Value       float64 `json:"value"`
	NormalRange string  `json:"normal_range"`
	MinNormal   Bound   `json:"min_normal"`
	MaxNormal   Bound   `json:"max_normal"`
	Unit        string  `json:"unit"`
}

// ExtractionStats counts how the input lines were disposed of
type ExtractionStats struct {
	TotalLines    int `json:"total_lines"`
	BlankLines    int `json:"blank_lines"`
	HeaderLines   int `json:"header_lines"`
	RejectedLines int `json:"rejected_lines"`
	AcceptedLines int `json:"accepted_lines"`
}

// Considered is the number of lines handed to the line parser
func (s ExtractionStats) Considered() int {
	return s.RejectedLines + s.AcceptedLines
}

// ExtractionResult is the structured record recovered from report text
type ExtractionResult struct {
	PatientInfo PatientInfo     `json:"patient_info"`
	TestResults []TestResult    `json:"test_results"`
	TotalTests  int             `json:"total_tests"`
	Stats       ExtractionStats `json:"stats"`
}

// ReportAnalysis ties an uploaded document to the entities extracted from it
type ReportAnalysis struct {
	ID         string            `json:"id"`
	Document   ExtractedDocument `json:"document"`
	Extraction ExtractionResult  `json:"extraction"`
	CreatedAt  time.Time         `json:"created_at"`
}
