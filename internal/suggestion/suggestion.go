// Package suggestion turns model output into field-level metadata edits,
// persists them as a report, and replays them onto a track.
package suggestion

import (
	"time"

	"musicagent/internal/metadata"
)

// Confidence is the model's confidence label for a single edit.
// Labels are stored verbatim; only Rank interprets them.
type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
)

// Rank orders confidence labels. Unrecognized labels rank as Medium.
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceHigh:
		return 3
	case ConfidenceLow:
		return 1
	default:
		return 2
	}
}

// Valid reports whether c is one of High, Medium or Low.
func (c Confidence) Valid() bool {
	return c == ConfidenceHigh || c == ConfidenceMedium || c == ConfidenceLow
}

// Suggestion is one proposed change to a single metadata field.
type Suggestion struct {
	Field          string     `json:"field" yaml:"field"`
	CurrentValue   *string    `json:"current_value" yaml:"current_value"`
	SuggestedValue string     `json:"suggested_value" yaml:"suggested_value"`
	Confidence     Confidence `json:"confidence" yaml:"confidence"`
	Reason         string     `json:"reason" yaml:"reason"`
}

// Report bundles a metadata snapshot with the edits proposed for it and the
// raw model text they were extracted from.
type Report struct {
	FilePath        string         `json:"file_path" yaml:"file_path"`
	Timestamp       string         `json:"timestamp" yaml:"timestamp"`
	CurrentMetadata metadata.Track `json:"current_metadata" yaml:"current_metadata"`
	Suggestions     []Suggestion   `json:"suggestions" yaml:"suggestions"`
	LLMAnalysis     string         `json:"llm_analysis" yaml:"llm_analysis"`
	ShouldApply     bool           `json:"should_apply" yaml:"should_apply"`
}

// NewReport creates a report stamped with the current local time.
func NewReport(filePath string, current metadata.Track, suggestions []Suggestion, analysis string) *Report {
	return newReportAt(time.Now(), filePath, current, suggestions, analysis)
}

func newReportAt(now time.Time, filePath string, current metadata.Track, suggestions []Suggestion, analysis string) *Report {
	if suggestions == nil {
		suggestions = []Suggestion{}
	}
	return &Report{
		FilePath:        filePath,
		Timestamp:       now.Format(time.RFC3339),
		CurrentMetadata: current,
		Suggestions:     suggestions,
		LLMAnalysis:     analysis,
	}
}
