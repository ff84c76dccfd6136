// Package types provides type definitions for structured data exchanged at the jobfit boundary.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Confidence bands for a located job description.
const (
	HighConfidenceThreshold   = 0.75
	MediumConfidenceThreshold = 0.5
)

// ConfidenceLevel names the band a located job description falls in
type ConfidenceLevel string

const (
	// ConfidenceHigh covers scores >= 0.75
	ConfidenceHigh ConfidenceLevel = "high"
	// ConfidenceMedium covers scores in [0.5, 0.75)
	ConfidenceMedium ConfidenceLevel = "medium"
	// ConfidenceRejected covers scores below 0.5; such records are never returned by the locator
	ConfidenceRejected ConfidenceLevel = "rejected"
)

// LevelFor maps a confidence score onto its band.
func LevelFor(confidence float64) ConfidenceLevel {
	switch {
	case confidence >= HighConfidenceThreshold:
		return ConfidenceHigh
	case confidence >= MediumConfidenceThreshold:
		return ConfidenceMedium
	default:
		return ConfidenceRejected
	}
}

// JobDescriptionRecord is the locator's output: the best candidate text with its confidence
type JobDescriptionRecord struct {
	Text       string          `json:"text"`
	Confidence float64         `json:"confidence"`
	Level      ConfidenceLevel `json:"level"`
	Reasons    []string        `json:"reasons"`
}
