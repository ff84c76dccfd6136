package ingestion

import (
	"strings"
	"unicode/utf8"

	"github.com/jonathan/jobfit/internal/types"
)

// Length thresholds for the keyword/length heuristic.
const (
	MinKeywordedLength   = 300
	MinUnkeywordedLength = 800
)

// postingKeywords are words any real posting is expected to mention.
var postingKeywords = []string{
	"responsibilities",
	"requirements",
	"qualifications",
	"experience",
	"skills",
	"role",
	"position",
}

// LooksLikeJobDescription reports whether text is substantial enough to be kept
// as carry-over material: a posting keyword and at least 300 characters, or at
// least 800 characters regardless of content.
func LooksLikeJobDescription(text string) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(text))
	if n >= MinUnkeywordedLength {
		return true
	}
	if n < MinKeywordedLength {
		return false
	}
	lower := strings.ToLower(text)
	for _, kw := range postingKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// IsValidJobDescription judges a record. Records carrying a confidence are valid
// at or above the medium threshold; records without one (zero confidence, e.g.
// imported from elsewhere) fall back to LooksLikeJobDescription.
func IsValidJobDescription(rec *types.JobDescriptionRecord) bool {
	if rec == nil || strings.TrimSpace(rec.Text) == "" {
		return false
	}
	if rec.Confidence > 0 {
		return rec.Confidence >= types.MediumConfidenceThreshold
	}
	return LooksLikeJobDescription(rec.Text)
}
