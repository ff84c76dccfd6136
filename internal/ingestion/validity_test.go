package ingestion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/jobfit/internal/types"
)

func TestLooksLikeJobDescription(t *testing.T) {
	filler := func(n int) string { return strings.Repeat("a", n) }

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"empty", "", false},
		{"short with keyword", "Responsibilities: ship code", false},
		{"keyword at 300", "Requirements " + filler(287), true},
		{"keyword below 300", "Requirements " + filler(286), false},
		{"no keyword at 799", filler(799), false},
		{"no keyword at 800", filler(800), true},
		{"keyword is case-insensitive", "ROLE " + filler(300), true},
		{"surrounding whitespace ignored", "   " + filler(799) + "\n\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LooksLikeJobDescription(tt.text))
		})
	}
}

func TestIsValidJobDescription(t *testing.T) {
	long := "Qualifications " + strings.Repeat("x", 400)

	tests := []struct {
		name string
		rec  *types.JobDescriptionRecord
		want bool
	}{
		{"nil", nil, false},
		{"blank text", &types.JobDescriptionRecord{Text: "  ", Confidence: 0.9}, false},
		{"confident", &types.JobDescriptionRecord{Text: "short", Confidence: 0.5}, true},
		{"low confidence", &types.JobDescriptionRecord{Text: long, Confidence: 0.49}, false},
		{"no confidence, long with keyword", &types.JobDescriptionRecord{Text: long}, true},
		{"no confidence, short", &types.JobDescriptionRecord{Text: "Qualifications: none"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidJobDescription(tt.rec))
		})
	}
}
