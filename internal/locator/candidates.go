package locator

import (
	"strings"
	"unicode/utf8"

	"github.com/jonathan/jobfit/internal/dom"
)

// Candidate is a text block considered as a possible job description.
// Element is a read-only back-reference into the document it came from.
type Candidate struct {
	Element dom.Element `json:"-"`
	Text    string      `json:"text"`
	Tier    Tier        `json:"tier"`
	Score   ScoreResult `json:"score"`
}

// ExtractCandidates gathers candidate blocks from the selector, container and
// fallback tiers in that order. Text already seen in an earlier tier or earlier in
// document order is skipped. Candidates are returned unscored.
func ExtractCandidates(doc dom.Document) []Candidate {
	if doc == nil {
		return nil
	}

	seen := make(map[string]bool)
	var out []Candidate
	for _, t := range tiers {
		for _, sel := range t.selectors {
			for _, el := range doc.QueryAll(sel) {
				text := strings.TrimSpace(el.Text())
				if text == "" || seen[text] {
					continue
				}
				if !t.accepts(text) || !passesFilters(text, el) {
					continue
				}
				seen[text] = true
				out = append(out, Candidate{Element: el, Text: text, Tier: t.tier})
			}
		}
	}
	return out
}

func (t tierSpec) accepts(text string) bool {
	n := utf8.RuneCountInString(text)
	if n < t.minLen || n > t.maxLen {
		return false
	}
	return !t.requireKeywords || postingKeywordPattern.MatchString(text)
}

func passesFilters(text string, el dom.Element) bool {
	return IsVisible(el) && !IsInNavFooter(el) && !IsNavigationNoise(text, el)
}
