package locator

import (
	"strings"
	"testing"

	"github.com/jonathan/jobfit/internal/dom"
	"github.com/stretchr/testify/assert"
)

func TestScoreHeaderProximity_HeadersInText(t *testing.T) {
	base := "We ship reliable software for hospitals.\n"
	withHeaders := "Job Description\n" + base + "Responsibilities\nQualifications\n"

	with, reasons := scoreHeaderProximity(nil, normalizeQuotes(strings.ToLower(withHeaders)))
	without, _ := scoreHeaderProximity(nil, strings.ToLower(base))

	assert.GreaterOrEqual(t, with-without, 0.20)
	assert.Contains(t, reasons, "has job description headers")
}

func TestScoreHeaderProximity_PrecedingSibling(t *testing.T) {
	heading := &fakeElement{tag: "h2", text: "What You’ll Do"}
	spacer1 := &fakeElement{tag: "div", prev: heading}
	spacer2 := &fakeElement{tag: "div", prev: spacer1}
	near := &fakeElement{tag: "div", prev: spacer2}
	far := &fakeElement{tag: "div", prev: &fakeElement{tag: "hr", prev: near}}

	score, reasons := scoreHeaderProximity(near, "plain text")
	assert.InDelta(t, 0.05, score, 1e-9)
	assert.Contains(t, reasons, "preceded by job description header")

	score, _ = scoreHeaderProximity(far, "plain text")
	assert.Equal(t, 0.0, score)
}

func TestScoreStructure(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"flat text floors at zero", "one line of text", 0},
		{"paragraphs only", "one\n\ntwo\n\nthree", 0.08},
		{"bullets only", "intro\n- a\n- b\n• c", 0.12},
		{"paragraphs and bullets", "one\n\ntwo\n\n* a\n* b\n* c", 0.20},
		{"two bullets are not a list", "intro\n- a\n- b", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := scoreStructure(tt.text)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestScoreLinguistics(t *testing.T) {
	t.Run("strong phrases are capped", func(t *testing.T) {
		text := "you will own responsibilities requirements qualifications we are looking ideal candidate in this role must have nice to have preferred required about you"
		got, reasons := scoreLinguistics(text)
		assert.InDelta(t, 0.22, got, 1e-9)
		assert.NotEmpty(t, reasons)
	})

	t.Run("action verbs need boundaries and cap", func(t *testing.T) {
		got, reasons := scoreLinguistics("lead teams\ndevelop apis\nbuild tools\ndesign systems\nmanage budgets\n")
		assert.InDelta(t, 0.03, got, 1e-9)
		assert.Contains(t, reasons, "strong action verbs")

		got, _ = scoreLinguistics("misleading redevelopment")
		assert.Equal(t, 0.0, got)
	})

	t.Run("boilerplate penalty floors at zero", func(t *testing.T) {
		got, _ := scoreLinguistics("privacy policy. copyright. subscribe. contact us.")
		assert.Equal(t, 0.0, got)
	})

	t.Run("penalty offsets phrases", func(t *testing.T) {
		got, _ := scoreLinguistics("you will love it. requirements below. privacy policy")
		assert.InDelta(t, 0.04, got, 1e-9)
	})

	t.Run("any phrase match is reported", func(t *testing.T) {
		got, reasons := scoreLinguistics("you will love it. requirements below.")
		assert.InDelta(t, 0.06, got, 1e-9)
		assert.Equal(t, []string{"has 2 job phrases"}, reasons)
	})
}

func TestScoreLayout(t *testing.T) {
	vp := dom.Viewport{Width: 1000, Height: 800}

	tests := []struct {
		name string
		box  dom.Box
		want float64
	}{
		{"top and wide", visibleBox(100, 900), 0.15},
		{"mid page and medium", visibleBox(2000, 500), 0.08},
		{"far down and narrow", visibleBox(5000, 300), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := scoreLayout(&fakeElement{box: tt.box}, vp)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}

	got, _ := scoreLayout(&fakeElement{box: visibleBox(0, 900)}, dom.Viewport{})
	assert.Equal(t, 0.0, got)
}

func TestScoreCandidate_PageMetadata(t *testing.T) {
	doc := &fakeDocument{
		ogTitle:  "Staff Engineer | Acme Careers",
		viewport: dom.DefaultViewport,
		elements: map[string][]dom.Element{
			"h1": {&fakeElement{tag: "h1", text: "Apply now"}},
		},
	}

	res := ScoreCandidate(doc, Candidate{Text: "short text"})
	assert.InDelta(t, 0.15, res.SignalBreakdown[SignalPageMetadata], 1e-9)
	assert.Contains(t, res.Reasons, "title mentions job/career")
}

func TestScoreCandidate_Bounds(t *testing.T) {
	doc := &fakeDocument{title: "Job opening", viewport: dom.DefaultViewport}
	el := &fakeElement{tag: "div", box: visibleBox(0, 1300), prev: &fakeElement{text: "Job Description"}}
	text := "Responsibilities\n\nYou will lead and build and design and develop and manage.\n\nRequirements\n- must have Go\n- nice to have Rust\n- preferred: SQL\nideal candidate, in this role, we are looking, qualifications, required, about you"

	res := ScoreCandidate(doc, Candidate{Element: el, Text: text})
	assert.GreaterOrEqual(t, res.Total, 0.0)
	assert.LessOrEqual(t, res.Total, 1.0)
	assert.Len(t, res.SignalBreakdown, 5)

	sum := 0.0
	for _, v := range res.SignalBreakdown {
		sum += v
	}
	assert.InDelta(t, min(sum, 1.0), res.Total, 1e-9)
}

func TestScoreCandidate_SinglePhraseIsNotGeneric(t *testing.T) {
	doc := &fakeDocument{title: "Acme", viewport: dom.DefaultViewport}
	res := ScoreCandidate(doc, Candidate{Text: "lorem ipsum requirements dolor"})
	assert.Contains(t, res.Reasons, "has 1 job phrases")
	assert.NotContains(t, res.Reasons, "generic text block")
}

func TestScoreCandidate_GenericReason(t *testing.T) {
	doc := &fakeDocument{title: "Acme", viewport: dom.DefaultViewport}
	res := ScoreCandidate(doc, Candidate{Text: "lorem ipsum dolor"})
	assert.Equal(t, []string{"generic text block"}, res.Reasons)
	assert.Equal(t, 0.0, res.Total)
}
