package locator

import (
	"fmt"
	"math"
	"strings"

	"github.com/jonathan/jobfit/internal/dom"
)

// ScoreResult is a candidate's confidence with its per-signal contributions.
type ScoreResult struct {
	Total           float64            `json:"total"`
	SignalBreakdown map[string]float64 `json:"signal_breakdown"`
	Reasons         []string           `json:"reasons"`
}

// pageContext holds the document-level inputs shared by every candidate of a pass.
type pageContext struct {
	viewport     dom.Viewport
	titleMatches bool
	h1Matches    bool
}

func newPageContext(doc dom.Document) pageContext {
	if doc == nil {
		return pageContext{viewport: dom.DefaultViewport}
	}
	title := strings.ToLower(doc.Title() + " " + doc.MetaProperty("og:title"))
	h1 := strings.ToLower(dom.FirstText(doc, "h1"))
	return pageContext{
		viewport:     doc.Viewport(),
		titleMatches: containsAny(title, pageKeywords),
		h1Matches:    containsAny(h1, pageKeywords),
	}
}

// ScoreCandidate scores c against the five locator signals using doc for
// page-level metadata and viewport size.
func ScoreCandidate(doc dom.Document, c Candidate) ScoreResult {
	return newPageContext(doc).score(c)
}

func (p pageContext) score(c Candidate) ScoreResult {
	lower := normalizeQuotes(strings.ToLower(c.Text))
	var reasons []string

	header, headerReasons := scoreHeaderProximity(c.Element, lower)
	reasons = append(reasons, headerReasons...)

	structure, structureReasons := scoreStructure(c.Text)
	reasons = append(reasons, structureReasons...)

	linguistics, linguisticReasons := scoreLinguistics(lower)
	reasons = append(reasons, linguisticReasons...)

	layout, layoutReasons := scoreLayout(c.Element, p.viewport)
	reasons = append(reasons, layoutReasons...)

	metadata, metadataReasons := p.scorePageMetadata()
	reasons = append(reasons, metadataReasons...)

	if len(reasons) == 0 {
		reasons = []string{"generic text block"}
	}

	return ScoreResult{
		Total: math.Min(header+structure+linguistics+layout+metadata, 1.0),
		SignalBreakdown: map[string]float64{
			SignalHeaderProximity: header,
			SignalStructure:       structure,
			SignalLinguistics:     linguistics,
			SignalLayout:          layout,
			SignalPageMetadata:    metadata,
		},
		Reasons: reasons,
	}
}

// scoreHeaderProximity looks for job-description headings inside the text and in
// the few element siblings that precede it.
func scoreHeaderProximity(el dom.Element, lower string) (float64, []string) {
	score := 0.0
	var reasons []string
	if containsAny(lower, jobHeaders) {
		score += headerInternalScore
		reasons = append(reasons, "has job description headers")
	}
	if el == nil {
		return score, reasons
	}
	sib := el.PrevSibling()
	for i := 0; i < siblingHeaderLookback && sib != nil; i++ {
		if containsAny(normalizeQuotes(strings.ToLower(sib.Text())), jobHeaders) {
			score += headerSiblingScore
			reasons = append(reasons, "preceded by job description header")
			break
		}
		sib = sib.PrevSibling()
	}
	return score, reasons
}

func scoreStructure(text string) (float64, []string) {
	paragraphs := 0
	for _, block := range paragraphBreakPattern.Split(text, -1) {
		if strings.TrimSpace(block) != "" {
			paragraphs++
		}
	}
	bullets := len(bulletLinePattern.FindAllStringIndex(text, -1))

	score := 0.0
	var reasons []string
	if paragraphs >= structureMinParagraphs {
		score += structureParagraphScore
		reasons = append(reasons, "multiple paragraphs")
	}
	if bullets >= structureMinBullets {
		score += structureBulletScore
		reasons = append(reasons, "has bullet lists")
	}
	if paragraphs <= 1 && bullets == 0 {
		score -= structureFlatPenalty
	}
	return math.Max(score, 0), reasons
}

func scoreLinguistics(lower string) (float64, []string) {
	var reasons []string

	phrases := 0
	for _, p := range strongPhrases {
		if strings.Contains(lower, p) {
			phrases++
		}
	}
	strong := math.Min(float64(phrases)*strongPhraseScore, strongPhraseCap)
	if phrases > 0 {
		reasons = append(reasons, fmt.Sprintf("has %d job phrases", phrases))
	}

	verbs := 0
	for _, re := range actionVerbPatterns {
		if re.MatchString(lower) {
			verbs++
		}
	}
	verbScore := math.Min(float64(verbs)*actionVerbScore, actionVerbCap)
	if verbs >= actionVerbReason {
		reasons = append(reasons, "strong action verbs")
	}

	weak := 0
	for _, p := range weakPhrases {
		if strings.Contains(lower, p) {
			weak++
		}
	}
	penalty := math.Min(float64(weak)*weakPhrasePenalty, weakPhraseCap)

	return math.Max(strong+verbScore-penalty, 0), reasons
}

func scoreLayout(el dom.Element, vp dom.Viewport) (float64, []string) {
	if el == nil {
		return 0, nil
	}
	rect := el.Box().Rect
	score := 0.0
	var reasons []string

	if vp.Height > 0 {
		switch {
		case rect.Top < layoutNearTopScreens*vp.Height:
			score += layoutNearTopScore
			reasons = append(reasons, "near top of page")
		case rect.Top < layoutMidPageScreens*vp.Height:
			score += layoutMidPageScore
		}
	}
	if vp.Width > 0 {
		ratio := rect.Width / vp.Width
		switch {
		case ratio > layoutWideRatio:
			score += layoutWideScore
			reasons = append(reasons, "main content width")
		case ratio > layoutMediumRatio:
			score += layoutMediumScore
		}
	}
	return score, reasons
}

func (p pageContext) scorePageMetadata() (float64, []string) {
	score := 0.0
	var reasons []string
	if p.titleMatches {
		score += metadataTitleScore
		reasons = append(reasons, "title mentions job/career")
	}
	if p.h1Matches {
		score += metadataH1Score
		reasons = append(reasons, "heading mentions job/career")
	}
	return score, reasons
}

func normalizeQuotes(s string) string {
	return strings.ReplaceAll(s, "’", "'")
}
