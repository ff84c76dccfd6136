// Package locator finds the text block on a page most likely to be a job
// description. Candidates are gathered in three extraction tiers, filtered for
// visibility and navigation chrome, and scored on five bounded signals.
package locator

import (
	"sort"

	"go.uber.org/zap"

	"github.com/jonathan/jobfit/internal/dom"
	"github.com/jonathan/jobfit/internal/types"
)

// Options configures a Locator.
type Options struct {
	// MinConfidence is the lowest score a candidate may have and still be returned.
	// Zero means types.MediumConfidenceThreshold.
	MinConfidence float64
	// Logger receives debug output about ranked candidates. Nil disables logging.
	Logger *zap.Logger
}

// Locator ranks page text blocks and selects the job description.
// A Locator holds no per-call state and is safe for concurrent use.
type Locator struct {
	minConfidence float64
	logger        *zap.Logger
}

// New creates a Locator.
func New(opts Options) *Locator {
	threshold := opts.MinConfidence
	if threshold <= 0 {
		threshold = types.MediumConfidenceThreshold
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Locator{minConfidence: threshold, logger: logger}
}

// Rank extracts and scores every candidate in doc, best first. Candidates with
// equal totals keep extraction order.
func (l *Locator) Rank(doc dom.Document) []Candidate {
	candidates := ExtractCandidates(doc)
	if len(candidates) == 0 {
		return nil
	}

	page := newPageContext(doc)
	for i := range candidates {
		candidates[i].Score = page.score(candidates[i])
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score.Total > candidates[j].Score.Total
	})

	for i, c := range candidates {
		if i == 3 {
			break
		}
		l.logger.Debug("ranked job description candidate",
			zap.Int("rank", i+1),
			zap.String("tier", string(c.Tier)),
			zap.Float64("score", c.Score.Total),
			zap.Int("length", len(c.Text)),
			zap.Strings("reasons", c.Score.Reasons),
		)
	}
	return candidates
}

// Select returns the record for the first of ranked if it meets the confidence
// threshold, or nil.
func (l *Locator) Select(ranked []Candidate) *types.JobDescriptionRecord {
	if len(ranked) == 0 {
		return nil
	}
	best := ranked[0]
	if best.Score.Total < l.minConfidence {
		l.logger.Debug("best candidate below confidence threshold",
			zap.Float64("score", best.Score.Total),
			zap.Float64("threshold", l.minConfidence),
		)
		return nil
	}
	return &types.JobDescriptionRecord{
		Text:       best.Text,
		Confidence: best.Score.Total,
		Level:      types.LevelFor(best.Score.Total),
		Reasons:    append([]string(nil), best.Score.Reasons...),
	}
}

// Locate ranks doc and selects the job description. It returns nil when nothing
// on the page scores at least the confidence threshold.
func (l *Locator) Locate(doc dom.Document) *types.JobDescriptionRecord {
	return l.Select(l.Rank(doc))
}
