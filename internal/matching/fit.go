// Package matching scores a résumé against a job description. The job text is
// decomposed into required skills, responsibilities, seniority, domain and
// education; the résumé into skills, titles, years and keyword text. Six weighted
// components combine into a 0-100 fit score with gap analysis.
package matching

import (
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/jobfit/internal/types"
)

// Components are the six component scores, each clamped to [0, 1].
type Components struct {
	Skills     float64 `json:"skills"`
	Experience float64 `json:"experience"`
	Role       float64 `json:"role"`
	Seniority  float64 `json:"seniority"`
	Education  float64 `json:"education"`
	Keywords   float64 `json:"keywords"`
}

// Composite returns round(100 × weighted sum of c).
func Composite(c Components) int {
	sum := c.Skills*skillsWeight +
		c.Experience*experienceWeight +
		c.Role*roleWeight +
		c.Seniority*seniorityWeight +
		c.Education*educationWeight +
		c.Keywords*keywordsWeight
	return percent(sum)
}

// Percentages converts c into the 0-100 integers reported to callers.
func (c Components) Percentages() types.ScoreComponents {
	return types.ScoreComponents{
		SkillsMatch:         percent(c.Skills),
		ExperienceRelevance: percent(c.Experience),
		RoleAlignment:       percent(c.Role),
		SeniorityMatch:      percent(c.Seniority),
		EducationMatch:      percent(c.Education),
		KeywordCoverage:     percent(c.Keywords),
	}
}

func (c Components) clamped() Components {
	return Components{
		Skills:     clamp01(c.Skills),
		Experience: clamp01(c.Experience),
		Role:       clamp01(c.Role),
		Seniority:  clamp01(c.Seniority),
		Education:  clamp01(c.Education),
		Keywords:   clamp01(c.Keywords),
	}
}

// ScorerOptions configures a Scorer.
type ScorerOptions struct {
	// Now resolves "present" end dates. Defaults to time.Now.
	Now func() time.Time
	// Logger receives the score breakdown at debug level. Nil disables logging.
	Logger *zap.Logger
}

// Scorer computes fit scores. It holds no per-call state.
type Scorer struct {
	now    func() time.Time
	logger *zap.Logger
}

// NewScorer creates a Scorer.
func NewScorer(opts ScorerOptions) *Scorer {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scorer{now: now, logger: logger}
}

// Breakdown is a full scoring pass: the decomposed inputs and the raw components.
type Breakdown struct {
	Job        JobData    `json:"job"`
	Resume     Resume     `json:"resume"`
	Components Components `json:"components"`
}

// Analyze normalizes both inputs and computes the clamped components. It returns nil
// when the job text is blank or the résumé is nil.
func (s *Scorer) Analyze(jobText string, page PageInfo, data *types.ResumeData) *Breakdown {
	if strings.TrimSpace(jobText) == "" || data == nil {
		return nil
	}

	job := NormalizeJobDescription(jobText, page)
	resume := NormalizeResume(data, s.now())

	raw := Components{
		Skills:     SkillsMatch(resume.Skills, job.RequiredSkills, job.PreferredSkills),
		Experience: ExperienceRelevance(resume.Experiences, job.Responsibilities, job.Domain),
		Role:       RoleAlignment(resume.Titles, job.JobTitle),
		Seniority:  SeniorityMatch(resume.YearsOfExperience, job.SeniorityRequirement()),
		Education:  EducationMatch(resume.Education, job.EducationRequirements),
		Keywords:   KeywordCoverage(resume.AllText, jobText),
	}
	return &Breakdown{Job: job, Resume: resume, Components: raw.clamped()}
}

// Score computes the fit of data against jobText. It returns nil, meaning scoring
// is not applicable, when the job text is blank or the résumé is nil.
func (s *Scorer) Score(jobText string, page PageInfo, data *types.ResumeData) *types.FitScoreResult {
	b := s.Analyze(jobText, page, data)
	if b == nil {
		return nil
	}

	c := b.Components
	missing := MissingSkills(b.Resume.Skills, b.Job.RequiredSkills)
	result := &types.FitScoreResult{
		OverallScore:    Composite(c),
		ScoreComponents: c.Percentages(),
		MissingSkills:   missing,
		Strengths:       Strengths(c),
		Recommendations: Recommendations(missing, c),
	}

	s.logger.Debug("computed fit score",
		zap.Int("overall", result.OverallScore),
		zap.Int("skills", result.ScoreComponents.SkillsMatch),
		zap.Int("experience", result.ScoreComponents.ExperienceRelevance),
		zap.Int("role", result.ScoreComponents.RoleAlignment),
		zap.Int("seniority", result.ScoreComponents.SeniorityMatch),
		zap.Int("education", result.ScoreComponents.EducationMatch),
		zap.Int("keywords", result.ScoreComponents.KeywordCoverage),
		zap.Strings("missing_skills", missing),
	)
	return result
}

// ScoreFit scores with a default Scorer.
func ScoreFit(jobText string, page PageInfo, data *types.ResumeData) *types.FitScoreResult {
	return NewScorer(ScorerOptions{}).Score(jobText, page, data)
}

// Strengths lists the fixed messages for components that clear their thresholds.
func Strengths(c Components) []string {
	strengths := []string{}
	if c.Skills > strongSkillsThreshold {
		strengths = append(strengths, strengthSkills)
	}
	if c.Experience > strongExperienceThreshold {
		strengths = append(strengths, strengthExperience)
	}
	if c.Role > strongRoleThreshold {
		strengths = append(strengths, strengthRole)
	}
	if c.Seniority > strongSeniorityThreshold {
		strengths = append(strengths, strengthSeniority)
	}
	return strengths
}

// Recommendations lists fixed advice for missing skills, weak experience and weak education.
func Recommendations(missing []string, c Components) []string {
	recs := []string{}
	if len(missing) > 0 {
		n := min(len(missing), recommendedSkills)
		recs = append(recs, fmt.Sprintf("Add %s to resume", strings.Join(missing[:n], ", ")))
	}
	if c.Experience < weakExperienceThreshold {
		recs = append(recs, recommendExperience)
	}
	if c.Education < weakEducationThreshold {
		recs = append(recs, recommendEducation)
	}
	return recs
}

func percent(v float64) int {
	return int(math.Round(v * 100))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(v, 1))
}
