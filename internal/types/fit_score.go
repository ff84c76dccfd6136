// Package types provides type definitions for structured data exchanged at the jobfit boundary.
//
//nolint:revive // types is a standard Go package name pattern
package types

// FitScoreResult is the composite résumé/job compatibility score with gap analysis
type FitScoreResult struct {
	OverallScore    int             `json:"overall_score"` // 0-100
	ScoreComponents ScoreComponents `json:"score_components"`
	MissingSkills   []string        `json:"missing_skills"` // at most 3
	Strengths       []string        `json:"strengths"`
	Recommendations []string        `json:"recommendations"`
}

// ScoreComponents holds the six component scores, each 0-100
type ScoreComponents struct {
	SkillsMatch         int `json:"skills_match"`
	ExperienceRelevance int `json:"experience_relevance"`
	RoleAlignment       int `json:"role_alignment"`
	SeniorityMatch      int `json:"seniority_match"`
	EducationMatch      int `json:"education_match"`
	KeywordCoverage     int `json:"keyword_coverage"`
}
