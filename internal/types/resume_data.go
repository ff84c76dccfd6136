// Package types provides type definitions for structured data exchanged at the jobfit boundary.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ResumeData is the caller-supplied résumé structure. Every field is optional.
type ResumeData struct {
	Skills            []string     `json:"skills,omitempty"`
	Experiences       []Experience `json:"experiences,omitempty"`
	Education         []Education  `json:"education,omitempty"`
	YearsOfExperience float64      `json:"years_of_experience,omitempty" validate:"gte=0,lte=80"`
}

// Experience represents a single position on the résumé
type Experience struct {
	Title        string   `json:"title,omitempty"`
	Description  string   `json:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	StartDate    string   `json:"start_date,omitempty"` // YYYY-MM-DD, YYYY-MM, YYYY or "Jan 2020"
	EndDate      string   `json:"end_date,omitempty"`   // same formats, or "present"
}

// Education represents a single degree entry
type Education struct {
	Field  string `json:"field,omitempty"`
	Degree string `json:"degree,omitempty"`
}
