package matching

import (
	"strings"
	"time"

	"github.com/jonathan/jobfit/internal/types"
)

// Resume is the normalized form of types.ResumeData used for scoring.
type Resume struct {
	Skills            []string           `json:"skills"`
	Experiences       []types.Experience `json:"experiences"`
	Education         []types.Education  `json:"education"`
	Titles            []string           `json:"titles"`
	YearsOfExperience float64            `json:"years_of_experience"`
	AllText           string             `json:"-"` // lower-cased, for keyword coverage
}

// dateLayouts are the accepted résumé date formats, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01",
	"01/2006",
	"Jan 2006",
	"January 2006",
	"2006",
}

// ongoingDates mark a position that has not ended.
var ongoingDates = map[string]bool{
	"present": true,
	"current": true,
	"now":     true,
}

// NormalizeResume derives titles, total years and the keyword text from data.
// now resolves end dates such as "present". Missing fields become empty values.
func NormalizeResume(data *types.ResumeData, now time.Time) Resume {
	if data == nil {
		data = &types.ResumeData{}
	}

	skills := make([]string, 0, len(data.Skills))
	for _, s := range data.Skills {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}

	titles := make([]string, 0, len(data.Experiences))
	for _, exp := range data.Experiences {
		if t := strings.TrimSpace(exp.Title); t != "" {
			titles = append(titles, t)
		}
	}

	years := data.YearsOfExperience
	if years <= 0 {
		years = totalYears(data.Experiences, now)
	}

	// Keyword text: skills, titles, descriptions and fields of study
	parts := make([]string, 0, len(skills)+len(titles)+len(data.Experiences)+len(data.Education))
	parts = append(parts, skills...)
	parts = append(parts, titles...)
	for _, exp := range data.Experiences {
		parts = append(parts, exp.Description)
	}
	for _, edu := range data.Education {
		parts = append(parts, edu.Field)
	}

	return Resume{
		Skills:            skills,
		Experiences:       append([]types.Experience{}, data.Experiences...),
		Education:         append([]types.Education{}, data.Education...),
		Titles:            titles,
		YearsOfExperience: years,
		AllText:           strings.ToLower(strings.Join(parts, " ")),
	}
}

// totalYears sums the length of every experience with a parseable date range.
func totalYears(experiences []types.Experience, now time.Time) float64 {
	total := 0.0
	for _, exp := range experiences {
		start, ok := parseDate(exp.StartDate, now)
		if !ok {
			continue
		}
		end, ok := parseDate(exp.EndDate, now)
		if !ok {
			continue
		}
		if d := end.Sub(start); d > 0 {
			total += d.Hours() / 24 / 365.25
		}
	}
	return total
}

func parseDate(s string, now time.Time) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if ongoingDates[strings.ToLower(s)] {
		return now, true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
