package matching

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/jobfit/internal/dom"
)

// SeniorityLevel is the seniority a job description asks for
type SeniorityLevel string

// Seniority levels in priority order. SeniorityNone means no level was mentioned.
const (
	SeniorityStaff  SeniorityLevel = "staff"
	SenioritySenior SeniorityLevel = "senior"
	SeniorityMid    SeniorityLevel = "mid"
	SeniorityJunior SeniorityLevel = "junior"
	SeniorityNone   SeniorityLevel = ""
)

// PageInfo carries the page-level hints used to pick a job title.
type PageInfo struct {
	H1           string `json:"h1,omitempty"`
	JobTitleAttr string `json:"job_title_attr,omitempty"`
	Title        string `json:"title,omitempty"`
}

// PageInfoFromDocument reads the first h1, a Workday-style job title element and the
// document title.
func PageInfoFromDocument(doc dom.Document) PageInfo {
	if doc == nil {
		return PageInfo{}
	}
	return PageInfo{
		H1:           dom.FirstText(doc, "h1"),
		JobTitleAttr: dom.FirstText(doc, `[data-automation-id*="jobTitle"]`),
		Title:        strings.TrimSpace(doc.Title()),
	}
}

// JobTitle returns the first non-empty of the h1, the job title element and the page title.
func (p PageInfo) JobTitle() string {
	for _, s := range []string{p.H1, p.JobTitleAttr, p.Title} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

// JobData is the structured form of a job description
type JobData struct {
	JobTitle              string         `json:"job_title"`
	RequiredSkills        []string       `json:"required_skills"`
	PreferredSkills       []string       `json:"preferred_skills"`
	Responsibilities      []string       `json:"responsibilities"` // at most 15
	SeniorityLevel        SeniorityLevel `json:"seniority_level,omitempty"`
	ExperienceRequirement string         `json:"experience_requirement,omitempty"` // e.g. "5+ years"
	Domain                string         `json:"domain,omitempty"`
	EducationRequirements []string       `json:"education_requirements"`
}

// SeniorityRequirement returns the text seniority is scored against: the level and
// any explicit years requirement.
func (j JobData) SeniorityRequirement() string {
	return strings.TrimSpace(string(j.SeniorityLevel) + " " + j.ExperienceRequirement)
}

// NormalizeJobDescription decomposes job-description text into structured requirements.
func NormalizeJobDescription(text string, page PageInfo) JobData {
	lower := strings.ToLower(text)
	return JobData{
		JobTitle:              page.JobTitle(),
		RequiredSkills:        ExtractSkills(text, requiredMarkers),
		PreferredSkills:       ExtractSkills(text, preferredMarkers),
		Responsibilities:      ExtractResponsibilities(text),
		SeniorityLevel:        DetectSeniority(lower),
		ExperienceRequirement: ExtractExperienceRequirement(text),
		Domain:                DetectDomain(lower),
		EducationRequirements: ExtractEducationRequirements(lower),
	}
}

// ExtractExperienceRequirement returns the first "N years" phrase that appears near a
// mention of experience on the same line, as in "5+ years of experience" or
// "Experience: 3 yrs". Tenure such as "in business for 30 years" is ignored.
func ExtractExperienceRequirement(text string) string {
	for _, loc := range yearsPattern.FindAllStringIndex(text, -1) {
		before := text[max(0, loc[0]-experienceWindow):loc[0]]
		if i := strings.LastIndexByte(before, '\n'); i >= 0 {
			before = before[i+1:]
		}
		after := text[loc[1]:min(len(text), loc[1]+experienceWindow)]
		if i := strings.IndexByte(after, '\n'); i >= 0 {
			after = after[:i]
		}
		if experienceContext.MatchString(before) || experienceContext.MatchString(after) {
			return text[loc[0]:loc[1]]
		}
	}
	return ""
}

// ExtractSkills finds the first marker present in text (markers are tried in order)
// and splits the following section into at most 10 skill tokens of 3 to 49 characters.
// Text containing none of the markers yields no skills.
func ExtractSkills(text string, markers []string) []string {
	start := -1
	for _, marker := range markers {
		re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(marker))
		if loc := re.FindStringIndex(text); loc != nil {
			start = loc[1]
			break
		}
	}
	if start < 0 {
		return []string{}
	}
	section := runePrefix(text[start:], skillSectionLen)

	skills := make([]string, 0, maxSkills)
	seen := make(map[string]bool)
	for _, segment := range skillSeparator.Split(section, -1) {
		segment = strings.TrimSpace(segment)
		if strings.HasSuffix(segment, ":") {
			// headings such as "skills:" or "Preferred:"
			continue
		}
		skill := strings.Trim(segment, skillTrimChars)
		skill = strings.TrimSpace(strings.TrimRight(skill, ". "))
		n := utf8.RuneCountInString(skill)
		if n < minSkillLen || n > maxSkillLen {
			continue
		}
		key := strings.ToLower(skill)
		if seen[key] {
			continue
		}
		seen[key] = true
		skills = append(skills, skill)
		if len(skills) == maxSkills {
			break
		}
	}
	return skills
}

// ExtractResponsibilities returns up to 15 bullet-marked lines, each cut to 50 characters.
func ExtractResponsibilities(text string) []string {
	matches := bulletLinePattern.FindAllStringSubmatch(text, maxResponsibilities)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, runePrefix(strings.TrimSpace(m[1]), maxResponsibilityLen))
	}
	return out
}

// DetectSeniority returns the first seniority level mentioned in lower-cased text.
func DetectSeniority(lower string) SeniorityLevel {
	for _, rule := range seniorityRules {
		if rule.pattern.MatchString(lower) {
			return rule.level
		}
	}
	return SeniorityNone
}

// DetectDomain returns the first industry from the domain list found in lower-cased text.
func DetectDomain(lower string) string {
	for _, d := range domains {
		if strings.Contains(lower, d) {
			return d
		}
	}
	return ""
}

// ExtractEducationRequirements returns the degree mentions in lower-cased text as
// "<degree>" or "<degree> in <field>", with abbreviations expanded and duplicates removed.
func ExtractEducationRequirements(lower string) []string {
	normalized := degreeNormalizer.Replace(lower)
	reqs := []string{}
	seen := make(map[string]bool)
	for _, m := range educationPattern.FindAllStringSubmatch(normalized, -1) {
		req := canonicalDegrees[m[1]]
		if field := trimField(m[2]); field != "" {
			req += " in " + field
		}
		if !seen[req] {
			seen[req] = true
			reqs = append(reqs, req)
		}
	}
	return reqs
}

// trimField cuts a captured field of study at the first conjunction.
func trimField(field string) string {
	words := strings.Fields(field)
	for i, w := range words {
		switch w {
		case "or", "and", "with", "from", "a", "an", "the":
			return strings.Join(words[:i], " ")
		}
	}
	return strings.Join(words, " ")
}

// runePrefix returns at most n runes of s.
func runePrefix(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
