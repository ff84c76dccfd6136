package matching

import (
	"math"
	"strconv"
	"strings"

	"github.com/jonathan/jobfit/internal/types"
)

// SkillMatchScore compares one résumé skill with one job skill: 1.0 for a
// case-insensitive exact match, 0.85 when either contains the other, 0.75 when the
// résumé skill contains a synonym of the job skill, otherwise 0.
func SkillMatchScore(resumeSkill, jobSkill string) float64 {
	r := strings.ToLower(strings.TrimSpace(resumeSkill))
	j := strings.ToLower(strings.TrimSpace(jobSkill))
	if r == "" || j == "" {
		return 0
	}

	if r == j {
		return exactSkillScore
	}
	if strings.Contains(r, j) || strings.Contains(j, r) {
		return partialSkillScore
	}
	for _, syn := range skillSynonyms[j] {
		if strings.Contains(r, syn) {
			return synonymSkillScore
		}
	}
	return 0
}

// bestSkillMatch returns the highest SkillMatchScore of jobSkill against resumeSkills.
func bestSkillMatch(resumeSkills []string, jobSkill string) float64 {
	best := 0.0
	for _, rs := range resumeSkills {
		best = math.Max(best, SkillMatchScore(rs, jobSkill))
	}
	return best
}

// SkillsMatch weights required skills at 0.7 and preferred skills at 0.3 and
// normalizes by the total weight. Jobs listing no required skills score 0.8.
func SkillsMatch(resumeSkills, required, preferred []string) float64 {
	if len(required) == 0 {
		return noRequiredSkillsScore
	}

	totalWeight := float64(len(required))*requiredSkillWeight + float64(len(preferred))*preferredSkillWeight
	score := 0.0
	for _, skill := range required {
		score += bestSkillMatch(resumeSkills, skill) * requiredSkillWeight
	}
	for _, skill := range preferred {
		score += bestSkillMatch(resumeSkills, skill) * preferredSkillWeight
	}
	return math.Min(score/totalWeight, 1.0)
}

// ExperienceRelevance credits each experience for mentioning the job's domain,
// for echoing a responsibility's opening and for listing technologies.
func ExperienceRelevance(experiences []types.Experience, responsibilities []string, domain string) float64 {
	if len(experiences) == 0 {
		return noExperienceScore
	}

	domain = strings.ToLower(domain)
	score := 0.0
	matches := 0
	for _, exp := range experiences {
		description := strings.ToLower(exp.Description)

		if domain != "" && strings.Contains(description, domain) {
			score += domainMatchScore
			matches++
		}

		for _, resp := range responsibilities {
			head := strings.ToLower(runePrefix(resp, responsibilityPrefixLen))
			if head != "" && strings.Contains(description, head) {
				score += responsibilityMatchScore
				matches++
			}
		}

		if len(exp.Technologies) > 0 {
			score += technologiesScore
		}
	}

	// Technologies alone are not evidence of relevance
	if matches == 0 {
		return noExperienceMatchScore
	}
	return math.Min(score/(float64(len(experiences))*experienceNormalizer), 1.0)
}

// RoleKeywords returns the role keywords contained in title.
func RoleKeywords(title string) []string {
	lower := strings.ToLower(title)
	var out []string
	for _, k := range roleKeywords {
		if strings.Contains(lower, k) {
			out = append(out, k)
		}
	}
	return out
}

// RoleAlignment is the share of résumé titles that have a role keyword in common with
// the job title. Missing titles and titles with nothing in common score 0.5.
func RoleAlignment(resumeTitles []string, jobTitle string) float64 {
	if len(resumeTitles) == 0 || strings.TrimSpace(jobTitle) == "" {
		return noRoleSignalScore
	}

	jobKeywords := make(map[string]bool)
	for _, k := range RoleKeywords(jobTitle) {
		jobKeywords[k] = true
	}

	matches := 0
	for _, title := range resumeTitles {
		for _, k := range RoleKeywords(title) {
			if jobKeywords[k] {
				matches++
				break
			}
		}
	}

	if matches == 0 {
		return noRoleSignalScore
	}
	return math.Min(float64(matches)/float64(len(resumeTitles)), 1.0)
}

// RequiredYears derives the years of experience a requirement implies. An explicit
// "N years" overrides the seniority keyword default.
func RequiredYears(requirement string) float64 {
	lower := strings.ToLower(requirement)
	years := 0.0
	for _, rule := range seniorityYears {
		if containsAny(lower, rule.keywords) {
			years = rule.years
			break
		}
	}
	if m := yearsPattern.FindStringSubmatch(lower); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			years = float64(n)
		}
	}
	return years
}

// SeniorityMatch compares a candidate's years with a seniority requirement such as
// "senior" or "5+ years". The underqualified branch is unbounded below; callers clamp.
func SeniorityMatch(candidateYears float64, requirement string) float64 {
	if strings.TrimSpace(requirement) == "" {
		return noSeniorityScore
	}

	diff := candidateYears - RequiredYears(requirement)
	switch {
	case diff >= -1 && diff <= 10:
		return 1.0
	case diff < -1:
		return 0.5 - math.Abs(diff)*0.1
	default:
		// Overqualified
		return 0.95
	}
}

// EducationMatch is the share of required degrees the résumé satisfies. A higher
// degree satisfies a lower requirement.
func EducationMatch(education []types.Education, requirements []string) float64 {
	if len(requirements) == 0 {
		return noEducationRequiredScore
	}
	if len(education) == 0 {
		return noResumeEducationScore
	}

	var parts []string
	for _, edu := range education {
		parts = append(parts, edu.Field+" "+edu.Degree)
	}
	eduText := strings.ToLower(strings.Join(parts, " "))
	held := highestDegree(eduText)

	matches := 0
	for _, req := range requirements {
		degree, field, _ := strings.Cut(strings.ToLower(req), " in ")
		switch {
		case degreeRank[degree] > 0 && held >= degreeRank[degree]:
			matches++
		case field != "" && strings.Contains(eduText, field):
			matches++
		case strings.Contains(eduText, req):
			matches++
		}
	}

	if matches == 0 {
		return noEducationMatchScore
	}
	return math.Min(float64(matches)/float64(len(requirements)), 1.0)
}

// highestDegree returns the rank of the highest degree mentioned in lower-cased text.
func highestDegree(lower string) int {
	best := 0
	normalized := degreeNormalizer.Replace(lower)
	for _, m := range educationPattern.FindAllStringSubmatch(normalized, -1) {
		if r := degreeRank[canonicalDegrees[m[1]]]; r > best {
			best = r
		}
	}
	for _, word := range []string{"doctor", "phd"} {
		if strings.Contains(normalized, word) {
			best = max(best, degreeRank["phd"])
		}
	}
	return best
}

// ImportantKeywords returns the one- and two-word tokens longer than three
// characters that appear at least twice in text, in first-seen order.
func ImportantKeywords(text string) []string {
	counts := make(map[string]int)
	var order []string
	for _, tok := range keywordTokenPattern.FindAllString(strings.ToLower(text), -1) {
		tok = strings.Join(strings.Fields(tok), " ")
		if len(tok) < minKeywordLen {
			continue
		}
		if counts[tok] == 0 {
			order = append(order, tok)
		}
		counts[tok]++
	}

	var out []string
	for _, tok := range order {
		if counts[tok] >= minKeywordFrequency {
			out = append(out, tok)
		}
	}
	return out
}

// KeywordCoverage is the share of the job's important keywords present in resumeText.
func KeywordCoverage(resumeText, jobText string) float64 {
	keywords := ImportantKeywords(jobText)
	if len(keywords) == 0 {
		return noKeywordsScore
	}

	matches := 0
	for _, k := range keywords {
		if strings.Contains(resumeText, k) {
			matches++
		}
	}
	return float64(matches) / float64(len(keywords))
}

// MissingSkills returns the required skills no résumé skill matches above 0.3,
// at most three.
func MissingSkills(resumeSkills, required []string) []string {
	missing := []string{}
	for _, skill := range required {
		if bestSkillMatch(resumeSkills, skill) > missingSkillFloor {
			continue
		}
		missing = append(missing, skill)
		if len(missing) == maxMissingSkills {
			break
		}
	}
	return missing
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
