package matching

import (
	"regexp"
	"strings"
)

// Component weights; they sum to 1.0.
const (
	skillsWeight     = 0.35
	experienceWeight = 0.30
	roleWeight       = 0.15
	seniorityWeight  = 0.10
	educationWeight  = 0.05
	keywordsWeight   = 0.05
)

// Sentinel scores returned when a component has nothing to evaluate.
const (
	noRequiredSkillsScore    = 0.8
	noExperienceScore        = 0.4
	noExperienceMatchScore   = 0.3
	noRoleSignalScore        = 0.5
	noSeniorityScore         = 0.8
	noEducationRequiredScore = 0.95
	noResumeEducationScore   = 0.5
	noEducationMatchScore    = 0.6
	noKeywordsScore          = 0.8
)

const (
	requiredSkillWeight  = 0.7
	preferredSkillWeight = 0.3

	exactSkillScore   = 1.0
	partialSkillScore = 0.85
	synonymSkillScore = 0.75
	missingSkillFloor = 0.3

	domainMatchScore         = 0.3
	responsibilityMatchScore = 0.2
	technologiesScore        = 0.2
	experienceNormalizer     = 0.7
	responsibilityPrefixLen  = 10

	maxSkills            = 10
	skillSectionLen      = 1000
	minSkillLen          = 3
	maxSkillLen          = 49
	maxResponsibilities  = 15
	maxResponsibilityLen = 50
	maxMissingSkills     = 3
	recommendedSkills    = 2
	minKeywordLen        = 4
	minKeywordFrequency  = 2
)

// skillTrimChars are stripped from both ends of a skill token.
const skillTrimChars = " \t,;:-–!?\"'`"

// requiredMarkers and preferredMarkers open skill sections; the first marker found
// in list order wins.
var (
	requiredMarkers  = []string{"required", "must have", "essential", "must know"}
	preferredMarkers = []string{"preferred", "nice to have", "bonus", "plus"}
)

// skillSynonyms maps a job skill to résumé terms that imply it.
var skillSynonyms = map[string][]string{
	"javascript": {"js", "es6", "node", "nodejs"},
	"python":     {"py", "flask", "django"},
	"react":      {"reactjs", "next", "nextjs"},
	"sql":        {"mysql", "postgres", "postgresql"},
	"kubernetes": {"k8s", "docker", "container"},
	"aws":        {"amazon", "ec2", "s3"},
	"gcp":        {"google cloud"},
	"azure":      {"microsoft azure"},
	"cicd":       {"ci/cd", "continuous integration"},
	"devops":     {"infrastructure", "deployment"},
}

// roleKeywords are compared between the job title and résumé titles.
var roleKeywords = []string{
	"engineer", "developer", "analyst", "manager", "architect", "lead",
	"senior", "junior", "principal", "staff", "backend", "frontend",
	"fullstack", "devops", "data", "scientist",
}

// domains are industries recognized in job text, in priority order.
var domains = []string{
	"finance", "healthcare", "ecommerce", "saas", "fintech",
	"edtech", "logistics", "retail", "travel",
}

// seniorityRules are checked in priority order.
var seniorityRules = []struct {
	level   SeniorityLevel
	pattern *regexp.Regexp
}{
	{SeniorityStaff, regexp.MustCompile(`\b(?:staff|principal)\b`)},
	{SenioritySenior, regexp.MustCompile(`\bsenior\b`)},
	{SeniorityMid, regexp.MustCompile(`\bmid\b`)},
	{SeniorityJunior, regexp.MustCompile(`\b(?:junior|entry)\b`)},
}

// seniorityYears are the default years implied by a seniority keyword.
var seniorityYears = []struct {
	keywords []string
	years    float64
}{
	{[]string{"senior", "staff"}, 5},
	{[]string{"mid"}, 3},
	{[]string{"junior", "entry"}, 0},
}

// experienceWindow is how far, in bytes on the same line, a years phrase may sit
// from a mention of experience.
const experienceWindow = 40

var (
	yearsPattern        = regexp.MustCompile(`(?i)(\d+)\s*\+?\s*(?:years?|yrs?)\b`)
	experienceContext   = regexp.MustCompile(`(?i)\b(?:experienced?|exp)\b`)
	bulletLinePattern   = regexp.MustCompile(`(?m)^[ \t]*[-•*][ \t]+(.+?)[ \t]*$`)
	skillSeparator      = regexp.MustCompile(`[\r\n•*]|\s-\s`)
	educationPattern    = regexp.MustCompile(`\b(bachelor|master|phd|bs|ms|ba|ma)(?:'?s)?\b(?:\s+(?:degree\s+)?in\s+([a-z&\-]+(?:\s+[a-z&\-]+){0,2}))?`)
	keywordTokenPattern = regexp.MustCompile(`\b[a-z]+(?:\s+[a-z]+)?\b`)
	degreeNormalizer    = strings.NewReplacer(".", "", "’", "'")
)

// canonicalDegrees maps every degree spelling the education pattern captures.
var canonicalDegrees = map[string]string{
	"bachelor": "bachelor",
	"bs":       "bachelor",
	"ba":       "bachelor",
	"master":   "master",
	"ms":       "master",
	"ma":       "master",
	"phd":      "phd",
}

// degreeRank orders degrees so a higher degree satisfies a lower requirement.
var degreeRank = map[string]int{
	"bachelor": 1,
	"master":   2,
	"phd":      3,
}

// Strength and recommendation thresholds.
const (
	strongSkillsThreshold     = 0.75
	strongExperienceThreshold = 0.75
	strongRoleThreshold       = 0.8
	strongSeniorityThreshold  = 0.85
	weakExperienceThreshold   = 0.5
	weakEducationThreshold    = 0.7
)

const (
	strengthSkills     = "Excellent skills match"
	strengthExperience = "Highly relevant experience"
	strengthRole       = "Perfect role alignment"
	strengthSeniority  = "Ideal seniority level"

	recommendExperience = "Emphasize relevant project experience"
	recommendEducation  = "Highlight relevant certifications"
)
