package locator

import "regexp"

// Tier identifies which extraction pass produced a candidate.
type Tier string

const (
	// TierSelector candidates match a known job-description selector.
	TierSelector Tier = "selector"
	// TierContainer candidates are generic semantic containers.
	TierContainer Tier = "container"
	// TierFallback candidates are divs carrying job-posting keywords.
	TierFallback Tier = "fallback"
)

// Signal names used as keys of ScoreResult.SignalBreakdown.
const (
	SignalHeaderProximity = "header_proximity"
	SignalStructure       = "structure"
	SignalLinguistics     = "linguistics"
	SignalLayout          = "layout"
	SignalPageMetadata    = "page_metadata"
)

// tierSpec describes one extraction pass.
type tierSpec struct {
	tier            Tier
	selectors       []string
	minLen          int
	maxLen          int
	requireKeywords bool
}

// jobDescriptionSelectors are class/id/attribute markers used by job boards.
var jobDescriptionSelectors = []string{
	`[class*="job-description"]`,
	`[class*="jobDescription"]`,
	`[id*="job-description"]`,
	`[id*="jobDescription"]`,
	`[class*="job-details"]`,
	`[data-automation-id="jobPostingDescription"]`, // Workday
	`.job-description`,
	`.description__text`,              // LinkedIn
	`.show-more-less-html__markup`,    // LinkedIn
	`.posting-description`,            // Lever
	`.job__description`,               // Greenhouse
	`[data-testid="job-description"]`, // generic SPA boards
}

// containerSelectors are generic semantic containers.
var containerSelectors = []string{
	`section, article, [role="article"], [class*="prose"]`,
}

var tiers = []tierSpec{
	{tier: TierSelector, selectors: jobDescriptionSelectors, minLen: 1000, maxLen: 15000},
	{tier: TierContainer, selectors: containerSelectors, minLen: 1000, maxLen: 20000},
	{tier: TierFallback, selectors: []string{"div"}, minLen: 1500, maxLen: 20000, requireKeywords: true},
}

// jobDescriptionMarkers in an element's own class or id override the nav/footer and noise filters.
var jobDescriptionMarkers = []string{"job-description", "jobdescription"}

// navFooterMarkers in any ancestor's class or id reject a candidate.
var navFooterMarkers = []string{"nav", "footer", "sidebar", "aside"}

// postingKeywordPattern gates fallback-tier divs.
var postingKeywordPattern = regexp.MustCompile(`(?i)\b(?:job\s+description|what you['’]ll do|minimum qualifications|nice to have)\b|\b(?:description|responsibilities|qualifications|requirements):`)

// explicitHeaderPattern exempts text from the navigation-noise check.
var explicitHeaderPattern = regexp.MustCompile(`(?i)\bjob\s+description\b|\b(?:description|responsibilities|qualifications):|\bminimum qualifications\b`)

// navPatterns flag navigation and boilerplate blocks.
var navPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)skip.{0,10}content`),
	regexp.MustCompile(`(?i)individuals|companies|advisors|brokers`),
	regexp.MustCompile(`(?i)^(?:fr|en|log in|sign up|sign in|search|menu)\b`),
	regexp.MustCompile(`(?i)our current job postings`),
}

// metadataLinePattern matches "Label: value" lines typical of metadata dumps.
var metadataLinePattern = regexp.MustCompile(`(?i)^[a-z ]+:\s+[a-z0-9 ,.\-]+$`)

const (
	noiseWindow           = 800
	headerWindow          = 1000
	maxMetadataLines      = 8
	siblingHeaderLookback = 3
)

// jobHeaders are section headings typical of job descriptions.
var jobHeaders = []string{
	"job description",
	"responsibilities",
	"what you'll do",
	"requirements",
	"qualifications",
	"about the role",
	"about this position",
	"what you will",
	"essential duties",
	"role description",
	"position overview",
}

// strongPhrases are wording typical of job descriptions.
var strongPhrases = []string{
	"you will", "you'll", "responsibilities", "requirements", "qualifications",
	"we are looking", "we're looking", "we seek", "we need",
	"ideal candidate", "the right person",
	"in this role", "for this role", "about this role",
	"what you'll", "what you will", "what you bring",
	"key responsibilities", "main responsibilities",
	"must have", "must know", "essential", "required",
	"nice to have", "bonus", "preferred",
	"about you", "your background", "your experience",
}

// actionVerbs are imperative verbs that open responsibility bullets.
var actionVerbs = []string{
	"lead", "develop", "oversee", "manage", "coordinate", "ensure",
	"build", "create", "design", "implement", "establish", "maintain",
	"assist", "support", "collaborate", "partner", "contribute",
	"prepare", "analyze", "evaluate", "assess", "monitor", "track",
	"drive", "improve", "optimize", "enhance", "strengthen",
}

// actionVerbPatterns match each verb bounded by whitespace or line start.
var actionVerbPatterns = func() []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(actionVerbs))
	for _, v := range actionVerbs {
		out = append(out, regexp.MustCompile(`(?m)(?:^|\s)`+regexp.QuoteMeta(v)+`\s`))
	}
	return out
}()

// weakPhrases are site boilerplate that penalize a candidate.
var weakPhrases = []string{
	"privacy policy",
	"terms and conditions",
	"cookie settings",
	"contact us",
	"subscribe",
	"follow us",
	"copyright",
	"all rights reserved",
}

// pageKeywords in the document title or first h1 suggest a job page.
var pageKeywords = []string{"job", "career", "apply", "role", "position", "hiring"}

var (
	paragraphBreakPattern = regexp.MustCompile(`\n[ \t]*\n`)
	bulletLinePattern     = regexp.MustCompile(`(?m)^[ \t]*[-•*][ \t]`)
)

// Signal weights.
const (
	headerInternalScore = 0.20
	headerSiblingScore  = 0.05

	structureParagraphScore = 0.08
	structureBulletScore    = 0.12
	structureFlatPenalty    = 0.05
	structureMinParagraphs  = 3
	structureMinBullets     = 3

	strongPhraseScore = 0.03
	strongPhraseCap   = 0.22
	actionVerbScore   = 0.01
	actionVerbCap     = 0.03
	actionVerbReason  = 5
	weakPhrasePenalty = 0.02
	weakPhraseCap     = 0.10

	layoutNearTopScore   = 0.08
	layoutMidPageScore   = 0.04
	layoutWideScore      = 0.07
	layoutMediumScore    = 0.04
	layoutWideRatio      = 0.6
	layoutMediumRatio    = 0.4
	layoutNearTopScreens = 2
	layoutMidPageScreens = 4

	metadataTitleScore = 0.10
	metadataH1Score    = 0.05
)
