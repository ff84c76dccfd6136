// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/jobfit/internal/formfields"
	"github.com/jonathan/jobfit/internal/locator"
	"github.com/jonathan/jobfit/internal/matching"
	"github.com/jonathan/jobfit/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// maxCandidatesToShow matches the number of candidates logged by the locator
	maxCandidatesToShow = 3
)

// signalOrder fixes the display order of a candidate's signal breakdown.
var signalOrder = []string{
	locator.SignalHeaderProximity,
	locator.SignalStructure,
	locator.SignalLinguistics,
	locator.SignalLayout,
	locator.SignalPageMetadata,
}

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// shorten truncates s to n runes, ending with "..." when cut.
func shorten(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// oneLine collapses whitespace so multi-line text previews fit a single box row.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, shorten(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintRecord outputs the selected job description with its confidence and reasons.
func (p *Printer) PrintRecord(rec *types.JobDescriptionRecord, source string) {
	if rec == nil {
		p.printBox("JOB DESCRIPTION", "No job description found")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Confidence: %.2f (%s)\n", rec.Confidence, rec.Level))
	if source != "" {
		sb.WriteString(fmt.Sprintf("Source:     %s\n", source))
	}
	sb.WriteString(fmt.Sprintf("Length:     %d chars\n", len([]rune(rec.Text))))

	if len(rec.Reasons) > 0 {
		sb.WriteString("\nReasons:\n")
		for _, r := range rec.Reasons {
			sb.WriteString(fmt.Sprintf("  • %s\n", r))
		}
	}

	sb.WriteString("\n")
	sb.WriteString(oneLine(rec.Text))

	p.printBox("JOB DESCRIPTION", sb.String())
}

// PrintCandidates outputs the top ranked candidates with their signal breakdown.
func (p *Printer) PrintCandidates(candidates []locator.Candidate) {
	if len(candidates) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total candidates: %d\n\n", len(candidates)))

	count := min(len(candidates), maxCandidatesToShow)
	for i := 0; i < count; i++ {
		c := candidates[i]
		sb.WriteString(fmt.Sprintf("#%d  %.3f  [%s]\n", i+1, c.Score.Total, c.Tier))
		for _, name := range signalOrder {
			sb.WriteString(fmt.Sprintf("    %-17s %.3f\n", name, c.Score.SignalBreakdown[name]))
		}
		sb.WriteString(fmt.Sprintf("    %s\n", oneLine(c.Text)))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(candidates) > maxCandidatesToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more candidates", len(candidates)-maxCandidatesToShow))
	}

	p.printBox("TOP CANDIDATES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintJobData outputs what the scorer extracted from a job description.
func (p *Printer) PrintJobData(job *matching.JobData) {
	if job == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Role:       %s\n", job.JobTitle))
	if job.SeniorityLevel != "" {
		sb.WriteString(fmt.Sprintf("Seniority:  %s\n", job.SeniorityLevel))
	}
	if job.ExperienceRequirement != "" {
		sb.WriteString(fmt.Sprintf("Experience: %s\n", job.ExperienceRequirement))
	}
	if job.Domain != "" {
		sb.WriteString(fmt.Sprintf("Domain:     %s\n", job.Domain))
	}
	sb.WriteString("\n")

	writeList(&sb, "Required Skills", job.RequiredSkills, maxItemsToShow)
	writeList(&sb, "Preferred Skills", job.PreferredSkills, 3)
	writeList(&sb, "Education", job.EducationRequirements, 3)

	p.printBox("PARSED JOB DESCRIPTION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFitScore outputs the composite score, component bars and gap analysis.
func (p *Printer) PrintFitScore(result *types.FitScoreResult) {
	if result == nil {
		p.printBox("FIT SCORE", "Not applicable")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Overall: %d/100\n\n", result.OverallScore))

	c := result.ScoreComponents
	rows := []struct {
		name  string
		value int
	}{
		{"Skills", c.SkillsMatch},
		{"Experience", c.ExperienceRelevance},
		{"Role", c.RoleAlignment},
		{"Seniority", c.SeniorityMatch},
		{"Education", c.EducationMatch},
		{"Keywords", c.KeywordCoverage},
	}
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%-11s %3d %s\n", r.name, r.value, bar(r.value)))
	}
	sb.WriteString("\n")

	writeList(&sb, "Missing Skills", result.MissingSkills, maxItemsToShow)
	writeList(&sb, "Strengths", result.Strengths, maxItemsToShow)
	writeList(&sb, "Recommendations", result.Recommendations, maxItemsToShow)

	p.printBox("FIT SCORE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFields outputs detected form fields and the values planned for them.
func (p *Printer) PrintFields(fields []formfields.Field, fills []formfields.Fill) {
	if len(fields) == 0 {
		p.printBox("FORM FIELDS", "No fields detected")
		return
	}

	planned := make(map[formfields.FieldType]string, len(fills))
	for _, f := range fills {
		planned[f.Field.Type] = f.Value
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Detected %d fields:\n\n", len(fields)))
	for _, f := range fields {
		label := f.Name
		if label == "" {
			label = f.ID
		}
		kind := string(f.Type)
		if kind == "" {
			kind = "question"
		}
		sb.WriteString(fmt.Sprintf("• %s (%s)", label, kind))
		if v, ok := planned[f.Type]; ok && f.Type != "" {
			sb.WriteString(fmt.Sprintf(" = %s", v))
		} else if f.Filled {
			sb.WriteString(" [filled]")
		}
		sb.WriteString("\n")
		if f.Question != "" {
			sb.WriteString(fmt.Sprintf("  %s\n", f.Question))
		}
	}

	p.printBox("FORM FIELDS", strings.TrimSuffix(sb.String(), "\n"))
}

func writeList(sb *strings.Builder, title string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(title + ":\n")
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
	sb.WriteString("\n")
}

// bar renders a 0-100 value as a 20-cell bar.
func bar(value int) string {
	filled := max(0, min(20, value/5))
	return strings.Repeat("█", filled) + strings.Repeat("░", 20-filled)
}
