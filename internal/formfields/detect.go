// Package formfields finds application-form fields on a page, classifies them
// against personal-info slots, recovers the question each free-text field asks and
// plans which profile values fill which fields.
package formfields

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/jonathan/jobfit/internal/dom"
)

// Field is a form field found on a page.
type Field struct {
	Element  dom.Element `json:"-"`
	Tag      string      `json:"tag"`
	Name     string      `json:"name,omitempty"`
	ID       string      `json:"id,omitempty"`
	Type     FieldType   `json:"type,omitempty"`
	Question string      `json:"question,omitempty"`
	Filled   bool        `json:"filled"`
}

// DetectFieldType classifies el by its name, id, aria-label, placeholder, automation
// attributes and class. It returns "" when nothing matches.
func DetectFieldType(el dom.Element) FieldType {
	if el == nil {
		return ""
	}

	var parts []string
	for _, name := range fieldAttributes {
		if v, ok := el.Attr(name); ok && strings.TrimSpace(v) != "" {
			parts = append(parts, v)
		}
	}
	haystack := strings.ToLower(strings.Join(parts, " "))
	if haystack == "" {
		return ""
	}
	tokens := tokenize(haystack)

	for _, fp := range fieldPatterns {
		for _, p := range fp.patterns {
			if len(p) < shortPatternLen {
				if tokens[p] {
					return fp.fieldType
				}
				continue
			}
			if strings.Contains(haystack, p) {
				return fp.fieldType
			}
		}
	}
	return ""
}

func tokenize(s string) map[string]bool {
	tokens := make(map[string]bool)
	for _, t := range strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		tokens[t] = true
	}
	return tokens
}

// QuestionContext recovers the question a field asks from, in order: a label whose
// for attribute names the field, an enclosing label, aria-label or aria-labelledby,
// the placeholder, the preceding sibling's text, then the parent's leading text.
// The result has whitespace collapsed and is cut to 500 characters.
func QuestionContext(doc dom.Document, el dom.Element) string {
	if el == nil {
		return ""
	}
	return clean(questionSource(doc, el))
}

func questionSource(doc dom.Document, el dom.Element) string {
	if id := el.ID(); id != "" && doc != nil {
		if label := dom.First(doc, fmt.Sprintf(`label[for=%q]`, id)); label != nil {
			if t := strings.TrimSpace(label.Text()); t != "" {
				return t
			}
		}
	}

	for p := el.Parent(); p != nil; p = p.Parent() {
		if p.TagName() == "label" {
			if t := strings.TrimSpace(p.Text()); t != "" {
				return t
			}
			break
		}
	}

	if v, ok := el.Attr("aria-label"); ok && strings.TrimSpace(v) != "" {
		return v
	}
	if v, ok := el.Attr("aria-labelledby"); ok && strings.TrimSpace(v) != "" {
		return labelledBy(doc, v)
	}
	if v, ok := el.Attr("placeholder"); ok && strings.TrimSpace(v) != "" {
		return v
	}

	if prev := el.PrevSibling(); prev != nil {
		if t := strings.TrimSpace(prev.Text()); t != "" {
			return t
		}
	}
	if parent := el.Parent(); parent != nil {
		for _, line := range strings.Split(parent.Text(), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				return line
			}
		}
	}
	return ""
}

// labelledBy resolves space-separated element ids to their text, falling back to
// the raw attribute when none resolve.
func labelledBy(doc dom.Document, ids string) string {
	if doc == nil {
		return ids
	}
	var parts []string
	for _, id := range strings.Fields(ids) {
		if t := dom.FirstText(doc, fmt.Sprintf(`[id=%q]`, id)); t != "" {
			parts = append(parts, t)
		}
	}
	if len(parts) == 0 {
		return ids
	}
	return strings.Join(parts, " ")
}

func clean(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if len([]rune(s)) > maxQuestionLen {
		s = string([]rune(s)[:maxQuestionLen])
	}
	return s
}

// IsFilled reports whether a field already holds a value.
func IsFilled(el dom.Element) bool {
	if el == nil {
		return false
	}
	if el.TagName() == "input" {
		v, _ := el.Attr("value")
		return strings.TrimSpace(v) != ""
	}
	return strings.TrimSpace(el.Text()) != ""
}

func newField(doc dom.Document, el dom.Element) Field {
	name, _ := el.Attr("name")
	return Field{
		Element:  el,
		Tag:      el.TagName(),
		Name:     name,
		ID:       el.ID(),
		Type:     DetectFieldType(el),
		Question: QuestionContext(doc, el),
		Filled:   IsFilled(el),
	}
}

// Scan returns the visible text-like inputs of doc that can hold personal info,
// in document order.
func Scan(doc dom.Document) []Field {
	if doc == nil {
		return nil
	}
	var fields []Field
	for _, el := range doc.QueryAll(personalFieldSelector) {
		if !el.Box().Visible() {
			continue
		}
		fields = append(fields, newField(doc, el))
	}
	return fields
}

// Questions returns the free-text fields of doc whose question context is long enough
// to be worth answering.
func Questions(doc dom.Document) []Field {
	if doc == nil {
		return nil
	}
	var fields []Field
	for _, el := range doc.QueryAll(questionFieldSelector) {
		if !el.Box().Visible() {
			continue
		}
		f := newField(doc, el)
		if len([]rune(f.Question)) < minQuestionLen {
			continue
		}
		fields = append(fields, f)
	}
	return fields
}
