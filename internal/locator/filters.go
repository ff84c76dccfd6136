package locator

import (
	"strings"

	"github.com/jonathan/jobfit/internal/dom"
)

// IsVisible reports whether el has a rendered, non-transparent box.
func IsVisible(el dom.Element) bool {
	if el == nil {
		return false
	}
	return el.Box().Visible()
}

// HasJobDescriptionMarker reports whether el's own class or id names it a job description.
func HasJobDescriptionMarker(el dom.Element) bool {
	if el == nil {
		return false
	}
	return containsAny(strings.ToLower(el.ClassName()+" "+el.ID()), jobDescriptionMarkers)
}

// IsInNavFooter reports whether el or any of its ancestors is navigation, footer or
// sidebar chrome. An explicit job-description marker on el itself always wins.
func IsInNavFooter(el dom.Element) bool {
	if el == nil || HasJobDescriptionMarker(el) {
		return false
	}
	for cur := el; cur != nil; cur = cur.Parent() {
		switch cur.TagName() {
		case "nav", "footer":
			return true
		}
		if containsAny(strings.ToLower(cur.ClassName()+" "+cur.ID()), navFooterMarkers) {
			return true
		}
	}
	return false
}

// IsNavigationNoise reports whether text looks like navigation or a metadata dump
// rather than prose. Elements carrying a job-description marker are never noise,
// and neither is text whose opening contains an explicit job-description header.
func IsNavigationNoise(text string, el dom.Element) bool {
	if HasJobDescriptionMarker(el) {
		return false
	}
	if explicitHeaderPattern.MatchString(prefix(text, headerWindow)) {
		return false
	}

	head := prefix(text, noiseWindow)
	for _, p := range navPatterns {
		if p.MatchString(head) {
			return true
		}
	}

	metadataLines := 0
	for _, line := range strings.Split(head, "\n") {
		if metadataLinePattern.MatchString(strings.TrimSpace(line)) {
			metadataLines++
		}
	}
	return metadataLines > maxMetadataLines
}

// prefix returns at most n runes of s.
func prefix(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
