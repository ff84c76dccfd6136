package locator

import (
	"strings"
	"testing"

	"github.com/jonathan/jobfit/internal/dom"
	"github.com/stretchr/testify/assert"
)

func TestIsVisible(t *testing.T) {
	tests := []struct {
		name string
		el   dom.Element
		want bool
	}{
		{"nil element", nil, false},
		{"rendered block", &fakeElement{box: visibleBox(0, 800)}, true},
		{"zero size", &fakeElement{box: dom.Box{Style: dom.Style{Display: "block", Opacity: "1"}}}, false},
		{"display none", &fakeElement{box: dom.Box{Rect: dom.Rect{Width: 10, Height: 10}, Style: dom.Style{Display: "none"}}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsVisible(tt.el))
		})
	}
}

func TestHasJobDescriptionMarker(t *testing.T) {
	assert.True(t, HasJobDescriptionMarker(&fakeElement{class: "posting job-description"}))
	assert.True(t, HasJobDescriptionMarker(&fakeElement{id: "jobDescriptionText"}))
	assert.False(t, HasJobDescriptionMarker(&fakeElement{class: "job-details"}))
	assert.False(t, HasJobDescriptionMarker(nil))
}

func TestIsInNavFooter(t *testing.T) {
	body := &fakeElement{tag: "body"}
	nav := &fakeElement{tag: "nav", parent: body}
	footer := &fakeElement{tag: "div", class: "site-footer", parent: body}
	sidebar := &fakeElement{tag: "div", id: "left-sidebar", parent: body}
	main := &fakeElement{tag: "main", parent: body}

	tests := []struct {
		name string
		el   *fakeElement
		want bool
	}{
		{"plain content", &fakeElement{tag: "div", parent: main}, false},
		{"inside nav tag", &fakeElement{tag: "div", parent: nav}, true},
		{"inside footer class", &fakeElement{tag: "section", parent: footer}, true},
		{"inside sidebar id", &fakeElement{tag: "div", parent: sidebar}, true},
		{"element itself is footer", &fakeElement{tag: "footer", parent: body}, true},
		{"marker overrides nav ancestor", &fakeElement{tag: "div", class: "job-description", parent: nav}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsInNavFooter(tt.el))
		})
	}
}

func metadataLines(n int) string {
	labels := []string{"Location", "Team", "Type", "Level", "Salary", "Office", "Travel", "Shift", "Start", "Visa", "Remote"}
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteString(labels[i%len(labels)] + ": value " + string(rune('a'+i)) + "\n")
	}
	return b.String()
}

func TestIsNavigationNoise(t *testing.T) {
	plain := &fakeElement{tag: "div"}

	tests := []struct {
		name string
		text string
		el   dom.Element
		want bool
	}{
		{"skip to content", "Skip to main content\nHome\nAbout", plain, true},
		{"audience menu", "For individuals and companies", plain, true},
		{"leading login token", "Log in to continue", plain, true},
		{"job postings index", "Browse our current job postings below", plain, true},
		{"word starting with en", "Engineering at Acme is a small team", plain, false},
		{"prose", "We build tools for clinicians and their patients.", plain, false},
		{"nine metadata lines", metadataLines(9), plain, true},
		{"eight metadata lines", metadataLines(8), plain, false},
		{"explicit header exempts", "Skip to content\nJob Description\nWe are hiring.", plain, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNavigationNoise(tt.text, tt.el))
		})
	}
}

func TestIsNavigationNoise_MarkerOverride(t *testing.T) {
	noisy := "Skip to content\nIndividuals | Companies | Brokers\n" + metadataLines(11)

	for _, el := range []*fakeElement{
		{tag: "div", class: "job-description"},
		{tag: "div", id: "job-description-body"},
	} {
		assert.False(t, IsNavigationNoise(noisy, el))
	}
	assert.True(t, IsNavigationNoise(noisy, &fakeElement{tag: "div"}))
}

func TestPrefix(t *testing.T) {
	assert.Equal(t, "ab", prefix("abc", 2))
	assert.Equal(t, "abc", prefix("abc", 10))
	assert.Equal(t, "é•", prefix("é•x", 2))
}
