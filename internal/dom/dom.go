// Package dom defines the read-only view of a rendered page that the job-description
// locator and form-field detector work against. Implementations snapshot a page once;
// nothing in this module mutates a document.
package dom

import (
	"strconv"
	"strings"
)

// DefaultViewport is used when a document was not rendered by a real browser.
var DefaultViewport = Viewport{Width: 1366, Height: 768}

// Viewport is the size of the browser window the page was rendered in
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect is an element's bounding box relative to the top of the page
type Rect struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Style holds the computed style properties that decide visibility
type Style struct {
	Display    string `json:"display"`
	Visibility string `json:"visibility"`
	Opacity    string `json:"opacity"`
}

// Box is an element's geometry plus computed style
type Box struct {
	Rect  Rect  `json:"rect"`
	Style Style `json:"style"`
}

// Visible reports whether the box is rendered: non-zero size, not display:none,
// not visibility:hidden and not fully transparent.
func (b Box) Visible() bool {
	if b.Rect.Width <= 0 || b.Rect.Height <= 0 {
		return false
	}
	if strings.EqualFold(b.Style.Display, "none") || strings.EqualFold(b.Style.Visibility, "hidden") {
		return false
	}
	return !transparent(b.Style.Opacity)
}

// transparent reports whether a CSS opacity value is zero. Numbers and
// percentages are accepted; anything unparseable counts as opaque.
func transparent(opacity string) bool {
	v := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(opacity), "!important"))
	if v == "" {
		return false
	}
	v, percent := strings.CutSuffix(v, "%")
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return false
	}
	if percent {
		f /= 100
	}
	return f <= 0
}

// Element is a handle to a single element of a document snapshot.
// Parent and PrevSibling return nil at the edges of the tree.
type Element interface {
	Text() string
	TagName() string
	ClassName() string
	ID() string
	Attr(name string) (string, bool)
	Box() Box
	Parent() Element
	PrevSibling() Element
}

// Document is a queryable page snapshot.
type Document interface {
	// QueryAll returns the elements matching a CSS selector in document order.
	QueryAll(selector string) []Element
	Title() string
	// MetaProperty returns the content of <meta property="name">.
	MetaProperty(name string) string
	Viewport() Viewport
}

// First returns the first element matching selector, or nil.
func First(doc Document, selector string) Element {
	els := doc.QueryAll(selector)
	if len(els) == 0 {
		return nil
	}
	return els[0]
}

// FirstText returns the trimmed text of the first element matching selector.
func FirstText(doc Document, selector string) string {
	el := First(doc, selector)
	if el == nil {
		return ""
	}
	return strings.TrimSpace(el.Text())
}
