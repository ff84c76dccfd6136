package htmldom

import (
	"math"
	"strconv"
	"strings"

	"github.com/jonathan/jobfit/internal/dom"
	"golang.org/x/net/html"
)

// Estimation constants for pages that were not rendered by a browser.
const (
	estLineHeight = 20.0
	estCharWidth  = 8.0
)

// estimateLayout assigns every rendered element a box by flowing text top to bottom
// at a fixed line height. Hidden elements (inline display:none, the hidden attribute,
// hidden inputs, non-rendered tags) and their subtrees get a display:none box.
func estimateLayout(root *html.Node, vp dom.Viewport) map[*html.Node]dom.Box {
	est := &layoutEstimator{boxes: make(map[*html.Node]dom.Box)}
	if root != nil {
		est.visit(root, vp.Width, "visible", false)
	}
	return est.boxes
}

type layoutEstimator struct {
	y     float64
	boxes map[*html.Node]dom.Box
}

func (l *layoutEstimator) visit(n *html.Node, width float64, visibility string, hidden bool) {
	switch n.Type {
	case html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			l.visit(c, width, visibility, hidden)
		}
		return
	case html.TextNode:
		if !hidden {
			l.y += textHeight(n.Data, width)
		}
		return
	case html.ElementNode:
	default:
		return
	}

	tag := strings.ToLower(n.Data)
	style := inlineStyle(n)

	if skipTags[tag] || hasAttr(n, "hidden") || isHiddenInput(n) {
		style.Display = "none"
	}
	if style.Display == "" {
		if blockTags[tag] {
			style.Display = "block"
		} else {
			style.Display = "inline"
		}
	}
	if style.Visibility == "" {
		style.Visibility = visibility
	}
	if style.Opacity == "" {
		style.Opacity = "1"
	}

	if hidden || style.Display == "none" {
		if style.Display != "none" {
			style.Display = "none"
		}
		l.boxes[n] = dom.Box{Style: style}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			l.visit(c, width, style.Visibility, true)
		}
		return
	}

	w := elementWidth(n, tag, width)
	top := l.y
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		l.visit(c, w, style.Visibility, false)
	}
	height := l.y - top
	if height == 0 && isReplaced(tag) {
		height = estLineHeight
		l.y += height
	}

	l.boxes[n] = dom.Box{
		Rect:  dom.Rect{Top: top, Width: w, Height: height},
		Style: style,
	}
}

// textHeight estimates the rendered height of a text run at the given width.
func textHeight(text string, width float64) float64 {
	words := strings.Fields(text)
	if len(words) == 0 || width <= 0 {
		return 0
	}
	chars := len(strings.Join(words, " "))
	perLine := math.Max(1, math.Floor(width/estCharWidth))
	return math.Ceil(float64(chars)/perLine) * estLineHeight
}

func elementWidth(n *html.Node, tag string, parent float64) float64 {
	if raw := inlineProperty(n, "width"); raw != "" {
		if strings.HasSuffix(raw, "%") {
			if pct, err := strconv.ParseFloat(strings.TrimSuffix(raw, "%"), 64); err == nil {
				return parent * pct / 100
			}
		}
		if strings.HasSuffix(raw, "px") {
			if px, err := strconv.ParseFloat(strings.TrimSuffix(raw, "px"), 64); err == nil {
				return math.Min(px, parent)
			}
		}
	}
	class, _ := attr(n, "class")
	if tag == "aside" || strings.Contains(strings.ToLower(class), "sidebar") {
		return parent * 0.3
	}
	return parent
}

func isReplaced(tag string) bool {
	switch tag {
	case "input", "textarea", "select", "img", "button", "iframe", "video", "canvas":
		return true
	}
	return false
}

func isHiddenInput(n *html.Node) bool {
	if !strings.EqualFold(n.Data, "input") {
		return false
	}
	t, _ := attr(n, "type")
	return strings.EqualFold(t, "hidden")
}

func hasAttr(n *html.Node, key string) bool {
	_, ok := attr(n, key)
	return ok
}

// inlineStyle reads the visibility-relevant properties of a style attribute.
func inlineStyle(n *html.Node) dom.Style {
	return dom.Style{
		Display:    inlineProperty(n, "display"),
		Visibility: inlineProperty(n, "visibility"),
		Opacity:    inlineProperty(n, "opacity"),
	}
}

func inlineProperty(n *html.Node, prop string) string {
	raw, ok := attr(n, "style")
	if !ok {
		return ""
	}
	value := ""
	for _, decl := range strings.Split(raw, ";") {
		name, val, found := strings.Cut(decl, ":")
		if !found || !strings.EqualFold(strings.TrimSpace(name), prop) {
			continue
		}
		val = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(val), "!important"))
		value = strings.ToLower(val)
	}
	return value
}
