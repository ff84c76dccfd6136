package htmldom

import (
	"strings"
	"unicode"

	"github.com/jonathan/jobfit/internal/dom"
	"golang.org/x/net/html"
)

// skipTags never contribute rendered text or geometry.
var skipTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"head":     true,
	"title":    true,
	"meta":     true,
	"link":     true,
}

// blockTags render on their own line.
var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"dd": true, "details": true, "dialog": true, "div": true, "dl": true,
	"dt": true, "fieldset": true, "figcaption": true, "figure": true,
	"footer": true, "form": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "header": true, "hr": true,
	"li": true, "main": true, "nav": true, "ol": true, "p": true,
	"pre": true, "section": true, "summary": true, "table": true,
	"tr": true, "ul": true, "body": true, "html": true, "caption": true,
}

// lineBreaksFor returns how many required line breaks surround an element.
func lineBreaksFor(tag string) int {
	switch {
	case tag == "p":
		return 2
	case blockTags[tag]:
		return 1
	default:
		return 0
	}
}

// renderText flattens an element into text the way a browser's innerText does:
// whitespace collapsed, block elements on their own lines, paragraphs separated by
// a blank line. List items render with a leading bullet marker so list structure
// survives flattening.
func renderText(n *html.Node, boxes map[*html.Node]dom.Box) string {
	r := &textRenderer{boxes: boxes}
	r.walk(n)
	return strings.TrimSpace(r.sb.String())
}

type textRenderer struct {
	boxes        map[*html.Node]dom.Box
	sb           strings.Builder
	started      bool
	breaks       int
	pendingSpace bool
	pre          int
	// bulletOpen is set between a list marker and the item's first text, so a
	// leading block child stays on the marker's line.
	bulletOpen bool
}

func (r *textRenderer) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		r.write(n.Data)
	case html.ElementNode:
		tag := strings.ToLower(n.Data)
		if skipTags[tag] || strings.EqualFold(r.boxes[n].Style.Display, "none") {
			return
		}
		switch tag {
		case "br":
			r.newline()
			return
		case "td", "th":
			if n.PrevSibling != nil {
				r.tab()
			}
		}

		breaks := lineBreaksFor(tag)
		r.requireBreaks(breaks)
		if tag == "li" {
			r.write("•")
			r.pendingSpace = true
			r.bulletOpen = true
		}
		if tag == "pre" {
			r.pre++
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			r.walk(c)
		}
		if tag == "pre" {
			r.pre--
		}
		if tag == "li" {
			r.bulletOpen = false
		}
		r.requireBreaks(breaks)
	case html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			r.walk(c)
		}
	}
}

func (r *textRenderer) requireBreaks(n int) {
	if r.bulletOpen {
		return
	}
	if n > r.breaks {
		r.breaks = n
	}
	if n > 0 {
		r.pendingSpace = false
	}
}

func (r *textRenderer) newline() {
	if !r.started {
		return
	}
	r.flushBreaks()
	r.sb.WriteByte('\n')
	r.pendingSpace = false
}

func (r *textRenderer) tab() {
	if !r.started || r.breaks > 0 {
		return
	}
	r.sb.WriteByte('\t')
	r.pendingSpace = false
}

func (r *textRenderer) flushBreaks() {
	if r.breaks > 0 && r.started {
		r.sb.WriteString(strings.Repeat("\n", r.breaks))
	}
	r.breaks = 0
}

func (r *textRenderer) write(s string) {
	if r.pre > 0 {
		if s == "" {
			return
		}
		r.flushBreaks()
		r.sb.WriteString(s)
		r.started = true
		r.bulletOpen = false
		return
	}

	words := strings.Fields(s)
	if len(words) == 0 {
		if s != "" && r.started && r.breaks == 0 {
			r.pendingSpace = true
		}
		return
	}

	leading := unicode.IsSpace(rune(s[0]))
	trailing := unicode.IsSpace(rune(s[len(s)-1]))

	if r.breaks > 0 {
		r.flushBreaks()
	} else if r.started && (r.pendingSpace || leading) {
		r.sb.WriteByte(' ')
	}

	r.sb.WriteString(strings.Join(words, " "))
	r.started = true
	r.pendingSpace = trailing
	r.bulletOpen = false
}
