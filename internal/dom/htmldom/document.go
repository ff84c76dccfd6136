// Package htmldom implements dom.Document over a goquery-parsed HTML snapshot.
// Element geometry either comes from a browser measurement pass (see fetch.Snapshot)
// or is estimated from document order and text volume.
package htmldom

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/jobfit/internal/dom"
	"golang.org/x/net/html"
)

// IndexAttr is the attribute a browser snapshot stamps on every element so that
// measured boxes can be joined back onto the parsed HTML.
const IndexAttr = "data-jobfit-idx"

// Option configures document construction.
type Option func(*options)

type options struct {
	viewport dom.Viewport
	measured map[int]dom.Box
}

// WithViewport sets the viewport the page was (or is assumed to be) rendered in.
func WithViewport(v dom.Viewport) Option {
	return func(o *options) {
		if v.Width > 0 && v.Height > 0 {
			o.viewport = v
		}
	}
}

// WithMeasuredBoxes supplies browser-measured boxes keyed by IndexAttr value.
// Elements without a measurement fall back to the estimate.
func WithMeasuredBoxes(boxes map[int]dom.Box) Option {
	return func(o *options) {
		o.measured = boxes
	}
}

// Document is a read-only page snapshot. It is safe for concurrent readers.
type Document struct {
	doc      *goquery.Document
	viewport dom.Viewport
	boxes    map[*html.Node]dom.Box

	mu   sync.Mutex
	text map[*html.Node]string
}

// Parse parses an HTML string into a Document.
func Parse(htmlStr string, opts ...Option) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return New(doc, opts...), nil
}

// New wraps an already-parsed goquery document.
func New(doc *goquery.Document, opts ...Option) *Document {
	o := &options{viewport: dom.DefaultViewport}
	for _, opt := range opts {
		opt(o)
	}

	d := &Document{
		doc:      doc,
		viewport: o.viewport,
		text:     make(map[*html.Node]string),
	}

	var root *html.Node
	if len(doc.Nodes) > 0 {
		root = doc.Nodes[0]
	}
	d.boxes = estimateLayout(root, o.viewport)

	if len(o.measured) > 0 {
		applyMeasured(root, d.boxes, o.measured)
	}

	return d
}

// applyMeasured overrides estimated boxes with browser measurements.
func applyMeasured(root *html.Node, boxes map[*html.Node]dom.Box, measured map[int]dom.Box) {
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n == nil {
			return
		}
		if n.Type == html.ElementNode {
			if raw, ok := attr(n, IndexAttr); ok {
				if idx, err := strconv.Atoi(raw); err == nil {
					if box, found := measured[idx]; found {
						boxes[n] = box
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
}

// QueryAll implements dom.Document.
func (d *Document) QueryAll(selector string) []dom.Element {
	sel := d.doc.Find(selector)
	out := make([]dom.Element, 0, sel.Length())
	for _, n := range sel.Nodes {
		out = append(out, d.wrap(n))
	}
	return out
}

// Title implements dom.Document.
func (d *Document) Title() string {
	return strings.TrimSpace(d.doc.Find("title").First().Text())
}

// MetaProperty implements dom.Document.
func (d *Document) MetaProperty(name string) string {
	sel := d.doc.Find(fmt.Sprintf(`meta[property=%q]`, name)).First()
	return strings.TrimSpace(sel.AttrOr("content", ""))
}

// Viewport implements dom.Document.
func (d *Document) Viewport() dom.Viewport {
	return d.viewport
}

func (d *Document) wrap(n *html.Node) *Element {
	return &Element{doc: d, node: n}
}

func (d *Document) textOf(n *html.Node) string {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.text[n]; ok {
		return t
	}
	t := renderText(n, d.boxes)
	d.text[n] = t
	return t
}

// Element is a dom.Element backed by an html.Node.
type Element struct {
	doc  *Document
	node *html.Node
}

// Text returns the element's rendered text, approximating innerText.
func (e *Element) Text() string {
	return e.doc.textOf(e.node)
}

// TagName returns the lower-case tag name.
func (e *Element) TagName() string {
	return strings.ToLower(e.node.Data)
}

// ClassName returns the raw class attribute.
func (e *Element) ClassName() string {
	v, _ := attr(e.node, "class")
	return v
}

// ID returns the id attribute.
func (e *Element) ID() string {
	v, _ := attr(e.node, "id")
	return v
}

// Attr returns an attribute value.
func (e *Element) Attr(name string) (string, bool) {
	return attr(e.node, strings.ToLower(name))
}

// Box returns the measured or estimated box.
func (e *Element) Box() dom.Box {
	return e.doc.boxes[e.node]
}

// Parent returns the nearest element ancestor, or nil.
func (e *Element) Parent() dom.Element {
	for p := e.node.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode {
			return e.doc.wrap(p)
		}
	}
	return nil
}

// PrevSibling returns the previous element sibling, or nil.
func (e *Element) PrevSibling() dom.Element {
	for s := e.node.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == html.ElementNode {
			return e.doc.wrap(s)
		}
	}
	return nil
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
