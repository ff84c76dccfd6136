package locator

import "github.com/jonathan/jobfit/internal/dom"

type fakeElement struct {
	text   string
	tag    string
	class  string
	id     string
	box    dom.Box
	parent *fakeElement
	prev   *fakeElement
}

func (e *fakeElement) Text() string      { return e.text }
func (e *fakeElement) TagName() string   { return e.tag }
func (e *fakeElement) ClassName() string { return e.class }
func (e *fakeElement) ID() string        { return e.id }
func (e *fakeElement) Box() dom.Box      { return e.box }

func (e *fakeElement) Attr(string) (string, bool) { return "", false }

func (e *fakeElement) Parent() dom.Element {
	if e.parent == nil {
		return nil
	}
	return e.parent
}

func (e *fakeElement) PrevSibling() dom.Element {
	if e.prev == nil {
		return nil
	}
	return e.prev
}

type fakeDocument struct {
	title    string
	ogTitle  string
	viewport dom.Viewport
	elements map[string][]dom.Element
}

func (d *fakeDocument) QueryAll(selector string) []dom.Element { return d.elements[selector] }
func (d *fakeDocument) Title() string                          { return d.title }
func (d *fakeDocument) Viewport() dom.Viewport                 { return d.viewport }

func (d *fakeDocument) MetaProperty(name string) string {
	if name == "og:title" {
		return d.ogTitle
	}
	return ""
}

func visibleBox(top, width float64) dom.Box {
	return dom.Box{
		Rect:  dom.Rect{Top: top, Width: width, Height: 400},
		Style: dom.Style{Display: "block", Visibility: "visible", Opacity: "1"},
	}
}
