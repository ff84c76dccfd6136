package htmldom

import (
	"testing"

	"github.com/jonathan/jobfit/internal/dom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `
<html>
	<head>
		<title>Senior Engineer - Careers</title>
		<meta property="og:title" content="Senior Engineer at Acme">
	</head>
	<body>
		<nav id="top-nav">Home About</nav>
		<h1>Senior Engineer</h1>
		<div id="main" class="job-description">
			<h2>About the role</h2>
			<p>First paragraph.</p>
			<p>Second   paragraph
			spans lines.</p>
			<ul>
				<li>Build services</li>
				<li>Own reliability</li>
			</ul>
			<script>var ignored = true;</script>
			<div style="display: none">Hidden text</div>
		</div>
	</body>
</html>`

func TestParse_Metadata(t *testing.T) {
	doc, err := Parse(samplePage)
	require.NoError(t, err)

	assert.Equal(t, "Senior Engineer - Careers", doc.Title())
	assert.Equal(t, "Senior Engineer at Acme", doc.MetaProperty("og:title"))
	assert.Equal(t, "", doc.MetaProperty("og:description"))
	assert.Equal(t, dom.DefaultViewport, doc.Viewport())
	assert.Equal(t, "Senior Engineer", dom.FirstText(doc, "h1"))
}

func TestElement_TextRendering(t *testing.T) {
	doc, err := Parse(samplePage)
	require.NoError(t, err)

	el := dom.First(doc, "#main")
	require.NotNil(t, el)

	text := el.Text()
	assert.Equal(t,
		"About the role\n\nFirst paragraph.\n\nSecond paragraph spans lines.\n\n• Build services\n• Own reliability",
		text)
	assert.NotContains(t, text, "ignored")
	assert.NotContains(t, text, "Hidden text")
}

func TestElement_Attributes(t *testing.T) {
	doc, err := Parse(samplePage)
	require.NoError(t, err)

	el := dom.First(doc, ".job-description")
	require.NotNil(t, el)
	assert.Equal(t, "div", el.TagName())
	assert.Equal(t, "main", el.ID())
	assert.Equal(t, "job-description", el.ClassName())

	_, ok := el.Attr("data-missing")
	assert.False(t, ok)
}

func TestElement_Traversal(t *testing.T) {
	doc, err := Parse(samplePage)
	require.NoError(t, err)

	el := dom.First(doc, "#main")
	require.NotNil(t, el)

	prev := el.PrevSibling()
	require.NotNil(t, prev)
	assert.Equal(t, "h1", prev.TagName())

	parent := el.Parent()
	require.NotNil(t, parent)
	assert.Equal(t, "body", parent.TagName())

	htmlEl := dom.First(doc, "html")
	require.NotNil(t, htmlEl)
	assert.Nil(t, htmlEl.Parent())

	navEl := dom.First(doc, "nav")
	require.NotNil(t, navEl)
	assert.Nil(t, navEl.PrevSibling())
}

func TestQueryAll_DocumentOrder(t *testing.T) {
	doc, err := Parse(`<body><p id="a">one</p><div><p id="b">two</p></div><p id="c">three</p></body>`)
	require.NoError(t, err)

	els := doc.QueryAll("p")
	require.Len(t, els, 3)
	assert.Equal(t, "a", els[0].ID())
	assert.Equal(t, "b", els[1].ID())
	assert.Equal(t, "c", els[2].ID())
}

func TestEstimatedLayout(t *testing.T) {
	doc, err := Parse(samplePage)
	require.NoError(t, err)

	main := dom.First(doc, "#main")
	require.NotNil(t, main)
	box := main.Box()
	assert.True(t, box.Visible())
	assert.Equal(t, dom.DefaultViewport.Width, box.Rect.Width)
	assert.Greater(t, box.Rect.Top, 0.0)

	hidden := dom.First(doc, `div[style]`)
	require.NotNil(t, hidden)
	assert.False(t, hidden.Box().Visible())
}

func TestEstimatedLayout_InlineStyles(t *testing.T) {
	doc, err := Parse(`<body>
		<div id="half" style="width: 50%">some text</div>
		<div id="ghost" style="visibility:hidden">ghost</div>
		<div id="clear" style="opacity: 0">clear</div>
		<div id="faded" style="opacity: 0.0">faded</div>
		<aside id="side">side</aside>
		<div hidden id="attr">attr</div>
	</body>`)
	require.NoError(t, err)

	half := dom.First(doc, "#half").Box()
	assert.InDelta(t, dom.DefaultViewport.Width/2, half.Rect.Width, 0.01)

	assert.False(t, dom.First(doc, "#ghost").Box().Visible())
	assert.False(t, dom.First(doc, "#clear").Box().Visible())
	assert.False(t, dom.First(doc, "#faded").Box().Visible())
	assert.False(t, dom.First(doc, "#attr").Box().Visible())
	assert.InDelta(t, dom.DefaultViewport.Width*0.3, dom.First(doc, "#side").Box().Rect.Width, 0.01)
}

func TestMeasuredBoxes_Override(t *testing.T) {
	measured := map[int]dom.Box{
		7: {Rect: dom.Rect{Top: 4000, Width: 300, Height: 500}, Style: dom.Style{Display: "block", Visibility: "visible", Opacity: "1"}},
	}
	doc, err := Parse(`<body><div id="m" data-jobfit-idx="7">measured</div><div id="e">estimated</div></body>`,
		WithViewport(dom.Viewport{Width: 1000, Height: 800}),
		WithMeasuredBoxes(measured))
	require.NoError(t, err)

	assert.Equal(t, dom.Viewport{Width: 1000, Height: 800}, doc.Viewport())
	assert.Equal(t, measured[7], dom.First(doc, "#m").Box())
	assert.Equal(t, 1000.0, dom.First(doc, "#e").Box().Rect.Width)
}

func TestRenderText_BreaksAndTables(t *testing.T) {
	doc, err := Parse(`<body><div id="x">line one<br>line two<table><tr><td>a</td><td>b</td></tr></table></div></body>`)
	require.NoError(t, err)

	assert.Equal(t, "line one\nline two\na\tb", dom.First(doc, "#x").Text())
}

func TestRenderText_ListItemsWrappingParagraphs(t *testing.T) {
	doc, err := Parse(`<body><div id="jd"><ul>
<li><p>Design APIs</p></li>
<li>
  <p>Build services</p>
</li>
<li><div><strong>Run</strong> ops</div></li>
</ul></div></body>`)
	require.NoError(t, err)

	assert.Equal(t, "• Design APIs\n\n• Build services\n\n• Run ops", dom.First(doc, "#jd").Text())
}

func TestRenderText_EmptyListItem(t *testing.T) {
	doc, err := Parse(`<body><ul id="l"><li></li><li>Next</li></ul></body>`)
	require.NoError(t, err)

	assert.Equal(t, "•\n• Next", dom.First(doc, "#l").Text())
}
