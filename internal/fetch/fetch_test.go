package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html><body><h1>Test</h1></body></html>"))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, server.URL, result.URL)
	assert.Contains(t, result.HTML, "<h1>Test</h1>")
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, "text/html", result.ContentType)
}

func TestURL_CustomHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "custom-agent", r.Header.Get("User-Agent"))
		assert.Equal(t, "en-US", r.Header.Get("Accept-Language"))
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	opts := DefaultOptions()
	opts.UserAgent = "custom-agent"
	opts.Headers = map[string]string{"Accept-Language": "en-US"}

	_, err := URL(context.Background(), server.URL, opts)
	require.NoError(t, err)
}

func TestURL_InvalidURL(t *testing.T) {
	for _, raw := range []string{"not-a-valid-url", "ftp://example.com/file", "http://"} {
		t.Run(raw, func(t *testing.T) {
			_, err := URL(context.Background(), raw, nil)
			require.Error(t, err)

			var fetchErr *Error
			assert.ErrorAs(t, err, &fetchErr)
			assert.Contains(t, err.Error(), "invalid URL")
		})
	}
}

func TestURL_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.Error(t, err)
	assert.NotNil(t, result) // Result is returned even on error
	assert.Equal(t, http.StatusNotFound, result.StatusCode)

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "404")
}

func TestBodyText(t *testing.T) {
	html := `
	<html>
		<head><style>body { color: red; }</style></head>
		<body>
			<h1>Title</h1>
			<script>console.log("x")</script>
			<p>Body text.</p>
		</body>
	</html>`

	text, err := BodyText(html)
	require.NoError(t, err)
	assert.Equal(t, "Title\nBody text.", text)
}

func TestShouldUseBrowser(t *testing.T) {
	assert.True(t, ShouldUseBrowser(""))
	assert.True(t, ShouldUseBrowser("  short  "))
	assert.False(t, ShouldUseBrowser(strings.Repeat("a", MinContentLength)))
}

func TestMeasurementBoxes(t *testing.T) {
	m := &measurement{
		Width:  1280,
		Height: 720,
		Boxes: []measuredBox{
			{Top: 10, Width: 100, Height: 50, Display: "block", Visibility: "visible", Opacity: "1"},
			{Display: "none", Visibility: "visible", Opacity: "1"},
		},
	}

	boxes := m.boxes()
	require.Len(t, boxes, 2)
	assert.True(t, boxes[0].Visible())
	assert.Equal(t, 10.0, boxes[0].Rect.Top)
	assert.False(t, boxes[1].Visible())
}

func TestSnapshotDocument(t *testing.T) {
	snap := &Snapshot{
		HTML: `<html><body><div data-jobfit-idx="2" id="d">hi</div></body></html>`,
	}
	snap.Viewport.Width, snap.Viewport.Height = 800, 600
	snap.Boxes = (&measurement{Boxes: []measuredBox{{}, {}, {Top: 5, Width: 10, Height: 10, Display: "block", Opacity: "1"}}}).boxes()

	doc, err := snap.Document()
	require.NoError(t, err)
	els := doc.QueryAll("#d")
	require.Len(t, els, 1)
	assert.Equal(t, 5.0, els[0].Box().Rect.Top)
	assert.Equal(t, 800.0, doc.Viewport().Width)
}
