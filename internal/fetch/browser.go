package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/jonathan/jobfit/internal/dom"
	"github.com/jonathan/jobfit/internal/dom/htmldom"
)

// MinContentLength is the minimum body text length to consider an HTTP fetch successful.
// If content is shorter, we should fall back to browser rendering.
const MinContentLength = 500

// DefaultBrowserTimeout bounds a whole browser snapshot.
const DefaultBrowserTimeout = 30 * time.Second

// ShouldUseBrowser returns true if the extracted text is too short,
// indicating the page is likely a JavaScript-rendered SPA.
func ShouldUseBrowser(extractedText string) bool {
	return len(strings.TrimSpace(extractedText)) < MinContentLength
}

// BrowserOptions configures a headless browser snapshot.
type BrowserOptions struct {
	Timeout  time.Duration
	Viewport dom.Viewport
	// Settle is how long to wait after the body is ready for scripts to render content.
	Settle time.Duration
}

// Snapshot is a rendered page: its HTML stamped with htmldom.IndexAttr plus the
// measured box of every element, keyed by that index.
type Snapshot struct {
	URL      string
	HTML     string
	Viewport dom.Viewport
	Boxes    map[int]dom.Box
}

// Document parses the snapshot into a dom.Document carrying the measured geometry.
func (s *Snapshot) Document() (*htmldom.Document, error) {
	return htmldom.Parse(s.HTML,
		htmldom.WithViewport(s.Viewport),
		htmldom.WithMeasuredBoxes(s.Boxes),
	)
}

// measureScript stamps every element with its document-order index and returns
// its page-relative bounding box and computed style.
const measureScript = `(() => {
	const boxes = [];
	document.querySelectorAll('*').forEach((el, i) => {
		el.setAttribute('` + htmldom.IndexAttr + `', String(i));
		const r = el.getBoundingClientRect();
		const s = window.getComputedStyle(el);
		boxes.push({
			top: r.top + window.scrollY,
			left: r.left + window.scrollX,
			width: r.width,
			height: r.height,
			display: s.display,
			visibility: s.visibility,
			opacity: s.opacity
		});
	});
	return { width: window.innerWidth, height: window.innerHeight, boxes };
})()`

type measurement struct {
	Width  float64       `json:"width"`
	Height float64       `json:"height"`
	Boxes  []measuredBox `json:"boxes"`
}

type measuredBox struct {
	Top        float64 `json:"top"`
	Left       float64 `json:"left"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Display    string  `json:"display"`
	Visibility string  `json:"visibility"`
	Opacity    string  `json:"opacity"`
}

// boxes converts the raw measurement into dom boxes keyed by element index.
func (m *measurement) boxes() map[int]dom.Box {
	out := make(map[int]dom.Box, len(m.Boxes))
	for i, b := range m.Boxes {
		out[i] = dom.Box{
			Rect:  dom.Rect{Top: b.Top, Left: b.Left, Width: b.Width, Height: b.Height},
			Style: dom.Style{Display: b.Display, Visibility: b.Visibility, Opacity: b.Opacity},
		}
	}
	return out
}

// TakeSnapshot renders a page in a headless browser, measures every element and
// returns the stamped HTML. Requires Chrome/Chromium to be installed on the system.
func TakeSnapshot(ctx context.Context, url string, opts *BrowserOptions) (*Snapshot, error) {
	if err := ValidateURL(url); err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &BrowserOptions{}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultBrowserTimeout
	}
	vp := opts.Viewport
	if vp.Width <= 0 || vp.Height <= 0 {
		vp = dom.DefaultViewport
	}
	settle := opts.Settle
	if settle <= 0 {
		settle = 3 * time.Second
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.WindowSize(int(vp.Width), int(vp.Height)),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var m measurement
	var html string

	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(settle),
		chromedp.Evaluate(measureScript, &m),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return nil, fmt.Errorf("browser rendering failed: %w", err)
	}

	snap := &Snapshot{
		URL:      url,
		HTML:     html,
		Viewport: vp,
		Boxes:    m.boxes(),
	}
	if m.Width > 0 && m.Height > 0 {
		snap.Viewport = dom.Viewport{Width: m.Width, Height: m.Height}
	}
	return snap, nil
}
