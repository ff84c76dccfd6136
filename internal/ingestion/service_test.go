package ingestion

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobfit/internal/db"
	"github.com/jonathan/jobfit/internal/fetch"
	"github.com/jonathan/jobfit/internal/types"
)

func jobPage() string {
	padding := strings.Repeat("<p>You will partner with product and design to ship reliable backend features for our customers.</p>\n", 12)
	return `<html><head><title>Senior Backend Engineer - Careers</title></head><body>
<nav class="top-nav"><a href="/">Home</a></nav>
<main>
<h1>Job opening: Senior Backend Engineer</h1>
<div class="job-description">
<p>Responsibilities: Build and maintain services. Requirements: 5+ years experience with Python.</p>
<ul><li>Design and build APIs</li><li>Maintain data pipelines</li><li>Collaborate with the platform team</li></ul>
` + padding + `
</div>
</main>
<footer class="site-footer"><p>Privacy policy</p></footer>
</body></html>`
}

const emptyPage = `<html><head><title>Company blog</title></head><body><p>Nothing to see here.</p></body></html>`

const spaShell = `<html><head><title>Loading</title></head><body><div id="root"></div><script>boot()</script></body></html>`

type memStore struct {
	mu      sync.Mutex
	rows    map[string]*db.JobDescription
	last    string
	scores  map[string]*types.FitScoreResult
	lastErr error
}

func newMemStore() *memStore {
	return &memStore{
		rows:   make(map[string]*db.JobDescription),
		scores: make(map[string]*types.FitScoreResult),
	}
}

func (m *memStore) UpsertJobDescription(_ context.Context, in *db.JobDescriptionInput) (*db.JobDescription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	jd := &db.JobDescription{
		URL:         in.URL,
		Host:        in.Host,
		Platform:    in.Platform,
		Text:        in.Record.Text,
		ContentHash: db.HashJobContent(in.Record.Text),
		Confidence:  in.Record.Confidence,
		Level:       in.Record.Level,
		Reasons:     in.Record.Reasons,
		UpdatedAt:   time.Now(),
	}
	m.rows[in.URL] = jd
	m.last = in.URL
	return jd, nil
}

func (m *memStore) GetLastJobDescription(context.Context) (*db.JobDescription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lastErr != nil {
		return nil, m.lastErr
	}
	if m.last == "" {
		return nil, nil
	}
	return m.rows[m.last], nil
}

func (m *memStore) GetJobDescriptionByURL(_ context.Context, url string) (*db.JobDescription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows[url], nil
}

func (m *memStore) DeleteJobDescription(_ context.Context, url string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[url]; !ok {
		return false, nil
	}
	delete(m.rows, url)
	if m.last == url {
		m.last = ""
	}
	return true, nil
}

func (m *memStore) SaveFitScore(_ context.Context, url string, score *types.FitScoreResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[url]; !ok {
		return errors.New("no job description")
	}
	m.scores[url] = score
	return nil
}

func serve(t *testing.T, pages map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(page))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFromURL_InvalidURL(t *testing.T) {
	svc := NewService(Options{})
	for _, u := range []string{"", "not-a-url", "example.com", "http://", "ftp://example.com/job"} {
		t.Run(u, func(t *testing.T) {
			_, err := svc.FromURL(context.Background(), u)
			assert.ErrorIs(t, err, ErrInvalidURL)
		})
	}
}

func TestFromURL_LocatesAndStores(t *testing.T) {
	srv := serve(t, map[string]string{"/jobs/1": jobPage()})
	store := newMemStore()
	svc := NewService(Options{Store: store})

	res, err := svc.FromURL(context.Background(), srv.URL+"/jobs/1")
	require.NoError(t, err)
	require.NotNil(t, res.Record)
	assert.Equal(t, SourceLocated, res.Source)
	assert.Equal(t, fetch.PlatformUnknown, res.Platform)
	assert.False(t, res.Rendered)
	assert.Contains(t, res.Record.Text, "Responsibilities: Build and maintain services.")
	assert.GreaterOrEqual(t, res.Record.Confidence, types.MediumConfidenceThreshold)
	assert.NotEmpty(t, res.Candidates)
	assert.NotNil(t, res.Document)

	saved := store.rows[srv.URL+"/jobs/1"]
	require.NotNil(t, saved)
	assert.Equal(t, res.Record.Text, saved.Text)
	assert.Equal(t, fetch.Host(srv.URL), saved.Host)
}

func TestFromURL_HTTPFailure(t *testing.T) {
	srv := serve(t, map[string]string{})
	svc := NewService(Options{})

	_, err := svc.FromURL(context.Background(), srv.URL+"/missing")
	assert.ErrorIs(t, err, ErrHTTPRequestFailed)
}

func TestFromURL_BrowserFallback(t *testing.T) {
	srv := serve(t, map[string]string{"/spa": spaShell})
	var calls int32
	svc := NewService(Options{
		UseBrowser: true,
		Snapshot: func(_ context.Context, url string, _ *fetch.BrowserOptions) (*fetch.Snapshot, error) {
			atomic.AddInt32(&calls, 1)
			return &fetch.Snapshot{URL: url, HTML: jobPage()}, nil
		},
	})

	res, err := svc.FromURL(context.Background(), srv.URL+"/spa")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.True(t, res.Rendered)
	assert.Equal(t, SourceLocated, res.Source)
}

func TestFromURL_BrowserNotUsedForFullPages(t *testing.T) {
	srv := serve(t, map[string]string{"/jobs/1": jobPage()})
	svc := NewService(Options{
		UseBrowser: true,
		Snapshot: func(context.Context, string, *fetch.BrowserOptions) (*fetch.Snapshot, error) {
			t.Fatal("browser should not be used")
			return nil, nil
		},
	})

	res, err := svc.FromURL(context.Background(), srv.URL+"/jobs/1")
	require.NoError(t, err)
	assert.False(t, res.Rendered)
}

func TestFromURL_BrowserFailureKeepsHTTPContent(t *testing.T) {
	srv := serve(t, map[string]string{"/spa": spaShell})
	svc := NewService(Options{
		UseBrowser: true,
		Snapshot: func(context.Context, string, *fetch.BrowserOptions) (*fetch.Snapshot, error) {
			return nil, errors.New("chrome not installed")
		},
	})

	res, err := svc.FromURL(context.Background(), srv.URL+"/spa")
	assert.ErrorIs(t, err, ErrNoJobDescription)
	require.NotNil(t, res)
	assert.Equal(t, SourceNone, res.Source)
	assert.False(t, res.Rendered)
}

func TestFromHTML_CarryOver(t *testing.T) {
	store := newMemStore()
	svc := NewService(Options{Store: store})
	ctx := context.Background()

	first, err := svc.FromHTML(ctx, "https://boards.greenhouse.io/acme/jobs/1", jobPage())
	require.NoError(t, err)
	require.Equal(t, SourceLocated, first.Source)
	assert.Equal(t, fetch.PlatformGreenhouse, first.Platform)

	res, err := svc.FromHTML(ctx, "https://boards.greenhouse.io/acme/jobs/1/apply", emptyPage)
	require.NoError(t, err)
	assert.Equal(t, SourceCarriedOver, res.Source)
	assert.Equal(t, "https://boards.greenhouse.io/acme/jobs/1", res.CarriedFrom)
	require.NotNil(t, res.Record)
	assert.Equal(t, first.Record.Text, res.Record.Text)
	assert.Equal(t, first.Record.Confidence, res.Record.Confidence)
}

func TestFromHTML_NothingFound(t *testing.T) {
	t.Run("without store", func(t *testing.T) {
		res, err := NewService(Options{}).FromHTML(context.Background(), "", emptyPage)
		assert.ErrorIs(t, err, ErrNoJobDescription)
		require.NotNil(t, res)
		assert.Equal(t, SourceNone, res.Source)
		assert.Nil(t, res.Record)
	})

	t.Run("empty store", func(t *testing.T) {
		res, err := NewService(Options{Store: newMemStore()}).FromHTML(context.Background(), "", emptyPage)
		assert.ErrorIs(t, err, ErrNoJobDescription)
		assert.Equal(t, SourceNone, res.Source)
	})

	t.Run("store failure", func(t *testing.T) {
		store := newMemStore()
		store.lastErr = errors.New("connection refused")
		res, err := NewService(Options{Store: store}).FromHTML(context.Background(), "", emptyPage)
		assert.ErrorIs(t, err, ErrNoJobDescription)
		assert.Equal(t, SourceNone, res.Source)
	})
}

func TestFromHTML_WithoutURLIsNotStored(t *testing.T) {
	store := newMemStore()
	res, err := NewService(Options{Store: store}).FromHTML(context.Background(), "", jobPage())
	require.NoError(t, err)
	assert.Equal(t, SourceLocated, res.Source)
	assert.Empty(t, store.rows)
}

func TestSaveFitScore(t *testing.T) {
	store := newMemStore()
	svc := NewService(Options{Store: store})
	ctx := context.Background()
	url := "https://jobs.lever.co/acme/1"

	_, err := svc.FromHTML(ctx, url, jobPage())
	require.NoError(t, err)

	score := &types.FitScoreResult{OverallScore: 80}
	require.NoError(t, svc.SaveFitScore(ctx, url, score))
	assert.Same(t, score, store.scores[url])

	assert.Error(t, svc.SaveFitScore(ctx, "https://jobs.lever.co/acme/unknown", score))
	assert.NoError(t, NewService(Options{}).SaveFitScore(ctx, url, score))
}

func TestLast(t *testing.T) {
	ctx := context.Background()

	last, err := NewService(Options{}).Last(ctx)
	require.NoError(t, err)
	assert.Nil(t, last)

	store := newMemStore()
	svc := NewService(Options{Store: store})
	_, err = svc.FromHTML(ctx, "https://jobs.ashbyhq.com/acme/1", jobPage())
	require.NoError(t, err)

	last, err = svc.Last(ctx)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, "https://jobs.ashbyhq.com/acme/1", last.URL)
	assert.Equal(t, string(fetch.PlatformAshby), last.Platform)
}

func TestStoredAndForget(t *testing.T) {
	ctx := context.Background()
	url := "https://jobs.lever.co/acme/2"

	bare := NewService(Options{})
	jd, err := bare.Stored(ctx, url)
	require.NoError(t, err)
	assert.Nil(t, jd)
	deleted, err := bare.Forget(ctx, url)
	require.NoError(t, err)
	assert.False(t, deleted)

	store := newMemStore()
	svc := NewService(Options{Store: store})
	_, err = svc.FromHTML(ctx, url, jobPage())
	require.NoError(t, err)

	jd, err = svc.Stored(ctx, url)
	require.NoError(t, err)
	require.NotNil(t, jd)
	assert.Equal(t, string(fetch.PlatformLever), jd.Platform)

	deleted, err = svc.Forget(ctx, url)
	require.NoError(t, err)
	assert.True(t, deleted)

	jd, err = svc.Stored(ctx, url)
	require.NoError(t, err)
	assert.Nil(t, jd)

	// A forgotten page is no longer carried over
	res, err := svc.FromHTML(ctx, "https://jobs.lever.co/acme/2/apply", emptyPage)
	assert.ErrorIs(t, err, ErrNoJobDescription)
	assert.Equal(t, SourceNone, res.Source)
}

func TestLocateMany(t *testing.T) {
	srv := serve(t, map[string]string{
		"/jobs/1": jobPage(),
		"/jobs/2": jobPage(),
		"/blog":   emptyPage,
	})
	svc := NewService(Options{Concurrency: 2})

	urls := []string{srv.URL + "/jobs/1", srv.URL + "/blog", "bad url", srv.URL + "/jobs/2"}
	items, err := svc.LocateMany(context.Background(), urls)
	require.NoError(t, err)
	require.Len(t, items, 4)

	for i, u := range urls {
		assert.Equal(t, u, items[i].URL)
	}
	assert.NoError(t, items[0].Err)
	assert.Equal(t, SourceLocated, items[0].Result.Source)
	assert.ErrorIs(t, items[1].Err, ErrNoJobDescription)
	assert.ErrorIs(t, items[2].Err, ErrInvalidURL)
	assert.NoError(t, items[3].Err)
	assert.Equal(t, SourceLocated, items[3].Result.Source)
}

func TestLocateMany_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items, err := NewService(Options{}).LocateMany(ctx, []string{"https://example.com/a", "https://example.com/b"})
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, items, 2)
	for _, it := range items {
		assert.Error(t, it.Err)
	}
}
