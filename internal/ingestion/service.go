// Package ingestion turns a job page into a located job description: it fetches
// the page (over HTTP, or in a headless browser when the HTTP body is an empty
// shell), runs the locator, persists credible results and falls back to the last
// stored description when nothing is found.
package ingestion

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/jobfit/internal/db"
	"github.com/jonathan/jobfit/internal/dom"
	"github.com/jonathan/jobfit/internal/dom/htmldom"
	"github.com/jonathan/jobfit/internal/fetch"
	"github.com/jonathan/jobfit/internal/locator"
	"github.com/jonathan/jobfit/internal/logging"
	"github.com/jonathan/jobfit/internal/types"
)

var (
	// ErrInvalidURL is returned when URL is malformed
	ErrInvalidURL = errors.New("invalid URL")
	// ErrHTTPRequestFailed is returned when the page could not be fetched
	ErrHTTPRequestFailed = errors.New("HTTP request failed")
	// ErrParseFailed is returned when the page HTML cannot be parsed
	ErrParseFailed = errors.New("failed to parse page")
	// ErrNoJobDescription is returned when nothing was located and there is no carry-over record
	ErrNoJobDescription = errors.New("no job description found")
)

// DefaultConcurrency bounds LocateMany when Options.Concurrency is unset.
const DefaultConcurrency = 4

// Source says where a Result's record came from.
type Source string

const (
	// SourceLocated means the locator found the record on this page
	SourceLocated Source = "located"
	// SourceCarriedOver means the record is the last one stored for another page
	SourceCarriedOver Source = "carried_over"
	// SourceNone means no record is available
	SourceNone Source = "none"
)

// Store persists located job descriptions. *db.DB implements it.
type Store interface {
	UpsertJobDescription(ctx context.Context, input *db.JobDescriptionInput) (*db.JobDescription, error)
	GetJobDescriptionByURL(ctx context.Context, url string) (*db.JobDescription, error)
	GetLastJobDescription(ctx context.Context) (*db.JobDescription, error)
	SaveFitScore(ctx context.Context, url string, score *types.FitScoreResult) error
	DeleteJobDescription(ctx context.Context, url string) (bool, error)
}

// SnapshotFunc renders a page in a browser. fetch.TakeSnapshot is the default.
type SnapshotFunc func(ctx context.Context, url string, opts *fetch.BrowserOptions) (*fetch.Snapshot, error)

// Options configures a Service.
type Options struct {
	Fetch   *fetch.Options
	Browser *fetch.BrowserOptions
	// UseBrowser enables the headless-browser fallback for pages whose HTTP body
	// has too little text.
	UseBrowser bool
	// Viewport is assumed for HTML that was not browser-rendered.
	Viewport    dom.Viewport
	Locator     *locator.Locator
	Store       Store
	Logger      *zap.Logger
	Concurrency int
	Snapshot    SnapshotFunc
}

// Service locates job descriptions on pages.
type Service struct {
	fetchOpts   *fetch.Options
	browserOpts *fetch.BrowserOptions
	useBrowser  bool
	viewport    dom.Viewport
	locator     *locator.Locator
	store       Store
	logger      *zap.Logger
	concurrency int
	snapshot    SnapshotFunc
}

// NewService creates a Service, filling unset options with defaults.
func NewService(opts Options) *Service {
	s := &Service{
		fetchOpts:   opts.Fetch,
		browserOpts: opts.Browser,
		useBrowser:  opts.UseBrowser,
		viewport:    opts.Viewport,
		locator:     opts.Locator,
		store:       opts.Store,
		logger:      opts.Logger,
		concurrency: opts.Concurrency,
		snapshot:    opts.Snapshot,
	}
	if s.fetchOpts == nil {
		s.fetchOpts = fetch.DefaultOptions()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.locator == nil {
		s.locator = locator.New(locator.Options{Logger: s.logger})
	}
	if s.viewport.Width <= 0 || s.viewport.Height <= 0 {
		s.viewport = dom.DefaultViewport
	}
	if s.browserOpts == nil {
		s.browserOpts = &fetch.BrowserOptions{Viewport: s.viewport}
	}
	if s.concurrency <= 0 {
		s.concurrency = DefaultConcurrency
	}
	if s.snapshot == nil {
		s.snapshot = fetch.TakeSnapshot
	}
	return s
}

// Result is the outcome of locating a job description on one page.
type Result struct {
	URL      string                      `json:"url,omitempty"`
	Platform fetch.Platform              `json:"platform"`
	Source   Source                      `json:"source"`
	Record   *types.JobDescriptionRecord `json:"record"`
	// CarriedFrom is the URL the carry-over record was located on.
	CarriedFrom string `json:"carried_from,omitempty"`
	Rendered    bool   `json:"rendered"`

	Candidates []locator.Candidate `json:"-"`
	Document   *htmldom.Document   `json:"-"`
}

// FromURL fetches a page and locates its job description.
func (s *Service) FromURL(ctx context.Context, urlStr string) (*Result, error) {
	if err := fetch.ValidateURL(urlStr); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	log := s.logger.With(zap.String("url", urlStr), zap.String("platform", string(fetch.DetectPlatform(urlStr))))

	html, httpErr := s.fetchHTML(ctx, urlStr)
	if httpErr != nil && !s.useBrowser {
		return nil, fmt.Errorf("%w: %w", ErrHTTPRequestFailed, httpErr)
	}

	needBrowser := httpErr != nil
	if !needBrowser && s.useBrowser {
		text, err := fetch.BodyText(html)
		needBrowser = err != nil || fetch.ShouldUseBrowser(text)
		if needBrowser {
			log.Debug("page body too short, falling back to browser rendering",
				zap.Int("text_length", len(text)), zap.Int("min_length", fetch.MinContentLength))
		}
	}

	if needBrowser {
		snap, err := s.snapshot(ctx, urlStr, s.browserOpts)
		switch {
		case err == nil:
			doc, perr := snap.Document()
			if perr != nil {
				return nil, fmt.Errorf("%w: %w", ErrParseFailed, perr)
			}
			res, lerr := s.FromDocument(ctx, urlStr, doc)
			if res != nil {
				res.Rendered = true
			}
			return res, lerr
		case httpErr != nil:
			return nil, fmt.Errorf("%w: %w", ErrHTTPRequestFailed, errors.Join(httpErr, err))
		default:
			log.Warn("browser rendering failed, using HTTP content", zap.Error(err))
		}
	}

	return s.FromHTML(ctx, urlStr, html)
}

func (s *Service) fetchHTML(ctx context.Context, urlStr string) (string, error) {
	res, err := fetch.URL(ctx, urlStr, s.fetchOpts)
	if err != nil {
		return "", err
	}
	return res.HTML, nil
}

// FromHTML parses an HTML snapshot and locates its job description. urlStr may
// be empty; the result is then never persisted.
func (s *Service) FromHTML(ctx context.Context, urlStr, html string) (*Result, error) {
	doc, err := htmldom.Parse(html, htmldom.WithViewport(s.viewport))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}
	return s.FromDocument(ctx, urlStr, doc)
}

// FromDocument locates the job description in a parsed page. A credible record
// is stored; when nothing is found the last stored record is carried over.
// ErrNoJobDescription is returned alongside a SourceNone result when neither
// exists.
func (s *Service) FromDocument(ctx context.Context, urlStr string, doc *htmldom.Document) (*Result, error) {
	platform := fetch.PlatformUnknown
	if urlStr != "" {
		platform = fetch.DetectPlatform(urlStr)
	}
	log := s.logger.With(zap.String("url", urlStr), zap.String("platform", string(platform)))

	ranked := s.locator.Rank(doc)
	res := &Result{
		URL:        urlStr,
		Platform:   platform,
		Source:     SourceNone,
		Candidates: ranked,
		Document:   doc,
	}

	if rec := s.locator.Select(ranked); rec != nil && IsValidJobDescription(rec) {
		res.Source = SourceLocated
		res.Record = rec
		log.Info("job description located",
			zap.Float64("confidence", rec.Confidence),
			zap.String("level", string(rec.Level)),
			zap.String("preview", logging.Truncate(rec.Text, 80)))
		s.save(ctx, log, urlStr, platform, rec)
		return res, nil
	}

	if s.store == nil {
		return res, ErrNoJobDescription
	}

	last, err := s.store.GetLastJobDescription(ctx)
	if err != nil {
		log.Warn("failed to load carry-over job description", zap.Error(err))
		return res, ErrNoJobDescription
	}
	if last == nil {
		return res, ErrNoJobDescription
	}

	res.Source = SourceCarriedOver
	res.Record = last.Record()
	res.CarriedFrom = last.URL
	log.Info("no job description on page, carrying over last one",
		zap.String("carried_from", last.URL), zap.Float64("confidence", last.Confidence))
	return res, nil
}

// save persists rec when it is substantial enough to serve as carry-over
// material. Storage failures are logged, never returned.
func (s *Service) save(ctx context.Context, log *zap.Logger, urlStr string, platform fetch.Platform, rec *types.JobDescriptionRecord) {
	if s.store == nil || urlStr == "" {
		return
	}
	if !LooksLikeJobDescription(rec.Text) {
		log.Debug("located text too thin to store", zap.Int("length", len(rec.Text)))
		return
	}
	_, err := s.store.UpsertJobDescription(ctx, &db.JobDescriptionInput{
		URL:      urlStr,
		Host:     fetch.Host(urlStr),
		Platform: string(platform),
		Record:   rec,
	})
	if err != nil {
		log.Warn("failed to store job description", zap.Error(err))
	}
}

// SaveFitScore stores a fit score beside the job description for urlStr. It is
// a no-op without a store or URL.
func (s *Service) SaveFitScore(ctx context.Context, urlStr string, score *types.FitScoreResult) error {
	if s.store == nil || urlStr == "" || score == nil {
		return nil
	}
	return s.store.SaveFitScore(ctx, urlStr, score)
}

// Stored returns the job description stored for urlStr, or nil.
func (s *Service) Stored(ctx context.Context, urlStr string) (*db.JobDescription, error) {
	if s.store == nil || urlStr == "" {
		return nil, nil
	}
	return s.store.GetJobDescriptionByURL(ctx, urlStr)
}

// Forget deletes the job description stored for urlStr. It reports whether one
// existed, so a forgotten page no longer serves as carry-over.
func (s *Service) Forget(ctx context.Context, urlStr string) (bool, error) {
	if s.store == nil || urlStr == "" {
		return false, nil
	}
	return s.store.DeleteJobDescription(ctx, urlStr)
}

// Last returns the most recently stored job description, or nil.
func (s *Service) Last(ctx context.Context) (*db.JobDescription, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.GetLastJobDescription(ctx)
}

// BatchItem is one entry of a LocateMany run.
type BatchItem struct {
	URL    string  `json:"url"`
	Result *Result `json:"result,omitempty"`
	Err    error   `json:"-"`
}

// LocateMany runs FromURL over urls with bounded concurrency. Per-URL failures
// are reported on their item; the returned error is only set when ctx ends.
func (s *Service) LocateMany(ctx context.Context, urls []string) ([]BatchItem, error) {
	items := make([]BatchItem, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, u := range urls {
		items[i].URL = u
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				items[i].Err = err
				return nil
			}
			res, err := s.FromURL(gctx, u)
			items[i].Result = res
			items[i].Err = err
			return nil
		})
	}

	_ = g.Wait()
	return items, ctx.Err()
}
