package crawler

import (
	"context"
	"errors"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/nao1215/leadcrawl/internal/fetch"
	"github.com/nao1215/leadcrawl/internal/model"
)

// ErrNoResult is returned by Crawl when the homepage could not be fetched as
// HTML. Sub-page failures never produce an error.
var ErrNoResult = errors.New("homepage unavailable, no crawl result")

// Crawler visits one site at a time through a fetch.Fetcher.
type Crawler struct {
	// fetcher loads pages. It is never called concurrently by the crawler.
	fetcher fetch.Fetcher

	// seedPaths are visited after the homepage, before discovered paths.
	seedPaths []string

	// minTextLength is the shortest sub-page text that is kept.
	minTextLength int

	// maxDiscovered caps the links taken from the homepage.
	maxDiscovered int

	logger *slog.Logger
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithLogger sets the logger for crawl progress.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithSeedPaths replaces the default seed paths.
func WithSeedPaths(paths []string) Option {
	return func(c *Crawler) {
		c.seedPaths = append([]string(nil), paths...)
	}
}

// WithExtraSeedPaths appends paths after the current seed paths.
// Site specific paths from the config file are added this way.
func WithExtraSeedPaths(paths []string) Option {
	return func(c *Crawler) {
		c.seedPaths = append(c.seedPaths, paths...)
	}
}

// WithMinTextLength sets the minimum text length for sub-pages.
func WithMinTextLength(n int) Option {
	return func(c *Crawler) {
		if n >= 0 {
			c.minTextLength = n
		}
	}
}

// WithMaxDiscovered sets how many homepage links may be added to the plan.
func WithMaxDiscovered(n int) Option {
	return func(c *Crawler) {
		if n >= 0 {
			c.maxDiscovered = n
		}
	}
}

// New creates a Crawler that loads pages through f.
func New(f fetch.Fetcher, opts ...Option) *Crawler {
	c := &Crawler{
		fetcher:       f,
		seedPaths:     append([]string(nil), DefaultSeedPaths...),
		minTextLength: DefaultMinTextLength,
		maxDiscovered: DefaultMaxDiscovered,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SeedPaths returns a copy of the configured seed paths.
func (c *Crawler) SeedPaths() []string {
	return append([]string(nil), c.seedPaths...)
}

// Crawl builds the corpus for site.
//
// The homepage is always the first page of the result. Sub-pages are visited
// in plan order and kept only when they load as HTML and their extracted text
// reaches the minimum length. If the homepage itself cannot be used, Crawl
// returns ErrNoResult and a nil result.
func (c *Crawler) Crawl(ctx context.Context, site string) (*model.CrawlResult, error) {
	start := time.Now()
	base := NormalizeBaseURL(site)
	c.logger.Info("crawling site", "url", base)

	home, err := fetch.Get(ctx, c.fetcher, base)
	if err != nil {
		c.logger.Warn("homepage failed", "url", base, "error", err)
		return nil, ErrNoResult
	}

	pages := []model.PageRecord{{
		Path: "/",
		HTML: home.HTML,
		Text: ExtractText(home.HTML, CharLimit(model.PageTypeHomepage)),
		Type: model.PageTypeHomepage,
	}}

	discovered := DiscoverLinks(home.HTML, base, c.seedPaths, c.maxDiscovered)
	if len(discovered) > 0 {
		c.logger.Debug("discovered links", "paths", discovered)
	}

	for _, path := range BuildPlan(c.seedPaths, discovered) {
		if page, ok := c.visit(ctx, base, path); ok {
			pages = append(pages, page)
		}
	}

	result := model.NewCrawlResult(base, pages)
	c.logger.Info("crawl complete",
		"url", base,
		"pages", result.PagesCrawled,
		"chars", result.TotalChars,
		"tokens", result.EstimatedTokens(),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return result, nil
}

// visit loads one sub-page and reports whether it belongs in the corpus.
func (c *Crawler) visit(ctx context.Context, base, path string) (model.PageRecord, bool) {
	resp, err := fetch.Get(ctx, c.fetcher, base+path)
	if err != nil {
		c.logger.Debug("skipping page", "path", path, "error", err)
		return model.PageRecord{}, false
	}

	pageType := Classify(path)
	text := ExtractText(resp.HTML, CharLimit(pageType))
	if utf8.RuneCountInString(text) < c.minTextLength {
		c.logger.Debug("skipping thin page", "path", path, "chars", utf8.RuneCountInString(text))
		return model.PageRecord{}, false
	}

	c.logger.Debug("kept page", "path", path, "type", pageType)
	return model.PageRecord{
		Path: path,
		HTML: resp.HTML,
		Text: text,
		Type: pageType,
	}, true
}
