// Package crawler builds a small text corpus from one company website.
//
// A crawl visits the homepage, looks for links to team-like pages on it, and
// then visits a fixed list of seed paths followed by the discovered paths.
// Each visited page is classified by its path, converted to bounded plain
// text, and kept if it has enough text. The kept pages are joined into one
// combined text under "[path]" headers.
//
// # Components
//
//   - NormalizeBaseURL: canonical base URL for a user supplied site string
//   - Classify: path to PageType by keyword priority
//   - ExtractText: HTML to readable, bounded plain text
//   - DiscoverLinks: team/about-like links found on the homepage
//   - BuildPlan: ordered, de-duplicated list of paths to visit
//   - Crawler: drives the sequence through a fetch.Fetcher
//
// The seed paths, keyword patterns and character limits are data tables in
// rules.go, so they can be extended without touching the pipeline.
//
// # Usage
//
//	c := crawler.New(fetcher, crawler.WithLogger(logger))
//	result, err := c.Crawl(ctx, "example.co.uk")
//	if errors.Is(err, crawler.ErrNoResult) {
//	    // homepage unreachable
//	}
//
// Pages are fetched strictly one at a time. The crawler holds no state
// between crawls; the result is a function of the site string and what the
// fetcher returns.
package crawler
