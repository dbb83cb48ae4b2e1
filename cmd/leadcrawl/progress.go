package main

import (
	"context"
	"os"
	"time"

	"github.com/briandowns/spinner"

	"github.com/nao1215/leadcrawl/internal/fetch"
)

// spinnerCharSet is the dots animation.
const spinnerCharSet = 14

// progressFetcher shows the page currently being fetched next to a spinner.
// The spinner only animates when stderr is a terminal.
type progressFetcher struct {
	next    fetch.Fetcher
	spinner *spinner.Spinner
}

// newProgressFetcher wraps next and starts the spinner.
// Call stop once the crawl is over.
func newProgressFetcher(next fetch.Fetcher, target string) *progressFetcher {
	s := spinner.New(spinner.CharSets[spinnerCharSet], 100*time.Millisecond,
		spinner.WithWriterFile(os.Stderr),
		spinner.WithSuffix(" crawling "+target),
	)
	s.Start()
	return &progressFetcher{next: next, spinner: s}
}

// Fetch implements fetch.Fetcher.
func (p *progressFetcher) Fetch(ctx context.Context, url string) (*fetch.Response, error) {
	p.spinner.Lock()
	p.spinner.Suffix = " " + url
	p.spinner.Unlock()
	return p.next.Fetch(ctx, url)
}

// stop clears the spinner line.
func (p *progressFetcher) stop() {
	p.spinner.Stop()
}
