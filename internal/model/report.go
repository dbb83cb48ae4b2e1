package model

import "time"

// CrawlReport wraps the outcome of crawling one target from the CLI.
// A nil Result with an empty Error means the homepage was unreachable.
type CrawlReport struct {
	// Target is the site string as given by the user.
	Target string `json:"target"`

	// ID is the archive row id once the result has been saved, 0 otherwise.
	ID int64 `json:"id,omitempty"`

	// CrawledAt is when the crawl started.
	CrawledAt time.Time `json:"crawled_at"`

	// Elapsed is the wall time the crawl took.
	Elapsed time.Duration `json:"elapsed"`

	// Result is the crawl output, nil when there is no result.
	Result *CrawlResult `json:"result"`

	// Error holds an unexpected failure of a pipeline step.
	Error error `json:"-"`

	// ErrorMessage is Error's text for serialization.
	ErrorMessage string `json:"error,omitempty"`

	// PerformedSteps lists the pipeline steps that ran.
	PerformedSteps []string `json:"performed_steps,omitempty"`
}

// NewCrawlReport creates a report for the given target.
func NewCrawlReport(target string) *CrawlReport {
	return &CrawlReport{
		Target:         target,
		CrawledAt:      time.Now(),
		PerformedSteps: make([]string, 0),
	}
}

// HasResult reports whether the crawl produced a result.
func (r *CrawlReport) HasResult() bool {
	return r.Result != nil
}
