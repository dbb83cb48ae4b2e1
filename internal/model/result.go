package model

import (
	"strings"
	"unicode/utf8"
)

// sectionSeparator joins page sections in the combined text.
const sectionSeparator = "\n\n"

// charsPerToken is the rough characters-per-token ratio used for
// language-model token estimates of English text.
const charsPerToken = 4

// CrawlResult is the aggregate corpus for one site.
// Its JSON encoding is the output contract of a crawl.
type CrawlResult struct {
	// URL is the normalized base URL of the site.
	URL string `json:"url"`

	// Text is every recorded page's section joined by a blank line,
	// in visitation order.
	Text string `json:"text"`

	// Pages are the recorded pages in visitation order.
	Pages []PageRecord `json:"pages"`

	// PagesCrawled is len(Pages).
	PagesCrawled int `json:"pagesCrawled"`

	// TotalChars is the character (not byte) length of Text.
	TotalChars int `json:"totalChars"`
}

// NewCrawlResult assembles a result from the recorded pages.
// The combined text, page count and character count are derived from pages.
func NewCrawlResult(baseURL string, pages []PageRecord) *CrawlResult {
	if pages == nil {
		pages = make([]PageRecord, 0)
	}

	sections := make([]string, 0, len(pages))
	for _, p := range pages {
		sections = append(sections, p.Section())
	}
	combined := strings.Join(sections, sectionSeparator)

	return &CrawlResult{
		URL:          baseURL,
		Text:         combined,
		Pages:        pages,
		PagesCrawled: len(pages),
		TotalChars:   utf8.RuneCountInString(combined),
	}
}

// EstimatedTokens returns a rough token count for the combined text.
func (r *CrawlResult) EstimatedTokens() int {
	return EstimateTokens(r.Text)
}

// PageTypeCounts returns how many recorded pages fall into each type.
func (r *CrawlResult) PageTypeCounts() map[PageType]int {
	counts := make(map[PageType]int)
	for _, p := range r.Pages {
		counts[p.Type]++
	}
	return counts
}

// EstimateTokens estimates the language-model token count of text
// at roughly four characters per token, rounded up.
func EstimateTokens(text string) int {
	n := utf8.RuneCountInString(text)
	return (n + charsPerToken - 1) / charsPerToken
}
