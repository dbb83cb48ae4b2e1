package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Fetch failure reasons. Callers can distinguish them with errors.Is, although
// the crawler treats every one of them as "page unavailable".
var (
	// ErrNoResponse is returned when no document response was received.
	ErrNoResponse = errors.New("no response")

	// ErrStatus is returned when the document status is 400 or above.
	ErrStatus = errors.New("error status")

	// ErrNotHTML is returned when the document content type is not text/html.
	ErrNotHTML = errors.New("content type is not text/html")

	// ErrTimeout is returned when the page did not load within the page timeout.
	ErrTimeout = errors.New("page load timed out")
)

// htmlContentType is the content type substring a usable page must carry.
const htmlContentType = "text/html"

// Response is a fetched page.
type Response struct {
	// URL is the requested URL.
	URL string

	// StatusCode is the HTTP status of the document response.
	StatusCode int

	// ContentType is the Content-Type of the document response.
	ContentType string

	// HTML is the rendered markup.
	HTML string
}

// Fetcher fetches a single page.
// Implementations must be safe for sequential reuse across a whole crawl.
type Fetcher interface {
	// Fetch returns the page at url. A non-nil error means the page could not
	// be loaded at all; status and content type are validated by Check.
	Fetch(ctx context.Context, url string) (*Response, error)
}

// Func adapts an ordinary function to the Fetcher interface.
type Func func(ctx context.Context, url string) (*Response, error)

// Fetch calls f(ctx, url).
func (f Func) Fetch(ctx context.Context, url string) (*Response, error) {
	return f(ctx, url)
}

// Check reports whether resp is a usable HTML page.
// It returns nil for a usable page and a wrapped sentinel error otherwise.
func Check(resp *Response) error {
	if resp == nil {
		return ErrNoResponse
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
	}
	if !strings.Contains(strings.ToLower(resp.ContentType), htmlContentType) {
		return fmt.Errorf("%w: %q", ErrNotHTML, resp.ContentType)
	}
	return nil
}

// Get fetches url with f and validates the response with Check.
func Get(ctx context.Context, f Fetcher, url string) (*Response, error) {
	resp, err := f.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := Check(resp); err != nil {
		return nil, err
	}
	return resp, nil
}
