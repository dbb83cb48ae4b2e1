// Package fetch provides the page-fetch capability used by the crawler.
//
// A Fetcher turns an absolute URL into rendered HTML plus the HTTP status and
// content type of the document response. Two implementations are provided:
//
//   - BrowserFetcher: drives headless Chrome through chromedp, waits for the
//     document to load and then makes a bounded, best-effort wait for network
//     activity to settle before reading the DOM.
//   - HTTPFetcher: a plain net/http GET for sites that do not need JavaScript.
//
// Check classifies a response the way the crawler expects: a missing response,
// a status of 400 or above, or a non-HTML content type is a failure.
package fetch
