package fetch

import "time"

// Fetch defaults. The config package exposes the same values as CLI defaults.
const (
	// DefaultUserAgent identifies the crawler to site operators.
	DefaultUserAgent = "Mozilla/5.0 (compatible; LeadEngine/1.0; +https://mcleanstewart.co.uk)"

	// DefaultPageTimeout bounds loading one page.
	DefaultPageTimeout = 15 * time.Second

	// DefaultSettleTimeout bounds the best-effort wait for dynamic content.
	DefaultSettleTimeout = 5 * time.Second

	// DefaultMaxBodySize limits the HTML read per page by the HTTP fetcher.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB
)
