package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/leadcrawl/internal/fetch"
)

// Fetcher names accepted by --fetcher.
const (
	// FetcherBrowser renders pages in headless Chrome.
	FetcherBrowser = "browser"

	// FetcherHTTP issues plain HTTP GET requests without running scripts.
	FetcherHTTP = "http"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "leadcrawl"

	// DefaultTimeout bounds one page navigation, including redirects.
	DefaultTimeout = fetch.DefaultPageTimeout

	// DefaultSettleTimeout bounds the wait for network activity to quiet
	// down after a page has loaded. Running out of it is not a failure.
	DefaultSettleTimeout = fetch.DefaultSettleTimeout

	// DefaultUserAgent identifies the crawler to site operators.
	DefaultUserAgent = fetch.DefaultUserAgent

	// DefaultFetcher is the fetcher used when --fetcher is not given.
	DefaultFetcher = FetcherBrowser

	// DefaultMaxBodySize limits the response body read by the HTTP fetcher.
	DefaultMaxBodySize = fetch.DefaultMaxBodySize

	// DefaultHistoryLimit is how many archived crawls `history list` shows.
	DefaultHistoryLimit = 20
)

// Config holds all options for one leadcrawl invocation.
// It is filled from defaults, then environment variables, then CLI flags,
// and passed down explicitly; nothing reads it from global state.
type Config struct {
	// Targets are the site strings to crawl, one crawl each, in order.
	Targets []string

	// Fetcher selects the page fetcher: FetcherBrowser or FetcherHTTP.
	Fetcher string

	// Timeout bounds each page navigation.
	Timeout time.Duration

	// SettleTimeout bounds the post-load idle wait of the browser fetcher.
	// Zero skips the wait.
	SettleTimeout time.Duration

	// UserAgent is sent with every request. A site config may override it.
	UserAgent string

	// BrowserPath is the Chrome/Chromium executable. Empty means search
	// the usual install locations.
	BrowserPath string

	// Proxy is a SOCKS5 proxy "host:port" used by both fetchers.
	// Empty means a direct connection.
	Proxy string

	// MaxBodySize caps the HTTP fetcher's response body in bytes.
	MaxBodySize int64

	// Verbose enables debug logging.
	Verbose bool

	// LogJSON switches log output to JSON lines.
	LogJSON bool

	// NoProgress disables the terminal spinner.
	NoProgress bool

	// ConfigFilePath is an explicit config file location. When empty the
	// standard locations are searched, see FindConfigFile.
	ConfigFilePath string

	// SiteConfigs holds the per-site settings loaded from the config file.
	SiteConfigs *File

	// MarkdownReport selects the Markdown report instead of JSON.
	// Mutually exclusive with TextReport.
	MarkdownReport bool

	// TextReport selects the plain-text report instead of JSON.
	// Mutually exclusive with MarkdownReport.
	TextReport bool

	// ReportFile is where the report is written. Empty means stdout.
	ReportFile string

	// SaveToDB stores every crawl result in the archive under DBDir.
	SaveToDB bool

	// DBDir is the directory holding the SQLite archive.
	// Defaults to the XDG data directory.
	DBDir string
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		Fetcher:       DefaultFetcher,
		Timeout:       DefaultTimeout,
		SettleTimeout: DefaultSettleTimeout,
		UserAgent:     DefaultUserAgent,
		MaxBodySize:   DefaultMaxBodySize,
		DBDir:         XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for leadcrawl.
// On Linux: ~/.local/share/leadcrawl
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for leadcrawl.
// On Linux: ~/.config/leadcrawl
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.SettleTimeout < 0 {
		return ErrInvalidSettleTimeout
	}
	if c.MarkdownReport && c.TextReport {
		return ErrConflictingReportFormats
	}
	if c.Fetcher != FetcherBrowser && c.Fetcher != FetcherHTTP {
		return ErrUnknownFetcher
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.Proxy != "" && !fetch.ValidProxyAddress(c.Proxy) {
		return ErrInvalidProxy
	}
	return nil
}
