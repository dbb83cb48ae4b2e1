package config

import "errors"

// Configuration validation errors returned by Config.Validate.
// Callers can match them with errors.Is.
var (
	// ErrNoTarget is returned when no site was given on the command line.
	ErrNoTarget = errors.New("no target specified: provide at least one site")

	// ErrInvalidTimeout is returned when the page timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidSettleTimeout is returned when the settle timeout is negative.
	// Use 0 to skip the settle wait.
	ErrInvalidSettleTimeout = errors.New("invalid settle timeout: must be non-negative")

	// ErrConflictingReportFormats is returned when both --markdown and --text
	// are specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --markdown and --text cannot be used together")

	// ErrUnknownFetcher is returned for a --fetcher value other than
	// "browser" or "http".
	ErrUnknownFetcher = errors.New("unknown fetcher: must be \"browser\" or \"http\"")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidProxy is returned when --proxy is not a "host:port" address.
	ErrInvalidProxy = errors.New("invalid proxy: expected host:port of a SOCKS5 proxy")
)
