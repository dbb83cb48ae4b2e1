// Package log builds the slog loggers used by leadcrawl.
//
// NewLogger writes leveled, human-readable lines through charmbracelet/log;
// NewJSONLogger writes JSON lines. Both wrap their sink in RedactHandler, so
// cookies, auth headers and URL credentials from site configs never reach
// the output, whatever the level.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	logger.Debug("site settings", "target", "example.co.uk", "cookie", "session=abc")
//	// cookie=***REDACTED***
package log
