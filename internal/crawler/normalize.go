package crawler

import "strings"

// schemes are the URL schemes a base URL may carry.
var schemes = []string{"https://", "http://"}

// NormalizeBaseURL turns a user supplied site string into a base URL.
// It trims whitespace, prefixes "https://" when the string has no http(s)
// scheme, and strips every trailing slash after the scheme.
// Empty input is not rejected; callers are expected to pass a host.
func NormalizeBaseURL(site string) string {
	u := strings.TrimSpace(site)

	scheme := ""
	for _, s := range schemes {
		if len(u) >= len(s) && strings.EqualFold(u[:len(s)], s) {
			scheme, u = u[:len(s)], u[len(s):]
			break
		}
	}
	if scheme == "" {
		scheme = "https://"
	}

	return scheme + strings.TrimRight(u, "/")
}
