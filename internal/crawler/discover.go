package crawler

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DiscoverLinks scans homepage markup for links to team, about or contact
// style pages on the same host and returns up to limit new paths in document
// order.
//
// An href is used when it is rooted ("/our-story") or an absolute http(s) URL
// on baseURL's host; relative, mailto:, javascript: and fragment links are
// ignored. Trailing slashes are stripped. Paths already in seeds, "/", and
// repeats are skipped case-insensitively. A link qualifies when its path or
// its visible text matches the discovery keywords.
//
// A protocol-relative href ("//other.example/team") counts as rooted: the
// whole href becomes the path, and since paths are always appended to
// baseURL the fetch stays on the base host.
func DiscoverLinks(src, baseURL string, seeds []string, limit int) []string {
	discovered := make([]string, 0, limit)
	if limit <= 0 {
		return discovered
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return discovered
	}

	var baseHost string
	if base, err := url.Parse(baseURL); err == nil {
		baseHost = base.Hostname()
	}

	seen := make(map[string]bool, len(seeds)+1)
	seen["/"] = true
	for _, s := range seeds {
		seen[strings.ToLower(s)] = true
	}

	doc.Find("a").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, ok := s.Attr("href")
		if !ok {
			return true
		}

		path, ok := linkPath(href, baseHost)
		if !ok {
			return true
		}

		key := strings.ToLower(path)
		if seen[key] {
			return true
		}

		text := strings.TrimSpace(s.Text())
		if !discoveryKeywords.MatchString(path) && !discoveryKeywords.MatchString(text) {
			return true
		}

		seen[key] = true
		discovered = append(discovered, path)
		return len(discovered) < limit
	})

	return discovered
}

// linkPath resolves an href to a site path on baseHost.
// It reports false for links that cannot be followed.
func linkPath(href, baseHost string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.Contains(href, "#") {
		return "", false
	}

	var path string
	switch {
	case strings.HasPrefix(href, "/"):
		path = href
	default:
		u, err := url.Parse(href)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return "", false
		}
		if baseHost == "" || !strings.EqualFold(u.Hostname(), baseHost) {
			return "", false
		}
		path = u.EscapedPath()
	}

	path = strings.TrimRight(path, "/")
	if path == "" {
		path = "/"
	}
	return path, true
}
