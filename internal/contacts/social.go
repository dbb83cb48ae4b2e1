package contacts

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Profile is a link to a social media profile or company page.
type Profile struct {
	// Platform is the lowercase platform key, e.g. "linkedin".
	Platform string

	// Handle is the profile identifier taken from the URL.
	Handle string

	// URL is the link as found.
	URL string
}

// Title returns the display name of the profile's platform.
func (p Profile) Title() string {
	return PlatformTitle(p.Platform)
}

// platform holds the URL patterns of one social network. The first
// submatch of each pattern is the handle.
type platform struct {
	name     string
	patterns []*regexp.Regexp
}

// platforms are checked in order; the first matching pattern wins.
var platforms = []platform{
	{
		name: "linkedin",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)^https?://(?:[a-z]{2,3}\.)?linkedin\.com/in/([A-Za-z0-9_%-]+)`),
			regexp.MustCompile(`(?i)^https?://(?:[a-z]{2,3}\.)?linkedin\.com/company/([A-Za-z0-9_%-]+)`),
		},
	},
	{
		name: "twitter",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)^https?://(?:www\.)?(?:twitter\.com|x\.com)/([A-Za-z0-9_]{1,15})(?:[/?#]|$)`),
		},
	},
	{
		name: "facebook",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)^https?://(?:www\.|m\.)?facebook\.com/profile\.php\?id=(\d+)`),
			regexp.MustCompile(`(?i)^https?://(?:www\.|m\.)?(?:facebook|fb)\.com/([A-Za-z0-9.]+)(?:[/?#]|$)`),
		},
	},
	{
		name: "instagram",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)^https?://(?:www\.)?instagram\.com/([A-Za-z0-9_.]+)(?:[/?#]|$)`),
		},
	},
	{
		name: "youtube",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)^https?://(?:www\.)?youtube\.com/(?:channel/|c/|user/|@)([A-Za-z0-9_-]+)`),
		},
	},
	{
		name: "github",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)^https?://(?:www\.)?github\.com/([A-Za-z0-9_-]+)(?:[/?#]|$)`),
		},
	},
	{
		name: "tiktok",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)^https?://(?:www\.)?tiktok\.com/@([A-Za-z0-9_.]+)`),
		},
	},
}

// nonProfilePaths are share buttons and site pages, not profiles.
var nonProfilePaths = []string{
	"/intent/", "/share", "/sharer", "/login", "/signup", "/help", "/about",
	"/terms", "/privacy", "/policies", "/settings", "/search", "/home",
	"/explore", "/hashtag/", "/i/", "/dialog/", "/plugins/",
}

// platformTitles are display names that title-casing gets wrong.
var platformTitles = map[string]string{
	"twitter":  "Twitter/X",
	"linkedin": "LinkedIn",
	"github":   "GitHub",
	"youtube":  "YouTube",
	"tiktok":   "TikTok",
}

// FindProfiles returns the distinct profile links among the anchors of src.
func FindProfiles(src string) []Profile {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	profiles := make([]Profile, 0)

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		p, ok := MatchProfile(strings.TrimSpace(href))
		if !ok {
			return
		}
		key := p.Platform + "|" + p.Handle
		if seen[key] {
			return
		}
		seen[key] = true
		profiles = append(profiles, p)
	})

	return profiles
}

// MatchProfile reports whether link points to a social media profile.
func MatchProfile(link string) (Profile, bool) {
	lower := strings.ToLower(link)
	for _, invalid := range nonProfilePaths {
		if strings.Contains(lower, invalid) {
			return Profile{}, false
		}
	}

	for _, pl := range platforms {
		for _, re := range pl.patterns {
			m := re.FindStringSubmatch(link)
			if len(m) < 2 {
				continue
			}
			return Profile{
				Platform: pl.name,
				Handle:   strings.ToLower(m[1]),
				URL:      link,
			}, true
		}
	}
	return Profile{}, false
}

// PlatformTitle returns the display name of a platform key.
func PlatformTitle(name string) string {
	if title, ok := platformTitles[name]; ok {
		return title
	}
	return cases.Title(language.English).String(name)
}
