package crawler

import (
	"regexp"

	"github.com/nao1215/leadcrawl/internal/model"
)

// DefaultSeedPaths are always attempted after the homepage, in this order.
var DefaultSeedPaths = []string{
	"/about",
	"/about-us",
	"/about-me",
	"/contact",
	"/contact-us",
	"/team",
	"/our-team",
	"/the-team",
	"/meet-the-team",
	"/meet-our-team",
	"/staff",
	"/our-staff",
	"/people",
	"/our-people",
	"/leadership",
	"/management",
	"/who-we-are",
	"/partners",
}

// classificationRule maps a path pattern to a page type.
type classificationRule struct {
	pattern  *regexp.Regexp
	pageType model.PageType
}

// classificationRules are evaluated in order against the lowercased path;
// the first match wins. The homepage is matched separately by exact path.
var classificationRules = []classificationRule{
	{
		pattern:  regexp.MustCompile(`team|staff|people|meet|leadership|management|partners|directors`),
		pageType: model.PageTypeTeam,
	},
	{
		pattern:  regexp.MustCompile(`about|who[\s\-]?we`),
		pageType: model.PageTypeAbout,
	},
	{
		pattern:  regexp.MustCompile(`contact`),
		pageType: model.PageTypeContact,
	},
}

// discoveryKeywords decides whether a homepage link is worth visiting.
// It is matched against both the link path and the anchor text.
var discoveryKeywords = regexp.MustCompile(
	`(?i)\b(team|staff|about|people|who[\s-]we[\s-]are|meet|leadership|management|partners|directors|contact)\b`,
)

// charLimits is the extracted-text budget per page type.
var charLimits = map[model.PageType]int{
	model.PageTypeHomepage: 4000,
	model.PageTypeTeam:     8000,
	model.PageTypeAbout:    2000,
	model.PageTypeContact:  2000,
	model.PageTypeOther:    2000,
}

// defaultCharLimit applies to page types without an entry in charLimits.
const defaultCharLimit = 2000

// Crawl bounds.
const (
	// DefaultMinTextLength is the shortest sub-page text kept in the corpus.
	DefaultMinTextLength = 50

	// DefaultMaxDiscovered caps the links taken from the homepage.
	DefaultMaxDiscovered = 5
)

// CharLimit returns the text budget for a page type.
func CharLimit(t model.PageType) int {
	if n, ok := charLimits[t]; ok {
		return n
	}
	return defaultCharLimit
}
