package model

import "fmt"

// PageType is the semantic category assigned to a page.
// It drives the character budget used when extracting text.
type PageType string

// Page types in classification priority order.
const (
	// PageTypeHomepage is the site root ("/").
	PageTypeHomepage PageType = "homepage"

	// PageTypeTeam is a page listing staff, partners or leadership.
	PageTypeTeam PageType = "team"

	// PageTypeAbout is an "about us" or "who we are" page.
	PageTypeAbout PageType = "about"

	// PageTypeContact is a contact page.
	PageTypeContact PageType = "contact"

	// PageTypeOther is any page not matching the categories above.
	PageTypeOther PageType = "other"
)

// String returns the page type name.
func (t PageType) String() string {
	return string(t)
}

// ParsePageType converts a stored page type name back to a PageType.
func ParsePageType(s string) (PageType, error) {
	switch PageType(s) {
	case PageTypeHomepage, PageTypeTeam, PageTypeAbout, PageTypeContact, PageTypeOther:
		return PageType(s), nil
	default:
		return "", fmt.Errorf("unknown page type %q", s)
	}
}

// PageRecord is a page that was fetched and kept in the corpus.
// Sub-pages are only recorded when their extracted text is long enough;
// the homepage is always recorded once fetched.
type PageRecord struct {
	// Path is the site-relative path, "/" for the homepage.
	Path string `json:"path"`

	// HTML is the rendered markup as returned by the fetcher.
	HTML string `json:"html"`

	// Text is the cleaned, possibly truncated plain text.
	Text string `json:"text"`

	// Type is the classification of Path.
	Type PageType `json:"type"`
}

// Section returns the page's block in the combined corpus: a "[path]"
// header line followed by the page text.
func (p PageRecord) Section() string {
	return "[" + p.Path + "]\n" + p.Text
}
