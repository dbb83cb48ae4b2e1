package crawler

import (
	"strings"

	"github.com/nao1215/leadcrawl/internal/model"
)

// Classify returns the page type of a path.
// "/" is the homepage; otherwise the first matching rule in
// classificationRules wins, so a path naming both "about" and "team" is a
// team page.
func Classify(path string) model.PageType {
	p := strings.ToLower(path)
	if p == "/" {
		return model.PageTypeHomepage
	}
	for _, rule := range classificationRules {
		if rule.pattern.MatchString(p) {
			return rule.pageType
		}
	}
	return model.PageTypeOther
}
