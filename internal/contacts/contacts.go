package contacts

import (
	"github.com/nao1215/leadcrawl/internal/model"
)

// Hints are the contact details found across a crawl.
type Hints struct {
	// Emails are the addresses found, lowercased, in first-seen order.
	Emails []string

	// Profiles are social media profile links, in first-seen order.
	Profiles []Profile
}

// Empty reports whether no hint was found.
func (h *Hints) Empty() bool {
	return h == nil || (len(h.Emails) == 0 && len(h.Profiles) == 0)
}

// Extract collects hints from every page's markup.
func Extract(pages []model.PageRecord) *Hints {
	h := &Hints{
		Emails:   make([]string, 0),
		Profiles: make([]Profile, 0),
	}

	seenEmails := make(map[string]bool)
	seenProfiles := make(map[string]bool)

	for _, page := range pages {
		for _, email := range FindEmails(page.HTML) {
			if !seenEmails[email] {
				seenEmails[email] = true
				h.Emails = append(h.Emails, email)
			}
		}
		for _, p := range FindProfiles(page.HTML) {
			key := p.Platform + "|" + p.Handle
			if !seenProfiles[key] {
				seenProfiles[key] = true
				h.Profiles = append(h.Profiles, p)
			}
		}
	}

	return h
}
