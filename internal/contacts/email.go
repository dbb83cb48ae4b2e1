package contacts

import (
	"regexp"
	"strings"
)

// emailRegex matches email addresses in markup, including mailto: links.
var emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// assetSuffixes end "addresses" that are really retina image names such
// as logo@2x.png.
var assetSuffixes = []string{".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp", ".avif", ".css", ".js"}

// placeholderDomains appear in form hints and templates.
var placeholderDomains = []string{"example.com", "example.org", "domain.com", "email.com", "yourdomain.com", "sentry.io"}

// freeProviders are webmail services, less telling than a company domain.
var freeProviders = map[string]bool{
	"gmail.com": true, "googlemail.com": true, "yahoo.com": true, "yahoo.co.uk": true,
	"hotmail.com": true, "hotmail.co.uk": true, "outlook.com": true, "live.com": true,
	"aol.com": true, "icloud.com": true, "me.com": true, "protonmail.com": true,
	"proton.me": true, "mail.com": true, "gmx.com": true, "yandex.com": true,
	"btinternet.com": true,
}

// FindEmails returns the distinct email addresses in src, lowercased, in
// order of appearance.
func FindEmails(src string) []string {
	seen := make(map[string]bool)
	emails := make([]string, 0)

	for _, m := range emailRegex.FindAllString(src, -1) {
		email := strings.ToLower(strings.TrimRight(m, "."))
		if seen[email] || !plausibleEmail(email) {
			continue
		}
		seen[email] = true
		emails = append(emails, email)
	}
	return emails
}

func plausibleEmail(email string) bool {
	for _, suffix := range assetSuffixes {
		if strings.HasSuffix(email, suffix) {
			return false
		}
	}
	domain := Domain(email)
	for _, d := range placeholderDomains {
		if domain == d {
			return false
		}
	}
	return true
}

// Domain returns the part after '@', or "" when there is none.
func Domain(email string) string {
	_, domain, ok := strings.Cut(email, "@")
	if !ok {
		return ""
	}
	return domain
}

// FreeProvider reports whether email belongs to a webmail service rather
// than the company's own domain.
func FreeProvider(email string) bool {
	return freeProviders[Domain(strings.ToLower(email))]
}
