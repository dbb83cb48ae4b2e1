// Package contacts pulls contact hints out of crawled pages: email
// addresses and links to social media profiles.
//
// The hints are shown in the human-readable reports next to the corpus.
// They are not part of the JSON crawl result, which downstream extraction
// consumes as plain text.
package contacts
