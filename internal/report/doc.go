// Package report writes crawl reports.
//
// JSONWriter emits the crawl result object (or null) and is the format
// consumed by downstream tooling. MarkdownWriter and SimpleWriter render the
// same report for people, with page type breakdowns and token estimates.
package report
