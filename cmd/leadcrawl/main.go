// Package main provides the entry point for the leadcrawl CLI.
//
// leadcrawl crawls a small business website and prints the combined text of
// its homepage, team, about and contact pages as one JSON document, ready
// for lead extraction.
//
// Usage:
//
//	leadcrawl crawl <site>
//	leadcrawl crawl --markdown --save example.co.uk
//	leadcrawl history list
//
// See --help for all available options.
package main

// main is the entry point for leadcrawl.
func main() {
	Execute()
}
