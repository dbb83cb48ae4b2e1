// Package model defines the data structures shared by the crawler, the
// report writers and the result archive.
//
// This package contains the following main types:
//   - PageType: The semantic category of a crawled page
//   - PageRecord: One kept page with its raw HTML and extracted text
//   - CrawlResult: The aggregate corpus returned for one site
//   - CrawlReport: The per-target envelope used by the CLI pipeline
//
// The models are serializable to JSON; CrawlResult's JSON form is the
// process output contract consumed by downstream lead extraction.
package model
