// Package pipeline runs the per-target steps of a leadcrawl invocation.
//
// A Pipeline executes Steps in order against one model.CrawlReport: the
// CrawlStep fills in the result, and the optional ArchiveStep saves it.
// Runner drives one fresh pipeline per target, strictly sequentially, and
// hands each finished report to a callback so output can be streamed.
package pipeline
