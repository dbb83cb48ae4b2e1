// Package database provides the SQLite archive of crawl results.
//
// `leadcrawl crawl --save` stores every finished result here, and
// `leadcrawl history` reads it back. Each crawl is one row in crawls with
// its kept pages in pages, in visitation order. The archive is write-once
// history; it is never used to resume or skip a crawl.
//
// The database is a single file (modernc.org/sqlite, no cgo) under the
// XDG data directory unless configured otherwise.
package database
