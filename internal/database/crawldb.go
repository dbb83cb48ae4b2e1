package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/leadcrawl/internal/model"
)

// FileName is the archive file created inside the database directory.
const FileName = "leadcrawl.db"

var (
	// ErrCrawlNotFound is returned when no archived crawl has the requested id.
	ErrCrawlNotFound = errors.New("crawl not found")

	// ErrNothingToSave is returned when a report without a result is saved.
	ErrNothingToSave = errors.New("report has no crawl result")
)

// CrawlDB is the SQLite archive of finished crawl results.
// Only completed results are stored; a crawl is never resumed from it.
type CrawlDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures CrawlDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a CrawlDB in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*CrawlDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CrawlDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Path returns the database file path.
func (cdb *CrawlDB) Path() string {
	return cdb.dbPath
}

// Close closes the database connection.
func (cdb *CrawlDB) Close() error {
	return cdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (cdb *CrawlDB) createTables() error {
	schema := `
	-- One row per finished crawl
	CREATE TABLE IF NOT EXISTS crawls (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		target TEXT NOT NULL,
		url TEXT NOT NULL,
		crawled_at TEXT NOT NULL,
		elapsed_ms INTEGER NOT NULL DEFAULT 0,
		text TEXT NOT NULL,
		pages_crawled INTEGER NOT NULL,
		total_chars INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_crawls_url ON crawls(url);
	CREATE INDEX IF NOT EXISTS idx_crawls_crawled_at ON crawls(crawled_at);

	-- Kept pages of a crawl in visitation order
	CREATE TABLE IF NOT EXISTS pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		crawl_id INTEGER NOT NULL REFERENCES crawls(id),
		position INTEGER NOT NULL,
		path TEXT NOT NULL,
		type TEXT NOT NULL,
		html TEXT NOT NULL,
		text TEXT NOT NULL,
		UNIQUE(crawl_id, position)
	);

	CREATE INDEX IF NOT EXISTS idx_pages_crawl ON pages(crawl_id);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// CrawlSummary is one line of the archive listing.
type CrawlSummary struct {
	ID           int64
	Target       string
	URL          string
	CrawledAt    time.Time
	Elapsed      time.Duration
	PagesCrawled int
	TotalChars   int
}

// SaveCrawl stores the report's result and its pages in one transaction
// and returns the new crawl id. Reports without a result are rejected
// with ErrNothingToSave.
func (cdb *CrawlDB) SaveCrawl(ctx context.Context, report *model.CrawlReport) (int64, error) {
	if report == nil || report.Result == nil {
		return 0, ErrNothingToSave
	}
	result := report.Result

	tx, err := cdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
	INSERT INTO crawls (target, url, crawled_at, elapsed_ms, text, pages_crawled, total_chars)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		report.Target,
		result.URL,
		report.CrawledAt.UTC().Format(time.RFC3339Nano),
		report.Elapsed.Milliseconds(),
		result.Text,
		result.PagesCrawled,
		result.TotalChars,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert crawl: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get crawl id: %w", err)
	}

	for i, page := range result.Pages {
		_, err := tx.ExecContext(ctx, `
		INSERT INTO pages (crawl_id, position, path, type, html, text)
		VALUES (?, ?, ?, ?, ?, ?)
		`, id, i, page.Path, page.Type.String(), page.HTML, page.Text)
		if err != nil {
			return 0, fmt.Errorf("failed to insert page %s: %w", page.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit crawl: %w", err)
	}

	return id, nil
}

// ListCrawls returns archived crawls, newest first. A non-empty url limits
// the listing to that base URL; limit <= 0 means no limit.
func (cdb *CrawlDB) ListCrawls(ctx context.Context, url string, limit int) ([]CrawlSummary, error) {
	query := `
	SELECT id, target, url, crawled_at, elapsed_ms, pages_crawled, total_chars
	FROM crawls
	`
	var args []any
	if url != "" {
		query += " WHERE url = ?"
		args = append(args, url)
	}
	query += " ORDER BY id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := cdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list crawls: %w", err)
	}
	defer rows.Close()

	var summaries []CrawlSummary
	for rows.Next() {
		var (
			s         CrawlSummary
			crawledAt string
			elapsedMS int64
		)
		if err := rows.Scan(&s.ID, &s.Target, &s.URL, &crawledAt, &elapsedMS, &s.PagesCrawled, &s.TotalChars); err != nil {
			return nil, fmt.Errorf("failed to scan crawl: %w", err)
		}
		s.CrawledAt = parseTimestamp(crawledAt)
		s.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

// GetCrawl rebuilds the archived report with the given id.
// It returns ErrCrawlNotFound when there is no such crawl.
func (cdb *CrawlDB) GetCrawl(ctx context.Context, id int64) (*model.CrawlReport, error) {
	var (
		target, url, crawledAt string
		elapsedMS              int64
	)
	err := cdb.db.QueryRowContext(ctx, `
	SELECT target, url, crawled_at, elapsed_ms FROM crawls WHERE id = ?
	`, id).Scan(&target, &url, &crawledAt, &elapsedMS)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", ErrCrawlNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get crawl: %w", err)
	}

	pages, err := cdb.pages(ctx, id)
	if err != nil {
		return nil, err
	}

	report := model.NewCrawlReport(target)
	report.ID = id
	report.CrawledAt = parseTimestamp(crawledAt)
	report.Elapsed = time.Duration(elapsedMS) * time.Millisecond
	report.Result = model.NewCrawlResult(url, pages)
	return report, nil
}

func (cdb *CrawlDB) pages(ctx context.Context, crawlID int64) ([]model.PageRecord, error) {
	rows, err := cdb.db.QueryContext(ctx, `
	SELECT path, type, html, text FROM pages
	WHERE crawl_id = ?
	ORDER BY position
	`, crawlID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pages: %w", err)
	}
	defer rows.Close()

	pages := make([]model.PageRecord, 0)
	for rows.Next() {
		var (
			p        model.PageRecord
			pageType string
		)
		if err := rows.Scan(&p.Path, &pageType, &p.HTML, &p.Text); err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		if p.Type, err = model.ParsePageType(pageType); err != nil {
			return nil, fmt.Errorf("page %s: %w", p.Path, err)
		}
		pages = append(pages, p)
	}

	return pages, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
