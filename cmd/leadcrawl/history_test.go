package main

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/nao1215/leadcrawl/internal/model"
)

func TestNewHistoryCmd(t *testing.T) {
	t.Parallel()

	cmd := NewHistoryCmd()
	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	if !names["list"] || !names["show"] {
		t.Errorf("expected list and show subcommands, got %v", names)
	}
	if cmd.PersistentFlags().Lookup("db-dir") == nil {
		t.Error("expected db-dir flag")
	}
}

// TestHistoryCommand archives a crawl with --save and reads it back.
func TestHistoryCommand(t *testing.T) {
	srv := newSiteServer(t)
	dbDir := t.TempDir()

	crawled, err := executeRoot(t, "crawl", "--fetcher", "http", "--no-progress", "--save",
		"--db-dir", dbDir, "--config", writeEmptyConfig(t), srv.URL)
	if err != nil {
		t.Fatalf("crawl failed: %v", err)
	}

	t.Run("list shows the crawl", func(t *testing.T) {
		out, err := executeRoot(t, "history", "list", "--db-dir", dbDir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, srv.URL) {
			t.Errorf("expected %s in listing: %q", srv.URL, out)
		}
		if !strings.Contains(out, "ID") {
			t.Errorf("expected header: %q", out)
		}
	})

	t.Run("list filters by url", func(t *testing.T) {
		out, err := executeRoot(t, "history", "list", "--db-dir", dbDir, "--url", "other.example")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "No archived crawls for https://other.example") {
			t.Errorf("unexpected output: %q", out)
		}
	})

	t.Run("show prints the same JSON", func(t *testing.T) {
		out, err := executeRoot(t, "history", "show", "--db-dir", dbDir, "1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got, want model.CrawlResult
		if err := json.Unmarshal([]byte(out), &got); err != nil {
			t.Fatal(err)
		}
		if err := json.Unmarshal([]byte(crawled), &want); err != nil {
			t.Fatal(err)
		}
		if got.Text != want.Text || got.URL != want.URL || got.PagesCrawled != want.PagesCrawled {
			t.Errorf("archived result differs:\n got %+v\nwant %+v", got, want)
		}
	})

	t.Run("show as text", func(t *testing.T) {
		out, err := executeRoot(t, "history", "show", "--db-dir", dbDir, "--text", "1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "Archive ID: 1") {
			t.Errorf("unexpected output: %q", out)
		}
	})

	t.Run("show unknown id", func(t *testing.T) {
		_, err := executeRoot(t, "history", "show", "--db-dir", dbDir, "99")
		if err == nil || !strings.Contains(err.Error(), "no archived crawl") {
			t.Errorf("expected not found error, got %v", err)
		}
	})

	t.Run("show invalid id", func(t *testing.T) {
		if _, err := executeRoot(t, "history", "show", "--db-dir", dbDir, "abc"); err == nil {
			t.Error("expected error")
		}
	})
}

func TestHistoryListEmpty(t *testing.T) {
	out, err := executeRoot(t, "history", "list", "--db-dir", t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "No archived crawls") {
		t.Errorf("unexpected output: %q", out)
	}
}
