package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nao1215/leadcrawl/internal/config"
	"github.com/nao1215/leadcrawl/internal/fetch"
	"github.com/nao1215/leadcrawl/internal/model"
)

const teamText = "Jane Doe is our managing director. John Roe leads engineering and has been with us since 2010."

// newSiteServer serves a small company site. Paths not listed are 404.
func newSiteServer(t *testing.T) *httptest.Server {
	t.Helper()

	pages := map[string]string{
		"/": `<html><head><title>Acme</title></head><body>
			<nav><a href="/team">Team</a></nav>
			<h1>Acme Ltd</h1><p>Precision engineering since 1990.</p>
			<a href="/meet-the-founders">Meet the founders</a>
			<a href="https://elsewhere.example/about">Partner</a>
		</body></html>`,
		"/team":              `<html><body><main><p>` + teamText + `</p></main></body></html>`,
		"/meet-the-founders": `<html><body><p>Founded by two engineers who wanted better tooling for small workshops across the UK.</p></body></html>`,
		"/contact":           `<html><body><p>Call us.</p></body></html>`,
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// writeEmptyConfig writes an empty site config so the user's own config
// files are never picked up.
func writeEmptyConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".leadcrawl")
	if err := os.WriteFile(path, []byte("sites: {}\n"), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

// executeRoot runs the CLI with args and returns stdout.
func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), err
}

func TestNewCrawlCmd(t *testing.T) {
	t.Parallel()

	cmd := NewCrawlCmd()
	for _, name := range []string{
		"fetcher", "timeout", "settle-timeout", "user-agent", "browser-path", "proxy",
		"config", "markdown", "text", "output", "save", "db-dir", "no-progress",
	} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("expected %s flag", name)
		}
	}

	if got := cmd.Flags().Lookup("fetcher").DefValue; got != config.FetcherBrowser {
		t.Errorf("fetcher default = %q, want %q", got, config.FetcherBrowser)
	}
}

func TestBuildConfig(t *testing.T) {
	t.Parallel()

	noEnv := func(string) (string, bool) { return "", false }

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		cmd := NewCrawlCmd()
		if err := cmd.ParseFlags(nil); err != nil {
			t.Fatal(err)
		}
		cfg, err := buildConfig(cmd, []string{"acme.com"}, noEnv)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Fetcher != config.DefaultFetcher {
			t.Errorf("Fetcher = %q", cfg.Fetcher)
		}
		if cfg.Timeout != config.DefaultTimeout {
			t.Errorf("Timeout = %v", cfg.Timeout)
		}
		if len(cfg.Targets) != 1 || cfg.Targets[0] != "acme.com" {
			t.Errorf("Targets = %v", cfg.Targets)
		}
	})

	t.Run("environment overrides defaults", func(t *testing.T) {
		t.Parallel()

		env := map[string]string{
			config.EnvFetcher: "http",
			config.EnvTimeout: "3s",
			config.EnvDBDir:   "/tmp/archive",
		}
		lookup := func(k string) (string, bool) { v, ok := env[k]; return v, ok }

		cmd := NewCrawlCmd()
		if err := cmd.ParseFlags(nil); err != nil {
			t.Fatal(err)
		}
		cfg, err := buildConfig(cmd, []string{"acme.com"}, lookup)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Fetcher != config.FetcherHTTP || cfg.Timeout != 3*time.Second || cfg.DBDir != "/tmp/archive" {
			t.Errorf("environment not applied: %+v", cfg)
		}
	})

	t.Run("explicit flags override environment", func(t *testing.T) {
		t.Parallel()

		env := map[string]string{config.EnvFetcher: "http", config.EnvTimeout: "3s"}
		lookup := func(k string) (string, bool) { v, ok := env[k]; return v, ok }

		cmd := NewCrawlCmd()
		if err := cmd.ParseFlags([]string{"--fetcher", "browser", "-t", "7s", "--text", "--save"}); err != nil {
			t.Fatal(err)
		}
		cfg, err := buildConfig(cmd, []string{"acme.com"}, lookup)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Fetcher != config.FetcherBrowser {
			t.Errorf("Fetcher = %q", cfg.Fetcher)
		}
		if cfg.Timeout != 7*time.Second {
			t.Errorf("Timeout = %v", cfg.Timeout)
		}
		if !cfg.TextReport || !cfg.SaveToDB {
			t.Error("expected --text and --save")
		}
	})

	t.Run("invalid environment", func(t *testing.T) {
		t.Parallel()

		lookup := func(k string) (string, bool) {
			if k == config.EnvTimeout {
				return "soon", true
			}
			return "", false
		}
		cmd := NewCrawlCmd()
		if err := cmd.ParseFlags(nil); err != nil {
			t.Fatal(err)
		}
		if _, err := buildConfig(cmd, nil, lookup); err == nil {
			t.Error("expected error")
		}
	})
}

func TestLoadSiteConfigs(t *testing.T) {
	t.Parallel()

	t.Run("explicit missing file is an error", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.ConfigFilePath = filepath.Join(t.TempDir(), "missing.yaml")
		if err := loadSiteConfigs(cfg); !errors.Is(err, config.ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("explicit file is loaded", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "sites.yaml")
		content := "sites:\n  acme.com:\n    cookie: \"consent=yes\"\n    seedPaths: [/people-pages]\n"
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		cfg := config.NewConfig()
		cfg.ConfigFilePath = path
		if err := loadSiteConfigs(cfg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		site := cfg.SiteConfigs.GetSiteConfig(siteHost("https://www.acme.com/"))
		if site.Cookie != "consent=yes" || len(site.SeedPaths) != 1 {
			t.Errorf("unexpected site config: %+v", site)
		}
	})
}

func TestSiteHost(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"acme.com":                "acme.com",
		"https://Acme.com/":       "Acme.com",
		"http://127.0.0.1:8080//": "127.0.0.1",
		"  www.acme.co.uk ":       "www.acme.co.uk",
	}
	for in, want := range tests {
		if got := siteHost(in); got != want {
			t.Errorf("siteHost(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestReportFormat(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	if got := reportFormat(cfg); got != "json" {
		t.Errorf("default format = %q", got)
	}
	cfg.MarkdownReport = true
	if got := reportFormat(cfg); got != "markdown" {
		t.Errorf("markdown format = %q", got)
	}
	cfg.MarkdownReport, cfg.TextReport = false, true
	if got := reportFormat(cfg); got != "text" {
		t.Errorf("text format = %q", got)
	}
}

// TestCrawlCommand runs whole crawls over plain HTTP. These tests change the
// default slog logger, so they do not run in parallel.
func TestCrawlCommand(t *testing.T) {
	t.Run("prints crawl result as JSON", func(t *testing.T) {
		srv := newSiteServer(t)

		out, err := executeRoot(t, "crawl", "--fetcher", "http", "--no-progress",
			"--config", writeEmptyConfig(t), srv.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var result model.CrawlResult
		if err := json.Unmarshal([]byte(out), &result); err != nil {
			t.Fatalf("invalid JSON %q: %v", out, err)
		}
		if result.URL != srv.URL {
			t.Errorf("URL = %q, want %q", result.URL, srv.URL)
		}

		var paths []string
		for _, p := range result.Pages {
			paths = append(paths, p.Path)
		}
		want := []string{"/", "/team", "/meet-the-founders"}
		if strings.Join(paths, ",") != strings.Join(want, ",") {
			t.Errorf("pages = %v, want %v", paths, want)
		}
		if result.PagesCrawled != len(result.Pages) {
			t.Errorf("pagesCrawled = %d, want %d", result.PagesCrawled, len(result.Pages))
		}
		if !strings.Contains(result.Text, "[/team]\n"+teamText) {
			t.Errorf("team section missing from text: %q", result.Text)
		}
	})

	t.Run("unreachable homepage prints null", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		out, err := executeRoot(t, "crawl", "--fetcher", "http", "--no-progress",
			"--config", writeEmptyConfig(t), srv.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out != "null\n" {
			t.Errorf("got %q, want %q", out, "null\n")
		}
	})

	t.Run("one JSON line per target", func(t *testing.T) {
		srv := newSiteServer(t)
		down := httptest.NewServer(http.NotFoundHandler())
		defer down.Close()

		out, err := executeRoot(t, "crawl", "--fetcher", "http", "--no-progress",
			"--config", writeEmptyConfig(t), srv.URL, down.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
		if len(lines) != 2 {
			t.Fatalf("expected 2 lines, got %d: %q", len(lines), out)
		}
		if lines[1] != "null" {
			t.Errorf("second line = %q, want null", lines[1])
		}
	})

	t.Run("site config headers and cookie are sent", func(t *testing.T) {
		var (
			mu                   sync.Mutex
			gotCookie, gotHeader string
		)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/" {
				http.NotFound(w, r)
				return
			}
			mu.Lock()
			gotCookie = r.Header.Get("Cookie")
			gotHeader = r.Header.Get("X-Team")
			mu.Unlock()
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, "<p>home</p>")
		}))
		defer srv.Close()

		path := filepath.Join(t.TempDir(), ".leadcrawl")
		content := "sites:\n  127.0.0.1:\n    cookie: \"consent=yes\"\n    headers:\n      X-Team: leads\n"
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		if _, err := executeRoot(t, "crawl", "--fetcher", "http", "--no-progress", "--config", path, srv.URL); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		mu.Lock()
		defer mu.Unlock()
		if gotCookie != "consent=yes" || gotHeader != "leads" {
			t.Errorf("cookie = %q, header = %q", gotCookie, gotHeader)
		}
	})

	t.Run("site credentials are masked in verbose logs", func(t *testing.T) {
		srv := newSiteServer(t)

		path := filepath.Join(t.TempDir(), ".leadcrawl")
		content := "sites:\n  127.0.0.1:\n    cookie: \"consent=yes\"\n    headers:\n      Authorization: \"Bearer abc123\"\n      X-Team: leads\n"
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		var stdout, stderr bytes.Buffer
		cmd := NewRootCmd()
		cmd.SetOut(&stdout)
		cmd.SetErr(&stderr)
		cmd.SetArgs([]string{"crawl", "-v", "--log-json", "--fetcher", "http", "--no-progress", "--config", path, srv.URL})
		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		logs := stderr.String()
		if !strings.Contains(logs, `"msg":"site settings"`) {
			t.Fatalf("site settings not logged: %s", logs)
		}
		for _, secret := range []string{"consent=yes", "abc123"} {
			if strings.Contains(logs, secret) {
				t.Errorf("log output leaks %q", secret)
			}
		}
		if !strings.Contains(logs, `"X-Team":"leads"`) {
			t.Errorf("expected non-secret header in logs: %s", logs)
		}
	})

	t.Run("writes markdown report to file", func(t *testing.T) {
		srv := newSiteServer(t)
		outPath := filepath.Join(t.TempDir(), "reports", "acme.md")

		out, err := executeRoot(t, "crawl", "--fetcher", "http", "--no-progress", "--markdown",
			"-o", outPath, "--config", writeEmptyConfig(t), srv.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out != "" {
			t.Errorf("expected nothing on stdout, got %q", out)
		}

		content, err := os.ReadFile(outPath)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(content), "# Crawl Report") {
			t.Error("expected markdown report")
		}
	})

	t.Run("conflicting formats", func(t *testing.T) {
		_, err := executeRoot(t, "crawl", "--markdown", "--text", "acme.com")
		if !errors.Is(err, config.ErrConflictingReportFormats) {
			t.Errorf("expected ErrConflictingReportFormats, got %v", err)
		}
	})

	t.Run("no targets", func(t *testing.T) {
		_, err := executeRoot(t, "crawl")
		if !errors.Is(err, config.ErrNoTarget) {
			t.Errorf("expected ErrNoTarget, got %v", err)
		}
	})

	t.Run("unreachable proxy", func(t *testing.T) {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatal(err)
		}
		addr := ln.Addr().String()
		ln.Close()

		_, err = executeRoot(t, "crawl", "--fetcher", "http", "--no-progress",
			"--config", writeEmptyConfig(t), "--proxy", addr, "acme.com")
		if !errors.Is(err, fetch.ErrProxyCannotConnect) {
			t.Errorf("expected ErrProxyCannotConnect, got %v", err)
		}
	})

	t.Run("unknown fetcher", func(t *testing.T) {
		_, err := executeRoot(t, "crawl", "--fetcher", "curl", "acme.com")
		if !errors.Is(err, config.ErrUnknownFetcher) {
			t.Errorf("expected ErrUnknownFetcher, got %v", err)
		}
	})
}
