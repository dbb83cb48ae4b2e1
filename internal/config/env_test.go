package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestApplyEnv(t *testing.T) {
	t.Parallel()

	lookupFrom := func(env map[string]string) func(string) (string, bool) {
		return func(key string) (string, bool) {
			v, ok := env[key]
			return v, ok
		}
	}

	t.Run("overrides set values", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		err := cfg.ApplyEnv(lookupFrom(map[string]string{
			EnvUserAgent:   "EnvBot/2.0",
			EnvFetcher:     " HTTP ",
			EnvTimeout:     "30s",
			EnvDBDir:       "/var/lib/leadcrawl",
			EnvBrowserPath: "/usr/bin/chromium",
			EnvProxy:       "127.0.0.1:9050",
		}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.UserAgent != "EnvBot/2.0" {
			t.Errorf("unexpected user agent %q", cfg.UserAgent)
		}
		if cfg.Fetcher != FetcherHTTP {
			t.Errorf("unexpected fetcher %q", cfg.Fetcher)
		}
		if cfg.Timeout != 30*time.Second {
			t.Errorf("unexpected timeout %v", cfg.Timeout)
		}
		if cfg.DBDir != "/var/lib/leadcrawl" {
			t.Errorf("unexpected db dir %q", cfg.DBDir)
		}
		if cfg.BrowserPath != "/usr/bin/chromium" {
			t.Errorf("unexpected browser path %q", cfg.BrowserPath)
		}
		if cfg.Proxy != "127.0.0.1:9050" {
			t.Errorf("unexpected proxy %q", cfg.Proxy)
		}
	})

	t.Run("empty and missing values keep defaults", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		if err := cfg.ApplyEnv(lookupFrom(map[string]string{EnvUserAgent: "  "})); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.UserAgent != DefaultUserAgent || cfg.Timeout != DefaultTimeout {
			t.Errorf("defaults changed: %+v", cfg)
		}
	})

	t.Run("invalid timeout", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		if err := cfg.ApplyEnv(lookupFrom(map[string]string{EnvTimeout: "soon"})); err == nil {
			t.Error("expected error for invalid duration")
		}
	})
}

// TestLoadEnv modifies the process environment, so it does not run in parallel.
func TestLoadEnv(t *testing.T) {
	t.Run("loads variables from file", func(t *testing.T) {
		const key = "LEADCRAWL_TEST_LOAD_ENV"
		t.Cleanup(func() { _ = os.Unsetenv(key) })

		path := filepath.Join(t.TempDir(), ".env")
		if err := os.WriteFile(path, []byte(key+"=from-file\n"), 0600); err != nil {
			t.Fatalf("failed to write env file: %v", err)
		}
		if err := LoadEnv(path); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := os.Getenv(key); got != "from-file" {
			t.Errorf("expected from-file, got %q", got)
		}
	})

	t.Run("existing variables win", func(t *testing.T) {
		const key = "LEADCRAWL_TEST_LOAD_ENV_EXISTING"
		t.Setenv(key, "from-process")

		path := filepath.Join(t.TempDir(), ".env")
		if err := os.WriteFile(path, []byte(key+"=from-file\n"), 0600); err != nil {
			t.Fatalf("failed to write env file: %v", err)
		}
		if err := LoadEnv(path); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := os.Getenv(key); got != "from-process" {
			t.Errorf("expected from-process, got %q", got)
		}
	})

	t.Run("missing file is ignored", func(t *testing.T) {
		if err := LoadEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})
}
