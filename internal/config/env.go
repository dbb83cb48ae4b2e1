package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables read by ApplyEnv.
const (
	EnvUserAgent   = "LEADCRAWL_USER_AGENT"
	EnvFetcher     = "LEADCRAWL_FETCHER"
	EnvTimeout     = "LEADCRAWL_TIMEOUT"
	EnvDBDir       = "LEADCRAWL_DB_DIR"
	EnvBrowserPath = "LEADCRAWL_BROWSER_PATH"
	EnvProxy       = "LEADCRAWL_PROXY"
)

// DefaultEnvFile is the dotenv file loaded from the working directory.
const DefaultEnvFile = ".env"

// LoadEnv loads variables from a dotenv file into the process environment.
// Variables already set are not overwritten. A missing file is not an error.
func LoadEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides configuration values from environment variables.
// lookup is usually os.LookupEnv. Empty values are ignored.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	if v := get(EnvUserAgent); v != "" {
		c.UserAgent = v
	}
	if v := get(EnvFetcher); v != "" {
		c.Fetcher = strings.ToLower(v)
	}
	if v := get(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvTimeout, err)
		}
		c.Timeout = d
	}
	if v := get(EnvDBDir); v != "" {
		c.DBDir = v
	}
	if v := get(EnvBrowserPath); v != "" {
		c.BrowserPath = v
	}
	if v := get(EnvProxy); v != "" {
		c.Proxy = v
	}
	return nil
}
