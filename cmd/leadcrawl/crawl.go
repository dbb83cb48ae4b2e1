package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/leadcrawl/internal/config"
	"github.com/nao1215/leadcrawl/internal/crawler"
	"github.com/nao1215/leadcrawl/internal/database"
	"github.com/nao1215/leadcrawl/internal/fetch"
	leadlog "github.com/nao1215/leadcrawl/internal/log"
	"github.com/nao1215/leadcrawl/internal/model"
	"github.com/nao1215/leadcrawl/internal/pipeline"
	"github.com/nao1215/leadcrawl/internal/report"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl <site>...",
		Short: "Crawl websites and print their text corpus",
		Long: `Crawl loads a site's homepage, then its team, about, contact and similar
pages, and prints the cleaned text of every usable page as JSON:

  {"url": "...", "text": "...", "pages": [...], "pagesCrawled": N, "totalChars": N}

If the homepage cannot be loaded the output is null. Several sites are
crawled one after another and produce one JSON line each.

Examples:
  # Crawl a single site
  leadcrawl crawl example.co.uk

  # Plain HTTP instead of headless Chrome
  leadcrawl crawl --fetcher http example.co.uk

  # Markdown report, archived for later
  leadcrawl crawl --markdown --save example.co.uk

Environment variables (a .env file in the current directory is loaded too):
  LEADCRAWL_USER_AGENT, LEADCRAWL_FETCHER, LEADCRAWL_TIMEOUT,
  LEADCRAWL_DB_DIR, LEADCRAWL_BROWSER_PATH, LEADCRAWL_PROXY`,
		Args: cobra.ArbitraryArgs,
		RunE: runCrawlCmd,
	}

	// Fetch flags
	cmd.Flags().StringP("fetcher", "F", config.DefaultFetcher,
		"Page fetcher: browser (headless Chrome) or http")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for loading each page")
	cmd.Flags().Duration("settle-timeout", config.DefaultSettleTimeout,
		"Maximum wait for network activity to stop after load (browser only)")
	cmd.Flags().StringP("user-agent", "u", config.DefaultUserAgent,
		"User agent sent with every request")
	cmd.Flags().String("browser-path", "",
		"Chrome/Chromium executable (default: search the usual locations)")
	cmd.Flags().String("proxy", "",
		"Route all requests through a SOCKS5 proxy (host:port)")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .leadcrawl in current, XDG config or home directory)")

	// Report flags
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --text)")
	cmd.Flags().Bool("text", false,
		"Output plain text report (mutually exclusive with --markdown)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// Archive and UI
	cmd.Flags().BoolP("save", "s", false,
		"Save results to the local archive (see `leadcrawl history`)")
	cmd.Flags().String("db-dir", "",
		"Archive directory (default: XDG data directory)")
	cmd.Flags().Bool("no-progress", false,
		"Disable the progress spinner")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	if err := config.LoadEnv(config.DefaultEnvFile); err != nil {
		return err
	}

	cfg, err := buildConfig(cmd, args, os.LookupEnv)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	if err := loadSiteConfigs(cfg); err != nil {
		return err
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg.Verbose, cfg.LogJSON)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runCrawl(ctx, cfg, logger, cmd.OutOrStdout())
}

// getBoolFlag retrieves a bool flag from the command or the root's
// persistent flags.
func getBoolFlag(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		v, err = cmd.Root().PersistentFlags().GetBool(name)
		if err != nil {
			return false
		}
	}
	return v
}

// buildConfig creates a Config from defaults, the environment and cobra
// flags, in that order of precedence (lowest first). Flags only override
// the environment when given explicitly.
func buildConfig(cmd *cobra.Command, args []string, lookupEnv func(string) (string, bool)) (*config.Config, error) {
	cfg := config.NewConfig()
	if err := cfg.ApplyEnv(lookupEnv); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	flags := cmd.Flags()
	var err error

	if flags.Changed("fetcher") {
		if cfg.Fetcher, err = flags.GetString("fetcher"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("user-agent") {
		if cfg.UserAgent, err = flags.GetString("user-agent"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("browser-path") {
		if cfg.BrowserPath, err = flags.GetString("browser-path"); err != nil {
			return nil, err
		}
	}

	if flags.Changed("proxy") {
		if cfg.Proxy, err = flags.GetString("proxy"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("db-dir") {
		if cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
			return nil, err
		}
	}

	if cfg.SettleTimeout, err = flags.GetDuration("settle-timeout"); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.TextReport, err = flags.GetBool("text"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	if cfg.SaveToDB, err = flags.GetBool("save"); err != nil {
		return nil, err
	}
	if cfg.NoProgress, err = flags.GetBool("no-progress"); err != nil {
		return nil, err
	}

	cfg.Verbose = getBoolFlag(cmd, "verbose")
	cfg.LogJSON = getBoolFlag(cmd, "log-json")
	cfg.Targets = args

	return cfg, nil
}

// loadSiteConfigs reads the per-site settings into cfg.SiteConfigs.
// An explicit --config path must exist; otherwise a missing file just
// means no site settings.
func loadSiteConfigs(cfg *config.Config) error {
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	switch {
	case configPath != "":
		siteConfigs, err := config.LoadConfigFile(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.SiteConfigs = siteConfigs
	case cfg.ConfigFilePath != "":
		return fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	default:
		cfg.SiteConfigs = &config.File{Sites: make(map[string]config.SiteConfig)}
	}
	return nil
}

// setupLogger creates the sanitizing logger writing to w.
func setupLogger(w io.Writer, verbose, jsonOutput bool) *slog.Logger {
	if jsonOutput {
		return leadlog.NewJSONLogger(w, verbose)
	}
	return leadlog.NewLogger(w, verbose)
}

// runCrawl crawls every target in order and writes one report each.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout io.Writer) error {
	logger.Info("starting crawl",
		"targets", cfg.Targets,
		"fetcher", cfg.Fetcher,
		"saveToDB", cfg.SaveToDB,
	)

	if cfg.Proxy != "" {
		if err := fetch.CheckProxy(ctx, cfg.Proxy); err != nil {
			return fmt.Errorf("proxy check failed: %w", err)
		}
		logger.Info("proxy connection verified", "address", cfg.Proxy)
	}

	var db *database.CrawlDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "path", db.Path())
	}

	output, closeOutput, err := openOutput(cfg.ReportFile, stdout)
	if err != nil {
		return err
	}
	defer closeOutput()

	writer, err := report.NewWriter(reportFormat(cfg), output)
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(
		func(target string) (*pipeline.Pipeline, func(), error) {
			return createPipelineForTarget(cfg, db, logger, target)
		},
		pipeline.WithRunnerLogger(logger),
	)

	failed := 0
	err = runner.Run(ctx, cfg.Targets, func(r *model.CrawlReport, _ int) error {
		if r.Error != nil {
			failed++
			logger.Error("crawl failed", "target", r.Target, "error", r.Error)
		}
		if _, err := writer.Write(r); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d crawls failed", failed, len(cfg.Targets))
	}
	return nil
}

// reportFormat maps the report flags to a report.Format.
func reportFormat(cfg *config.Config) report.Format {
	switch {
	case cfg.MarkdownReport:
		return report.FormatMarkdown
	case cfg.TextReport:
		return report.FormatText
	default:
		return report.FormatJSON
	}
}

// openOutput returns the report destination: the named file, created with
// its parent directories, or stdout when path is empty.
func openOutput(path string, stdout io.Writer) (io.Writer, func(), error) {
	if path == "" {
		return stdout, func() {}, nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil //nolint:errcheck // best effort
}

// siteHost returns the host name of a target string, or "" if it has none.
func siteHost(target string) string {
	u, err := url.Parse(crawler.NormalizeBaseURL(target))
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// createPipelineForTarget builds the fetcher, crawler and pipeline for one
// target with its site-specific settings applied. The returned release
// function shuts the fetcher down.
func createPipelineForTarget(cfg *config.Config, db *database.CrawlDB, logger *slog.Logger, target string) (*pipeline.Pipeline, func(), error) {
	site := cfg.SiteConfigs.GetSiteConfig(siteHost(target))
	logger.Debug("site settings",
		"target", target,
		"cookie", site.Cookie,
		"headers", site.Headers,
		"seed_paths", site.SeedPaths,
	)

	f, release, err := newFetcher(cfg, site, logger)
	if err != nil {
		return nil, nil, err
	}

	if !cfg.NoProgress {
		progress := newProgressFetcher(f, target)
		f = progress
		closeFetcher := release
		release = func() {
			progress.stop()
			closeFetcher()
		}
	}

	crawlerOpts := []crawler.Option{crawler.WithLogger(logger)}
	if len(site.SeedPaths) > 0 {
		crawlerOpts = append(crawlerOpts, crawler.WithExtraSeedPaths(site.SeedPaths))
	}
	c := crawler.New(f, crawlerOpts...)

	configOpts := []pipeline.DefaultPipelineOption{pipeline.WithPipelineLogger(logger)}
	if db != nil {
		configOpts = append(configOpts, pipeline.WithPipelineArchive(db))
	}

	p := pipeline.DefaultPipeline(c, []pipeline.Option{pipeline.WithLogger(logger)}, configOpts...)
	return p, release, nil
}

// newFetcher creates the configured page fetcher with the site settings
// applied.
func newFetcher(cfg *config.Config, site config.SiteConfig, logger *slog.Logger) (fetch.Fetcher, func(), error) {
	userAgent := cfg.UserAgent
	if site.UserAgent != "" {
		userAgent = site.UserAgent
	}

	switch cfg.Fetcher {
	case config.FetcherHTTP:
		opts := []fetch.HTTPOption{
			fetch.WithHTTPUserAgent(userAgent),
			fetch.WithHeaders(site.Headers),
			fetch.WithCookie(site.Cookie),
			fetch.WithHTTPLogger(logger),
		}
		if cfg.MaxBodySize > 0 {
			opts = append(opts, fetch.WithMaxBodySize(cfg.MaxBodySize))
		}
		if cfg.Proxy != "" {
			client, err := fetch.NewProxyClient(cfg.Proxy, cfg.Timeout)
			if err != nil {
				return nil, nil, err
			}
			opts = append(opts, fetch.WithHTTPClient(client))
		}
		return fetch.NewHTTPFetcher(cfg.Timeout, opts...), func() {}, nil
	case config.FetcherBrowser:
		f, err := fetch.NewBrowserFetcher(
			fetch.WithPageTimeout(cfg.Timeout),
			fetch.WithSettleTimeout(cfg.SettleTimeout),
			fetch.WithBrowserUserAgent(userAgent),
			fetch.WithExecPath(cfg.BrowserPath),
			fetch.WithBrowserHeaders(site.Headers),
			fetch.WithBrowserCookie(site.Cookie),
			fetch.WithProxy(cfg.Proxy),
			fetch.WithBrowserLogger(logger),
		)
		if err != nil {
			return nil, nil, err
		}
		return f, f.Close, nil
	default:
		return nil, nil, errors.New("unknown fetcher: " + cfg.Fetcher)
	}
}
