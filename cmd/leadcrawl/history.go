package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nao1215/leadcrawl/internal/config"
	"github.com/nao1215/leadcrawl/internal/crawler"
	"github.com/nao1215/leadcrawl/internal/database"
	"github.com/nao1215/leadcrawl/internal/report"
)

// NewHistoryCmd creates the history command and its subcommands.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse crawls saved with --save",
		Long: `History reads the local archive written by 'leadcrawl crawl --save'.

Examples:
  # Latest crawls
  leadcrawl history list

  # Crawls of one site
  leadcrawl history list --url example.co.uk

  # Print an archived result as JSON, exactly as crawl printed it
  leadcrawl history show 12

  # Or as a Markdown report
  leadcrawl history show --markdown 12`,
	}

	cmd.PersistentFlags().String("db-dir", "",
		"Archive directory (default: XDG data directory)")

	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistoryShowCmd())

	return cmd
}

func newHistoryListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List archived crawls, newest first",
		Args:  cobra.NoArgs,
		RunE:  runHistoryListCmd,
	}

	cmd.Flags().IntP("limit", "n", config.DefaultHistoryLimit,
		"Maximum number of crawls to list (0 for all)")
	cmd.Flags().String("url", "",
		"Only list crawls of this site")

	return cmd
}

func newHistoryShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print an archived crawl",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistoryShowCmd,
	}

	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --text)")
	cmd.Flags().Bool("text", false,
		"Output plain text report (mutually exclusive with --markdown)")

	return cmd
}

// openArchive opens the archive in --db-dir, LEADCRAWL_DB_DIR or the XDG
// data directory, in that order.
func openArchive(cmd *cobra.Command) (*database.CrawlDB, error) {
	cfg := config.NewConfig()
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}
	if dbDir != "" {
		cfg.DBDir = dbDir
	}

	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// runHistoryListCmd executes history list.
func runHistoryListCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	site, err := cmd.Flags().GetString("url")
	if err != nil {
		return err
	}
	if site != "" {
		site = crawler.NormalizeBaseURL(site)
	}

	db, err := openArchive(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	return listCrawls(cmd.Context(), db, site, limit, cmd.OutOrStdout())
}

// listCrawls prints one line per archived crawl.
func listCrawls(ctx context.Context, db *database.CrawlDB, site string, limit int, out io.Writer) error {
	summaries, err := db.ListCrawls(ctx, site, limit)
	if err != nil {
		return err
	}

	if len(summaries) == 0 {
		if site != "" {
			fmt.Fprintf(out, "No archived crawls for %s\n", site)
		} else {
			fmt.Fprintln(out, "No archived crawls (use 'leadcrawl crawl --save' to archive results)")
		}
		return nil
	}

	fmt.Fprintf(out, "  %-6s  %-20s  %-5s  %-8s  %s\n", "ID", "Date", "Pages", "Chars", "URL")
	for _, s := range summaries {
		fmt.Fprintf(out, "  %-6d  %-20s  %-5d  %-8d  %s\n",
			s.ID,
			s.CrawledAt.Local().Format("2006-01-02 15:04:05"),
			s.PagesCrawled,
			s.TotalChars,
			s.URL,
		)
	}
	return nil
}

// runHistoryShowCmd executes history show.
func runHistoryShowCmd(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid crawl id %q", args[0])
	}

	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	textOutput, err := cmd.Flags().GetBool("text")
	if err != nil {
		return err
	}
	if markdownOutput && textOutput {
		return config.ErrConflictingReportFormats
	}

	format := report.FormatJSON
	switch {
	case markdownOutput:
		format = report.FormatMarkdown
	case textOutput:
		format = report.FormatText
	}

	db, err := openArchive(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	r, err := db.GetCrawl(cmd.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrCrawlNotFound) {
			return fmt.Errorf("no archived crawl with id %d (see 'leadcrawl history list')", id)
		}
		return err
	}

	w, err := report.NewWriter(format, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	_, err = w.Write(r)
	return err
}
