package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for leadcrawl.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leadcrawl",
		Short: "Crawl a company website into a text corpus for lead extraction",
		Long: `leadcrawl visits a website's homepage and the pages most likely to name
the people behind the business (team, about, contact, leadership, ...),
and prints their cleaned text as a single JSON document.

Pages are rendered in headless Chrome by default so script-built content
is captured. Use --fetcher http for sites that do not need a browser.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON lines")

	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
