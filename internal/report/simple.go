package report

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/nao1215/leadcrawl/internal/contacts"
	"github.com/nao1215/leadcrawl/internal/model"
)

// SimpleWriter outputs human-readable text reports for the terminal.
type SimpleWriter struct {
	baseWriter

	// verbose includes the full text of every page.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose includes each page's extracted text in the output.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.CrawlReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	if report.HasResult() {
		w.writePages(&sb, report.Result)
		w.writeContacts(&sb, contacts.Extract(report.Result.Pages))
		if w.verbose {
			w.writeText(&sb, report.Result)
		}
	}

	return io.WriteString(w.output, sb.String())
}

// writeHeader writes the report title and summary lines.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.CrawlReport) {
	title := "Crawl Report: " + report.Target
	sb.WriteString(title + "\n")
	sb.WriteString(strings.Repeat("=", utf8.RuneCountInString(title)) + "\n")

	if report.ID > 0 {
		fmt.Fprintf(sb, "Archive ID: %d\n", report.ID)
	}
	fmt.Fprintf(sb, "Crawled:    %s\n", report.CrawledAt.Format("2006-01-02 15:04:05 MST"))

	switch {
	case report.ErrorMessage != "":
		fmt.Fprintf(sb, "Status:     failed (%s)\n\n", report.ErrorMessage)
		return
	case !report.HasResult():
		sb.WriteString("Status:     no result (homepage unreachable)\n\n")
		return
	}

	result := report.Result
	fmt.Fprintf(sb, "URL:        %s\n", result.URL)
	fmt.Fprintf(sb, "Pages:      %d\n", result.PagesCrawled)
	fmt.Fprintf(sb, "Characters: %d (~%d tokens)\n\n", result.TotalChars, result.EstimatedTokens())
}

// writePages writes one line per kept page.
func (w *SimpleWriter) writePages(sb *strings.Builder, result *model.CrawlResult) {
	sb.WriteString("Pages\n-----\n")

	width := 0
	for _, p := range result.Pages {
		width = max(width, utf8.RuneCountInString(p.Path))
	}

	for _, p := range result.Pages {
		fmt.Fprintf(sb, "  %-*s  %-8s  %6d chars\n",
			width, p.Path, pageTypeLabel(p.Type), utf8.RuneCountInString(p.Text))
	}
	sb.WriteString("\n")
}

// writeContacts writes the email addresses and profile links found.
func (w *SimpleWriter) writeContacts(sb *strings.Builder, hints *contacts.Hints) {
	if hints.Empty() {
		return
	}

	sb.WriteString("Contact Hints\n-------------\n")
	for _, e := range hints.Emails {
		if contacts.FreeProvider(e) {
			fmt.Fprintf(sb, "  email     %s (webmail)\n", e)
			continue
		}
		fmt.Fprintf(sb, "  email     %s\n", e)
	}
	for _, p := range hints.Profiles {
		fmt.Fprintf(sb, "  %-9s %s\n", p.Platform, p.URL)
	}
	sb.WriteString("\n")
}

// writeText writes the combined corpus.
func (w *SimpleWriter) writeText(sb *strings.Builder, result *model.CrawlResult) {
	sb.WriteString("Text\n----\n")
	sb.WriteString(result.Text)
	sb.WriteString("\n\n")
}
