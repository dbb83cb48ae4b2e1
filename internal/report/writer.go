package report

import (
	"fmt"
	"io"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/leadcrawl/internal/model"
)

// Writer defines the interface for report output.
// Implementations write crawl reports in various formats.
type Writer interface {
	// Write outputs the report to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.CrawlReport) (int, error)
}

// Format names an output format.
type Format string

const (
	// FormatJSON is the machine-readable crawl result, the default.
	FormatJSON Format = "json"

	// FormatMarkdown is a GitHub Flavored Markdown document.
	FormatMarkdown Format = "markdown"

	// FormatText is plain text for the terminal.
	FormatText Format = "text"
)

// NewWriter returns the writer for format.
func NewWriter(format Format, output io.Writer) (Writer, error) {
	switch format {
	case FormatJSON, "":
		return NewJSONWriter(output), nil
	case FormatMarkdown:
		return NewMarkdownWriter(output), nil
	case FormatText:
		return NewSimpleWriter(output), nil
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// pageTypeOrder is the display order of page types.
var pageTypeOrder = []model.PageType{
	model.PageTypeHomepage,
	model.PageTypeTeam,
	model.PageTypeAbout,
	model.PageTypeContact,
	model.PageTypeOther,
}

// titleCaser renders page type names for humans ("team" -> "Team").
var titleCaser = cases.Title(language.English)

// pageTypeLabel returns the display name of a page type.
func pageTypeLabel(t model.PageType) string {
	return titleCaser.String(t.String())
}

// charsByType sums the text length of the result's pages per type.
func charsByType(result *model.CrawlResult) map[model.PageType]int {
	chars := make(map[model.PageType]int)
	for _, p := range result.Pages {
		chars[p.Type] += len([]rune(p.Text))
	}
	return chars
}
