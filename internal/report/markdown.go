package report

import (
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/leadcrawl/internal/contacts"
	"github.com/nao1215/leadcrawl/internal/model"
)

// MarkdownWriter outputs reports in GitHub Flavored Markdown.
// This format is meant for reviewing a crawl and sharing it.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.CrawlReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)

	if report.HasResult() {
		w.writeBreakdown(md, report.Result)
		w.writeContacts(md, contacts.Extract(report.Result.Pages))
		w.writePages(md, report.Result)
	}

	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the title, the summary table and the status alert.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.CrawlReport) {
	md.H1("Crawl Report")
	md.PlainText("")

	rows := [][]string{
		{"Target", "`" + report.Target + "`"},
		{"Crawled At", report.CrawledAt.Format("2006-01-02 15:04:05 MST")},
	}
	if report.Elapsed > 0 {
		rows = append(rows, []string{"Elapsed", report.Elapsed.Round(time.Millisecond).String()})
	}
	if report.ID > 0 {
		rows = append(rows, []string{"Archive ID", strconv.FormatInt(report.ID, 10)})
	}
	if result := report.Result; result != nil {
		rows = append(rows,
			[]string{"URL", result.URL},
			[]string{"Pages Crawled", strconv.Itoa(result.PagesCrawled)},
			[]string{"Characters", strconv.Itoa(result.TotalChars)},
			[]string{"Estimated Tokens", "~" + strconv.Itoa(result.EstimatedTokens())},
		)
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	switch {
	case report.ErrorMessage != "":
		md.Caution("Crawl failed: " + report.ErrorMessage)
	case !report.HasResult():
		md.Warning("The homepage could not be loaded. No result was produced.")
	case report.Result.PagesCrawled == 1:
		md.Note("Only the homepage had usable content.")
	default:
		md.Tip("Crawl complete.")
	}
	md.PlainText("")
}

// writeBreakdown writes the per page type table and chart.
func (w *MarkdownWriter) writeBreakdown(md *markdown.Markdown, result *model.CrawlResult) {
	md.H2("Page Types")
	md.PlainText("")

	counts := result.PageTypeCounts()
	chars := charsByType(result)

	rows := make([][]string, 0, len(pageTypeOrder))
	for _, t := range pageTypeOrder {
		if counts[t] == 0 {
			continue
		}
		rows = append(rows, []string{pageTypeLabel(t), strconv.Itoa(counts[t]), strconv.Itoa(chars[t])})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Type", "Pages", "Characters"},
		Rows:   rows,
	})
	md.PlainText("")

	if len(rows) > 1 {
		chart := piechart.NewPieChart(
			io.Discard,
			piechart.WithTitle("Characters by Page Type"),
			piechart.WithShowData(true),
		)
		for _, t := range pageTypeOrder {
			if chars[t] > 0 {
				chart.LabelAndIntValue(pageTypeLabel(t), uint64(chars[t])) //nolint:gosec // non-negative count
			}
		}
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}
}

// writeContacts writes the email addresses and profile links found.
func (w *MarkdownWriter) writeContacts(md *markdown.Markdown, hints *contacts.Hints) {
	if hints.Empty() {
		return
	}

	md.H2("Contact Hints")
	md.PlainText("")

	if len(hints.Emails) > 0 {
		emails := make([]string, 0, len(hints.Emails))
		for _, e := range hints.Emails {
			if contacts.FreeProvider(e) {
				emails = append(emails, "`"+e+"` (webmail)")
				continue
			}
			emails = append(emails, "`"+e+"`")
		}
		md.H3("Email Addresses")
		md.PlainText("")
		md.BulletList(emails...)
		md.PlainText("")
	}

	if len(hints.Profiles) > 0 {
		rows := make([][]string, 0, len(hints.Profiles))
		for _, p := range hints.Profiles {
			rows = append(rows, []string{p.Title(), p.Handle, p.URL})
		}
		md.H3("Social Profiles")
		md.PlainText("")
		md.Table(markdown.TableSet{
			Header: []string{"Platform", "Handle", "URL"},
			Rows:   rows,
		})
		md.PlainText("")
	}
}

// writePages writes each kept page's text in visitation order.
func (w *MarkdownWriter) writePages(md *markdown.Markdown, result *model.CrawlResult) {
	md.H2("Pages")
	md.PlainText("")

	for _, p := range result.Pages {
		md.H3f("`%s` (%s)", p.Path, pageTypeLabel(p.Type))
		md.PlainText("")
		md.CodeBlocks(markdown.SyntaxHighlightText, p.Text)
		md.PlainText("")
	}
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [leadcrawl](https://github.com/nao1215/leadcrawl)*")
}
