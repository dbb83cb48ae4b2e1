package report

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/nao1215/leadcrawl/internal/model"
)

// JSONWriter outputs the crawl result as JSON, one document per report.
//
// This is the process output contract: the document is the CrawlResult
// object, or the literal null when the crawl produced no result. Each
// document ends with a newline, so several reports form JSON lines.
type JSONWriter struct {
	baseWriter

	// indent is the indentation string; empty means compact output.
	indent string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent sets the indentation string for pretty-printed output.
func WithIndent(indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report's result in JSON format.
func (w *JSONWriter) Write(report *model.CrawlReport) (int, error) {
	var result *model.CrawlResult
	if report != nil {
		result = report.Result
	}
	return w.writeJSON(result)
}

// writeJSON encodes v followed by a newline.
// HTML is not escaped, so page markup stays readable.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if w.indent != "" {
		enc.SetIndent("", w.indent)
	}

	if err := enc.Encode(v); err != nil {
		return 0, err
	}

	return w.output.Write(buf.Bytes())
}
