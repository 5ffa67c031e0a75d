package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/zotsearch/zotsearch/internal/model"
)

// SimpleWriter prints one block per hit: the title, optionally followed
// by ": score", the URL on the next line, and a blank line.
type SimpleWriter struct {
	baseWriter

	// verbose adds a summary line with the match counts.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables the summary line.
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

// Write outputs the report in plain text.
func (w *SimpleWriter) Write(report *model.SearchReport) (int, error) {
	var sb strings.Builder

	if w.verbose {
		fmt.Fprintf(&sb, "%d of %d documents match %q, showing %d\n\n",
			report.Matched, report.TotalDocuments, report.Query, len(report.Hits))
	}

	if len(report.Hits) == 0 {
		sb.WriteString("No results.\n")
		return io.WriteString(w.output, sb.String())
	}

	for _, hit := range report.Hits {
		if report.ShowScore {
			fmt.Fprintf(&sb, "%s: %d\n", hit.Title, hit.Score)
		} else {
			sb.WriteString(hit.Title + "\n")
		}
		sb.WriteString(hit.URL + "\n")
		sb.WriteString("\n")
	}

	return io.WriteString(w.output, sb.String())
}
