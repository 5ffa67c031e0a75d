package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/zotsearch/zotsearch/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
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
func (w *MarkdownWriter) Write(report *model.SearchReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeHits(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the query and match counts.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.SearchReport) {
	md.H1("Search Results")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Query", "`" + report.Query + "`"},
			{"Indexed Documents", strconv.Itoa(report.TotalDocuments)},
			{"Matching Documents", strconv.Itoa(report.Matched)},
			{"Shown", strconv.Itoa(len(report.Hits))},
		},
	})
	md.PlainText("")
}

// writeHits writes the ranked hits table.
func (w *MarkdownWriter) writeHits(md *markdown.Markdown, report *model.SearchReport) {
	md.H2("Hits")
	md.PlainText("")

	if len(report.Hits) == 0 {
		md.Note("No document contains any of the query terms.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(report.Hits))
	for i, hit := range report.Hits {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			escapeCell(hit.Title),
			strconv.Itoa(hit.Score),
			hit.URL,
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Rank", "Title", "Score", "URL"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by zotsearch*")
}

// escapeCell escapes characters that would break a table row.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
