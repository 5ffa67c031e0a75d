package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/zotsearch/zotsearch/internal/model"
)

// createTestReport creates a report with sample data for testing.
func createTestReport() *model.SearchReport {
	return &model.SearchReport{
		Query:          "ant ants",
		TotalDocuments: 3,
		Matched:        2,
		Hits: []model.Hit{
			{
				Title:       "Anteater",
				URL:         "https://en.wikipedia.org/wiki/Anteater",
				Score:       4,
				Frequencies: map[string]int{"ants": 4},
			},
			{
				Title:       "Ant",
				URL:         "https://en.wikipedia.org/wiki/Ant",
				Score:       3,
				Frequencies: map[string]int{"ant": 2, "ants": 1},
			},
		},
	}
}

// TestSimpleWriter tests the plain text writer.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes title, url, and blank line per hit", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n, err := NewSimpleWriter(&buf).Write(createTestReport())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := "Anteater\nhttps://en.wikipedia.org/wiki/Anteater\n\n" +
			"Ant\nhttps://en.wikipedia.org/wiki/Ant\n\n"
		if buf.String() != want {
			t.Errorf("unexpected output:\n%q\nwant:\n%q", buf.String(), want)
		}
		if n != len(want) {
			t.Errorf("expected %d bytes written, got %d", len(want), n)
		}
	})

	t.Run("writes score when requested", func(t *testing.T) {
		t.Parallel()

		report := createTestReport()
		report.ShowScore = true

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasPrefix(buf.String(), "Anteater: 4\n") {
			t.Errorf("expected scored title, got %q", buf.String())
		}
		if !strings.Contains(buf.String(), "Ant: 3\n") {
			t.Errorf("expected second scored title, got %q", buf.String())
		}
	})

	t.Run("verbose adds summary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithVerbose(true)).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasPrefix(buf.String(), `2 of 3 documents match "ant ants", showing 2`) {
			t.Errorf("expected summary line, got %q", buf.String())
		}
	})

	t.Run("no hits", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(&model.SearchReport{Query: "zebra"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if buf.String() != "No results.\n" {
			t.Errorf("unexpected output %q", buf.String())
		}
	})
}

// TestJSONWriter tests the JSON writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes valid JSON", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded model.SearchReport
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded.Query != "ant ants" || decoded.Matched != 2 || len(decoded.Hits) != 2 {
			t.Errorf("unexpected decoded report %+v", decoded)
		}
		if decoded.Hits[1].Frequencies["ant"] != 2 {
			t.Errorf("expected frequencies to round trip, got %v", decoded.Hits[1].Frequencies)
		}
	})

	t.Run("compact output by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Count(buf.String(), "\n") != 1 {
			t.Errorf("expected single line output, got %q", buf.String())
		}
	})

	t.Run("pretty print", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"query\": \"ant ants\"") {
			t.Errorf("expected indented output, got %q", buf.String())
		}
	})

	t.Run("empty hits are an array", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(&model.SearchReport{Query: ""}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), `"hits":[]`) {
			t.Errorf("expected empty hits array, got %q", buf.String())
		}
	})
}

// TestMarkdownWriter tests the Markdown writer.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes table of hits", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"# Search Results",
			"## Hits",
			"`ant ants`",
			"Anteater",
			"https://en.wikipedia.org/wiki/Ant",
			"Rank",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("no hits writes a note", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(&model.SearchReport{Query: "zebra"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "No document contains any of the query terms.") {
			t.Errorf("expected note, got %q", buf.String())
		}
	})
}

// TestEscapeCell tests table cell escaping.
func TestEscapeCell(t *testing.T) {
	t.Parallel()

	if got := escapeCell("a|b"); got != `a\|b` {
		t.Errorf("escapeCell = %q", got)
	}
}

// failingWriter fails every write.
type failingWriter struct{}

func (failingWriter) Write(*model.SearchReport) (int, error) {
	return 0, errors.New("write failed")
}

// TestMultiWriter tests writing to several writers.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to all writers", func(t *testing.T) {
		t.Parallel()

		var a, b bytes.Buffer
		w := NewMultiWriter(NewSimpleWriter(&a), NewJSONWriter(&b))

		n, err := w.Write(createTestReport())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != a.Len()+b.Len() {
			t.Errorf("expected %d total bytes, got %d", a.Len()+b.Len(), n)
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMultiWriter(failingWriter{}, NewSimpleWriter(&buf))

		if _, err := w.Write(createTestReport()); err == nil {
			t.Error("expected error")
		}
		if buf.Len() != 0 {
			t.Error("expected later writer not to be called")
		}
	})
}
