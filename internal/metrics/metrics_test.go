package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestObserveFetch tests success and failure counting.
func TestObserveFetch(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObserveFetch(10*time.Millisecond, nil)
	m.ObserveFetch(10*time.Millisecond, nil)
	m.ObserveFetch(10*time.Millisecond, errors.New("boom"))

	if got := testutil.ToFloat64(m.PagesFetchedTotal); got != 2 {
		t.Errorf("expected 2 fetched pages, got %v", got)
	}
	if got := testutil.ToFloat64(m.FetchFailuresTotal); got != 1 {
		t.Errorf("expected 1 failure, got %v", got)
	}
}

// TestObserveDocument tests outcome labels and posting totals.
func TestObserveDocument(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObserveDocument(OutcomeNew, 4)
	m.ObserveDocument(OutcomeExisting, 3)
	m.ObserveDocument(OutcomeSkipped, 0)

	if got := testutil.ToFloat64(m.DocumentsIndexedTotal.WithLabelValues(OutcomeNew)); got != 1 {
		t.Errorf("expected 1 new document, got %v", got)
	}
	if got := testutil.ToFloat64(m.PostingsWrittenTotal); got != 7 {
		t.Errorf("expected 7 postings, got %v", got)
	}
}

// TestObserveSearch tests query counting.
func TestObserveSearch(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObserveSearch(ResultHit, 3)
	m.ObserveSearch(ResultEmptyQuery, 0)

	if got := testutil.ToFloat64(m.SearchQueriesTotal.WithLabelValues(ResultHit)); got != 1 {
		t.Errorf("expected 1 hit query, got %v", got)
	}
	if got := testutil.ToFloat64(m.SearchQueriesTotal.WithLabelValues(ResultEmptyQuery)); got != 1 {
		t.Errorf("expected 1 empty query, got %v", got)
	}
}

// TestNilMetrics tests that a nil receiver is a no-op.
func TestNilMetrics(t *testing.T) {
	t.Parallel()

	var m *Metrics
	m.ObserveFetch(time.Second, nil)
	m.ObserveDocument(OutcomeNew, 1)
	m.ObserveSearch(ResultHit, 1)
	if err := m.WriteTextfile(filepath.Join(t.TempDir(), "x.prom")); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
	if m.Registry() != nil {
		t.Error("expected nil registry")
	}
}

// TestWriteTextfile tests the exposition file.
func TestWriteTextfile(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObserveFetch(time.Millisecond, nil)

	path := filepath.Join(t.TempDir(), "zotsearch.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("failed to write textfile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read textfile: %v", err)
	}
	if !strings.Contains(string(data), "zotsearch_pages_fetched_total 1") {
		t.Errorf("expected fetched counter in output, got:\n%s", data)
	}
}
