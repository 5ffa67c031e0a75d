// Package metrics defines the Prometheus collectors updated during crawls,
// index builds, and searches, and exports them in the text exposition format.
//
// zotsearch is a short-lived command, so instead of a scrape endpoint the
// counters are written to a file that node_exporter's textfile collector
// can pick up.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "zotsearch"

// Metrics holds all collectors for one process. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	PagesFetchedTotal     prometheus.Counter
	FetchFailuresTotal    prometheus.Counter
	FetchDuration         prometheus.Histogram
	DocumentsIndexedTotal *prometheus.CounterVec
	PostingsWrittenTotal  prometheus.Counter
	SearchQueriesTotal    *prometheus.CounterVec
	SearchResultsCount    prometheus.Histogram
}

// New creates the collectors and registers them on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		PagesFetchedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pages_fetched_total",
				Help:      "Total number of article pages fetched successfully.",
			},
		),
		FetchFailuresTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fetch_failures_total",
				Help:      "Total number of page fetches that failed.",
			},
		),
		FetchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "fetch_duration_seconds",
				Help:      "Page fetch latency in seconds, excluding the politeness delay.",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
		),
		DocumentsIndexedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "documents_indexed_total",
				Help:      "Documents processed by the index builder by outcome (new, existing, skipped).",
			},
			[]string{"outcome"},
		),
		PostingsWrittenTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "postings_written_total",
				Help:      "Total posting rows inserted or replaced.",
			},
		),
		SearchQueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "search_queries_total",
				Help:      "Search queries by result type (hit, zero_result, empty_query, error).",
			},
			[]string{"result_type"},
		),
		SearchResultsCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "search_results_count",
				Help:      "Number of matching documents per search query.",
				Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
			},
		),
	}

	m.registry.MustRegister(
		m.PagesFetchedTotal,
		m.FetchFailuresTotal,
		m.FetchDuration,
		m.DocumentsIndexedTotal,
		m.PostingsWrittenTotal,
		m.SearchQueriesTotal,
		m.SearchResultsCount,
	)

	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveFetch records one fetch attempt.
func (m *Metrics) ObserveFetch(d time.Duration, err error) {
	if m == nil {
		return
	}
	m.FetchDuration.Observe(d.Seconds())
	if err != nil {
		m.FetchFailuresTotal.Inc()
		return
	}
	m.PagesFetchedTotal.Inc()
}

// Document outcomes for ObserveDocument.
const (
	OutcomeNew      = "new"
	OutcomeExisting = "existing"
	OutcomeSkipped  = "skipped"
)

// ObserveDocument records one document handled by the index builder.
func (m *Metrics) ObserveDocument(outcome string, postings int) {
	if m == nil {
		return
	}
	m.DocumentsIndexedTotal.WithLabelValues(outcome).Inc()
	m.PostingsWrittenTotal.Add(float64(postings))
}

// Search result types for ObserveSearch.
const (
	ResultHit        = "hit"
	ResultZero       = "zero_result"
	ResultEmptyQuery = "empty_query"
	ResultError      = "error"
)

// ObserveSearch records one query and the number of matching documents.
func (m *Metrics) ObserveSearch(resultType string, matched int) {
	if m == nil {
		return
	}
	m.SearchQueriesTotal.WithLabelValues(resultType).Inc()
	if resultType != ResultError && resultType != ResultEmptyQuery {
		m.SearchResultsCount.Observe(float64(matched))
	}
}

// WriteTextfile writes all collected metrics to path in the Prometheus
// text format. The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
