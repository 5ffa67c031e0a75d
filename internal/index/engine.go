package index

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/zotsearch/zotsearch/internal/metrics"
	"github.com/zotsearch/zotsearch/internal/model"
	"github.com/zotsearch/zotsearch/internal/tokenizer"
)

// Index is the read side of the index used by Engine.
type Index interface {
	PostingsForTerm(ctx context.Context, term string) ([]model.Posting, error)
	URLForTitle(ctx context.Context, title string) (string, error)
	DocumentCount(ctx context.Context) (int, error)
}

// Engine answers keyword queries against an Index.
type Engine struct {
	index   Index
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithEngineLogger sets the logger used by the Engine.
func WithEngineLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithEngineMetrics sets the collectors updated per query.
func WithEngineMetrics(m *metrics.Metrics) EngineOption {
	return func(e *Engine) {
		e.metrics = m
	}
}

// NewEngine creates an Engine reading from index.
func NewEngine(index Index, opts ...EngineOption) *Engine {
	e := &Engine{index: index}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// Terms splits query on whitespace and lower-cases each term.
// Repeated terms are returned once, in order of first appearance.
func Terms(query string) []string {
	fields := strings.Fields(query)
	terms := make([]string, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, field := range fields {
		term := tokenizer.Lower(field)
		if seen[term] {
			continue
		}
		seen[term] = true
		terms = append(terms, term)
	}
	return terms
}

// Search returns the titles of all documents containing at least one term
// of query, sorted and without duplicates. An empty or whitespace-only
// query yields an empty result.
func (e *Engine) Search(ctx context.Context, query string) ([]string, error) {
	matches, err := e.match(ctx, query)
	if err != nil {
		return nil, err
	}

	titles := make([]string, 0, len(matches))
	for title := range matches {
		titles = append(titles, title)
	}
	sort.Strings(titles)
	return titles, nil
}

// Rank returns the documents matched by Search ordered by score, highest
// first, with ties broken by title. The score of a document is the sum of
// the frequencies of the query terms it contains. At most limit hits are
// returned; limit <= 0 returns all of them.
func (e *Engine) Rank(ctx context.Context, query string, limit int) ([]model.Hit, error) {
	matches, err := e.match(ctx, query)
	if err != nil {
		return nil, err
	}
	return e.hits(ctx, matches, limit)
}

// Report runs query and returns the ranked hits together with the index
// size and the number of matches before the limit was applied.
func (e *Engine) Report(ctx context.Context, query string, limit int) (*model.SearchReport, error) {
	total, err := e.index.DocumentCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count documents: %w", err)
	}

	matches, err := e.match(ctx, query)
	if err != nil {
		return nil, err
	}

	hits, err := e.hits(ctx, matches, limit)
	if err != nil {
		return nil, err
	}

	return &model.SearchReport{
		Query:          query,
		TotalDocuments: total,
		Matched:        len(matches),
		Hits:           hits,
	}, nil
}

// match looks up the postings of every query term and returns, per
// matching title, the frequency of each term it contains.
func (e *Engine) match(ctx context.Context, query string) (map[string]map[string]int, error) {
	terms := Terms(query)
	matches := make(map[string]map[string]int)
	if len(terms) == 0 {
		e.metrics.ObserveSearch(metrics.ResultEmptyQuery, 0)
		return matches, nil
	}

	for _, term := range terms {
		postings, err := e.index.PostingsForTerm(ctx, term)
		if err != nil {
			e.metrics.ObserveSearch(metrics.ResultError, 0)
			return nil, fmt.Errorf("failed to look up %q: %w", term, err)
		}
		for _, p := range postings {
			freqs, ok := matches[p.Title]
			if !ok {
				freqs = make(map[string]int)
				matches[p.Title] = freqs
			}
			freqs[term] = p.Frequency
		}
	}

	resultType := metrics.ResultHit
	if len(matches) == 0 {
		resultType = metrics.ResultZero
	}
	e.metrics.ObserveSearch(resultType, len(matches))
	e.logger.Debug("search", "terms", terms, "matched", len(matches))

	return matches, nil
}

func (e *Engine) hits(ctx context.Context, matches map[string]map[string]int, limit int) ([]model.Hit, error) {
	hits := make([]model.Hit, 0, len(matches))
	for title, freqs := range matches {
		score := 0
		for _, f := range freqs {
			score += f
		}
		hits = append(hits, model.Hit{Title: title, Score: score, Frequencies: freqs})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Title < hits[j].Title
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}

	for i := range hits {
		url, err := e.index.URLForTitle(ctx, hits[i].Title)
		if err != nil {
			return nil, fmt.Errorf("failed to look up url of %q: %w", hits[i].Title, err)
		}
		hits[i].URL = url
	}
	return hits, nil
}
