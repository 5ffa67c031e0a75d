package index

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/crypto/sha3"

	"github.com/zotsearch/zotsearch/internal/metrics"
	"github.com/zotsearch/zotsearch/internal/model"
	"github.com/zotsearch/zotsearch/internal/tokenizer"
)

// Store is the write side of the index used by Builder.
type Store interface {
	PutDocumentIfAbsent(ctx context.Context, doc *model.Document) (bool, error)
	UpsertPostings(ctx context.Context, title string, frequencies map[string]int) error
	ContentHashForTitle(ctx context.Context, title string) (string, error)
}

// BuildStats summarizes one Build call.
type BuildStats struct {
	// Documents is the number of documents whose postings were written.
	Documents int

	// NewDocuments is the number of documents that were not stored before.
	NewDocuments int

	// Skipped is the number of texts without a URL.
	Skipped int

	// Postings is the number of posting rows inserted or replaced.
	Postings int
}

// Builder writes crawled documents into a Store.
type Builder struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithBuilderLogger sets the logger used by the Builder.
func WithBuilderLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) {
		b.logger = logger
	}
}

// WithBuilderMetrics sets the collectors updated per document.
func WithBuilderMetrics(m *metrics.Metrics) BuilderOption {
	return func(b *Builder) {
		b.metrics = m
	}
}

// NewBuilder creates a Builder writing to store.
func NewBuilder(store Store, opts ...BuilderOption) *Builder {
	b := &Builder{store: store}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	return b
}

// Build indexes every title of texts that also has a URL in documents.
// Titles are processed in lexical order. The first storage error aborts
// the build; documents written before it stay in the store.
func (b *Builder) Build(ctx context.Context, documents, texts map[string]string) (BuildStats, error) {
	var stats BuildStats

	titles := make([]string, 0, len(texts))
	for title := range texts {
		titles = append(titles, title)
	}
	sort.Strings(titles)

	for _, title := range titles {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		url, ok := documents[title]
		if !ok || url == "" {
			b.logger.Debug("skipping document without url", "title", title)
			b.metrics.ObserveDocument(metrics.OutcomeSkipped, 0)
			stats.Skipped++
			continue
		}

		text := texts[title]
		inserted, err := b.putDocument(ctx, title, url, text)
		if err != nil {
			return stats, err
		}

		frequencies := tokenizer.Frequencies(text)
		if err := b.store.UpsertPostings(ctx, title, frequencies); err != nil {
			return stats, fmt.Errorf("failed to index %q: %w", title, err)
		}

		outcome := metrics.OutcomeExisting
		if inserted {
			outcome = metrics.OutcomeNew
			stats.NewDocuments++
		}
		b.metrics.ObserveDocument(outcome, len(frequencies))
		b.logger.Debug("indexed document", "title", title, "outcome", outcome, "terms", len(frequencies))
		stats.Documents++
		stats.Postings += len(frequencies)
	}

	b.logger.Info("index built",
		"documents", stats.Documents,
		"new", stats.NewDocuments,
		"skipped", stats.Skipped,
		"postings", stats.Postings,
	)
	return stats, nil
}

// putDocument stores the document unless its title is known. For a known
// title whose text has changed, the stored document is kept and the change
// is logged.
func (b *Builder) putDocument(ctx context.Context, title, url, text string) (bool, error) {
	hash := ContentHash(text)

	inserted, err := b.store.PutDocumentIfAbsent(ctx, &model.Document{
		Title:       title,
		URL:         url,
		Content:     text,
		ContentHash: hash,
	})
	if err != nil {
		return false, fmt.Errorf("failed to store %q: %w", title, err)
	}
	if inserted {
		return true, nil
	}

	stored, err := b.store.ContentHashForTitle(ctx, title)
	if err != nil {
		return false, fmt.Errorf("failed to read hash of %q: %w", title, err)
	}
	if stored != hash {
		b.logger.Info("document text changed, stale postings are kept",
			"title", title,
			"url", url,
		)
	}
	return false, nil
}

// ContentHash returns the hex SHA3-256 digest of text.
func ContentHash(text string) string {
	sum := sha3.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
