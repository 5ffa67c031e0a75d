package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/zotsearch/zotsearch/internal/crawler"
	"github.com/zotsearch/zotsearch/internal/index"
	"github.com/zotsearch/zotsearch/internal/metrics"
	"github.com/zotsearch/zotsearch/internal/model"
)

// ErrNoDocuments is returned by steps that need a crawl result when the
// run has none.
var ErrNoDocuments = errors.New("no documents to index")

// Crawler is implemented by crawler.Spider.
type Crawler interface {
	Crawl(ctx context.Context, seedURL string, height int) (*model.CrawlResult, error)
}

// CrawlStep crawls every seed of the run and merges the results.
// Seeds are crawled in order, so a title reachable from several seeds
// keeps the URL found from the earliest one.
type CrawlStep struct {
	crawler Crawler
	logger  *slog.Logger
}

// NewCrawlStep creates a crawl step.
func NewCrawlStep(c Crawler, logger *slog.Logger) *CrawlStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &CrawlStep{crawler: c, logger: logger}
}

// Name returns the step name.
func (s *CrawlStep) Name() string {
	return "crawl"
}

// Do executes the crawl step.
func (s *CrawlStep) Do(ctx context.Context, run *model.IndexRun) error {
	if run.Result == nil {
		run.Result = model.NewCrawlResult()
	}

	for _, seed := range run.Seeds {
		result, err := s.crawler.Crawl(ctx, seed, run.Height)
		run.Result.Merge(result)
		if err != nil {
			return fmt.Errorf("crawl of %s failed: %w", seed, err)
		}
		s.logger.Debug("seed crawled", "seed", seed, "documents", result.Len())
	}

	if run.Result.Len() == 0 {
		return ErrNoDocuments
	}
	return nil
}

// FetchTextStep fetches the text of every document that has a URL but no
// text yet. A document whose fetch fails is left without text and is
// skipped by the index builder.
type FetchTextStep struct {
	fetcher crawler.Fetcher
	delay   time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// FetchTextStepOption configures a FetchTextStep.
type FetchTextStepOption func(*FetchTextStep)

// WithFetchDelay sets the pause taken before every fetch.
func WithFetchDelay(d time.Duration) FetchTextStepOption {
	return func(s *FetchTextStep) {
		s.delay = d
	}
}

// WithFetchLogger sets a custom logger for the fetch step.
func WithFetchLogger(logger *slog.Logger) FetchTextStepOption {
	return func(s *FetchTextStep) {
		s.logger = logger
	}
}

// WithFetchMetrics sets the collectors updated on every fetch.
func WithFetchMetrics(m *metrics.Metrics) FetchTextStepOption {
	return func(s *FetchTextStep) {
		s.metrics = m
	}
}

// NewFetchTextStep creates a step that fills missing texts with fetcher.
func NewFetchTextStep(fetcher crawler.Fetcher, opts ...FetchTextStepOption) *FetchTextStep {
	s := &FetchTextStep{
		fetcher: fetcher,
		delay:   1 * time.Second,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *FetchTextStep) Name() string {
	return "fetch_text"
}

// Do executes the fetch step.
func (s *FetchTextStep) Do(ctx context.Context, run *model.IndexRun) error {
	if run.Result == nil || run.Result.Len() == 0 {
		return ErrNoDocuments
	}

	fetched, failed := 0, 0
	for _, title := range run.Result.Titles() {
		if _, ok := run.Result.Texts[title]; ok {
			continue
		}

		if err := s.pause(ctx); err != nil {
			return err
		}

		pageURL := run.Result.Documents[title]
		started := time.Now()
		page, err := s.fetcher.Fetch(ctx, pageURL)
		s.metrics.ObserveFetch(time.Since(started), err)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Warn("fetch failed", "title", title, "url", pageURL, "error", err)
			failed++
			continue
		}

		run.Result.Texts[title] = page.Text
		fetched++
	}

	if fetched > 0 || failed > 0 {
		s.logger.Info("texts fetched", "fetched", fetched, "failed", failed)
	}
	return nil
}

func (s *FetchTextStep) pause(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// BuildStep writes the run's documents into the index.
type BuildStep struct {
	builder *index.Builder
}

// NewBuildStep creates a build step.
func NewBuildStep(builder *index.Builder) *BuildStep {
	return &BuildStep{builder: builder}
}

// Name returns the step name.
func (s *BuildStep) Name() string {
	return "build_index"
}

// Do executes the build step.
func (s *BuildStep) Do(ctx context.Context, run *model.IndexRun) error {
	if run.Result == nil {
		return ErrNoDocuments
	}

	stats, err := s.builder.Build(ctx, run.Result.Documents, run.Result.Texts)
	run.Indexed += stats.Documents
	run.NewDocuments += stats.NewDocuments
	run.Postings += stats.Postings
	return err
}

// NewIndexPipeline creates the standard crawl, fetch, and build pipeline.
// A nil c leaves out the crawl step, for runs whose documents were loaded
// from a saved crawl.
func NewIndexPipeline(c Crawler, fetch *FetchTextStep, builder *index.Builder, opts ...Option) *Pipeline {
	p := New(opts...)
	if c != nil {
		p.AddStep(NewCrawlStep(c, p.logger))
	}
	p.AddSteps(fetch, NewBuildStep(builder))
	return p
}
