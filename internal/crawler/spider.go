package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/zotsearch/zotsearch/internal/metrics"
	"github.com/zotsearch/zotsearch/internal/model"
)

// Spider performs depth-bounded recursive crawls of an article graph.
// A Spider holds only configuration; all per-crawl state lives in the
// run created by each Crawl call.
type Spider struct {
	// fetcher retrieves and parses a single page.
	fetcher Fetcher

	// filter decides which discovered links are followed.
	filter *LinkFilter

	// delay is the blocking pause taken before every fetch.
	delay time.Duration

	// maxPages stops the crawl after this many successful fetches.
	// 0 means no limit.
	maxPages int

	logger  *slog.Logger
	metrics *metrics.Metrics
}

// SpiderOption configures a Spider.
type SpiderOption func(*Spider)

// WithDelay sets the pause taken before every fetch.
func WithDelay(d time.Duration) SpiderOption {
	return func(s *Spider) {
		s.delay = d
	}
}

// WithMaxPages caps the number of pages fetched by one crawl.
func WithMaxPages(maxPages int) SpiderOption {
	return func(s *Spider) {
		s.maxPages = maxPages
	}
}

// WithLogger sets the logger used for crawl progress and fetch failures.
func WithLogger(logger *slog.Logger) SpiderOption {
	return func(s *Spider) {
		s.logger = logger
	}
}

// WithMetrics sets the collectors updated on every fetch.
func WithMetrics(m *metrics.Metrics) SpiderOption {
	return func(s *Spider) {
		s.metrics = m
	}
}

// NewSpider creates a Spider that fetches with fetcher and follows links
// accepted by filter.
func NewSpider(fetcher Fetcher, filter *LinkFilter, opts ...SpiderOption) *Spider {
	s := &Spider{
		fetcher: fetcher,
		filter:  filter,
		delay:   1 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Crawl fetches seedURL and, while height allows, the followable links
// reachable from it. The result maps every discovered title to the URL it
// was first found at. Fetch failures are logged and drop only the failing
// branch. If ctx is cancelled, the partial result is returned with
// ctx.Err().
func (s *Spider) Crawl(ctx context.Context, seedURL string, height int) (*model.CrawlResult, error) {
	seed, err := url.Parse(seedURL)
	if err != nil {
		return nil, fmt.Errorf("invalid seed URL: %w", err)
	}
	if seed.Host == "" || (seed.Scheme != "http" && seed.Scheme != "https") {
		return nil, fmt.Errorf("invalid seed URL %q: absolute http(s) URL required", seedURL)
	}

	run := &crawlRun{
		spider:  s,
		visited: make(map[string]bool),
	}

	started := time.Now()
	result := run.visit(ctx, normalizeURL(seedURL), height)

	s.logger.Info("crawl finished",
		"seed", seedURL,
		"height", height,
		"documents", result.Len(),
		"visited", len(run.visited),
		"failures", run.failures,
		"elapsed", time.Since(started).Round(time.Millisecond),
	)

	return result, ctx.Err()
}

// crawlRun is the state of a single Crawl call.
type crawlRun struct {
	spider *Spider

	// visited holds every normalized URL a fetch was attempted for.
	visited map[string]bool

	// pages counts successful fetches.
	pages int

	// failures counts failed fetches.
	failures int
}

// visit crawls pageURL with the given remaining height and returns the
// documents found in its subtree.
func (r *crawlRun) visit(ctx context.Context, pageURL string, height int) *model.CrawlResult {
	result := model.NewCrawlResult()

	if r.visited[pageURL] || height < 0 {
		return result
	}
	if ctx.Err() != nil || r.limitReached() {
		return result
	}
	r.visited[pageURL] = true

	r.spider.logger.Info("crawling", "url", pageURL, "height", height)

	if err := r.pause(ctx); err != nil {
		return result
	}

	started := time.Now()
	page, err := r.spider.fetcher.Fetch(ctx, pageURL)
	r.spider.metrics.ObserveFetch(time.Since(started), err)
	if err != nil {
		r.failures++
		r.spider.logger.Warn("error crawling page", "url", pageURL, "error", err)
		return result
	}
	r.pages++

	result.Add(page.Title, pageURL, page.Text)
	r.spider.logger.Debug("fetched page", "url", pageURL, "title", page.Title, "text", page.Text)

	if height-1 < 0 {
		return result
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return result
	}
	for _, href := range page.Links {
		link := resolveURL(base, href)
		if link == "" {
			continue
		}
		link = normalizeURL(link)
		if !r.spider.filter.IsFollowable(link) || r.visited[link] {
			continue
		}
		result.Merge(r.visit(ctx, link, height-1))
	}

	return result
}

// pause blocks for the politeness delay.
func (r *crawlRun) pause(ctx context.Context) error {
	if r.spider.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(r.spider.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (r *crawlRun) limitReached() bool {
	return r.spider.maxPages > 0 && r.pages >= r.spider.maxPages
}

// normalizeURL normalizes a URL for deduplication: the fragment is
// dropped, scheme and host are lower-cased, and an empty path becomes "/".
func normalizeURL(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return pageURL
	}

	u.Fragment = ""
	u.RawFragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if u.Path == "" {
		u.Path = "/"
	}

	return u.String()
}
