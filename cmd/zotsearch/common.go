package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zotsearch/zotsearch/internal/config"
	"github.com/zotsearch/zotsearch/internal/crawler"
	"github.com/zotsearch/zotsearch/internal/database"
	zlog "github.com/zotsearch/zotsearch/internal/log"
	"github.com/zotsearch/zotsearch/internal/metrics"
)

// loadConfig builds the configuration from defaults, the configuration
// file, and the persistent flags, in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicitly given file must exist; otherwise the defaults are
	// used when no file is found.
	if path := config.FindConfigFile(cfg.ConfigFilePath); path != "" {
		file, err := config.LoadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		file.Apply(cfg)
	} else if cfg.ConfigFilePath != "" {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	if cfg.Verbose, err = flags.GetBool("verbose"); err != nil {
		return nil, err
	}
	if flags.Changed("db-driver") {
		if cfg.DBDriver, err = flags.GetString("db-driver"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("dsn") {
		if cfg.DSN, err = flags.GetString("dsn"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("db-dir") {
		if cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
			return nil, err
		}
	}
	if cfg.MetricsFile, err = flags.GetString("metrics-file"); err != nil {
		return nil, err
	}

	return cfg, nil
}

// addCrawlFlags registers the flags shared by crawl and index.
func addCrawlFlags(cmd *cobra.Command) {
	cmd.Flags().Int("height", config.DefaultHeight,
		"Number of link hops followed from each seed (0 fetches only the seed)")
	cmd.Flags().IntP("max-pages", "p", 0,
		"Stop a crawl after this many pages (0 means no limit)")
	cmd.Flags().Duration("delay", config.DefaultCrawlDelay,
		"Pause before every page fetch")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each HTTP request")
}

// applyCrawlFlags copies the crawl flags the user set onto cfg.
func applyCrawlFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error

	if flags.Changed("height") {
		if cfg.Height, err = flags.GetInt("height"); err != nil {
			return err
		}
	}
	if flags.Changed("max-pages") {
		if cfg.MaxPages, err = flags.GetInt("max-pages"); err != nil {
			return err
		}
	}
	if flags.Changed("delay") {
		if cfg.CrawlDelay, err = flags.GetDuration("delay"); err != nil {
			return err
		}
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return err
		}
	}
	return nil
}

// setupLogger creates the structured logger for a command.
func setupLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	return zlog.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context, logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sigCh)
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// openIndex opens the index database described by cfg. With create
// false, a missing SQLite database is an error.
func openIndex(cfg *config.Config, create bool) (*database.IndexDB, error) {
	opts := database.DefaultOptions(cfg.DBDir)
	opts.Driver = cfg.DBDriver
	opts.DSN = cfg.DSN
	opts.CreateIfNotExists = create

	db, err := database.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	return db, nil
}

// newFetcher creates the HTTP page fetcher configured by cfg.
func newFetcher(cfg *config.Config) *crawler.HTTPFetcher {
	client := &http.Client{Timeout: cfg.Timeout}
	return crawler.NewHTTPFetcher(client,
		crawler.WithUserAgent(cfg.UserAgent),
		crawler.WithMaxBodySize(cfg.MaxBodySize),
	)
}

// newSpider creates the crawler configured by cfg.
func newSpider(cfg *config.Config, fetcher crawler.Fetcher, logger *slog.Logger, m *metrics.Metrics) *crawler.Spider {
	filter := crawler.NewLinkFilter(cfg.Site.Host, cfg.Site.ArticlePrefix, cfg.Site.NamespaceSeparator)
	return crawler.NewSpider(fetcher, filter,
		crawler.WithDelay(cfg.CrawlDelay),
		crawler.WithMaxPages(cfg.MaxPages),
		crawler.WithLogger(logger),
		crawler.WithMetrics(m),
	)
}

// writeMetrics exports m to cfg.MetricsFile when one is configured.
func writeMetrics(cfg *config.Config, m *metrics.Metrics, logger *slog.Logger) {
	if cfg.MetricsFile == "" {
		return
	}
	if err := m.WriteTextfile(cfg.MetricsFile); err != nil {
		logger.Error("failed to write metrics", "file", cfg.MetricsFile, "error", err)
	}
}

// createOutputFile creates path and its parent directories.
func createOutputFile(path string) (*os.File, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}
