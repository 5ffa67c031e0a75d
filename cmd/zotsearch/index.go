package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zotsearch/zotsearch/internal/index"
	"github.com/zotsearch/zotsearch/internal/metrics"
	"github.com/zotsearch/zotsearch/internal/model"
	"github.com/zotsearch/zotsearch/internal/pipeline"
)

// NewIndexCmd creates the index command.
func NewIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index [SEED...]",
		Short: "Crawl articles and add them to the index",
		Long: `Index crawls from each seed like "zotsearch crawl" and writes every
discovered article into the index. With --from, the documents of a saved
crawl are fetched again for their text and indexed without crawling.

A title that is already indexed keeps its stored URL and text, while its
term frequencies are replaced with the ones of the newly fetched text.

Seeds may also be listed in the configuration file under crawl.seeds.

Examples:
  # Index the seed and its direct links
  zotsearch index https://en.wikipedia.org/wiki/Anteater

  # Index a saved crawl
  zotsearch index --from anteater.yaml`,
		Args: cobra.ArbitraryArgs,
		RunE: runIndexCmd,
	}

	addCrawlFlags(cmd)
	cmd.Flags().String("from", "",
		"Index the documents of a crawl file written by 'zotsearch crawl -o'")

	return cmd
}

// runIndexCmd executes the index command.
func runIndexCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyCrawlFlags(cmd, cfg); err != nil {
		return err
	}
	if len(args) > 0 {
		cfg.Seeds = args
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	fromFile, err := cmd.Flags().GetString("from")
	if err != nil {
		return err
	}
	if fromFile != "" && len(args) > 0 {
		return errors.New("seeds and --from are mutually exclusive")
	}

	run := &model.IndexRun{Height: cfg.Height}
	if fromFile != "" {
		run.Result, err = readCrawlFile(fromFile)
		if err != nil {
			return err
		}
	} else {
		if err := cfg.ValidateSeeds(); err != nil {
			return err
		}
		run.Seeds = cfg.Seeds
	}

	logger := setupLogger(cmd, cfg)
	ctx, cancel := signalContext(context.Background(), logger)
	defer cancel()

	m := metrics.New()
	defer writeMetrics(cfg, m, logger)

	db, err := openIndex(cfg, true)
	if err != nil {
		return err
	}
	defer db.Close()

	fetcher := newFetcher(cfg)
	var c pipeline.Crawler
	if fromFile == "" {
		c = newSpider(cfg, fetcher, logger, m)
	}

	fetch := pipeline.NewFetchTextStep(fetcher,
		pipeline.WithFetchDelay(cfg.CrawlDelay),
		pipeline.WithFetchLogger(logger),
		pipeline.WithFetchMetrics(m),
	)
	builder := index.NewBuilder(db,
		index.WithBuilderLogger(logger),
		index.WithBuilderMetrics(m),
	)
	p := pipeline.NewIndexPipeline(c, fetch, builder, pipeline.WithLogger(logger))
	logger.Info("indexing", "seeds", len(run.Seeds), "steps", p.StepNames())

	started := time.Now()
	if err := p.Execute(ctx, run); err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d documents (%d new, %d postings) in %s\n",
		run.Indexed, run.NewDocuments, run.Postings, time.Since(started).Round(time.Millisecond))
	return nil
}
