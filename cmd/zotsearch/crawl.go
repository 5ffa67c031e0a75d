package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/zotsearch/zotsearch/internal/metrics"
	"github.com/zotsearch/zotsearch/internal/model"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl SEED...",
		Short: "Crawl articles and print the discovered titles and URLs",
		Long: `Crawl fetches each seed article and, up to --height link hops away, every
article it links to. Only links to articles on the configured host are
followed; talk, category, and file pages are skipped.

The result maps each discovered title to the URL it was first found at and
is written as YAML. Save it with -o and index it later with
"zotsearch index --from FILE".

Examples:
  # Crawl the seed and its direct links
  zotsearch crawl https://en.wikipedia.org/wiki/Anteater

  # Crawl two hops deep and save the result
  zotsearch crawl --height 2 -o anteater.yaml https://en.wikipedia.org/wiki/Anteater`,
		Args: cobra.ArbitraryArgs,
		RunE: runCrawlCmd,
	}

	addCrawlFlags(cmd)
	cmd.Flags().StringP("output", "o", "",
		"Write the crawl result to this YAML file instead of stdout")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
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
	if err := cfg.ValidateSeeds(); err != nil {
		return err
	}

	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	logger := setupLogger(cmd, cfg)
	ctx, cancel := signalContext(context.Background(), logger)
	defer cancel()

	m := metrics.New()
	defer writeMetrics(cfg, m, logger)

	spider := newSpider(cfg, newFetcher(cfg), logger, m)

	result := model.NewCrawlResult()
	for _, seed := range cfg.Seeds {
		r, err := spider.Crawl(ctx, seed, cfg.Height)
		result.Merge(r)
		if err != nil {
			return fmt.Errorf("crawl of %s failed: %w", seed, err)
		}
	}

	var out io.Writer = cmd.OutOrStdout()
	if outputPath != "" {
		f, err := createOutputFile(outputPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	if err := writeCrawlResult(out, result); err != nil {
		return err
	}
	if outputPath != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %d documents to %s\n", result.Len(), outputPath)
	}
	return nil
}

// writeCrawlResult writes result as YAML.
func writeCrawlResult(w io.Writer, result *model.CrawlResult) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to encode crawl result: %w", err)
	}
	return enc.Close()
}

// readCrawlFile loads a crawl result written by writeCrawlResult.
// The texts of the loaded documents are empty.
func readCrawlFile(path string) (*model.CrawlResult, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided crawl file is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to read crawl file: %w", err)
	}

	result := model.NewCrawlResult()
	if err := yaml.Unmarshal(data, result); err != nil {
		return nil, fmt.Errorf("failed to parse crawl file %s: %w", path, err)
	}
	if result.Documents == nil {
		result.Documents = make(map[string]string)
	}
	return result, nil
}
