package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zotsearch/zotsearch/internal/config"
	"github.com/zotsearch/zotsearch/internal/index"
	"github.com/zotsearch/zotsearch/internal/metrics"
	"github.com/zotsearch/zotsearch/internal/report"
)

// NewSearchCmd creates the search command.
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search QUERY...",
		Short: "Search the index",
		Long: `Search looks up every whitespace separated query term in the index and
prints the articles containing at least one of them, ordered by the summed
frequency of the query terms. Terms are matched case-insensitively and are
not stemmed, so "ant" does not match "ants".

Examples:
  zotsearch search ant colony
  zotsearch search -n 3 --score termite
  zotsearch search --json -o results.json ant`,
		Args: cobra.ArbitraryArgs,
		RunE: runSearchCmd,
	}

	cmd.Flags().IntP("max-results", "n", config.DefaultMaxResults,
		"Maximum number of results to print (0 prints all)")
	cmd.Flags().BoolP("score", "s", false,
		"Print the score of each result")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Also write the report to this file path (creates directories if needed)")

	return cmd
}

// runSearchCmd executes the search command.
func runSearchCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("max-results") {
		if cfg.MaxResults, err = flags.GetInt("max-results"); err != nil {
			return err
		}
	}
	if cfg.ShowScore, err = flags.GetBool("score"); err != nil {
		return err
	}
	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd, cfg)
	ctx, cancel := signalContext(context.Background(), logger)
	defer cancel()

	m := metrics.New()
	defer writeMetrics(cfg, m, logger)

	db, err := openIndex(cfg, false)
	if err != nil {
		return fmt.Errorf("%w (run 'zotsearch index' first)", err)
	}
	defer db.Close()

	engine := index.NewEngine(db,
		index.WithEngineLogger(logger),
		index.WithEngineMetrics(m),
	)

	result, err := engine.Report(ctx, strings.Join(args, " "), cfg.MaxResults)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	result.ShowScore = cfg.ShowScore

	writer := newReportWriter(cfg, cmd.OutOrStdout())
	if cfg.ReportFile != "" {
		f, err := createOutputFile(cfg.ReportFile)
		if err != nil {
			return err
		}
		defer f.Close()
		// The terminal keeps the plain listing; the file gets the selected format.
		writer = report.NewMultiWriter(
			report.NewSimpleWriter(cmd.OutOrStdout(), report.WithVerbose(cfg.Verbose)),
			newReportWriter(cfg, f),
		)
	}

	_, err = writer.Write(result)
	return err
}

// newReportWriter returns the writer for the format selected in cfg.
func newReportWriter(cfg *config.Config, out io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(out, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(out)
	default:
		return report.NewSimpleWriter(out, report.WithVerbose(cfg.Verbose))
	}
}
