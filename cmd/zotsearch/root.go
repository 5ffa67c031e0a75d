package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zotsearch/zotsearch/internal/config"
)

// NewRootCmd creates the root command for zotsearch.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zotsearch",
		Short: "Crawl encyclopedia articles and search them by keyword",
		Long: `zotsearch crawls a bounded neighborhood of an online encyclopedia's article
graph starting from seed pages, stores the article text in an inverted index,
and answers keyword queries ranked by term frequency.

A multi-term query returns every article containing at least one of the terms.

The index lives in SQLite under the XDG data directory by default.
Use --db-driver postgres with --dsn to keep it in PostgreSQL instead.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .zotsearch in current or home directory)")
	cmd.PersistentFlags().String("db-driver", config.DriverSQLite,
		"Index database driver (sqlite or postgres)")
	cmd.PersistentFlags().String("dsn", "",
		"PostgreSQL connection string (with --db-driver postgres)")
	cmd.PersistentFlags().String("db-dir", "",
		"Directory of the SQLite index (default: XDG data directory)")
	cmd.PersistentFlags().String("metrics-file", "",
		"Write Prometheus metrics of the run to this file")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewIndexCmd())
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewStatsCmd())
	cmd.AddCommand(NewShowCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
