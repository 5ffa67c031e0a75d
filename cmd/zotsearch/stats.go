package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewStatsCmd creates the stats command.
func NewStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print index statistics",
		Long:  `Print the number of indexed documents, distinct terms, and posting rows.`,
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
}

// runStatsCmd executes the stats command.
func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	db, err := openIndex(cfg, false)
	if err != nil {
		return fmt.Errorf("%w (run 'zotsearch index' first)", err)
	}
	defer db.Close()

	ctx := context.Background()
	documents, err := db.DocumentCount(ctx)
	if err != nil {
		return err
	}
	terms, err := db.TermCount(ctx)
	if err != nil {
		return err
	}
	postings, err := db.PostingCount(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	location := db.Path()
	if location == "" {
		location = "postgres"
	}
	fmt.Fprintf(out, "Index:     %s\n", location)
	fmt.Fprintf(out, "Documents: %d\n", documents)
	fmt.Fprintf(out, "Terms:     %d\n", terms)
	fmt.Fprintf(out, "Postings:  %d\n", postings)
	return nil
}
