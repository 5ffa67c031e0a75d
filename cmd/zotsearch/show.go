package main

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"
)

// NewShowCmd creates the show command.
func NewShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show TITLE...",
		Short: "Print a stored document",
		Long: `Show prints the URL, length, and indexing time of a stored article
followed by its text. Arguments are joined with spaces to form the title,
which must match exactly.

Examples:
  zotsearch show Anteater
  zotsearch show Giant anteater
  zotsearch show --text Anteater`,
		Args: cobra.MinimumNArgs(1),
		RunE: runShowCmd,
	}

	cmd.Flags().Bool("text", false, "Print only the document text")

	return cmd
}

// runShowCmd executes the show command.
func runShowCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	textOnly, err := cmd.Flags().GetBool("text")
	if err != nil {
		return err
	}

	db, err := openIndex(cfg, false)
	if err != nil {
		return fmt.Errorf("%w (run 'zotsearch index' first)", err)
	}
	defer db.Close()

	ctx := context.Background()
	title := strings.Join(args, " ")
	out := cmd.OutOrStdout()

	if textOnly {
		text, err := db.TextForTitle(ctx, title)
		if err != nil {
			return err
		}
		if text == "" {
			return fmt.Errorf("document %q not found", title)
		}
		fmt.Fprint(out, withTrailingNewline(text))
		return nil
	}

	doc, err := db.GetDocument(ctx, title)
	if err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("document %q not found", title)
	}

	fmt.Fprintf(out, "Title:   %s\n", doc.Title)
	fmt.Fprintf(out, "URL:     %s\n", doc.URL)
	fmt.Fprintf(out, "Length:  %d characters\n", utf8.RuneCountInString(doc.Content))
	if !doc.IndexedAt.IsZero() {
		fmt.Fprintf(out, "Indexed: %s\n", doc.IndexedAt.Format(time.RFC3339))
	}
	fmt.Fprintln(out)
	fmt.Fprint(out, withTrailingNewline(doc.Content))
	return nil
}

func withTrailingNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
