// Package log builds the slog loggers used by zotsearch.
//
// Crawl and index code logs whole pages worth of text when debugging is
// enabled. The ElidingHandler wraps any slog.Handler and keeps those
// records readable:
//   - attributes whose key names bulk content (text, content, body, html)
//     are replaced with a byte count
//   - any other string attribute longer than MaxValueLen is truncated
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
package log
