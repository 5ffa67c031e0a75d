// Package report renders search results.
//
// This package contains writers for different output formats:
//   - SimpleWriter: title, URL, and a blank line per hit, for terminals
//   - JSONWriter: structured JSON output for tool integration
//   - MarkdownWriter: a ranked table for sharing
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output.
package report
