// Package pipeline runs the steps that turn seed URLs into an index.
//
// A Pipeline executes its Steps in order against one model.IndexRun.
// The usual sequence is CrawlStep, FetchTextStep, and BuildStep: the crawl
// discovers documents, missing texts are fetched, and the builder writes
// documents and postings. When documents are loaded from a saved crawl,
// the crawl step is left out and FetchTextStep supplies every text.
//
// The pipeline stops at the first failing step unless WithContinueOnError
// is set. Cancellation is checked between steps.
package pipeline
