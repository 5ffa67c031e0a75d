// Package main provides the entry point for the zotsearch CLI.
//
// zotsearch crawls a bounded neighborhood of an online encyclopedia,
// builds an inverted index of the article text, and answers keyword
// queries against it.
//
// Usage:
//
//	zotsearch index https://en.wikipedia.org/wiki/Anteater --height 1
//	zotsearch search ant colony
//
// See --help for all available options.
package main

// main is the entry point for zotsearch.
func main() {
	Execute()
}
