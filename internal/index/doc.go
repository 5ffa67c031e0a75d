// Package index builds and queries the inverted index.
//
// Builder turns crawled documents into Document and Posting rows: every
// text is tokenized, term occurrences are counted, and one posting per
// (term, title) is upserted. Documents are first-write-wins, postings are
// last-write-wins. Postings for terms that disappeared from a changed text
// are left in place.
//
// Engine answers keyword queries. A multi-term query matches every
// document that contains at least one of the terms: results are the union
// of the per-term posting lists, not their intersection. Rank orders that
// union by the sum of the per-term frequencies.
package index
