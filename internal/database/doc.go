// Package database provides the persistent inverted index for zotsearch.
//
// IndexDB stores two tables:
//   - documents: one row per article title (title, url, content, hash)
//   - postings: one row per (term, title) pair with the term's frequency
//
// Documents are first-write-wins: a second insert for the same title is
// ignored. Postings are last-write-wins: an upsert replaces the frequency.
// Postings for terms that no longer occur in a re-indexed document are
// left in place.
//
// The default backend is SQLite via modernc.org/sqlite, a single CGO-free
// file in the XDG data directory. PostgreSQL (github.com/lib/pq) is
// supported for shared indexes. Queries are written once with "?"
// placeholders and rebound by sqlx for the active driver.
package database
