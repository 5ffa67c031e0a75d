package model

import "time"

// Document is an indexed article. Title is its identity.
type Document struct {
	Title       string    `json:"title" db:"title"`
	URL         string    `json:"url" db:"url"`
	Content     string    `json:"content" db:"content"`
	ContentHash string    `json:"content_hash" db:"content_hash"`
	IndexedAt   time.Time `json:"indexed_at" db:"indexed_at"`
}

// Posting records how often Term occurs in the document titled Title.
type Posting struct {
	Term      string `json:"term" db:"term"`
	Title     string `json:"title" db:"title"`
	Frequency int    `json:"frequency" db:"frequency"`
}
