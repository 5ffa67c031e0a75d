package model

// Page is a single encyclopedia article as returned by a fetcher.
type Page struct {
	// URL is the address the page was fetched from.
	URL string `json:"url"`

	// Title is the article heading.
	Title string `json:"title"`

	// Text is the concatenated paragraph text of the article body,
	// one paragraph per line, with citation markers removed.
	Text string `json:"text"`

	// Links holds the hrefs found in the article body in document order.
	// Fetchers may return them relative to URL; they are not filtered.
	Links []string `json:"links,omitempty"`
}
