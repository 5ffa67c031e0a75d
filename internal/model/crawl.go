package model

import "sort"

// CrawlResult is the output of one crawl run.
// Documents maps each discovered article title to the URL it was first
// found at; Texts maps the same titles to the text of that page.
type CrawlResult struct {
	Documents map[string]string `json:"documents" yaml:"documents"`
	Texts     map[string]string `json:"-" yaml:"-"`
}

// NewCrawlResult returns an empty CrawlResult.
func NewCrawlResult() *CrawlResult {
	return &CrawlResult{
		Documents: make(map[string]string),
		Texts:     make(map[string]string),
	}
}

// Add records title at url with the given text.
// It returns false and changes nothing if the title is already present.
func (r *CrawlResult) Add(title, url, text string) bool {
	if _, ok := r.Documents[title]; ok {
		return false
	}
	r.Documents[title] = url
	r.Texts[title] = text
	return true
}

// Merge copies every title of other that r does not have yet.
// Titles already in r keep their URL and text, so the merge is
// order dependent: the first result to claim a title wins.
func (r *CrawlResult) Merge(other *CrawlResult) {
	if other == nil {
		return
	}
	for _, title := range other.Titles() {
		r.Add(title, other.Documents[title], other.Texts[title])
	}
}

// Len returns the number of documents in the result.
func (r *CrawlResult) Len() int {
	return len(r.Documents)
}

// Titles returns the document titles in lexical order.
func (r *CrawlResult) Titles() []string {
	titles := make([]string, 0, len(r.Documents))
	for title := range r.Documents {
		titles = append(titles, title)
	}
	sort.Strings(titles)
	return titles
}

// IndexRun carries the state of one crawl-and-index pipeline execution.
type IndexRun struct {
	// Seeds are the URLs the crawl starts from, in order. Empty when the
	// documents were loaded from a saved crawl.
	Seeds []string

	// Height is the link-hop budget for the crawl.
	Height int

	// Result is filled by the crawl step or pre-loaded by the caller.
	Result *CrawlResult

	// Indexed is the number of documents handed to the index builder.
	Indexed int

	// NewDocuments is the number of documents that were not in the index before.
	NewDocuments int

	// Postings is the number of posting rows written.
	Postings int

	// PerformedSteps lists the names of the steps that ran.
	PerformedSteps []string

	// Errors holds the messages of failed steps.
	Errors []string
}
