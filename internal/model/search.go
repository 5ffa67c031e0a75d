package model

// Hit is one ranked search result.
type Hit struct {
	Title string `json:"title"`
	URL   string `json:"url"`

	// Score is the sum of the query terms' frequencies in the document.
	Score int `json:"score"`

	// Frequencies holds the per-term frequency that made up Score.
	Frequencies map[string]int `json:"frequencies,omitempty"`
}

// SearchReport is what report writers render for one query.
type SearchReport struct {
	Query string `json:"query"`

	// TotalDocuments is the number of documents in the index.
	TotalDocuments int `json:"total_documents"`

	// Matched is the size of the union result before the result cap.
	Matched int `json:"matched"`

	Hits []Hit `json:"hits"`

	// ShowScore asks writers to print the score next to each title.
	ShowScore bool `json:"-"`
}
