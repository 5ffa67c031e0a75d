package crawler

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedStatus is wrapped by FetchError when the server answers
	// with a non-2xx status code.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")

	// ErrMarkupNotFound is wrapped by FetchError when the page lacks the
	// article heading.
	ErrMarkupNotFound = errors.New("article markup not found")
)

// FetchError reports a page that could not be fetched or parsed.
// It only ever affects the crawl branch rooted at URL.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: %v (status %d)", e.URL, e.Err, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
