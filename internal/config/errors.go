package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrNoSeed is returned when a crawl is requested without a seed URL.
	ErrNoSeed = errors.New("no seed specified: provide at least one article URL")

	// ErrInvalidHeight is returned when the crawl height is negative.
	ErrInvalidHeight = errors.New("invalid height: must be non-negative")

	// ErrInvalidMaxPages is returned when the page limit is negative.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be non-negative")

	// ErrInvalidCrawlDelay is returned when the crawl delay is negative.
	ErrInvalidCrawlDelay = errors.New("invalid crawl delay: must be non-negative")

	// ErrInvalidTimeout is returned when the request timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidMaxResults is returned when the result cap is negative.
	ErrInvalidMaxResults = errors.New("invalid max results: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and --markdown are set.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrUnknownDriver is returned for a database driver other than sqlite or postgres.
	ErrUnknownDriver = errors.New("unknown database driver: use sqlite or postgres")

	// ErrMissingDBDir is returned when the SQLite driver has no directory.
	ErrMissingDBDir = errors.New("missing database directory for sqlite driver")

	// ErrMissingDSN is returned when the postgres driver has no DSN.
	ErrMissingDSN = errors.New("missing DSN for postgres driver")

	// ErrInvalidSite is returned when the site host or article prefix is empty.
	ErrInvalidSite = errors.New("invalid site: host and article prefix are required")
)
