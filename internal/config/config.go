package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "zotsearch"

	// DefaultHeight is the number of link hops followed from the seed page.
	DefaultHeight = 1

	// DefaultCrawlDelay is the pause taken before every page fetch.
	DefaultCrawlDelay = 1 * time.Second

	// DefaultTimeout bounds a single HTTP request.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent is sent with every request. Wikimedia asks clients
	// to identify themselves with a contact URL.
	DefaultUserAgent = "zotsearch/1.0 (+https://github.com/zotsearch/zotsearch)"

	// DefaultMaxBodySize limits how much of a response body is read.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultMaxResults caps the number of printed search results.
	DefaultMaxResults = 10

	// DefaultHost is the encyclopedia host whose articles are followed.
	DefaultHost = "en.wikipedia.org"

	// DefaultArticlePrefix is the path prefix of article pages.
	DefaultArticlePrefix = "/wiki/"

	// DefaultNamespaceSeparator marks non-article pages such as
	// Talk:, Category: or File: pages.
	DefaultNamespaceSeparator = ":"

	// DriverSQLite selects the embedded SQLite store.
	DriverSQLite = "sqlite"

	// DriverPostgres selects a PostgreSQL store reached through DSN.
	DriverPostgres = "postgres"
)

// Config holds all configuration options for zotsearch.
// It is populated from defaults, the config file, and CLI flags, in that
// order, and passed down explicitly.
type Config struct {
	// Seeds are the URLs crawls start from.
	Seeds []string

	// Height is the remaining link-hop budget at the seed page.
	// 0 fetches only the seed.
	Height int

	// MaxPages stops a crawl after this many successful fetches.
	// 0 means no limit.
	MaxPages int

	// CrawlDelay is the blocking pause before each fetch.
	CrawlDelay time.Duration

	// Timeout bounds each HTTP request.
	Timeout time.Duration

	// UserAgent is the User-Agent header sent with requests.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes.
	MaxBodySize int64

	// Site describes which links are followable.
	Site SiteConfig

	// DBDriver is DriverSQLite or DriverPostgres.
	DBDriver string

	// DBDir is the directory holding the SQLite database file.
	// Defaults to the XDG data directory.
	DBDir string

	// DSN is the PostgreSQL connection string. Unused for SQLite.
	DSN string

	// MaxResults caps printed search results. 0 prints all of them.
	MaxResults int

	// ShowScore prints each result's score.
	ShowScore bool

	// JSONReport and MarkdownReport select the search output format.
	// They are mutually exclusive.
	JSONReport     bool
	MarkdownReport bool

	// ReportFile, when set, also receives the report in the selected format.
	ReportFile string

	// MetricsFile, when set, receives a Prometheus text exposition of
	// the run's counters when the command finishes.
	MetricsFile string

	// ConfigFilePath is the configuration file given on the command line.
	ConfigFilePath string

	// Verbose enables debug logging.
	Verbose bool
}

// NewConfig creates a Config populated with default values.
func NewConfig() *Config {
	return &Config{
		Height:      DefaultHeight,
		CrawlDelay:  DefaultCrawlDelay,
		Timeout:     DefaultTimeout,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
		Site: SiteConfig{
			Host:               DefaultHost,
			ArticlePrefix:      DefaultArticlePrefix,
			NamespaceSeparator: DefaultNamespaceSeparator,
		},
		DBDriver:   DriverSQLite,
		DBDir:      XDGDataDir(),
		MaxResults: DefaultMaxResults,
	}
}

// XDGDataDir returns the XDG data directory for zotsearch.
// On Linux: ~/.local/share/zotsearch
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for zotsearch.
// On Linux: ~/.config/zotsearch
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the crawl and storage settings and returns the first
// problem found.
func (c *Config) Validate() error {
	if c.Height < 0 {
		return ErrInvalidHeight
	}
	if c.MaxPages < 0 {
		return ErrInvalidMaxPages
	}
	if c.CrawlDelay < 0 {
		return ErrInvalidCrawlDelay
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.MaxResults < 0 {
		return ErrInvalidMaxResults
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	switch c.DBDriver {
	case DriverSQLite:
		if c.DBDir == "" {
			return ErrMissingDBDir
		}
	case DriverPostgres:
		if c.DSN == "" {
			return ErrMissingDSN
		}
	default:
		return ErrUnknownDriver
	}
	if c.Site.Host == "" || c.Site.ArticlePrefix == "" {
		return ErrInvalidSite
	}
	return nil
}

// ValidateSeeds checks that at least one seed URL is present.
func (c *Config) ValidateSeeds() error {
	if len(c.Seeds) == 0 {
		return ErrNoSeed
	}
	return nil
}
