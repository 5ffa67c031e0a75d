package config

import "time"

// SiteConfig describes the encyclopedia being crawled.
type SiteConfig struct {
	// Host is the network location (host[:port]) articles must live on.
	Host string `yaml:"host,omitempty"`

	// ArticlePrefix is the path prefix shared by article pages.
	ArticlePrefix string `yaml:"articlePrefix,omitempty"`

	// NamespaceSeparator excludes paths containing it.
	NamespaceSeparator string `yaml:"namespaceSeparator,omitempty"`
}

// CrawlSection is the crawl part of the configuration file.
type CrawlSection struct {
	Height    *int          `yaml:"height,omitempty"`
	Delay     time.Duration `yaml:"delay,omitempty"`
	UserAgent string        `yaml:"userAgent,omitempty"`
	MaxPages  *int          `yaml:"maxPages,omitempty"`
	Seeds     []string      `yaml:"seeds,omitempty"`
}

// DatabaseSection is the database part of the configuration file.
type DatabaseSection struct {
	Driver string `yaml:"driver,omitempty"`
	DSN    string `yaml:"dsn,omitempty"`
	Dir    string `yaml:"dir,omitempty"`
}

// SearchSection is the search part of the configuration file.
type SearchSection struct {
	MaxResults *int `yaml:"maxResults,omitempty"`
}

// File represents the structure of the .zotsearch configuration file.
type File struct {
	Site     SiteConfig      `yaml:"site,omitempty"`
	Crawl    CrawlSection    `yaml:"crawl,omitempty"`
	Database DatabaseSection `yaml:"database,omitempty"`
	Search   SearchSection   `yaml:"search,omitempty"`
}

// Apply copies every value set in the file onto cfg.
// Zero values in the file leave cfg untouched. Height, maxPages and
// maxResults are pointers so that an explicit 0 is honored.
func (f *File) Apply(cfg *Config) {
	if f.Site.Host != "" {
		cfg.Site.Host = f.Site.Host
	}
	if f.Site.ArticlePrefix != "" {
		cfg.Site.ArticlePrefix = f.Site.ArticlePrefix
	}
	if f.Site.NamespaceSeparator != "" {
		cfg.Site.NamespaceSeparator = f.Site.NamespaceSeparator
	}

	if f.Crawl.Height != nil {
		cfg.Height = *f.Crawl.Height
	}
	if f.Crawl.Delay != 0 {
		cfg.CrawlDelay = f.Crawl.Delay
	}
	if f.Crawl.UserAgent != "" {
		cfg.UserAgent = f.Crawl.UserAgent
	}
	if f.Crawl.MaxPages != nil {
		cfg.MaxPages = *f.Crawl.MaxPages
	}
	if len(f.Crawl.Seeds) > 0 {
		cfg.Seeds = append([]string(nil), f.Crawl.Seeds...)
	}

	if f.Database.Driver != "" {
		cfg.DBDriver = f.Database.Driver
	}
	if f.Database.DSN != "" {
		cfg.DSN = f.Database.DSN
	}
	if f.Database.Dir != "" {
		cfg.DBDir = f.Database.Dir
	}

	if f.Search.MaxResults != nil {
		cfg.MaxResults = *f.Search.MaxResults
	}
}
