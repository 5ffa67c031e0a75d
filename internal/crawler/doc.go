// Package crawler discovers encyclopedia articles by following hyperlinks.
//
// # Components
//
//   - LinkFilter: decides whether a URL is an in-scope article link
//   - Parser: extracts title, paragraph text, and links from an article page
//   - HTTPFetcher: the Fetcher that downloads and parses a page
//   - Spider: the depth-bounded, de-duplicating recursive crawl
//
// # Traversal
//
// Spider.Crawl walks the link graph depth first. Each call owns a fresh
// visited set, so no URL is fetched twice within one crawl and independent
// crawls do not interfere. A height of 0 fetches only the seed page. A
// failed fetch drops that page and its subtree; siblings still proceed.
//
// # Politeness
//
// A fixed delay is taken before every fetch, including the first one.
//
// # Usage
//
//	filter := crawler.NewLinkFilter("en.wikipedia.org", "/wiki/", ":")
//	spider := crawler.NewSpider(crawler.NewHTTPFetcher(client), filter)
//	result, err := spider.Crawl(ctx, "https://en.wikipedia.org/wiki/Anteater", 1)
package crawler
