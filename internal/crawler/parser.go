package crawler

import (
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/zotsearch/zotsearch/internal/model"
)

// Selectors for MediaWiki article markup.
const (
	titleSelector   = "h1#firstHeading"
	contentSelector = "div.mw-content-container"
)

// citationRegex matches bracketed reference markers such as [1] or
// [citation needed].
var citationRegex = regexp.MustCompile(`\[.*?\]`)

// Parser extracts article data from MediaWiki HTML.
type Parser struct {
	// baseURL is the URL of the page being parsed, used for resolving relative URLs.
	baseURL *url.URL
}

// NewParser creates a Parser for the page at baseURL.
func NewParser(baseURL string) (*Parser, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	return &Parser{baseURL: u}, nil
}

// Parse reads an article page. The returned page has the heading as its
// title, every paragraph of the content container followed by a newline
// as its text, and every navigational anchor of the content container,
// resolved against the page URL, as its links. ErrMarkupNotFound is returned when there is no heading.
func (p *Parser) Parse(content io.Reader) (*model.Page, error) {
	root, err := html.Parse(content)
	if err != nil {
		return nil, err
	}
	doc := goquery.NewDocumentFromNode(root)

	heading := doc.Find(titleSelector).First()
	if heading.Length() == 0 {
		return nil, ErrMarkupNotFound
	}

	page := &model.Page{
		URL:   p.baseURL.String(),
		Title: strings.TrimSpace(heading.Text()),
		Links: make([]string, 0),
	}

	container := doc.Find(contentSelector).First()
	if container.Length() == 0 {
		return page, nil
	}

	var text strings.Builder
	container.Find("p").Each(func(_ int, s *goquery.Selection) {
		text.WriteString(s.Text())
		text.WriteString("\n")
	})
	page.Text = citationRegex.ReplaceAllString(text.String(), "")

	container.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if link := p.Resolve(href); link != "" {
			page.Links = append(page.Links, link)
		}
	})

	return page, nil
}

// Resolve resolves href against the parser's base URL.
// Non-navigational links (javascript:, mailto:, bare fragments) resolve
// to the empty string.
func (p *Parser) Resolve(href string) string {
	return resolveURL(p.baseURL, href)
}

func resolveURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}
	if strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:") {
		return ""
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(u).String()
}
