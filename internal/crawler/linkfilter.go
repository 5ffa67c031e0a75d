package crawler

import (
	"net/url"
	"strings"
)

// LinkFilter decides whether a URL points to a followable article.
type LinkFilter struct {
	host          string
	articlePrefix string
	namespaceSep  string
}

// NewLinkFilter creates a LinkFilter for articles on host whose paths
// start with articlePrefix. Paths containing namespaceSep are rejected;
// an empty namespaceSep disables that check. Host matching is
// case-insensitive.
func NewLinkFilter(host, articlePrefix, namespaceSep string) *LinkFilter {
	return &LinkFilter{
		host:          strings.ToLower(host),
		articlePrefix: articlePrefix,
		namespaceSep:  namespaceSep,
	}
}

// IsFollowable reports whether rawURL is on the target host, under the
// article prefix, and outside every namespace.
func (f *LinkFilter) IsFollowable(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if strings.ToLower(u.Host) != f.host {
		return false
	}
	if !strings.HasPrefix(u.Path, f.articlePrefix) {
		return false
	}
	if f.namespaceSep != "" && strings.Contains(u.Path, f.namespaceSep) {
		return false
	}
	return true
}
