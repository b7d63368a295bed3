// internal/models/sitemap.go
package models

// SitemapNamespace is the sitemaps.org protocol namespace. Only <loc> elements
// in this namespace are extracted.
const SitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// URLList holds <loc> values in document order. Duplicates are kept.
type URLList []string

// DocumentKind names the root element of a parsed sitemap.
type DocumentKind string

const (
	KindURLSet       DocumentKind = "urlset"
	KindSitemapIndex DocumentKind = "sitemapindex"
	KindUnknown      DocumentKind = "unknown"
)

// Document is the result of parsing one sitemap. Entries of a sitemapindex
// point at further sitemaps; they are returned as-is and never followed.
type Document struct {
	Kind DocumentKind
	URLs URLList
}

// FetchResult is the decoded body of a successful sitemap fetch.
type FetchResult struct {
	URL         string
	StatusCode  int
	ContentType string
	Charset     string
	Body        string
}
