// internal/extractor/parser.go
package extractor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/romangod6/sitemap-explorer/internal/models"
)

// locQuery matches <loc> below the context node at any depth regardless of
// prefix. The namespace is checked on each match.
const locQuery = ".//*[local-name()='loc']"

// The body is already decoded, so an encoding declaration left in place would
// make the XML decoder transcode it a second time.
var encodingDeclPattern = regexp.MustCompile(`^(\s*<\?xml[^>]*?)\s+encoding\s*=\s*["'][^"']*["']`)

// Parse returns the sitemap <loc> values of content in document order. It
// never fails: malformed input yields an empty list.
func Parse(content string) models.URLList {
	doc, _ := ParseDocument(content)
	return doc.URLs
}

// ParseDocument is Parse that also reports the root element kind and why a
// document could not be read. The returned Document is never nil.
func ParseDocument(content string) (*models.Document, error) {
	result := &models.Document{
		Kind: models.KindUnknown,
		URLs: models.URLList{},
	}

	content = encodingDeclPattern.ReplaceAllString(content, "$1")

	doc, err := xmlquery.Parse(strings.NewReader(content))
	if err != nil {
		return result, fmt.Errorf("%w: %v", ErrMalformedXML, err)
	}

	root, err := documentRoot(doc)
	if err != nil {
		return result, err
	}
	result.Kind = documentKind(root)

	xmlquery.FindEach(root, locQuery, func(_ int, n *xmlquery.Node) {
		if n.NamespaceURI != models.SitemapNamespace {
			return
		}
		loc := strings.TrimSpace(leadingText(n))
		if loc == "" {
			return
		}
		result.URLs = append(result.URLs, loc)
	})

	return result, nil
}

// documentRoot returns the single top-level element of doc. Anything but
// whitespace, comments and declarations around it makes the document
// malformed.
func documentRoot(doc *xmlquery.Node) (*xmlquery.Node, error) {
	var root *xmlquery.Node
	for n := doc.FirstChild; n != nil; n = n.NextSibling {
		switch n.Type {
		case xmlquery.ElementNode:
			if root != nil {
				return nil, fmt.Errorf("%w: junk after document element <%s>", ErrMalformedXML, root.Data)
			}
			root = n
		case xmlquery.TextNode, xmlquery.CharDataNode:
			if strings.TrimSpace(n.Data) != "" {
				return nil, fmt.Errorf("%w: text outside the document element", ErrMalformedXML)
			}
		}
	}
	if root == nil {
		return nil, fmt.Errorf("%w: no document element", ErrMalformedXML)
	}
	return root, nil
}

// leadingText is the text of n up to its first child element. Text nested in
// or following child elements is not part of the value.
func leadingText(n *xmlquery.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case xmlquery.TextNode, xmlquery.CharDataNode:
			b.WriteString(c.Data)
		case xmlquery.ElementNode:
			return b.String()
		}
	}
	return b.String()
}

func documentKind(root *xmlquery.Node) models.DocumentKind {
	switch root.Data {
	case string(models.KindURLSet):
		return models.KindURLSet
	case string(models.KindSitemapIndex):
		return models.KindSitemapIndex
	}
	return models.KindUnknown
}
