package extractor

import (
	"net/url"
	"strings"
)

// ValidateURL reports whether raw is an absolute URL with a scheme and a host.
// Surrounding whitespace is ignored. It is a syntactic check only.
func ValidateURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}
