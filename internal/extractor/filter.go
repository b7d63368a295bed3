package extractor

import (
	"strings"

	"github.com/romangod6/sitemap-explorer/internal/models"
)

// FilterByKeyword keeps the entries that contain keyword, ignoring case. An
// empty keyword returns urls unchanged.
func FilterByKeyword(urls models.URLList, keyword string) models.URLList {
	if keyword == "" {
		return urls
	}

	keyword = strings.ToLower(keyword)
	filtered := make(models.URLList, 0, len(urls))
	for _, u := range urls {
		if strings.Contains(strings.ToLower(u), keyword) {
			filtered = append(filtered, u)
		}
	}
	return filtered
}
