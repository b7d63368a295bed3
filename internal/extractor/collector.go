package extractor

import (
	"context"
	"errors"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/romangod6/sitemap-explorer/internal/models"
	"github.com/romangod6/sitemap-explorer/internal/utils"
)

// DefaultTimeout bounds a sitemap fetch when the config leaves it unset.
const DefaultTimeout = 10 * time.Second

// Fetcher retrieves the raw text of a sitemap. Failures are reported as
// *FetchError values.
type Fetcher interface {
	Fetch(ctx context.Context, sitemapURL string) (*models.FetchResult, error)
}

type CollectorConfig struct {
	UserAgent string
	Timeout   time.Duration
	// MaxBodySize caps the buffered body in bytes. Zero means no limit.
	MaxBodySize int
}

// Collector is the colly backed Fetcher. It performs exactly one GET per call
// and follows redirects the way colly does by default.
type Collector struct {
	config *CollectorConfig
	logger *utils.Logger
}

func NewCollector(config *CollectorConfig, logger *utils.Logger) *Collector {
	if config == nil {
		config = &CollectorConfig{}
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	return &Collector{
		config: config,
		logger: logger,
	}
}

func (c *Collector) newCollector() *colly.Collector {
	options := []colly.CollectorOption{
		colly.MaxBodySize(c.config.MaxBodySize),
		colly.ParseHTTPErrorResponse(),
		colly.AllowURLRevisit(),
	}
	if c.config.UserAgent != "" {
		options = append(options, colly.UserAgent(c.config.UserAgent))
	}

	collector := colly.NewCollector(options...)
	collector.SetRequestTimeout(c.config.Timeout)
	return collector
}

func (c *Collector) Fetch(ctx context.Context, sitemapURL string) (*models.FetchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, &FetchError{URL: sitemapURL, Err: err}
	}

	collector := c.newCollector()

	var response *colly.Response
	collector.OnResponse(func(r *colly.Response) {
		response = r
	})

	c.logger.LogDebug("Fetching sitemap %s (timeout %s)", sitemapURL, c.config.Timeout)
	start := time.Now()

	if err := collector.Visit(sitemapURL); err != nil {
		c.logger.LogError("Error fetching %s: %v", sitemapURL, err)
		return nil, &FetchError{URL: sitemapURL, Err: err}
	}

	if response == nil {
		return nil, &FetchError{URL: sitemapURL, Err: errors.New("no response received")}
	}

	if response.StatusCode >= 400 {
		c.logger.LogError("Sitemap %s returned HTTP %d", sitemapURL, response.StatusCode)
		return nil, &FetchError{URL: sitemapURL, StatusCode: response.StatusCode}
	}

	contentType := response.Headers.Get("Content-Type")
	body, charsetName := decodeBody(response.Body, contentType)

	c.logger.LogInfo("Fetched %s: HTTP %d, %d bytes, charset %s, %s",
		sitemapURL, response.StatusCode, len(response.Body), charsetName, time.Since(start).Round(time.Millisecond))

	return &models.FetchResult{
		URL:         sitemapURL,
		StatusCode:  response.StatusCode,
		ContentType: contentType,
		Charset:     charsetName,
		Body:        body,
	}, nil
}
