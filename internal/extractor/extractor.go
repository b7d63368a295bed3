package extractor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/romangod6/sitemap-explorer/internal/models"
	"github.com/romangod6/sitemap-explorer/internal/utils"
)

// Extractor runs the validate, fetch and parse pipeline for one sitemap URL.
// It keeps no state between calls.
type Extractor struct {
	fetcher Fetcher
	logger  *utils.Logger
}

func NewExtractor(fetcher Fetcher, logger *utils.Logger) *Extractor {
	return &Extractor{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Extract trims and validates rawURL, fetches it and parses the body. On success the
// returned Extraction holds at least one URL. On failure the error matches
// one of ErrInvalidInput, ErrFetchFailure or ErrNoURLsFound, and StageOf
// tells at which stage the pipeline stopped.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (*models.Extraction, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		e.transition(models.StageIdle, models.StageInvalid)
		return nil, ErrEmptyInput
	}
	if !ValidateURL(rawURL) {
		e.transition(models.StageIdle, models.StageInvalid)
		return nil, fmt.Errorf("%w: %q", ErrInvalidInput, rawURL)
	}

	e.transition(models.StageIdle, models.StageFetching)
	fetched, err := e.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		e.transition(models.StageFetching, models.StageFetchFailed)
		if !errors.Is(err, ErrFetchFailure) {
			err = &FetchError{URL: rawURL, Err: err}
		}
		return nil, err
	}

	e.transition(models.StageFetching, models.StageFetched)
	doc, err := ParseDocument(fetched.Body)
	if err != nil {
		e.logger.LogDebug("Could not parse %s: %v", rawURL, err)
		e.transition(models.StageFetched, models.StageNoURLsFound)
		return nil, fmt.Errorf("%w: %w", ErrNoURLsFound, err)
	}
	if len(doc.URLs) == 0 {
		e.transition(models.StageFetched, models.StageNoURLsFound)
		return nil, ErrNoURLsFound
	}

	if doc.Kind == models.KindSitemapIndex {
		e.logger.LogInfo("%s is a sitemap index; its %d entries are sitemaps and are not expanded", rawURL, len(doc.URLs))
	}

	e.transition(models.StageFetched, models.StageReady)
	e.logger.LogInfo("Successfully extracted %d URLs from %s", len(doc.URLs), rawURL)

	return &models.Extraction{
		SitemapURL:  rawURL,
		Kind:        doc.Kind,
		Charset:     fetched.Charset,
		URLs:        doc.URLs,
		ExtractedAt: time.Now(),
	}, nil
}

func (e *Extractor) transition(from, to models.Stage) {
	e.logger.LogDebug("Pipeline stage %s -> %s", from, to)
}

// StageOf maps the error returned by Extract to the stage the pipeline
// stopped at.
func StageOf(err error) models.Stage {
	switch {
	case err == nil:
		return models.StageReady
	case errors.Is(err, ErrInvalidInput):
		return models.StageInvalid
	case errors.Is(err, ErrFetchFailure):
		return models.StageFetchFailed
	case errors.Is(err, ErrNoURLsFound), errors.Is(err, ErrMalformedXML):
		return models.StageNoURLsFound
	default:
		return models.StageFetchFailed
	}
}
