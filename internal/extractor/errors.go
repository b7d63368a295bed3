package extractor

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when the sitemap URL is not an absolute URL.
	ErrInvalidInput = errors.New("please enter a valid URL")

	// ErrEmptyInput is the InvalidInput case of an empty URL.
	ErrEmptyInput = fmt.Errorf("please enter a sitemap URL: %w", ErrInvalidInput)

	// ErrFetchFailure covers timeouts, DNS and connection errors and non-success
	// HTTP statuses alike.
	ErrFetchFailure = errors.New("failed to fetch sitemap")

	// ErrMalformedXML is reported by ParseDocument. Callers surface it as
	// ErrNoURLsFound.
	ErrMalformedXML = errors.New("malformed sitemap XML")

	// ErrNoURLsFound is returned when the document has no sitemap <loc> entries
	// or is not XML at all.
	ErrNoURLsFound = errors.New("no URLs found in the sitemap or invalid sitemap format")
)

// FetchError describes a failed fetch. StatusCode is zero for transport errors.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to fetch sitemap %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("failed to fetch sitemap %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func (e *FetchError) Is(target error) bool {
	return target == ErrFetchFailure
}

// Message returns the text shown to a user for err. Fetch failures are not
// broken down by cause.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyInput):
		return "Please enter a sitemap URL"
	case errors.Is(err, ErrInvalidInput):
		return "Please enter a valid URL"
	case errors.Is(err, ErrFetchFailure):
		return "Failed to fetch sitemap. Please check the URL and try again."
	case errors.Is(err, ErrNoURLsFound), errors.Is(err, ErrMalformedXML):
		return "No URLs found in the sitemap or invalid sitemap format."
	default:
		return err.Error()
	}
}
