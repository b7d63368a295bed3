package models

import (
	"time"

	"github.com/google/uuid"
)

// Stage is a step of the extraction pipeline:
//
//	idle -> invalid | fetching -> fetch_failed | fetched -> no_urls_found | ready
type Stage string

const (
	StageIdle        Stage = "idle"
	StageInvalid     Stage = "invalid"
	StageFetching    Stage = "fetching"
	StageFetchFailed Stage = "fetch_failed"
	StageFetched     Stage = "fetched"
	StageNoURLsFound Stage = "no_urls_found"
	StageReady       Stage = "ready"
)

// Terminal reports whether the pipeline stops at s. Every terminal stage other
// than ready expects the user to retry with a new extraction.
func (s Stage) Terminal() bool {
	switch s {
	case StageInvalid, StageFetchFailed, StageNoURLsFound, StageReady:
		return true
	}
	return false
}

// Extraction is the output of one successful fetch and parse cycle.
type Extraction struct {
	SitemapURL  string       `json:"sitemapUrl"`
	Kind        DocumentKind `json:"kind"`
	Charset     string       `json:"charset"`
	URLs        URLList      `json:"urls"`
	ExtractedAt time.Time    `json:"extractedAt"`
}

// Session is the working state of one user. It is a value: every change
// produces a new Session that replaces the old one wholesale.
type Session struct {
	ID         uuid.UUID    `json:"id"`
	Stage      Stage        `json:"stage"`
	SitemapURL string       `json:"sitemapUrl,omitempty"`
	Kind       DocumentKind `json:"kind,omitempty"`
	Results    URLList      `json:"-"`
	LastError  string       `json:"lastError,omitempty"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

// NewSession creates an idle session with a generated UUID and timestamps.
func NewSession() Session {
	now := time.Now()
	return Session{
		ID:        uuid.New(),
		Stage:     StageIdle,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Restart discards any previous results and puts the session back to idle.
func (s Session) Restart() Session {
	return Session{
		ID:        s.ID,
		Stage:     StageIdle,
		CreatedAt: s.CreatedAt,
		UpdatedAt: time.Now(),
	}
}

// WithExtraction returns a ready session holding e's URLs.
func (s Session) WithExtraction(e *Extraction) Session {
	next := s.Restart()
	next.Stage = StageReady
	next.SitemapURL = e.SitemapURL
	next.Kind = e.Kind
	next.Results = e.URLs
	return next
}

// WithFailure returns a session stopped at stage with an empty result set.
func (s Session) WithFailure(sitemapURL string, stage Stage, err error) Session {
	next := s.Restart()
	next.Stage = stage
	next.SitemapURL = sitemapURL
	if err != nil {
		next.LastError = err.Error()
	}
	return next
}

// HasResults reports whether the session reached the ready stage.
func (s Session) HasResults() bool {
	return s.Stage == StageReady && len(s.Results) > 0
}
