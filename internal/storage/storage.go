package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/romangod6/sitemap-explorer/internal/models"
)

// ErrNotFound is returned for unknown session IDs.
var ErrNotFound = errors.New("session not found")

// Store keeps the current Session value per ID. Sessions are values, so Save
// always replaces the stored session as a whole.
type Store interface {
	Create(ctx context.Context, session models.Session) error
	Get(ctx context.Context, id uuid.UUID) (models.Session, error)
	Save(ctx context.Context, session models.Session) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]models.Session, error)

	// Prune removes sessions not updated since before and returns how many
	// were removed.
	Prune(ctx context.Context, before time.Time) (int, error)
}
