package store

import (
	"context"
	"errors"
	"time"

	"proposalcard-backend/models"

	"github.com/google/uuid"
)

var (
	// ErrNotFound means no record matched the slug or id.
	ErrNotFound = errors.New("store: proposal not found")
	// ErrDuplicateSlug means an insert collided on unique_slug.
	ErrDuplicateSlug = errors.New("store: duplicate slug")
)

// Store is the persistence contract for proposal records: one insert,
// two read paths, and a single conditional write for the response.
type Store interface {
	Insert(ctx context.Context, p *models.Proposal) error
	GetBySlug(ctx context.Context, slug string) (*models.Proposal, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Proposal, error)

	// CompleteResponse sets status, response message and responded-at in one
	// write, conditional on the record still being pending. It reports
	// applied == false when the record exists but already left pending, so
	// two near-simultaneous responses cannot both win.
	CompleteResponse(ctx context.Context, id uuid.UUID, status, message string, at time.Time) (applied bool, err error)
}
