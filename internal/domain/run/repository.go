package run

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository manages run record persistence
type Repository interface {
	Create(ctx context.Context, record *Record) error
	GetByRunID(ctx context.Context, runID uuid.UUID) (*Record, error)
	ListByProcessingDate(ctx context.Context, date time.Time, limit, offset int) ([]*Record, error)
}

// ErrRunNotFound indicates a missing run record
type ErrRunNotFound struct {
	RunID uuid.UUID
}

func (e ErrRunNotFound) Error() string {
	return "run record not found: " + e.RunID.String()
}

// Is implements the errors.Is interface for ErrRunNotFound
func (e ErrRunNotFound) Is(target error) bool {
	t, ok := target.(ErrRunNotFound)
	if !ok {
		return false
	}
	// A zero target run ID matches any ErrRunNotFound
	if t.RunID == uuid.Nil {
		return true
	}
	return e.RunID == t.RunID
}
