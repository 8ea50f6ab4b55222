package visit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ListFilter narrows visit listings.
type ListFilter struct {
	PatientID *uuid.UUID
	Status    string
}

type Repository interface {
	Create(ctx context.Context, v *Visit) error
	GetByID(ctx context.Context, id uuid.UUID) (*Visit, error)
	UpdateDetails(ctx context.Context, v *Visit) error
	List(ctx context.Context, f ListFilter, limit, offset int) ([]*Visit, int, error)

	// Transition atomically moves a visit from one status to another.
	// It returns false when the stored status no longer matches from.
	Transition(ctx context.Context, id uuid.UUID, from, to string, completedAt *time.Time, cancelReason *string) (bool, error)
}
