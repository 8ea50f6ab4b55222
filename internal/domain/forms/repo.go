package forms

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	GetDefinitionByCode(ctx context.Context, code string) (*FormDefinition, error)
	ListDefinitions(ctx context.Context) ([]*FormDefinition, error)
	UpsertDefinition(ctx context.Context, def *FormDefinition) error

	CreateSubmission(ctx context.Context, sub *Submission) error
	GetSubmission(ctx context.Context, id uuid.UUID) (*Submission, error)
	GetByVisitAndForm(ctx context.Context, visitID, formID uuid.UUID) (*Submission, error)
	ListByVisit(ctx context.Context, visitID uuid.UUID) ([]*Submission, error)

	// UpdateSubmission persists sub only if the stored version still equals
	// expectedVersion; on success the stored and in-memory versions are
	// incremented. Returns false when the version was stale.
	UpdateSubmission(ctx context.Context, sub *Submission, expectedVersion int) (bool, error)

	CountDrafts(ctx context.Context, visitID uuid.UUID) (int, error)
}
