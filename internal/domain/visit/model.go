// Package visit manages the clinic visit lifecycle. A visit moves
// open → in_progress → completed, or is cancelled from either non-terminal
// state with a recorded reason. Completed and cancelled are terminal.
package visit

import (
	"time"

	"github.com/google/uuid"
)

// Visit statuses.
const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Visit maps to the visits table.
type Visit struct {
	ID                  uuid.UUID  `db:"id" json:"id"`
	PatientID           uuid.UUID  `db:"patient_id" json:"patient_id"`
	Status              string     `db:"status" json:"status"`
	VisitType           *string    `db:"visit_type" json:"visit_type,omitempty"`
	Department          *string    `db:"department" json:"department,omitempty"`
	ChiefComplaint      *string    `db:"chief_complaint" json:"chief_complaint,omitempty"`
	Diagnosis           *string    `db:"diagnosis" json:"diagnosis,omitempty"`
	AssignedPhysicianID *uuid.UUID `db:"assigned_physician_id" json:"assigned_physician_id,omitempty"`
	CancelReason        *string    `db:"cancel_reason" json:"cancel_reason,omitempty"`
	CompletedAt         *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updated_at"`
}

// IsTerminal reports whether a status admits no further transitions.
func IsTerminal(status string) bool {
	return status == StatusCompleted || status == StatusCancelled
}

var allowedTransitions = map[string]map[string]bool{
	StatusOpen: {
		StatusInProgress: true,
		StatusCancelled:  true,
	},
	StatusInProgress: {
		StatusCompleted: true,
		StatusCancelled: true,
	},
}

// CanTransition reports whether the lifecycle permits from → to.
func CanTransition(from, to string) bool {
	return allowedTransitions[from][to]
}
