// Package forms is the submission registry: which assessment forms exist,
// who may fill them, and the draft → submitted → approved life of each
// per-visit submission. A visit holds at most one submission per form.
package forms

import (
	"time"

	"github.com/google/uuid"

	"github.com/shifa/clinic/internal/platform/auth"
)

// Well-known form codes.
const (
	CodeNursingScreening = "SH.MR.FRM.05"
	CodeRadiologyPrep    = "SH.MR.FRM.04"
)

// Submission statuses.
const (
	StatusDraft     = "draft"
	StatusSubmitted = "submitted"
	StatusApproved  = "approved"
)

// FormDefinition maps to the form_definitions catalog table.
type FormDefinition struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Code         string    `db:"code" json:"code"`
	Title        string    `db:"title" json:"title"`
	Department   string    `db:"department" json:"department"`
	RequiredRole string    `db:"required_role" json:"required_role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// DefaultDefinitions are the forms seeded into a fresh database.
var DefaultDefinitions = []FormDefinition{
	{
		Code:         CodeNursingScreening,
		Title:        "Nursing Screening Assessment",
		Department:   "nursing",
		RequiredRole: auth.RoleNurse,
		IsActive:     true,
	},
	{
		Code:         CodeRadiologyPrep,
		Title:        "Radiology Preparation Assessment",
		Department:   "radiology",
		RequiredRole: auth.RolePhysician,
		IsActive:     true,
	},
}

// Submission maps to the form_submissions table. Version is an optimistic
// concurrency counter: every successful write increments it, and writers
// must present the version they read.
type Submission struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	VisitID     uuid.UUID  `db:"visit_id" json:"visit_id"`
	FormID      uuid.UUID  `db:"form_id" json:"form_id"`
	FormCode    string     `db:"form_code" json:"form_code"`
	Status      string     `db:"status" json:"status"`
	Version     int        `db:"version" json:"version"`
	CreatedBy   uuid.UUID  `db:"created_by" json:"created_by"`
	SubmittedBy *uuid.UUID `db:"submitted_by" json:"submitted_by,omitempty"`
	SubmittedAt *time.Time `db:"submitted_at" json:"submitted_at,omitempty"`
	ApprovedBy  *uuid.UUID `db:"approved_by" json:"approved_by,omitempty"`
	ApprovedAt  *time.Time `db:"approved_at" json:"approved_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}
