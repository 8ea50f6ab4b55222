package assessment

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	UpsertNursing(ctx context.Context, a *NursingAssessment) error
	GetNursingBySubmission(ctx context.Context, submissionID uuid.UUID) (*NursingAssessment, error)

	UpsertRadiology(ctx context.Context, a *RadiologyAssessment) error
	GetRadiologyBySubmission(ctx context.Context, submissionID uuid.UUID) (*RadiologyAssessment, error)

	AddFallRiskRecord(ctx context.Context, r *FallRiskRecord) error
	ListFallRiskRecords(ctx context.Context, assessmentID uuid.UUID) ([]*FallRiskRecord, error)

	AddVitalSignsRecord(ctx context.Context, r *VitalSignsRecord) error
	ListVitalSignsRecords(ctx context.Context, assessmentID uuid.UUID) ([]*VitalSignsRecord, error)
}
