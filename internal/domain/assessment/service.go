package assessment

import (
	"context"

	"github.com/google/uuid"

	"github.com/shifa/clinic/pkg/errs"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Detail is the read model for one submission's clinical content.
type Detail struct {
	Kind             string               `json:"kind"`
	Nursing          *NursingAssessment   `json:"nursing,omitempty"`
	Radiology        *RadiologyAssessment `json:"radiology,omitempty"`
	FallRiskRecords  []*FallRiskRecord    `json:"fall_risk_records,omitempty"`
	VitalSignsTrail  []*VitalSignsRecord  `json:"vital_signs_records,omitempty"`
}

// GetBySubmission returns whichever assessment kind the submission produced.
func (s *Service) GetBySubmission(ctx context.Context, submissionID uuid.UUID) (*Detail, error) {
	if nursing, err := s.repo.GetNursingBySubmission(ctx, submissionID); err == nil {
		detail := &Detail{Kind: KindNursing, Nursing: nursing}
		detail.FallRiskRecords, _ = s.repo.ListFallRiskRecords(ctx, nursing.ID)
		detail.VitalSignsTrail, _ = s.repo.ListVitalSignsRecords(ctx, nursing.ID)
		return detail, nil
	} else if !errs.IsNotFound(err) {
		return nil, err
	}

	radiology, err := s.repo.GetRadiologyBySubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	return &Detail{Kind: KindRadiology, Radiology: radiology}, nil
}
