package assessment

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/shifa/clinic/pkg/errs"
)

// -- Mock Repository --

type mockRepo struct {
	nursing   map[uuid.UUID]*NursingAssessment
	radiology map[uuid.UUID]*RadiologyAssessment
	fallRisk  map[uuid.UUID][]*FallRiskRecord
	vitals    map[uuid.UUID][]*VitalSignsRecord
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		nursing:   make(map[uuid.UUID]*NursingAssessment),
		radiology: make(map[uuid.UUID]*RadiologyAssessment),
		fallRisk:  make(map[uuid.UUID][]*FallRiskRecord),
		vitals:    make(map[uuid.UUID][]*VitalSignsRecord),
	}
}

func (m *mockRepo) UpsertNursing(_ context.Context, a *NursingAssessment) error {
	if existing, ok := m.nursing[a.SubmissionID]; ok {
		a.ID = existing.ID
	} else if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	m.nursing[a.SubmissionID] = a
	return nil
}

func (m *mockRepo) GetNursingBySubmission(_ context.Context, submissionID uuid.UUID) (*NursingAssessment, error) {
	a, ok := m.nursing[submissionID]
	if !ok {
		return nil, errs.NotFound("no nursing assessment for submission %s", submissionID)
	}
	return a, nil
}

func (m *mockRepo) UpsertRadiology(_ context.Context, a *RadiologyAssessment) error {
	if existing, ok := m.radiology[a.SubmissionID]; ok {
		a.ID = existing.ID
	} else if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	m.radiology[a.SubmissionID] = a
	return nil
}

func (m *mockRepo) GetRadiologyBySubmission(_ context.Context, submissionID uuid.UUID) (*RadiologyAssessment, error) {
	a, ok := m.radiology[submissionID]
	if !ok {
		return nil, errs.NotFound("no radiology assessment for submission %s", submissionID)
	}
	return a, nil
}

func (m *mockRepo) AddFallRiskRecord(_ context.Context, r *FallRiskRecord) error {
	r.ID = uuid.New()
	m.fallRisk[r.AssessmentID] = append(m.fallRisk[r.AssessmentID], r)
	return nil
}

func (m *mockRepo) ListFallRiskRecords(_ context.Context, assessmentID uuid.UUID) ([]*FallRiskRecord, error) {
	return m.fallRisk[assessmentID], nil
}

func (m *mockRepo) AddVitalSignsRecord(_ context.Context, r *VitalSignsRecord) error {
	r.ID = uuid.New()
	m.vitals[r.AssessmentID] = append(m.vitals[r.AssessmentID], r)
	return nil
}

func (m *mockRepo) ListVitalSignsRecords(_ context.Context, assessmentID uuid.UUID) ([]*VitalSignsRecord, error) {
	return m.vitals[assessmentID], nil
}

// -- Tests --

func TestGetBySubmission_Nursing(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	subID := uuid.New()
	a := &NursingAssessment{SubmissionID: subID, VisitID: uuid.New(), FallRiskScale: "morse"}
	if err := repo.UpsertNursing(ctx, a); err != nil {
		t.Fatalf("seed: %v", err)
	}
	_ = repo.AddFallRiskRecord(ctx, &FallRiskRecord{AssessmentID: a.ID, Scale: "morse", Score: 40, Level: "moderate"})
	_ = repo.AddVitalSignsRecord(ctx, &VitalSignsRecord{AssessmentID: a.ID})

	detail, err := svc.GetBySubmission(ctx, subID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.Kind != KindNursing {
		t.Errorf("expected nursing detail, got %s", detail.Kind)
	}
	if len(detail.FallRiskRecords) != 1 || len(detail.VitalSignsTrail) != 1 {
		t.Error("expected subrecords attached to the detail")
	}
}

func TestGetBySubmission_Radiology(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	subID := uuid.New()
	_ = repo.UpsertRadiology(ctx, &RadiologyAssessment{SubmissionID: subID, VisitID: uuid.New()})

	detail, err := svc.GetBySubmission(ctx, subID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.Kind != KindRadiology || detail.Radiology == nil {
		t.Error("expected radiology detail")
	}
}

func TestGetBySubmission_NotFound(t *testing.T) {
	svc := NewService(newMockRepo())
	_, err := svc.GetBySubmission(context.Background(), uuid.New())
	if !errs.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestUpsertNursing_ReplacesInPlace(t *testing.T) {
	repo := newMockRepo()
	ctx := context.Background()

	subID := uuid.New()
	first := &NursingAssessment{SubmissionID: subID, FallRiskScore: 10}
	_ = repo.UpsertNursing(ctx, first)
	second := &NursingAssessment{SubmissionID: subID, FallRiskScore: 55}
	_ = repo.UpsertNursing(ctx, second)

	if second.ID != first.ID {
		t.Error("re-submission must keep the same assessment id")
	}
	stored, _ := repo.GetNursingBySubmission(ctx, subID)
	if stored.FallRiskScore != 55 {
		t.Errorf("expected replaced score 55, got %d", stored.FallRiskScore)
	}
}
