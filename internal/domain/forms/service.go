package forms

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shifa/clinic/internal/domain/assessment"
	"github.com/shifa/clinic/internal/domain/audit"
	"github.com/shifa/clinic/internal/domain/fallrisk"
	"github.com/shifa/clinic/internal/domain/visit"
	"github.com/shifa/clinic/internal/platform/auth"
	"github.com/shifa/clinic/internal/platform/db"
	"github.com/shifa/clinic/pkg/errs"
)

// VisitGateway is the slice of the visit lifecycle the registry needs.
// Satisfied by visit.Service.
type VisitGateway interface {
	StatusOf(ctx context.Context, visitID uuid.UUID) (string, error)
	PatientAgeYears(ctx context.Context, visitID uuid.UUID) (int, error)
	MarkInProgress(ctx context.Context, visitID uuid.UUID, actor auth.Actor) error
}

// txRunner wraps a unit of work. The default runs it directly; SetPool
// swaps in a real database transaction.
type txRunner func(ctx context.Context, fn func(ctx context.Context) error) error

type Service struct {
	repo        Repository
	visits      VisitGateway
	assessments assessment.Repository
	audit       audit.Recorder
	runTx       txRunner
}

func NewService(repo Repository, visits VisitGateway, assessments assessment.Repository, rec audit.Recorder) *Service {
	return &Service{
		repo:        repo,
		visits:      visits,
		assessments: assessments,
		audit:       rec,
		runTx: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		},
	}
}

// SetPool makes Submit and Approve run their writes inside one database
// transaction so a failed step leaves nothing behind.
func (s *Service) SetPool(pool *pgxpool.Pool) {
	s.runTx = func(ctx context.Context, fn func(ctx context.Context) error) error {
		return db.WithTx(ctx, pool, fn)
	}
}

func (s *Service) ListDefinitions(ctx context.Context) ([]*FormDefinition, error) {
	return s.repo.ListDefinitions(ctx)
}

// SeedDefinitions upserts the built-in form catalog.
func (s *Service) SeedDefinitions(ctx context.Context) error {
	for i := range DefaultDefinitions {
		def := DefaultDefinitions[i]
		if err := s.repo.UpsertDefinition(ctx, &def); err != nil {
			return err
		}
	}
	return nil
}

// CreateOrGetDraft opens a draft submission of the given form for the visit.
// A visit holds at most one submission per form: if one already exists in
// draft or submitted state it is returned as-is, and an approved one can no
// longer be reopened.
func (s *Service) CreateOrGetDraft(ctx context.Context, visitID uuid.UUID, formCode string, actor auth.Actor) (*Submission, error) {
	def, err := s.repo.GetDefinitionByCode(ctx, formCode)
	if err != nil {
		return nil, err
	}
	if !def.IsActive {
		return nil, errs.State("form %s is no longer active", formCode)
	}
	if !actor.HasRole(def.RequiredRole) {
		return nil, errs.Authorization("form %s requires the %s role", formCode, def.RequiredRole)
	}

	status, err := s.visits.StatusOf(ctx, visitID)
	if err != nil {
		return nil, err
	}
	if visit.IsTerminal(status) {
		return nil, errs.State("visit is %s and accepts no new forms", status)
	}

	existing, err := s.repo.GetByVisitAndForm(ctx, visitID, def.ID)
	if err == nil {
		if existing.Status == StatusApproved {
			return nil, errs.Conflict("form %s was already finalized for this visit", formCode)
		}
		return existing, nil
	}
	if !errs.IsNotFound(err) {
		return nil, err
	}

	sub := &Submission{
		VisitID:   visitID,
		FormID:    def.ID,
		FormCode:  def.Code,
		Status:    StatusDraft,
		Version:   1,
		CreatedBy: actor.ID,
	}
	if err := s.repo.CreateSubmission(ctx, sub); err != nil {
		if errs.IsConflict(err) {
			// Lost a creation race; the other writer's draft serves.
			return s.repo.GetByVisitAndForm(ctx, visitID, def.ID)
		}
		return nil, err
	}
	if err := s.record(ctx, audit.ActionCreate, sub.ID, nil, sub, actor); err != nil {
		return nil, err
	}
	return sub, nil
}

// Submit validates the payload, recomputes every derived clinical value
// server-side, and moves the submission to submitted. Re-submitting an
// already-submitted form replaces its assessment content in place; the
// scoring history keeps one record per attempt.
func (s *Service) Submit(ctx context.Context, submissionID uuid.UUID, req SubmitRequest, actor auth.Actor) (*Submission, error) {
	sub, err := s.repo.GetSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	def, err := s.repo.GetDefinitionByCode(ctx, sub.FormCode)
	if err != nil {
		return nil, err
	}
	if !actor.HasRole(def.RequiredRole) {
		return nil, errs.Authorization("form %s requires the %s role", sub.FormCode, def.RequiredRole)
	}
	if sub.Status == StatusApproved {
		return nil, errs.State("approved submissions can no longer change")
	}

	status, err := s.visits.StatusOf(ctx, sub.VisitID)
	if err != nil {
		return nil, err
	}
	if visit.IsTerminal(status) {
		return nil, errs.State("visit is %s and accepts no submissions", status)
	}

	var (
		nursing   *assessment.NursingAssessment
		radiology *assessment.RadiologyAssessment
		factors   interface{}
	)
	switch sub.FormCode {
	case CodeNursingScreening:
		if req.Nursing == nil {
			return nil, errs.Validation("nursing payload is required for this form")
		}
		nursing, factors, err = s.buildNursing(ctx, sub, req.Nursing)
		if err != nil {
			return nil, err
		}
	case CodeRadiologyPrep:
		if req.Radiology == nil {
			return nil, errs.Validation("radiology payload is required for this form")
		}
		radiology = buildRadiology(sub, req.Radiology)
	default:
		return nil, errs.State("form %s has no submission handler", sub.FormCode)
	}

	old := *sub
	now := time.Now().UTC()
	actorID := actor.ID
	sub.Status = StatusSubmitted
	sub.SubmittedBy = &actorID
	sub.SubmittedAt = &now

	err = s.runTx(ctx, func(ctx context.Context) error {
		ok, err := s.repo.UpdateSubmission(ctx, sub, req.Version)
		if err != nil {
			return err
		}
		if !ok {
			return errs.Conflict("submission was changed by someone else; reload and retry")
		}

		if nursing != nil {
			if err := s.persistNursing(ctx, nursing, factors); err != nil {
				return err
			}
		}
		if radiology != nil {
			if err := s.assessments.UpsertRadiology(ctx, radiology); err != nil {
				return err
			}
		}

		if err := s.record(ctx, audit.ActionSubmit, sub.ID, &old, sub, actor); err != nil {
			return err
		}
		return s.visits.MarkInProgress(ctx, sub.VisitID, actor)
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// Approve finalizes a submitted form. Only a physician signs off, and a
// draft must be submitted first.
func (s *Service) Approve(ctx context.Context, submissionID uuid.UUID, actor auth.Actor) (*Submission, error) {
	if !actor.HasRole(auth.RolePhysician) {
		return nil, errs.Authorization("role %s cannot approve submissions", actor.Role)
	}
	sub, err := s.repo.GetSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	switch sub.Status {
	case StatusDraft:
		return nil, errs.State("draft submissions must be submitted before approval")
	case StatusApproved:
		return nil, errs.State("submission is already approved")
	}

	old := *sub
	now := time.Now().UTC()
	actorID := actor.ID
	sub.Status = StatusApproved
	sub.ApprovedBy = &actorID
	sub.ApprovedAt = &now

	err = s.runTx(ctx, func(ctx context.Context) error {
		ok, err := s.repo.UpdateSubmission(ctx, sub, old.Version)
		if err != nil {
			return err
		}
		if !ok {
			return errs.Conflict("submission was changed by someone else; reload and retry")
		}
		return s.record(ctx, audit.ActionApprove, sub.ID, &old, sub, actor)
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *Service) GetSubmission(ctx context.Context, id uuid.UUID) (*Submission, error) {
	return s.repo.GetSubmission(ctx, id)
}

func (s *Service) ListByVisit(ctx context.Context, visitID uuid.UUID) ([]*Submission, error) {
	return s.repo.ListByVisit(ctx, visitID)
}

// CountDrafts satisfies visit.DraftCounter.
func (s *Service) CountDrafts(ctx context.Context, visitID uuid.UUID) (int, error) {
	return s.repo.CountDrafts(ctx, visitID)
}

// buildNursing validates the vitals, routes the fall-risk scale by patient
// age, and recomputes score, level, BMI and the critical flag.
func (s *Service) buildNursing(ctx context.Context, sub *Submission, p *NursingPayload) (*assessment.NursingAssessment, interface{}, error) {
	if err := fallrisk.ValidateVitals(p.Vitals); err != nil {
		return nil, nil, err
	}
	if p.PainScore != nil && (*p.PainScore < 0 || *p.PainScore > 10) {
		return nil, nil, errs.Validation("pain score out of range", errs.FieldViolation{
			Field: "pain_score", Value: float64(*p.PainScore), Bound: "0-10",
		})
	}

	age, err := s.visits.PatientAgeYears(ctx, sub.VisitID)
	if err != nil {
		return nil, nil, err
	}

	a := &assessment.NursingAssessment{
		SubmissionID:         sub.ID,
		VisitID:              sub.VisitID,
		ArrivalMode:          p.ArrivalMode,
		ArrivalTime:          p.ArrivalTime,
		Vitals:               p.Vitals,
		BMI:                  fallrisk.BMI(p.Vitals.WeightKg, p.Vitals.HeightCm),
		IsCriticalVitals:     fallrisk.IsCriticalVitals(p.Vitals),
		GeneralCondition:     p.GeneralCondition,
		PainScore:            p.PainScore,
		PainLocation:         p.PainLocation,
		NutritionalRisk:      p.NutritionalRisk,
		FunctionalLimitation: p.FunctionalLimitation,
		Notes:                p.Notes,
	}

	var factors interface{}
	if fallrisk.IsPediatric(age) {
		if p.Humpty == nil {
			return nil, nil, errs.Validation("humpty_factors are required for pediatric patients")
		}
		f := *p.Humpty
		f.AgeYears = age
		scores, level := fallrisk.ScoreHumpty(f)
		a.FallRiskScale = "humpty_dumpty"
		a.FallRiskScore = scores.Total
		a.FallRiskLevel = level
		factors = struct {
			fallrisk.HumptyFactors
			Scores fallrisk.HumptyScores `json:"scores"`
		}{f, scores}
	} else {
		if p.Morse == nil {
			return nil, nil, errs.Validation("morse_factors are required for adult patients")
		}
		score, level := fallrisk.ScoreMorse(*p.Morse)
		a.FallRiskScale = "morse"
		a.FallRiskScore = score
		a.FallRiskLevel = level
		factors = *p.Morse
	}
	return a, factors, nil
}

func (s *Service) persistNursing(ctx context.Context, a *assessment.NursingAssessment, factors interface{}) error {
	if err := s.assessments.UpsertNursing(ctx, a); err != nil {
		return err
	}

	raw, err := json.Marshal(factors)
	if err != nil {
		return err
	}
	if err := s.assessments.AddFallRiskRecord(ctx, &assessment.FallRiskRecord{
		AssessmentID: a.ID,
		Scale:        a.FallRiskScale,
		Factors:      raw,
		Score:        a.FallRiskScore,
		Level:        a.FallRiskLevel,
	}); err != nil {
		return err
	}
	return s.assessments.AddVitalSignsRecord(ctx, &assessment.VitalSignsRecord{
		AssessmentID: a.ID,
		VitalSigns:   a.Vitals,
		BMI:          a.BMI,
		IsCritical:   a.IsCriticalVitals,
		RecordedAt:   time.Now().UTC(),
	})
}

func buildRadiology(sub *Submission, p *RadiologyPayload) *assessment.RadiologyAssessment {
	return &assessment.RadiologyAssessment{
		SubmissionID:     sub.ID,
		VisitID:          sub.VisitID,
		StudyReason:      p.StudyReason,
		HasPacemaker:     p.HasPacemaker,
		HasMetalImplants: p.HasMetalImplants,
		IsPregnant:       p.IsPregnant,
		PriorOperations:  p.PriorOperations,
		PriorRadiology:   p.PriorRadiology,
		TechnicalNotes:   p.TechnicalNotes,
		Diagnosis:        p.Diagnosis,
	}
}

// record writes the audit entry for an accepted mutation. Inside Submit and
// Approve this runs within the transaction, so a failed write rolls the
// whole submission back.
func (s *Service) record(ctx context.Context, action string, id uuid.UUID, old, new interface{}, actor auth.Actor) error {
	if s.audit == nil {
		return nil
	}
	return s.audit.Record(ctx, &audit.Entry{
		TableName: "form_submissions",
		RecordID:  id.String(),
		Action:    action,
		OldValues: audit.Snapshot(old),
		NewValues: audit.Snapshot(new),
		ActorID:   actor.ID,
		ActorName: actor.Name,
		ActorRole: actor.Role,
	})
}
