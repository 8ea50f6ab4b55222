package visit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/shifa/clinic/internal/domain/audit"
	"github.com/shifa/clinic/internal/platform/auth"
	"github.com/shifa/clinic/pkg/errs"
)

// PatientDirectory supplies the patient facts the lifecycle needs.
type PatientDirectory interface {
	AgeYears(ctx context.Context, patientID uuid.UUID) (int, error)
}

// DraftCounter reports how many draft form submissions a visit still has.
// Completion is blocked while any remain.
type DraftCounter interface {
	CountDrafts(ctx context.Context, visitID uuid.UUID) (int, error)
}

type Service struct {
	repo     Repository
	patients PatientDirectory
	audit    audit.Recorder
	drafts   DraftCounter
}

func NewService(repo Repository, patients PatientDirectory, rec audit.Recorder) *Service {
	return &Service{repo: repo, patients: patients, audit: rec}
}

// SetDraftCounter attaches the submission registry's draft check. Wired after
// construction because the registry itself depends on this service.
func (s *Service) SetDraftCounter(dc DraftCounter) {
	s.drafts = dc
}

func (s *Service) CreateVisit(ctx context.Context, v *Visit, actor auth.Actor) error {
	if !actor.HasRole(auth.RoleNurse) {
		return errs.Authorization("role %s cannot open visits", actor.Role)
	}
	if v.PatientID == uuid.Nil {
		return errs.Validation("patient_id is required")
	}
	v.Status = StatusOpen
	if err := s.repo.Create(ctx, v); err != nil {
		return err
	}
	return s.record(ctx, audit.ActionCreate, v.ID, nil, v, actor)
}

func (s *Service) GetVisit(ctx context.Context, id uuid.UUID) (*Visit, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListVisits(ctx context.Context, f ListFilter, limit, offset int) ([]*Visit, int, error) {
	return s.repo.List(ctx, f, limit, offset)
}

// UpdateRequest carries the mutable visit detail fields. Status changes go
// through the lifecycle operations, never through here.
type UpdateRequest struct {
	VisitType           *string    `json:"visit_type"`
	Department          *string    `json:"department"`
	ChiefComplaint      *string    `json:"chief_complaint"`
	Diagnosis           *string    `json:"diagnosis"`
	AssignedPhysicianID *uuid.UUID `json:"assigned_physician_id"`
}

func (s *Service) UpdateVisit(ctx context.Context, id uuid.UUID, req UpdateRequest, actor auth.Actor) (*Visit, error) {
	if !actor.HasRole(auth.RoleNurse, auth.RolePhysician) {
		return nil, errs.Authorization("role %s cannot update visits", actor.Role)
	}
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if IsTerminal(v.Status) {
		return nil, errs.State("visit %s is %s and can no longer change", id, v.Status)
	}
	old := *v

	if req.VisitType != nil {
		v.VisitType = req.VisitType
	}
	if req.Department != nil {
		v.Department = req.Department
	}
	if req.ChiefComplaint != nil {
		v.ChiefComplaint = req.ChiefComplaint
	}
	if req.Diagnosis != nil {
		v.Diagnosis = req.Diagnosis
	}
	if req.AssignedPhysicianID != nil {
		v.AssignedPhysicianID = req.AssignedPhysicianID
	}

	if err := s.repo.UpdateDetails(ctx, v); err != nil {
		return nil, err
	}
	if err := s.record(ctx, audit.ActionUpdate, v.ID, &old, v, actor); err != nil {
		return nil, err
	}
	return v, nil
}

// Start moves an open visit to in_progress. Starting a visit that is already
// in progress succeeds without effect.
func (s *Service) Start(ctx context.Context, id uuid.UUID, actor auth.Actor) error {
	if !actor.HasRole(auth.RoleNurse, auth.RolePhysician) {
		return errs.Authorization("role %s cannot start visits", actor.Role)
	}
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	switch v.Status {
	case StatusInProgress:
		return nil
	case StatusOpen:
		return s.transition(ctx, v, StatusInProgress, nil, nil, actor)
	default:
		return errs.State("visit %s is %s and cannot be started", id, v.Status)
	}
}

// Complete finishes an in-progress visit. All form submissions must have
// left the draft state first. Completing a completed visit is a no-op.
func (s *Service) Complete(ctx context.Context, id uuid.UUID, actor auth.Actor) error {
	if !actor.HasRole(auth.RolePhysician) {
		return errs.Authorization("role %s cannot complete visits", actor.Role)
	}
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	switch v.Status {
	case StatusCompleted:
		return nil
	case StatusInProgress:
		if s.drafts != nil {
			n, err := s.drafts.CountDrafts(ctx, id)
			if err != nil {
				return err
			}
			if n > 0 {
				return errs.State("visit has %d draft submission(s); submit or discard them first", n)
			}
		}
		now := time.Now().UTC()
		return s.transition(ctx, v, StatusCompleted, &now, nil, actor)
	case StatusOpen:
		return errs.State("visit must be in progress before completion")
	default:
		return errs.State("visit %s is %s and cannot be completed", id, v.Status)
	}
}

// Cancel ends a non-terminal visit with a required reason. Only a physician
// or an admin may cancel. Cancelling an already-cancelled visit is a no-op.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, reason string, actor auth.Actor) error {
	if !actor.HasRole(auth.RolePhysician) {
		return errs.Authorization("role %s cannot cancel visits", actor.Role)
	}
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	switch v.Status {
	case StatusCancelled:
		return nil
	case StatusCompleted:
		return errs.State("completed visits cannot be cancelled")
	}
	if reason == "" {
		return errs.Validation("a cancellation reason is required")
	}
	return s.transition(ctx, v, StatusCancelled, nil, &reason, actor)
}

// MarkInProgress is the registry's notification hook: the first successful
// form submission moves an open visit forward, attributed to the submitter.
// Any other current status is left alone.
func (s *Service) MarkInProgress(ctx context.Context, id uuid.UUID, actor auth.Actor) error {
	moved, err := s.repo.Transition(ctx, id, StatusOpen, StatusInProgress, nil, nil)
	if err != nil || !moved {
		return err
	}
	return s.record(ctx, audit.ActionStatusChange, id,
		map[string]string{"status": StatusOpen},
		map[string]string{"status": StatusInProgress},
		actor)
}

// StatusOf returns the visit's current status.
func (s *Service) StatusOf(ctx context.Context, id uuid.UUID) (string, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return v.Status, nil
}

// PatientAgeYears returns the age of the visit's patient, for scale routing.
func (s *Service) PatientAgeYears(ctx context.Context, visitID uuid.UUID) (int, error) {
	v, err := s.repo.GetByID(ctx, visitID)
	if err != nil {
		return 0, err
	}
	return s.patients.AgeYears(ctx, v.PatientID)
}

func (s *Service) transition(ctx context.Context, v *Visit, to string, completedAt *time.Time, cancelReason *string, actor auth.Actor) error {
	from := v.Status
	if !CanTransition(from, to) {
		return errs.State("cannot move visit from %s to %s", from, to)
	}
	ok, err := s.repo.Transition(ctx, v.ID, from, to, completedAt, cancelReason)
	if err != nil {
		return err
	}
	if !ok {
		// Someone else moved the visit first. Re-read: landing on the same
		// target is still success.
		current, err := s.repo.GetByID(ctx, v.ID)
		if err != nil {
			return err
		}
		if current.Status == to {
			return nil
		}
		return errs.Conflict("visit status changed concurrently (now %s)", current.Status)
	}
	return s.record(ctx, audit.ActionStatusChange, v.ID,
		map[string]string{"status": from},
		map[string]string{"status": to},
		actor)
}

// record writes the audit entry for an accepted mutation. A failed write
// fails the operation, so nothing changes without a trail.
func (s *Service) record(ctx context.Context, action string, id uuid.UUID, old, new interface{}, actor auth.Actor) error {
	if s.audit == nil {
		return nil
	}
	return s.audit.Record(ctx, &audit.Entry{
		TableName: "visits",
		RecordID:  id.String(),
		Action:    action,
		OldValues: audit.Snapshot(old),
		NewValues: audit.Snapshot(new),
		ActorID:   actor.ID,
		ActorName: actor.Name,
		ActorRole: actor.Role,
	})
}
