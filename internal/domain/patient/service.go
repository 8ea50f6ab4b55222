package patient

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/shifa/clinic/internal/domain/audit"
	"github.com/shifa/clinic/internal/platform/auth"
	"github.com/shifa/clinic/pkg/errs"
)

type Service struct {
	repo  Repository
	audit audit.Recorder
}

func NewService(repo Repository, rec audit.Recorder) *Service {
	return &Service{repo: repo, audit: rec}
}

// UpdateRequest carries the mutable patient fields. SSN is identity and
// cannot change after registration.
type UpdateRequest struct {
	MedicalNumber         *string    `json:"medical_number"`
	FirstName             *string    `json:"first_name"`
	LastName              *string    `json:"last_name"`
	DateOfBirth           *time.Time `json:"date_of_birth"`
	Gender                *string    `json:"gender"`
	Phone                 *string    `json:"phone"`
	Address               *string    `json:"address"`
	EmergencyContactName  *string    `json:"emergency_contact_name"`
	EmergencyContactPhone *string    `json:"emergency_contact_phone"`
}

func (s *Service) CreatePatient(ctx context.Context, p *Patient, actor auth.Actor) error {
	if !actor.HasRole(auth.RoleNurse) {
		return errs.Authorization("role %s cannot register patients", actor.Role)
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return err
	}
	p.IsActive = true
	return s.record(ctx, audit.ActionCreate, p.ID, nil, p, actor)
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetPatientBySSN(ctx context.Context, ssn string) (*Patient, error) {
	return s.repo.GetBySSN(ctx, ssn)
}

func (s *Service) UpdatePatient(ctx context.Context, ssn string, req UpdateRequest, actor auth.Actor) (*Patient, error) {
	if !actor.HasRole(auth.RoleNurse) {
		return nil, errs.Authorization("role %s cannot update patients", actor.Role)
	}
	p, err := s.repo.GetBySSN(ctx, ssn)
	if err != nil {
		return nil, err
	}
	old := *p

	if req.MedicalNumber != nil {
		p.MedicalNumber = req.MedicalNumber
	}
	if req.FirstName != nil {
		p.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		p.LastName = *req.LastName
	}
	if req.DateOfBirth != nil {
		p.DateOfBirth = *req.DateOfBirth
	}
	if req.Gender != nil {
		p.Gender = *req.Gender
	}
	if req.Phone != nil {
		p.Phone = req.Phone
	}
	if req.Address != nil {
		p.Address = req.Address
	}
	if req.EmergencyContactName != nil {
		p.EmergencyContactName = req.EmergencyContactName
	}
	if req.EmergencyContactPhone != nil {
		p.EmergencyContactPhone = req.EmergencyContactPhone
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	if err := s.record(ctx, audit.ActionUpdate, p.ID, &old, p, actor); err != nil {
		return nil, err
	}
	return p, nil
}

// DeletePatient deactivates by default. A hard delete is admin-only and
// cascades through every visit, submission, and assessment for the patient.
func (s *Service) DeletePatient(ctx context.Context, ssn string, hard bool, actor auth.Actor) error {
	if !actor.HasRole(auth.RoleNurse) {
		return errs.Authorization("role %s cannot remove patients", actor.Role)
	}
	if hard && !actor.IsAdmin() {
		return errs.Authorization("hard deletion requires the admin role")
	}
	p, err := s.repo.GetBySSN(ctx, ssn)
	if err != nil {
		return err
	}
	if hard {
		if err := s.repo.Delete(ctx, p.ID); err != nil {
			return err
		}
		return s.record(ctx, audit.ActionDelete, p.ID, p, nil, actor)
	}
	if err := s.repo.Deactivate(ctx, p.ID); err != nil {
		return err
	}
	return s.record(ctx, audit.ActionUpdate, p.ID, p, map[string]bool{"is_active": false}, actor)
}

func (s *Service) ListPatients(ctx context.Context, includeInactive bool, limit, offset int) ([]*Patient, int, error) {
	return s.repo.List(ctx, includeInactive, limit, offset)
}

// AgeYears returns the patient's current age, for fall-risk scale routing.
func (s *Service) AgeYears(ctx context.Context, patientID uuid.UUID) (int, error) {
	p, err := s.repo.GetByID(ctx, patientID)
	if err != nil {
		return 0, err
	}
	return p.AgeYears(time.Now()), nil
}

// record writes the audit entry for an accepted mutation. A failed write
// fails the operation, so nothing changes without a trail.
func (s *Service) record(ctx context.Context, action string, id uuid.UUID, old, new interface{}, actor auth.Actor) error {
	if s.audit == nil {
		return nil
	}
	return s.audit.Record(ctx, &audit.Entry{
		TableName: "patients",
		RecordID:  id.String(),
		Action:    action,
		OldValues: audit.Snapshot(old),
		NewValues: audit.Snapshot(new),
		ActorID:   actor.ID,
		ActorName: actor.Name,
		ActorRole: actor.Role,
	})
}
