package visit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/shifa/clinic/internal/domain/audit"
	"github.com/shifa/clinic/internal/platform/auth"
	"github.com/shifa/clinic/pkg/errs"
)

// -- Mock Repository --

type mockRepo struct {
	visits map[uuid.UUID]*Visit
}

func newMockRepo() *mockRepo {
	return &mockRepo{visits: make(map[uuid.UUID]*Visit)}
}

func (m *mockRepo) Create(_ context.Context, v *Visit) error {
	v.ID = uuid.New()
	v.CreatedAt = time.Now()
	v.UpdatedAt = time.Now()
	m.visits[v.ID] = v
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Visit, error) {
	v, ok := m.visits[id]
	if !ok {
		return nil, errs.NotFound("visit %s not found", id)
	}
	cp := *v
	return &cp, nil
}

func (m *mockRepo) UpdateDetails(_ context.Context, v *Visit) error {
	m.visits[v.ID] = v
	return nil
}

func (m *mockRepo) List(_ context.Context, f ListFilter, limit, offset int) ([]*Visit, int, error) {
	var result []*Visit
	for _, v := range m.visits {
		if f.PatientID != nil && v.PatientID != *f.PatientID {
			continue
		}
		if f.Status != "" && v.Status != f.Status {
			continue
		}
		result = append(result, v)
	}
	return result, len(result), nil
}

func (m *mockRepo) Transition(_ context.Context, id uuid.UUID, from, to string, completedAt *time.Time, cancelReason *string) (bool, error) {
	v, ok := m.visits[id]
	if !ok || v.Status != from {
		return false, nil
	}
	v.Status = to
	if completedAt != nil {
		v.CompletedAt = completedAt
	}
	if cancelReason != nil {
		v.CancelReason = cancelReason
	}
	return true, nil
}

type stubAges struct{ age int }

func (s stubAges) AgeYears(context.Context, uuid.UUID) (int, error) { return s.age, nil }

type stubDrafts struct{ n int }

func (s stubDrafts) CountDrafts(context.Context, uuid.UUID) (int, error) { return s.n, nil }

type stubRecorder struct {
	entries []*audit.Entry
	err     error
}

func (r *stubRecorder) Record(_ context.Context, e *audit.Entry) error {
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, e)
	return nil
}

// -- Tests --

var (
	nurse     = auth.Actor{ID: uuid.New(), Name: "Nurse Test", Role: auth.RoleNurse}
	physician = auth.Actor{ID: uuid.New(), Name: "Dr Test", Role: auth.RolePhysician}
	admin     = auth.Actor{ID: uuid.New(), Name: "Admin Test", Role: auth.RoleAdmin}
)

func newTestService() (*Service, *mockRepo) {
	repo := newMockRepo()
	svc := NewService(repo, stubAges{age: 30}, nil)
	svc.SetDraftCounter(stubDrafts{n: 0})
	return svc, repo
}

func createOpenVisit(t *testing.T, svc *Service) *Visit {
	t.Helper()
	v := &Visit{PatientID: uuid.New()}
	if err := svc.CreateVisit(context.Background(), v, nurse); err != nil {
		t.Fatalf("create visit: %v", err)
	}
	return v
}

func TestCreateVisit(t *testing.T) {
	svc, _ := newTestService()
	v := createOpenVisit(t, svc)
	if v.Status != StatusOpen {
		t.Errorf("expected new visit open, got %s", v.Status)
	}
}

func TestCreateVisit_RequiresPatient(t *testing.T) {
	svc, _ := newTestService()
	err := svc.CreateVisit(context.Background(), &Visit{}, nurse)
	if !errs.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestCreateVisit_RoleGate(t *testing.T) {
	svc, _ := newTestService()
	err := svc.CreateVisit(context.Background(), &Visit{PatientID: uuid.New()}, auth.Actor{Role: "clerk"})
	if !errs.IsAuthorization(err) {
		t.Errorf("expected authorization error, got %v", err)
	}
}

func TestStart(t *testing.T) {
	svc, repo := newTestService()
	v := createOpenVisit(t, svc)
	ctx := context.Background()

	if err := svc.Start(ctx, v.ID, nurse); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.visits[v.ID].Status != StatusInProgress {
		t.Errorf("expected in_progress, got %s", repo.visits[v.ID].Status)
	}

	// Starting again is an idempotent no-op.
	if err := svc.Start(ctx, v.ID, physician); err != nil {
		t.Errorf("idempotent start should succeed: %v", err)
	}
}

func TestStart_TerminalRejected(t *testing.T) {
	svc, repo := newTestService()
	v := createOpenVisit(t, svc)
	repo.visits[v.ID].Status = StatusCancelled

	err := svc.Start(context.Background(), v.ID, nurse)
	if !errs.IsState(err) {
		t.Errorf("expected state error, got %v", err)
	}
}

func TestComplete(t *testing.T) {
	svc, repo := newTestService()
	v := createOpenVisit(t, svc)
	ctx := context.Background()

	// Completing an open visit is rejected.
	if err := svc.Complete(ctx, v.ID, physician); !errs.IsState(err) {
		t.Errorf("expected state error from open, got %v", err)
	}

	_ = svc.Start(ctx, v.ID, nurse)
	if err := svc.Complete(ctx, v.ID, physician); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored := repo.visits[v.ID]
	if stored.Status != StatusCompleted {
		t.Errorf("expected completed, got %s", stored.Status)
	}
	if stored.CompletedAt == nil {
		t.Error("expected completed_at to be set")
	}

	// Completing again is an idempotent no-op.
	if err := svc.Complete(ctx, v.ID, physician); err != nil {
		t.Errorf("idempotent complete should succeed: %v", err)
	}
}

func TestComplete_RoleGate(t *testing.T) {
	svc, _ := newTestService()
	v := createOpenVisit(t, svc)
	ctx := context.Background()
	_ = svc.Start(ctx, v.ID, nurse)

	if err := svc.Complete(ctx, v.ID, nurse); !errs.IsAuthorization(err) {
		t.Errorf("nurse must not complete visits, got %v", err)
	}
	if err := svc.Complete(ctx, v.ID, admin); err != nil {
		t.Errorf("admin should complete visits: %v", err)
	}
}

func TestComplete_BlockedByDrafts(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, stubAges{}, nil)
	svc.SetDraftCounter(stubDrafts{n: 2})

	v := createOpenVisit(t, svc)
	ctx := context.Background()
	_ = svc.Start(ctx, v.ID, nurse)

	err := svc.Complete(ctx, v.ID, physician)
	if !errs.IsState(err) {
		t.Errorf("expected state error while drafts remain, got %v", err)
	}
}

func TestCancel(t *testing.T) {
	svc, repo := newTestService()
	v := createOpenVisit(t, svc)
	ctx := context.Background()

	if err := svc.Cancel(ctx, v.ID, "", physician); !errs.IsValidation(err) {
		t.Errorf("expected validation error for empty reason, got %v", err)
	}

	if err := svc.Cancel(ctx, v.ID, "patient left", physician); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored := repo.visits[v.ID]
	if stored.Status != StatusCancelled {
		t.Errorf("expected cancelled, got %s", stored.Status)
	}
	if stored.CancelReason == nil || *stored.CancelReason != "patient left" {
		t.Error("expected cancel reason recorded")
	}

	// Cancelling again is an idempotent no-op, even without a reason.
	if err := svc.Cancel(ctx, v.ID, "", physician); err != nil {
		t.Errorf("idempotent cancel should succeed: %v", err)
	}
}

func TestCancel_CompletedRejected(t *testing.T) {
	svc, _ := newTestService()
	v := createOpenVisit(t, svc)
	ctx := context.Background()
	_ = svc.Start(ctx, v.ID, nurse)
	_ = svc.Complete(ctx, v.ID, physician)

	err := svc.Cancel(ctx, v.ID, "too late", physician)
	if !errs.IsState(err) {
		t.Errorf("expected state error, got %v", err)
	}
}

func TestCancel_RoleGate(t *testing.T) {
	svc, repo := newTestService()
	v := createOpenVisit(t, svc)
	ctx := context.Background()

	if err := svc.Cancel(ctx, v.ID, "patient left", nurse); !errs.IsAuthorization(err) {
		t.Errorf("nurse must not cancel visits, got %v", err)
	}
	if repo.visits[v.ID].Status != StatusOpen {
		t.Errorf("rejected cancel must not change status, got %s", repo.visits[v.ID].Status)
	}
	if err := svc.Cancel(ctx, v.ID, "duplicate registration", admin); err != nil {
		t.Errorf("admin should cancel visits: %v", err)
	}
}

func TestCancel_FromInProgress(t *testing.T) {
	svc, repo := newTestService()
	v := createOpenVisit(t, svc)
	ctx := context.Background()
	_ = svc.Start(ctx, v.ID, nurse)

	if err := svc.Cancel(ctx, v.ID, "equipment failure", physician); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.visits[v.ID].Status != StatusCancelled {
		t.Error("expected cancelled from in_progress")
	}
}

func TestMarkInProgress(t *testing.T) {
	svc, repo := newTestService()
	v := createOpenVisit(t, svc)
	ctx := context.Background()

	if err := svc.MarkInProgress(ctx, v.ID, nurse); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.visits[v.ID].Status != StatusInProgress {
		t.Error("expected visit moved to in_progress")
	}

	// On a non-open visit the notification is silently ignored.
	repo.visits[v.ID].Status = StatusCompleted
	if err := svc.MarkInProgress(ctx, v.ID, nurse); err != nil {
		t.Errorf("notification on terminal visit should not error: %v", err)
	}
	if repo.visits[v.ID].Status != StatusCompleted {
		t.Error("terminal status must not change")
	}
}

func TestMarkInProgress_Audited(t *testing.T) {
	repo := newMockRepo()
	rec := &stubRecorder{}
	svc := NewService(repo, stubAges{age: 30}, rec)

	v := createOpenVisit(t, svc)
	ctx := context.Background()
	rec.entries = nil

	if err := svc.MarkInProgress(ctx, v.ID, nurse); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.entries) != 1 {
		t.Fatalf("expected one audit entry, got %d", len(rec.entries))
	}
	e := rec.entries[0]
	if e.Action != audit.ActionStatusChange || e.ActorID != nurse.ID {
		t.Errorf("expected status_change by the submitter, got %s by %s", e.Action, e.ActorID)
	}

	// A notification that changes nothing writes nothing.
	if err := svc.MarkInProgress(ctx, v.ID, nurse); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.entries) != 1 {
		t.Errorf("no-op notification must not be audited, got %d entries", len(rec.entries))
	}
}

func TestStart_AuditFailureFails(t *testing.T) {
	repo := newMockRepo()
	rec := &stubRecorder{}
	svc := NewService(repo, stubAges{age: 30}, rec)

	v := createOpenVisit(t, svc)
	rec.err = errors.New("audit store unavailable")

	if err := svc.Start(context.Background(), v.ID, nurse); err == nil {
		t.Error("expected the transition to fail when the audit write fails")
	}
}

func TestUpdateVisit_TerminalRejected(t *testing.T) {
	svc, repo := newTestService()
	v := createOpenVisit(t, svc)
	repo.visits[v.ID].Status = StatusCompleted

	dept := "radiology"
	_, err := svc.UpdateVisit(context.Background(), v.ID, UpdateRequest{Department: &dept}, nurse)
	if !errs.IsState(err) {
		t.Errorf("expected state error, got %v", err)
	}
}

func TestConcurrentTransitionConflict(t *testing.T) {
	svc, repo := newTestService()
	v := createOpenVisit(t, svc)
	ctx := context.Background()

	// Simulate a concurrent cancel between read and CAS: the stored row is
	// cancelled while the service believes the visit is still open.
	repo.visits[v.ID].Status = StatusOpen
	loaded, _ := svc.GetVisit(ctx, v.ID)
	repo.visits[v.ID].Status = StatusCancelled

	err := svc.transition(ctx, loaded, StatusInProgress, nil, nil, nurse)
	if !errs.IsConflict(err) {
		t.Errorf("expected conflict, got %v", err)
	}
}

func TestPatientAgeYears(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, stubAges{age: 9}, nil)
	v := createOpenVisit(t, svc)

	age, err := svc.PatientAgeYears(context.Background(), v.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if age != 9 {
		t.Errorf("expected age 9, got %d", age)
	}
}
