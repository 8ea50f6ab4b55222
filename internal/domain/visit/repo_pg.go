package visit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shifa/clinic/internal/platform/db"
	"github.com/shifa/clinic/pkg/errs"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (r *repoPG) conn(ctx context.Context) querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const visitCols = `id, patient_id, status, visit_type, department, chief_complaint, diagnosis,
	assigned_physician_id, cancel_reason, completed_at, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, v *Visit) error {
	v.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO visits (
			id, patient_id, status, visit_type, department, chief_complaint, diagnosis,
			assigned_physician_id
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		v.ID, v.PatientID, v.Status, v.VisitType, v.Department, v.ChiefComplaint, v.Diagnosis,
		v.AssignedPhysicianID,
	)
	if db.IsForeignKeyViolation(err) {
		return errs.NotFound("patient %s not found", v.PatientID)
	}
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Visit, error) {
	v, err := scanVisit(r.conn(ctx).QueryRow(ctx, `SELECT `+visitCols+` FROM visits WHERE id = $1`, id))
	if db.IsNoRows(err) {
		return nil, errs.NotFound("visit %s not found", id)
	}
	return v, err
}

func (r *repoPG) UpdateDetails(ctx context.Context, v *Visit) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE visits SET
			visit_type=$2, department=$3, chief_complaint=$4, diagnosis=$5,
			assigned_physician_id=$6, updated_at=NOW()
		WHERE id = $1`,
		v.ID, v.VisitType, v.Department, v.ChiefComplaint, v.Diagnosis, v.AssignedPhysicianID,
	)
	return err
}

func (r *repoPG) List(ctx context.Context, f ListFilter, limit, offset int) ([]*Visit, int, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	n := 0
	if f.PatientID != nil {
		n++
		where += fmt.Sprintf(" AND patient_id = $%d", n)
		args = append(args, *f.PatientID)
	}
	if f.Status != "" {
		n++
		where += fmt.Sprintf(" AND status = $%d", n)
		args = append(args, f.Status)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM visits `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM visits %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		visitCols, where, n+1, n+2)
	rows, err := r.conn(ctx).Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var visits []*Visit
	for rows.Next() {
		var v Visit
		if err := rows.Scan(
			&v.ID, &v.PatientID, &v.Status, &v.VisitType, &v.Department, &v.ChiefComplaint, &v.Diagnosis,
			&v.AssignedPhysicianID, &v.CancelReason, &v.CompletedAt, &v.CreatedAt, &v.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		visits = append(visits, &v)
	}
	return visits, total, nil
}

func (r *repoPG) Transition(ctx context.Context, id uuid.UUID, from, to string, completedAt *time.Time, cancelReason *string) (bool, error) {
	// Compare-and-set on the stored status so concurrent transitions cannot
	// both win.
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE visits SET
			status = $3,
			completed_at = COALESCE($4, completed_at),
			cancel_reason = COALESCE($5, cancel_reason),
			updated_at = NOW()
		WHERE id = $1 AND status = $2`,
		id, from, to, completedAt, cancelReason,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func scanVisit(row pgx.Row) (*Visit, error) {
	var v Visit
	err := row.Scan(
		&v.ID, &v.PatientID, &v.Status, &v.VisitType, &v.Department, &v.ChiefComplaint, &v.Diagnosis,
		&v.AssignedPhysicianID, &v.CancelReason, &v.CompletedAt, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
