package forms

import (
	"context"

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

const defCols = `id, code, title, department, required_role, is_active, created_at`

func (r *repoPG) GetDefinitionByCode(ctx context.Context, code string) (*FormDefinition, error) {
	var def FormDefinition
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT `+defCols+` FROM form_definitions WHERE code = $1`, code,
	).Scan(&def.ID, &def.Code, &def.Title, &def.Department, &def.RequiredRole, &def.IsActive, &def.CreatedAt)
	if db.IsNoRows(err) {
		return nil, errs.NotFound("form %s not found", code)
	}
	if err != nil {
		return nil, err
	}
	return &def, nil
}

func (r *repoPG) ListDefinitions(ctx context.Context) ([]*FormDefinition, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+defCols+` FROM form_definitions ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var defs []*FormDefinition
	for rows.Next() {
		var def FormDefinition
		if err := rows.Scan(&def.ID, &def.Code, &def.Title, &def.Department, &def.RequiredRole, &def.IsActive, &def.CreatedAt); err != nil {
			return nil, err
		}
		defs = append(defs, &def)
	}
	return defs, nil
}

func (r *repoPG) UpsertDefinition(ctx context.Context, def *FormDefinition) error {
	if def.ID == uuid.Nil {
		def.ID = uuid.New()
	}
	row := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO form_definitions (id, code, title, department, required_role, is_active)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (code) DO UPDATE SET
			title = EXCLUDED.title,
			department = EXCLUDED.department,
			required_role = EXCLUDED.required_role,
			is_active = EXCLUDED.is_active
		RETURNING id`,
		def.ID, def.Code, def.Title, def.Department, def.RequiredRole, def.IsActive,
	)
	return row.Scan(&def.ID)
}

const subCols = `s.id, s.visit_id, s.form_id, f.code, s.status, s.version,
	s.created_by, s.submitted_by, s.submitted_at, s.approved_by, s.approved_at,
	s.created_at, s.updated_at`

const subJoin = `FROM form_submissions s JOIN form_definitions f ON f.id = s.form_id`

func (r *repoPG) CreateSubmission(ctx context.Context, sub *Submission) error {
	sub.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO form_submissions (id, visit_id, form_id, status, version, created_by)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		sub.ID, sub.VisitID, sub.FormID, sub.Status, sub.Version, sub.CreatedBy,
	)
	if db.IsUniqueViolation(err) {
		return errs.Conflict("visit already has a submission for this form")
	}
	if db.IsForeignKeyViolation(err) {
		return errs.NotFound("visit %s not found", sub.VisitID)
	}
	return err
}

func (r *repoPG) GetSubmission(ctx context.Context, id uuid.UUID) (*Submission, error) {
	sub, err := scanSubmission(r.conn(ctx).QueryRow(ctx,
		`SELECT `+subCols+` `+subJoin+` WHERE s.id = $1`, id))
	if db.IsNoRows(err) {
		return nil, errs.NotFound("submission %s not found", id)
	}
	return sub, err
}

func (r *repoPG) GetByVisitAndForm(ctx context.Context, visitID, formID uuid.UUID) (*Submission, error) {
	sub, err := scanSubmission(r.conn(ctx).QueryRow(ctx,
		`SELECT `+subCols+` `+subJoin+` WHERE s.visit_id = $1 AND s.form_id = $2`, visitID, formID))
	if db.IsNoRows(err) {
		return nil, errs.NotFound("no submission for this visit and form")
	}
	return sub, err
}

func (r *repoPG) ListByVisit(ctx context.Context, visitID uuid.UUID) ([]*Submission, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+subCols+` `+subJoin+` WHERE s.visit_id = $1 ORDER BY s.created_at`, visitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []*Submission
	for rows.Next() {
		var sub Submission
		if err := rows.Scan(
			&sub.ID, &sub.VisitID, &sub.FormID, &sub.FormCode, &sub.Status, &sub.Version,
			&sub.CreatedBy, &sub.SubmittedBy, &sub.SubmittedAt, &sub.ApprovedBy, &sub.ApprovedAt,
			&sub.CreatedAt, &sub.UpdatedAt,
		); err != nil {
			return nil, err
		}
		subs = append(subs, &sub)
	}
	return subs, nil
}

func (r *repoPG) UpdateSubmission(ctx context.Context, sub *Submission, expectedVersion int) (bool, error) {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE form_submissions SET
			status = $2,
			version = version + 1,
			submitted_by = $3, submitted_at = $4,
			approved_by = $5, approved_at = $6,
			updated_at = NOW()
		WHERE id = $1 AND version = $7`,
		sub.ID, sub.Status,
		sub.SubmittedBy, sub.SubmittedAt,
		sub.ApprovedBy, sub.ApprovedAt,
		expectedVersion,
	)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() != 1 {
		return false, nil
	}
	sub.Version = expectedVersion + 1
	return true, nil
}

func (r *repoPG) CountDrafts(ctx context.Context, visitID uuid.UUID) (int, error) {
	var n int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM form_submissions WHERE visit_id = $1 AND status = $2`,
		visitID, StatusDraft,
	).Scan(&n)
	return n, err
}

func scanSubmission(row pgx.Row) (*Submission, error) {
	var sub Submission
	err := row.Scan(
		&sub.ID, &sub.VisitID, &sub.FormID, &sub.FormCode, &sub.Status, &sub.Version,
		&sub.CreatedBy, &sub.SubmittedBy, &sub.SubmittedAt, &sub.ApprovedBy, &sub.ApprovedAt,
		&sub.CreatedAt, &sub.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}
