package patient

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

const patientCols = `id, ssn, medical_number, first_name, last_name, date_of_birth, gender,
	phone, address, emergency_contact_name, emergency_contact_phone,
	is_active, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO patients (
			id, ssn, medical_number, first_name, last_name, date_of_birth, gender,
			phone, address, emergency_contact_name, emergency_contact_phone, is_active
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,TRUE)`,
		p.ID, p.SSN, p.MedicalNumber, p.FirstName, p.LastName, p.DateOfBirth, p.Gender,
		p.Phone, p.Address, p.EmergencyContactName, p.EmergencyContactPhone,
	)
	if db.IsUniqueViolation(err) {
		return errs.Conflict("patient with ssn %s already registered", p.SSN)
	}
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	p, err := scanPatient(r.conn(ctx).QueryRow(ctx, `SELECT `+patientCols+` FROM patients WHERE id = $1`, id))
	if db.IsNoRows(err) {
		return nil, errs.NotFound("patient %s not found", id)
	}
	return p, err
}

func (r *repoPG) GetBySSN(ctx context.Context, ssn string) (*Patient, error) {
	p, err := scanPatient(r.conn(ctx).QueryRow(ctx, `SELECT `+patientCols+` FROM patients WHERE ssn = $1`, ssn))
	if db.IsNoRows(err) {
		return nil, errs.NotFound("patient with ssn %s not found", ssn)
	}
	return p, err
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE patients SET
			medical_number=$2, first_name=$3, last_name=$4, date_of_birth=$5, gender=$6,
			phone=$7, address=$8, emergency_contact_name=$9, emergency_contact_phone=$10,
			is_active=$11, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.MedicalNumber, p.FirstName, p.LastName, p.DateOfBirth, p.Gender,
		p.Phone, p.Address, p.EmergencyContactName, p.EmergencyContactPhone, p.IsActive,
	)
	if db.IsUniqueViolation(err) {
		return errs.Conflict("medical number already in use")
	}
	return err
}

func (r *repoPG) Deactivate(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE patients SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, includeInactive bool, limit, offset int) ([]*Patient, int, error) {
	where := `WHERE is_active = TRUE`
	if includeInactive {
		where = ``
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM patients `+where).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+patientCols+` FROM patients `+where+` ORDER BY last_name, first_name LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var patients []*Patient
	for rows.Next() {
		var p Patient
		if err := rows.Scan(
			&p.ID, &p.SSN, &p.MedicalNumber, &p.FirstName, &p.LastName, &p.DateOfBirth, &p.Gender,
			&p.Phone, &p.Address, &p.EmergencyContactName, &p.EmergencyContactPhone,
			&p.IsActive, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		patients = append(patients, &p)
	}
	return patients, total, nil
}

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(
		&p.ID, &p.SSN, &p.MedicalNumber, &p.FirstName, &p.LastName, &p.DateOfBirth, &p.Gender,
		&p.Phone, &p.Address, &p.EmergencyContactName, &p.EmergencyContactPhone,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
