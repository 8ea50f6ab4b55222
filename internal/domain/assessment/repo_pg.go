package assessment

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

const nursingCols = `id, submission_id, visit_id, arrival_mode, arrival_time,
	temperature_celsius, pulse_bpm, blood_pressure_systolic, blood_pressure_diastolic,
	respiratory_rate_per_min, oxygen_saturation_percent, blood_sugar_mg_dl, weight_kg, height_cm,
	bmi, is_critical_vitals, general_condition, pain_score, pain_location,
	fall_risk_scale, fall_risk_score, fall_risk_level,
	nutritional_risk, functional_limitation, notes, created_at, updated_at`

// UpsertNursing inserts the assessment or, on re-submission, replaces the
// existing row for the same submission in place.
func (r *repoPG) UpsertNursing(ctx context.Context, a *NursingAssessment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	row := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO nursing_assessments (
			id, submission_id, visit_id, arrival_mode, arrival_time,
			temperature_celsius, pulse_bpm, blood_pressure_systolic, blood_pressure_diastolic,
			respiratory_rate_per_min, oxygen_saturation_percent, blood_sugar_mg_dl, weight_kg, height_cm,
			bmi, is_critical_vitals, general_condition, pain_score, pain_location,
			fall_risk_scale, fall_risk_score, fall_risk_level,
			nutritional_risk, functional_limitation, notes
		) VALUES (
			$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,
			$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25
		)
		ON CONFLICT (submission_id) DO UPDATE SET
			arrival_mode = EXCLUDED.arrival_mode,
			arrival_time = EXCLUDED.arrival_time,
			temperature_celsius = EXCLUDED.temperature_celsius,
			pulse_bpm = EXCLUDED.pulse_bpm,
			blood_pressure_systolic = EXCLUDED.blood_pressure_systolic,
			blood_pressure_diastolic = EXCLUDED.blood_pressure_diastolic,
			respiratory_rate_per_min = EXCLUDED.respiratory_rate_per_min,
			oxygen_saturation_percent = EXCLUDED.oxygen_saturation_percent,
			blood_sugar_mg_dl = EXCLUDED.blood_sugar_mg_dl,
			weight_kg = EXCLUDED.weight_kg,
			height_cm = EXCLUDED.height_cm,
			bmi = EXCLUDED.bmi,
			is_critical_vitals = EXCLUDED.is_critical_vitals,
			general_condition = EXCLUDED.general_condition,
			pain_score = EXCLUDED.pain_score,
			pain_location = EXCLUDED.pain_location,
			fall_risk_scale = EXCLUDED.fall_risk_scale,
			fall_risk_score = EXCLUDED.fall_risk_score,
			fall_risk_level = EXCLUDED.fall_risk_level,
			nutritional_risk = EXCLUDED.nutritional_risk,
			functional_limitation = EXCLUDED.functional_limitation,
			notes = EXCLUDED.notes,
			updated_at = NOW()
		RETURNING id`,
		a.ID, a.SubmissionID, a.VisitID, a.ArrivalMode, a.ArrivalTime,
		a.Vitals.TemperatureCelsius, a.Vitals.PulseBPM, a.Vitals.BloodPressureSystolic, a.Vitals.BloodPressureDiastolic,
		a.Vitals.RespiratoryRatePerMin, a.Vitals.OxygenSaturationPct, a.Vitals.BloodSugarMgDL, a.Vitals.WeightKg, a.Vitals.HeightCm,
		a.BMI, a.IsCriticalVitals, a.GeneralCondition, a.PainScore, a.PainLocation,
		a.FallRiskScale, a.FallRiskScore, a.FallRiskLevel,
		a.NutritionalRisk, a.FunctionalLimitation, a.Notes,
	)
	return row.Scan(&a.ID)
}

func (r *repoPG) GetNursingBySubmission(ctx context.Context, submissionID uuid.UUID) (*NursingAssessment, error) {
	var a NursingAssessment
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT `+nursingCols+` FROM nursing_assessments WHERE submission_id = $1`, submissionID,
	).Scan(
		&a.ID, &a.SubmissionID, &a.VisitID, &a.ArrivalMode, &a.ArrivalTime,
		&a.Vitals.TemperatureCelsius, &a.Vitals.PulseBPM, &a.Vitals.BloodPressureSystolic, &a.Vitals.BloodPressureDiastolic,
		&a.Vitals.RespiratoryRatePerMin, &a.Vitals.OxygenSaturationPct, &a.Vitals.BloodSugarMgDL, &a.Vitals.WeightKg, &a.Vitals.HeightCm,
		&a.BMI, &a.IsCriticalVitals, &a.GeneralCondition, &a.PainScore, &a.PainLocation,
		&a.FallRiskScale, &a.FallRiskScore, &a.FallRiskLevel,
		&a.NutritionalRisk, &a.FunctionalLimitation, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
	)
	if db.IsNoRows(err) {
		return nil, errs.NotFound("no nursing assessment for submission %s", submissionID)
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repoPG) UpsertRadiology(ctx context.Context, a *RadiologyAssessment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	row := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO radiology_assessments (
			id, submission_id, visit_id, study_reason, has_pacemaker, has_metal_implants,
			is_pregnant, prior_operations, prior_radiology, technical_notes, diagnosis
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (submission_id) DO UPDATE SET
			study_reason = EXCLUDED.study_reason,
			has_pacemaker = EXCLUDED.has_pacemaker,
			has_metal_implants = EXCLUDED.has_metal_implants,
			is_pregnant = EXCLUDED.is_pregnant,
			prior_operations = EXCLUDED.prior_operations,
			prior_radiology = EXCLUDED.prior_radiology,
			technical_notes = EXCLUDED.technical_notes,
			diagnosis = EXCLUDED.diagnosis,
			updated_at = NOW()
		RETURNING id`,
		a.ID, a.SubmissionID, a.VisitID, a.StudyReason, a.HasPacemaker, a.HasMetalImplants,
		a.IsPregnant, a.PriorOperations, a.PriorRadiology, a.TechnicalNotes, a.Diagnosis,
	)
	return row.Scan(&a.ID)
}

func (r *repoPG) GetRadiologyBySubmission(ctx context.Context, submissionID uuid.UUID) (*RadiologyAssessment, error) {
	var a RadiologyAssessment
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, submission_id, visit_id, study_reason, has_pacemaker, has_metal_implants,
			is_pregnant, prior_operations, prior_radiology, technical_notes, diagnosis,
			created_at, updated_at
		FROM radiology_assessments WHERE submission_id = $1`, submissionID,
	).Scan(
		&a.ID, &a.SubmissionID, &a.VisitID, &a.StudyReason, &a.HasPacemaker, &a.HasMetalImplants,
		&a.IsPregnant, &a.PriorOperations, &a.PriorRadiology, &a.TechnicalNotes, &a.Diagnosis,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if db.IsNoRows(err) {
		return nil, errs.NotFound("no radiology assessment for submission %s", submissionID)
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repoPG) AddFallRiskRecord(ctx context.Context, rec *FallRiskRecord) error {
	rec.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO fall_risk_records (id, assessment_id, scale, factors, score, level)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		rec.ID, rec.AssessmentID, rec.Scale, rec.Factors, rec.Score, rec.Level,
	)
	return err
}

func (r *repoPG) ListFallRiskRecords(ctx context.Context, assessmentID uuid.UUID) ([]*FallRiskRecord, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, assessment_id, scale, factors, score, level, created_at
		FROM fall_risk_records WHERE assessment_id = $1 ORDER BY created_at`, assessmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*FallRiskRecord
	for rows.Next() {
		var rec FallRiskRecord
		if err := rows.Scan(&rec.ID, &rec.AssessmentID, &rec.Scale, &rec.Factors, &rec.Score, &rec.Level, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}
	return records, nil
}

func (r *repoPG) AddVitalSignsRecord(ctx context.Context, rec *VitalSignsRecord) error {
	rec.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO vital_signs_records (
			id, assessment_id, temperature_celsius, pulse_bpm,
			blood_pressure_systolic, blood_pressure_diastolic, respiratory_rate_per_min,
			oxygen_saturation_percent, blood_sugar_mg_dl, weight_kg, height_cm,
			bmi, is_critical
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		rec.ID, rec.AssessmentID, rec.TemperatureCelsius, rec.PulseBPM,
		rec.BloodPressureSystolic, rec.BloodPressureDiastolic, rec.RespiratoryRatePerMin,
		rec.OxygenSaturationPct, rec.BloodSugarMgDL, rec.WeightKg, rec.HeightCm,
		rec.BMI, rec.IsCritical,
	)
	return err
}

func (r *repoPG) ListVitalSignsRecords(ctx context.Context, assessmentID uuid.UUID) ([]*VitalSignsRecord, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, assessment_id, temperature_celsius, pulse_bpm,
			blood_pressure_systolic, blood_pressure_diastolic, respiratory_rate_per_min,
			oxygen_saturation_percent, blood_sugar_mg_dl, weight_kg, height_cm,
			bmi, is_critical, recorded_at
		FROM vital_signs_records WHERE assessment_id = $1 ORDER BY recorded_at`, assessmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*VitalSignsRecord
	for rows.Next() {
		var rec VitalSignsRecord
		if err := rows.Scan(
			&rec.ID, &rec.AssessmentID, &rec.TemperatureCelsius, &rec.PulseBPM,
			&rec.BloodPressureSystolic, &rec.BloodPressureDiastolic, &rec.RespiratoryRatePerMin,
			&rec.OxygenSaturationPct, &rec.BloodSugarMgDL, &rec.WeightKg, &rec.HeightCm,
			&rec.BMI, &rec.IsCritical, &rec.RecordedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}
	return records, nil
}
