// Package assessment stores the clinical content captured by a form
// submission: the nursing screening with its vital-sign and fall-risk
// subrecords, and the radiology preparation record. Each assessment belongs
// to exactly one submission.
package assessment

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/shifa/clinic/internal/domain/fallrisk"
)

// Assessment kinds.
const (
	KindNursing   = "nursing"
	KindRadiology = "radiology"
)

// NursingAssessment maps to the nursing_assessments table.
type NursingAssessment struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	SubmissionID uuid.UUID  `db:"submission_id" json:"submission_id"`
	VisitID      uuid.UUID  `db:"visit_id" json:"visit_id"`
	ArrivalMode  *string    `db:"arrival_mode" json:"arrival_mode,omitempty"`
	ArrivalTime  *time.Time `db:"arrival_time" json:"arrival_time,omitempty"`

	Vitals           fallrisk.VitalSigns `json:"vitals"`
	BMI              *float64            `db:"bmi" json:"bmi,omitempty"`
	IsCriticalVitals bool                `db:"is_critical_vitals" json:"is_critical_vitals"`

	GeneralCondition *string `db:"general_condition" json:"general_condition,omitempty"`
	PainScore        *int    `db:"pain_score" json:"pain_score,omitempty"`
	PainLocation     *string `db:"pain_location" json:"pain_location,omitempty"`

	FallRiskScale string `db:"fall_risk_scale" json:"fall_risk_scale"`
	FallRiskScore int    `db:"fall_risk_score" json:"fall_risk_score"`
	FallRiskLevel string `db:"fall_risk_level" json:"fall_risk_level"`

	NutritionalRisk      bool    `db:"nutritional_risk" json:"nutritional_risk"`
	FunctionalLimitation bool    `db:"functional_limitation" json:"functional_limitation"`
	Notes                *string `db:"notes" json:"notes,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// RadiologyAssessment maps to the radiology_assessments table.
type RadiologyAssessment struct {
	ID           uuid.UUID `db:"id" json:"id"`
	SubmissionID uuid.UUID `db:"submission_id" json:"submission_id"`
	VisitID      uuid.UUID `db:"visit_id" json:"visit_id"`

	StudyReason      *string `db:"study_reason" json:"study_reason,omitempty"`
	HasPacemaker     bool    `db:"has_pacemaker" json:"has_pacemaker"`
	HasMetalImplants bool    `db:"has_metal_implants" json:"has_metal_implants"`
	IsPregnant       bool    `db:"is_pregnant" json:"is_pregnant"`
	PriorOperations  *string `db:"prior_operations" json:"prior_operations,omitempty"`
	PriorRadiology   *string `db:"prior_radiology" json:"prior_radiology,omitempty"`
	TechnicalNotes   *string `db:"technical_notes" json:"technical_notes,omitempty"`
	Diagnosis        *string `db:"diagnosis" json:"diagnosis,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// FallRiskRecord is one scored fall-risk evaluation. A new record is appended
// on every submission so the scoring history survives re-submission.
type FallRiskRecord struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	AssessmentID uuid.UUID       `db:"assessment_id" json:"assessment_id"`
	Scale        string          `db:"scale" json:"scale"`
	Factors      json.RawMessage `db:"factors" json:"factors"`
	Score        int             `db:"score" json:"score"`
	Level        string          `db:"level" json:"level"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}

// VitalSignsRecord is one set of measured vitals, appended per submission.
type VitalSignsRecord struct {
	ID           uuid.UUID `db:"id" json:"id"`
	AssessmentID uuid.UUID `db:"assessment_id" json:"assessment_id"`

	fallrisk.VitalSigns
	BMI        *float64  `db:"bmi" json:"bmi,omitempty"`
	IsCritical bool      `db:"is_critical" json:"is_critical"`
	RecordedAt time.Time `db:"recorded_at" json:"recorded_at"`
}
