package forms

import (
	"time"

	"github.com/shifa/clinic/internal/domain/fallrisk"
)

// NursingPayload is the client-entered content of the nursing screening
// form. Fall-risk factors for both scales may be sent; the server picks the
// scale from the patient's age and recomputes every score itself.
type NursingPayload struct {
	ArrivalMode *string    `json:"arrival_mode"`
	ArrivalTime *time.Time `json:"arrival_time"`

	Vitals fallrisk.VitalSigns `json:"vitals"`

	GeneralCondition *string `json:"general_condition"`
	PainScore        *int    `json:"pain_score"`
	PainLocation     *string `json:"pain_location"`

	Morse  *fallrisk.MorseFactors  `json:"morse_factors"`
	Humpty *fallrisk.HumptyFactors `json:"humpty_factors"`

	NutritionalRisk      bool    `json:"nutritional_risk"`
	FunctionalLimitation bool    `json:"functional_limitation"`
	Notes                *string `json:"notes"`
}

// RadiologyPayload is the client-entered content of the radiology
// preparation form.
type RadiologyPayload struct {
	StudyReason      *string `json:"study_reason"`
	HasPacemaker     bool    `json:"has_pacemaker"`
	HasMetalImplants bool    `json:"has_metal_implants"`
	IsPregnant       bool    `json:"is_pregnant"`
	PriorOperations  *string `json:"prior_operations"`
	PriorRadiology   *string `json:"prior_radiology"`
	TechnicalNotes   *string `json:"technical_notes"`
	Diagnosis        *string `json:"diagnosis"`
}

// SubmitRequest carries one submission attempt. Version must match the
// submission's stored version at write time.
type SubmitRequest struct {
	Version   int               `json:"version"`
	Nursing   *NursingPayload   `json:"nursing,omitempty"`
	Radiology *RadiologyPayload `json:"radiology,omitempty"`
}
