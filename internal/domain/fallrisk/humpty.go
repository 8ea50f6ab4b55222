package fallrisk

// Diagnosis categories for the Humpty Dumpty scale.
const (
	DiagnosisNeurological = "neurological"
	DiagnosisOxygenation  = "altered_oxygenation"
	DiagnosisPsychiatric  = "psychiatric_behavioral"
	DiagnosisOther        = "other"
)

// Cognitive categories.
const (
	CognitiveNotAware = "not_aware"
	CognitiveForgets  = "forgets_limitations"
	CognitiveOriented = "oriented"
)

// Environmental categories.
const (
	EnvHistoryOfFalls  = "history_of_falls" // includes crib/wheelchair placement
	EnvAssistiveDevice = "assistive_device"
	EnvInfantInBed     = "infant_in_bed"
	EnvOutpatient      = "outpatient"
)

// Surgery/sedation recency.
const (
	SurgeryWithin24h = "within_24h"
	SurgeryWithin48h = "within_48h"
	SurgeryNone      = "none"
)

// Medication risk.
const (
	MedsMultipleHighRisk = "multiple_high_risk"
	MedsOneHighRisk      = "one_high_risk"
	MedsNone             = "none"
)

// HumptyFactors are the seven inputs to the pediatric Humpty Dumpty scale.
// AgeYears also drives scale routing: patients 18 and older use Morse.
type HumptyFactors struct {
	AgeYears          int    `json:"age_years"`
	Gender            string `json:"gender"` // male, female, other
	DiagnosisCategory string `json:"diagnosis_category"`
	CognitiveStatus   string `json:"cognitive_status"`
	Environmental     string `json:"environmental"`
	SurgerySedation   string `json:"surgery_sedation"`
	MedicationRisk    string `json:"medication_risk"`
}

// PediatricAgeLimit is the exclusive upper bound for Humpty Dumpty use.
const PediatricAgeLimit = 18

// Humpty risk threshold. The source material carried two band schemes; the
// score-table cutoff of 12 is used: 7-11 low, 12 and above high.
const humptyHighAt = 12

// HumptyScores holds the per-factor breakdown alongside the total so the
// assessment can persist each component as entered.
type HumptyScores struct {
	Age           int `json:"age_score"`
	Gender        int `json:"gender_score"`
	Diagnosis     int `json:"diagnosis_score"`
	Cognitive     int `json:"cognitive_score"`
	Environmental int `json:"environmental_score"`
	Surgery       int `json:"surgery_anesthesia_score"`
	Medication    int `json:"medication_score"`
	Total         int `json:"total"`
}

// ScoreHumpty computes the Humpty Dumpty total and risk level. Every factor
// contributes at least 1, so the minimum total is 7. Age bands are half-open
// with the lower bound inclusive.
func ScoreHumpty(f HumptyFactors) (HumptyScores, string) {
	var s HumptyScores

	switch {
	case f.AgeYears < 3:
		s.Age = 4
	case f.AgeYears < 7:
		s.Age = 3
	case f.AgeYears < 13:
		s.Age = 2
	default:
		s.Age = 1
	}

	if f.Gender == "male" {
		s.Gender = 2
	} else {
		s.Gender = 1
	}

	switch f.DiagnosisCategory {
	case DiagnosisNeurological:
		s.Diagnosis = 4
	case DiagnosisOxygenation:
		s.Diagnosis = 3
	case DiagnosisPsychiatric:
		s.Diagnosis = 2
	default:
		s.Diagnosis = 1
	}

	switch f.CognitiveStatus {
	case CognitiveNotAware:
		s.Cognitive = 3
	case CognitiveForgets:
		s.Cognitive = 2
	default:
		s.Cognitive = 1
	}

	switch f.Environmental {
	case EnvHistoryOfFalls:
		s.Environmental = 4
	case EnvAssistiveDevice:
		s.Environmental = 3
	case EnvInfantInBed:
		s.Environmental = 2
	default:
		s.Environmental = 1
	}

	switch f.SurgerySedation {
	case SurgeryWithin24h:
		s.Surgery = 3
	case SurgeryWithin48h:
		s.Surgery = 2
	default:
		s.Surgery = 1
	}

	switch f.MedicationRisk {
	case MedsMultipleHighRisk:
		s.Medication = 3
	case MedsOneHighRisk:
		s.Medication = 2
	default:
		s.Medication = 1
	}

	s.Total = s.Age + s.Gender + s.Diagnosis + s.Cognitive + s.Environmental + s.Surgery + s.Medication

	level := RiskLow
	if s.Total >= humptyHighAt {
		level = RiskHigh
	}
	return s, level
}

// IsPediatric reports whether the Humpty Dumpty scale applies to the age.
func IsPediatric(ageYears int) bool {
	return ageYears < PediatricAgeLimit
}
