package fallrisk

// Ambulatory aid categories for the Modified Morse Scale.
const (
	AidNone        = "none"
	AidBedrest     = "bedrest"
	AidNurseAssist = "nurse_assist"
	AidCrutches    = "crutches"
	AidCane        = "cane"
	AidWalker      = "walker"
	AidFurniture   = "furniture"
)

// Gait categories.
const (
	GaitNormal   = "normal"
	GaitBedfast  = "bedfast"
	GaitWeak     = "weak"
	GaitImpaired = "impaired"
)

// Mental status categories.
const (
	MentalOriented = "oriented"
	MentalForgets  = "forgets"
)

// Risk levels shared by both scales.
const (
	RiskLow      = "low"
	RiskModerate = "moderate"
	RiskHigh     = "high"
)

// MorseFactors are the six inputs to the Modified Morse fall scale.
type MorseFactors struct {
	FallHistory3Months bool   `json:"fall_history_3months"`
	SecondaryDiagnosis bool   `json:"secondary_diagnosis"`
	AmbulatoryAid      string `json:"ambulatory_aid"`
	IVTherapy          bool   `json:"iv_therapy"`
	GaitStatus         string `json:"gait_status"`
	MentalStatus       string `json:"mental_status"`
}

// Morse risk thresholds.
const (
	morseModerateAt = 25
	morseHighAt     = 50
)

// ScoreMorse computes the Modified Morse Scale total and risk level.
// Unknown categorical values score zero, matching the blank-form default.
func ScoreMorse(f MorseFactors) (score int, level string) {
	if f.FallHistory3Months {
		score += 25
	}
	if f.SecondaryDiagnosis {
		score += 15
	}
	switch f.AmbulatoryAid {
	case AidCrutches, AidCane, AidWalker:
		score += 15
	case AidFurniture:
		score += 30
	}
	if f.IVTherapy {
		score += 20
	}
	switch f.GaitStatus {
	case GaitWeak:
		score += 10
	case GaitImpaired:
		score += 20
	}
	if f.MentalStatus == MentalForgets {
		score += 15
	}

	switch {
	case score >= morseHighAt:
		level = RiskHigh
	case score >= morseModerateAt:
		level = RiskModerate
	default:
		level = RiskLow
	}
	return score, level
}
