package fallrisk

import "testing"

func TestScoreHumpty_Minimum(t *testing.T) {
	s, level := ScoreHumpty(HumptyFactors{
		AgeYears:          15,
		Gender:            "female",
		DiagnosisCategory: DiagnosisOther,
		CognitiveStatus:   CognitiveOriented,
		Environmental:     EnvOutpatient,
		SurgerySedation:   SurgeryNone,
		MedicationRisk:    MedsNone,
	})
	if s.Total != 7 {
		t.Errorf("expected minimum total 7, got %d", s.Total)
	}
	if level != RiskLow {
		t.Errorf("expected low, got %s", level)
	}
}

func TestScoreHumpty_Maximum(t *testing.T) {
	s, level := ScoreHumpty(HumptyFactors{
		AgeYears:          2,
		Gender:            "male",
		DiagnosisCategory: DiagnosisNeurological,
		CognitiveStatus:   CognitiveNotAware,
		Environmental:     EnvHistoryOfFalls,
		SurgerySedation:   SurgeryWithin24h,
		MedicationRisk:    MedsMultipleHighRisk,
	})
	if s.Total != 23 {
		t.Errorf("expected maximum total 23, got %d", s.Total)
	}
	if level != RiskHigh {
		t.Errorf("expected high, got %s", level)
	}
}

func TestScoreHumpty_AgeBands(t *testing.T) {
	cases := []struct {
		age  int
		want int
	}{
		{0, 4}, {2, 4},
		{3, 3}, {6, 3},
		{7, 2}, {12, 2},
		{13, 1}, {17, 1},
	}
	for _, tc := range cases {
		s, _ := ScoreHumpty(HumptyFactors{AgeYears: tc.age, Gender: "female"})
		if s.Age != tc.want {
			t.Errorf("age %d: score %d, want %d", tc.age, s.Age, tc.want)
		}
	}
}

func TestScoreHumpty_GenderScores(t *testing.T) {
	m, _ := ScoreHumpty(HumptyFactors{AgeYears: 10, Gender: "male"})
	f, _ := ScoreHumpty(HumptyFactors{AgeYears: 10, Gender: "female"})
	o, _ := ScoreHumpty(HumptyFactors{AgeYears: 10, Gender: "other"})
	if m.Gender != 2 {
		t.Errorf("male should score 2, got %d", m.Gender)
	}
	if f.Gender != 1 || o.Gender != 1 {
		t.Errorf("female/other should score 1, got %d/%d", f.Gender, o.Gender)
	}
}

func TestScoreHumpty_FactorTables(t *testing.T) {
	base := HumptyFactors{AgeYears: 16, Gender: "female"}

	diag := base
	diag.DiagnosisCategory = DiagnosisOxygenation
	if s, _ := ScoreHumpty(diag); s.Diagnosis != 3 {
		t.Errorf("altered oxygenation should score 3, got %d", s.Diagnosis)
	}
	diag.DiagnosisCategory = DiagnosisPsychiatric
	if s, _ := ScoreHumpty(diag); s.Diagnosis != 2 {
		t.Errorf("psychiatric should score 2, got %d", s.Diagnosis)
	}

	cog := base
	cog.CognitiveStatus = CognitiveForgets
	if s, _ := ScoreHumpty(cog); s.Cognitive != 2 {
		t.Errorf("forgets limitations should score 2, got %d", s.Cognitive)
	}

	env := base
	env.Environmental = EnvAssistiveDevice
	if s, _ := ScoreHumpty(env); s.Environmental != 3 {
		t.Errorf("assistive device should score 3, got %d", s.Environmental)
	}
	env.Environmental = EnvInfantInBed
	if s, _ := ScoreHumpty(env); s.Environmental != 2 {
		t.Errorf("infant in bed should score 2, got %d", s.Environmental)
	}

	surg := base
	surg.SurgerySedation = SurgeryWithin48h
	if s, _ := ScoreHumpty(surg); s.Surgery != 2 {
		t.Errorf("surgery within 48h should score 2, got %d", s.Surgery)
	}

	meds := base
	meds.MedicationRisk = MedsOneHighRisk
	if s, _ := ScoreHumpty(meds); s.Medication != 2 {
		t.Errorf("one high-risk medication should score 2, got %d", s.Medication)
	}
}

func TestScoreHumpty_HighCutoffAt12(t *testing.T) {
	// 11 total: age 1 + male 2 + diagnosis 4 + the four remaining minimums.
	s, level := ScoreHumpty(HumptyFactors{
		AgeYears:          17,
		Gender:            "male",
		DiagnosisCategory: DiagnosisNeurological,
	})
	if s.Total != 11 || level != RiskLow {
		t.Errorf("total 11 should be low, got (%d,%s)", s.Total, level)
	}

	// 12 total: bump cognitive by one.
	s, level = ScoreHumpty(HumptyFactors{
		AgeYears:          17,
		Gender:            "male",
		DiagnosisCategory: DiagnosisNeurological,
		CognitiveStatus:   CognitiveForgets,
	})
	if s.Total != 12 || level != RiskHigh {
		t.Errorf("total 12 should be high, got (%d,%s)", s.Total, level)
	}
}

func TestIsPediatric(t *testing.T) {
	if !IsPediatric(17) {
		t.Error("17 is pediatric")
	}
	if IsPediatric(18) {
		t.Error("18 routes to the adult scale")
	}
}
