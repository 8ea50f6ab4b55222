// Package fallrisk holds the pure clinical decision logic: the vital-sign
// range validator and the two fall-risk scoring scales. Nothing in this
// package touches the database or the request context.
package fallrisk

import (
	"fmt"

	"github.com/shifa/clinic/pkg/errs"
)

// VitalSigns is a record of optional numeric clinical measurements.
// Nil fields were not measured and are not validated.
type VitalSigns struct {
	TemperatureCelsius    *float64 `json:"temperature_celsius,omitempty"`
	PulseBPM              *int     `json:"pulse_bpm,omitempty"`
	BloodPressureSystolic *int     `json:"blood_pressure_systolic,omitempty"`
	BloodPressureDiastolic *int    `json:"blood_pressure_diastolic,omitempty"`
	RespiratoryRatePerMin *int     `json:"respiratory_rate_per_min,omitempty"`
	OxygenSaturationPct   *float64 `json:"oxygen_saturation_percent,omitempty"`
	BloodSugarMgDL        *int     `json:"blood_sugar_mg_dl,omitempty"`
	WeightKg              *float64 `json:"weight_kg,omitempty"`
	HeightCm              *float64 `json:"height_cm,omitempty"`
}

// Inclusive bounds for each measurement. Oxygen saturation keeps the
// clinical 70.0 floor; values below that are treated as entry errors.
const (
	TemperatureMin = 30.0
	TemperatureMax = 45.0
	PulseMin       = 30
	PulseMax       = 200
	SystolicMin    = 70
	SystolicMax    = 250
	DiastolicMin   = 40
	DiastolicMax   = 150
	RespRateMin    = 8
	RespRateMax    = 60
	SpO2Min        = 70.0
	SpO2Max        = 100.0
)

// ValidateVitals checks every present field against its range and returns a
// single errs.Validation enumerating all out-of-range fields, or nil.
func ValidateVitals(v VitalSigns) error {
	var violations []errs.FieldViolation

	check := func(field string, value, min, max float64) {
		if value < min || value > max {
			violations = append(violations, errs.FieldViolation{
				Field: field,
				Value: value,
				Bound: fmt.Sprintf("%g-%g", min, max),
			})
		}
	}
	checkPositive := func(field string, value float64) {
		if value <= 0 {
			violations = append(violations, errs.FieldViolation{
				Field: field,
				Value: value,
				Bound: ">0",
			})
		}
	}

	if v.TemperatureCelsius != nil {
		check("temperature_celsius", *v.TemperatureCelsius, TemperatureMin, TemperatureMax)
	}
	if v.PulseBPM != nil {
		check("pulse_bpm", float64(*v.PulseBPM), PulseMin, PulseMax)
	}
	if v.BloodPressureSystolic != nil {
		check("blood_pressure_systolic", float64(*v.BloodPressureSystolic), SystolicMin, SystolicMax)
	}
	if v.BloodPressureDiastolic != nil {
		check("blood_pressure_diastolic", float64(*v.BloodPressureDiastolic), DiastolicMin, DiastolicMax)
	}
	if v.RespiratoryRatePerMin != nil {
		check("respiratory_rate_per_min", float64(*v.RespiratoryRatePerMin), RespRateMin, RespRateMax)
	}
	if v.OxygenSaturationPct != nil {
		check("oxygen_saturation_percent", *v.OxygenSaturationPct, SpO2Min, SpO2Max)
	}
	if v.BloodSugarMgDL != nil {
		checkPositive("blood_sugar_mg_dl", float64(*v.BloodSugarMgDL))
	}
	if v.WeightKg != nil {
		checkPositive("weight_kg", *v.WeightKg)
	}
	if v.HeightCm != nil {
		checkPositive("height_cm", *v.HeightCm)
	}

	if len(violations) > 0 {
		return errs.Validation("vital signs out of range", violations...)
	}
	return nil
}

// BMI derives body mass index from weight and height, rounded to one
// decimal. Returns nil when either measurement is missing or non-positive.
func BMI(weightKg, heightCm *float64) *float64 {
	if weightKg == nil || heightCm == nil || *weightKg <= 0 || *heightCm <= 0 {
		return nil
	}
	m := *heightCm / 100
	bmi := *weightKg / (m * m)
	rounded := float64(int(bmi*10+0.5)) / 10
	return &rounded
}

// IsCriticalVitals reports whether any measured vital sign is in the
// critical band used for the nursing flag: temperature outside 35-40,
// pulse outside 50-150, or SpO2 below 90.
func IsCriticalVitals(v VitalSigns) bool {
	if v.TemperatureCelsius != nil && (*v.TemperatureCelsius < 35.0 || *v.TemperatureCelsius > 40.0) {
		return true
	}
	if v.PulseBPM != nil && (*v.PulseBPM < 50 || *v.PulseBPM > 150) {
		return true
	}
	if v.OxygenSaturationPct != nil && *v.OxygenSaturationPct < 90.0 {
		return true
	}
	return false
}
