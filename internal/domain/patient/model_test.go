package patient

import (
	"testing"
	"time"

	"github.com/shifa/clinic/pkg/errs"
)

func validPatient() *Patient {
	return &Patient{
		SSN:         "29805120101234",
		FirstName:   "Amina",
		LastName:    "Hassan",
		DateOfBirth: time.Date(1998, 5, 12, 0, 0, 0, 0, time.UTC),
		Gender:      "female",
	}
}

func TestValidate_OK(t *testing.T) {
	if err := validPatient().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_SSN(t *testing.T) {
	tests := []struct {
		name string
		ssn  string
		ok   bool
	}{
		{"valid 14 digits", "29805120101234", true},
		{"too short", "1234567890123", false},
		{"too long", "123456789012345", false},
		{"non-digit", "2980512010123a", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPatient()
			p.SSN = tt.ssn
			err := p.Validate()
			if tt.ok && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tt.ok && !errs.IsValidation(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestValidate_RequiredFields(t *testing.T) {
	p := validPatient()
	p.FirstName = ""
	if !errs.IsValidation(p.Validate()) {
		t.Error("expected validation error for missing first name")
	}

	p = validPatient()
	p.DateOfBirth = time.Time{}
	if !errs.IsValidation(p.Validate()) {
		t.Error("expected validation error for missing date of birth")
	}

	p = validPatient()
	p.DateOfBirth = time.Now().AddDate(1, 0, 0)
	if !errs.IsValidation(p.Validate()) {
		t.Error("expected validation error for future date of birth")
	}

	p = validPatient()
	p.Gender = "unknown"
	if !errs.IsValidation(p.Validate()) {
		t.Error("expected validation error for bad gender")
	}
}

func TestAgeYears(t *testing.T) {
	at := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		dob  time.Time
		want int
	}{
		{"birthday passed this year", time.Date(2000, 3, 1, 0, 0, 0, 0, time.UTC), 26},
		{"birthday later this year", time.Date(2000, 9, 1, 0, 0, 0, 0, time.UTC), 25},
		{"birthday today", time.Date(2000, 6, 15, 0, 0, 0, 0, time.UTC), 26},
		{"infant", time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Patient{DateOfBirth: tt.dob}
			if got := p.AgeYears(at); got != tt.want {
				t.Errorf("AgeYears() = %d, want %d", got, tt.want)
			}
		})
	}
}
