// Package patient holds the patient directory. Patients are identified by a
// 14-digit national ID alongside the internal UUID, and removal is a soft
// deactivation by default; hard deletion cascades through every dependent
// visit record.
package patient

import (
	"time"

	"github.com/google/uuid"

	"github.com/shifa/clinic/pkg/errs"
)

// SSNLength is the fixed length of the national ID.
const SSNLength = 14

// Patient maps to the patients table.
type Patient struct {
	ID                    uuid.UUID `db:"id" json:"id"`
	SSN                   string    `db:"ssn" json:"ssn"`
	MedicalNumber         *string   `db:"medical_number" json:"medical_number,omitempty"`
	FirstName             string    `db:"first_name" json:"first_name"`
	LastName              string    `db:"last_name" json:"last_name"`
	DateOfBirth           time.Time `db:"date_of_birth" json:"date_of_birth"`
	Gender                string    `db:"gender" json:"gender"`
	Phone                 *string   `db:"phone" json:"phone,omitempty"`
	Address               *string   `db:"address" json:"address,omitempty"`
	EmergencyContactName  *string   `db:"emergency_contact_name" json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone *string   `db:"emergency_contact_phone" json:"emergency_contact_phone,omitempty"`
	IsActive              bool      `db:"is_active" json:"is_active"`
	CreatedAt             time.Time `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time `db:"updated_at" json:"updated_at"`
}

// AgeYears returns the patient's age in whole years at the given time.
func (p *Patient) AgeYears(at time.Time) int {
	years := at.Year() - p.DateOfBirth.Year()
	anniversary := p.DateOfBirth.AddDate(years, 0, 0)
	if anniversary.After(at) {
		years--
	}
	return years
}

var validGenders = map[string]bool{
	"male":   true,
	"female": true,
	"other":  true,
}

// Validate checks the fields a caller controls.
func (p *Patient) Validate() error {
	if !validSSN(p.SSN) {
		return errs.Validation("ssn must be exactly 14 digits")
	}
	if p.FirstName == "" || p.LastName == "" {
		return errs.Validation("first_name and last_name are required")
	}
	if p.DateOfBirth.IsZero() {
		return errs.Validation("date_of_birth is required")
	}
	if p.DateOfBirth.After(time.Now()) {
		return errs.Validation("date_of_birth cannot be in the future")
	}
	if !validGenders[p.Gender] {
		return errs.Validation("gender must be male, female, or other")
	}
	return nil
}

func validSSN(ssn string) bool {
	if len(ssn) != SSNLength {
		return false
	}
	for _, c := range ssn {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
