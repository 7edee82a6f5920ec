package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient is one registered patient record. The prescription flow consumes
// this shape directly; it never depends on how the record was fetched.
type Patient struct {
	ID        uuid.UUID  `json:"id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	BirthDate time.Time  `json:"birth_date"`
	Gender    string     `json:"gender,omitempty"`
	Address   string     `json:"address,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	WeightKG  *float64   `json:"weight_kg,omitempty"`
	Allergies []string   `json:"allergies,omitempty"`
	ClinicID  *uuid.UUID `json:"clinic_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// FullName returns "First Last".
func (p *Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}

// AgeAt returns the patient's age in whole years at the given date.
func (p *Patient) AgeAt(at time.Time) int {
	years := at.Year() - p.BirthDate.Year()
	// Subtract one year if the birthday has not occurred yet.
	anniversary := p.BirthDate.AddDate(years, 0, 0)
	if anniversary.After(at) {
		years--
	}
	if years < 0 {
		years = 0
	}
	return years
}

// Age returns the patient's current age in whole years.
func (p *Patient) Age() int {
	return p.AgeAt(time.Now())
}
