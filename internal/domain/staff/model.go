package staff

import (
	"time"

	"github.com/google/uuid"
)

// Role is the professional role of a staff member. It mirrors the console
// roles but describes the profile, not the session.
type Role string

const (
	RoleDoctor   Role = "doctor"
	RoleNurse    Role = "nurse"
	RolePharmacy Role = "pharmacy"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleDoctor, RoleNurse, RolePharmacy, RoleAdmin:
		return true
	}
	return false
}

// Member is one staff profile. Doctors carry the license and practice
// details the prescription header renders.
type Member struct {
	ID            uuid.UUID  `json:"id"`
	Role          Role       `json:"role"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	Specialty     string     `json:"specialty,omitempty"`
	LicenseNumber string     `json:"license_number,omitempty"`
	ClinicID      *uuid.UUID `json:"clinic_id,omitempty"`
	Phone         string     `json:"phone,omitempty"`
	Email         string     `json:"email,omitempty"`
	Active        bool       `json:"active"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// FullName returns the display name with the doctor honorific when due.
func (m *Member) FullName() string {
	name := m.FirstName + " " + m.LastName
	if m.Role == RoleDoctor {
		return "Dr. " + name
	}
	return name
}
