package medicine

import (
	"time"

	"github.com/google/uuid"
)

// Form is the dispensing form of a catalog entry.
type Form string

const (
	FormTablet      Form = "tablet"
	FormCapsule     Form = "capsule"
	FormSyrup       Form = "syrup"
	FormInjectable  Form = "injectable"
	FormCream       Form = "cream"
	FormOintment    Form = "ointment"
	FormSuppository Form = "suppository"
	FormOther       Form = "other"
)

func (f Form) Valid() bool {
	switch f {
	case FormTablet, FormCapsule, FormSyrup, FormInjectable,
		FormCream, FormOintment, FormSuppository, FormOther:
		return true
	}
	return false
}

// Medicine is a catalog entry, not a dispensing record. Stock tracks the
// on-hand count at the pharmacy counter.
type Medicine struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	GenericName string    `json:"generic_name,omitempty"`
	Dosage      string    `json:"dosage,omitempty"`
	Form        Form      `json:"form"`
	Unit        string    `json:"unit"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
