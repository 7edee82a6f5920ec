package prescription

import (
	"time"

	"github.com/google/uuid"
)

// MedicationItem is one committed line of a medication order. A committed
// line always has name, dosage, posology and duration filled.
type MedicationItem struct {
	ID                  uuid.UUID `json:"id"`
	Name                string    `json:"name"`
	GenericName         string    `json:"generic_name,omitempty"`
	Dosage              string    `json:"dosage"`
	Form                string    `json:"form"`
	Posology            string    `json:"posology"`
	Duration            string    `json:"duration"`
	Quantity            int       `json:"quantity"`
	Unit                string    `json:"unit"`
	SubstitutionAllowed bool      `json:"substitution_allowed"`
	Instructions        string    `json:"instructions,omitempty"`
}

// Prescription is a finalized order. Immutable once stored; the signature
// never leaves the server through the JSON surface, only inside the rendered
// document.
type Prescription struct {
	ID              uuid.UUID        `json:"id"`
	Number          string           `json:"number"`
	CreatedAt       time.Time        `json:"created_at"`
	DoctorID        uuid.UUID        `json:"doctor_id"`
	PatientID       uuid.UUID        `json:"patient_id"`
	Diagnosis       string           `json:"diagnosis,omitempty"`
	Items           []MedicationItem `json:"items"`
	Recommendations string           `json:"recommendations,omitempty"`
	Renewals        int              `json:"renewals"`
	SignaturePNG    []byte           `json:"-"`
	QRPayload       string           `json:"qr_payload"`
	BarcodePayload  string           `json:"barcode_payload"`
}
