package prescription

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinicore/clinicore/internal/domain/clinic"
	"github.com/clinicore/clinicore/internal/domain/patient"
	"github.com/clinicore/clinicore/internal/domain/staff"
	"github.com/clinicore/clinicore/internal/platform/document"
	"github.com/clinicore/clinicore/internal/platform/signature"
)

var (
	ErrNoPatient        = errors.New("a patient must be selected")
	ErrNoMedications    = errors.New("at least one medication is required")
	ErrMissingSignature = errors.New("a signature is required")
)

// PatientDirectory resolves patient records; satisfied by patient.Service.
type PatientDirectory interface {
	Get(ctx context.Context, id uuid.UUID) (*patient.Patient, error)
}

// StaffDirectory resolves staff profiles; satisfied by staff.Service.
type StaffDirectory interface {
	Get(ctx context.Context, id uuid.UUID) (*staff.Member, error)
}

// ClinicDirectory resolves practice locations; satisfied by clinic.Service.
type ClinicDirectory interface {
	Get(ctx context.Context, id uuid.UUID) (*clinic.Clinic, error)
}

type Service struct {
	repo     Repository
	patients PatientDirectory
	staff    StaffDirectory
	clinics  ClinicDirectory
	gen      *document.Generator
	logger   zerolog.Logger

	mu   sync.Mutex
	idem map[string]*idemEntry
}

// idemEntry reserves one idempotency key while its first submission is in
// flight. done is closed once the holder settles; id/ok are only read after.
type idemEntry struct {
	done chan struct{}
	id   uuid.UUID
	ok   bool
}

func NewService(repo Repository, patients PatientDirectory, staffDir StaffDirectory, clinics ClinicDirectory, gen *document.Generator, logger zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		patients: patients,
		staff:    staffDir,
		clinics:  clinics,
		gen:      gen,
		logger:   logger.With().Str("component", "prescription").Logger(),
		idem:     make(map[string]*idemEntry),
	}
}

// FinalizeInput is everything a finalization carries. IdempotencyKey dedupes
// double submissions of the same order.
type FinalizeInput struct {
	DoctorID        uuid.UUID
	PatientID       uuid.UUID
	Diagnosis       string
	Items           []MedicationItem
	Recommendations string
	Renewals        int
	SignaturePNG    []byte
	IdempotencyKey  string
}

// Finalize validates the order end to end and stores the immutable record.
// No record is created when any precondition fails. Concurrent submissions
// sharing an IdempotencyKey resolve to a single stored prescription: the
// first caller reserves the key, later callers wait for its outcome.
func (s *Service) Finalize(ctx context.Context, in FinalizeInput) (*Prescription, error) {
	if in.IdempotencyKey == "" {
		return s.finalize(ctx, in)
	}

	for {
		s.mu.Lock()
		e, seen := s.idem[in.IdempotencyKey]
		if !seen {
			e = &idemEntry{done: make(chan struct{})}
			s.idem[in.IdempotencyKey] = e
			s.mu.Unlock()

			p, err := s.finalize(ctx, in)
			s.mu.Lock()
			if err != nil {
				delete(s.idem, in.IdempotencyKey)
			} else {
				e.id = p.ID
				e.ok = true
			}
			s.mu.Unlock()
			close(e.done)
			return p, err
		}
		s.mu.Unlock()

		select {
		case <-e.done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if e.ok {
			return s.repo.GetByID(ctx, e.id)
		}
		// The reservation holder failed without storing anything, so this
		// attempt takes over the key.
	}
}

func (s *Service) finalize(ctx context.Context, in FinalizeInput) (*Prescription, error) {
	if in.PatientID == uuid.Nil {
		return nil, ErrNoPatient
	}
	if len(in.Items) == 0 {
		return nil, ErrNoMedications
	}
	for i, item := range in.Items {
		if strings.TrimSpace(item.Name) == "" || strings.TrimSpace(item.Dosage) == "" ||
			strings.TrimSpace(item.Posology) == "" || strings.TrimSpace(item.Duration) == "" {
			return nil, fmt.Errorf("medication %d is incomplete", i+1)
		}
	}
	if err := signature.ValidatePNG(in.SignaturePNG); err != nil {
		if errors.Is(err, signature.ErrEmpty) {
			return nil, ErrMissingSignature
		}
		return nil, fmt.Errorf("signature: %w", err)
	}

	if _, err := s.patients.Get(ctx, in.PatientID); err != nil {
		return nil, fmt.Errorf("patient: %w", err)
	}
	doctor, err := s.staff.Get(ctx, in.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("doctor: %w", err)
	}
	if doctor.Role != staff.RoleDoctor {
		return nil, fmt.Errorf("%s is not a doctor", doctor.FullName())
	}

	items := make([]MedicationItem, len(in.Items))
	copy(items, in.Items)
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		if items[i].Quantity <= 0 {
			items[i].Quantity = 1
		}
		if items[i].Unit == "" {
			items[i].Unit = "boîte"
		}
	}

	p := &Prescription{
		ID:              uuid.New(),
		DoctorID:        in.DoctorID,
		PatientID:       in.PatientID,
		Diagnosis:       in.Diagnosis,
		Items:           items,
		Recommendations: in.Recommendations,
		Renewals:        in.Renewals,
		SignaturePNG:    in.SignaturePNG,
	}
	p.QRPayload = p.ID.String()
	p.BarcodePayload = p.ID.String()

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("number", p.Number).
		Str("patient_id", p.PatientID.String()).
		Int("items", len(p.Items)).
		Msg("prescription finalized")
	return p, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Prescription, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Prescription, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// Document renders the stored prescription and returns the PDF bytes with
// the deterministic download filename.
func (s *Service) Document(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}

	pt, err := s.patients.Get(ctx, p.PatientID)
	if err != nil {
		return nil, "", fmt.Errorf("patient: %w", err)
	}
	doctor, err := s.staff.Get(ctx, p.DoctorID)
	if err != nil {
		return nil, "", fmt.Errorf("doctor: %w", err)
	}

	doc := document.Prescription{
		Number: p.Number,
		Date:   p.CreatedAt,
		Doctor: document.Doctor{
			FullName:      doctor.FullName(),
			Specialty:     doctor.Specialty,
			LicenseNumber: doctor.LicenseNumber,
			Phone:         doctor.Phone,
			Email:         doctor.Email,
		},
		Patient: document.Patient{
			FullName:  pt.FullName(),
			BirthDate: pt.BirthDate,
			AgeYears:  pt.AgeAt(p.CreatedAt),
			Gender:    pt.Gender,
			Address:   pt.Address,
			Phone:     pt.Phone,
			WeightKG:  pt.WeightKG,
		},
		Diagnosis:       p.Diagnosis,
		Recommendations: p.Recommendations,
		Renewals:        p.Renewals,
		SignaturePNG:    p.SignaturePNG,
		QRPayload:       p.QRPayload,
		BarcodePayload:  p.BarcodePayload,
	}

	if doctor.ClinicID != nil {
		if cl, err := s.clinics.Get(ctx, *doctor.ClinicID); err == nil {
			doc.Doctor.PracticeName = cl.Name
			doc.Doctor.PracticeAddress = joinNonEmpty(", ", cl.Address, cl.City)
		} else {
			s.logger.Warn().Err(err).Msg("practice lookup failed, header stays doctor-only")
		}
	}

	doc.Items = make([]document.Item, len(p.Items))
	for i, item := range p.Items {
		doc.Items[i] = document.Item{
			Name:            item.Name,
			GenericName:     item.GenericName,
			Dosage:          item.Dosage,
			Form:            item.Form,
			Posology:        item.Posology,
			Duration:        item.Duration,
			Quantity:        item.Quantity,
			Unit:            item.Unit,
			DoNotSubstitute: !item.SubstitutionAllowed,
			Instructions:    item.Instructions,
		}
	}

	pdf, err := s.gen.Render(&doc)
	if err != nil {
		return nil, "", err
	}
	return pdf, document.Filename(pt.FullName(), p.CreatedAt), nil
}

func joinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
