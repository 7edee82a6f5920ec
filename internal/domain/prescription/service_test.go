package prescription

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinicore/clinicore/internal/domain/clinic"
	"github.com/clinicore/clinicore/internal/domain/patient"
	"github.com/clinicore/clinicore/internal/domain/staff"
	"github.com/clinicore/clinicore/internal/platform/document"
	"github.com/clinicore/clinicore/internal/platform/memstore"
	"github.com/clinicore/clinicore/internal/platform/signature"
)

type fixture struct {
	svc     *Service
	doctor  *staff.Member
	patient *patient.Patient
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithLatency(t, 0)
}

func newFixtureWithLatency(t *testing.T, d time.Duration) *fixture {
	t.Helper()
	ctx := context.Background()
	latency := memstore.NewLatency(d)

	clinics := clinic.NewService(clinic.NewMemRepository(latency))
	cl := &clinic.Clinic{Name: "Clinique Les Oliviers", Address: "12 rue des Fleurs", City: "Casablanca"}
	if err := clinics.Create(ctx, cl); err != nil {
		t.Fatalf("clinic fixture: %v", err)
	}

	staffSvc := staff.NewService(staff.NewMemRepository(latency))
	doctor := &staff.Member{
		Role:          staff.RoleDoctor,
		FirstName:     "Karim",
		LastName:      "Bennani",
		Specialty:     "Médecine générale",
		LicenseNumber: "MA-4471",
		ClinicID:      &cl.ID,
	}
	if err := staffSvc.Create(ctx, doctor); err != nil {
		t.Fatalf("doctor fixture: %v", err)
	}

	patients := patient.NewService(patient.NewMemRepository(latency))
	pt := &patient.Patient{
		FirstName: "Amine",
		LastName:  "Zidane",
		BirthDate: time.Date(1990, 3, 15, 0, 0, 0, 0, time.UTC),
		Gender:    "M",
	}
	if err := patients.Create(ctx, pt); err != nil {
		t.Fatalf("patient fixture: %v", err)
	}

	gen := document.NewGenerator(zerolog.Nop())
	svc := NewService(NewMemRepository(latency), patients, staffSvc, clinics, gen, zerolog.Nop())
	return &fixture{svc: svc, doctor: doctor, patient: pt}
}

func signaturePNG(t *testing.T) []byte {
	t.Helper()
	pad, err := signature.NewPad(400, 150)
	if err != nil {
		t.Fatalf("pad: %v", err)
	}
	pad.AddStroke([]signature.Point{{X: 20, Y: 80}, {X: 180, Y: 40}, {X: 360, Y: 100}})
	data, err := pad.ExportPNG()
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	return data
}

func (f *fixture) validInput(t *testing.T) FinalizeInput {
	return FinalizeInput{
		DoctorID:  f.doctor.ID,
		PatientID: f.patient.ID,
		Items: []MedicationItem{{
			Name:     "Paracetamol",
			Dosage:   "1000 mg",
			Form:     "tablet",
			Posology: "1 comprimé 3 fois par jour",
			Duration: "5 jours",
			Quantity: 1,
			Unit:     "boîte",
		}},
		SignaturePNG: signaturePNG(t),
	}
}

func TestService_Finalize(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.svc.Finalize(ctx, f.validInput(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Number == "" {
		t.Error("expected an order number")
	}
	wantPrefix := "ORD-" + time.Now().Format("2006") + "-"
	if len(p.Number) != len(wantPrefix)+4 || p.Number[:len(wantPrefix)] != wantPrefix {
		t.Errorf("unexpected number format %q", p.Number)
	}
	if p.QRPayload != p.ID.String() || p.BarcodePayload != p.ID.String() {
		t.Error("payloads should default to the prescription id")
	}
}

func TestService_Finalize_SequentialNumbers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.Finalize(ctx, f.validInput(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := f.svc.Finalize(ctx, f.validInput(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Number >= second.Number {
		t.Errorf("numbers should increase: %s then %s", first.Number, second.Number)
	}
}

func TestService_Finalize_Preconditions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := f.validInput(t)
	in.PatientID = uuid.Nil
	if _, err := f.svc.Finalize(ctx, in); !errors.Is(err, ErrNoPatient) {
		t.Errorf("expected ErrNoPatient, got %v", err)
	}

	in = f.validInput(t)
	in.Items = nil
	if _, err := f.svc.Finalize(ctx, in); !errors.Is(err, ErrNoMedications) {
		t.Errorf("expected ErrNoMedications, got %v", err)
	}

	in = f.validInput(t)
	in.SignaturePNG = nil
	if _, err := f.svc.Finalize(ctx, in); !errors.Is(err, ErrMissingSignature) {
		t.Errorf("expected ErrMissingSignature, got %v", err)
	}

	// nothing was stored for any failed attempt
	if _, total, err := f.svc.List(ctx, 10, 0); err != nil || total != 0 {
		t.Errorf("expected empty store, got total=%d err=%v", total, err)
	}
}

func TestService_Finalize_RejectsNonDoctor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := f.validInput(t)
	in.DoctorID = uuid.New()
	if _, err := f.svc.Finalize(ctx, in); !errors.Is(err, memstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown doctor, got %v", err)
	}
}

func TestService_Finalize_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := f.validInput(t)
	in.IdempotencyKey = "submit-42"

	first, err := f.svc.Finalize(ctx, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := f.svc.Finalize(ctx, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("duplicate submission should return the same record: %s vs %s", first.ID, second.ID)
	}
	if _, total, _ := f.svc.List(ctx, 10, 0); total != 1 {
		t.Errorf("expected a single stored record, got %d", total)
	}
}

func TestService_Finalize_ConcurrentDuplicate(t *testing.T) {
	f := newFixtureWithLatency(t, 20*time.Millisecond)
	ctx := context.Background()

	in := f.validInput(t)
	in.IdempotencyKey = "double-click"

	var wg sync.WaitGroup
	results := make([]*Prescription, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = f.svc.Finalize(ctx, in)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 2; i++ {
		if errs[i] != nil {
			t.Fatalf("submission %d: %v", i, errs[i])
		}
	}
	if results[0].ID != results[1].ID {
		t.Errorf("simultaneous submissions should share a record: %s vs %s", results[0].ID, results[1].ID)
	}
	if _, total, _ := f.svc.List(ctx, 10, 0); total != 1 {
		t.Errorf("expected a single stored record, got %d", total)
	}
}

func TestService_Finalize_FailedAttemptReleasesKey(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	bad := f.validInput(t)
	bad.IdempotencyKey = "retry-after-error"
	bad.SignaturePNG = nil
	if _, err := f.svc.Finalize(ctx, bad); !errors.Is(err, ErrMissingSignature) {
		t.Fatalf("expected ErrMissingSignature, got %v", err)
	}

	good := f.validInput(t)
	good.IdempotencyKey = "retry-after-error"
	if _, err := f.svc.Finalize(ctx, good); err != nil {
		t.Fatalf("corrected retry should succeed: %v", err)
	}
	if _, total, _ := f.svc.List(ctx, 10, 0); total != 1 {
		t.Errorf("expected a single stored record, got %d", total)
	}
}

func TestService_Document(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.svc.Finalize(ctx, f.validInput(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pdf, filename, err := f.svc.Document(ctx, p.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Error("expected a PDF document")
	}
	want := "Ordonnance_Amine_Zidane_" + p.CreatedAt.Format("2006-01-02") + ".pdf"
	if filename != want {
		t.Errorf("expected %q, got %q", want, filename)
	}
}

func TestService_Document_NotFound(t *testing.T) {
	f := newFixture(t)
	if _, _, err := f.svc.Document(context.Background(), uuid.New()); !errors.Is(err, memstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
