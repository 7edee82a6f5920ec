// Package fixtures seeds the in-memory stores with reproducible demo data.
// The same seed always produces the same records, so the console looks
// identical across restarts.
package fixtures

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinicore/clinicore/internal/domain/appointment"
	"github.com/clinicore/clinicore/internal/domain/clinic"
	"github.com/clinicore/clinicore/internal/domain/medicine"
	"github.com/clinicore/clinicore/internal/domain/patient"
	"github.com/clinicore/clinicore/internal/domain/staff"
	"github.com/clinicore/clinicore/internal/platform/auth"
)

// Stores collects every service the seeder populates.
type Stores struct {
	Clinics      *clinic.Service
	Patients     *patient.Service
	Staff        *staff.Service
	Appointments *appointment.Service
	Medicines    *medicine.Service
	Credentials  *auth.CredentialStore
}

type Seeder struct {
	rng    *rand.Rand
	logger zerolog.Logger
}

func NewSeeder(seed int64, logger zerolog.Logger) *Seeder {
	return &Seeder{
		rng:    rand.New(rand.NewSource(seed)),
		logger: logger.With().Str("component", "fixtures").Logger(),
	}
}

var clinicNames = []struct {
	name, address, city string
}{
	{"Clinique Les Oliviers", "12 rue des Fleurs", "Casablanca"},
	{"Centre Médical Atlas", "45 avenue Hassan II", "Marrakech"},
	{"Polyclinique du Littoral", "8 boulevard de la Corniche", "Rabat"},
}

var doctorSeeds = []struct {
	first, last, specialty, license string
}{
	{"Karim", "Bennani", "Médecine générale", "MA-4471"},
	{"Salma", "Alaoui", "Pédiatrie", "MA-5923"},
	{"Youssef", "Tazi", "Cardiologie", "MA-3310"},
}

var nurseSeeds = []struct{ first, last string }{
	{"Nadia", "Cherkaoui"},
	{"Fatima", "El Idrissi"},
}

var patientSeeds = []struct {
	first, last, gender string
	birthYear           int
}{
	{"Amine", "Zidane", "M", 1990},
	{"Leila", "Benjelloun", "F", 1985},
	{"Omar", "Fassi", "M", 1972},
	{"Sara", "Amrani", "F", 2001},
	{"Hassan", "Berrada", "M", 1958},
	{"Imane", "Kadiri", "F", 1995},
	{"Mehdi", "Lahlou", "M", 1988},
	{"Khadija", "Sebti", "F", 1964},
}

var medicineSeeds = []struct {
	name, generic, dosage string
	form                  medicine.Form
	stock                 int
}{
	{"Doliprane", "Paracetamol", "1000 mg", medicine.FormTablet, 120},
	{"Augmentin", "Amoxicilline + acide clavulanique", "500 mg", medicine.FormTablet, 45},
	{"Efferalgan", "Paracetamol", "500 mg", medicine.FormTablet, 80},
	{"Ventoline", "Salbutamol", "100 µg/dose", medicine.FormOther, 30},
	{"Aerius", "Desloratadine", "5 mg", medicine.FormTablet, 60},
	{"Smecta", "Diosmectite", "3 g", medicine.FormOther, 50},
	{"Voltarène", "Diclofénac", "1 %", medicine.FormCream, 25},
	{"Amoxil", "Amoxicilline", "250 mg/5 ml", medicine.FormSyrup, 40},
}

// Seed populates every store. Credentials come last so each doctor account
// links to its seeded profile.
func (s *Seeder) Seed(ctx context.Context, stores Stores) error {
	clinics, err := s.seedClinics(ctx, stores.Clinics)
	if err != nil {
		return fmt.Errorf("clinics: %w", err)
	}
	doctors, err := s.seedStaff(ctx, stores.Staff, clinics)
	if err != nil {
		return fmt.Errorf("staff: %w", err)
	}
	patients, err := s.seedPatients(ctx, stores.Patients, clinics)
	if err != nil {
		return fmt.Errorf("patients: %w", err)
	}
	if err := s.seedAppointments(ctx, stores.Appointments, doctors, patients, clinics); err != nil {
		return fmt.Errorf("appointments: %w", err)
	}
	if err := s.seedMedicines(ctx, stores.Medicines); err != nil {
		return fmt.Errorf("medicines: %w", err)
	}
	s.seedCredentials(stores.Credentials, doctors)

	s.logger.Info().
		Int("clinics", len(clinics)).
		Int("doctors", len(doctors)).
		Int("patients", len(patients)).
		Msg("fixtures seeded")
	return nil
}

func (s *Seeder) seedClinics(ctx context.Context, svc *clinic.Service) ([]*clinic.Clinic, error) {
	out := make([]*clinic.Clinic, 0, len(clinicNames))
	for _, seed := range clinicNames {
		c := &clinic.Clinic{
			Name:    seed.name,
			Address: seed.address,
			City:    seed.city,
			Phone:   s.phone(),
		}
		if err := svc.Create(ctx, c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *Seeder) seedStaff(ctx context.Context, svc *staff.Service, clinics []*clinic.Clinic) ([]*staff.Member, error) {
	var doctors []*staff.Member
	for i, seed := range doctorSeeds {
		clinicID := clinics[i%len(clinics)].ID
		m := &staff.Member{
			Role:          staff.RoleDoctor,
			FirstName:     seed.first,
			LastName:      seed.last,
			Specialty:     seed.specialty,
			LicenseNumber: seed.license,
			ClinicID:      &clinicID,
			Phone:         s.phone(),
		}
		if err := svc.Create(ctx, m); err != nil {
			return nil, err
		}
		doctors = append(doctors, m)
	}
	for i, seed := range nurseSeeds {
		clinicID := clinics[i%len(clinics)].ID
		m := &staff.Member{
			Role:      staff.RoleNurse,
			FirstName: seed.first,
			LastName:  seed.last,
			ClinicID:  &clinicID,
			Phone:     s.phone(),
		}
		if err := svc.Create(ctx, m); err != nil {
			return nil, err
		}
	}
	return doctors, nil
}

func (s *Seeder) seedPatients(ctx context.Context, svc *patient.Service, clinics []*clinic.Clinic) ([]*patient.Patient, error) {
	out := make([]*patient.Patient, 0, len(patientSeeds))
	for i, seed := range patientSeeds {
		clinicID := clinics[i%len(clinics)].ID
		weight := 50 + float64(s.rng.Intn(45))
		p := &patient.Patient{
			FirstName: seed.first,
			LastName:  seed.last,
			Gender:    seed.gender,
			BirthDate: time.Date(seed.birthYear, time.Month(1+s.rng.Intn(12)), 1+s.rng.Intn(28), 0, 0, 0, 0, time.UTC),
			Phone:     s.phone(),
			WeightKG:  &weight,
			ClinicID:  &clinicID,
		}
		if err := svc.Create(ctx, p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *Seeder) seedAppointments(ctx context.Context, svc *appointment.Service, doctors []*staff.Member, patients []*patient.Patient, clinics []*clinic.Clinic) error {
	today := time.Now().Truncate(24 * time.Hour)
	for i := 0; i < 14; i++ {
		doctor := doctors[s.rng.Intn(len(doctors))]
		pt := patients[s.rng.Intn(len(patients))]
		day := today.AddDate(0, 0, s.rng.Intn(7)-3)
		a := &appointment.Appointment{
			PatientID:   pt.ID,
			DoctorID:    doctor.ID,
			ClinicID:    clinics[s.rng.Intn(len(clinics))].ID,
			ScheduledAt: day.Add(time.Duration(9+s.rng.Intn(8)) * time.Hour),
			DurationMin: 30,
			Reason:      "Consultation",
		}
		if err := svc.Create(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedMedicines(ctx context.Context, svc *medicine.Service) error {
	for _, seed := range medicineSeeds {
		m := &medicine.Medicine{
			Name:        seed.name,
			GenericName: seed.generic,
			Dosage:      seed.dosage,
			Form:        seed.form,
			Stock:       seed.stock,
		}
		if err := svc.Create(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// seedCredentials installs the demo accounts. Passwords are fixed on
// purpose: the console runs against mock data only.
func (s *Seeder) seedCredentials(store *auth.CredentialStore, doctors []*staff.Member) {
	store.Add(&auth.Credential{
		UserID:   uuid.New(),
		Email:    "admin@clinicore.local",
		Password: "admin123",
		Role:     auth.RoleSuperUser,
		Name:     "Administrateur",
	})
	store.Add(&auth.Credential{
		UserID:   uuid.New(),
		Email:    "pharmacie@clinicore.local",
		Password: "pharma123",
		Role:     auth.RolePharmacy,
		Name:     "Pharmacie Centrale",
	})
	for _, d := range doctors {
		staffID := d.ID
		store.Add(&auth.Credential{
			UserID:   uuid.New(),
			Email:    fmt.Sprintf("%s.%s@clinicore.local", strings.ToLower(d.FirstName), strings.ToLower(d.LastName)),
			Password: "doctor123",
			Role:     auth.RoleDoctor,
			Name:     d.FullName(),
			StaffID:  &staffID,
		})
	}
}

func (s *Seeder) phone() string {
	return fmt.Sprintf("+212 6%02d %03d %03d", s.rng.Intn(100), s.rng.Intn(1000), s.rng.Intn(1000))
}
