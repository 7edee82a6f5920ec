package staff

import (
	"context"
	"testing"

	"github.com/clinicore/clinicore/internal/platform/memstore"
)

func newTestService() *Service {
	return NewService(NewMemRepository(memstore.NewLatency(0)))
}

func TestService_Create_Doctor(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	m := &Member{
		Role:          RoleDoctor,
		FirstName:     "Karim",
		LastName:      "Bennani",
		Specialty:     "Médecine générale",
		LicenseNumber: "MA-4471",
	}
	if err := svc.Create(ctx, m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.Active {
		t.Error("new member should be active")
	}
	if got := m.FullName(); got != "Dr. Karim Bennani" {
		t.Errorf("unexpected full name %q", got)
	}
}

func TestService_Create_DoctorRequiresLicense(t *testing.T) {
	svc := newTestService()
	m := &Member{Role: RoleDoctor, FirstName: "Karim", LastName: "Bennani"}
	if err := svc.Create(context.Background(), m); err == nil {
		t.Error("expected error for doctor without license number")
	}
}

func TestService_Create_RejectsUnknownRole(t *testing.T) {
	svc := newTestService()
	m := &Member{Role: "janitor", FirstName: "A", LastName: "B"}
	if err := svc.Create(context.Background(), m); err == nil {
		t.Error("expected error for unknown role")
	}
}

func TestService_ListByRole(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	members := []*Member{
		{Role: RoleDoctor, FirstName: "Karim", LastName: "Bennani", LicenseNumber: "MA-1"},
		{Role: RoleDoctor, FirstName: "Salma", LastName: "Alaoui", LicenseNumber: "MA-2"},
		{Role: RoleNurse, FirstName: "Nadia", LastName: "Cherkaoui"},
	}
	for _, m := range members {
		if err := svc.Create(ctx, m); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	doctors, total, err := svc.ListByRole(ctx, RoleDoctor, 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 || len(doctors) != 2 {
		t.Fatalf("expected 2 doctors, got %d (total %d)", len(doctors), total)
	}
	// sorted by last name
	if doctors[0].LastName != "Alaoui" {
		t.Errorf("expected Alaoui first, got %s", doctors[0].LastName)
	}

	if _, _, err := svc.ListByRole(ctx, "wizard", 10, 0); err == nil {
		t.Error("expected error for unknown role filter")
	}
}

func TestService_ListByRole_EmptyRoleListsAll(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	svc.Create(ctx, &Member{Role: RoleNurse, FirstName: "A", LastName: "B"})
	svc.Create(ctx, &Member{Role: RolePharmacy, FirstName: "C", LastName: "D"})

	all, total, err := svc.ListByRole(ctx, "", 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 || len(all) != 2 {
		t.Errorf("expected 2 members, got %d (total %d)", len(all), total)
	}
}
