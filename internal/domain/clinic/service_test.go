package clinic

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/clinicore/clinicore/internal/platform/memstore"
)

func newTestService() *Service {
	return NewService(NewMemRepository(memstore.NewLatency(0)))
}

func TestService_Create(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	c := &Clinic{Name: "Clinique Les Oliviers", City: "Casablanca"}
	if err := svc.Create(ctx, c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.Active {
		t.Error("new clinic should be active")
	}

	got, err := svc.Get(ctx, c.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Clinique Les Oliviers" {
		t.Errorf("unexpected name %q", got.Name)
	}
}

func TestService_Create_RequiresNameAndCity(t *testing.T) {
	svc := newTestService()
	if err := svc.Create(context.Background(), &Clinic{City: "Rabat"}); err == nil {
		t.Error("expected error for missing name")
	}
	if err := svc.Create(context.Background(), &Clinic{Name: "X"}); err == nil {
		t.Error("expected error for missing city")
	}
}

func TestService_Update_NotFound(t *testing.T) {
	svc := newTestService()
	c := &Clinic{Name: "X", City: "Y"}
	c.ID = uuid.New()
	if err := svc.Update(context.Background(), c); err != memstore.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestService_SearchByName(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	for _, name := range []string{"Clinique Atlas", "Clinique Les Oliviers", "Centre Al Amal"} {
		if err := svc.Create(ctx, &Clinic{Name: name, City: "Casablanca"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	results, total, err := svc.Search(ctx, "clinique", 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 || len(results) != 2 {
		t.Errorf("expected 2 matches, got %d (total %d)", len(results), total)
	}
}

func TestService_Delete(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	c := &Clinic{Name: "X", City: "Y"}
	svc.Create(ctx, c)

	if err := svc.Delete(ctx, c.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Get(ctx, c.ID); err != memstore.ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}
