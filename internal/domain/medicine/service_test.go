package medicine

import (
	"context"
	"testing"

	"github.com/clinicore/clinicore/internal/platform/memstore"
)

func newTestService() *Service {
	return NewService(NewMemRepository(memstore.NewLatency(0)))
}

func TestService_Create_Defaults(t *testing.T) {
	svc := newTestService()

	m := &Medicine{Name: "Doliprane", GenericName: "Paracetamol", Dosage: "1000 mg"}
	if err := svc.Create(context.Background(), m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Form != FormTablet {
		t.Errorf("expected default form tablet, got %s", m.Form)
	}
	if m.Unit != "boîte" {
		t.Errorf("expected default unit boîte, got %s", m.Unit)
	}
}

func TestService_Create_RejectsUnknownForm(t *testing.T) {
	svc := newTestService()
	m := &Medicine{Name: "X", Form: "powder"}
	if err := svc.Create(context.Background(), m); err == nil {
		t.Error("expected error for unknown form")
	}
}

func TestService_Search_MatchesGenericName(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	entries := []*Medicine{
		{Name: "Doliprane", GenericName: "Paracetamol"},
		{Name: "Efferalgan", GenericName: "Paracetamol"},
		{Name: "Augmentin", GenericName: "Amoxicilline"},
	}
	for _, m := range entries {
		if err := svc.Create(ctx, m); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	results, total, err := svc.Search(ctx, "paracetamol", 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 || len(results) != 2 {
		t.Fatalf("expected 2 matches, got %d (total %d)", len(results), total)
	}
	if results[0].Name != "Doliprane" {
		t.Errorf("expected Doliprane first, got %s", results[0].Name)
	}
}

func TestService_AdjustStock(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	m := &Medicine{Name: "Doliprane", Stock: 5}
	if err := svc.Create(ctx, m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.AdjustStock(ctx, m.ID, -3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Stock != 2 {
		t.Errorf("expected stock 2, got %d", got.Stock)
	}

	if _, err := svc.AdjustStock(ctx, m.ID, -5); err == nil {
		t.Error("expected error driving stock below zero")
	}
}
