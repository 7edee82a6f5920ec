package prescription

import (
	"errors"
	"strings"
	"testing"
)

func completeDraft() MedicationItem {
	return MedicationItem{
		Name:     "Paracetamol",
		Dosage:   "1000 mg",
		Posology: "1 comprimé 3 fois par jour",
		Duration: "5 jours",
	}
}

func TestOrderBuilder_DraftDefaults(t *testing.T) {
	b := NewOrderBuilder()
	d := b.Draft()
	if d.Form != "tablet" || d.Quantity != 1 || d.Unit != "boîte" || !d.SubstitutionAllowed {
		t.Errorf("unexpected draft defaults: %+v", d)
	}
}

func TestOrderBuilder_Add(t *testing.T) {
	b := NewOrderBuilder()
	b.SetDraft(completeDraft())

	if err := b.Add(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Len() != 1 {
		t.Fatalf("expected 1 item, got %d", b.Len())
	}

	items := b.Items()
	if items[0].ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("committed item should get an id")
	}
	// draft reset to defaults after commit
	if d := b.Draft(); d.Name != "" || d.Form != "tablet" || d.Quantity != 1 {
		t.Errorf("draft not reset: %+v", d)
	}
}

func TestOrderBuilder_Add_Incomplete(t *testing.T) {
	b := NewOrderBuilder()
	d := completeDraft()
	d.Posology = ""
	d.Duration = "  "
	b.SetDraft(d)

	err := b.Add()
	if !errors.Is(err, ErrIncompleteDraft) {
		t.Fatalf("expected ErrIncompleteDraft, got %v", err)
	}

	var incomplete *IncompleteDraftError
	if !errors.As(err, &incomplete) {
		t.Fatalf("expected IncompleteDraftError, got %T", err)
	}
	if len(incomplete.Missing) != 2 {
		t.Errorf("expected 2 missing fields, got %v", incomplete.Missing)
	}
	if !strings.Contains(err.Error(), "posology") || !strings.Contains(err.Error(), "duration") {
		t.Errorf("message should name the fields: %s", err.Error())
	}
	if b.Len() != 0 {
		t.Error("incomplete draft must not be committed")
	}
}

func TestOrderBuilder_Remove_PreservesOrder(t *testing.T) {
	b := NewOrderBuilder()
	names := []string{"Paracetamol", "Amoxicilline", "Ibuprofène"}
	for _, name := range names {
		d := completeDraft()
		d.Name = name
		b.SetDraft(d)
		if err := b.Add(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	items := b.Items()
	b.Remove(items[1].ID)

	got := b.Items()
	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got))
	}
	if got[0].Name != "Paracetamol" || got[1].Name != "Ibuprofène" {
		t.Errorf("order not preserved: %s, %s", got[0].Name, got[1].Name)
	}

	// unknown id is a no-op
	b.Remove(items[1].ID)
	if b.Len() != 2 {
		t.Error("removing an unknown id should change nothing")
	}
}
