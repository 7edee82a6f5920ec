package prescription

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ErrIncompleteDraft marks an Add on a draft with missing required fields.
// Match with errors.Is; the concrete IncompleteDraftError carries the field
// names for user-facing messages.
var ErrIncompleteDraft = errors.New("medication draft is incomplete")

type IncompleteDraftError struct {
	Missing []string
}

func (e *IncompleteDraftError) Error() string {
	return "medication draft is missing: " + strings.Join(e.Missing, ", ")
}

func (e *IncompleteDraftError) Is(target error) bool {
	return target == ErrIncompleteDraft
}

// OrderBuilder stages one medication line at a time and keeps the committed
// list in entry order. Not safe for concurrent use; each editing session owns
// its builder.
type OrderBuilder struct {
	draft MedicationItem
	items []MedicationItem
}

func NewOrderBuilder() *OrderBuilder {
	b := &OrderBuilder{}
	b.resetDraft()
	return b
}

func (b *OrderBuilder) resetDraft() {
	b.draft = MedicationItem{
		Form:                "tablet",
		Quantity:            1,
		Unit:                "boîte",
		SubstitutionAllowed: true,
	}
}

// Draft returns the staged entry.
func (b *OrderBuilder) Draft() MedicationItem {
	return b.draft
}

// SetDraft replaces the staged entry wholesale. A zero quantity keeps the
// default of one box.
func (b *OrderBuilder) SetDraft(item MedicationItem) {
	if item.Quantity == 0 {
		item.Quantity = 1
	}
	if item.Unit == "" {
		item.Unit = "boîte"
	}
	if item.Form == "" {
		item.Form = "tablet"
	}
	b.draft = item
}

// Add commits the draft to the end of the list and resets the draft. It
// refuses drafts missing name, dosage, posology or duration, reporting every
// empty field at once.
func (b *OrderBuilder) Add() error {
	var missing []string
	if strings.TrimSpace(b.draft.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(b.draft.Dosage) == "" {
		missing = append(missing, "dosage")
	}
	if strings.TrimSpace(b.draft.Posology) == "" {
		missing = append(missing, "posology")
	}
	if strings.TrimSpace(b.draft.Duration) == "" {
		missing = append(missing, "duration")
	}
	if len(missing) > 0 {
		return &IncompleteDraftError{Missing: missing}
	}

	item := b.draft
	item.ID = uuid.New()
	b.items = append(b.items, item)
	b.resetDraft()
	return nil
}

// Remove drops the line with the given id, keeping the rest in order.
// Unknown ids are ignored.
func (b *OrderBuilder) Remove(id uuid.UUID) {
	for i, item := range b.items {
		if item.ID == id {
			b.items = append(b.items[:i], b.items[i+1:]...)
			return
		}
	}
}

// Items returns the committed lines in entry order.
func (b *OrderBuilder) Items() []MedicationItem {
	out := make([]MedicationItem, len(b.items))
	copy(out, b.items)
	return out
}

func (b *OrderBuilder) Len() int {
	return len(b.items)
}
