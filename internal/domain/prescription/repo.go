package prescription

import (
	"context"

	"github.com/google/uuid"
)

// Repository stores finalized prescriptions. Create assigns the sequential
// order number.
type Repository interface {
	Create(ctx context.Context, p *Prescription) error
	GetByID(ctx context.Context, id uuid.UUID) (*Prescription, error)
	List(ctx context.Context, limit, offset int) ([]*Prescription, int, error)
	Count(ctx context.Context) (int, error)
}
