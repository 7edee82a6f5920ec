package prescription

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/clinicore/internal/platform/memstore"
	"github.com/clinicore/clinicore/pkg/pagination"
)

// MemRepository is the session-scoped store for finalized prescriptions.
// Records vanish when the process exits.
type MemRepository struct {
	mu            sync.RWMutex
	prescriptions map[uuid.UUID]*Prescription
	seq           int
	latency       *memstore.Latency
}

func NewMemRepository(latency *memstore.Latency) *MemRepository {
	return &MemRepository{
		prescriptions: make(map[uuid.UUID]*Prescription),
		latency:       latency,
	}
}

func (r *MemRepository) Create(ctx context.Context, p *Prescription) error {
	if err := r.latency.Wait(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now()
	p.CreatedAt = now
	r.seq++
	p.Number = fmt.Sprintf("ORD-%d-%04d", now.Year(), r.seq)

	clone := p.clone()
	r.prescriptions[p.ID] = clone
	return nil
}

func (r *MemRepository) GetByID(ctx context.Context, id uuid.UUID) (*Prescription, error) {
	if err := r.latency.Wait(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.prescriptions[id]
	if !ok {
		return nil, memstore.ErrNotFound
	}
	return p.clone(), nil
}

func (r *MemRepository) List(ctx context.Context, limit, offset int) ([]*Prescription, int, error) {
	if err := r.latency.Wait(ctx); err != nil {
		return nil, 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*Prescription, 0, len(r.prescriptions))
	for _, p := range r.prescriptions {
		all = append(all, p.clone())
	}
	// newest first, number breaks creation-time ties
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].Number > all[j].Number
	})

	total := len(all)
	start, end := pagination.Params{Limit: limit, Offset: offset}.Window(total)
	return all[start:end], total, nil
}

func (r *MemRepository) Count(ctx context.Context) (int, error) {
	if err := r.latency.Wait(ctx); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.prescriptions), nil
}

func (p *Prescription) clone() *Prescription {
	out := *p
	out.Items = make([]MedicationItem, len(p.Items))
	copy(out.Items, p.Items)
	out.SignaturePNG = make([]byte, len(p.SignaturePNG))
	copy(out.SignaturePNG, p.SignaturePNG)
	return &out
}
