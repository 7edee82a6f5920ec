package patient

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/clinicore/internal/platform/memstore"
	"github.com/clinicore/clinicore/pkg/pagination"
)

// MemRepository is the in-memory fixture store for patient records.
type MemRepository struct {
	mu       sync.RWMutex
	patients map[uuid.UUID]*Patient
	latency  *memstore.Latency
}

func NewMemRepository(latency *memstore.Latency) *MemRepository {
	return &MemRepository{
		patients: make(map[uuid.UUID]*Patient),
		latency:  latency,
	}
}

func clone(p *Patient) *Patient {
	cp := *p
	if p.Allergies != nil {
		cp.Allergies = append([]string(nil), p.Allergies...)
	}
	return &cp
}

func (r *MemRepository) Create(ctx context.Context, p *Patient) error {
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
	p.UpdatedAt = now
	r.patients[p.ID] = clone(p)
	return nil
}

func (r *MemRepository) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	if err := r.latency.Wait(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.patients[id]
	if !ok {
		return nil, memstore.ErrNotFound
	}
	return clone(p), nil
}

func (r *MemRepository) Update(ctx context.Context, p *Patient) error {
	if err := r.latency.Wait(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.patients[p.ID]
	if !ok {
		return memstore.ErrNotFound
	}
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now()
	r.patients[p.ID] = clone(p)
	return nil
}

func (r *MemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.latency.Wait(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.patients[id]; !ok {
		return memstore.ErrNotFound
	}
	delete(r.patients, id)
	return nil
}

func (r *MemRepository) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return r.SearchByName(ctx, "", limit, offset)
}

func (r *MemRepository) SearchByName(ctx context.Context, name string, limit, offset int) ([]*Patient, int, error) {
	if err := r.latency.Wait(ctx); err != nil {
		return nil, 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(name)
	var all []*Patient
	for _, p := range r.patients {
		if needle != "" && !strings.Contains(strings.ToLower(p.FullName()), needle) {
			continue
		}
		all = append(all, clone(p))
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].LastName != all[j].LastName {
			return all[i].LastName < all[j].LastName
		}
		return all[i].FirstName < all[j].FirstName
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
	return len(r.patients), nil
}
