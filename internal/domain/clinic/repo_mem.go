package clinic

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

// MemRepository is the in-memory fixture store behind the clinic pages. It
// simulates backend latency on every call; there is no durable backend.
type MemRepository struct {
	mu      sync.RWMutex
	clinics map[uuid.UUID]*Clinic
	latency *memstore.Latency
}

func NewMemRepository(latency *memstore.Latency) *MemRepository {
	return &MemRepository{
		clinics: make(map[uuid.UUID]*Clinic),
		latency: latency,
	}
}

func (r *MemRepository) Create(ctx context.Context, c *Clinic) error {
	if err := r.latency.Wait(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	clone := *c
	r.clinics[c.ID] = &clone
	return nil
}

func (r *MemRepository) GetByID(ctx context.Context, id uuid.UUID) (*Clinic, error) {
	if err := r.latency.Wait(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.clinics[id]
	if !ok {
		return nil, memstore.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *MemRepository) Update(ctx context.Context, c *Clinic) error {
	if err := r.latency.Wait(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.clinics[c.ID]
	if !ok {
		return memstore.ErrNotFound
	}
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = time.Now()
	clone := *c
	r.clinics[c.ID] = &clone
	return nil
}

func (r *MemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.latency.Wait(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.clinics[id]; !ok {
		return memstore.ErrNotFound
	}
	delete(r.clinics, id)
	return nil
}

func (r *MemRepository) List(ctx context.Context, limit, offset int) ([]*Clinic, int, error) {
	return r.SearchByName(ctx, "", limit, offset)
}

func (r *MemRepository) SearchByName(ctx context.Context, name string, limit, offset int) ([]*Clinic, int, error) {
	if err := r.latency.Wait(ctx); err != nil {
		return nil, 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(name)
	var all []*Clinic
	for _, c := range r.clinics {
		if needle != "" && !strings.Contains(strings.ToLower(c.Name), needle) {
			continue
		}
		clone := *c
		all = append(all, &clone)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })

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
	return len(r.clinics), nil
}
