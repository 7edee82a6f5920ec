package staff

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/clinicore/internal/platform/memstore"
	"github.com/clinicore/clinicore/pkg/pagination"
)

// MemRepository is the in-memory fixture store for staff profiles.
type MemRepository struct {
	mu      sync.RWMutex
	members map[uuid.UUID]*Member
	latency *memstore.Latency
}

func NewMemRepository(latency *memstore.Latency) *MemRepository {
	return &MemRepository{
		members: make(map[uuid.UUID]*Member),
		latency: latency,
	}
}

func (r *MemRepository) Create(ctx context.Context, m *Member) error {
	if err := r.latency.Wait(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now
	clone := *m
	r.members[m.ID] = &clone
	return nil
}

func (r *MemRepository) GetByID(ctx context.Context, id uuid.UUID) (*Member, error) {
	if err := r.latency.Wait(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.members[id]
	if !ok {
		return nil, memstore.ErrNotFound
	}
	clone := *m
	return &clone, nil
}

func (r *MemRepository) Update(ctx context.Context, m *Member) error {
	if err := r.latency.Wait(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.members[m.ID]
	if !ok {
		return memstore.ErrNotFound
	}
	m.CreatedAt = existing.CreatedAt
	m.UpdatedAt = time.Now()
	clone := *m
	r.members[m.ID] = &clone
	return nil
}

func (r *MemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.latency.Wait(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.members[id]; !ok {
		return memstore.ErrNotFound
	}
	delete(r.members, id)
	return nil
}

func (r *MemRepository) List(ctx context.Context, limit, offset int) ([]*Member, int, error) {
	return r.ListByRole(ctx, "", limit, offset)
}

func (r *MemRepository) ListByRole(ctx context.Context, role Role, limit, offset int) ([]*Member, int, error) {
	if err := r.latency.Wait(ctx); err != nil {
		return nil, 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []*Member
	for _, m := range r.members {
		if role != "" && m.Role != role {
			continue
		}
		clone := *m
		all = append(all, &clone)
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
