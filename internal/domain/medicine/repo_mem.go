package medicine

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

// MemRepository is the in-memory fixture store for the medicine catalog.
type MemRepository struct {
	mu        sync.RWMutex
	medicines map[uuid.UUID]*Medicine
	latency   *memstore.Latency
}

func NewMemRepository(latency *memstore.Latency) *MemRepository {
	return &MemRepository{
		medicines: make(map[uuid.UUID]*Medicine),
		latency:   latency,
	}
}

func (r *MemRepository) Create(ctx context.Context, m *Medicine) error {
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
	r.medicines[m.ID] = &clone
	return nil
}

func (r *MemRepository) GetByID(ctx context.Context, id uuid.UUID) (*Medicine, error) {
	if err := r.latency.Wait(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.medicines[id]
	if !ok {
		return nil, memstore.ErrNotFound
	}
	clone := *m
	return &clone, nil
}

func (r *MemRepository) Update(ctx context.Context, m *Medicine) error {
	if err := r.latency.Wait(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.medicines[m.ID]
	if !ok {
		return memstore.ErrNotFound
	}
	m.CreatedAt = existing.CreatedAt
	m.UpdatedAt = time.Now()
	clone := *m
	r.medicines[m.ID] = &clone
	return nil
}

func (r *MemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.latency.Wait(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.medicines[id]; !ok {
		return memstore.ErrNotFound
	}
	delete(r.medicines, id)
	return nil
}

func (r *MemRepository) List(ctx context.Context, limit, offset int) ([]*Medicine, int, error) {
	return r.SearchByName(ctx, "", limit, offset)
}

// SearchByName matches the query against both the brand and generic name,
// case-insensitively.
func (r *MemRepository) SearchByName(ctx context.Context, query string, limit, offset int) ([]*Medicine, int, error) {
	if err := r.latency.Wait(ctx); err != nil {
		return nil, 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(query))
	var all []*Medicine
	for _, m := range r.medicines {
		if q != "" &&
			!strings.Contains(strings.ToLower(m.Name), q) &&
			!strings.Contains(strings.ToLower(m.GenericName), q) {
			continue
		}
		clone := *m
		all = append(all, &clone)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })

	total := len(all)
	start, end := pagination.Params{Limit: limit, Offset: offset}.Window(total)
	return all[start:end], total, nil
}
