package appointment

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/clinicore/internal/platform/memstore"
	"github.com/clinicore/clinicore/pkg/pagination"
)

// MemRepository is the in-memory fixture store for appointments.
type MemRepository struct {
	mu           sync.RWMutex
	appointments map[uuid.UUID]*Appointment
	latency      *memstore.Latency
}

func NewMemRepository(latency *memstore.Latency) *MemRepository {
	return &MemRepository{
		appointments: make(map[uuid.UUID]*Appointment),
		latency:      latency,
	}
}

func (r *MemRepository) Create(ctx context.Context, a *Appointment) error {
	if err := r.latency.Wait(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now
	clone := *a
	r.appointments[a.ID] = &clone
	return nil
}

func (r *MemRepository) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	if err := r.latency.Wait(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.appointments[id]
	if !ok {
		return nil, memstore.ErrNotFound
	}
	clone := *a
	return &clone, nil
}

func (r *MemRepository) Update(ctx context.Context, a *Appointment) error {
	if err := r.latency.Wait(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.appointments[a.ID]
	if !ok {
		return memstore.ErrNotFound
	}
	a.CreatedAt = existing.CreatedAt
	a.UpdatedAt = time.Now()
	clone := *a
	r.appointments[a.ID] = &clone
	return nil
}

func (r *MemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.latency.Wait(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.appointments[id]; !ok {
		return memstore.ErrNotFound
	}
	delete(r.appointments, id)
	return nil
}

func (r *MemRepository) List(ctx context.Context, limit, offset int) ([]*Appointment, int, error) {
	return r.list(ctx, limit, offset, nil)
}

func (r *MemRepository) ListByDay(ctx context.Context, day time.Time, limit, offset int) ([]*Appointment, int, error) {
	return r.list(ctx, limit, offset, func(a *Appointment) bool {
		return sameDay(a.ScheduledAt, day)
	})
}

func (r *MemRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return r.list(ctx, limit, offset, func(a *Appointment) bool {
		return a.DoctorID == doctorID
	})
}

func (r *MemRepository) CountByDay(ctx context.Context, day time.Time) (int, error) {
	if err := r.latency.Wait(ctx); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, a := range r.appointments {
		if sameDay(a.ScheduledAt, day) {
			n++
		}
	}
	return n, nil
}

func (r *MemRepository) Count(ctx context.Context) (int, error) {
	if err := r.latency.Wait(ctx); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.appointments), nil
}

func (r *MemRepository) list(ctx context.Context, limit, offset int, keep func(*Appointment) bool) ([]*Appointment, int, error) {
	if err := r.latency.Wait(ctx); err != nil {
		return nil, 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []*Appointment
	for _, a := range r.appointments {
		if keep != nil && !keep(a) {
			continue
		}
		clone := *a
		all = append(all, &clone)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].ScheduledAt.Before(all[j].ScheduledAt)
	})

	total := len(all)
	start, end := pagination.Params{Limit: limit, Offset: offset}.Window(total)
	return all[start:end], total, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
