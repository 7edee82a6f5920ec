package medicine

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, m *Medicine) error {
	if m.Name == "" {
		return fmt.Errorf("name is required")
	}
	if m.Form == "" {
		m.Form = FormTablet
	}
	if !m.Form.Valid() {
		return fmt.Errorf("unknown form %q", m.Form)
	}
	if m.Unit == "" {
		m.Unit = "boîte"
	}
	if m.Stock < 0 {
		return fmt.Errorf("stock cannot be negative")
	}
	return s.repo.Create(ctx, m)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Medicine, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, m *Medicine) error {
	if m.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !m.Form.Valid() {
		return fmt.Errorf("unknown form %q", m.Form)
	}
	if m.Stock < 0 {
		return fmt.Errorf("stock cannot be negative")
	}
	return s.repo.Update(ctx, m)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Medicine, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) Search(ctx context.Context, query string, limit, offset int) ([]*Medicine, int, error) {
	return s.repo.SearchByName(ctx, query, limit, offset)
}

// AdjustStock applies a delta to the on-hand count, refusing to go below zero.
func (s *Service) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*Medicine, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next := m.Stock + delta
	if next < 0 {
		return nil, fmt.Errorf("stock for %s would drop below zero", m.Name)
	}
	m.Stock = next
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}
