package staff

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

func (s *Service) Create(ctx context.Context, m *Member) error {
	if m.FirstName == "" || m.LastName == "" {
		return fmt.Errorf("first_name and last_name are required")
	}
	if !m.Role.Valid() {
		return fmt.Errorf("unknown role %q", m.Role)
	}
	if m.Role == RoleDoctor && m.LicenseNumber == "" {
		return fmt.Errorf("license_number is required for doctors")
	}
	m.Active = true
	return s.repo.Create(ctx, m)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Member, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, m *Member) error {
	if m.FirstName == "" || m.LastName == "" {
		return fmt.Errorf("first_name and last_name are required")
	}
	if !m.Role.Valid() {
		return fmt.Errorf("unknown role %q", m.Role)
	}
	return s.repo.Update(ctx, m)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Member, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) ListByRole(ctx context.Context, role Role, limit, offset int) ([]*Member, int, error) {
	if role != "" && !role.Valid() {
		return nil, 0, fmt.Errorf("unknown role %q", role)
	}
	return s.repo.ListByRole(ctx, role, limit, offset)
}
