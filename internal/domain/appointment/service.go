package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, a *Appointment) error {
	if a.PatientID == uuid.Nil || a.DoctorID == uuid.Nil {
		return fmt.Errorf("patient_id and doctor_id are required")
	}
	if a.ScheduledAt.IsZero() {
		return fmt.Errorf("scheduled_at is required")
	}
	if a.DurationMin <= 0 {
		a.DurationMin = 30
	}
	a.Status = StatusScheduled
	return s.repo.Create(ctx, a)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, a *Appointment) error {
	existing, err := s.repo.GetByID(ctx, a.ID)
	if err != nil {
		return err
	}
	if a.Status == "" {
		a.Status = existing.Status
	}
	if a.Status != existing.Status {
		return fmt.Errorf("status changes go through the transition endpoint")
	}
	return s.repo.Update(ctx, a)
}

// Transition moves an appointment to the next lifecycle state, rejecting
// moves the lifecycle does not allow.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, next Status) (*Appointment, error) {
	if !next.Valid() {
		return nil, fmt.Errorf("unknown status %q", next)
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("cannot move appointment from %s to %s", a.Status, next)
	}
	a.Status = next
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) ListByDay(ctx context.Context, day time.Time, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.ListByDay(ctx, day, limit, offset)
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.ListByDoctor(ctx, doctorID, limit, offset)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func (s *Service) CountByDay(ctx context.Context, day time.Time) (int, error) {
	return s.repo.CountByDay(ctx, day)
}
