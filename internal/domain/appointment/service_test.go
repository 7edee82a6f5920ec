package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/clinicore/internal/platform/memstore"
)

func newTestService() *Service {
	return NewService(NewMemRepository(memstore.NewLatency(0)))
}

func newAppointment() *Appointment {
	return &Appointment{
		PatientID:   uuid.New(),
		DoctorID:    uuid.New(),
		ClinicID:    uuid.New(),
		ScheduledAt: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestService_Create_DefaultsScheduled(t *testing.T) {
	svc := newTestService()
	a := newAppointment()
	a.Status = "completed" // ignored on create

	if err := svc.Create(context.Background(), a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Status != StatusScheduled {
		t.Errorf("expected scheduled, got %s", a.Status)
	}
	if a.DurationMin != 30 {
		t.Errorf("expected default duration 30, got %d", a.DurationMin)
	}
}

func TestService_Create_RequiresRefsAndTime(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if err := svc.Create(ctx, &Appointment{DoctorID: uuid.New(), ScheduledAt: time.Now()}); err == nil {
		t.Error("expected error for missing patient")
	}
	if err := svc.Create(ctx, &Appointment{PatientID: uuid.New(), DoctorID: uuid.New()}); err == nil {
		t.Error("expected error for missing scheduled_at")
	}
}

func TestService_Transition(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	a := newAppointment()
	if err := svc.Create(ctx, a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	steps := []Status{StatusConfirmed, StatusCompleted}
	for _, next := range steps {
		got, err := svc.Transition(ctx, a.ID, next)
		if err != nil {
			t.Fatalf("transition to %s: %v", next, err)
		}
		if got.Status != next {
			t.Errorf("expected %s, got %s", next, got.Status)
		}
	}

	// completed is terminal
	if _, err := svc.Transition(ctx, a.ID, StatusCancelled); err == nil {
		t.Error("expected error cancelling a completed appointment")
	}
}

func TestService_Transition_IllegalSkip(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	a := newAppointment()
	svc.Create(ctx, a)

	if _, err := svc.Transition(ctx, a.ID, StatusCompleted); err == nil {
		t.Error("expected error completing an unconfirmed appointment")
	}
	if _, err := svc.Transition(ctx, a.ID, "archived"); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestService_Update_RejectsStatusChange(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	a := newAppointment()
	svc.Create(ctx, a)

	upd := *a
	upd.Status = StatusCancelled
	if err := svc.Update(ctx, &upd); err == nil {
		t.Error("expected error changing status through Update")
	}

	upd.Status = ""
	upd.Reason = "follow-up"
	if err := svc.Update(ctx, &upd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if upd.Status != StatusScheduled {
		t.Errorf("expected status preserved, got %s", upd.Status)
	}
}

func TestService_ListByDay(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	for _, hour := range []int{9, 14} {
		a := newAppointment()
		a.ScheduledAt = day.Add(time.Duration(hour) * time.Hour)
		svc.Create(ctx, a)
	}
	other := newAppointment()
	other.ScheduledAt = day.AddDate(0, 0, 1)
	svc.Create(ctx, other)

	items, total, err := svc.ListByDay(ctx, day, 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("expected 2 appointments, got %d (total %d)", len(items), total)
	}
	if !items[0].ScheduledAt.Before(items[1].ScheduledAt) {
		t.Error("expected appointments in scheduled order")
	}
}

func TestService_ListByDoctor(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	doctorID := uuid.New()
	a := newAppointment()
	a.DoctorID = doctorID
	svc.Create(ctx, a)
	svc.Create(ctx, newAppointment())

	items, total, err := svc.ListByDoctor(ctx, doctorID, 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("expected 1 appointment, got %d (total %d)", len(items), total)
	}
	if items[0].DoctorID != doctorID {
		t.Error("wrong doctor in result")
	}
}
