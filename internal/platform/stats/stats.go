// Package stats computes the dashboard figures live from the domain stores.
package stats

import (
	"context"
	"time"
)

// Counter is any store that can report its size; the domain services
// satisfy it.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// DayCounter additionally reports per-day figures, used for the
// appointments chart.
type DayCounter interface {
	Counter
	CountByDay(ctx context.Context, day time.Time) (int, error)
}

// Overview backs the dashboard cards.
type Overview struct {
	Clinics           int `json:"clinics"`
	Patients          int `json:"patients"`
	AppointmentsToday int `json:"appointments_today"`
	Prescriptions     int `json:"prescriptions"`
}

// DayPoint is one bar of the appointments chart.
type DayPoint struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

type Service struct {
	clinics       Counter
	patients      Counter
	appointments  DayCounter
	prescriptions Counter
	now           func() time.Time
}

func NewService(clinics, patients Counter, appointments DayCounter, prescriptions Counter) *Service {
	return &Service{
		clinics:       clinics,
		patients:      patients,
		appointments:  appointments,
		prescriptions: prescriptions,
		now:           time.Now,
	}
}

func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	var o Overview
	var err error

	if o.Clinics, err = s.clinics.Count(ctx); err != nil {
		return nil, err
	}
	if o.Patients, err = s.patients.Count(ctx); err != nil {
		return nil, err
	}
	if o.AppointmentsToday, err = s.appointments.CountByDay(ctx, s.now()); err != nil {
		return nil, err
	}
	if o.Prescriptions, err = s.prescriptions.Count(ctx); err != nil {
		return nil, err
	}
	return &o, nil
}

// AppointmentSeries returns one point per day for the trailing window,
// oldest first, today included.
func (s *Service) AppointmentSeries(ctx context.Context, days int) ([]DayPoint, error) {
	if days < 1 {
		days = 7
	}
	if days > 90 {
		days = 90
	}

	today := s.now()
	series := make([]DayPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		n, err := s.appointments.CountByDay(ctx, day)
		if err != nil {
			return nil, err
		}
		series = append(series, DayPoint{Day: day.Format("2006-01-02"), Count: n})
	}
	return series, nil
}
