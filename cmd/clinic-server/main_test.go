package main

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/clinicore/clinicore/internal/domain/staff"
	"github.com/clinicore/clinicore/internal/platform/memstore"
)

func TestDoctorEmail(t *testing.T) {
	d := &staff.Member{FirstName: "Karim", LastName: "Bennani"}
	if got := doctorEmail(d); got != "karim.bennani@clinicore.local" {
		t.Errorf("unexpected email %q", got)
	}
}

func TestNewStores_WiresEveryService(t *testing.T) {
	s := newStores(memstore.NewLatency(0), zerolog.Nop())
	if s.clinics == nil || s.patients == nil || s.staff == nil ||
		s.appointments == nil || s.medicines == nil ||
		s.prescriptions == nil || s.credentials == nil {
		t.Error("every store must be wired")
	}
}
