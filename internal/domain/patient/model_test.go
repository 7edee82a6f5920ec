package patient

import (
	"testing"
	"time"
)

func TestPatient_AgeAt(t *testing.T) {
	p := &Patient{
		FirstName: "Amine",
		LastName:  "Zidane",
		BirthDate: time.Date(1990, 3, 14, 0, 0, 0, 0, time.UTC),
	}

	cases := []struct {
		at   time.Time
		want int
	}{
		{time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC), 35}, // day before birthday
		{time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), 36}, // birthday
		{time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), 36},
		{time.Date(1990, 6, 1, 0, 0, 0, 0, time.UTC), 0}, // infant
	}
	for _, tc := range cases {
		if got := p.AgeAt(tc.at); got != tc.want {
			t.Errorf("AgeAt(%s) = %d, want %d", tc.at.Format("2006-01-02"), got, tc.want)
		}
	}
}

func TestPatient_FullName(t *testing.T) {
	p := &Patient{FirstName: "Amine", LastName: "Zidane"}
	if got := p.FullName(); got != "Amine Zidane" {
		t.Errorf("expected 'Amine Zidane', got %q", got)
	}
}
