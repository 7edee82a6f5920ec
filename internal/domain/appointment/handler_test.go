package appointment

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newTestHandler() (*Handler, *echo.Echo) {
	h := NewHandler(newTestService())
	return h, echo.New()
}

func TestHandler_Create(t *testing.T) {
	h, e := newTestHandler()

	body := `{"patient_id":"` + uuid.New().String() + `","doctor_id":"` + uuid.New().String() +
		`","scheduled_at":"2026-09-01T10:00:00Z","reason":"consultation"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var created Appointment
	json.Unmarshal(rec.Body.Bytes(), &created)
	if created.Status != StatusScheduled {
		t.Errorf("expected scheduled, got %s", created.Status)
	}
}

func TestHandler_Transition_Conflict(t *testing.T) {
	h, e := newTestHandler()

	a := newAppointment()
	h.svc.Create(nil, a)

	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"status":"completed"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(a.ID.String())

	err := h.Transition(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusConflict {
		t.Errorf("expected 409, got %v", err)
	}
}

func TestHandler_List_DayFilter(t *testing.T) {
	h, e := newTestHandler()

	day := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	a := newAppointment()
	a.ScheduledAt = day
	h.svc.Create(nil, a)

	req := httptest.NewRequest(http.MethodGet, "/?day=2026-09-01", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resp struct {
		Total int `json:"total"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Total != 1 {
		t.Errorf("expected total 1, got %d", resp.Total)
	}
}

func TestHandler_List_BadDay(t *testing.T) {
	h, e := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/?day=not-a-date", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.List(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}
