package medicine

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func newTestHandler() (*Handler, *echo.Echo) {
	h := NewHandler(newTestService())
	return h, echo.New()
}

func TestHandler_Create(t *testing.T) {
	h, e := newTestHandler()

	body := `{"name":"Doliprane","generic_name":"Paracetamol","dosage":"1000 mg","form":"tablet","stock":12}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/medicines", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
}

func TestHandler_List_Query(t *testing.T) {
	h, e := newTestHandler()
	h.svc.Create(nil, &Medicine{Name: "Doliprane", GenericName: "Paracetamol"})
	h.svc.Create(nil, &Medicine{Name: "Augmentin", GenericName: "Amoxicilline"})

	req := httptest.NewRequest(http.MethodGet, "/?q=amox", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resp struct {
		Data  []Medicine `json:"data"`
		Total int        `json:"total"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Total != 1 || resp.Data[0].Name != "Augmentin" {
		t.Errorf("expected Augmentin only, got %+v", resp.Data)
	}
}

func TestHandler_AdjustStock_Conflict(t *testing.T) {
	h, e := newTestHandler()
	m := &Medicine{Name: "Doliprane", Stock: 1}
	h.svc.Create(nil, m)

	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"delta":-5}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(m.ID.String())

	err := h.AdjustStock(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusConflict {
		t.Errorf("expected 409, got %v", err)
	}
}
