package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func newContext(query string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestFromContext_Defaults(t *testing.T) {
	p := FromContext(newContext(""))
	assert.Equal(t, DefaultLimit, p.Limit)
	assert.Equal(t, 0, p.Offset)
}

func TestFromContext_Explicit(t *testing.T) {
	p := FromContext(newContext("limit=5&offset=10"))
	assert.Equal(t, 5, p.Limit)
	assert.Equal(t, 10, p.Offset)
}

func TestFromContext_ClampsMax(t *testing.T) {
	p := FromContext(newContext("limit=1000"))
	assert.Equal(t, MaxLimit, p.Limit)
}

func TestWindow(t *testing.T) {
	p := Params{Limit: 10, Offset: 5}

	start, end := p.Window(20)
	assert.Equal(t, 5, start)
	assert.Equal(t, 15, end)

	start, end = p.Window(8)
	assert.Equal(t, 5, start)
	assert.Equal(t, 8, end)

	start, end = p.Window(3)
	assert.Equal(t, start, end, "window past the total is empty")
}

func TestWindow_ZeroLimitSelectsAll(t *testing.T) {
	start, end := Params{}.Window(7)
	assert.Equal(t, 0, start)
	assert.Equal(t, 7, end)

	start, end = Params{Offset: 3}.Window(7)
	assert.Equal(t, 3, start)
	assert.Equal(t, 7, end)
}

func TestNewResponse_HasMore(t *testing.T) {
	r := NewResponse(nil, 50, 20, 0)
	assert.True(t, r.HasMore)

	r = NewResponse(nil, 50, 20, 40)
	assert.False(t, r.HasMore)
}
