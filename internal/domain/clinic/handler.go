package clinic

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinicore/clinicore/internal/platform/auth"
	"github.com/clinicore/clinicore/internal/platform/memstore"
	"github.com/clinicore/clinicore/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	readGroup := api.Group("", auth.RequireCapability(auth.CapViewClinics))
	readGroup.GET("/clinics", h.List)
	readGroup.GET("/clinics/:id", h.Get)

	writeGroup := api.Group("", auth.RequireCapability(auth.CapManageClinics))
	writeGroup.POST("/clinics", h.Create)
	writeGroup.PUT("/clinics/:id", h.Update)
	writeGroup.DELETE("/clinics/:id", h.Delete)
}

func (h *Handler) Create(c echo.Context) error {
	var clinic Clinic
	if err := c.Bind(&clinic); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &clinic); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, clinic)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	clinic, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, memstore.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "clinic not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, clinic)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	name := c.QueryParam("name")

	clinics, total, err := h.svc.Search(c.Request().Context(), name, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(clinics, total, pg.Limit, pg.Offset))
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var clinic Clinic
	if err := c.Bind(&clinic); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	clinic.ID = id
	if err := h.svc.Update(c.Request().Context(), &clinic); err != nil {
		if errors.Is(err, memstore.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "clinic not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, clinic)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, memstore.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "clinic not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
