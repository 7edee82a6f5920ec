package prescription

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinicore/clinicore/internal/platform/auth"
	"github.com/clinicore/clinicore/internal/platform/memstore"
	"github.com/clinicore/clinicore/pkg/pagination"
)

// signature uploads are small rasters; anything bigger is rejected outright
const maxSignatureBytes = 1 << 20

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	readGroup := api.Group("", auth.RequireCapability(auth.CapViewPrescriptions))
	readGroup.GET("/prescriptions", h.List)
	readGroup.GET("/prescriptions/:id", h.Get)
	readGroup.GET("/prescriptions/:id/document", h.Document)

	writeGroup := api.Group("", auth.RequireCapability(auth.CapPrescribe))
	writeGroup.POST("/prescriptions", h.Finalize)
}

type finalizeRequest struct {
	DoctorID        uuid.UUID        `json:"doctor_id"`
	PatientID       uuid.UUID        `json:"patient_id"`
	Diagnosis       string           `json:"diagnosis"`
	Items           []MedicationItem `json:"items"`
	Recommendations string           `json:"recommendations"`
	Renewals        int              `json:"renewals"`
	SignaturePNG    []byte           `json:"signature_png"`
}

// Finalize accepts either a JSON body with a base64 signature_png field or a
// multipart form with a "payload" JSON part and a "signature" PNG file.
func (h *Handler) Finalize(c echo.Context) error {
	var req finalizeRequest
	contentType := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(contentType, echo.MIMEMultipartForm) {
		if err := h.bindMultipart(c, &req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	} else if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	in := FinalizeInput{
		DoctorID:        req.DoctorID,
		PatientID:       req.PatientID,
		Diagnosis:       req.Diagnosis,
		Items:           req.Items,
		Recommendations: req.Recommendations,
		Renewals:        req.Renewals,
		SignaturePNG:    req.SignaturePNG,
		IdempotencyKey:  c.Request().Header.Get("Idempotency-Key"),
	}

	p, err := h.svc.Finalize(c.Request().Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoPatient), errors.Is(err, ErrNoMedications), errors.Is(err, ErrMissingSignature):
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, memstore.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) bindMultipart(c echo.Context, req *finalizeRequest) error {
	payload := c.FormValue("payload")
	if payload == "" {
		return fmt.Errorf("payload part is required")
	}
	if err := json.Unmarshal([]byte(payload), req); err != nil {
		return fmt.Errorf("payload: %w", err)
	}

	file, err := c.FormFile("signature")
	if err != nil {
		return fmt.Errorf("signature part is required")
	}
	if file.Size > maxSignatureBytes {
		return fmt.Errorf("signature file too large")
	}
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxSignatureBytes))
	if err != nil {
		return err
	}
	req.SignaturePNG = data
	return nil
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, memstore.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "prescription not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

// Document renders the prescription PDF and streams it as a download.
func (h *Handler) Document(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	pdf, filename, err := h.svc.Document(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, memstore.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "prescription not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}
