package consultation

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medassist/medassist/internal/domain/caserecord"
	"github.com/medassist/medassist/internal/domain/diagnosis"
	"github.com/medassist/medassist/internal/domain/vocabulary"
	"github.com/medassist/medassist/internal/platform/auth"
	"github.com/medassist/medassist/pkg/pagination"
)

// Handler exposes the consultation pipeline over HTTP.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers consultation routes on the API group.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole("clinician", "nurse"))
	read.GET("/symptoms", h.ListSymptoms)
	read.GET("/symptoms/:name/diseases", h.DiseasesForSymptom)
	read.GET("/diseases", h.ListDiseases)
	read.GET("/records", h.ListRecords)
	read.GET("/consultations", h.ListConsultations)
	read.GET("/consultations/:id", h.GetConsultation)

	write := api.Group("", auth.RequireRole("clinician"))
	write.POST("/consultations", h.CreateConsultation)
}

// CreateConsultation handles POST /api/v1/consultations
func (h *Handler) CreateConsultation(c echo.Context) error {
	var req Request
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	result, err := h.svc.Run(c.Request().Context(), &req)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, result)
}

// ListSymptoms handles GET /api/v1/symptoms
func (h *Handler) ListSymptoms(c echo.Context) error {
	vocab, err := h.svc.Vocabulary()
	if vocab == nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"symptoms": vocab.Symptoms.Sorted(),
		"usable":   vocab.Usable(),
	})
}

// ListDiseases handles GET /api/v1/diseases
func (h *Handler) ListDiseases(c echo.Context) error {
	vocab, err := h.svc.Vocabulary()
	if vocab == nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"diseases": vocab.Diseases.Sorted(),
		"usable":   vocab.Usable(),
	})
}

// DiseasesForSymptom handles GET /api/v1/symptoms/:name/diseases
func (h *Handler) DiseasesForSymptom(c echo.Context) error {
	name := c.Param("name")
	diseases, err := h.svc.DiseasesForSymptom(name)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"symptom":  vocabulary.Normalize(name),
		"diseases": diseases,
	})
}

// ListRecords handles GET /api/v1/records
func (h *Handler) ListRecords(c echo.Context) error {
	pg := pagination.FromContext(c)
	records, total, err := h.svc.Records(pg.Limit, pg.Offset)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(records, total, pg.Limit, pg.Offset))
}

// GetConsultation handles GET /api/v1/consultations/:id
func (h *Handler) GetConsultation(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	rec, err := h.svc.Consultation(c.Request().Context(), id)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}

// ListConsultations handles GET /api/v1/consultations?patient_id=
func (h *Handler) ListConsultations(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.History(c.Request().Context(), c.QueryParam("patient_id"), pg.Limit, pg.Offset)
	if err != nil {
		return errorResponse(c, err)
	}
	if items == nil {
		items = []*caserecord.ArchivedRecord{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func errorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, diagnosis.ErrUnrecognizedSymptom):
		return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
			"error":                 "unrecognized symptoms",
			"unrecognized_symptoms": diagnosis.Unrecognized(err, diagnosis.KindUnrecognizedSymptom),
		})
	case errors.Is(err, diagnosis.ErrInvalidPatient),
		errors.Is(err, ErrNoSymptoms),
		errors.Is(err, caserecord.ErrInvalidField):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, caserecord.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrDiagnosisDisabled),
		errors.Is(err, ErrArchiveDisabled),
		errors.Is(err, vocabulary.ErrSourceMissing),
		errors.Is(err, vocabulary.ErrSourceEmpty):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
