package scheduling

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinic/scheduler/internal/platform/middleware"
)

// Handler exposes the scheduling service over HTTP.
type Handler struct {
	service *Service
}

// NewHandler creates a Handler backed by the given service.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the scheduling API routes on the given Echo group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/availability", h.Availability)
	g.POST("/book", h.Book)
	g.GET("/appointment-types", h.AppointmentTypes)
	g.GET("/business-hours", h.BusinessHours)
}

// Availability handles GET /availability.
func (h *Handler) Availability(c echo.Context) error {
	date := c.QueryParam("date")
	appointmentType := c.QueryParam("appointment_type")
	if date == "" || appointmentType == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "date and appointment_type query parameters are required")
	}

	resp, err := h.service.Availability(c.Request().Context(), date, appointmentType)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, resp)
}

// Book handles POST /book. Structural validation of the body runs before the
// core is invoked; validation failures surface as 422.
func (h *Handler) Book(c echo.Context) error {
	var req BookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	// Free-text fields are cleaned before validation so that a name made of
	// control characters fails the required check rather than being stored.
	req.Patient.Name = middleware.SanitizeString(req.Patient.Name)
	if req.Reason != nil {
		cleaned := middleware.SanitizeString(*req.Reason)
		req.Reason = &cleaned
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	resp, err := h.service.Book(c.Request().Context(), req)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, resp)
}

// AppointmentTypes handles GET /appointment-types.
func (h *Handler) AppointmentTypes(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{"types": h.service.Catalog()})
}

// BusinessHours handles GET /business-hours.
func (h *Handler) BusinessHours(c echo.Context) error {
	start, end := h.service.Hours()
	return c.JSON(http.StatusOK, map[string]string{"start": start, "end": end})
}

// toHTTPError maps core scheduling errors onto transport status codes.
func toHTTPError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidAppointmentType),
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrPastDateTime):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrSlotUnavailable):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
