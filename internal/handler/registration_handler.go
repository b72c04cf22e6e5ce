package handler

import (
	"errors"
	"net/http"
	"strconv"

	"eventhub/internal/dto"
	"eventhub/internal/middleware"
	"eventhub/internal/policy"
	"eventhub/internal/service"

	"github.com/labstack/echo/v4"
)

type RegistrationHandler struct {
	svc service.RegistrationService
}

func NewRegistrationHandler(svc service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{svc: svc}
}

func (h *RegistrationHandler) RegisterRoutes(protected *echo.Group) {
	protected.POST("/:id/attendees", h.Register)
	protected.GET("/:id/attendees", h.List)
	protected.DELETE("/:id/attendees/:attendee_id", h.Remove)
}

func (h *RegistrationHandler) Register(c echo.Context) error {
	eventID, err := eventID(c)
	if err != nil {
		return err
	}

	var req dto.RegisterAttendeeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	attendee, err := h.svc.Register(c.Request().Context(), middleware.Actor(c), eventID, req.Name, req.Phone)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.Is(err, policy.ErrNotAuthorized):
			return authzError(c, err)
		case errors.As(err, &verr):
			return echo.NewHTTPError(http.StatusBadRequest, verr.Error())
		case errors.Is(err, service.ErrEventNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrEventFull),
			errors.Is(err, service.ErrEventCompleted),
			errors.Is(err, service.ErrAlreadyRegistered):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return err
		}
	}
	return c.JSON(http.StatusCreated, dto.ToAttendeeResponse(attendee))
}

func (h *RegistrationHandler) List(c echo.Context) error {
	eventID, err := eventID(c)
	if err != nil {
		return err
	}

	attendees, err := h.svc.ListByEvent(c.Request().Context(), middleware.Actor(c), eventID)
	if err != nil {
		switch {
		case errors.Is(err, policy.ErrNotAuthorized):
			return authzError(c, err)
		case errors.Is(err, service.ErrEventNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		default:
			return err
		}
	}

	resp := make([]dto.AttendeeResponse, len(attendees))
	for i := range attendees {
		resp[i] = dto.ToAttendeeResponse(&attendees[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *RegistrationHandler) Remove(c echo.Context) error {
	eventID, err := eventID(c)
	if err != nil {
		return err
	}
	attendeeID, err := strconv.ParseUint(c.Param("attendee_id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid attendee id")
	}

	if err := h.svc.Remove(c.Request().Context(), middleware.Actor(c), eventID, uint(attendeeID)); err != nil {
		switch {
		case errors.Is(err, policy.ErrNotAuthorized):
			return authzError(c, err)
		case errors.Is(err, service.ErrEventNotFound), errors.Is(err, service.ErrAttendeeNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrAttendeeEventMismatch):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return err
		}
	}
	return c.NoContent(http.StatusNoContent)
}
