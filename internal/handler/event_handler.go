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

type EventHandler struct {
	svc service.EventService
}

func NewEventHandler(svc service.EventService) *EventHandler {
	return &EventHandler{svc: svc}
}

func (h *EventHandler) RegisterRoutes(public, protected *echo.Group) {
	public.GET("", h.List)
	public.GET("/:id", h.Get)
	protected.POST("", h.Create)
	protected.PUT("/:id", h.Update)
	protected.DELETE("/:id", h.Delete)
}

func (h *EventHandler) List(c echo.Context) error {
	search := c.QueryParam("search")
	status := c.QueryParam("status")

	details, err := h.svc.Search(c.Request().Context(), search, status)
	if err != nil {
		return err
	}

	resp := make([]dto.EventResponse, len(details))
	for i := range details {
		resp[i] = dto.ToEventDetailResponse(&details[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *EventHandler) Get(c echo.Context) error {
	id, err := eventID(c)
	if err != nil {
		return err
	}

	detail, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return err
	}
	return c.JSON(http.StatusOK, dto.ToEventDetailResponse(detail))
}

func (h *EventHandler) Create(c echo.Context) error {
	req, err := bindEventRequest(c)
	if err != nil {
		return err
	}

	event, err := h.svc.Create(c.Request().Context(), middleware.Actor(c), eventInput(req))
	if err != nil {
		return mapEventWriteError(c, err)
	}
	return c.JSON(http.StatusCreated, dto.ToEventResponse(event, 0))
}

func (h *EventHandler) Update(c echo.Context) error {
	id, err := eventID(c)
	if err != nil {
		return err
	}
	req, err := bindEventRequest(c)
	if err != nil {
		return err
	}

	event, err := h.svc.Update(c.Request().Context(), middleware.Actor(c), id, eventInput(req))
	if err != nil {
		return mapEventWriteError(c, err)
	}

	detail, err := h.svc.Get(c.Request().Context(), event.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.ToEventDetailResponse(detail))
}

func (h *EventHandler) Delete(c echo.Context) error {
	id, err := eventID(c)
	if err != nil {
		return err
	}

	if err := h.svc.Delete(c.Request().Context(), middleware.Actor(c), id); err != nil {
		switch {
		case errors.Is(err, policy.ErrNotAuthorized):
			return authzError(c, err)
		case errors.Is(err, service.ErrEventNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		default:
			return err
		}
	}
	return c.NoContent(http.StatusNoContent)
}

func bindEventRequest(c echo.Context) (dto.EventRequest, error) {
	var req dto.EventRequest
	if err := c.Bind(&req); err != nil {
		return req, echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return req, err
	}
	return req, nil
}

func eventInput(req dto.EventRequest) service.EventInput {
	return service.EventInput{
		Name:         req.Name,
		Description:  req.Description,
		Date:         req.Date,
		Time:         req.Time,
		Location:     req.Location,
		MaxAttendees: req.MaxAttendees,
	}
}

func mapEventWriteError(c echo.Context, err error) error {
	var verr *service.ValidationError
	switch {
	case errors.Is(err, policy.ErrNotAuthorized):
		return authzError(c, err)
	case errors.As(err, &verr):
		return echo.NewHTTPError(http.StatusBadRequest, verr.Error())
	case errors.Is(err, service.ErrEventNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrCapacityBelowRegistrations):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return err
	}
}

func eventID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid event id")
	}
	return uint(id), nil
}

// authzError keeps "not logged in" and "insufficient role" identical in
// the body; only the status differs to support a login redirect.
func authzError(c echo.Context, err error) error {
	if middleware.Actor(c) == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	return echo.NewHTTPError(http.StatusForbidden, err.Error())
}
