package handler

import (
	"errors"
	"net/http"

	"eventhub/internal/auth"
	"eventhub/internal/dto"
	"eventhub/internal/middleware"
	"eventhub/internal/policy"
	"eventhub/internal/service"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	svc    service.AuthService
	tokens *auth.JWTManager
}

func NewAuthHandler(svc service.AuthService, tokens *auth.JWTManager) *AuthHandler {
	return &AuthHandler{svc: svc, tokens: tokens}
}

func (h *AuthHandler) RegisterRoutes(public, protected *echo.Group) {
	public.POST("/register", h.Register)
	public.POST("/login", h.Login)
	protected.GET("/profile", h.Profile)
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.svc.Register(c.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			return echo.NewHTTPError(http.StatusBadRequest, verr.Error())
		case errors.Is(err, service.ErrDuplicateUsername), errors.Is(err, service.ErrDuplicateEmail):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return err
		}
	}

	// New accounts are logged in right away.
	token, err := h.tokens.Generate(user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, dto.TokenResponse{Token: token, User: dto.ToUserResponse(user)})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.svc.Authenticate(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		}
		return err
	}

	token, err := h.tokens.Generate(user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.TokenResponse{Token: token, User: dto.ToUserResponse(user)})
}

func (h *AuthHandler) Profile(c echo.Context) error {
	user, err := h.svc.GetProfile(c.Request().Context(), middleware.Actor(c))
	if err != nil {
		if errors.Is(err, policy.ErrNotAuthorized) {
			return authzError(c, err)
		}
		return err
	}
	return c.JSON(http.StatusOK, dto.ToUserResponse(user))
}
