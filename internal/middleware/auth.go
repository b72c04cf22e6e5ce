package middleware

import (
	"net/http"

	"eventhub/internal/auth"
	"eventhub/internal/models"
	"eventhub/internal/repository"

	"github.com/labstack/echo/v4"
)

const actorKey = "actor"

// RequireAuth resolves a bearer token to the current user and stores it in
// the request context. The middleware only establishes identity; role
// decisions stay in the policy package.
func RequireAuth(tokens *auth.JWTManager, users repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := auth.TokenFromHeader(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			userID, err := tokens.Validate(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			// Load the user row so the admin flag is current, not the one
			// frozen into the token at issue time.
			user, err := users.FindByID(c.Request().Context(), userID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			c.Set(actorKey, user)
			return next(c)
		}
	}
}

// Actor returns the authenticated user for the request, or nil when the
// request is anonymous.
func Actor(c echo.Context) *models.User {
	if user, ok := c.Get(actorKey).(*models.User); ok {
		return user
	}
	return nil
}
