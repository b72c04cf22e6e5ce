package middleware

import (
	"net/http"

	"eventhub/internal/dto"

	"github.com/labstack/echo/v4"
)

// ErrorHandler renders every error as a JSON message. Errors that reach
// this point without an explicit status are internal failures and must not
// leak their detail to the client.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := "internal server error"

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		}
	}

	_ = c.JSON(code, dto.ErrorResponse{Message: msg})
}
