package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// RequestValidator wires go-playground/validator into echo's c.Validate.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

func (v *RequestValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		if fields, ok := err.(validator.ValidationErrors); ok && len(fields) > 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid value for field "+fields[0].Field())
		}
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return nil
}
