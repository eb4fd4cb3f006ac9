package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"travelblog/internal/errors"
	"travelblog/internal/logging"
	"travelblog/internal/service"
)

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator returns the request validator used by every handler.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: service.NewValidator()}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return service.TranslateValidation(cv.validator.Struct(i))
}

// fail maps a service error to its HTTP response. Dependency failures are
// logged under event; their detail stays on the internal error only.
func fail(c echo.Context, event string, err error) error {
	mapped := errors.MapErrorToHTTP(err)
	if mapped.StatusCode >= http.StatusInternalServerError {
		logging.FromContext(c.Request().Context()).Error(event, "error", err)
	}
	return echo.NewHTTPError(mapped.StatusCode, mapped.ToErrorResponse()).SetInternal(err)
}

func invalidBody(err error) error {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error: "invalid request body",
		Code:  "INVALID_REQUEST",
	}).SetInternal(err)
}

// MessageResponse is a plain confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// SuccessResponse acknowledges a request without a payload.
type SuccessResponse struct {
	Success bool `json:"success"`
}
