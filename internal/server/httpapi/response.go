package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/labstack/echo/v4"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// envelope is the uniform response body: {status, message?, data?, errors?}.
type envelope struct {
	Status  string       `json:"status"`
	Message string       `json:"message,omitempty"`
	Data    any          `json:"data,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError describes one failed validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

func jsonSuccess(c echo.Context, code int, message string, data any) error {
	return c.JSON(code, envelope{Status: statusSuccess, Message: message, Data: data})
}

func jsonError(c echo.Context, code int, message string) error {
	return c.JSON(code, envelope{Status: statusError, Message: message})
}

func jsonValidationFailed(c echo.Context, errs []FieldError) error {
	return c.JSON(http.StatusBadRequest, envelope{
		Status:  statusError,
		Message: "validation failed",
		Errors:  errs,
	})
}

// writeError is the single funnel from service errors to HTTP responses.
// Known sentinels map to their status codes; anything unexpected is logged
// and reported as a generic 500 without exposing internals.
func (s *Server) writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return jsonError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrorInvalidCredentials):
		return jsonError(c, http.StatusUnauthorized, common.ErrorInvalidCredentials.Error())
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return jsonError(c, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, common.ErrorNotFound):
		return jsonError(c, http.StatusNotFound, "not found")
	case errors.Is(err, common.ErrorDuplicateEmail):
		return jsonError(c, http.StatusConflict, common.ErrorDuplicateEmail.Error())
	default:
		s.logger.Error(c.Request().Context(), "unexpected error", "error", err.Error())
		return jsonError(c, http.StatusInternalServerError, "internal server error")
	}
}
