package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ktozkim/watchdog/internal/domain"
)

// Envelope is the standard API response wrapper.
type Envelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    any          `json:"data,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError represents a field-level validation error.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// JSON writes a success response with the standard envelope.
func JSON(c echo.Context, status int, data any) error {
	return c.JSON(status, Envelope{Success: true, Data: data})
}

// JSONMessage writes a success response with a human-readable message.
func JSONMessage(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

// HTTPErrorHandler is the global error handler for echo. Every flow-level
// error is mapped here; nothing propagates to the client as an unhandled
// fault.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, env := mapError(err)
	if jsonErr := c.JSON(status, env); jsonErr != nil {
		slog.Error("failed to send error response", "error", jsonErr)
	}
}

func mapError(err error) (int, Envelope) {
	// echo's own HTTP errors (404, 405, body too large, ...)
	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		msg, _ := echoErr.Message.(string)
		if msg == "" {
			msg = http.StatusText(echoErr.Code)
		}
		return echoErr.Code, Envelope{Message: msg}
	}

	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, Envelope{
			Message: "Validation failed",
			Errors:  []FieldError{{Field: validationErr.Field, Message: validationErr.Message}},
		}
	}

	switch {
	case errors.Is(err, domain.ErrDuplicateUser):
		return http.StatusBadRequest, Envelope{Message: "User already exists"}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, Envelope{Message: "Invalid credentials"}
	case errors.Is(err, domain.ErrMissingToken):
		return http.StatusUnauthorized, Envelope{Message: "Access token required"}
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusForbidden, Envelope{Message: "Invalid or expired token"}
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, Envelope{Message: "Not authenticated"}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, Envelope{Message: "Resource not found"}
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, Envelope{Message: "Invalid request"}
	default:
		slog.Error("unhandled error", "error", err)
		return http.StatusInternalServerError, Envelope{Message: "Internal server error"}
	}
}
