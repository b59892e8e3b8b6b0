package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/taskhub/task-management/internal/api/handler"
	"github.com/taskhub/task-management/internal/core/domain"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Renders every error as the standard envelope {success, message, errors?}.
//   - Maps known domain errors to deterministic HTTP status codes.
//   - Collapses all authentication failure kinds into 401; the reason
//     survives only in the message.
//   - Logs unexpected errors internally without leaking details.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, env := resolveError(err, log, c)
		_ = c.JSON(code, env)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, handler.Envelope) {
	// Aggregated validation failures carry all field errors at once.
	var ve *handler.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, handler.Envelope{
			Success: false,
			Message: "Validation failed",
			Errors:  ve.Fields,
		}
	}

	// Echo's own errors (middleware rejections, bind failures, router 404s).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, handler.Envelope{Success: false, Message: fmt.Sprintf("%v", he.Message)}
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, fail("Invalid credentials")
	case errors.Is(err, domain.ErrCorruptedCredential):
		// Already logged at the source; the caller sees the same generic
		// message as a wrong password.
		return http.StatusUnauthorized, fail("Invalid credentials")
	case errors.Is(err, domain.ErrTokenExpired), errors.Is(err, domain.ErrTokenMalformed):
		return http.StatusUnauthorized, fail(err.Error())
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusBadRequest, fail("Email already registered")
	case errors.Is(err, domain.ErrUsernameTaken):
		return http.StatusBadRequest, fail("Username already taken")
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, fail("User not found")
	case errors.Is(err, domain.ErrTaskNotFound):
		return http.StatusNotFound, fail("Task not found")
	case errors.Is(err, domain.ErrInvalidStatus):
		return http.StatusBadRequest, fail("Invalid task status")
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, fail("You do not have permission to perform this action")
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, fail("Internal server error")
}

func fail(message string) handler.Envelope {
	return handler.Envelope{Success: false, Message: message}
}
