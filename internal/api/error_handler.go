package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/PatrolPeakPlanner/PatrolPeakPlanners/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, session middleware, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidRole):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, domain.ErrUserExists.Error()
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusBadRequest, domain.ErrInvalidCredentials.Error()
	case errors.Is(err, domain.ErrInvalidCode):
		return http.StatusBadRequest, domain.ErrInvalidCode.Error()
	case errors.Is(err, domain.ErrCodeExpired):
		return http.StatusBadRequest, domain.ErrCodeExpired.Error()
	case errors.Is(err, domain.ErrAnswerMismatch):
		return http.StatusBadRequest, domain.ErrAnswerMismatch.Error()
	case errors.Is(err, domain.ErrTooManyAttempts):
		return http.StatusTooManyRequests, domain.ErrTooManyAttempts.Error()
	case errors.Is(err, domain.ErrMissingToken):
		return http.StatusUnauthorized, domain.ErrMissingToken.Error()
	case errors.Is(err, domain.ErrExpiredToken):
		return http.StatusForbidden, domain.ErrExpiredToken.Error()
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusForbidden, domain.ErrInvalidToken.Error()
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, domain.ErrUserNotFound.Error()
	case errors.Is(err, domain.ErrItemNotFound):
		return http.StatusNotFound, domain.ErrItemNotFound.Error()
	case errors.Is(err, domain.ErrMailDelivery):
		log.Error().
			Err(err).
			Str("path", c.Path()).
			Msg("mail delivery failed")
		return http.StatusBadGateway, domain.ErrMailDelivery.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
