package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/PatrolPeakPlanner/PatrolPeakPlanners/internal/core/domain"
)

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"invalid input keeps detail", fmt.Errorf("%w: email is required", domain.ErrInvalidInput), http.StatusBadRequest, "invalid input: email is required"},
		{"invalid role", domain.ErrInvalidRole, http.StatusBadRequest, domain.ErrInvalidRole.Error()},
		{"user exists", domain.ErrUserExists, http.StatusConflict, "user already exists"},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusBadRequest, "invalid credentials"},
		{"invalid code", domain.ErrInvalidCode, http.StatusBadRequest, "invalid 2FA code"},
		{"expired code", domain.ErrCodeExpired, http.StatusBadRequest, "2FA code expired"},
		{"answers", domain.ErrAnswerMismatch, http.StatusBadRequest, "incorrect answers"},
		{"attempts", domain.ErrTooManyAttempts, http.StatusTooManyRequests, domain.ErrTooManyAttempts.Error()},
		{"missing token", domain.ErrMissingToken, http.StatusUnauthorized, "authentication required"},
		{"invalid token", domain.ErrInvalidToken, http.StatusForbidden, "invalid session"},
		{"expired token", domain.ErrExpiredToken, http.StatusForbidden, "session expired"},
		{"user not found", domain.ErrUserNotFound, http.StatusNotFound, "user not found"},
		{"item not found", fmt.Errorf("update: %w", domain.ErrItemNotFound), http.StatusNotFound, "item not found"},
		{"mail hides cause", fmt.Errorf("%w: dial tcp: refused", domain.ErrMailDelivery), http.StatusBadGateway, "mail delivery failed"},
		{"echo error", echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), http.StatusBadRequest, "invalid payload"},
		{"unknown", errors.New("mongo: connection reset"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/x", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			NewHTTPErrorHandler(zerolog.Nop())(tt.err, c)

			if rec.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, rec.Code)
			}
			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Error != tt.msg {
				t.Fatalf("expected message %q, got %q", tt.msg, resp.Error)
			}
		})
	}
}

func TestHTTPErrorHandler_CommittedResponse(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	_ = c.String(http.StatusOK, "done")

	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrUserNotFound, c)

	if rec.Code != http.StatusOK || rec.Body.String() != "done" {
		t.Fatalf("committed response must be left alone, got %d %q", rec.Code, rec.Body.String())
	}
}
