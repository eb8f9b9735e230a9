package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/PatrolPeakPlanner/PatrolPeakPlanners/internal/core/domain"
	"github.com/PatrolPeakPlanner/PatrolPeakPlanners/internal/pkg/metrics"
)

const (
	// SessionCookie is the cookie carrying the session token.
	SessionCookie = "token"
	// UserIDKey is the echo.Context key holding the authenticated user id.
	UserIDKey = "user_id"
)

// SessionAuthenticator resolves a session token to a user id.
type SessionAuthenticator interface {
	Authenticate(ctx context.Context, token string) (string, error)
}

// Session rejects requests without a usable session cookie and binds the
// caller's user id into the context for downstream handlers.
//
//   - no cookie                 → 401
//   - bad, revoked or expired   → 403
func Session(auth SessionAuthenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				metrics.SessionsRejectedTotal.WithLabelValues("missing").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrMissingToken.Error()).
					SetInternal(domain.ErrMissingToken)
			}

			userID, err := auth.Authenticate(c.Request().Context(), cookie.Value)
			switch {
			case err == nil:
			case errors.Is(err, domain.ErrExpiredToken):
				metrics.SessionsRejectedTotal.WithLabelValues("expired").Inc()
				return echo.NewHTTPError(http.StatusForbidden, domain.ErrExpiredToken.Error()).SetInternal(err)
			case errors.Is(err, domain.ErrInvalidToken), errors.Is(err, domain.ErrMissingToken):
				metrics.SessionsRejectedTotal.WithLabelValues("invalid").Inc()
				return echo.NewHTTPError(http.StatusForbidden, domain.ErrInvalidToken.Error()).SetInternal(err)
			default:
				return err
			}

			c.Set(UserIDKey, userID)
			return next(c)
		}
	}
}

// UserID returns the id bound by Session, or "" when the middleware did not run.
func UserID(c echo.Context) string {
	id, _ := c.Get(UserIDKey).(string)
	return id
}
