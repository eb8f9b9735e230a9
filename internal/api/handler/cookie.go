package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/PatrolPeakPlanner/PatrolPeakPlanners/internal/api/middleware"
	"github.com/PatrolPeakPlanner/PatrolPeakPlanners/internal/core/ports"
)

// SessionCookies writes and clears the session cookie. The cookie is never
// readable from page scripts and is only sent on same-site requests.
type SessionCookies struct {
	// Secure restricts the cookie to HTTPS. Only local development turns it off.
	Secure bool
}

func (sc SessionCookies) Set(c echo.Context, sess *ports.Session) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		MaxAge:   int(time.Until(sess.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   sc.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (sc SessionCookies) Clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   sc.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// bindAndValidate decodes the JSON body into req and runs its validate tags.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
