package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	"github.com/PatrolPeakPlanner/PatrolPeakPlanners/internal/api/handler"
	"github.com/PatrolPeakPlanner/PatrolPeakPlanners/internal/api/middleware"
	"github.com/PatrolPeakPlanner/PatrolPeakPlanners/internal/core/ports"
)

// RateLimit caps requests per client IP. Requests == 0 disables the limiter.
type RateLimit struct {
	Requests int
	Window   time.Duration
}

// Deps carries everything NewRouter wires into the HTTP layer.
type Deps struct {
	Auth   ports.AuthService
	Items  ports.ItemService
	Checks map[string]handler.Check
	Log    zerolog.Logger

	CookieSecure bool
	CORSOrigin   string
	RateLimit    RateLimit

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "0",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "SAMEORIGIN",
		HSTSMaxAge:            15552000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "no-referrer",
	}))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{d.CORSOrigin},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderContentType},
		AllowCredentials: true,
	}))
	if d.RateLimit.Requests > 0 {
		e.Use(rateLimiter(d.RateLimit))
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "patrolpeak",
		Registerer: d.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	cookies := handler.SessionCookies{Secure: d.CookieSecure}
	authHandler := handler.NewAuthHandler(d.Auth, cookies)
	accountHandler := handler.NewAccountHandler(d.Auth, cookies)
	itemHandler := handler.NewItemHandler(d.Items)
	session := middleware.Session(d.Auth)

	// --- Auth routes ---
	e.POST("/signup", authHandler.Signup)
	e.POST("/login", authHandler.Login)
	e.POST("/verify-2fa", authHandler.VerifyCode)
	e.POST("/logout", authHandler.Logout)
	e.POST("/forgot-password", authHandler.ForgotPassword)
	e.POST("/reset-password", authHandler.ResetPassword)

	// --- Account routes (session required) ---
	account := e.Group("/account", session)
	account.PUT("/update", accountHandler.Update)
	account.PUT("/change-password", accountHandler.ChangePassword)

	// --- Checklist routes (session required) ---
	items := e.Group("/items", session)
	items.GET("", itemHandler.List)
	items.POST("", itemHandler.Create)
	items.PUT("/:id", itemHandler.Update)
	items.DELETE("/:id", itemHandler.Delete)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.Checks)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger emits one zerolog line per request in place of Echo's
// default text logger.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}

// rateLimiter keeps a token bucket per client IP.
func rateLimiter(rl RateLimit) echo.MiddlewareFunc {
	window := rl.Window
	if window <= 0 {
		window = 15 * time.Minute
	}
	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Every(window / time.Duration(rl.Requests)),
		Burst:     rl.Requests,
		ExpiresIn: window,
	})
	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
		},
	})
}
