// Command server runs the PatrolPeak checklist API.
//
// @title                      PatrolPeak Planner API
// @version                    1.0
// @description                Per-user checklists for lifeguards and ski patrollers, behind password and emailed-code login.
// @BasePath                   /
// @securityDefinitions.apikey SessionCookie
// @in                         cookie
// @name                       token
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	_ "github.com/PatrolPeakPlanner/PatrolPeakPlanners/docs"
	"github.com/PatrolPeakPlanner/PatrolPeakPlanners/internal/api"
	"github.com/PatrolPeakPlanner/PatrolPeakPlanners/internal/api/handler"
	"github.com/PatrolPeakPlanner/PatrolPeakPlanners/internal/core/ports"
	"github.com/PatrolPeakPlanner/PatrolPeakPlanners/internal/core/service"
	mongostore "github.com/PatrolPeakPlanner/PatrolPeakPlanners/internal/infrastructure/db/mongo"
	redisstore "github.com/PatrolPeakPlanner/PatrolPeakPlanners/internal/infrastructure/db/redis"
	"github.com/PatrolPeakPlanner/PatrolPeakPlanners/internal/infrastructure/mail"
	"github.com/PatrolPeakPlanner/PatrolPeakPlanners/internal/pkg/config"
	"github.com/PatrolPeakPlanner/PatrolPeakPlanners/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Env:     cfg.Env,
		Service: "patrolpeak",
	})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	mongoClient, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	users := mongostore.NewUserRepository(db)
	items := mongostore.NewItemRepository(db)
	if err := mongostore.EnsureIndexes(ctx, users, items); err != nil {
		return err
	}

	// --- Mail ---
	mailer, err := newMailer(cfg, log)
	if err != nil {
		return err
	}

	// --- Services ---
	codes := service.NewOneTimeCodeIssuer(
		users,
		mailer,
		redisstore.NewAttemptCounter(rdb),
		service.OneTimeCodeConfig{TTL: cfg.OTP.TTL, MaxAttempts: cfg.OTP.MaxAttempts},
		log,
	)
	tokens := service.NewSessionTokens(cfg.JWTSecret, cfg.Session.TTL)
	authService := service.NewAuthService(users, service.NewBcryptHasher(cfg.BcryptCost), codes, tokens, log)
	itemService := service.NewItemService(items, log)

	e := api.NewRouter(api.Deps{
		Auth:  authService,
		Items: itemService,
		Checks: map[string]handler.Check{
			"mongodb": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
			"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		Log:          log,
		CookieSecure: cfg.Session.CookieSecure,
		CORSOrigin:   cfg.HTTP.CORSOrigin,
		RateLimit: api.RateLimit{
			Requests: cfg.HTTP.RateLimitRequests,
			Window:   cfg.HTTP.RateLimitWindow,
		},
	})

	// --- Serve ---
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func newMailer(cfg *config.Config, log zerolog.Logger) (ports.Mailer, error) {
	if cfg.Mail.Driver == "log" {
		log.Warn().Msg("MAIL_DRIVER=log: one-time codes are written to the log, not emailed")
		return mail.NewLogMailer(log, !cfg.IsProduction()), nil
	}
	return mail.NewSMTPMailer(mail.Config{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		From:     cfg.Mail.From,
	})
}
