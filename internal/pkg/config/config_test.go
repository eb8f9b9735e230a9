package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
		"EMAIL_USER": "patrol@example.com",
		"EMAIL_PASS": "pw",
	}))
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, time.Hour, cfg.Session.TTL)
	assert.True(t, cfg.Session.CookieSecure)
	assert.Equal(t, 10*time.Minute, cfg.OTP.TTL)
	assert.Equal(t, 5, cfg.OTP.MaxAttempts)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 100, cfg.HTTP.RateLimitRequests)
	assert.Equal(t, 15*time.Minute, cfg.HTTP.RateLimitWindow)
	assert.Equal(t, "smtp", cfg.Mail.Driver)
	assert.Equal(t, 587, cfg.Mail.Port)
}

func TestLoadFrom_RequiresSecret(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"MAIL_DRIVER": "log",
	}))
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoadFrom_InsecureCookieOnlyOutsideProduction(t *testing.T) {
	env := map[string]string{
		"JWT_SECRET":    "s3cret",
		"MAIL_DRIVER":   "log",
		"COOKIE_SECURE": "false",
	}
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(env))
	require.NoError(t, err)
	assert.False(t, cfg.Session.CookieSecure)

	env["ENV"] = "production"
	_, err = LoadFrom(context.Background(), envconfig.MapLookuper(env))
	assert.ErrorContains(t, err, "COOKIE_SECURE")
}

func TestLoadFrom_UnknownMailDriver(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":  "s3cret",
		"MAIL_DRIVER": "carrier-pigeon",
	}))
	assert.ErrorContains(t, err, "carrier-pigeon")
}
