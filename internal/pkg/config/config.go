package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=3000"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	BcryptCost int `env:"BCRYPT_COST, default=10"`

	Session SessionConfig
	OTP     OTPConfig
	HTTP    HTTPConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	Mail    MailConfig
}

type SessionConfig struct {
	TTL time.Duration `env:"SESSION_TTL, default=1h"`
	// CookieSecure may only be disabled outside production.
	CookieSecure bool `env:"COOKIE_SECURE, default=true"`
}

type OTPConfig struct {
	TTL         time.Duration `env:"OTP_TTL,          default=10m"`
	MaxAttempts int           `env:"OTP_MAX_ATTEMPTS, default=5"`
}

type HTTPConfig struct {
	CORSOrigin        string        `env:"CORS_ORIGIN,         default=http://localhost:3000"`
	RateLimitRequests int           `env:"RATE_LIMIT_REQUESTS, default=100"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW,   default=15m"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=patrolpeak"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type MailConfig struct {
	// Driver is "smtp" or "log".
	Driver   string `env:"MAIL_DRIVER, default=smtp"`
	Host     string `env:"SMTP_HOST,   default=smtp.gmail.com"`
	Port     int    `env:"SMTP_PORT,   default=587"`
	Username string `env:"EMAIL_USER"`
	Password string `env:"EMAIL_PASS"`
	From     string `env:"MAIL_FROM"`
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate rejects configurations the service must not start with.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.IsProduction() && !c.Session.CookieSecure {
		errs = append(errs, errors.New("COOKIE_SECURE cannot be disabled in production"))
	}
	if c.IsProduction() && c.Mail.Driver != "smtp" {
		errs = append(errs, errors.New("MAIL_DRIVER must be smtp in production"))
	}
	switch c.Mail.Driver {
	case "smtp":
		if c.Mail.Username == "" || c.Mail.Password == "" {
			errs = append(errs, errors.New("EMAIL_USER and EMAIL_PASS are required for the smtp mail driver"))
		}
	case "log":
	default:
		errs = append(errs, fmt.Errorf("unknown MAIL_DRIVER %q", c.Mail.Driver))
	}
	return errors.Join(errs...)
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadFrom(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadFrom reads and validates configuration from the given lookuper.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
