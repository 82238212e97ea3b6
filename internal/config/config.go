// Package config loads the firma server configuration from FIRMA_ prefixed
// environment variables, optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/disc-ucn/firma/pkg/clipboard"
	"github.com/disc-ucn/firma/pkg/cookie"
	"github.com/disc-ucn/firma/pkg/logger"
	"github.com/disc-ucn/firma/pkg/mailer"
	"github.com/disc-ucn/firma/pkg/mailer/resend"
)

// Prefix is prepended to every environment variable name.
const Prefix = "FIRMA_"

// Session backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

var (
	ErrParsingConfig = errors.New("config: failed to parse environment")
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config is the complete server configuration.
type Config struct {
	Addr            string        `env:"ADDR"               envDefault:"127.0.0.1:8088"`
	Env             string        `env:"ENV"                envDefault:"development"`
	SessionBackend  string        `env:"SESSION_BACKEND"    envDefault:"memory"`
	RedisURL        string        `env:"REDIS_URL"          envDefault:"redis://localhost:6379/0"`
	CookieSecret    string        `env:"COOKIE_SECRET"`
	Fallback        string        `env:"CLIPBOARD_FALLBACK" envDefault:"text"`
	SessionTTL      time.Duration `env:"SESSION_TTL"        envDefault:"24h"`
	CopiedWindow    time.Duration `env:"COPIED_WINDOW"      envDefault:"3s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"   envDefault:"30s"`
	CookieSecure    bool          `env:"COOKIE_SECURE"      envDefault:"false"`

	// Log includes the Sentry settings (SENTRY_DSN, SENTRY_ENVIRONMENT).
	Log    logger.Config
	Mail   mailer.Config
	Resend resend.Config
}

// Option adjusts how Load reads the environment.
type Option func(*loadOptions)

type loadOptions struct {
	environment map[string]string
	dotenv      []string
}

// WithEnvironment parses vars instead of the process environment.
// Keys must carry the FIRMA_ prefix.
func WithEnvironment(vars map[string]string) Option {
	return func(o *loadOptions) { o.environment = vars }
}

// WithDotenv loads the given files before parsing. Missing files are skipped.
func WithDotenv(files ...string) Option {
	return func(o *loadOptions) { o.dotenv = append(o.dotenv, files...) }
}

// Load parses the configuration and validates it.
func Load(opts ...Option) (*Config, error) {
	o := &loadOptions{}
	for _, opt := range opts {
		opt(o)
	}

	for _, f := range o.dotenv {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, errors.Join(ErrParsingConfig, fmt.Errorf("loading %s: %w", f, err))
		}
	}

	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{
		Prefix:      Prefix,
		Environment: o.environment,
	}); err != nil {
		return nil, errors.Join(ErrParsingConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values env tags cannot express.
func (c *Config) Validate() error {
	var errs []error

	switch c.SessionBackend {
	case BackendMemory, BackendRedis:
	default:
		errs = append(errs, fmt.Errorf("SESSION_BACKEND must be %q or %q, got %q", BackendMemory, BackendRedis, c.SessionBackend))
	}

	if c.CookieSecret != "" {
		if err := cookie.ValidateSecret(c.CookieSecret); err != nil {
			errs = append(errs, fmt.Errorf("COOKIE_SECRET: %w", err))
		}
	} else if c.IsProduction() {
		errs = append(errs, errors.New("COOKIE_SECRET is required in production"))
	}

	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}

	switch strings.ToLower(c.Fallback) {
	case string(clipboard.FallbackText), string(clipboard.FallbackHTML):
	default:
		errs = append(errs, fmt.Errorf("CLIPBOARD_FALLBACK must be text or html, got %q", c.Fallback))
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidConfig}, errs...)...)
	}
	return nil
}

// IsProduction reports whether ENV is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}
