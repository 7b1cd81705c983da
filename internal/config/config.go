// Package config loads process configuration from the environment.
//
// Values come from the OS environment first, then a .env file in the working
// directory. Anything invalid fails startup.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Storage backends.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config is the whole process configuration.
type Config struct {
	Addr    string `envconfig:"ADDR" default:":8080"`
	WebDir  string `envconfig:"WEB_DIR" default:"web"`
	Storage string `envconfig:"STORAGE" default:"postgres" validate:"oneof=postgres memory"`
	// Required when Storage is postgres.
	DatabaseURL string `envconfig:"DATABASE_URL" validate:"required_if=Storage postgres"`
	// TrustForwardAuth honours the Remote-User header. Enable only behind an
	// auth proxy that strips it from client requests.
	TrustForwardAuth bool `envconfig:"TRUST_FORWARD_AUTH" default:"false"`

	Log     LogConfig
	Engine  EngineConfig
	Cache   CacheConfig
	OIDC    OIDCConfig
	Metrics MetricsConfig
}

// LogConfig controls logrus output.
type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=trace debug info warn error fatal"`
	FormatJSON bool   `envconfig:"LOG_FORMAT_JSON" default:"false"`
	File       string `envconfig:"LOG_FILE"`
	ToStdout   bool   `envconfig:"LOG_TO_STDOUT" default:"true"`
}

// EngineConfig tunes the projection engine.
type EngineConfig struct {
	// TimeZone is used for athletes who have not set their own.
	TimeZone   string  `envconfig:"TIMEZONE" default:"UTC" validate:"timezone"`
	EMADecay   float64 `envconfig:"EMA_DECAY" default:"0.88" validate:"gte=0.5,lte=0.99"`
	WindowDays int     `envconfig:"RATE_WINDOW_DAYS" default:"14" validate:"gte=1,lte=90"`
}

// CacheConfig sizes the insights cache. SizeMB 0 disables it.
type CacheConfig struct {
	SizeMB int           `envconfig:"INSIGHTS_CACHE_MB" default:"8" validate:"gte=0"`
	TTL    time.Duration `envconfig:"INSIGHTS_CACHE_TTL" default:"60s"`
}

// OIDCConfig enables SSO when every field is set.
type OIDCConfig struct {
	Issuer       string `envconfig:"OIDC_ISSUER" validate:"omitempty,url"`
	ClientID     string `envconfig:"OIDC_CLIENT_ID"`
	ClientSecret string `envconfig:"OIDC_CLIENT_SECRET"`
	RedirectURL  string `envconfig:"OIDC_REDIRECT_URL" validate:"omitempty,url"`
}

// Enabled reports whether SSO is fully configured.
func (o OIDCConfig) Enabled() bool {
	return o.Issuer != "" && o.ClientID != "" && o.ClientSecret != "" && o.RedirectURL != ""
}

// MetricsConfig toggles the /metrics endpoint.
type MetricsConfig struct {
	Enabled bool `envconfig:"METRICS_ENABLED" default:"true"`
}

// Location resolves the default athlete time zone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Engine.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ErrorKind says which loading step failed.
type ErrorKind string

const (
	ErrDotenv     ErrorKind = "DOTENV"
	ErrParsing    ErrorKind = "PARSING"
	ErrValidation ErrorKind = "VALIDATION"
)

// Error is returned by Load.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("config [%s]: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Load reads .env (if present) and the environment, then validates.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, &Error{Kind: ErrDotenv, Err: err}
	}
	return FromEnv()
}

// FromEnv is Load without the .env file.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, &Error{Kind: ErrParsing, Err: err}
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, &Error{Kind: ErrValidation, Err: err}
	}
	return &cfg, nil
}
