package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix scopes every environment variable consumed by Load.
	EnvPrefix = "localmart"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App        AppConfig
	API        APIConfig
	Auth       AuthConfig
	GoogleMaps GoogleMapsConfig
	Tracking   TrackingConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.API.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"LOCALMART_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"LOCALMART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LOCALMART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type APIConfig struct {
	BaseURL        string        `envconfig:"LOCALMART_API_BASE_URL" required:"true"`
	RequestTimeout time.Duration `envconfig:"LOCALMART_API_REQUEST_TIMEOUT" default:"15s"`
	UserAgent      string        `envconfig:"LOCALMART_API_USER_AGENT" default:"localmart-client/1.0"`
}

func (a APIConfig) validate() error {
	parsed, err := url.Parse(strings.TrimSpace(a.BaseURL))
	if err != nil {
		return fmt.Errorf("invalid api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("api base url must be http(s), got %q", a.BaseURL)
	}
	if a.RequestTimeout <= 0 {
		return fmt.Errorf("api request timeout must be positive")
	}
	return nil
}

type AuthConfig struct {
	// RefreshLeeway is how far before token expiry a refresh should be
	// attempted.
	RefreshLeeway time.Duration `envconfig:"LOCALMART_AUTH_REFRESH_LEEWAY" default:"2m"`
}

type GoogleMapsConfig struct {
	APIKey string `envconfig:"LOCALMART_GOOGLE_MAPS_API_KEY"`
}

type TrackingConfig struct {
	PollInterval time.Duration `envconfig:"LOCALMART_TRACKING_POLL_INTERVAL" default:"10s"`
}
