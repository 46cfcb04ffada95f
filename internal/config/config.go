package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// UnmarshalText parses the "<requests>/<interval>" notation, e.g. "30/min".
func (r *RateLimitConfig) UnmarshalText(text []byte) error {
	parsed, err := parseRateLimit(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

type AppConfig struct {
	Name      string `env:"APP_NAME" envDefault:"Leads Manager API"`
	Version   string `env:"APP_VERSION" envDefault:"0.1.0"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPConfig struct {
	Port            string          `env:"PORT" envDefault:"8000"`
	CORSOrigins     []string        `env:"CORS_ORIGINS" envDefault:"http://localhost:5173,http://localhost:3000" envSeparator:","`
	RateLimitEnrich RateLimitConfig `env:"RATE_LIMIT_ENRICH" envDefault:"30/min"`
}

// StorageConfig selects the persistence backends. Empty URLs disable the backend.
type StorageConfig struct {
	DatabaseURL string        `env:"DATABASE_URL"`
	RedisURL    string        `env:"REDIS_URL"`
	CacheTTL    time.Duration `env:"CACHE_TTL" envDefault:"10m"`
}

type EnrichmentConfig struct {
	PhoneRegion string `env:"PHONE_REGION" envDefault:"US"`
}

// ClientConfig holds settings for the terminal client.
type ClientConfig struct {
	APIURL     string        `env:"LEADS_API_URL" envDefault:"http://localhost:8000"`
	BannerTTL  time.Duration `env:"BANNER_TTL" envDefault:"3s"`
	RequestIDs bool          `env:"REQUEST_IDS" envDefault:"true"`
}

// Config aggregates application-wide configuration values.
type Config struct {
	App        AppConfig
	HTTP       HTTPConfig
	Storage    StorageConfig
	Enrichment EnrichmentConfig
	Client     ClientConfig
}

// Load reads configuration from environment variables and applies defaults.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	cfg.HTTP.CORSOrigins = compact(cfg.HTTP.CORSOrigins)
	cfg.Client.APIURL = strings.TrimRight(strings.TrimSpace(cfg.Client.APIURL), "/")
	if cfg.Client.APIURL == "" {
		return nil, fmt.Errorf("LEADS_API_URL must not be blank")
	}

	return &cfg, nil
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
