package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DefaultAPIURL is the Career Compass API base used when no override is set.
	DefaultAPIURL = "http://localhost:5001/api"

	// DefaultHTTPTimeout bounds every API call so a hung request cannot
	// hang the flow indefinitely.
	DefaultHTTPTimeout = 30 * time.Second
)

// Config holds client-side settings. Everything is read from the
// environment, with an optional .env file loaded first.
type Config struct {
	// APIURL is the base URL of the Career Compass REST API.
	APIURL string

	// HTTPTimeout is the per-request timeout for API calls.
	HTTPTimeout time.Duration

	// DBPath overrides the local cache database location when non-empty.
	DBPath string
}

// Load reads configuration from a .env file (if present) and the
// environment. Missing values fall back to defaults; Load never fails.
func Load() *Config {
	// A missing .env file is the normal case for installed binaries.
	_ = godotenv.Load()

	cfg := &Config{
		APIURL:      DefaultAPIURL,
		HTTPTimeout: DefaultHTTPTimeout,
	}

	if v := os.Getenv("COMPASS_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("COMPASS_HTTP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.HTTPTimeout = d
		}
	}
	if v := os.Getenv("COMPASS_DB"); v != "" {
		cfg.DBPath = v
	}

	return cfg
}
