package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variables recognized by the service.
const (
	EnvAddr       = "CLIENTDESK_ADDR"
	EnvPGDSN      = "CLIENTDESK_PG_DSN"
	EnvAuthSecret = "CLIENTDESK_AUTH_SECRET"
	EnvTokenTTL   = "CLIENTDESK_TOKEN_TTL"
	EnvRateBurst  = "CLIENTDESK_RATE_BURST"
	EnvRatePerSec = "CLIENTDESK_RATE_PER_SEC"
)

const (
	defaultAddr       = ":8080"
	defaultTokenTTL   = time.Hour
	defaultRateBurst  = 20
	defaultRatePerSec = 10
)

// Config holds the process configuration, loaded once at startup.
type Config struct {
	Addr       string
	PGDSN      string
	AuthSecret string
	TokenTTL   time.Duration
	RateBurst  int
	RatePerSec int
}

// Load reads configuration from the environment. A missing signing secret
// or database DSN is a startup error: both are required for the service to
// do anything useful.
func Load() (Config, error) {
	cfg := Config{
		Addr:       defaultAddr,
		TokenTTL:   defaultTokenTTL,
		RateBurst:  defaultRateBurst,
		RatePerSec: defaultRatePerSec,
	}

	if v := strings.TrimSpace(os.Getenv(EnvAddr)); v != "" {
		cfg.Addr = v
	}

	cfg.PGDSN = strings.TrimSpace(os.Getenv(EnvPGDSN))
	if cfg.PGDSN == "" {
		return Config{}, errors.New(EnvPGDSN + " is required")
	}

	cfg.AuthSecret = strings.TrimSpace(os.Getenv(EnvAuthSecret))
	if cfg.AuthSecret == "" {
		return Config{}, errors.New(EnvAuthSecret + " is required")
	}

	if v := strings.TrimSpace(os.Getenv(EnvTokenTTL)); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil || ttl <= 0 {
			return Config{}, fmt.Errorf("%s must be a positive duration, got %q", EnvTokenTTL, v)
		}
		cfg.TokenTTL = ttl
	}

	var err error
	if cfg.RateBurst, err = intEnv(EnvRateBurst, defaultRateBurst); err != nil {
		return Config{}, err
	}
	if cfg.RatePerSec, err = intEnv(EnvRatePerSec, defaultRatePerSec); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func intEnv(name string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, v)
	}
	return n, nil
}
