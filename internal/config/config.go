// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Token store backends.
const (
	StoreCookie   = "cookie"
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// Config holds all configuration for the web client.
type Config struct {
	Addr           string
	APIBaseURL     string
	SessionSecret  string
	TokenStore     string
	DatabaseURL    string
	RedisURL       string
	GuardMode      string
	JWKSURL        string
	CookieSecure   bool
	SessionTTL     time.Duration
	APITimeout     time.Duration
	UploadMaxBytes int64
}

// Load reads a .env file when present, then the environment, and validates
// the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from lookup, which has the shape of
// os.LookupEnv.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	env := func(key, fallback string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
		return fallback
	}

	c := &Config{
		Addr:          env("ADDR", ":3000"),
		APIBaseURL:    env("API_BASE_URL", "http://localhost:8000"),
		SessionSecret: env("SESSION_SECRET", ""),
		TokenStore:    env("TOKEN_STORE", StoreCookie),
		DatabaseURL:   env("DATABASE_URL", ""),
		RedisURL:      env("REDIS_URL", ""),
		GuardMode:     env("GUARD_MODE", "live"),
		JWKSURL:       env("JWKS_URL", ""),
	}

	var err error
	if c.CookieSecure, err = strconv.ParseBool(env("COOKIE_SECURE", "false")); err != nil {
		return nil, fmt.Errorf("COOKIE_SECURE: %w", err)
	}
	if c.SessionTTL, err = time.ParseDuration(env("SESSION_TTL", "168h")); err != nil {
		return nil, fmt.Errorf("SESSION_TTL: %w", err)
	}
	if c.APITimeout, err = time.ParseDuration(env("API_TIMEOUT", "30s")); err != nil {
		return nil, fmt.Errorf("API_TIMEOUT: %w", err)
	}
	if c.UploadMaxBytes, err = strconv.ParseInt(env("UPLOAD_MAX_BYTES", "10485760"), 10, 64); err != nil {
		return nil, fmt.Errorf("UPLOAD_MAX_BYTES: %w", err)
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) validate() error {
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET environment variable is required")
	}
	if u, err := url.Parse(c.APIBaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute http(s) URL, got %q", c.APIBaseURL)
	}
	switch c.TokenStore {
	case StoreCookie, StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when TOKEN_STORE=postgres")
		}
	case StoreRedis:
		if c.RedisURL == "" {
			return errors.New("REDIS_URL is required when TOKEN_STORE=redis")
		}
	default:
		return fmt.Errorf("unknown TOKEN_STORE %q", c.TokenStore)
	}
	if c.GuardMode != "live" && c.GuardMode != "local" {
		return fmt.Errorf("unknown GUARD_MODE %q", c.GuardMode)
	}
	if c.SessionTTL <= 0 || c.APITimeout <= 0 || c.UploadMaxBytes <= 0 {
		return errors.New("SESSION_TTL, API_TIMEOUT and UPLOAD_MAX_BYTES must be positive")
	}
	return nil
}
