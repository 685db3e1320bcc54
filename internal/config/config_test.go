package config

import (
	"strings"
	"testing"
	"time"
)

func lookupFrom(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestFromLookup_Defaults(t *testing.T) {
	c, err := FromLookup(lookupFrom(map[string]string{"SESSION_SECRET": "s"}))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.Addr != ":3000" || c.APIBaseURL != "http://localhost:8000" {
		t.Errorf("unexpected defaults %+v", c)
	}
	if c.TokenStore != StoreCookie || c.GuardMode != "live" {
		t.Errorf("unexpected store/guard %q/%q", c.TokenStore, c.GuardMode)
	}
	if c.APITimeout != 30*time.Second || c.SessionTTL != 168*time.Hour {
		t.Errorf("unexpected durations %v/%v", c.APITimeout, c.SessionTTL)
	}
	if c.UploadMaxBytes != 10<<20 {
		t.Errorf("unexpected upload limit %d", c.UploadMaxBytes)
	}
}

func TestFromLookup_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing secret", map[string]string{}, "SESSION_SECRET"},
		{"bad base url", map[string]string{"SESSION_SECRET": "s", "API_BASE_URL": "localhost:8000"}, "API_BASE_URL"},
		{"unknown store", map[string]string{"SESSION_SECRET": "s", "TOKEN_STORE": "file"}, "TOKEN_STORE"},
		{"postgres without url", map[string]string{"SESSION_SECRET": "s", "TOKEN_STORE": "postgres"}, "DATABASE_URL"},
		{"redis without url", map[string]string{"SESSION_SECRET": "s", "TOKEN_STORE": "redis"}, "REDIS_URL"},
		{"bad guard", map[string]string{"SESSION_SECRET": "s", "GUARD_MODE": "none"}, "GUARD_MODE"},
		{"bad timeout", map[string]string{"SESSION_SECRET": "s", "API_TIMEOUT": "soon"}, "API_TIMEOUT"},
		{"bad bool", map[string]string{"SESSION_SECRET": "s", "COOKIE_SECURE": "maybe"}, "COOKIE_SECURE"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromLookup(lookupFrom(tc.env))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %s, got %v", tc.want, err)
			}
		})
	}
}

func TestFromLookup_Backends(t *testing.T) {
	c, err := FromLookup(lookupFrom(map[string]string{
		"SESSION_SECRET": "s",
		"TOKEN_STORE":    "redis",
		"REDIS_URL":      "redis://localhost:6379/0",
		"COOKIE_SECURE":  "true",
	}))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.TokenStore != StoreRedis || !c.CookieSecure {
		t.Errorf("unexpected config %+v", c)
	}
}
