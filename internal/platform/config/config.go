package config

import (
	"os"
	"strconv"
	"time"
)

// Config captures everything main needs to wire the server. Values come from
// the environment with development-friendly defaults; empty DatabaseURL or
// RedisURL selects the in-memory store for that concern.
type Config struct {
	Addr         string
	DatabaseURL  string
	RedisURL     string
	SessionTTL   time.Duration
	CookieSecure bool
	ScryptN      int
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	cfg := Config{
		Addr:         envOr("BIBLIO_ADDR", ":8080"),
		DatabaseURL:  os.Getenv("BIBLIO_DATABASE_URL"),
		RedisURL:     os.Getenv("BIBLIO_REDIS_URL"),
		SessionTTL:   time.Hour,
		CookieSecure: os.Getenv("BIBLIO_COOKIE_SECURE") == "true",
		ScryptN:      1 << 15,
	}
	if v := os.Getenv("BIBLIO_SESSION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.SessionTTL = d
		}
	}
	if v := os.Getenv("BIBLIO_SCRYPT_N"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 1 {
			cfg.ScryptN = n
		}
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
