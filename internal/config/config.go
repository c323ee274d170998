// Package config provides the serve command's configuration, loaded from
// environment variables.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is populated from environment variables with sensible defaults.
type Config struct {
	Host string
	Port int

	// DBPath empty means "use the CLI --db flag value".
	DBPath string

	// AuditLogPath receives one appended line per accepted upload; empty
	// disables the audit log.
	AuditLogPath string

	// MaxUploadBytes bounds accepted log size; the engine is one-shot over
	// the whole log, so latency is bounded by bounding input.
	MaxUploadBytes int64

	CORSAllowOrigins []string

	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		Host:           envOr("POKERMETRICS_HOST", "0.0.0.0"),
		Port:           envInt("POKERMETRICS_PORT", envInt("PORT", 8000)),
		DBPath:         envOr("POKERMETRICS_DB", ""),
		AuditLogPath:   envOr("POKERMETRICS_AUDIT_LOG", ""),
		MaxUploadBytes: envInt64("POKERMETRICS_MAX_UPLOAD_BYTES", 8<<20),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 60),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
