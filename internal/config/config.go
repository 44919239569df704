package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultDSN     = "host=localhost user=postgres password=postgres dbname=guvenlik port=5432 sslmode=disable"
	defaultOrigins = "http://localhost:5173"
	DefaultTCMBURL = "https://www.tcmb.gov.tr/kurlar/today.xml"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	JWTSecret   string
	CORSOrigins string

	// Kur çekme (TCMB)
	TCMBURL           string
	RateFetchInterval time.Duration
	RateFetchTimeout  time.Duration

	// Tekrarlayan işlemler
	RecurringInterval time.Duration

	DefaultLocale string
	LogLevel      string
}

func Load() *Config {
	return &Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		DatabaseDSN: getEnv("DATABASE_DSN", defaultDSN),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		CORSOrigins: getEnv("CORS_ALLOWED_ORIGINS", defaultOrigins),

		TCMBURL:           getEnv("TCMB_URL", DefaultTCMBURL),
		RateFetchInterval: getEnvDuration("RATE_FETCH_INTERVAL", 6*time.Hour),
		RateFetchTimeout:  getEnvDuration("RATE_FETCH_TIMEOUT", 15*time.Second),

		RecurringInterval: getEnvDuration("RECURRING_INTERVAL", time.Hour),

		DefaultLocale: strings.ToLower(getEnv("DEFAULT_LOCALE", "tr")),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}
}

// Validate collects every configuration problem into a single error.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.HTTPPort); err != nil {
		problems = append(problems, fmt.Sprintf("invalid HTTP_PORT '%s': must be a number", c.HTTPPort))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid HTTP_PORT %d: must be between 1 and 65535", port))
	}

	if c.DatabaseDSN == "" {
		problems = append(problems, "DATABASE_DSN cannot be empty")
	}

	if c.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET is required")
	} else if len(c.JWTSecret) < 32 {
		problems = append(problems, "JWT_SECRET must be at least 32 characters")
	}

	if u, err := url.Parse(c.TCMBURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		problems = append(problems, fmt.Sprintf("invalid TCMB_URL '%s': must be an http(s) URL", c.TCMBURL))
	}

	if c.RateFetchInterval < time.Minute || c.RateFetchInterval > 24*time.Hour {
		problems = append(problems, fmt.Sprintf("invalid RATE_FETCH_INTERVAL %v: must be between 1m and 24h", c.RateFetchInterval))
	}
	if c.RateFetchTimeout < time.Second || c.RateFetchTimeout > 2*time.Minute {
		problems = append(problems, fmt.Sprintf("invalid RATE_FETCH_TIMEOUT %v: must be between 1s and 2m", c.RateFetchTimeout))
	}
	if c.RecurringInterval < time.Minute || c.RecurringInterval > 24*time.Hour {
		problems = append(problems, fmt.Sprintf("invalid RECURRING_INTERVAL %v: must be between 1m and 24h", c.RecurringInterval))
	}

	if c.DefaultLocale != "tr" && c.DefaultLocale != "en" {
		problems = append(problems, fmt.Sprintf("invalid DEFAULT_LOCALE '%s': must be 'tr' or 'en'", c.DefaultLocale))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// WarnDefaults production için güvensiz varsayılanları loglar.
func (c *Config) WarnDefaults(logger *slog.Logger) {
	if c.DatabaseDSN == defaultDSN {
		logger.Warn("DATABASE_DSN varsayılan değer kullanılıyor, production için kendi Postgres bağlantı bilgini tanımla.")
	}
	if c.CORSOrigins == defaultOrigins {
		logger.Warn("CORS_ALLOWED_ORIGINS varsayılan değer kullanılıyor, production için kendi domain'ini tanımla.")
	}
}

// AllowedOrigins virgülle ayrılmış listeyi temizler.
func (c *Config) AllowedOrigins() string {
	parts := strings.Split(c.CORSOrigins, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ",")
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
