// Package config carries the process-level settings and the client plan
// loader. Settings come from WPGO_* environment variables with defaults that
// work out of the box; plans are YAML files validated on load.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wpgo/wealth-planner/internal/cache"
	"github.com/wpgo/wealth-planner/internal/calculation"
)

// Defaults for the process settings not owned by the calculation package.
const (
	DefaultDBPath   = "wealth-planner.db"
	DefaultLogLevel = "info"
)

// Settings is the process-level configuration.
type Settings struct {
	DBPath      string
	LogLevel    string
	AnnualRate  decimal.Decimal
	HorizonYear int
	CacheTTL    time.Duration
}

// FromEnv builds Settings from the environment. Unset, malformed, or
// out-of-range variables fall back to their defaults rather than failing
// startup.
func FromEnv() Settings {
	return Settings{
		DBPath:      stringFromEnv("WPGO_DB_PATH", DefaultDBPath),
		LogLevel:    stringFromEnv("WPGO_LOG_LEVEL", DefaultLogLevel),
		AnnualRate:  rateFromEnv("WPGO_ANNUAL_RATE", calculation.DefaultAnnualRate()),
		HorizonYear: yearFromEnv("WPGO_HORIZON_YEAR", calculation.DefaultHorizonEndYear),
		CacheTTL:    durationFromEnv("WPGO_CACHE_TTL", cache.DefaultTTL),
	}
}

func stringFromEnv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func intFromEnv(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func decimalFromEnv(key string, def decimal.Decimal) decimal.Decimal {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return def
	}
	return d
}

// rateFromEnv reads an annual growth rate. Rates are fractions, so anything
// outside [0, 1] falls back to the default.
func rateFromEnv(key string, def decimal.Decimal) decimal.Decimal {
	d := decimalFromEnv(key, def)
	if d.IsNegative() || d.GreaterThan(decimal.NewFromInt(1)) {
		return def
	}
	return d
}

// yearFromEnv reads a horizon year, rejecting values outside a plausible
// planning window.
func yearFromEnv(key string, def int) int {
	n := intFromEnv(key, def)
	if n < 1900 || n > 3000 {
		return def
	}
	return n
}

func durationFromEnv(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
