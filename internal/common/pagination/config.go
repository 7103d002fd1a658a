// Package pagination holds the page/limit handling shared by the article
// listing, search and category feeds.
package pagination

import (
	"log/slog"
	"os"
	"strconv"
)

// Config holds pagination settings.
type Config struct {
	DefaultPage  int
	DefaultLimit int // a 3x4 card grid
	MaxLimit     int
}

func DefaultConfig() Config {
	return Config{
		DefaultPage:  1,
		DefaultLimit: 12,
		MaxLimit:     50,
	}
}

// LoadFromEnv reads PAGINATION_DEFAULT_LIMIT and PAGINATION_MAX_LIMIT.
// Unparseable or non-positive values fall back to the defaults with a warning,
// and a default above the maximum is lowered to it.
func LoadFromEnv() Config {
	def := DefaultConfig()
	cfg := Config{
		DefaultPage:  def.DefaultPage,
		DefaultLimit: positiveEnv("PAGINATION_DEFAULT_LIMIT", def.DefaultLimit),
		MaxLimit:     positiveEnv("PAGINATION_MAX_LIMIT", def.MaxLimit),
	}
	if cfg.DefaultLimit > cfg.MaxLimit {
		slog.Warn("PAGINATION_DEFAULT_LIMIT exceeds PAGINATION_MAX_LIMIT, lowering",
			slog.Int("default_limit", cfg.DefaultLimit),
			slog.Int("max_limit", cfg.MaxLimit))
		cfg.DefaultLimit = cfg.MaxLimit
	}
	return cfg
}

func positiveEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		slog.Warn("invalid pagination setting, using default",
			slog.String("key", key),
			slog.String("value", raw),
			slog.Int("default", fallback))
		return fallback
	}
	return v
}
