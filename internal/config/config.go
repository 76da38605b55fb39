package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Map defaults. The view is centered on London.
const (
	DefaultCenterLat = 51.5074
	DefaultCenterLon = -0.1278
	DefaultZoom      = 10
	MaxZoom          = 19
	FitPadding       = 50

	MapWidth         = 800
	MapHeight        = 600
	FullScreenWidth  = 1600
	FullScreenHeight = 900
)

type Config struct {
	APIBaseURL      string
	StoragePath     string
	Env             string
	LogLevel        slog.Level
	HTTPTimeout     time.Duration
	GeocodeInterval time.Duration
}

func Load() Config {
	cfg := Config{
		APIBaseURL:      strings.TrimRight(getEnv("HOUSEHUNT_API_URL", "http://127.0.0.1:5000"), "/"),
		StoragePath:     getEnv("HOUSEHUNT_STORAGE", defaultStoragePath()),
		Env:             getEnv("HOUSEHUNT_ENV", "development"),
		LogLevel:        parseLevel(getEnv("HOUSEHUNT_LOG_LEVEL", "info")),
		HTTPTimeout:     getDuration("HOUSEHUNT_HTTP_TIMEOUT", 30*time.Second),
		GeocodeInterval: getDuration("HOUSEHUNT_GEOCODE_INTERVAL", time.Second),
	}

	// Nominatim's usage policy allows at most one request per second.
	if cfg.Env == "production" && cfg.GeocodeInterval < time.Second {
		slog.Warn("geocode interval below one second in production, clamping", "interval", cfg.GeocodeInterval)
		cfg.GeocodeInterval = time.Second
	}

	return cfg
}

func defaultStoragePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "househunt.db"
	}
	return filepath.Join(home, ".househunt", "storage.db")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		slog.Warn("invalid duration, using default", "key", key, "value", v)
		return fallback
	}
	return d
}

func parseLevel(v string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(v)); err != nil {
		return slog.LevelInfo
	}
	return level
}
