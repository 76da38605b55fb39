package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOUSEHUNT_API_URL", "")
	t.Setenv("HOUSEHUNT_ENV", "")
	t.Setenv("HOUSEHUNT_LOG_LEVEL", "")
	t.Setenv("HOUSEHUNT_HTTP_TIMEOUT", "")
	t.Setenv("HOUSEHUNT_GEOCODE_INTERVAL", "")

	cfg := Load()

	if cfg.APIBaseURL != "http://127.0.0.1:5000" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %q", cfg.Env)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v", cfg.LogLevel)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("HTTPTimeout = %v", cfg.HTTPTimeout)
	}
	if cfg.GeocodeInterval != time.Second {
		t.Errorf("GeocodeInterval = %v", cfg.GeocodeInterval)
	}
	if cfg.StoragePath == "" {
		t.Error("StoragePath should have a default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HOUSEHUNT_API_URL", "https://example.netlify.app/.netlify/functions/")
	t.Setenv("HOUSEHUNT_LOG_LEVEL", "debug")
	t.Setenv("HOUSEHUNT_GEOCODE_INTERVAL", "250ms")
	t.Setenv("HOUSEHUNT_HTTP_TIMEOUT", "nonsense")
	t.Setenv("HOUSEHUNT_ENV", "development")

	cfg := Load()

	if cfg.APIBaseURL != "https://example.netlify.app/.netlify/functions" {
		t.Errorf("APIBaseURL = %q, trailing slash should be trimmed", cfg.APIBaseURL)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want debug", cfg.LogLevel)
	}
	if cfg.GeocodeInterval != 250*time.Millisecond {
		t.Errorf("GeocodeInterval = %v", cfg.GeocodeInterval)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("HTTPTimeout = %v, invalid value should fall back", cfg.HTTPTimeout)
	}
}

func TestLoadProductionClampsGeocodeInterval(t *testing.T) {
	t.Setenv("HOUSEHUNT_ENV", "production")
	t.Setenv("HOUSEHUNT_GEOCODE_INTERVAL", "100ms")

	cfg := Load()

	if cfg.GeocodeInterval != time.Second {
		t.Errorf("GeocodeInterval = %v, want 1s in production", cfg.GeocodeInterval)
	}
}
