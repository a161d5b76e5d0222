package bootstrap

import (
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig()

	if cfg.ServerAddr != ":8080" {
		t.Errorf("expected :8080, got %s", cfg.ServerAddr)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected info, got %s", cfg.LogLevel)
	}
	if cfg.FigmaBaseURL != "https://api.figma.com" {
		t.Errorf("unexpected figma base url %s", cfg.FigmaBaseURL)
	}
	if cfg.FigmaMinInterval != 3*time.Second {
		t.Errorf("expected 3s min interval, got %s", cfg.FigmaMinInterval)
	}
	if cfg.FigmaCacheTTL != 15*time.Minute {
		t.Errorf("expected 15m cache TTL, got %s", cfg.FigmaCacheTTL)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("unexpected redis addr %s", cfg.RedisAddr)
	}
	if cfg.BrowserEnabled {
		t.Error("browser should be disabled by default")
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":9090")
	t.Setenv("FIGMA_MIN_INTERVAL", "500ms")
	t.Setenv("CAPTURE_TTL", "2m")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("BROWSER_ENABLED", "true")

	cfg := LoadConfig()

	if cfg.ServerAddr != ":9090" {
		t.Errorf("expected :9090, got %s", cfg.ServerAddr)
	}
	if cfg.FigmaMinInterval != 500*time.Millisecond {
		t.Errorf("expected 500ms, got %s", cfg.FigmaMinInterval)
	}
	if cfg.CaptureTTL != 2*time.Minute {
		t.Errorf("expected 2m, got %s", cfg.CaptureTTL)
	}
	if cfg.RedisDB != 3 {
		t.Errorf("expected db 3, got %d", cfg.RedisDB)
	}
	if !cfg.BrowserEnabled {
		t.Error("browser should be enabled")
	}
}

func TestLoadConfig_BadValuesFallBack(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("FIGMA_TIMEOUT", "soon")

	cfg := LoadConfig()

	if cfg.RedisDB != 0 {
		t.Errorf("expected fallback db 0, got %d", cfg.RedisDB)
	}
	if cfg.FigmaTimeout != 30*time.Second {
		t.Errorf("expected fallback 30s, got %s", cfg.FigmaTimeout)
	}
}
