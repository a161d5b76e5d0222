package bootstrap

import (
	"os"
	"strconv"
	"time"

	"github.com/overlaykit/pixelproof/internal/capture"
	"github.com/overlaykit/pixelproof/internal/figma"
)

type Config struct {
	ServerAddr string
	LogLevel   string

	FigmaBaseURL     string
	FigmaTimeout     time.Duration
	FigmaMinInterval time.Duration
	FigmaCacheTTL    time.Duration

	FetchTimeout time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CaptureTTL time.Duration

	BrowserEnabled   bool
	BrowserRemoteURL string
}

func LoadConfig() *Config {
	return &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8080"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		FigmaBaseURL:     getEnv("FIGMA_BASE_URL", figma.DefaultBaseURL),
		FigmaTimeout:     getEnvDuration("FIGMA_TIMEOUT", 30*time.Second),
		FigmaMinInterval: getEnvDuration("FIGMA_MIN_INTERVAL", figma.DefaultMinInterval),
		FigmaCacheTTL:    getEnvDuration("FIGMA_CACHE_TTL", figma.DefaultCacheTTL),

		FetchTimeout: getEnvDuration("FETCH_TIMEOUT", 30*time.Second),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		CaptureTTL: getEnvDuration("CAPTURE_TTL", capture.DefaultFrameTTL),

		BrowserEnabled:   getEnv("BROWSER_ENABLED", "false") == "true",
		BrowserRemoteURL: getEnv("BROWSER_REMOTE_URL", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
