package bootstrap

import (
	"context"
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/overlaykit/pixelproof/internal/capture"
	"github.com/overlaykit/pixelproof/internal/compare"
	"github.com/overlaykit/pixelproof/internal/figma"
	"github.com/overlaykit/pixelproof/internal/imaging"
)

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func ProvideLogger(cfg *Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
}

func ProvideFigmaClient(cfg *Config, logger *slog.Logger) *figma.Client {
	return figma.NewClient(figma.Config{
		BaseURL:     cfg.FigmaBaseURL,
		Timeout:     cfg.FigmaTimeout,
		MinInterval: cfg.FigmaMinInterval,
		CacheTTL:    cfg.FigmaCacheTTL,
	}, logger)
}

func ProvideFetcher(cfg *Config) *imaging.Fetcher {
	return imaging.NewFetcher(cfg.FetchTimeout)
}

func ProvideCaptureStore(cfg *Config, redisClient *redis.Client) *capture.Store {
	return capture.NewStore(redisClient, cfg.CaptureTTL)
}

func ProvideBrowser(lc fx.Lifecycle, cfg *Config, logger *slog.Logger) *capture.Browser {
	if !cfg.BrowserEnabled {
		return nil
	}
	browser := capture.NewBrowser(capture.BrowserConfig{
		RemoteURL: cfg.BrowserRemoteURL,
		Logger:    logger,
	})
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return browser.Close()
		},
	})
	return browser
}

func ProvideCompareService(figmaClient *figma.Client, fetcher *imaging.Fetcher, store *capture.Store, logger *slog.Logger) *compare.Service {
	return compare.NewService(figmaClient, fetcher, store, logger)
}

func ProvideCompareHandler(service *compare.Service, logger *slog.Logger) *compare.Handler {
	return compare.NewHandler(service, logger.With("handler", "compare"))
}

func ProvideCaptureHandler(store *capture.Store, browser *capture.Browser, logger *slog.Logger) *capture.Handler {
	return capture.NewHandler(store, browser, logger.With("handler", "capture"))
}

type HandlerParams struct {
	fx.In

	CompareHandler *compare.Handler
	CaptureHandler *capture.Handler
}

func RegisterRoutes(e *echo.Echo, params HandlerParams) {
	api := e.Group("/v1")
	params.CompareHandler.RegisterRoutes(api)
	params.CaptureHandler.RegisterRoutes(api)
}

var HandlersModule = fx.Options(
	fx.Provide(
		ProvideLogger,
		ProvideFigmaClient,
		ProvideFetcher,
		ProvideCaptureStore,
		ProvideBrowser,
		ProvideCompareService,
		ProvideCompareHandler,
		ProvideCaptureHandler,
	),
	fx.Invoke(RegisterRoutes),
)
