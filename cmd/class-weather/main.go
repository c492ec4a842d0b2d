package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	httpapi "github.com/i474232898/class-weather/internal/api/http"
	"github.com/i474232898/class-weather/internal/catalog"
	"github.com/i474232898/class-weather/internal/config"
	"github.com/i474232898/class-weather/internal/nudge"
	"github.com/i474232898/class-weather/internal/observability"
	"github.com/i474232898/class-weather/internal/schedule"
	"github.com/i474232898/class-weather/internal/scheduler"
	"github.com/i474232898/class-weather/internal/store"
	"github.com/i474232898/class-weather/internal/weather"
	"github.com/i474232898/class-weather/internal/weather/providers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := observability.NewLogger(cfg.LogLevel, cfg.AppEnv)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()

	if !cfg.EnvFileLoaded {
		zlog.Info("no .env file found, using process environment")
	}

	metrics := observability.NewMetrics()

	// Shared HTTP client for outbound catalog and forecast calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	campus := cfg.Campus()
	if addr, err := cfg.CampusAddress(); err == nil {
		coords, err := providers.GeocodeCampus(cfg.GeocoderAPIKey, addr)
		if err != nil {
			zlog.Warn("campus geocoding failed, using configured coordinates", zap.Error(err))
		} else {
			campus = coords
		}
	}

	// Durable schedule cache in front of the course catalog.
	scheduleCache := store.NewScheduleStore(cfg.ScheduleCacheDir, metrics, zlog.Named("schedule-cache"))
	catalogClient := catalog.NewClient(httpClient, cfg.CatalogBaseURL, cfg.WeatherUserAgent, metrics, zlog.Named("catalog")).
		WithRateLimit(cfg.CatalogRateLimit, cfg.CatalogRateBurst)
	resolver := schedule.NewResolver(scheduleCache, catalogClient, nil, zlog.Named("resolver"),
		schedule.WithLocation(cfg.Location()), schedule.WithDayTable(cfg.Days()))

	// Providers in order of preference, each with backoff and a circuit breaker.
	provs := []weather.Provider{
		providers.NewNWSProvider(httpClient, cfg.WeatherBaseURL, cfg.WeatherUserAgent),
		providers.NewOpenMeteoProvider(httpClient, cfg.OpenMeteoBaseURL),
	}

	service := weather.NewService(resolver, provs, store.NewReportStore(cfg.ResponseCacheMaxAge), weather.Options{
		Campus:         campus,
		Location:       cfg.Location(),
		Days:           cfg.Days(),
		ForecastMaxAge: 2 * cfg.ForecastRefreshInterval,
		Nudger:         nudge.Rules{},
		Metrics:        metrics,
		Logger:         zlog.Named("weather"),
	})

	// Keeps the forecast snapshot warm between requests.
	sched := scheduler.New(service, cfg.ForecastRefreshInterval, zlog.Named("scheduler"))
	if err := sched.Start(); err != nil {
		zlog.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "class-weather",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          2 * cfg.HTTPTimeout,
		ErrorHandler:          httpapi.ErrorHandler,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
	})

	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "class-weather",
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpapi.RegisterRoutes(app, resolver, service)

	go func() {
		zlog.Info("listening", zap.String("port", cfg.Port), zap.String("campus", campus.Key()))
		if err := app.Listen(":" + cfg.Port); err != nil {
			zlog.Error("fiber server stopped", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		zlog.Error("error during shutdown", zap.Error(err))
	}
}
