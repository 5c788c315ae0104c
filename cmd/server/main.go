package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"waifu-calendar/internal/app"
	"waifu-calendar/internal/config"
	hhttp "waifu-calendar/internal/handler/http"
	hcal "waifu-calendar/internal/handler/http/calendar"
	"waifu-calendar/internal/handler/http/requestid"
	"waifu-calendar/internal/observability/logging"
	"waifu-calendar/internal/observability/tracing"
	cfgpkg "waifu-calendar/internal/pkg/config"
	"waifu-calendar/internal/usecase/favorites"
)

func main() {
	cfg := loadConfig()
	logger := initLogger(cfg)

	version := getVersion()
	shutdownTracing := tracing.NewProvider("waifu-calendar", version)

	components, err := app.Build(cfg, logger, favorites.NewPrometheusMetrics())
	if err != nil {
		logger.Error("failed to build components", slog.Any("error", err))
		os.Exit(1)
	}

	scheduler := cron.New()
	if err := components.ScheduleJanitor(scheduler, cfg.Cache.JanitorSchedule, logger); err != nil {
		logger.Error("failed to schedule cache janitor", slog.Any("error", err))
		os.Exit(1)
	}
	scheduler.Start()

	handler := setupServer(cfg, logger, components, version)
	runServer(logger, cfg, handler, version)

	<-scheduler.Stop().Done()
	if err := shutdownTracing(context.Background()); err != nil {
		logger.Error("tracer shutdown failed", slog.Any("error", err))
	}
}

// loadConfig reads CONFIG_FILE (optional) and the environment.
// Configuration errors are fatal.
func loadConfig() *config.Config {
	cfg, fallbacks, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := cfgpkg.NewConfigMetrics("waifu_calendar", nil)
	fields := make([]string, 0, len(fallbacks))
	for _, f := range fallbacks {
		fields = append(fields, f.Field)
		slog.Warn("configuration fallback applied",
			slog.String("field", f.Field),
			slog.String("detail", f.Warning))
	}
	metrics.RecordLoad(fields)

	return cfg
}

// initLogger initializes the default structured logger from configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	logger := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	slog.SetDefault(logger)
	return logger
}

// getVersion returns the application version from environment or default.
func getVersion() string {
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	return version
}

// setupServer registers every route and wraps the mux in the middleware chain.
func setupServer(cfg *config.Config, logger *slog.Logger, c *app.Components, version string) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /health", &hhttp.HealthHandler{Breaker: c.Breaker, Cache: c.Cache, Version: version})
	mux.Handle("GET /live", &hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())

	limiter := hhttp.NewRateLimiter(cfg.Server.RateLimitRequests, cfg.Server.RateLimitWindow)
	hcal.Register(mux, hcal.Handler{Svc: c.Calendar}, limiter.Limit)

	return applyMiddleware(logger, cfg.Server.RequestTimeout, mux)
}

// applyMiddleware wraps the handler with the middleware chain.
// Order (outermost first): Request ID → Tracing → Logging → Recovery → Timeout → Metrics
func applyMiddleware(logger *slog.Logger, timeout time.Duration, handler http.Handler) http.Handler {
	chain := handler
	chain = hhttp.MetricsMiddleware(chain)
	chain = hhttp.Timeout(timeout)(chain)
	chain = hhttp.Recover(logger)(chain)
	chain = hhttp.Logging(logger)(chain)
	chain = tracing.Middleware(chain)
	chain = requestid.Middleware(chain)
	return chain
}

// runServer starts the HTTP server and blocks until SIGINT or SIGTERM,
// then shuts it down gracefully.
func runServer(logger *slog.Logger, cfg *config.Config, handler http.Handler, version string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		// Report requests may wait for a slow upstream.
		WriteTimeout: cfg.Cache.UpstreamTimeout + 10*time.Second,
		IdleTimeout:  2 * time.Minute,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", cfg.Server.Addr),
			slog.String("version", version),
			slog.Duration("cache_ttl", cfg.Cache.TTL),
			slog.Duration("stale_retention", cfg.Cache.StaleRetention),
			slog.Int("horizon_days", cfg.Report.HorizonDays))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
