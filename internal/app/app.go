// Package app wires the configured components shared by the server and the CLI.
package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"waifu-calendar/internal/config"
	"waifu-calendar/internal/infra/anilist"
	"waifu-calendar/internal/resilience/circuitbreaker"
	calUC "waifu-calendar/internal/usecase/calendar"
	"waifu-calendar/internal/usecase/favorites"
)

// Components are the long-lived objects built from a Config.
type Components struct {
	Client   *anilist.Client
	Breaker  *circuitbreaker.CircuitBreaker
	Cache    *favorites.Cache
	Calendar *calUC.Service
}

// Build creates the AniList client, the upstream circuit breaker, the
// favorites cache and the calendar service. metrics may be nil.
func Build(cfg *config.Config, logger *slog.Logger, metrics favorites.MetricsRecorder) (*Components, error) {
	resolver, err := cfg.Resolver()
	if err != nil {
		return nil, fmt.Errorf("build resolver: %w", err)
	}

	client := anilist.NewClient(cfg.AniListConfig(), anilist.WithLogger(logger))
	breaker := circuitbreaker.New(cfg.BreakerConfig())

	opts := []favorites.Option{favorites.WithLogger(logger)}
	if metrics != nil {
		opts = append(opts, favorites.WithMetrics(metrics))
	}
	cache := favorites.New(client, breaker, cfg.FavoritesConfig(), opts...)

	return &Components{
		Client:  client,
		Breaker: breaker,
		Cache:   cache,
		Calendar: &calUC.Service{
			Favorites:   cache,
			Resolver:    resolver,
			HorizonDays: cfg.Report.HorizonDays,
		},
	}, nil
}

// ScheduleJanitor adds the cache eviction job to the scheduler.
func (c *Components) ScheduleJanitor(scheduler *cron.Cron, schedule string, logger *slog.Logger) error {
	_, err := scheduler.AddFunc(schedule, func() {
		evicted := c.Cache.EvictExpired(time.Now())
		logger.Debug("cache janitor run",
			slog.Int("evicted", evicted),
			slog.Int("entries", c.Cache.Len()))
	})
	if err != nil {
		return fmt.Errorf("schedule cache janitor: %w", err)
	}
	return nil
}
