// Package config loads the waifu-calendar application configuration.
//
// Values are resolved in three layers: built-in defaults, an optional YAML
// file, then environment variables. Malformed environment values log a
// warning and keep the previous layer's value; the merged result is then
// validated as a whole.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"waifu-calendar/internal/infra/anilist"
	pkgvalidate "waifu-calendar/internal/pkg/config"
	"waifu-calendar/internal/resilience/circuitbreaker"
	"waifu-calendar/internal/usecase/birthday"
	"waifu-calendar/internal/usecase/favorites"
	pkgconfig "waifu-calendar/pkg/config"
)

// Config is the complete application configuration.
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Cache   CacheConfig   `yaml:"cache"`
	Breaker BreakerConfig `yaml:"breaker"`
	AniList AniListConfig `yaml:"anilist"`
	Report  ReportConfig  `yaml:"report"`
	Server  ServerConfig  `yaml:"server"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// Format is json or text.
	Format string `yaml:"format"`
}

// CacheConfig controls the favorites cache.
type CacheConfig struct {
	TTL             time.Duration `yaml:"ttl"`
	StaleRetention  time.Duration `yaml:"stale_retention"`
	UpstreamTimeout time.Duration `yaml:"upstream_timeout"`
	// JanitorSchedule is a cron expression for evicting expired entries.
	JanitorSchedule string `yaml:"janitor_schedule"`
}

// BreakerConfig controls the upstream circuit breaker.
type BreakerConfig struct {
	FailureThreshold int           `yaml:"failure_threshold"`
	Cooldown         time.Duration `yaml:"cooldown"`
	Window           time.Duration `yaml:"window"`
}

// AniListConfig controls the upstream client.
type AniListConfig struct {
	Endpoint          string `yaml:"endpoint"`
	RequestsPerMinute int    `yaml:"requests_per_minute"`
	Burst             int    `yaml:"burst"`
	MaxPages          int    `yaml:"max_pages"`
}

// ReportConfig controls birthday resolution.
type ReportConfig struct {
	HorizonDays   int    `yaml:"horizon_days"`
	Timezone      string `yaml:"timezone"`
	LeapDayPolicy string `yaml:"leap_day_policy"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Addr              string        `yaml:"addr"`
	RateLimitRequests int           `yaml:"rate_limit_requests"`
	RateLimitWindow   time.Duration `yaml:"rate_limit_window"`
	RequestTimeout    time.Duration `yaml:"request_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
}

// Fallback records an environment value that failed validation and was
// replaced by the previous layer's value.
type Fallback struct {
	Field   string
	Warning string
}

// Default returns the built-in configuration.
func Default() Config {
	fav := favorites.DefaultConfig()
	cb := circuitbreaker.UpstreamConfig("anilist")
	al := anilist.DefaultConfig()

	return Config{
		Log: LogConfig{Level: "info", Format: "json"},
		Cache: CacheConfig{
			TTL:             fav.TTL,
			StaleRetention:  fav.StaleRetention,
			UpstreamTimeout: fav.UpstreamTimeout,
			JanitorSchedule: "@every 15m",
		},
		Breaker: BreakerConfig{
			FailureThreshold: int(cb.FailureThreshold),
			Cooldown:         cb.Timeout,
			Window:           cb.Interval,
		},
		AniList: AniListConfig{
			Endpoint:          al.Endpoint,
			RequestsPerMinute: al.RequestsPerMinute,
			Burst:             al.Burst,
			MaxPages:          al.MaxPages,
		},
		Report: ReportConfig{
			HorizonDays:   birthday.DefaultHorizonDays,
			Timezone:      "UTC",
			LeapDayPolicy: birthday.LeapDayFeb28.String(),
		},
		Server: ServerConfig{
			Addr:              ":8080",
			RateLimitRequests: 30,
			RateLimitWindow:   time.Minute,
			RequestTimeout:    30 * time.Second,
			ShutdownTimeout:   10 * time.Second,
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path (if
// path is non-empty) and the environment, then validates it.
// The returned fallbacks list environment values that were rejected.
func Load(path string) (*Config, []Fallback, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, nil, err
		}
	}

	fallbacks := cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fallbacks, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, fallbacks, nil
}

func (c *Config) loadFile(path string) error {
	// #nosec G304 -- path comes from CONFIG_FILE or the --config flag
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() []Fallback {
	var fallbacks []Fallback
	withFallback := func(field, key string, dst *string, validate func(string) error) {
		result := pkgvalidate.LoadEnvWithFallback(key, *dst, validate)
		*dst = result.Value
		for _, w := range result.Warnings {
			fallbacks = append(fallbacks, Fallback{Field: field, Warning: w})
		}
	}

	c.Log.Level = pkgconfig.GetEnvString("LOG_LEVEL", c.Log.Level)
	c.Log.Format = pkgconfig.GetEnvString("LOG_FORMAT", c.Log.Format)

	c.Cache.TTL = pkgconfig.GetEnvDuration("CACHE_TTL", c.Cache.TTL)
	c.Cache.StaleRetention = pkgconfig.GetEnvDuration("STALE_RETENTION", c.Cache.StaleRetention)
	c.Cache.UpstreamTimeout = pkgconfig.GetEnvDuration("UPSTREAM_TIMEOUT", c.Cache.UpstreamTimeout)
	withFallback("janitor_schedule", "JANITOR_SCHEDULE", &c.Cache.JanitorSchedule, pkgvalidate.ValidateCronSchedule)

	c.Breaker.FailureThreshold = pkgconfig.GetEnvInt("BREAKER_FAILURE_THRESHOLD", c.Breaker.FailureThreshold)
	c.Breaker.Cooldown = pkgconfig.GetEnvDuration("BREAKER_COOLDOWN", c.Breaker.Cooldown)
	c.Breaker.Window = pkgconfig.GetEnvDuration("BREAKER_WINDOW", c.Breaker.Window)

	c.AniList.Endpoint = pkgconfig.GetEnvString("ANILIST_ENDPOINT", c.AniList.Endpoint)
	c.AniList.RequestsPerMinute = pkgconfig.GetEnvInt("ANILIST_RATE_PER_MINUTE", c.AniList.RequestsPerMinute)
	c.AniList.Burst = pkgconfig.GetEnvInt("ANILIST_BURST", c.AniList.Burst)
	c.AniList.MaxPages = pkgconfig.GetEnvInt("ANILIST_MAX_PAGES", c.AniList.MaxPages)

	c.Report.HorizonDays = pkgconfig.GetEnvInt("REPORT_HORIZON_DAYS", c.Report.HorizonDays)
	withFallback("report_timezone", "REPORT_TIMEZONE", &c.Report.Timezone, pkgvalidate.ValidateTimezone)
	withFallback("leap_day_policy", "LEAP_DAY_POLICY", &c.Report.LeapDayPolicy, func(s string) error {
		_, err := birthday.ParseLeapDayPolicy(s)
		return err
	})

	c.Server.Addr = pkgconfig.GetEnvString("SERVER_ADDR", c.Server.Addr)
	c.Server.RateLimitRequests = pkgconfig.GetEnvInt("RATE_LIMIT_REQUESTS", c.Server.RateLimitRequests)
	c.Server.RateLimitWindow = pkgconfig.GetEnvDuration("RATE_LIMIT_WINDOW", c.Server.RateLimitWindow)
	c.Server.RequestTimeout = pkgconfig.GetEnvDuration("REQUEST_TIMEOUT", c.Server.RequestTimeout)

	return fallbacks
}

// Validate checks the configuration and returns every problem found.
func (c Config) Validate() error {
	var errs []error
	add := func(field string, err error) {
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", field, err))
		}
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		add("log.level", fmt.Errorf("unknown level %q", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		add("log.format", fmt.Errorf("must be json or text, got %q", c.Log.Format))
	}

	add("cache", c.FavoritesConfig().Validate())
	add("cache.janitor_schedule", pkgvalidate.ValidateCronSchedule(c.Cache.JanitorSchedule))

	add("breaker.failure_threshold", pkgvalidate.ValidateIntRange(c.Breaker.FailureThreshold, 1, 1000))
	add("breaker.cooldown", pkgconfig.ValidateDurationRange(c.Breaker.Cooldown, time.Second, time.Hour))
	add("breaker.window", pkgconfig.ValidatePositiveDuration(c.Breaker.Window))

	add("anilist", c.AniListConfig().Validate())

	add("report.horizon_days", pkgvalidate.ValidateIntRange(c.Report.HorizonDays, 0, 366))
	add("report.timezone", pkgvalidate.ValidateTimezone(c.Report.Timezone))
	if _, err := birthday.ParseLeapDayPolicy(c.Report.LeapDayPolicy); err != nil {
		add("report.leap_day_policy", err)
	}

	if strings.TrimSpace(c.Server.Addr) == "" {
		add("server.addr", errors.New("cannot be empty"))
	}
	add("server.rate_limit_requests", pkgvalidate.ValidateIntRange(c.Server.RateLimitRequests, 1, 100000))
	add("server.rate_limit_window", pkgconfig.ValidatePositiveDuration(c.Server.RateLimitWindow))
	add("server.request_timeout", pkgconfig.ValidateDurationRange(c.Server.RequestTimeout, time.Second, 5*time.Minute))
	add("server.shutdown_timeout", pkgconfig.ValidatePositiveDuration(c.Server.ShutdownTimeout))

	return errors.Join(errs...)
}

// FavoritesConfig returns the cache settings.
func (c Config) FavoritesConfig() favorites.Config {
	return favorites.Config{
		TTL:             c.Cache.TTL,
		StaleRetention:  c.Cache.StaleRetention,
		UpstreamTimeout: c.Cache.UpstreamTimeout,
	}
}

// AniListConfig returns the upstream client settings. A single page request
// is bounded by the upstream timeout.
func (c Config) AniListConfig() anilist.Config {
	cfg := anilist.DefaultConfig()
	cfg.Endpoint = c.AniList.Endpoint
	cfg.RequestsPerMinute = c.AniList.RequestsPerMinute
	cfg.Burst = c.AniList.Burst
	cfg.MaxPages = c.AniList.MaxPages
	cfg.RequestTimeout = c.Cache.UpstreamTimeout
	return cfg
}

// BreakerConfig returns the upstream circuit breaker settings. Only
// failures the favorites package classifies as upstream faults count.
func (c Config) BreakerConfig() circuitbreaker.Config {
	cfg := circuitbreaker.UpstreamConfig("anilist")
	cfg.FailureThreshold = uint32(c.Breaker.FailureThreshold) // #nosec G115 -- validated to [1, 1000]
	cfg.Timeout = c.Breaker.Cooldown
	cfg.Interval = c.Breaker.Window
	cfg.IsFailure = favorites.IsBreakerFailure
	return cfg
}

// Resolver returns the birthday resolver for the configured timezone and
// leap-day policy.
func (c Config) Resolver() (birthday.Resolver, error) {
	policy, err := birthday.ParseLeapDayPolicy(c.Report.LeapDayPolicy)
	if err != nil {
		return birthday.Resolver{}, err
	}
	loc, err := time.LoadLocation(c.Report.Timezone)
	if err != nil {
		return birthday.Resolver{}, fmt.Errorf("load timezone %q: %w", c.Report.Timezone, err)
	}
	return birthday.NewResolver(policy, loc), nil
}
