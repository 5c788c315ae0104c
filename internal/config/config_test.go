package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waifu-calendar/internal/usecase/birthday"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, 24*time.Hour, cfg.Cache.StaleRetention)
	assert.Equal(t, 10*time.Second, cfg.Cache.UpstreamTimeout)
	assert.Equal(t, "@every 15m", cfg.Cache.JanitorSchedule)
	assert.Equal(t, 5, cfg.Breaker.FailureThreshold)
	assert.Equal(t, 60*time.Second, cfg.Breaker.Cooldown)
	assert.Equal(t, 2*time.Minute, cfg.Breaker.Window)
	assert.Equal(t, "https://graphql.anilist.co", cfg.AniList.Endpoint)
	assert.Equal(t, 60, cfg.AniList.RequestsPerMinute)
	assert.Equal(t, 5, cfg.AniList.Burst)
	assert.Equal(t, 20, cfg.AniList.MaxPages)
	assert.Equal(t, 30, cfg.Report.HorizonDays)
	assert.Equal(t, "UTC", cfg.Report.Timezone)
	assert.Equal(t, "feb28", cfg.Report.LeapDayPolicy)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
}

func TestLoad_NoFile(t *testing.T) {
	cfg, fallbacks, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, fallbacks)
	assert.Equal(t, Default(), *cfg)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := writeConfig(t, `
log:
  format: text
cache:
  ttl: 30m
  stale_retention: 12h
breaker:
  failure_threshold: 3
  cooldown: 45s
report:
  horizon_days: 14
  timezone: Asia/Tokyo
  leap_day_policy: mar1
server:
  addr: "127.0.0.1:9000"
`)

	cfg, _, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 30*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 12*time.Hour, cfg.Cache.StaleRetention)
	assert.Equal(t, 3, cfg.Breaker.FailureThreshold)
	assert.Equal(t, 45*time.Second, cfg.Breaker.Cooldown)
	assert.Equal(t, 14, cfg.Report.HorizonDays)
	assert.Equal(t, "Asia/Tokyo", cfg.Report.Timezone)
	assert.Equal(t, "mar1", cfg.Report.LeapDayPolicy)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	// untouched sections keep defaults
	assert.Equal(t, 20, cfg.AniList.MaxPages)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "cache:\n  ttl: 30m\n")
	t.Setenv("CACHE_TTL", "2h")
	t.Setenv("STALE_RETENTION", "48h")
	t.Setenv("ANILIST_MAX_PAGES", "3")
	t.Setenv("REPORT_TIMEZONE", "America/New_York")
	t.Setenv("JANITOR_SCHEDULE", "@every 5m")

	cfg, fallbacks, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, fallbacks)

	assert.Equal(t, 2*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, 48*time.Hour, cfg.Cache.StaleRetention)
	assert.Equal(t, 3, cfg.AniList.MaxPages)
	assert.Equal(t, "America/New_York", cfg.Report.Timezone)
	assert.Equal(t, "@every 5m", cfg.Cache.JanitorSchedule)
}

func TestLoad_MalformedEnvKeepsPreviousValue(t *testing.T) {
	t.Setenv("CACHE_TTL", "soon")
	t.Setenv("ANILIST_BURST", "lots")

	cfg, _, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, 5, cfg.AniList.Burst)
}

func TestLoad_ValidatedEnvFallbacks(t *testing.T) {
	path := writeConfig(t, "report:\n  timezone: Europe/Paris\n")
	t.Setenv("REPORT_TIMEZONE", "Mars/Olympus")
	t.Setenv("JANITOR_SCHEDULE", "whenever")
	t.Setenv("LEAP_DAY_POLICY", "skip")

	cfg, fallbacks, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Europe/Paris", cfg.Report.Timezone)
	assert.Equal(t, "@every 15m", cfg.Cache.JanitorSchedule)
	assert.Equal(t, "feb28", cfg.Report.LeapDayPolicy)

	fields := make([]string, 0, len(fallbacks))
	for _, f := range fallbacks {
		fields = append(fields, f.Field)
		assert.NotEmpty(t, f.Warning)
	}
	assert.ElementsMatch(t, []string{"janitor_schedule", "report_timezone", "leap_day_policy"}, fields)
}

func TestLoad_FileErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, _, err := Load(writeConfig(t, "cache: [unclosed"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config")
	})

	t.Run("unknown field", func(t *testing.T) {
		_, _, err := Load(writeConfig(t, "cache:\n  tll: 1h\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "tll")
	})

	t.Run("invalid duration", func(t *testing.T) {
		_, _, err := Load(writeConfig(t, "cache:\n  ttl: forever\n"))
		require.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr []string
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name:    "retention shorter than ttl",
			mutate:  func(c *Config) { c.Cache.StaleRetention = time.Minute },
			wantErr: []string{"cache"},
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: []string{"log.format"},
		},
		{
			name:    "zero failure threshold",
			mutate:  func(c *Config) { c.Breaker.FailureThreshold = 0 },
			wantErr: []string{"breaker.failure_threshold"},
		},
		{
			name:    "cooldown too short",
			mutate:  func(c *Config) { c.Breaker.Cooldown = time.Millisecond },
			wantErr: []string{"breaker.cooldown"},
		},
		{
			name:    "bad endpoint",
			mutate:  func(c *Config) { c.AniList.Endpoint = "not a url" },
			wantErr: []string{"anilist"},
		},
		{
			name:    "horizon out of range",
			mutate:  func(c *Config) { c.Report.HorizonDays = 400 },
			wantErr: []string{"report.horizon_days"},
		},
		{
			name:    "request timeout too long",
			mutate:  func(c *Config) { c.Server.RequestTimeout = time.Hour },
			wantErr: []string{"server.request_timeout"},
		},
		{
			name: "multiple problems are all reported",
			mutate: func(c *Config) {
				c.Report.Timezone = "Nowhere/City"
				c.Report.LeapDayPolicy = "skip"
				c.Server.Addr = " "
				c.Cache.JanitorSchedule = "sometimes"
			},
			wantErr: []string{"report.timezone", "report.leap_day_policy", "server.addr", "cache.janitor_schedule"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, want := range tt.wantErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestLoad_InvalidMergedConfig(t *testing.T) {
	t.Setenv("REPORT_HORIZON_DAYS", "-1")

	_, _, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "report.horizon_days")
}

func TestConversions(t *testing.T) {
	cfg := Default()
	cfg.Cache.UpstreamTimeout = 7 * time.Second
	cfg.Breaker.FailureThreshold = 4
	cfg.Breaker.Cooldown = 30 * time.Second
	cfg.Report.Timezone = "Asia/Tokyo"
	cfg.Report.LeapDayPolicy = "mar1"

	fav := cfg.FavoritesConfig()
	assert.Equal(t, 7*time.Second, fav.UpstreamTimeout)

	al := cfg.AniListConfig()
	assert.Equal(t, 7*time.Second, al.RequestTimeout)
	assert.Equal(t, "WaifuCalendar", al.UserAgent)

	cb := cfg.BreakerConfig()
	assert.Equal(t, uint32(4), cb.FailureThreshold)
	assert.Equal(t, 30*time.Second, cb.Timeout)
	assert.Equal(t, uint32(1), cb.MaxRequests)
	require.NotNil(t, cb.IsFailure)

	resolver, err := cfg.Resolver()
	require.NoError(t, err)
	assert.Equal(t, birthday.LeapDayMar1, resolver.LeapDay)
	assert.Equal(t, "Asia/Tokyo", resolver.Location.String())
}
