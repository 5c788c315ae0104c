package favorites

import (
	"errors"
	"fmt"
	"time"

	pkgconfig "waifu-calendar/pkg/config"
)

// Config controls cache freshness and upstream bounds.
type Config struct {
	// TTL is how long an entry is served without contacting the upstream.
	// Default: 1 hour
	TTL time.Duration

	// StaleRetention is how long an entry stays usable as a stale fallback,
	// measured from its fetch time. Must be >= TTL.
	// Default: 24 hours
	StaleRetention time.Duration

	// UpstreamTimeout bounds a single upstream fetch.
	// Default: 10 seconds
	UpstreamTimeout time.Duration
}

// DefaultConfig returns the default cache configuration.
func DefaultConfig() Config {
	return Config{
		TTL:             time.Hour,
		StaleRetention:  24 * time.Hour,
		UpstreamTimeout: 10 * time.Second,
	}
}

// Validate checks the configuration and returns every problem found.
func (c Config) Validate() error {
	var errs []error

	if err := pkgconfig.ValidatePositiveDuration(c.TTL); err != nil {
		errs = append(errs, fmt.Errorf("ttl: %w", err))
	}
	if err := pkgconfig.ValidatePositiveDuration(c.UpstreamTimeout); err != nil {
		errs = append(errs, fmt.Errorf("upstream_timeout: %w", err))
	}
	if c.StaleRetention < c.TTL {
		errs = append(errs, fmt.Errorf("stale_retention: %v must be >= ttl %v", c.StaleRetention, c.TTL))
	}

	return errors.Join(errs...)
}
