package anilist

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	pkgconfig "waifu-calendar/pkg/config"
)

// DefaultEndpoint is the public AniList GraphQL endpoint.
const DefaultEndpoint = "https://graphql.anilist.co"

// DefaultUserAgent identifies this client to AniList.
const DefaultUserAgent = "WaifuCalendar"

// Config contains configuration for the AniList client.
type Config struct {
	// Endpoint is the GraphQL endpoint URL.
	Endpoint string

	// UserAgent is sent with every request.
	UserAgent string

	// RequestTimeout bounds a single page request.
	RequestTimeout time.Duration

	// RequestsPerMinute paces outbound requests. AniList allows 90/min.
	RequestsPerMinute int

	// Burst is the number of requests allowed back to back.
	Burst int

	// MaxPages caps favorites pagination for a single fetch.
	MaxPages int
}

// DefaultConfig returns the default AniList client configuration.
func DefaultConfig() Config {
	return Config{
		Endpoint:          DefaultEndpoint,
		UserAgent:         DefaultUserAgent,
		RequestTimeout:    10 * time.Second,
		RequestsPerMinute: 60,
		Burst:             5,
		MaxPages:          20,
	}
}

// Validate checks the configuration and returns every problem found.
func (c Config) Validate() error {
	var errs []error

	if u, err := url.Parse(c.Endpoint); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("endpoint: invalid URL %q", c.Endpoint))
	}
	if err := pkgconfig.ValidatePositiveDuration(c.RequestTimeout); err != nil {
		errs = append(errs, fmt.Errorf("request_timeout: %w", err))
	}
	if c.RequestsPerMinute <= 0 {
		errs = append(errs, fmt.Errorf("requests_per_minute: must be positive, got %d", c.RequestsPerMinute))
	}
	if c.Burst <= 0 {
		errs = append(errs, fmt.Errorf("burst: must be positive, got %d", c.Burst))
	}
	if c.MaxPages <= 0 {
		errs = append(errs, fmt.Errorf("max_pages: must be positive, got %d", c.MaxPages))
	}

	return errors.Join(errs...)
}
