package favorites

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"waifu-calendar/internal/domain/entity"
	"waifu-calendar/internal/resilience/circuitbreaker"
)

// Upstream fetches the full favorite-character list of a user account.
type Upstream interface {
	FetchFavorites(ctx context.Context, username string) ([]entity.Character, error)
}

// Pacer is implemented by upstreams that throttle themselves. The cache
// calls Acquire before the breaker so a local throttle never reaches
// breaker accounting; the returned context is passed on to FetchFavorites.
// Acquire errors wrap ErrThrottled.
type Pacer interface {
	Acquire(ctx context.Context) (context.Context, error)
}

// Breaker guards upstream calls. *circuitbreaker.CircuitBreaker satisfies it.
type Breaker interface {
	Execute(fn func() (interface{}, error)) (interface{}, error)
}

// Freshness tags a result as current or as a fallback copy.
type Freshness int

const (
	Fresh Freshness = iota
	Stale
)

func (f Freshness) String() string {
	if f == Stale {
		return "stale"
	}
	return "fresh"
}

// Result is the answer to a favorites lookup.
type Result struct {
	Records   []entity.Character
	Freshness Freshness
	FetchedAt time.Time
}

// IsStale reports whether the records come from a failed refresh fallback.
func (r Result) IsStale() bool {
	return r.Freshness == Stale
}

type entry struct {
	records   []entity.Character
	fetchedAt time.Time
	state     Freshness
}

func (e *entry) result() Result {
	return Result{Records: e.records, Freshness: e.state, FetchedAt: e.fetchedAt}
}

// Cache is a TTL cache of favorites keyed by username, with per-user request
// coalescing and a shared circuit breaker in front of the upstream.
type Cache struct {
	upstream Upstream
	breaker  Breaker
	cfg      Config
	metrics  MetricsRecorder
	logger   *slog.Logger

	mu      sync.RWMutex
	entries map[string]*entry

	group singleflight.Group
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger for the cache.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics recorder for the cache.
func WithMetrics(m MetricsRecorder) Option {
	return func(c *Cache) {
		c.metrics = m
	}
}

// New creates a Cache. The breaker is shared by every username.
func New(upstream Upstream, breaker Breaker, cfg Config, opts ...Option) *Cache {
	c := &Cache{
		upstream: upstream,
		breaker:  breaker,
		cfg:      cfg,
		metrics:  NoopMetrics{},
		logger:   slog.Default(),
		entries:  make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// normalizeUsername maps usernames to cache keys. Upstream usernames are
// case-insensitive.
func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// GetFavorites returns the favorites of username as of now.
//
// A fresh entry is returned without touching the upstream or the breaker.
// Otherwise the call joins the in-flight refresh for the user, or starts one.
// If the refresh fails, or ctx expires first, the previous entry is returned
// tagged Stale; without a previous entry the error wraps ErrUpstreamUnavailable.
// ErrUserNotFound is returned as-is and never answered from the cache.
func (c *Cache) GetFavorites(ctx context.Context, username string, now time.Time) (Result, error) {
	key := normalizeUsername(username)
	if key == "" {
		return Result{}, ErrEmptyUsername
	}

	if res, ok := c.lookupFresh(key, now); ok {
		c.metrics.RecordLookup(OutcomeHit)
		return res, nil
	}

	ch := c.group.DoChan(key, func() (any, error) {
		return c.refresh(context.WithoutCancel(ctx), key, strings.TrimSpace(username), now)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return Result{}, res.Err
		}
		return res.Val.(Result), nil
	case <-ctx.Done():
		c.logger.Debug("favorites lookup abandoned while waiting for upstream",
			slog.String("username", key),
			slog.Any("error", ctx.Err()))
		return c.fallback(key, now, ctx.Err())
	}
}

// refresh runs one upstream fetch through the breaker. It is executed by the
// singleflight leader only.
func (c *Cache) refresh(ctx context.Context, key, username string, now time.Time) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.UpstreamTimeout)
	defer cancel()

	if p, ok := c.upstream.(Pacer); ok {
		paced, err := p.Acquire(ctx)
		if err != nil {
			c.metrics.RecordUpstream(UpstreamThrottled, 0)
			c.logger.Info("upstream call throttled before reaching the circuit breaker",
				slog.String("username", key),
				slog.Any("error", err))
			c.markStale(key)
			return c.fallback(key, now, err)
		}
		ctx = paced
	}

	start := time.Now()
	called := false
	val, err := c.breaker.Execute(func() (interface{}, error) {
		called = true
		return c.upstream.FetchFavorites(ctx, username)
	})
	duration := time.Since(start)

	switch {
	case err == nil:
		c.metrics.RecordUpstream(UpstreamSuccess, duration)
		records, _ := val.([]entity.Character)
		res := c.store(key, records, now)
		c.metrics.RecordLookup(OutcomeRefreshed)
		return res, nil

	case errors.Is(err, ErrUserNotFound):
		c.metrics.RecordUpstream(UpstreamNotFound, duration)
		c.metrics.RecordLookup(OutcomeNotFound)
		c.remove(key)
		return Result{}, err

	case errors.Is(err, ErrThrottled):
		c.metrics.RecordUpstream(UpstreamThrottled, duration)
		c.logger.Info("upstream call throttled",
			slog.String("username", key),
			slog.Any("error", err))

	case !called || circuitbreaker.IsRejected(err):
		c.metrics.RecordUpstream(UpstreamRejected, 0)
		c.logger.Debug("upstream call rejected by circuit breaker",
			slog.String("username", key),
			slog.Any("error", err))

	default:
		c.metrics.RecordUpstream(UpstreamFailure, duration)
		c.logger.Warn("upstream favorites fetch failed",
			slog.String("username", key),
			slog.Duration("duration", duration),
			slog.Any("error", err))
	}

	c.markStale(key)
	return c.fallback(key, now, err)
}

// fallback answers from the existing entry when the upstream could not.
func (c *Cache) fallback(key string, now time.Time, cause error) (Result, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	var res Result
	if ok {
		res = e.result()
	}
	c.mu.RUnlock()

	// Entries past retention are awaiting the janitor and no longer count.
	if ok && now.Sub(res.FetchedAt) > c.cfg.StaleRetention {
		ok = false
	}

	if !ok {
		c.metrics.RecordLookup(OutcomeUnavailable)
		return Result{}, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, cause)
	}

	// A concurrent refresh may have landed while this caller gave up waiting.
	if res.Freshness == Fresh && now.Sub(res.FetchedAt) < c.cfg.TTL {
		c.metrics.RecordLookup(OutcomeHit)
		return res, nil
	}

	res.Freshness = Stale
	c.metrics.RecordLookup(OutcomeStale)
	return res, nil
}

func (c *Cache) lookupFresh(key string, now time.Time) (Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || e.state != Fresh || now.Sub(e.fetchedAt) >= c.cfg.TTL {
		return Result{}, false
	}
	return e.result(), true
}

func (c *Cache) store(key string, records []entity.Character, now time.Time) Result {
	e := &entry{records: records, fetchedAt: now, state: Fresh}

	c.mu.Lock()
	c.entries[key] = e
	n := len(c.entries)
	c.mu.Unlock()

	c.metrics.SetEntries(n)
	return e.result()
}

// markStale replaces the entry with a copy tagged Stale. Entries handed out
// to readers are never mutated.
func (c *Cache) markStale(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok && e.state != Stale {
		c.entries[key] = &entry{records: e.records, fetchedAt: e.fetchedAt, state: Stale}
	}
}

func (c *Cache) remove(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	n := len(c.entries)
	c.mu.Unlock()

	c.metrics.SetEntries(n)
}

// EvictExpired removes entries fetched more than StaleRetention before now
// and returns how many were removed.
func (c *Cache) EvictExpired(now time.Time) int {
	c.mu.Lock()
	removed := 0
	for key, e := range c.entries {
		if now.Sub(e.fetchedAt) > c.cfg.StaleRetention {
			delete(c.entries, key)
			removed++
		}
	}
	n := len(c.entries)
	c.mu.Unlock()

	c.metrics.SetEntries(n)
	if removed > 0 {
		c.logger.Info("evicted expired favorites",
			slog.Int("removed", removed),
			slog.Int("remaining", n))
	}
	return removed
}

// Len returns the number of cached users.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
