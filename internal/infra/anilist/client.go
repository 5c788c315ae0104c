// Package anilist implements the favorites upstream on top of the AniList
// GraphQL API.
package anilist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"waifu-calendar/internal/domain/entity"
	"waifu-calendar/internal/observability/tracing"
	"waifu-calendar/internal/usecase/favorites"
)

// maxResponseBytes bounds the size of a single page response.
const maxResponseBytes = 4 << 20

// Client fetches favorite characters from AniList.
// It performs no retries; resilience is handled by the caller.
type Client struct {
	cfg         Config
	httpClient  *http.Client
	rateLimiter *RateLimiter
	logger      *slog.Logger
}

var (
	_ favorites.Upstream = (*Client)(nil)
	_ favorites.Pacer    = (*Client)(nil)
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger for the client.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new AniList client.
func NewClient(cfg Config, opts ...Option) *Client {
	c := &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		rateLimiter: NewRateLimiter(cfg.RequestsPerMinute, cfg.Burst),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchFavorites returns every favorite character of username that has a
// known birthday, following pagination up to MaxPages.
//
// Returns:
//   - favorites.ErrUserNotFound: the account does not exist
//   - *TransportError: network failure, unexpected status or undecodable body
//   - favorites.ErrThrottled: the local rate limiter could not grant a request
//     before ctx expires; AniList was not contacted for that page
func (c *Client) FetchFavorites(ctx context.Context, username string) ([]entity.Character, error) {
	ctx, span := tracing.GetTracer().Start(ctx, "anilist.FetchFavorites",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("anilist.username", username)),
	)
	defer span.End()

	characters := make([]entity.Character, 0)
	pages := 0
	for page := 1; page <= c.cfg.MaxPages; page++ {
		conn, err := c.fetchPage(ctx, username, page)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		pages++

		characters = append(characters, c.convertNodes(conn.Nodes)...)

		if !*conn.PageInfo.HasNextPage {
			break
		}
		if page == c.cfg.MaxPages {
			c.logger.Warn("favorites truncated at page cap",
				slog.String("username", username),
				slog.Int("max_pages", c.cfg.MaxPages))
		}
	}

	span.SetAttributes(
		attribute.Int("anilist.pages", pages),
		attribute.Int("anilist.characters", len(characters)),
	)
	return characters, nil
}

// creditKey carries a request token already granted by Acquire.
type creditKey struct{}

type credit struct {
	spent atomic.Bool
}

// Acquire waits for one request token and returns a context that lets the
// next page request use it without waiting again.
func (c *Client) Acquire(ctx context.Context) (context.Context, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return ctx, fmt.Errorf("%w: anilist rate limit: %w", favorites.ErrThrottled, err)
	}
	return context.WithValue(ctx, creditKey{}, &credit{}), nil
}

func (c *Client) wait(ctx context.Context) error {
	if cr, ok := ctx.Value(creditKey{}).(*credit); ok && cr.spent.CompareAndSwap(false, true) {
		return nil
	}
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: anilist rate limit: %w", favorites.ErrThrottled, err)
	}
	return nil
}

// fetchPage requests a single favorites page and validates its shape.
func (c *Client) fetchPage(ctx context.Context, username string, page int) (*characterConnection, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(graphQLRequest{
		Query:     favoritesQuery,
		Variables: queryVariables{User: username, Page: page},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal favorites query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "request", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &TransportError{Op: "read body", StatusCode: resp.StatusCode, Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &TransportError{
			Op:         "request",
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        ErrRateLimited,
		}
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", favorites.ErrUserNotFound, username)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, &TransportError{
			Op:         "request",
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status: %s", truncate(string(body), 200)),
		}
	}

	var decoded graphQLResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, &TransportError{Op: "decode", StatusCode: resp.StatusCode, Err: err}
	}

	if decoded.Data == nil {
		return nil, &TransportError{Op: "decode", StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: missing data%s", ErrBadResponse, graphQLMessages(decoded.Errors))}
	}
	if decoded.Data.User == nil {
		return nil, fmt.Errorf("%w: %s", favorites.ErrUserNotFound, username)
	}
	if decoded.Data.User.Favourites == nil || decoded.Data.User.Favourites.Characters == nil {
		return nil, &TransportError{Op: "decode", StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: missing favourites", ErrBadResponse)}
	}

	conn := decoded.Data.User.Favourites.Characters
	if conn.PageInfo == nil || conn.PageInfo.HasNextPage == nil {
		return nil, &TransportError{Op: "decode", StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: missing pageInfo", ErrBadResponse)}
	}
	return conn, nil
}

// convertNodes turns page nodes into validated characters. Nodes without a
// full birthday are skipped; malformed records are logged and dropped.
func (c *Client) convertNodes(nodes []*characterNode) []entity.Character {
	out := make([]entity.Character, 0, len(nodes))
	for _, node := range nodes {
		if node == nil || node.DateOfBirth == nil || node.DateOfBirth.Month == nil || node.DateOfBirth.Day == nil {
			continue
		}

		name := ""
		if node.Name != nil {
			name = node.Name.Full
		}
		year := 0
		if node.DateOfBirth.Year != nil {
			year = *node.DateOfBirth.Year
		}

		character, err := entity.NewCharacter(
			strconv.Itoa(node.ID),
			name,
			node.SiteURL,
			*node.DateOfBirth.Month,
			*node.DateOfBirth.Day,
			year,
		)
		if err != nil {
			c.logger.Warn("dropping invalid character record",
				slog.Int("character_id", node.ID),
				slog.String("name", name),
				slog.Any("error", err))
			continue
		}
		out = append(out, character)
	}
	return out
}

func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func graphQLMessages(errs []graphQLError) string {
	if len(errs) == 0 {
		return ""
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Message)
	}
	return " (" + strings.Join(msgs, "; ") + ")"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
