package anilist

import (
	"errors"
	"fmt"
	"time"
)

// ErrRateLimited is returned when AniList answers 429 Too Many Requests.
var ErrRateLimited = errors.New("anilist rate limit exceeded")

// ErrBadResponse is returned when the response body is missing required fields.
var ErrBadResponse = errors.New("anilist bad response")

// TransportError describes a failed exchange with the AniList API: a network
// error, an unexpected HTTP status or an undecodable body. It is recoverable
// and counts against the circuit breaker.
type TransportError struct {
	Op         string
	StatusCode int           // 0 when no response was received
	RetryAfter time.Duration // set for 429 when the server sent Retry-After
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("anilist %s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("anilist %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
