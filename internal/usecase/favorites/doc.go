// Package favorites provides the resilient fetch layer for a user's favorite
// characters.
//
// Cache sits between request handlers and the unreliable upstream. It keeps
// the last good answer per user in memory, coalesces concurrent refreshes of
// the same user into one upstream call, and routes every upstream call through
// a shared circuit breaker. When the upstream cannot answer, the last good
// answer is served flagged as stale; when there is none, the caller gets
// ErrUpstreamUnavailable.
package favorites
