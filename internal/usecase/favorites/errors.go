package favorites

import "errors"

var (
	// ErrUpstreamUnavailable is returned when the upstream could not be
	// reached and no cached data exists for the user.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrUserNotFound is returned by the upstream for unknown user accounts.
	// It does not count against the circuit breaker and is never answered
	// from the cache.
	ErrUserNotFound = errors.New("user not found")

	// ErrThrottled is returned when the upstream client's own rate limiter
	// refused the call. It says nothing about upstream health and does not
	// count against the circuit breaker.
	ErrThrottled = errors.New("upstream call throttled")

	// ErrEmptyUsername is returned when the username is blank.
	ErrEmptyUsername = errors.New("username is required")
)

// IsBreakerFailure classifies upstream errors for the circuit breaker.
// An unknown user is a valid answer from a healthy upstream, and a local
// throttle is not an answer at all.
func IsBreakerFailure(err error) bool {
	return err != nil && !errors.Is(err, ErrUserNotFound) && !errors.Is(err, ErrThrottled)
}
