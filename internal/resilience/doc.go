// Package resilience holds the fault tolerance patterns used around the
// upstream favorites service.
//
// The circuitbreaker subpackage wraps github.com/sony/gobreaker with
// consecutive-failure tripping, a pluggable failure classifier and a
// Prometheus state gauge. One breaker guards the whole upstream, not a
// single user account.
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.UpstreamConfig("anilist"))
//	result, err := cb.Execute(func() (interface{}, error) {
//	    return client.FetchFavorites(ctx, username)
//	})
//	if circuitbreaker.IsRejected(err) {
//	    // upstream was not contacted
//	}
package resilience
