// Package observability groups the service's logging and tracing helpers.
//
// Subpackages:
//   - logging: slog logger construction and context propagation
//   - tracing: OpenTelemetry provider setup, HTTP middleware and the service tracer
//
// Prometheus metrics live next to the code they measure (the HTTP handler
// package, the favorites cache and the circuit breaker) and are registered
// with promauto on the default registry.
package observability
