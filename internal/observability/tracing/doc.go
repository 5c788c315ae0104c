// Package tracing provides OpenTelemetry tracing integration.
//
// Middleware starts a server span per HTTP request and echoes the trace ID
// in the X-Trace-Id response header. GetTracer returns the tracer used for
// spans around upstream AniList calls. A real SDK tracer provider is
// installed by NewProvider; without it, spans are no-ops and trace IDs are
// all zeros.
package tracing
