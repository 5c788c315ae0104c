package tracing

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// TracerName identifies spans emitted by this service.
const TracerName = "waifu-calendar"

// GetTracer returns the global tracer for creating spans.
// The tracer is resolved through the global provider on every call, so a
// provider installed in main after package init is honored.
//
// Example usage:
//
//	ctx, span := tracing.GetTracer().Start(ctx, "anilist.FetchFavorites")
//	defer span.End()
func GetTracer() trace.Tracer {
	return otel.Tracer(TracerName)
}
