// Package http provides the HTTP middleware, health endpoints and metrics
// of the birthday calendar server. Report handlers live in the calendar
// subpackage.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"waifu-calendar/internal/handler/http/respond"
)

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string                 `json:"status"`    // "healthy" or "degraded"
	Timestamp string                 `json:"timestamp"` // ISO 8601 format
	Checks    map[string]CheckStatus `json:"checks"`    // Status of each check item
	Version   string                 `json:"version"`   // Application version
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string         `json:"status"`            // "healthy" or "degraded"
	Message string         `json:"message,omitempty"` // Optional status message
	Details map[string]any `json:"details,omitempty"` // Optional additional details
}

// BreakerStatus exposes the upstream circuit breaker state.
type BreakerStatus interface {
	Name() string
	State() gobreaker.State
}

// CacheStats exposes the favorites cache size.
type CacheStats interface {
	Len() int
}

// HealthHandler reports upstream circuit and cache status.
//
// An open or half-open circuit makes the service "degraded", not
// unhealthy: cached data is still served, so the endpoint keeps answering
// 200 OK and orchestrators do not restart a process whose only problem is
// the upstream.
type HealthHandler struct {
	Breaker BreakerStatus
	Cache   CacheStats
	Version string
	Now     func() time.Time
}

// ServeHTTP performs health checks and returns the application health status.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}

	checks := make(map[string]CheckStatus)
	status := "healthy"

	if h.Breaker != nil {
		check := h.checkUpstream()
		checks["upstream"] = check
		if check.Status != "healthy" {
			status = "degraded"
		}
	}

	if h.Cache != nil {
		checks["cache"] = CheckStatus{
			Status:  "healthy",
			Details: map[string]any{"entries": h.Cache.Len()},
		}
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, http.StatusOK, HealthResponse{
		Status:    status,
		Timestamp: now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	})
}

// checkUpstream maps the circuit state to a check status.
func (h *HealthHandler) checkUpstream() CheckStatus {
	state := h.Breaker.State()
	details := map[string]any{
		"circuit": h.Breaker.Name(),
		"state":   state.String(),
	}

	switch state {
	case gobreaker.StateOpen:
		return CheckStatus{Status: "degraded", Message: "upstream circuit open; serving cached data", Details: details}
	case gobreaker.StateHalfOpen:
		return CheckStatus{Status: "degraded", Message: "upstream circuit probing", Details: details}
	default:
		return CheckStatus{Status: "healthy", Details: details}
	}
}

// LiveHandler handles Kubernetes liveness probe requests.
// It performs a lightweight check to verify the application is responsive.
type LiveHandler struct{}

// ServeHTTP performs a simple liveness check and always returns 200 OK
// if the application is running and able to respond.
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("alive")); err != nil {
		slog.Default().Warn("alive: failed to write response", slog.Any("error", err))
	}
}
