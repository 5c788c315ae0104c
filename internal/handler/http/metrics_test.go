package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	io_prometheus_client "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestCount(t *testing.T, method, path, status string) float64 {
	t.Helper()
	metric := &io_prometheus_client.Metric{}
	require.NoError(t, httpRequestsTotal.WithLabelValues(method, path, status).Write(metric))
	return metric.GetCounter().GetValue()
}

func TestMetricsMiddleware_PathNormalization(t *testing.T) {
	handler := MetricsMiddleware(okHandler())

	before := requestCount(t, http.MethodGet, "/u/:username", "200")
	for _, user := range []string{"alice", "bob", "carol"} {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/u/"+user, nil))
	}

	assert.Equal(t, before+3, requestCount(t, http.MethodGet, "/u/:username", "200"))
}

func TestMetricsMiddleware_StatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		status int
		label  string
	}{
		{"ok", http.StatusOK, "200"},
		{"not found", http.StatusNotFound, "404"},
		{"unavailable", http.StatusServiceUnavailable, "503"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))

			before := requestCount(t, http.MethodGet, "/cal", tt.label)
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/cal?username=x", nil))

			assert.Equal(t, before+1, requestCount(t, http.MethodGet, "/cal", tt.label))
		})
	}
}

func TestMetricsMiddleware_InFlightReturnsToZero(t *testing.T) {
	var during float64
	handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metric := &io_prometheus_client.Metric{}
		_ = httpRequestsInFlight.Write(metric)
		during = metric.GetGauge().GetValue()
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	metric := &io_prometheus_client.Metric{}
	require.NoError(t, httpRequestsInFlight.Write(metric))
	assert.GreaterOrEqual(t, during, float64(1))
	assert.Equal(t, float64(0), metric.GetGauge().GetValue())
}

func TestMetricsHandler(t *testing.T) {
	MetricsMiddleware(okHandler()).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	rr := httptest.NewRecorder()
	MetricsHandler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), "http_requests_total"))
}
