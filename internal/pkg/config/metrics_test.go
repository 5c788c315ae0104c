package config

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	io_prometheus_client "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	m := &io_prometheus_client.Metric{}
	require.NoError(t, g.Write(m))
	return m.GetGauge().GetValue()
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	m := &io_prometheus_client.Metric{}
	require.NoError(t, c.Write(m))
	return m.GetCounter().GetValue()
}

func TestConfigMetrics_RecordLoad(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewConfigMetrics("test_component", reg)

	m.RecordLoad([]string{"janitor_schedule", "report_timezone"})

	assert.Greater(t, gaugeValue(t, m.LoadTimestamp), float64(0))
	assert.Equal(t, float64(1), gaugeValue(t, m.FallbackActive))
	assert.Equal(t, float64(1), counterValue(t, m.FallbacksTotal.WithLabelValues("janitor_schedule")))

	m.RecordLoad(nil)
	assert.Equal(t, float64(0), gaugeValue(t, m.FallbackActive))
	assert.Equal(t, float64(1), counterValue(t, m.FallbacksTotal.WithLabelValues("janitor_schedule")))
}

func TestConfigMetrics_Names(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewConfigMetrics("waifu_calendar", reg)
	m.RecordLoad([]string{"report_timezone"})

	families, err := reg.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["waifu_calendar_config_load_timestamp"])
	assert.True(t, names["waifu_calendar_config_fallbacks_total"])
	assert.True(t, names["waifu_calendar_config_fallback_active"])
}

func TestConfigMetrics_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewConfigMetrics("dup", reg)

	assert.Panics(t, func() { NewConfigMetrics("dup", reg) })
}
