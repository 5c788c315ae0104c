package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvWithFallback(t *testing.T) {
	tests := []struct {
		name         string
		value        string
		validator    func(string) error
		want         string
		wantFallback bool
	}{
		{"unset uses default", "", ValidateCronSchedule, "@every 15m", false},
		{"valid value", "@every 5m", ValidateCronSchedule, "@every 5m", false},
		{"invalid falls back", "whenever", ValidateCronSchedule, "@every 15m", true},
		{"no validator", "whenever", nil, "whenever", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JANITOR_SCHEDULE", tt.value)

			result := LoadEnvWithFallback("JANITOR_SCHEDULE", "@every 15m", tt.validator)

			assert.Equal(t, tt.want, result.Value)
			assert.Equal(t, tt.wantFallback, result.FallbackApplied)
			if tt.wantFallback {
				require.Len(t, result.Warnings, 1)
				assert.Contains(t, result.Warnings[0], "Invalid JANITOR_SCHEDULE='whenever'")
				assert.Contains(t, result.Warnings[0], "falling back to default '@every 15m'")
			} else {
				assert.Empty(t, result.Warnings)
			}
		})
	}
}

func TestLoadEnvWithFallback_Timezone(t *testing.T) {
	t.Setenv("REPORT_TIMEZONE", "Mars/Olympus")

	result := LoadEnvWithFallback("REPORT_TIMEZONE", "UTC", ValidateTimezone)

	assert.Equal(t, "UTC", result.Value)
	assert.True(t, result.FallbackApplied)
}
