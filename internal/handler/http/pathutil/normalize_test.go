package pathutil

import (
	"testing"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{
			name:     "user page",
			path:     "/u/alice",
			expected: "/u/:username",
		},
		{
			name:     "user page with trailing slash",
			path:     "/u/alice/",
			expected: "/u/:username",
		},
		{
			name:     "user calendar",
			path:     "/u/Some_User/birthdays.ics",
			expected: "/u/:username/birthdays.ics",
		},
		{
			name:     "user calendar with query params",
			path:     "/u/alice/birthdays.ics?x=1",
			expected: "/u/:username/birthdays.ics",
		},
		{
			name:     "index",
			path:     "/",
			expected: "/",
		},
		{
			name:     "calendar with query params",
			path:     "/cal?username=alice",
			expected: "/cal",
		},
		{
			name:     "ics",
			path:     "/ics",
			expected: "/ics",
		},
		{
			name:     "api",
			path:     "/api/birthdays",
			expected: "/api/birthdays",
		},
		{
			name:     "health with trailing slash",
			path:     "/health/",
			expected: "/health",
		},
		{
			name:     "metrics",
			path:     "/metrics",
			expected: "/metrics",
		},
		{
			name:     "unknown path",
			path:     "/wp-admin.php",
			expected: "/other",
		},
		{
			name:     "bare user prefix",
			path:     "/u",
			expected: "/other",
		},
		{
			name:     "too deep user path",
			path:     "/u/alice/extra/birthdays.ics",
			expected: "/other",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePath(tt.path); got != tt.expected {
				t.Errorf("NormalizePath(%q) = %q, want %q", tt.path, got, tt.expected)
			}
		})
	}
}

func TestGetExpectedCardinality(t *testing.T) {
	if got := GetExpectedCardinality(); got != 10 {
		t.Errorf("GetExpectedCardinality() = %d, want 10", got)
	}
}
