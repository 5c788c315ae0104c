package config

import (
	"fmt"
	"os"
)

// ConfigLoadResult represents the result of loading a configuration value.
//
// Fields:
//   - Value: The loaded configuration value (the default if validation failed)
//   - Warnings: List of warning messages (one per fallback applied)
//   - FallbackApplied: True if the default value was used due to validation failure
type ConfigLoadResult struct {
	Value           string
	Warnings        []string
	FallbackApplied bool
}

// LoadEnvWithFallback loads a string value from an environment variable
// with validation and automatic fallback to default on validation failure.
//
// Loading behavior:
//  1. Read environment variable
//  2. If not set or empty: Use current value (no warning)
//  3. If set: Validate using provided validator
//  4. If validation fails: Use current value and generate warning
//
// This function never returns an error. Validation failures result in
// warnings, not errors.
//
// Example:
//
//	result := LoadEnvWithFallback("JANITOR_SCHEDULE", "@every 15m", ValidateCronSchedule)
//	for _, warning := range result.Warnings {
//	    slog.Warn("configuration fallback", slog.String("detail", warning))
//	}
//	schedule := result.Value
//
// Warning format:
//
//	"Invalid {envKey}='{value}': {error}, falling back to default '{default}'"
func LoadEnvWithFallback(envKey, defaultValue string, validator func(string) error) ConfigLoadResult {
	value := os.Getenv(envKey)
	if value == "" {
		return ConfigLoadResult{Value: defaultValue}
	}

	if validator != nil {
		if err := validator(value); err != nil {
			warning := fmt.Sprintf(
				"Invalid %s='%s': %v, falling back to default '%s'",
				envKey,
				value,
				err,
				defaultValue,
			)
			return ConfigLoadResult{
				Value:           defaultValue,
				Warnings:        []string{warning},
				FallbackApplied: true,
			}
		}
	}

	return ConfigLoadResult{Value: value}
}
