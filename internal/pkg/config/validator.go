// Package config holds validators and fallback loaders shared by the
// application configuration.
package config

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// cronParser accepts five-field expressions and descriptors such as
// "@every 15m" or "@hourly", matching what cron.New() schedules.
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ValidateCronSchedule validates a cron expression using the robfig/cron/v3 parser.
//
// Accepted forms:
//   - "minute hour day month weekday", e.g. "*/15 * * * *"
//   - descriptors, e.g. "@every 15m", "@hourly"
//
// Validation tool: https://crontab.guru/
func ValidateCronSchedule(schedule string) error {
	if schedule == "" {
		return fmt.Errorf("invalid cron schedule: cannot be empty")
	}

	if _, err := cronParser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", schedule, err)
	}

	return nil
}

// ValidateTimezone validates a timezone string by attempting to load it
// using time.LoadLocation. The name must be an IANA zone such as "UTC"
// or "Asia/Tokyo"; UTC offsets like "+09:00" are rejected.
//
// Common issues:
//   - Missing tzdata package in Docker image
//   - Typo in timezone name
func ValidateTimezone(timezone string) error {
	if timezone == "" {
		return fmt.Errorf("invalid timezone: cannot be empty")
	}

	if _, err := time.LoadLocation(timezone); err != nil {
		return fmt.Errorf("invalid timezone '%s': %w", timezone, err)
	}

	return nil
}

// ValidateIntRange validates that an integer value is within [min, max].
//
// Example:
//
//	// report horizon must be between 0 and 366 days
//	err := ValidateIntRange(horizon, 0, 366)
func ValidateIntRange(value, min, max int) error {
	if min > max {
		return fmt.Errorf("invalid range: min (%d) cannot be greater than max (%d)", min, max)
	}

	if value < min {
		return fmt.Errorf("value %d is below minimum %d", value, min)
	}

	if value > max {
		return fmt.Errorf("value %d exceeds maximum %d", value, max)
	}

	return nil
}
