package birthday

import (
	"fmt"
	"strings"
	"time"
)

// LeapDayPolicy decides where a February 29 birthday lands in a non-leap year.
type LeapDayPolicy int

const (
	// LeapDayFeb28 celebrates on February 28 in non-leap years (default).
	LeapDayFeb28 LeapDayPolicy = iota
	// LeapDayMar1 celebrates on March 1 in non-leap years.
	LeapDayMar1
)

// String returns the configuration name of the policy.
func (p LeapDayPolicy) String() string {
	switch p {
	case LeapDayMar1:
		return "mar1"
	default:
		return "feb28"
	}
}

// ParseLeapDayPolicy parses "feb28" or "mar1" (case-insensitive).
func ParseLeapDayPolicy(s string) (LeapDayPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "feb28":
		return LeapDayFeb28, nil
	case "mar1":
		return LeapDayMar1, nil
	default:
		return LeapDayFeb28, fmt.Errorf("invalid leap day policy %q: must be feb28 or mar1", s)
	}
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// substitute returns the month and day used for a leap-day birthday in a
// non-leap year.
func (p LeapDayPolicy) substitute() (time.Month, int) {
	if p == LeapDayMar1 {
		return time.March, 1
	}
	return time.February, 28
}
