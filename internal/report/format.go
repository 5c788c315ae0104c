package report

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// FormatISODuration formats d as an ISO 8601 duration such as "P5DT3H20M".
// Negative durations are treated as zero.
func FormatISODuration(d time.Duration) string {
	if d <= 0 {
		return "PT0S"
	}

	d = d.Round(time.Second)
	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	d -= minutes * time.Minute
	seconds := d / time.Second

	var b strings.Builder
	b.WriteString("P")
	if days > 0 {
		fmt.Fprintf(&b, "%dD", days)
	}
	if hours > 0 || minutes > 0 || seconds > 0 {
		b.WriteString("T")
		if hours > 0 {
			fmt.Fprintf(&b, "%dH", hours)
		}
		if minutes > 0 {
			fmt.Fprintf(&b, "%dM", minutes)
		}
		if seconds > 0 {
			fmt.Fprintf(&b, "%dS", seconds)
		}
	}
	return b.String()
}

// DaysLabel renders an exact day count: "today", "tomorrow" or "in N days".
func DaysLabel(days int) string {
	switch {
	case days <= 0:
		return "today"
	case days == 1:
		return "tomorrow"
	default:
		return fmt.Sprintf("in %d days", days)
	}
}

// HumanizeDays renders a day count as a rounded, human label.
func HumanizeDays(days int) string {
	switch {
	case days <= 0:
		return "today"
	case days == 1:
		return "tomorrow"
	case days < 14:
		return fmt.Sprintf("in %d days", days)
	case days < 60:
		return fmt.Sprintf("in %d weeks", int(math.Round(float64(days)/7)))
	default:
		months := int(math.Round(float64(days) / 30.44))
		if months >= 12 {
			return "in about a year"
		}
		return fmt.Sprintf("in about %d months", months)
	}
}
