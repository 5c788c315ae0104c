package entity

import (
	"fmt"
	"time"
)

// daysInMonth holds the maximum day of each month in a leap year.
// February allows 29 so that leap-day birthdays survive ingestion.
var daysInMonth = [13]int{0, 31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// Birthday is a month and day pair without a year.
type Birthday struct {
	Month time.Month `json:"month"`
	Day   int        `json:"day"`
}

// NewBirthday builds a validated Birthday.
func NewBirthday(month, day int) (Birthday, error) {
	b := Birthday{Month: time.Month(month), Day: day}
	if err := b.Validate(); err != nil {
		return Birthday{}, err
	}
	return b, nil
}

// BirthdayFromDate returns the birthday that falls on the given date.
func BirthdayFromDate(date time.Time) Birthday {
	return Birthday{Month: date.Month(), Day: date.Day()}
}

// Validate checks the day against the month in a leap-year context.
func (b Birthday) Validate() error {
	if b.Month < time.January || b.Month > time.December {
		return &ValidationError{
			Field:   "birth_month",
			Message: fmt.Sprintf("month %d must be between 1 and 12", int(b.Month)),
		}
	}
	if b.Day < 1 || b.Day > daysInMonth[b.Month] {
		return &ValidationError{
			Field:   "birth_day",
			Message: fmt.Sprintf("day %d is not valid for %s", b.Day, b.Month),
		}
	}
	return nil
}

// IsLeapDay reports whether the birthday is February 29.
func (b Birthday) IsLeapDay() bool {
	return b.Month == time.February && b.Day == 29
}

// IsOccurringOn reports whether the birthday falls on the given date.
func (b Birthday) IsOccurringOn(date time.Time) bool {
	return b.Month == date.Month() && b.Day == date.Day()
}

// String formats the birthday as "January 20".
func (b Birthday) String() string {
	return fmt.Sprintf("%s %d", b.Month, b.Day)
}

// ISO formats the birthday as "01-20".
func (b Birthday) ISO() string {
	return fmt.Sprintf("%02d-%02d", int(b.Month), b.Day)
}
