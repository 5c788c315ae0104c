package birthday

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"waifu-calendar/internal/domain/entity"
)

// DefaultHorizonDays is the default size of the "upcoming" window.
const DefaultHorizonDays = 30

// Occurrence is the next calendar date on which a character's birthday falls.
type Occurrence struct {
	Character entity.Character
	Next      time.Time // midnight in the resolver location
	DaysUntil int
}

// IsToday reports whether the birthday falls on the reference date.
func (o Occurrence) IsToday() bool {
	return o.DaysUntil == 0
}

// Resolver computes birthday occurrences.
// The zero value uses LeapDayFeb28 and UTC.
type Resolver struct {
	LeapDay  LeapDayPolicy
	Location *time.Location
}

// NewResolver returns a Resolver using the given policy and location.
// A nil location means UTC.
func NewResolver(policy LeapDayPolicy, loc *time.Location) Resolver {
	return Resolver{LeapDay: policy, Location: loc}
}

func (r Resolver) location() *time.Location {
	if r.Location == nil {
		return time.UTC
	}
	return r.Location
}

// Today reduces now to its calendar date in the resolver location.
func (r Resolver) Today(now time.Time) time.Time {
	loc := r.location()
	y, m, d := now.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// DateIn returns the date the birthday is celebrated in the given year,
// applying the leap-day policy in non-leap years.
func (r Resolver) DateIn(year int, b entity.Birthday) time.Time {
	month, day := b.Month, b.Day
	if b.IsLeapDay() && !isLeapYear(year) {
		month, day = r.LeapDay.substitute()
	}
	return time.Date(year, month, day, 0, 0, 0, 0, r.location())
}

// NextOccurrence returns the first date on or after now's calendar date on
// which the birthday is celebrated, and the number of days until then.
func (r Resolver) NextOccurrence(b entity.Birthday, now time.Time) (time.Time, int) {
	today := r.Today(now)

	next := r.DateIn(today.Year(), b)
	if next.Before(today) {
		next = r.DateIn(today.Year()+1, b)
	}

	return next, daysBetween(today, next)
}

// Resolve computes the next occurrence of every record and returns them sorted
// by days until the birthday, ties broken by case-insensitive name.
func (r Resolver) Resolve(records []entity.Character, now time.Time) []Occurrence {
	occurrences := make([]Occurrence, 0, len(records))
	for _, c := range records {
		next, days := r.NextOccurrence(c.Birthday, now)
		occurrences = append(occurrences, Occurrence{
			Character: c,
			Next:      next,
			DaysUntil: days,
		})
	}

	slices.SortStableFunc(occurrences, compareOccurrences)
	return occurrences
}

// Report resolves the records and partitions them around horizonDays.
func (r Resolver) Report(records []entity.Character, now time.Time, horizonDays int) Report {
	return Partition(r.Resolve(records, now), horizonDays)
}

// Resolve is Resolver{}.Report: UTC dates and the Feb 28 leap-day policy.
func Resolve(records []entity.Character, now time.Time, horizonDays int) Report {
	return Resolver{}.Report(records, now, horizonDays)
}

func compareOccurrences(a, b Occurrence) int {
	if c := cmp.Compare(a.DaysUntil, b.DaysUntil); c != 0 {
		return c
	}
	if c := cmp.Compare(strings.ToLower(a.Character.Name), strings.ToLower(b.Character.Name)); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Character.Name, b.Character.Name); c != 0 {
		return c
	}
	return cmp.Compare(a.Character.ID, b.Character.ID)
}

// daysBetween counts whole calendar days from a to b. Both are compared as
// civil dates so DST transitions in the location cannot skew the count.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}
