package report

import (
	"time"

	"waifu-calendar/internal/usecase/birthday"
	"waifu-calendar/internal/usecase/favorites"
)

// Row is one character in an HTML report.
type Row struct {
	Name          string
	URL           string
	BirthdayLabel string // "January 20"
	BirthdayISO   string // "01-20"
	NextDate      string // "2024-01-20"
	DaysUntil     int
	Until         string // ISO 8601 duration from now to the start of NextDate
	UntilLabel    string // rounded, e.g. "in 3 weeks"
}

// PageView is the view model of the calendar page.
type PageView struct {
	Username    string
	GeneratedAt time.Time
	HorizonDays int
	Stale       bool
	FetchedAt   time.Time
	Today       []Row
	Upcoming    []Row
	Future      []Row
}

// Empty reports whether the user has no characters with birthdays.
func (v PageView) Empty() bool {
	return len(v.Today) == 0 && len(v.Upcoming) == 0 && len(v.Future) == 0
}

// NewPageView builds the view model for username's report as of now.
func NewPageView(username string, report birthday.Report, result favorites.Result, now time.Time) PageView {
	return PageView{
		Username:    username,
		GeneratedAt: now,
		HorizonDays: report.HorizonDays,
		Stale:       result.IsStale(),
		FetchedAt:   result.FetchedAt,
		Today:       rows(report.Today(), now),
		Upcoming:    rows(report.Soon(), now),
		Future:      rows(report.Future, now),
	}
}

func rows(occurrences []birthday.Occurrence, now time.Time) []Row {
	out := make([]Row, 0, len(occurrences))
	for _, o := range occurrences {
		out = append(out, Row{
			Name:          o.Character.Name,
			URL:           o.Character.URL,
			BirthdayLabel: o.Character.Birthday.String(),
			BirthdayISO:   o.Character.Birthday.ISO(),
			NextDate:      o.Next.Format(time.DateOnly),
			DaysUntil:     o.DaysUntil,
			Until:         FormatISODuration(o.Next.Sub(now)),
			UntilLabel:    HumanizeDays(o.DaysUntil),
		})
	}
	return out
}
