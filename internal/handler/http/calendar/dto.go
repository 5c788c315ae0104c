package calendar

import (
	"time"

	"waifu-calendar/internal/usecase/birthday"
	calUC "waifu-calendar/internal/usecase/calendar"
)

// OccurrenceDTO is one character birthday in the JSON API.
type OccurrenceDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	URL       string `json:"url,omitempty"`
	Birthday  string `json:"birthday"`  // MM-DD
	NextDate  string `json:"next_date"` // YYYY-MM-DD
	DaysUntil int    `json:"days_until"`
}

// Response is the JSON body of GET /api/birthdays.
type Response struct {
	Username    string          `json:"username"`
	GeneratedAt time.Time       `json:"generated_at"`
	HorizonDays int             `json:"horizon_days"`
	Stale       bool            `json:"stale"`
	FetchedAt   time.Time       `json:"fetched_at"`
	Today       []OccurrenceDTO `json:"today"`
	Upcoming    []OccurrenceDTO `json:"upcoming"`
	Future      []OccurrenceDTO `json:"future"`
}

// NewResponse converts a calendar into its JSON representation.
// Upcoming excludes today's birthdays, which are listed under Today.
func NewResponse(cal calUC.Calendar, now time.Time) Response {
	return Response{
		Username:    cal.Username,
		GeneratedAt: now,
		HorizonDays: cal.Report.HorizonDays,
		Stale:       cal.Source.IsStale(),
		FetchedAt:   cal.Source.FetchedAt,
		Today:       toDTOs(cal.Report.Today()),
		Upcoming:    toDTOs(cal.Report.Soon()),
		Future:      toDTOs(cal.Report.Future),
	}
}

func toDTOs(occurrences []birthday.Occurrence) []OccurrenceDTO {
	out := make([]OccurrenceDTO, 0, len(occurrences))
	for _, o := range occurrences {
		out = append(out, OccurrenceDTO{
			ID:        o.Character.ID,
			Name:      o.Character.Name,
			URL:       o.Character.URL,
			Birthday:  o.Character.Birthday.ISO(),
			NextDate:  o.Next.Format(time.DateOnly),
			DaysUntil: o.DaysUntil,
		})
	}
	return out
}
