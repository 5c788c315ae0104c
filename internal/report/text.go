package report

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"waifu-calendar/internal/usecase/birthday"
)

// TextMeta carries the context printed around a text report.
type TextMeta struct {
	Username  string
	Now       time.Time
	Stale     bool
	FetchedAt time.Time
}

// WriteText writes report as aligned plain text: today's birthdays (when
// any), the rest of the upcoming window and the remaining future birthdays.
// Today's rows count as upcoming but are listed only in their own group.
func WriteText(w io.Writer, report birthday.Report, meta TextMeta) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	if meta.Username != "" {
		fmt.Fprintf(tw, "Favorite character birthdays for %s\n", meta.Username)
	}
	if meta.Stale {
		fmt.Fprintf(tw, "Note: AniList is unreachable; showing data from %s.\n", meta.FetchedAt.UTC().Format(time.RFC3339))
	}

	today := report.Today()
	upcoming := fmt.Sprintf("Upcoming birthdays (next %d days)", report.HorizonDays)
	if len(today) > 0 {
		fmt.Fprintf(tw, "\nBirthdays TODAY (%s)\n", meta.Now.Format(time.DateOnly))
		writeRows(tw, today)
		upcoming += ", after today"
	}

	fmt.Fprintf(tw, "\n%s\n", upcoming)
	if soon := report.Soon(); len(soon) > 0 {
		writeRows(tw, soon)
	} else {
		fmt.Fprintln(tw, "  none")
	}

	fmt.Fprintln(tw, "\nFuture birthdays")
	if len(report.Future) > 0 {
		writeRows(tw, report.Future)
	} else {
		fmt.Fprintln(tw, "  none")
	}

	return tw.Flush()
}

func writeRows(w io.Writer, occurrences []birthday.Occurrence) {
	for _, o := range occurrences {
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n",
			o.Character.Name,
			DaysLabel(o.DaysUntil),
			o.Character.Birthday,
			o.Next.Format(time.DateOnly),
		)
	}
}
