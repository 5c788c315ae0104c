package report

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"waifu-calendar/internal/usecase/birthday"
)

const productID = "-//waifu-calendar//Favorite Character Birthdays//EN"

// eventNamespace scopes event UIDs so re-exports produce the same UID for
// the same character and year.
var eventNamespace = uuid.MustParse("5b0f4f1e-2d55-4c8e-9a7e-4a1c3f0b9d21")

// EventUID returns the deterministic UID of a birthday event.
func EventUID(characterID string, year int) string {
	id := uuid.NewSHA1(eventNamespace, []byte(fmt.Sprintf("%s|%d", characterID, year)))
	return id.String() + "@waifu-calendar"
}

// ExportICS returns an iCalendar document with one all-day event per
// occurrence. now stamps every event.
func ExportICS(occurrences []birthday.Occurrence, now time.Time) ([]byte, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)

	stamp := now.UTC()
	for _, o := range occurrences {
		if o.Next.IsZero() {
			return nil, fmt.Errorf("export ics: occurrence for character %q has no date", o.Character.ID)
		}
		start := o.Next
		event := cal.AddEvent(EventUID(o.Character.ID, start.Year()))
		event.SetDtStampTime(stamp)
		event.SetAllDayStartAt(start)
		event.SetAllDayEndAt(start.AddDate(0, 0, 1))
		event.SetSummary(o.Character.Name)
		event.SetDescription(fmt.Sprintf("%s's birthday", o.Character.Name))
		if o.Character.URL != "" {
			event.SetURL(o.Character.URL)
		}
	}

	return []byte(cal.Serialize()), nil
}
