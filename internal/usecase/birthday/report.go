package birthday

// Report splits ordered occurrences into the upcoming window and the rest.
type Report struct {
	HorizonDays int
	Upcoming    []Occurrence // DaysUntil <= HorizonDays
	Future      []Occurrence // DaysUntil > HorizonDays
}

// Partition splits occurrences, already ordered by Resolve, around
// horizonDays. Both partitions keep the input order. A negative horizon is
// treated as zero.
func Partition(occurrences []Occurrence, horizonDays int) Report {
	if horizonDays < 0 {
		horizonDays = 0
	}

	report := Report{
		HorizonDays: horizonDays,
		Upcoming:    []Occurrence{},
		Future:      []Occurrence{},
	}
	for _, o := range occurrences {
		if o.DaysUntil <= horizonDays {
			report.Upcoming = append(report.Upcoming, o)
		} else {
			report.Future = append(report.Future, o)
		}
	}
	return report
}

// Today returns the occurrences falling on the reference date.
func (r Report) Today() []Occurrence {
	n := 0
	for n < len(r.Upcoming) && r.Upcoming[n].IsToday() {
		n++
	}
	return r.Upcoming[:n]
}

// Soon returns the upcoming occurrences that are not today.
func (r Report) Soon() []Occurrence {
	return r.Upcoming[len(r.Today()):]
}

// All returns every occurrence in order.
func (r Report) All() []Occurrence {
	all := make([]Occurrence, 0, len(r.Upcoming)+len(r.Future))
	all = append(all, r.Upcoming...)
	return append(all, r.Future...)
}

// Len returns the total number of occurrences.
func (r Report) Len() int {
	return len(r.Upcoming) + len(r.Future)
}
