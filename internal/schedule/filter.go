package schedule

import "github.com/jpacker/caltui/internal"

// ViewMode selects the width of the display window.
type ViewMode int

const (
	SingleDay ViewMode = iota
	TwoDay
)

func (m ViewMode) Days() int {
	if m == TwoDay {
		return 2
	}
	return 1
}

// Select returns the ordered subset of events to display for the window
// anchored at the given date. Timed events are included when their start
// instant falls inside the window; all-day events when their date matches
// one of the window's days. Events without a start never appear. With
// showDeclined false, declined events are dropped; available slots are
// unaffected since declined events never blocked availability upstream.
func Select(events []internal.Event, anchor internal.Date, mode ViewMode, showDeclined bool) []internal.Event {
	lo := anchor.Time
	hi := anchor.AddDate(0, 0, mode.Days()).Time

	days := make(map[string]bool, mode.Days())
	for d, i := anchor, 0; i < mode.Days(); d, i = d.AddDate(0, 0, 1), i+1 {
		days[d.String()] = true
	}

	var out []internal.Event
	for _, e := range events {
		if !showDeclined && e.Response == internal.Declined && e.Kind != internal.KindAvailable {
			continue
		}
		if e.Start == nil {
			continue
		}
		if e.Kind == internal.KindAllDay {
			if days[e.Start.Format(internal.DateFormat)] {
				out = append(out, e)
			}
			continue
		}
		if !e.Start.Before(lo) && e.Start.Before(hi) {
			out = append(out, e)
		}
	}
	sortByStart(out)
	return out
}
