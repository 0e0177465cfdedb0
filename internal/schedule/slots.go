// Package schedule holds the pure scheduling core: available-slot
// synthesis, the declined-conflict invariant, the display window filter
// and the fetched-range cache. Nothing here performs I/O.
package schedule

import (
	"sort"
	"time"

	"github.com/jpacker/caltui/internal"
)

// MinSlot is the smallest gap worth surfacing as an available slot.
const MinSlot = 30 * time.Minute

// maxWeight caps the display weight of very long slots.
const maxWeight = 10

// Synthesize recomputes the available slots for the given event set and
// returns the recomposed set: all-day events first, then the timed events
// (occupiers, declined events and freshly synthesized available slots)
// sorted by start time, then unplaced events. Previously synthesized
// available slots are discarded and rebuilt from scratch, so the function
// is idempotent over its own output.
//
// An occupier is a timed, non-declined, non-all-day event with positive
// duration. Declined events never block availability, independent of any
// display toggle: a day whose timed events are all declined (or
// zero-length) gets a single slot spanning the full core window.
func Synthesize(events []internal.Event, hours internal.CoreHours) []internal.Event {
	var (
		allDay    []internal.Event
		unplaced  []internal.Event
		idle      []internal.Event // timed but never blocking: declined or zero-length
		occupiers []internal.Event
	)
	for _, e := range events {
		switch {
		case e.Kind == internal.KindAvailable:
			// Rebuilt below.
		case e.Kind == internal.KindAllDay:
			allDay = append(allDay, e)
		case !e.Timed():
			unplaced = append(unplaced, e)
		case e.Response == internal.Declined:
			idle = append(idle, e)
		case !e.End.After(*e.Start):
			// Zero-duration records cannot block a gap.
			idle = append(idle, e)
		default:
			occupiers = append(occupiers, e)
		}
	}

	timed := make([]internal.Event, 0, len(idle)+len(occupiers))
	timed = append(timed, idle...)
	timed = append(timed, occupiers...)
	occupied := make(map[string]bool)
	for _, day := range groupByDay(occupiers) {
		occupied[day[0].Start.Format(internal.DateFormat)] = true
		timed = append(timed, synthesizeDay(day, hours)...)
	}

	// A day whose timed events all turned out non-blocking is wide open:
	// declining the last meeting of a day must grow availability to the
	// whole core window, never shrink it.
	for _, day := range groupByDay(idle) {
		if occupied[day[0].Start.Format(internal.DateFormat)] {
			continue
		}
		coreStart, coreEnd := hours.Bounds(*day[0].Start)
		if coreEnd.Sub(coreStart) >= MinSlot {
			timed = append(timed, newAvailable(coreStart, coreEnd, hours))
		}
	}

	sortByStart(allDay)
	sortByStart(timed)

	out := make([]internal.Event, 0, len(allDay)+len(timed)+len(unplaced))
	out = append(out, allDay...)
	out = append(out, timed...)
	out = append(out, unplaced...)
	return out
}

// groupByDay buckets occupiers by the calendar date of their start, in the
// occupier's own timezone, preserving fetch order within a day. Buckets
// come back in ascending date order so the result is deterministic.
func groupByDay(occupiers []internal.Event) [][]internal.Event {
	byDay := make(map[string][]internal.Event)
	var keys []string
	for _, e := range occupiers {
		key := e.Start.Format(internal.DateFormat)
		if _, ok := byDay[key]; !ok {
			keys = append(keys, key)
		}
		byDay[key] = append(byDay[key], e)
	}
	sort.Strings(keys)

	days := make([][]internal.Event, 0, len(keys))
	for _, key := range keys {
		days = append(days, byDay[key])
	}
	return days
}

// synthesizeDay emits the available slots for one day's occupiers. Gap
// synthesis never crosses midnight. Core-hour boundaries are taken in the
// timezone of the day's first occupier.
func synthesizeDay(day []internal.Event, hours internal.CoreHours) []internal.Event {
	sort.SliceStable(day, func(i, j int) bool {
		return day[i].Start.Before(*day[j].Start)
	})

	coreStart, coreEnd := hours.Bounds(*day[0].Start)

	var slots []internal.Event

	// Gap between core start and the first occupier. Emitted as a single
	// slot even when it straddles core end; only inter-event gaps split.
	if day[0].Start.Sub(coreStart) >= MinSlot {
		slots = append(slots, newAvailable(coreStart, *day[0].Start, hours))
	}

	for i := 0; i < len(day)-1; i++ {
		gapStart := *day[i].End
		gapEnd := *day[i+1].Start
		if gapEnd.Sub(gapStart) < MinSlot {
			continue
		}
		if coveredByOther(day, i, i+1, gapStart, gapEnd) {
			continue
		}
		if !sameDay(gapStart, gapEnd) {
			continue
		}
		if gapStart.Before(coreEnd) && gapEnd.After(coreEnd) {
			// Straddles the end of core hours: split into an in-hours and
			// an after-hours slot, each still subject to the 30-minute
			// floor, never merged.
			if coreEnd.Sub(gapStart) >= MinSlot {
				slots = append(slots, newAvailable(gapStart, coreEnd, hours))
			}
			if gapEnd.Sub(coreEnd) >= MinSlot {
				slots = append(slots, newAvailable(coreEnd, gapEnd, hours))
			}
			continue
		}
		slots = append(slots, newAvailable(gapStart, gapEnd, hours))
	}

	// Gap between the latest occupier end and core end. Using the latest
	// end (not the last start) keeps the slot clear of meetings nested
	// inside a longer one.
	lastEnd := *day[0].End
	for _, e := range day[1:] {
		if e.End.After(lastEnd) {
			lastEnd = *e.End
		}
	}
	if coreEnd.Sub(lastEnd) >= MinSlot {
		slots = append(slots, newAvailable(lastEnd, coreEnd, hours))
	}

	return slots
}

// coveredByOther reports whether any occupier other than the pair forming
// the gap intersects the interval [gapStart, gapEnd).
func coveredByOther(day []internal.Event, cur, next int, gapStart, gapEnd time.Time) bool {
	for i, other := range day {
		if i == cur || i == next {
			continue
		}
		if other.Start.Before(gapEnd) && other.End.After(gapStart) {
			return true
		}
	}
	return false
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}

func newAvailable(start, end time.Time, hours internal.CoreHours) internal.Event {
	coreStart, coreEnd := hours.Bounds(start)
	weight := int(end.Sub(start).Minutes()) / 30
	if weight > maxWeight {
		weight = maxWeight
	}
	s, e := start, end
	return internal.Event{
		ID:       internal.AvailableID,
		Kind:     internal.KindAvailable,
		Summary:  "Available",
		Response: internal.NeedsAction,
		Start:    &s,
		End:      &e,
		Weight:   weight,
		OffHours: !end.After(coreStart) || !start.Before(coreEnd),
	}
}

// sortByStart orders events by ascending start time, stably, with events
// lacking a start time at the end.
func sortByStart(events []internal.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i].Start, events[j].Start
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.Before(*b)
	})
}
