package internal

import "time"

// CoreHours is the configured daily working window. Slot synthesis clips
// and classifies available slots against it; nothing in the core mutates it.
type CoreHours struct {
	Start int
	End   int
}

func DefaultCoreHours() CoreHours {
	return CoreHours{Start: 9, End: 17}
}

// Bounds returns the core-hour boundary instants for the calendar date of
// the given instant, in that instant's timezone.
func (h CoreHours) Bounds(day time.Time) (start, end time.Time) {
	y, m, d := day.Date()
	loc := day.Location()
	start = time.Date(y, m, d, h.Start, 0, 0, 0, loc)
	end = time.Date(y, m, d, h.End, 0, 0, 0, loc)
	return start, end
}
