package schedule

import "github.com/jpacker/caltui/internal"

// ReconcileConflicts enforces the declined-never-conflicts invariant on a
// freshly ingested event set, in place: declined events lose their overlap
// flag and conflict-id set, and their ids are stripped from every other
// event's conflict set. An event whose conflict set empties out also loses
// its overlap flag.
func ReconcileConflicts(events []internal.Event) []internal.Event {
	declined := make(map[string]bool)
	for i := range events {
		e := &events[i]
		if e.Response != internal.Declined {
			continue
		}
		if e.ID != "" {
			declined[e.ID] = true
		}
		e.HasOverlap = false
		e.OverlapIDs = nil
	}
	if len(declined) == 0 {
		return events
	}

	for i := range events {
		e := &events[i]
		if len(e.OverlapIDs) == 0 {
			continue
		}
		var kept []string
		for _, id := range e.OverlapIDs {
			if !declined[id] {
				kept = append(kept, id)
			}
		}
		e.OverlapIDs = kept
		if len(kept) == 0 {
			e.HasOverlap = false
		}
	}
	return events
}
