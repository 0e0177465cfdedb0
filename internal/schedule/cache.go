package schedule

import (
	"time"

	"github.com/jpacker/caltui/internal"
)

// Cache owns the in-memory event set and tracks which date ranges have
// been loaded from the remote source. Every ingest or local mutation is
// followed synchronously by the declined-conflict invariant and a full
// resynthesis pass, so readers never observe a half-updated set.
//
// Cache is not safe for concurrent use; the application's single update
// loop is its only caller.
type Cache struct {
	hours  internal.CoreHours
	events []internal.Event

	timeMin time.Time
	timeMax time.Time
	loaded  map[string]bool // weekday dates only
}

func NewCache(hours internal.CoreHours) *Cache {
	return &Cache{
		hours:  hours,
		loaded: make(map[string]bool),
	}
}

// Events returns the current synthesized event set.
func (c *Cache) Events() []internal.Event {
	return c.events
}

// Envelope returns the loaded [timeMin, timeMax] range.
func (c *Cache) Envelope() (time.Time, time.Time) {
	return c.timeMin, c.timeMax
}

// Loaded reports whether the given date can be displayed without fetching.
// Weekends are not tracked individually; they count as loaded when they
// fall inside the loaded envelope.
func (c *Cache) Loaded(d internal.Date) bool {
	if d.Weekend() {
		return c.contains(d)
	}
	return c.loaded[d.String()]
}

func (c *Cache) contains(d internal.Date) bool {
	if c.timeMin.IsZero() {
		return false
	}
	t := d.Time
	return !t.Before(c.timeMin) && t.Before(c.timeMax)
}

// Replace ingests an authoritative batch for the sub-range [from, to):
// currently-held events whose start falls inside the sub-range are
// dropped, then the batch is appended. Used when reconciling after a
// mutation so optimistic local events are superseded wholesale.
func (c *Cache) Replace(batch []internal.Event, from, to time.Time) []internal.Event {
	var kept []internal.Event
	for _, e := range c.events {
		if e.Kind == internal.KindAvailable {
			continue
		}
		if e.Start != nil && !e.Start.Before(from) && e.Start.Before(to) {
			continue
		}
		kept = append(kept, e)
	}
	c.events = append(kept, batch...)
	c.mark(from, to)
	return c.resynthesize()
}

// Merge ingests a batch for the sub-range [from, to), appending only
// events whose id is not already held. Used for opportunistic background
// widening of the loaded window.
func (c *Cache) Merge(batch []internal.Event, from, to time.Time) []internal.Event {
	seen := make(map[string]bool, len(c.events))
	for _, e := range c.events {
		if e.ID != "" && e.ID != internal.AvailableID {
			seen[e.ID] = true
		}
	}
	for _, e := range batch {
		if e.ID != "" && seen[e.ID] {
			continue
		}
		c.events = append(c.events, e)
	}
	c.mark(from, to)
	return c.resynthesize()
}

// SetResponse applies an optimistic local RSVP change.
func (c *Cache) SetResponse(id string, r internal.ResponseStatus) []internal.Event {
	for i := range c.events {
		if c.events[i].ID == id && id != "" {
			c.events[i].Response = r
		}
	}
	return c.resynthesize()
}

// Insert adds an optimistic local event (e.g. a focus-time placeholder
// awaiting remote confirmation).
func (c *Cache) Insert(e internal.Event) []internal.Event {
	c.events = append(c.events, e)
	return c.resynthesize()
}

// Remove drops an event by id.
func (c *Cache) Remove(id string) []internal.Event {
	if id == "" {
		return c.events
	}
	var kept []internal.Event
	for _, e := range c.events {
		if e.ID == id {
			continue
		}
		kept = append(kept, e)
	}
	c.events = kept
	return c.resynthesize()
}

func (c *Cache) resynthesize() []internal.Event {
	c.events = Synthesize(ReconcileConflicts(c.events), c.hours)
	return c.events
}

func (c *Cache) mark(from, to time.Time) {
	if c.timeMin.IsZero() || from.Before(c.timeMin) {
		c.timeMin = from
	}
	if to.After(c.timeMax) {
		c.timeMax = to
	}
	for d := internal.NewDateFromTime(from); d.Time.Before(to); d = d.AddDate(0, 0, 1) {
		if !d.Weekend() {
			c.loaded[d.String()] = true
		}
	}
}
