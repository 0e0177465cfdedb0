package schedule

import (
	"testing"
	"time"

	"github.com/jpacker/caltui/internal"
)

func newTestCache() *Cache {
	return NewCache(internal.DefaultCoreHours())
}

func dayRange(d time.Time) (time.Time, time.Time) {
	return d, d.AddDate(0, 0, 1)
}

func eventIDs(events []internal.Event) map[string]int {
	ids := make(map[string]int)
	for _, e := range events {
		ids[e.ID]++
	}
	return ids
}

func TestCacheReplaceSupersedesSubrange(t *testing.T) {
	c := newTestCache()
	from, to := dayRange(testDay)

	c.Replace([]internal.Event{
		busy("old", tm(10, 0), tm(11, 0)),
	}, from, to)

	out := c.Replace([]internal.Event{
		busy("new", tm(12, 0), tm(13, 0)),
	}, from, to)

	ids := eventIDs(out)
	if ids["old"] != 0 {
		t.Error("event inside the replaced sub-range survived")
	}
	if ids["new"] != 1 {
		t.Error("replacement batch not ingested")
	}
}

func TestCacheReplaceKeepsOtherDays(t *testing.T) {
	c := newTestCache()
	nextDay := testDay.AddDate(0, 0, 1)

	c.Replace([]internal.Event{
		busy("mon", tm(10, 0), tm(11, 0)),
		busy("tue", tm(10, 0).Add(24*time.Hour), tm(11, 0).Add(24*time.Hour)),
	}, testDay, nextDay.AddDate(0, 0, 1))

	from, to := dayRange(testDay)
	out := c.Replace(nil, from, to)

	ids := eventIDs(out)
	if ids["mon"] != 0 {
		t.Error("replaced day kept its event")
	}
	if ids["tue"] != 1 {
		t.Error("event outside the sub-range was dropped")
	}
}

func TestCacheMergeSkipsSeenIDs(t *testing.T) {
	c := newTestCache()
	from, to := dayRange(testDay)

	c.Replace([]internal.Event{busy("a", tm(10, 0), tm(11, 0))}, from, to)

	stale := busy("a", tm(14, 0), tm(15, 0))
	out := c.Merge([]internal.Event{stale, busy("b", tm(12, 0), tm(13, 0))}, from, to)

	ids := eventIDs(out)
	if ids["a"] != 1 {
		t.Errorf("event a appears %d times, want 1", ids["a"])
	}
	if ids["b"] != 1 {
		t.Error("unseen event not merged")
	}
	for _, e := range out {
		if e.ID == "a" && !e.Start.Equal(tm(10, 0)) {
			t.Error("merge overwrote an already-held event")
		}
	}
}

func TestCacheLoaded(t *testing.T) {
	c := newTestCache()
	monday := internal.NewDateFromTime(testDay)

	// Load Monday through Friday.
	c.Replace(nil, testDay, testDay.AddDate(0, 0, 5))

	if !c.Loaded(monday) {
		t.Error("loaded weekday reported as missing")
	}
	if c.Loaded(monday.AddDate(0, 0, 7)) {
		t.Error("unloaded date reported as loaded")
	}

	// The following Saturday is outside the envelope.
	if c.Loaded(monday.AddDate(0, 0, 5)) {
		t.Error("weekend outside the envelope reported as loaded")
	}

	c.Replace(nil, testDay, testDay.AddDate(0, 0, 7))
	if !c.Loaded(monday.AddDate(0, 0, 5)) {
		t.Error("weekend inside the envelope reported as missing")
	}
}

func TestCacheSetResponseFreesSlot(t *testing.T) {
	c := newTestCache()
	from, to := dayRange(testDay)

	c.Replace([]internal.Event{
		busy("a", tm(9, 0), tm(12, 0)),
		busy("b", tm(12, 0), tm(17, 0)),
	}, from, to)

	if slots := available(c.Events()); len(slots) != 0 {
		t.Fatalf("fully booked day yielded %d slots", len(slots))
	}

	out := c.SetResponse("b", internal.Declined)
	slots := available(out)
	if len(slots) != 1 || !slots[0].Start.Equal(tm(12, 0)) || !slots[0].End.Equal(tm(17, 0)) {
		t.Fatalf("declining did not free the afternoon: %+v", slots)
	}
}

func TestCacheInsertAndRemove(t *testing.T) {
	c := newTestCache()
	from, to := dayRange(testDay)
	c.Replace(nil, from, to)

	start, end := tm(10, 0), tm(11, 0)
	out := c.Insert(internal.Event{
		ID:    "focus-tmp",
		Kind:  internal.KindFocusTime,
		Start: &start,
		End:   &end,
	})
	if eventIDs(out)["focus-tmp"] != 1 {
		t.Fatal("inserted event missing")
	}

	out = c.Remove("focus-tmp")
	if eventIDs(out)["focus-tmp"] != 0 {
		t.Fatal("removed event still present")
	}
}

func TestCacheReplaceDiscardsDeclinedConflicts(t *testing.T) {
	c := newTestCache()
	from, to := dayRange(testDay)

	a := busy("a", tm(10, 0), tm(11, 0))
	a.HasOverlap = true
	a.OverlapIDs = []string{"b"}
	b := declined("b", tm(10, 30), tm(11, 30))
	b.HasOverlap = true
	b.OverlapIDs = []string{"a"}

	out := c.Replace([]internal.Event{a, b}, from, to)
	for _, e := range out {
		if e.ID == "a" && e.HasOverlap {
			t.Error("conflict with a declined event survived ingest")
		}
	}
}
