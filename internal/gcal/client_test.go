package gcal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jpacker/caltui/internal"
)

type fakeTools struct {
	name string
	args map[string]any
	text string
	err  error
}

func (f *fakeTools) CallTool(_ context.Context, name string, args map[string]any) (string, error) {
	f.name = name
	f.args = args
	return f.text, f.err
}

func newTestClient(tools *fakeTools) *Client {
	c := NewClient(tools, "Europe/Amsterdam")
	c.now = func() time.Time {
		return time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)
	}
	return c
}

func TestListEventsArguments(t *testing.T) {
	tools := &fakeTools{text: `{"events":[],"count":0}`}
	c := newTestClient(tools)

	from := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)
	if _, err := c.ListEvents(context.Background(), from, to, true); err != nil {
		t.Fatal(err)
	}

	if tools.name != "list_events" {
		t.Fatalf("called %q, want list_events", tools.name)
	}
	want := map[string]any{
		"time_filter":     "custom",
		"timezone":        "Europe/Amsterdam",
		"detect_overlaps": true,
		"show_declined":   true,
		"max_results":     defaultMaxResults,
		"output_format":   "json",
	}
	for k, v := range want {
		if tools.args[k] != v {
			t.Errorf("args[%q] = %v, want %v", k, tools.args[k], v)
		}
	}
	if tools.args["time_min"] != from.Format(time.RFC3339) {
		t.Errorf("time_min = %v", tools.args["time_min"])
	}
}

func TestListEventsDropsStaleAllDay(t *testing.T) {
	tools := &fakeTools{text: `{"events":[
		{"id":"old","start":{"date":"2026-03-01"},"end":{"date":"2026-03-02"}},
		{"id":"current","start":{"date":"2026-03-02"},"end":{"date":"2026-03-03"}},
		{"id":"meeting","start":{"dateTime":"2026-03-01T10:00:00Z"},"end":{"dateTime":"2026-03-01T11:00:00Z"}}
	],"count":3}`}
	c := newTestClient(tools)

	events, err := c.ListEvents(context.Background(), time.Now(), time.Now(), false)
	if err != nil {
		t.Fatal(err)
	}

	ids := make(map[string]bool)
	for _, e := range events {
		ids[e.ID] = true
	}
	if ids["old"] {
		t.Error("all-day event dated before today survived")
	}
	if !ids["current"] || !ids["meeting"] {
		t.Errorf("got %v, want current and meeting kept", ids)
	}
}

func TestListEventsBadPayload(t *testing.T) {
	tools := &fakeTools{text: "not json"}
	c := newTestClient(tools)

	if _, err := c.ListEvents(context.Background(), time.Now(), time.Now(), false); err == nil {
		t.Fatal("expected a decode error")
	}
}

func TestFocusTitle(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Minute, "Paperwork - Focus time"},
		{40 * time.Minute, "Paperwork - Focus time"},
		{41 * time.Minute, "Development - Focus time"},
		{2 * time.Hour, "Development - Focus time"},
	}
	for _, tc := range tests {
		if got := FocusTitle(tc.d); got != tc.want {
			t.Errorf("FocusTitle(%s) = %q, want %q", tc.d, got, tc.want)
		}
	}
}

func TestCreateFocusTime(t *testing.T) {
	tools := &fakeTools{text: "created"}
	c := newTestClient(tools)

	start := time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	if err := c.CreateFocusTime(context.Background(), start, end); err != nil {
		t.Fatal(err)
	}

	if tools.name != "create_event" {
		t.Fatalf("called %q, want create_event", tools.name)
	}
	if tools.args["summary"] != "Development - Focus time" {
		t.Errorf("summary = %v", tools.args["summary"])
	}
	if tools.args["eventType"] != "focusTime" {
		t.Errorf("eventType = %v", tools.args["eventType"])
	}
	props, ok := tools.args["focusTimeProperties"].(map[string]any)
	if !ok || props["chatStatus"] != "doNotDisturb" {
		t.Errorf("focusTimeProperties = %v", tools.args["focusTimeProperties"])
	}
	if tools.args["send_notifications"] != false {
		t.Error("notifications not suppressed")
	}
}

func TestRSVPChangesOnlySelf(t *testing.T) {
	tools := &fakeTools{text: "updated"}
	c := newTestClient(tools)

	event := internal.Event{
		ID: "ev1",
		Attendees: []internal.Attendee{
			{Email: "other@example.com", Response: internal.Declined},
			{Email: "me@example.com", Self: true, Response: internal.NeedsAction},
		},
	}
	if err := c.RSVP(context.Background(), event, internal.Accepted); err != nil {
		t.Fatal(err)
	}

	attendees, ok := tools.args["attendees"].([]map[string]any)
	if !ok || len(attendees) != 2 {
		t.Fatalf("attendees = %v", tools.args["attendees"])
	}
	if attendees[0]["response_status"] != "declined" {
		t.Errorf("other attendee changed: %v", attendees[0])
	}
	if attendees[1]["response_status"] != "accepted" {
		t.Errorf("self attendee not updated: %v", attendees[1])
	}
}

func TestErrorTextSurfaces(t *testing.T) {
	tools := &fakeTools{text: "Error: event not found"}
	c := newTestClient(tools)

	if err := c.DeleteEvent(context.Background(), "missing"); err == nil {
		t.Fatal("expected an error from the error-text result")
	}

	tools.text = ""
	tools.err = errors.New("boom")
	if err := c.DeleteEvent(context.Background(), "missing"); err == nil {
		t.Fatal("expected the transport error to propagate")
	}
}
