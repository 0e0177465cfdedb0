// Package gcal wraps the tool-calling protocol client with typed calendar
// operations and parses the server's raw records into the event model.
package gcal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jpacker/caltui/internal"
)

// ToolCaller is the slice of the protocol client this package needs.
type ToolCaller interface {
	CallTool(ctx context.Context, name string, args map[string]any) (string, error)
}

const defaultMaxResults = 250

type Client struct {
	tools    ToolCaller
	timezone string

	// TaskLinkHint reclassifies focus-time records whose description
	// references a task tracker.
	TaskLinkHint string
	Verbose      bool
	Output       io.Writer

	now func() time.Time
}

func NewClient(tools ToolCaller, timezone string) *Client {
	return &Client{
		tools:    tools,
		timezone: timezone,
		Output:   os.Stderr,
		now:      time.Now,
	}
}

// ListEvents fetches the events overlapping [from, to] with server-side
// overlap detection. All-day events dated before today are dropped.
func (c *Client) ListEvents(ctx context.Context, from, to time.Time, showDeclined bool) ([]internal.Event, error) {
	c.logf("listing events %s to %s", from.Format(time.RFC3339), to.Format(time.RFC3339))

	text, err := c.tools.CallTool(ctx, "list_events", map[string]any{
		"time_filter":     "custom",
		"time_min":        from.Format(time.RFC3339),
		"time_max":        to.Format(time.RFC3339),
		"timezone":        c.timezone,
		"detect_overlaps": true,
		"show_declined":   showDeclined,
		"max_results":     defaultMaxResults,
		"output_format":   "json",
	})
	if err != nil {
		return nil, fmt.Errorf("gcal: listing events: %w", err)
	}

	var res listResult
	if err := json.Unmarshal([]byte(text), &res); err != nil {
		return nil, fmt.Errorf("gcal: decoding event list: %w", err)
	}

	today := internal.NewDateFromTime(c.now()).String()
	events := make([]internal.Event, 0, len(res.Events))
	for _, rec := range res.Events {
		e := newEvent(rec, c.TaskLinkHint)
		if e.Kind == internal.KindAllDay && e.Start != nil {
			if e.Start.Format(internal.DateFormat) < today {
				continue
			}
		}
		events = append(events, e)
	}
	c.logf("loaded %d event(s)", len(events))
	return events, nil
}

// FocusTitle names a focus-time block by its length: short slots become
// paperwork, longer ones development time.
func FocusTitle(d time.Duration) string {
	if d <= 40*time.Minute {
		return "Paperwork - Focus time"
	}
	return "Development - Focus time"
}

// CreateFocusTime books a focus-time block over the given slot with
// auto-decline and do-not-disturb behavior, without notifying anyone.
func (c *Client) CreateFocusTime(ctx context.Context, start, end time.Time) error {
	title := FocusTitle(end.Sub(start))
	c.logf("creating focus time %q %s", title, start.Format(time.RFC3339))

	text, err := c.tools.CallTool(ctx, "create_event", map[string]any{
		"summary":    title,
		"start_time": start.Format(time.RFC3339),
		"end_time":   end.Format(time.RFC3339),
		"eventType":  "focusTime",
		"timezone":   c.timezone,
		"colorId":    "5",
		"focusTimeProperties": map[string]any{
			"autoDeclineMode": "declineOnlyNewConflictingInvitations",
			"chatStatus":      "doNotDisturb",
		},
		"send_notifications": false,
	})
	if err != nil {
		return fmt.Errorf("gcal: creating focus time: %w", err)
	}
	if err := errorText(text); err != nil {
		return fmt.Errorf("gcal: creating focus time: %w", err)
	}
	return nil
}

func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	c.logf("deleting event %s", id)

	text, err := c.tools.CallTool(ctx, "delete_event", map[string]any{
		"event_id":           id,
		"send_notifications": false,
	})
	if err != nil {
		return fmt.Errorf("gcal: deleting event %s: %w", id, err)
	}
	if err := errorText(text); err != nil {
		return fmt.Errorf("gcal: deleting event %s: %w", id, err)
	}
	return nil
}

// RSVP updates the self attendee's response, passing every other attendee
// through unchanged.
func (c *Client) RSVP(ctx context.Context, event internal.Event, response internal.ResponseStatus) error {
	c.logf("rsvp %s on event %s", response, event.ID)

	attendees := make([]map[string]any, 0, len(event.Attendees))
	for _, a := range event.Attendees {
		resp := a.Response
		if a.Self {
			resp = response
		}
		attendees = append(attendees, map[string]any{
			"email":           a.Email,
			"response_status": resp.String(),
		})
	}

	text, err := c.tools.CallTool(ctx, "edit_event", map[string]any{
		"event_id":           event.ID,
		"attendees":          attendees,
		"send_notifications": false,
	})
	if err != nil {
		return fmt.Errorf("gcal: updating rsvp on %s: %w", event.ID, err)
	}
	if err := errorText(text); err != nil {
		return fmt.Errorf("gcal: updating rsvp on %s: %w", event.ID, err)
	}
	return nil
}

// errorText catches tool results that report failure in-band.
func errorText(text string) error {
	if strings.HasPrefix(strings.TrimSpace(text), "Error:") {
		return fmt.Errorf("%s", strings.TrimSpace(text))
	}
	return nil
}

func (c *Client) logf(format string, a ...any) {
	if c.Verbose {
		internal.Logf(c.Output, "gcal:", format, a...)
	}
}
