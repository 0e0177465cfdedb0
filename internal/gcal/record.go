package gcal

import (
	"strings"
	"time"

	"github.com/jpacker/caltui/internal"
)

// Record is one raw event as emitted by the calendar server's list_events
// tool. Every field is explicitly optional; absence is the zero value.
type Record struct {
	ID                  string           `json:"id"`
	Summary             string           `json:"summary"`
	Start               RecordTime       `json:"start"`
	End                 RecordTime       `json:"end"`
	Status              string           `json:"status"`
	EventType           string           `json:"eventType"`
	Attendees           []RecordAttendee `json:"attendees"`
	HangoutLink         string           `json:"hangoutLink"`
	WorkingLocation     *WorkingLocation `json:"workingLocationProperties"`
	Description         string           `json:"description"`
	HasOverlap          bool             `json:"has_overlap"`
	OverlappingEventIDs []string         `json:"overlapping_event_ids"`
	ResponseStatus      string           `json:"responseStatus"`
}

// RecordTime carries either a date-only value (all-day events) or an
// RFC 3339 instant.
type RecordTime struct {
	Date     string `json:"date,omitempty"`
	DateTime string `json:"dateTime,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

func (t RecordTime) dateOnly() bool {
	return t.Date != "" && t.DateTime == ""
}

func (t RecordTime) parse() *time.Time {
	if t.DateTime != "" {
		parsed, err := time.Parse(time.RFC3339, t.DateTime)
		if err != nil {
			return nil
		}
		return &parsed
	}
	if t.Date != "" {
		loc := time.Local
		if t.TimeZone != "" {
			if l, err := time.LoadLocation(t.TimeZone); err == nil {
				loc = l
			}
		}
		parsed, err := time.ParseInLocation(internal.DateFormat, t.Date, loc)
		if err != nil {
			return nil
		}
		return &parsed
	}
	return nil
}

type RecordAttendee struct {
	Email          string `json:"email"`
	DisplayName    string `json:"displayName,omitempty"`
	Self           bool   `json:"self,omitempty"`
	ResponseStatus string `json:"responseStatus,omitempty"`
}

type WorkingLocation struct {
	Type string `json:"type"`
}

type listResult struct {
	Events []Record `json:"events"`
	Count  int      `json:"count"`
}

// newEvent classifies one raw record into the internal event model.
// Malformed or missing temporal fields degrade to an unplaced event
// rather than failing; synthesis skips those.
func newEvent(rec Record, taskLinkHint string) internal.Event {
	e := internal.Event{
		ID:          rec.ID,
		Kind:        internal.KindRegular,
		Summary:     rec.Summary,
		Description: rec.Description,
		Status:      rec.Status,
		Response:    responseStatus(rec),
		HasOverlap:  rec.HasOverlap,
		OverlapIDs:  rec.OverlappingEventIDs,
		HangoutLink: rec.HangoutLink,
	}
	if e.Summary == "" {
		e.Summary = "No Title"
	}

	for _, a := range rec.Attendees {
		resp := internal.ResponseStatus(a.ResponseStatus)
		if resp == "" {
			resp = internal.NeedsAction
		}
		e.Attendees = append(e.Attendees, internal.Attendee{
			Email:       a.Email,
			DisplayName: a.DisplayName,
			Self:        a.Self,
			Response:    resp,
		})
	}

	e.Start = rec.Start.parse()
	e.End = rec.End.parse()
	if e.Start != nil && e.End != nil && e.Start.After(*e.End) {
		e.Start, e.End = nil, nil
	}
	if (e.Start == nil) != (e.End == nil) {
		e.Start, e.End = nil, nil
	}

	switch {
	case rec.Start.dateOnly() || rec.End.dateOnly():
		e.Kind = internal.KindAllDay
	case rec.EventType == "focusTime":
		e.Kind = internal.KindFocusTime
		if taskLinkHint != "" && strings.Contains(rec.Description, taskLinkHint) {
			e.Kind = internal.KindTask
		}
	case rec.EventType == "workingLocation":
		e.Kind = internal.KindWorkingLocation
		if rec.WorkingLocation != nil {
			e.WorkingLocation = rec.WorkingLocation.Type
		}
	}
	return e
}

// responseStatus is the RSVP of the self attendee, falling back to the
// record-level field, then to needsAction.
func responseStatus(rec Record) internal.ResponseStatus {
	for _, a := range rec.Attendees {
		if a.Self && a.ResponseStatus != "" {
			return internal.ResponseStatus(a.ResponseStatus)
		}
	}
	if rec.ResponseStatus != "" {
		return internal.ResponseStatus(rec.ResponseStatus)
	}
	return internal.NeedsAction
}
