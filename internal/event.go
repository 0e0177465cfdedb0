package internal

import (
	"fmt"
	"strings"
	"time"
)

// AvailableID is the sentinel id carried by synthesized available slots.
// They are never persisted to the remote calendar.
const AvailableID = "available"

type Kind string

func (k Kind) String() string {
	return string(k)
}

var (
	KindRegular         Kind = "regular"
	KindAllDay          Kind = "allDay"
	KindFocusTime       Kind = "focusTime"
	KindTask            Kind = "task"
	KindWorkingLocation Kind = "workingLocation"
	KindAvailable       Kind = "available"
)

type ResponseStatus string

func (s ResponseStatus) String() string {
	return string(s)
}

var (
	NeedsAction ResponseStatus = "needsAction"
	Declined    ResponseStatus = "declined"
	Tentative   ResponseStatus = "tentative"
	Accepted    ResponseStatus = "accepted"
)

type Attendee struct {
	Email       string
	DisplayName string
	Self        bool
	Response    ResponseStatus
}

func (a Attendee) Name() string {
	if a.DisplayName != "" {
		return a.DisplayName
	}
	return a.Email
}

// Event is one calendar item after classification. Start/End are nil when
// the provider record carried no usable temporal fields; such events are
// "unplaced" and never participate in gap synthesis.
type Event struct {
	ID          string
	Kind        Kind
	Summary     string
	Description string
	Status      string

	Start *time.Time
	End   *time.Time

	Response   ResponseStatus
	HasOverlap bool
	OverlapIDs []string
	Attendees  []Attendee

	HangoutLink     string
	WorkingLocation string

	// Set by the slot synthesis engine on available slots only.
	Weight   int
	OffHours bool
}

// Timed reports whether both temporal endpoints are present.
func (e Event) Timed() bool {
	return e.Start != nil && e.End != nil
}

func (e Event) Unplaced() bool {
	return e.Start == nil && e.End == nil
}

func (e Event) Duration() time.Duration {
	if !e.Timed() || e.Kind == KindAllDay {
		return 0
	}
	return e.End.Sub(*e.Start)
}

// ActiveAt reports whether the event is happening at the given instant.
// Available slots and all-day events are never active.
func (e Event) ActiveAt(now time.Time) bool {
	switch e.Kind {
	case KindAvailable, KindAllDay:
		return false
	}
	if !e.Timed() {
		return false
	}
	return !now.Before(*e.Start) && now.Before(*e.End)
}

// Category is the display classification of an event. Task, focus time and
// working location override RSVP-based categories; plain RSVP states apply
// only to regular events.
type Category string

var (
	CategoryTask        Category = "task"
	CategoryFocus       Category = "focus"
	CategoryLocation    Category = "location"
	CategoryAvailable   Category = "available"
	CategoryAccepted    Category = "accepted"
	CategoryDeclined    Category = "declined"
	CategoryTentative   Category = "tentative"
	CategoryNeedsAction Category = "needsAction"
)

func (e Event) Category() Category {
	switch e.Kind {
	case KindAvailable:
		return CategoryAvailable
	case KindTask:
		return CategoryTask
	case KindFocusTime:
		return CategoryFocus
	case KindWorkingLocation:
		return CategoryLocation
	}
	switch e.Response {
	case Accepted:
		return CategoryAccepted
	case Declined:
		return CategoryDeclined
	case Tentative:
		return CategoryTentative
	}
	return CategoryNeedsAction
}

// AcceptedCount returns how many attendees accepted, and the total.
func (e Event) AcceptedCount() (accepted, total int) {
	total = len(e.Attendees)
	for _, a := range e.Attendees {
		if a.Response == Accepted {
			accepted++
		}
	}
	return accepted, total
}

// MeetLink returns a short display form of the hangout link, plus the full
// URL. Google Meet links shorten to the g.co form.
func (e Event) MeetLink() (display, full string) {
	if e.HangoutLink == "" {
		return "", ""
	}
	const meetHost = "meet.google.com/"
	if _, after, ok := strings.Cut(e.HangoutLink, meetHost); ok {
		id, _, _ := strings.Cut(after, "?")
		return "https://g.co/meet/" + id, e.HangoutLink
	}
	return e.HangoutLink, e.HangoutLink
}

// TimeLabel is the row time column: "start - end" or an all-day marker.
func (e Event) TimeLabel() string {
	if e.Kind == KindAllDay {
		return "All Day"
	}
	if !e.Timed() {
		return "All Day"
	}
	return fmt.Sprintf("%s - %s", clockLabel(*e.Start), clockLabel(*e.End))
}

func clockLabel(t time.Time) string {
	return strings.TrimPrefix(t.Format("3:04 PM"), "0")
}
