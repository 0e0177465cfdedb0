package journal

import "time"

// Action names what the user did to an event.
type Action string

var (
	ActionAccept      Action = "accept"
	ActionTentative   Action = "tentative"
	ActionDecline     Action = "decline"
	ActionDelete      Action = "delete"
	ActionCreateFocus Action = "create_focus"
)

type Entry struct {
	ID         int64  `db:"id"`
	OccurredAt string `db:"occurred_at"`
	Action     Action `db:"action"`
	EventID    string `db:"event_id"`
	Summary    string `db:"summary"`
	Detail     string `db:"detail"`
}

func (e Entry) Time() time.Time {
	t, _ := time.Parse(time.RFC3339, e.OccurredAt)
	return t
}
