// Package ui is the terminal front end: an event table over the schedule
// cache with RSVP, focus-time, and recommendation actions.
package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/v2/spinner"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/google/uuid"

	"github.com/jpacker/caltui/internal"
	"github.com/jpacker/caltui/internal/gcal"
	"github.com/jpacker/caltui/internal/journal"
	"github.com/jpacker/caltui/internal/recommend"
	"github.com/jpacker/caltui/internal/schedule"
)

// How far ahead an initial or widening fetch reaches.
const fetchSpan = 7

type Calendar interface {
	ListEvents(ctx context.Context, from, to time.Time, showDeclined bool) ([]internal.Event, error)
	CreateFocusTime(ctx context.Context, start, end time.Time) error
	DeleteEvent(ctx context.Context, id string) error
	RSVP(ctx context.Context, event internal.Event, response internal.ResponseStatus) error
}

type Recommender interface {
	Run(ctx context.Context, events []internal.Event) ([]recommend.Recommendation, error)
}

type Journal interface {
	Record(ctx context.Context, action journal.Action, eventID, summary, detail string) error
}

type Options struct {
	Calendar     Calendar
	Recommender  Recommender // nil disables recommendations
	Journal      Journal     // nil disables the triage journal
	CoreHours    internal.CoreHours
	Anchor       internal.Date
	Mode         schedule.ViewMode
	ShowDeclined bool
	Debug        *internal.DebugLog
}

type Model struct {
	ctx     context.Context
	cal     Calendar
	rec     Recommender
	journal Journal
	debug   *internal.DebugLog

	cache        *schedule.Cache
	anchor       internal.Date
	mode         schedule.ViewMode
	showDeclined bool

	visible []internal.Event
	cursor  int

	// Set when navigation requested a date outside the loaded range; the
	// anchor moves there once the widening fetch lands.
	pendingAnchor *internal.Date

	// Generation counters make background completions last-request-wins.
	fetchGen    int
	fetching    bool
	fetchCancel context.CancelFunc
	placeCursor bool

	recGen     int
	recRunning bool
	recCancel  context.CancelFunc
	recs       []recommend.Recommendation

	overlay   bool
	status    string
	statusErr bool

	spin   spinner.Model
	width  int
	height int

	now func() time.Time
}

type eventsMsg struct {
	gen      int
	events   []internal.Event
	from, to time.Time
	merge    bool
}

type fetchErrMsg struct {
	gen int
	err error
}

type recsMsg struct {
	gen  int
	recs []recommend.Recommendation
	err  error
}

// actionDoneMsg reports a remote mutation; [from, to) is the range to
// reconcile regardless of success.
type actionDoneMsg struct {
	from, to time.Time
	desc     string
	err      error
}

func New(ctx context.Context, opts Options) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = dimStyle

	return &Model{
		ctx:          ctx,
		cal:          opts.Calendar,
		rec:          opts.Recommender,
		journal:      opts.Journal,
		debug:        opts.Debug,
		cache:        schedule.NewCache(opts.CoreHours),
		anchor:       opts.Anchor,
		mode:         opts.Mode,
		showDeclined: opts.ShowDeclined,
		spin:         s,
		now:          time.Now,
	}
}

func (m *Model) Init() tea.Cmd {
	m.placeCursor = true
	from := m.anchor.Time
	to := m.anchor.AddDate(0, 0, fetchSpan).Time
	return tea.Batch(m.spin.Tick, m.startFetch(from, to, false))
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		cmds = append(cmds, cmd)

	case eventsMsg:
		if msg.gen != m.fetchGen {
			break
		}
		m.fetching = false
		if msg.merge {
			m.cache.Merge(msg.events, msg.from, msg.to)
		} else {
			m.cache.Replace(msg.events, msg.from, msg.to)
		}
		if m.pendingAnchor != nil && m.cache.Loaded(*m.pendingAnchor) {
			m.anchor = *m.pendingAnchor
			m.pendingAnchor = nil
			m.placeCursor = true
		}
		m.recompute()
		if m.placeCursor {
			m.positionCursor()
			m.placeCursor = false
		}
		m.setStatus("", false)
		if cmd := m.startRecommendations(); cmd != nil {
			cmds = append(cmds, cmd)
		}

	case fetchErrMsg:
		if msg.gen != m.fetchGen {
			break
		}
		m.fetching = false
		m.pendingAnchor = nil
		m.setStatus(msg.err.Error(), true)

	case recsMsg:
		if msg.gen != m.recGen {
			break
		}
		m.recRunning = false
		if msg.err != nil {
			m.debug.Printf("recommendations: %v", msg.err)
			break
		}
		m.recs = msg.recs

	case actionDoneMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("%s failed: %v", msg.desc, msg.err), true)
		} else {
			m.setStatus(msg.desc, false)
		}
		cmds = append(cmds, m.startFetch(msg.from, msg.to, false))

	case tea.KeyPressMsg:
		if cmd := m.handleKey(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	if m.overlay {
		switch msg.String() {
		case "esc", "enter", "q":
			m.overlay = false
		}
		return nil
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return tea.Quit
	case "esc":
		m.setStatus("", false)
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
	case "left", "h":
		return m.navigate(-m.mode.Days())
	case "right", "l":
		return m.navigate(m.mode.Days())
	case "enter":
		if e, ok := m.current(); ok && len(e.Attendees) > 0 {
			m.overlay = true
		}
	case "a":
		return m.rsvp(internal.Accepted)
	case "t":
		return m.rsvp(internal.Tentative)
	case "d":
		return m.declineOrDelete()
	case "f":
		return m.createFocus()
	case "s":
		m.showDeclined = !m.showDeclined
		from, to := m.cache.Envelope()
		if !from.IsZero() {
			return m.startFetch(from, to, false)
		}
	case "r":
		m.placeCursor = true
		return m.startFetch(m.anchor.Time, m.anchor.AddDate(0, 0, m.mode.Days()).Time, false)
	}
	return nil
}

func (m *Model) current() (internal.Event, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return internal.Event{}, false
	}
	return m.visible[m.cursor], true
}

// navigate moves the anchor one period. A target outside the loaded range
// keeps the anchor in place and widens the cache in the background.
func (m *Model) navigate(days int) tea.Cmd {
	next := m.anchor.AddDate(0, 0, days)
	if m.cache.Loaded(next) {
		m.anchor = next
		m.pendingAnchor = nil
		m.cursor = 0
		m.recompute()
		return nil
	}

	m.pendingAnchor = &next
	m.setStatus("loading "+next.String(), false)
	if days > 0 {
		return m.startFetch(next.Time, next.AddDate(0, 0, fetchSpan).Time, true)
	}
	return m.startFetch(next.AddDate(0, 0, 1-fetchSpan).Time, next.AddDate(0, 0, 1).Time, true)
}

func (m *Model) rsvp(r internal.ResponseStatus) tea.Cmd {
	e, ok := m.current()
	if !ok || e.Kind != internal.KindRegular || e.ID == "" {
		return nil
	}

	m.visible = schedule.Select(m.cache.SetResponse(e.ID, r), m.anchor, m.mode, m.showDeclined)
	m.clampCursor()

	action := journal.ActionAccept
	switch r {
	case internal.Tentative:
		action = journal.ActionTentative
	case internal.Declined:
		action = journal.ActionDecline
	}
	from, to := m.dayRange(e)
	desc := fmt.Sprintf("%s %q", r, e.Summary)
	return func() tea.Msg {
		err := m.cal.RSVP(m.ctx, e, r)
		if err == nil {
			m.record(action, e.ID, e.Summary, r.String())
		}
		return actionDoneMsg{from: from, to: to, desc: desc, err: err}
	}
}

// declineOrDelete declines a meeting, or deletes the event outright when it
// is a focus-time block or task we own.
func (m *Model) declineOrDelete() tea.Cmd {
	e, ok := m.current()
	if !ok || e.ID == "" || e.Kind == internal.KindAvailable {
		return nil
	}

	if e.Kind == internal.KindFocusTime || e.Kind == internal.KindTask {
		m.visible = schedule.Select(m.cache.Remove(e.ID), m.anchor, m.mode, m.showDeclined)
		m.clampCursor()

		from, to := m.dayRange(e)
		desc := fmt.Sprintf("deleted %q", e.Summary)
		return func() tea.Msg {
			err := m.cal.DeleteEvent(m.ctx, e.ID)
			if err == nil {
				m.record(journal.ActionDelete, e.ID, e.Summary, "")
			}
			return actionDoneMsg{from: from, to: to, desc: desc, err: err}
		}
	}
	return m.rsvp(internal.Declined)
}

// createFocus books the slot under the cursor, or every core-hours
// available slot in view when the cursor is elsewhere.
func (m *Model) createFocus() tea.Cmd {
	var slots []internal.Event
	if e, ok := m.current(); ok && e.Kind == internal.KindAvailable {
		slots = []internal.Event{e}
	} else {
		for _, e := range m.visible {
			if e.Kind == internal.KindAvailable && !e.OffHours {
				slots = append(slots, e)
			}
		}
	}
	if len(slots) == 0 {
		return nil
	}

	for _, s := range slots {
		m.cache.Insert(internal.Event{
			ID:       uuid.NewString(),
			Kind:     internal.KindFocusTime,
			Summary:  gcal.FocusTitle(s.End.Sub(*s.Start)),
			Start:    s.Start,
			End:      s.End,
			Response: internal.Accepted,
		})
	}
	m.recompute()

	from := m.anchor.Time
	to := m.anchor.AddDate(0, 0, m.mode.Days()).Time
	desc := fmt.Sprintf("created %d focus block(s)", len(slots))
	return func() tea.Msg {
		for _, s := range slots {
			if err := m.cal.CreateFocusTime(m.ctx, *s.Start, *s.End); err != nil {
				return actionDoneMsg{from: from, to: to, desc: desc, err: err}
			}
			m.record(journal.ActionCreateFocus, "", gcal.FocusTitle(s.End.Sub(*s.Start)),
				fmt.Sprintf("%s - %s", s.Start.Format(time.RFC3339), s.End.Format(time.RFC3339)))
		}
		return actionDoneMsg{from: from, to: to, desc: desc}
	}
}

func (m *Model) startFetch(from, to time.Time, merge bool) tea.Cmd {
	if m.fetchCancel != nil {
		m.fetchCancel()
	}
	ctx, cancel := context.WithCancel(m.ctx)
	m.fetchCancel = cancel

	m.fetchGen++
	gen := m.fetchGen
	m.fetching = true
	showDeclined := m.showDeclined

	return func() tea.Msg {
		defer cancel()
		events, err := m.cal.ListEvents(ctx, from, to, showDeclined)
		if err != nil {
			return fetchErrMsg{gen: gen, err: err}
		}
		return eventsMsg{gen: gen, events: events, from: from, to: to, merge: merge}
	}
}

// startRecommendations feeds the visible meetings to the assistant,
// cancelling any run still in flight.
func (m *Model) startRecommendations() tea.Cmd {
	if m.rec == nil {
		return nil
	}
	if m.recCancel != nil {
		m.recCancel()
	}
	ctx, cancel := context.WithCancel(m.ctx)
	m.recCancel = cancel

	m.recGen++
	gen := m.recGen
	m.recRunning = true

	var events []internal.Event
	for _, e := range m.visible {
		if e.Kind != internal.KindAvailable {
			events = append(events, e)
		}
	}

	return func() tea.Msg {
		defer cancel()
		recs, err := m.rec.Run(ctx, events)
		return recsMsg{gen: gen, recs: recs, err: err}
	}
}

func (m *Model) recompute() {
	m.visible = schedule.Select(m.cache.Events(), m.anchor, m.mode, m.showDeclined)
	m.clampCursor()
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// positionCursor lands on the event happening now, or the next upcoming
// one.
func (m *Model) positionCursor() {
	now := m.now()
	for i, e := range m.visible {
		if e.ActiveAt(now) {
			m.cursor = i
			return
		}
	}
	for i, e := range m.visible {
		if e.Kind == internal.KindAllDay || !e.Timed() {
			continue
		}
		if e.Start.After(now) {
			m.cursor = i
			return
		}
	}
	m.clampCursor()
}

func (m *Model) dayRange(e internal.Event) (time.Time, time.Time) {
	day := m.anchor
	if e.Start != nil {
		day = internal.NewDateFromTime(*e.Start)
	}
	return day.Time, day.AddDate(0, 0, 1).Time
}

func (m *Model) record(action journal.Action, eventID, summary, detail string) {
	if m.journal == nil {
		return
	}
	if err := m.journal.Record(m.ctx, action, eventID, summary, detail); err != nil {
		m.debug.Printf("journal: %v", err)
	}
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}
