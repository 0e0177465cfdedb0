package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jpacker/caltui/internal"
	"github.com/jpacker/caltui/internal/schedule"
)

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.titleLine())
	b.WriteString("\n\n")
	b.WriteString(m.table())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")

	if recs := m.recommendations(); recs != "" {
		b.WriteString("\n")
		b.WriteString(recs)
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("↑/↓ move  ←/→ day  enter attendees  a/t/d rsvp  f focus  s declined  r refresh  q quit"))

	if m.overlay {
		if e, ok := m.current(); ok {
			return b.String() + "\n\n" + m.attendeeOverlay(e)
		}
	}
	return b.String()
}

func (m *Model) titleLine() string {
	title := m.anchor.Format("Mon, Jan 2 2006")
	if m.mode == schedule.TwoDay {
		title += " - " + m.anchor.AddDate(0, 0, 1).Format("Mon, Jan 2 2006")
	}
	out := titleStyle.Render(title)
	if m.fetching || m.recRunning {
		out += "  " + m.spin.View()
	}
	return out
}

func (m *Model) table() string {
	if len(m.visible) == 0 {
		if m.fetching {
			return dimStyle.Render("  loading...")
		}
		return dimStyle.Render("  no events")
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("  %-7s %-19s %-40s %-5s %s", "DAY", "TIME", "EVENT", "ATT", "LINK")))
	b.WriteString("\n")

	now := m.now()
	for i, e := range m.visible {
		marker := "  "
		if e.ActiveAt(now) {
			marker = activeMarkerStyle.Render("▶ ")
		}

		day := ""
		if e.Start != nil {
			day = e.Start.Format("Mon 02")
		}

		att := ""
		if accepted, total := e.AcceptedCount(); total > 0 {
			att = fmt.Sprintf("%d/%d", accepted, total)
		}
		link, _ := e.MeetLink()

		row := fmt.Sprintf("%-7s %-19s %-40s %-5s %s",
			day, e.TimeLabel(), m.summaryCell(e), att, link)
		if i == m.cursor {
			b.WriteString(marker + cursorStyle.Render(row))
		} else {
			b.WriteString(marker + m.rowStyle(e).Render(row))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// summaryCell is the event title, with weight blocks on available slots.
func (m *Model) summaryCell(e internal.Event) string {
	if e.Kind == internal.KindAvailable {
		return fmt.Sprintf("%-12s %s", "Available", strings.Repeat("■", e.Weight))
	}
	s := e.Summary
	if len(s) > 40 {
		s = s[:37] + "..."
	}
	return s
}

func (m *Model) rowStyle(e internal.Event) lipgloss.Style {
	switch e.Category() {
	case internal.CategoryAvailable:
		if e.OffHours {
			return offHoursStyle
		}
		return availableStyle
	case internal.CategoryFocus:
		return focusStyle
	case internal.CategoryTask:
		return taskStyle
	case internal.CategoryAccepted:
		return acceptedStyle
	case internal.CategoryDeclined:
		return declinedStyle
	case internal.CategoryTentative:
		return tentativeStyle
	case internal.CategoryNeedsAction:
		return pendingStyle
	}
	return dimStyle
}

func (m *Model) statusLine() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return errorStyle.Render(m.status)
	}
	return statusStyle.Render(m.status)
}

func (m *Model) recommendations() string {
	if len(m.recs) == 0 {
		return ""
	}
	width := m.width
	if width <= 0 {
		width = 80
	}

	var b strings.Builder
	b.WriteString(recHeaderStyle.Render("Recommendations"))
	b.WriteString("\n")
	for _, r := range m.recs {
		b.WriteString(wordwrap.String("• "+r.Header, width-2))
		b.WriteString("\n")
		for _, d := range r.Detail {
			b.WriteString(recDetailStyle.Render(wordwrap.String("    "+d, width-4)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// attendeeOverlay groups attendees by response with counts.
func (m *Model) attendeeOverlay(e internal.Event) string {
	groups := []struct {
		label string
		resp  internal.ResponseStatus
	}{
		{"Accepted", internal.Accepted},
		{"Tentative", internal.Tentative},
		{"No response", internal.NeedsAction},
		{"Declined", internal.Declined},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(e.Summary))
	b.WriteString("\n")
	for _, g := range groups {
		var names []string
		for _, a := range e.Attendees {
			if a.Response == g.resp {
				names = append(names, a.Name())
			}
		}
		if len(names) == 0 {
			continue
		}
		b.WriteString(fmt.Sprintf("\n%s (%d)\n", g.label, len(names)))
		for _, n := range names {
			b.WriteString("  " + n + "\n")
		}
	}
	return overlayStyle.Render(strings.TrimRight(b.String(), "\n"))
}
