package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/benjamintian2005/AITripPlanner/internal/event"
	"github.com/benjamintian2005/AITripPlanner/internal/model"
	"github.com/benjamintian2005/AITripPlanner/internal/survey"
	"github.com/benjamintian2005/AITripPlanner/internal/tui/styles"
)

// EventModel shows the recommended event after a survey submission.
type EventModel struct {
	event   event.Event
	sub     model.Submission
	flash   string
	scrollY int
	height  int
}

func NewEventModel(msg NavigateToEvent) EventModel {
	return EventModel{
		event: event.Featured(),
		sub:   msg.Submission,
		flash: msg.Flash,
	}
}

func (m EventModel) Init() tea.Cmd {
	return nil
}

func (m EventModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "f":
			sub := m.sub
			return m, func() tea.Msg { return NavigateToFeedback{Submission: sub} }
		case "esc", "h", "q":
			return m, func() tea.Msg { return NavigateToHome{} }
		case "up", "k":
			if m.scrollY > 0 {
				m.scrollY--
			}
		case "down", "j":
			if m.scrollY < len(m.lines())-m.visibleLines() {
				m.scrollY++
			}
		}
	}
	return m, nil
}

func (m EventModel) visibleLines() int {
	h := m.height - 8
	if h < 10 {
		h = 10
	}
	return h
}

func (m EventModel) lines() []string {
	ev := m.event
	section := lipgloss.NewStyle().Bold(true).Foreground(styles.Secondary)
	muted := lipgloss.NewStyle().Foreground(styles.Muted)

	var lines []string
	add := func(s ...string) { lines = append(lines, s...) }

	add(styles.Title.UnsetMarginBottom().Render(ev.Title))
	add(muted.Render("📅 "+ev.Date), muted.Render("📍 "+ev.Location))
	add(lipgloss.NewStyle().Foreground(styles.Success).Bold(true).Render(ev.Price), "")

	add(section.Render("Your Trip"))
	rec := m.sub.Record
	where := rec.LocationLabel
	if c := rec.Coordinates; c != nil {
		where += fmt.Sprintf(" (%.4f, %.4f)", c.Lat, c.Lng)
	}
	row := func(label, value string) {
		if value != "" {
			add(styles.Label.Render(label) + styles.Value.Render(value))
		}
	}
	row("Destination", where)
	row("Budget", survey.OptionLabel(survey.FieldBudgetTier, rec.BudgetTier))
	row("Travelling as", survey.OptionLabel(survey.FieldGroupType, rec.GroupType))
	row("Group size", survey.OptionLabel(survey.FieldGroupSize, rec.GroupSize))
	row("Duration", rec.DurationDays+" days")
	if rec.ChildFriendly {
		row("Child friendly", "Yes")
	}
	add("")

	add(section.Render("About"))
	add(lipgloss.NewStyle().Width(70).Render(ev.Description), "")

	add(section.Render("Schedule"))
	for _, item := range ev.Schedule {
		add(lipgloss.NewStyle().Foreground(styles.Primary).Render(item.Time) + "  " + styles.Value.Bold(true).Render(item.Title))
		if item.Speaker != "" {
			add(muted.Render("    Speaker: " + item.Speaker))
		}
		if item.Description != "" {
			add(muted.Render("    " + item.Description))
		}
	}
	add("")

	add(section.Render("Speakers"))
	for _, s := range ev.Speakers {
		add(styles.Value.Bold(true).Render(s.Name) + muted.Render(fmt.Sprintf("  %s, %s", s.Role, s.Company)))
	}
	return lines
}

func (m EventModel) View() string {
	lines := m.lines()
	h := m.visibleLines()
	start := m.scrollY
	if start > len(lines)-h {
		start = len(lines) - h
	}
	if start < 0 {
		start = 0
	}
	end := min(start+h, len(lines))

	var b strings.Builder
	if m.flash != "" {
		b.WriteString(styles.SuccessText.Render(m.flash) + "\n\n")
	}
	b.WriteString(strings.Join(lines[start:end], "\n"))
	if end < len(lines) {
		b.WriteString("\n" + styles.Hint.Render("  ▼ more below"))
	}
	b.WriteString("\n")
	b.WriteString(styles.StatusBar.Render("↑↓ scroll • f give feedback • esc home"))
	return styles.Border.Render(b.String())
}

// NavigateToFeedback opens the feedback form for the event shown with a submission.
type NavigateToFeedback struct {
	Submission model.Submission
}
