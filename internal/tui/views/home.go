package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/benjamintian2005/AITripPlanner/internal/auth"
	"github.com/benjamintian2005/AITripPlanner/internal/event"
	"github.com/benjamintian2005/AITripPlanner/internal/model"
	"github.com/benjamintian2005/AITripPlanner/internal/tui/styles"
)

type menuItem struct {
	key   string
	label string
	desc  string
	msg   tea.Msg
}

type HomeModel struct {
	user        auth.User
	submissions int
	feedback    []model.Feedback
	items       []menuItem
	cursor      int
}

// NewHomeModel builds the menu. feedback is expected newest first.
func NewHomeModel(user auth.User, submissions int, feedback []model.Feedback) HomeModel {
	return HomeModel{
		user:        user,
		submissions: submissions,
		feedback:    feedback,
		items: []menuItem{
			{key: "s", label: "Start Survey", desc: "Plan a new trip", msg: NavigateToSurvey{}},
			{key: "h", label: "Past Submissions", desc: "Browse stored surveys", msg: NavigateToHistory{}},
			{key: "o", label: "Sign Out", desc: "Return to the sign-in screen", msg: SignOut{}},
			{key: "q", label: "Quit", desc: "Exit tripadapt"},
		},
	}
}

func (m HomeModel) Init() tea.Cmd {
	return nil
}

func (m HomeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case "enter":
			return m, m.handleSelect()
		default:
			for i, item := range m.items {
				if item.key == key {
					m.cursor = i
					return m, m.handleSelect()
				}
			}
		}
	}
	return m, nil
}

func (m HomeModel) handleSelect() tea.Cmd {
	item := m.items[m.cursor]
	if item.msg == nil {
		return tea.Quit
	}
	return func() tea.Msg { return item.msg }
}

func (m HomeModel) View() string {
	var b strings.Builder

	logo := lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		Render("  tripadapt")

	version := lipgloss.NewStyle().
		Foreground(styles.Muted).
		Render(" v0.1.0")

	name := m.user.Name
	if name == "" {
		name = m.user.Email
	}
	tagline := lipgloss.NewStyle().
		Foreground(styles.Secondary).
		Italic(true).
		Render(fmt.Sprintf("  Welcome, %s", name))

	b.WriteString(logo + version + "\n")
	b.WriteString(tagline + "\n")
	b.WriteString(styles.Hint.Render(m.summary()) + "\n\n")

	for i, item := range m.items {
		cursor := "  "
		style := styles.InactiveItem
		if i == m.cursor {
			cursor = "> "
			style = styles.ActiveItem
		}

		key := styles.Key.Render(fmt.Sprintf("[%s]", item.key))
		desc := lipgloss.NewStyle().
			Foreground(styles.Muted).
			Render(" - " + item.desc)

		b.WriteString(fmt.Sprintf("%s%s %s%s\n", cursor, key, style.Render(item.label), desc))
	}

	b.WriteString("\n")
	b.WriteString(styles.StatusBar.Render("↑↓ navigate • enter select • q quit"))

	return styles.Border.Render(b.String())
}

func (m HomeModel) summary() string {
	s := fmt.Sprintf("  %d stored submissions, %d feedback responses", m.submissions, len(m.feedback))
	if len(m.feedback) == 0 {
		return s
	}
	latest := m.feedback[0]
	mood := latest.Emotion
	if e, ok := event.LookupEmotion(latest.Emotion); ok {
		mood = e.Emoji + " " + e.Label
	}
	s += "\n  Latest feedback: " + mood
	if latest.EventTitle != "" {
		s += " (" + latest.EventTitle + ")"
	}
	return s
}

// Navigation messages
type NavigateToHome struct{}
type NavigateToSurvey struct{}
type NavigateToHistory struct{}
type SignOut struct{}
