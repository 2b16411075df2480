package views

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/benjamintian2005/AITripPlanner/internal/event"
	"github.com/benjamintian2005/AITripPlanner/internal/model"
	"github.com/benjamintian2005/AITripPlanner/internal/tui/styles"
)

// FeedbackSaver persists feedback; *storage.Store implements it.
type FeedbackSaver interface {
	SaveFeedback(fb model.Feedback) error
}

const feedbackColumns = 2

// FeedbackModel asks how the user felt about the event.
type FeedbackModel struct {
	store    FeedbackSaver
	logger   *log.Logger
	sub      model.Submission
	title    string
	emotions []event.Emotion
	cursor   int
	selected string
	notice   *model.Notice
}

func NewFeedbackModel(store FeedbackSaver, sub model.Submission, logger *log.Logger) FeedbackModel {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return FeedbackModel{
		store:    store,
		logger:   logger,
		sub:      sub,
		title:    event.Featured().Title,
		emotions: event.Emotions(),
	}
}

func (m FeedbackModel) Init() tea.Cmd {
	return nil
}

func (m FeedbackModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	key := km.String()

	if m.notice != nil {
		if isDismissKey(key) {
			m.notice = nil
		}
		return m, nil
	}

	switch key {
	case "left", "h":
		if m.cursor > 0 {
			m.cursor--
		}
	case "right", "l":
		if m.cursor < len(m.emotions)-1 {
			m.cursor++
		}
	case "up", "k":
		if m.cursor >= feedbackColumns {
			m.cursor -= feedbackColumns
		}
	case "down", "j":
		if m.cursor+feedbackColumns < len(m.emotions) {
			m.cursor += feedbackColumns
		}
	case " ":
		m.selected = m.emotions[m.cursor].ID
	case "enter":
		return m.submit()
	case "esc":
		sub := m.sub
		return m, func() tea.Msg { return NavigateToEvent{Submission: sub} }
	}
	return m, nil
}

func (m FeedbackModel) submit() (tea.Model, tea.Cmd) {
	fb, err := event.NewFeedback(m.selected, m.title)
	if errors.Is(err, event.ErrNoEmotion) {
		n := event.NoEmotionNotice
		m.notice = &n
		return m, nil
	}
	if err == nil {
		err = m.store.SaveFeedback(fb)
	}
	if err != nil {
		n := model.Notice{Title: "Error", Message: err.Error()}
		m.notice = &n
		return m, nil
	}

	m.logger.Printf("FEEDBACK id=%s emotion=%s", fb.ID, fb.Emotion)
	sub := m.sub
	return m, func() tea.Msg {
		return NavigateToEvent{Submission: sub, Flash: "Thanks for your feedback!"}
	}
}

func (m FeedbackModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Event Feedback") + "\n")
	b.WriteString(styles.Value.Bold(true).Render(fmt.Sprintf("How did you feel about the %s?", m.title)) + "\n")
	b.WriteString(styles.Hint.Render("Select the emotion that best describes your overall experience") + "\n\n")

	cellW := 38
	var rows []string
	for i := 0; i < len(m.emotions); i += feedbackColumns {
		var cells []string
		for j := i; j < i+feedbackColumns && j < len(m.emotions); j++ {
			cells = append(cells, m.renderEmotion(j, cellW))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	b.WriteString(lipgloss.JoinVertical(lipgloss.Left, rows...))
	b.WriteString("\n")
	b.WriteString(styles.StatusBar.Render("←↑↓→ move • space select • enter submit • esc back"))

	out := styles.Border.Render(b.String())
	if m.notice != nil {
		out = lipgloss.JoinVertical(lipgloss.Center, out, renderNotice(*m.notice))
	}
	return out
}

func (m FeedbackModel) renderEmotion(i, w int) string {
	e := m.emotions[i]
	border := styles.Muted
	if i == m.cursor {
		border = styles.Primary
	}
	labelStyle := styles.Value.Bold(true)
	if e.ID == m.selected {
		border = styles.Success
		labelStyle = labelStyle.Foreground(styles.Success)
	}
	body := e.Emoji + " " + labelStyle.Render(e.Label) + "\n" + styles.Hint.Render(e.Description)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(w).
		Render(body)
}
