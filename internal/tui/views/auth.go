package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/benjamintian2005/AITripPlanner/internal/auth"
	"github.com/benjamintian2005/AITripPlanner/internal/model"
	"github.com/benjamintian2005/AITripPlanner/internal/tui/styles"
)

// Field indices. fieldMode is a virtual field (not a textinput).
const (
	fieldMode = iota
	fieldName
	fieldEmail
	fieldPassword
	fieldCount
)

const authTimeout = 20 * time.Second

// AuthModel is the sign-in / registration screen.
type AuthModel struct {
	authenticator auth.Authenticator
	inputs        []textinput.Model
	mode          auth.Mode
	focused       int
	loading       bool
	spinner       spinner.Model
	notice        *model.Notice
}

type authResultMsg struct {
	mode auth.Mode
	user auth.User
	err  error
}

func NewAuthModel(a auth.Authenticator, lastEmail string) AuthModel {
	inputs := make([]textinput.Model, fieldCount)
	inputs[fieldMode] = textinput.New() // placeholder, never used
	inputs[fieldName] = newInput("Full Name", "", 40)
	inputs[fieldEmail] = newInput("Email", lastEmail, 40)
	inputs[fieldPassword] = newInput("Password", "", 40)
	inputs[fieldPassword].EchoMode = textinput.EchoPassword
	inputs[fieldPassword].EchoCharacter = '•'

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	m := AuthModel{
		authenticator: a,
		inputs:        inputs,
		mode:          auth.ModeLogin,
		focused:       fieldEmail,
		spinner:       sp,
	}
	if lastEmail != "" {
		m.focused = fieldPassword
	}
	m.inputs[m.focused].Focus()
	return m
}

func (m AuthModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m AuthModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case authResultMsg:
		return m.handleResult(msg)
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		key := msg.String()

		if m.notice != nil {
			if isDismissKey(key) {
				m.notice = nil
			}
			return m, nil
		}
		if m.loading {
			return m, nil
		}

		switch key {
		case "esc", "q":
			if key == "esc" || m.focused == fieldMode {
				return m, tea.Quit
			}
		case "up", "shift+tab":
			return m, m.focusPrev()
		case "down", "tab":
			return m, m.focusNext()
		case "left", "right":
			if m.focused == fieldMode {
				m.toggleMode()
				return m, nil
			}
		case "ctrl+t":
			m.toggleMode()
			return m, m.focusField(fieldEmail)
		case "enter":
			if m.focused == fieldMode {
				m.toggleMode()
				return m, nil
			}
			return m.submit()
		}
	}

	var cmd tea.Cmd
	if m.focused != fieldMode {
		m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	}
	return m, cmd
}

// toggleMode switches login/register and clears every field.
func (m *AuthModel) toggleMode() {
	m.mode = m.mode.Toggle()
	for i := fieldName; i < fieldCount; i++ {
		m.inputs[i].SetValue("")
	}
}

func (m AuthModel) credentials() auth.Credentials {
	return auth.Credentials{
		Mode:     m.mode,
		Name:     m.inputs[fieldName].Value(),
		Email:    m.inputs[fieldEmail].Value(),
		Password: m.inputs[fieldPassword].Value(),
	}
}

func (m AuthModel) submit() (tea.Model, tea.Cmd) {
	creds := m.credentials()
	if err := auth.Validate(creds); err != nil {
		n := auth.NoticeFor(err)
		m.notice = &n
		return m, nil
	}

	m.loading = true
	a := m.authenticator
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
		defer cancel()
		user, err := auth.Submit(ctx, a, creds)
		return authResultMsg{mode: creds.Mode, user: user, err: err}
	})
}

func (m AuthModel) handleResult(msg authResultMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	if msg.err != nil {
		n := auth.NoticeFor(msg.err)
		m.notice = &n
		return m, nil
	}
	if msg.mode == auth.ModeRegister {
		// Registered accounts sign in explicitly.
		m.mode = auth.ModeLogin
		m.inputs[fieldPassword].SetValue("")
		n := auth.RegisteredNotice
		m.notice = &n
		return m, m.focusField(fieldPassword)
	}
	user := msg.user
	if user.Email == "" {
		user.Email = strings.TrimSpace(m.inputs[fieldEmail].Value())
	}
	return m, func() tea.Msg { return SignedIn{User: user} }
}

func (m *AuthModel) focusField(idx int) tea.Cmd {
	if m.focused != fieldMode {
		m.inputs[m.focused].Blur()
	}
	m.focused = idx
	if idx == fieldMode {
		return nil
	}
	m.inputs[idx].Focus()
	return textinput.Blink
}

func (m *AuthModel) focusNext() tea.Cmd {
	next := m.skipField(m.focused+1, 1)
	if next >= fieldCount {
		next = fieldMode
	}
	return m.focusField(next)
}

func (m *AuthModel) focusPrev() tea.Cmd {
	prev := m.skipField(m.focused-1, -1)
	if prev < 0 {
		prev = fieldPassword
	}
	return m.focusField(prev)
}

// skipField steps over the name field in login mode.
func (m *AuthModel) skipField(idx, dir int) int {
	if m.mode == auth.ModeLogin && idx == fieldName {
		idx += dir
	}
	return idx
}

func (m AuthModel) View() string {
	var b strings.Builder

	title, sub := "Welcome Back", "Sign in to continue"
	if m.mode == auth.ModeRegister {
		title, sub = "Create Account", "Sign up to get started"
	}
	b.WriteString(styles.Title.Render(title) + "\n")
	b.WriteString(styles.Hint.Render(sub) + "\n\n")

	b.WriteString(m.renderMode())
	b.WriteString("\n")

	if m.mode == auth.ModeRegister {
		b.WriteString(m.renderField("Name:", fieldName))
	}
	b.WriteString(m.renderField("Email:", fieldEmail))
	b.WriteString(m.renderField("Password:", fieldPassword))

	b.WriteString("\n")
	if m.loading {
		b.WriteString(m.spinner.View() + " " + styles.Hint.Render("Contacting server..."))
		b.WriteString("\n")
	}

	action := "sign in"
	if m.mode == auth.ModeRegister {
		action = "sign up"
	}
	b.WriteString(styles.StatusBar.Render(fmt.Sprintf("enter %s • tab next • ctrl+t switch mode • esc quit", action)))

	out := styles.Border.Render(b.String())
	if m.notice != nil {
		out = lipgloss.JoinVertical(lipgloss.Center, out, renderNotice(*m.notice))
	}
	return out
}

func (m AuthModel) renderMode() string {
	label := styles.Label.Render("Mode:")

	active := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	inactive := lipgloss.NewStyle().Foreground(styles.Muted)

	var loginStr, registerStr string
	if m.mode == auth.ModeLogin {
		loginStr = active.Render("< Sign In >")
		registerStr = inactive.Render("Sign Up")
	} else {
		loginStr = inactive.Render("Sign In")
		registerStr = active.Render("< Sign Up >")
	}

	line := fmt.Sprintf("%s  %s   %s", label, loginStr, registerStr)
	if m.focused == fieldMode {
		line += lipgloss.NewStyle().Foreground(styles.Secondary).Render(" ←→")
	}
	return line + "\n"
}

func (m AuthModel) renderField(label string, idx int) string {
	return fmt.Sprintf("%s %s\n", styles.Label.Render(label), m.inputs[idx].View())
}

// SignedIn is sent after a successful login.
type SignedIn struct {
	User auth.User
}
