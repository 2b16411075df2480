package tui

import (
	"io"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/benjamintian2005/AITripPlanner/internal/auth"
	"github.com/benjamintian2005/AITripPlanner/internal/engine/geo"
	"github.com/benjamintian2005/AITripPlanner/internal/engine/storage"
	"github.com/benjamintian2005/AITripPlanner/internal/tui/views"
)

type viewID int

const (
	viewAuth viewID = iota
	viewHome
	viewSurvey
	viewEvent
	viewFeedback
	viewHistory
)

// Deps wires the TUI to storage, authentication and location services.
type Deps struct {
	Store      *storage.Store
	Auth       auth.Authenticator
	Location   views.LocationDeps
	Boundaries *geo.BoundaryStore // optional, outlines countries on the history map
	ExportDir  string
	DataDir    string
	Logger     *log.Logger
}

// App is the root bubbletea model.
type App struct {
	deps        Deps
	currentView viewID
	width       int
	height      int
	user        auth.User

	auth     views.AuthModel
	home     views.HomeModel
	survey   views.SurveyModel
	event    views.EventModel
	feedback views.FeedbackModel
	history  views.HistoryModel
}

func NewApp(deps Deps) App {
	if deps.Logger == nil {
		deps.Logger = log.New(io.Discard, "", 0)
	}
	return App{
		deps:        deps,
		currentView: viewAuth,
		auth:        views.NewAuthModel(deps.Auth, LastEmail(deps.DataDir)),
	}
}

func (a App) Init() tea.Cmd {
	return a.auth.Init()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			a.closeSurvey()
			return a, tea.Quit
		}
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
	case views.SignedIn:
		a.user = msg.User
		a.deps.Logger.Printf("SIGN-IN email=%s", msg.User.Email)
		if err := SaveRecent(a.deps.DataDir, msg.User.Email); err != nil {
			a.deps.Logger.Printf("WARN recent sign-ins: %v", err)
		}
		return a.goHome()
	case views.SignOut:
		a.deps.Logger.Printf("SIGN-OUT email=%s", a.user.Email)
		a.user = auth.User{}
		a.currentView = viewAuth
		a.auth = views.NewAuthModel(a.deps.Auth, LastEmail(a.deps.DataDir))
		return a, a.auth.Init()
	case views.NavigateToHome:
		a.closeSurvey()
		return a.goHome()
	case views.NavigateToSurvey:
		a.currentView = viewSurvey
		a.survey = views.NewSurveyModel(a.deps.Store, a.deps.Location, a.deps.Logger)
		return a, tea.Batch(a.survey.Init(), a.sizeCmd())
	case views.NavigateToEvent:
		a.currentView = viewEvent
		a.event = views.NewEventModel(msg)
		return a, tea.Batch(a.event.Init(), a.sizeCmd())
	case views.NavigateToFeedback:
		a.currentView = viewFeedback
		a.feedback = views.NewFeedbackModel(a.deps.Store, msg.Submission, a.deps.Logger)
		return a, a.feedback.Init()
	case views.NavigateToHistory:
		a.currentView = viewHistory
		a.history = views.NewHistoryModel(a.deps.Store, a.deps.Boundaries, a.deps.ExportDir)
		return a, tea.Batch(a.history.Init(), a.sizeCmd())
	}

	var cmd tea.Cmd
	var m tea.Model
	switch a.currentView {
	case viewAuth:
		m, cmd = a.auth.Update(msg)
		a.auth = m.(views.AuthModel)
	case viewHome:
		m, cmd = a.home.Update(msg)
		a.home = m.(views.HomeModel)
	case viewSurvey:
		m, cmd = a.survey.Update(msg)
		a.survey = m.(views.SurveyModel)
	case viewEvent:
		m, cmd = a.event.Update(msg)
		a.event = m.(views.EventModel)
	case viewFeedback:
		m, cmd = a.feedback.Update(msg)
		a.feedback = m.(views.FeedbackModel)
	case viewHistory:
		m, cmd = a.history.Update(msg)
		a.history = m.(views.HistoryModel)
	}

	return a, cmd
}

func (a App) goHome() (tea.Model, tea.Cmd) {
	count, err := a.deps.Store.CountSubmissions()
	if err != nil {
		a.deps.Logger.Printf("WARN count submissions: %v", err)
	}
	feedback, err := a.deps.Store.ListFeedback()
	if err != nil {
		a.deps.Logger.Printf("WARN list feedback: %v", err)
	}
	a.currentView = viewHome
	a.home = views.NewHomeModel(a.user, count, feedback)
	return a, a.home.Init()
}

// closeSurvey cancels any in-flight location lookup of an open survey.
func (a App) closeSurvey() {
	if a.currentView == viewSurvey {
		a.survey.Close()
	}
}

func (a App) View() string {
	var content string
	switch a.currentView {
	case viewAuth:
		content = a.auth.View()
	case viewHome:
		content = a.home.View()
	case viewSurvey:
		content = a.survey.View()
	case viewEvent:
		content = a.event.View()
	case viewFeedback:
		content = a.feedback.View()
	case viewHistory:
		content = a.history.View()
	}

	return lipgloss.Place(
		a.width, a.height,
		lipgloss.Center, lipgloss.Top,
		content,
	)
}

// sizeCmd sends a WindowSizeMsg so newly created views get the current terminal size.
func (a App) sizeCmd() tea.Cmd {
	w, h := a.width, a.height
	return func() tea.Msg {
		return tea.WindowSizeMsg{Width: w, Height: h}
	}
}

// Run starts the TUI.
func Run(deps Deps) error {
	p := tea.NewProgram(NewApp(deps), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
