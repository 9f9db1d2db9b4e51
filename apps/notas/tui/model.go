// Package tui is the terminal front-end: a login form, the student
// roster and the week-by-week grade grid, glued to the API client and
// the session manager.
package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/uia-acad/notas/client"
	"github.com/uia-acad/notas/core"
	"github.com/uia-acad/notas/core/session"
)

// Screen identifies which view is active.
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenStudents
	ScreenGrades
)

// Deps is everything the program needs from the outside.
type Deps struct {
	Conf     *core.Config
	API      *client.Client
	Sessions *session.Manager
	Logger   core.Logger
}

// Model is the top-level bubbletea model.
type Model struct {
	deps  Deps
	theme Theme
	keys  KeyMap

	screen Screen
	width  int
	height int

	login    loginModel
	students studentsModel
	grades   gradesModel

	// notice is the transient status-bar message (session end reasons,
	// export confirmations). Cleared by noticeFadeMsg.
	notice string
}

func NewModel(deps Deps) Model {
	model := Model{
		deps:   deps,
		theme:  DefaultTheme,
		keys:   DefaultKeyMap,
		screen: ScreenLogin,
		login:  newLoginModel(),
	}

	// A session restored at start-up skips the login screen.
	if sess := deps.Sessions.Current(); sess != nil {
		model.screen = ScreenStudents
		model.students = newStudentsModel()
	}
	return model
}

func (model Model) Init() tea.Cmd {
	if model.screen == ScreenStudents {
		return tea.Batch(model.login.input(), loadStudents(model.deps))
	}
	return model.login.input()
}

func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		return model, nil

	case SessionEndedMsg:
		model.screen = ScreenLogin
		model.login = newLoginModel()
		model.notice = string(message.Reason)
		return model, tea.Batch(model.login.input(), fadeNotice())

	case noticeFadeMsg:
		model.notice = ""
		return model, nil

	case tea.KeyMsg:
		// Every keystroke counts as activity.
		model.deps.Sessions.Touch()

		switch {
		case key.Matches(message, model.keys.Quit):
			return model, tea.Quit
		case key.Matches(message, model.keys.Logout) && model.screen != ScreenLogin:
			model.deps.Sessions.End()
			model.screen = ScreenLogin
			model.login = newLoginModel()
			return model, model.login.input()
		}

	case tea.MouseMsg:
		model.deps.Sessions.Touch()
		return model, nil
	}

	return model.routeUpdate(message)
}

func (model Model) routeUpdate(message tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch model.screen {
	case ScreenLogin:
		model, cmd = model.updateLogin(message)
	case ScreenStudents:
		model, cmd = model.updateStudents(message)
	case ScreenGrades:
		model, cmd = model.updateGrades(message)
	}
	return model, cmd
}

func (model Model) View() string {
	var body string
	switch model.screen {
	case ScreenLogin:
		body = model.viewLogin()
	case ScreenStudents:
		body = model.viewStudents()
	case ScreenGrades:
		body = model.viewGrades()
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, model.statusBar())
}

func (model Model) statusBar() string {
	left := model.deps.Conf.AppName
	if sess := model.deps.Sessions.Current(); sess != nil {
		left += " · " + sess.Name + " (" + string(sess.Role) + ")"
	}
	if model.notice != "" {
		return model.theme.StatusBar.Render(left) + " " + model.theme.Notice.Render(model.notice)
	}
	return model.theme.StatusBar.Render(left)
}
