package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/uia-acad/notas/client"
)

type loginModel struct {
	email    textinput.Model
	password textinput.Model
	focus    int // 0 = email, 1 = password
	busy     bool
	errText  string
}

func newLoginModel() loginModel {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 254
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 128

	return loginModel{email: email, password: password}
}

func (m loginModel) input() tea.Cmd { return textinput.Blink }

func submitLogin(deps Deps, email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), deps.Conf.RequestTimeout)
		defer cancel()

		token, err := deps.API.Login(ctx, client.Credentials{Email: email, Password: password})
		if err != nil {
			return loginDoneMsg{err: err}
		}
		sess, err := deps.Sessions.Begin(token)
		if err != nil {
			return loginDoneMsg{err: err}
		}
		return loginDoneMsg{sess: sess}
	}
}

func (model Model) updateLogin(message tea.Msg) (Model, tea.Cmd) {
	switch message := message.(type) {
	case loginDoneMsg:
		model.login.busy = false
		if message.err != nil {
			model.login.errText = message.err.Error()
			model.login.password.SetValue("")
			return model, nil
		}
		model.screen = ScreenStudents
		model.students = newStudentsModel()
		return model, loadStudents(model.deps)

	case tea.KeyMsg:
		if model.login.busy {
			return model, nil
		}
		switch {
		case key.Matches(message, model.keys.Enter):
			if model.login.focus == 0 {
				return model, model.login.setFocus(1)
			}
			model.login.busy = true
			model.login.errText = ""
			return model, submitLogin(model.deps, model.login.email.Value(), model.login.password.Value())

		case message.String() == "tab", message.String() == "shift+tab":
			return model, model.login.setFocus((model.login.focus + 1) % 2)
		}
	}

	var cmd tea.Cmd
	if model.login.focus == 0 {
		model.login.email, cmd = model.login.email.Update(message)
	} else {
		model.login.password, cmd = model.login.password.Update(message)
	}
	return model, cmd
}

func (m *loginModel) setFocus(focus int) tea.Cmd {
	m.focus = focus
	if focus == 0 {
		m.password.Blur()
		return m.email.Focus()
	}
	m.email.Blur()
	return m.password.Focus()
}

func (model Model) viewLogin() string {
	t := model.theme

	lines := []string{
		t.Title.Render("Sign in"),
		"",
		fieldLabel(t, "Email", model.login.focus == 0) + model.login.email.View(),
		fieldLabel(t, "Password", model.login.focus == 1) + model.login.password.View(),
	}
	if model.login.busy {
		lines = append(lines, "", t.Subtitle.Render("signing in..."))
	}
	if model.login.errText != "" {
		lines = append(lines, "", t.Error.Render(model.login.errText))
	}
	lines = append(lines, "", t.Help.Render("tab: switch field · enter: submit · ctrl+c: quit"))

	return t.Box.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func fieldLabel(t Theme, text string, focused bool) string {
	if focused {
		return t.Title.Render(text + ": ")
	}
	return t.Subtitle.Render(text + ": ")
}
