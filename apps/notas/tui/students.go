package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/uia-acad/notas/core/student"
	"github.com/uia-acad/notas/core/teacher"
)

type studentsModel struct {
	students []student.Student
	teachers []teacher.Teacher

	cursor       int
	showTeachers bool
	loading      bool
	errText      string
}

func newStudentsModel() studentsModel {
	return studentsModel{loading: true}
}

func loadStudents(deps Deps) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), deps.Conf.RequestTimeout)
		defer cancel()
		students, err := deps.API.ListStudents(ctx)
		return studentsLoadedMsg{students: students, err: err}
	}
}

func loadTeachers(deps Deps) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), deps.Conf.RequestTimeout)
		defer cancel()
		teachers, err := deps.API.ListTeachers(ctx)
		return teachersLoadedMsg{teachers: teachers, err: err}
	}
}

func (model Model) updateStudents(message tea.Msg) (Model, tea.Cmd) {
	m := &model.students

	switch message := message.(type) {
	case studentsLoadedMsg:
		m.loading = false
		if message.err != nil {
			m.errText = message.err.Error()
			return model, nil
		}
		m.errText = ""
		m.students = message.students
		m.cursor = clamp(m.cursor, 0, len(m.students)-1)
		return model, nil

	case teachersLoadedMsg:
		m.loading = false
		if message.err != nil {
			m.errText = message.err.Error()
			return model, nil
		}
		m.errText = ""
		m.teachers = message.teachers
		m.showTeachers = true
		m.cursor = 0
		return model, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(message, model.keys.Up):
			m.cursor = clamp(m.cursor-1, 0, m.count()-1)
		case key.Matches(message, model.keys.Down):
			m.cursor = clamp(m.cursor+1, 0, m.count()-1)

		case key.Matches(message, model.keys.Enter):
			if m.showTeachers || m.cursor >= len(m.students) {
				return model, nil
			}
			selected := m.students[m.cursor]
			model.screen = ScreenGrades
			model.grades = newGradesModel(selected)
			return model, loadGrades(model.deps, selected.ID)

		case key.Matches(message, model.keys.Refresh):
			m.loading = true
			if m.showTeachers {
				return model, loadTeachers(model.deps)
			}
			return model, loadStudents(model.deps)

		case key.Matches(message, model.keys.Teachers):
			// Admin-only toggle between the roster and the teacher list.
			sess := model.deps.Sessions.Current()
			if sess == nil || !sess.IsAdmin() {
				return model, nil
			}
			if m.showTeachers {
				m.showTeachers = false
				m.cursor = 0
				return model, nil
			}
			m.loading = true
			return model, loadTeachers(model.deps)

		case key.Matches(message, model.keys.Back):
			if m.showTeachers {
				m.showTeachers = false
				m.cursor = 0
			}
			return model, nil
		}
	}
	return model, nil
}

func (m studentsModel) count() int {
	if m.showTeachers {
		return len(m.teachers)
	}
	return len(m.students)
}

func (model Model) viewStudents() string {
	t := model.theme
	m := model.students

	title := "Students"
	if m.showTeachers {
		title = "Teachers"
	}
	lines := []string{t.Title.Render(title), ""}

	switch {
	case m.loading:
		lines = append(lines, t.Subtitle.Render("loading..."))
	case m.errText != "":
		lines = append(lines, t.Error.Render(m.errText))
	case m.showTeachers:
		if len(m.teachers) == 0 {
			lines = append(lines, t.Subtitle.Render("no teachers registered"))
		}
		for i, tc := range m.teachers {
			row := fmt.Sprintf("%-30s %-20s %s", tc.FullName(), tc.Specialty, tc.Email)
			lines = append(lines, renderRow(t, row, i == m.cursor))
		}
	default:
		if len(m.students) == 0 {
			lines = append(lines, t.Subtitle.Render("no students registered"))
		}
		for i, st := range m.students {
			row := fmt.Sprintf("%-30s %-12s %s", st.FullName(), st.Matricula, st.Email)
			lines = append(lines, renderRow(t, row, i == m.cursor))
		}
	}

	help := "enter: grades · r: refresh · ctrl+l: log out"
	if sess := model.deps.Sessions.Current(); sess != nil && sess.IsAdmin() {
		help = "enter: grades · t: teachers · r: refresh · ctrl+l: log out"
	}
	lines = append(lines, "", t.Help.Render(help))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderRow(t Theme, text string, selected bool) string {
	if selected {
		return t.Selected.Render("> " + text)
	}
	return t.Normal.Render("  " + text)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
