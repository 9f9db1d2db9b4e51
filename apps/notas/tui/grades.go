package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/uia-acad/notas/client"
	"github.com/uia-acad/notas/core/grading"
	"github.com/uia-acad/notas/core/student"
)

// gradesOverlay selects which secondary panel sits under the grid.
type gradesOverlay int

const (
	overlayNone gradesOverlay = iota
	overlayFinal
	overlayHistory
)

type pendingEdit struct {
	gradeID int
	field   string
	prev    float64
}

type gradesModel struct {
	student student.Student
	records []grading.Record // one per term week, sorted
	week    grading.Week

	cursor  int // row index into grading.Fields()
	editing bool
	input   textinput.Model
	pending *pendingEdit

	overlay gradesOverlay
	final   grading.FinalGrade
	history []grading.HistoryEntry

	loading bool
	errText string
}

func newGradesModel(st student.Student) gradesModel {
	input := textinput.New()
	input.CharLimit = 6
	input.Width = 8

	return gradesModel{
		student: st,
		week:    grading.FirstWeek,
		input:   input,
		loading: true,
	}
}

func loadGrades(deps Deps, studentID int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), deps.Conf.RequestTimeout)
		defer cancel()
		records, err := deps.API.StudentGrades(ctx, studentID)
		return gradesLoadedMsg{studentID: studentID, records: records, err: err}
	}
}

func initializeWeeks(deps Deps, studentID int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), deps.Conf.RequestTimeout)
		defer cancel()
		return weeksInitializedMsg{err: deps.API.InitializeWeeks(ctx, studentID)}
	}
}

func saveGrade(deps Deps, gradeID int, upd grading.Update) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), deps.Conf.RequestTimeout)
		defer cancel()
		record, err := deps.API.UpdateGrade(ctx, gradeID, upd)
		return gradeSavedMsg{record: record, err: err}
	}
}

func loadFinalGrade(deps Deps, studentID int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), deps.Conf.RequestTimeout)
		defer cancel()
		fg, err := deps.API.FinalGrade(ctx, studentID)
		return finalGradeMsg{fg: fg, err: err}
	}
}

func loadHistory(deps Deps, studentID int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), deps.Conf.RequestTimeout)
		defer cancel()
		entries, err := deps.API.StudentHistory(ctx, studentID, 50)
		return historyMsg{entries: entries, err: err}
	}
}

func exportGrades(deps Deps, st student.Student) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), deps.Conf.RequestTimeout)
		defer cancel()
		dl, err := deps.API.ExportGrades(ctx, st.ID)
		if err != nil {
			return exportDoneMsg{err: err}
		}
		path := exportPath(dl, st.Matricula)
		if err := os.WriteFile(path, dl.Data, 0o644); err != nil {
			return exportDoneMsg{err: err}
		}
		return exportDoneMsg{path: path}
	}
}

// exportPath names the downloaded export. The server's suggested filename
// wins; without one the extension follows the content type, so an xlsx
// payload is never written out as .csv.
func exportPath(dl client.Download, matricula string) string {
	if dl.Filename != "" {
		return filepath.Base(dl.Filename)
	}
	ext := ".xlsx"
	if strings.Contains(dl.ContentType, "csv") {
		ext = ".csv"
	}
	return fmt.Sprintf("notas_%s%s", matricula, ext)
}

func (model Model) updateGrades(message tea.Msg) (Model, tea.Cmd) {
	m := &model.grades

	switch message := message.(type) {
	case gradesLoadedMsg:
		m.loading = false
		if message.err != nil {
			m.errText = message.err.Error()
			return model, nil
		}
		m.errText = ""
		m.records = message.records
		if m.recordForWeek(m.week) == nil && len(m.records) > 0 {
			m.week = m.records[0].Week
		}
		return model, nil

	case weeksInitializedMsg:
		if message.err != nil {
			m.errText = message.err.Error()
			return model, nil
		}
		m.loading = true
		return model, loadGrades(model.deps, m.student.ID)

	case gradeSavedMsg:
		return model.applySaveResult(message)

	case finalGradeMsg:
		if message.err != nil {
			m.errText = message.err.Error()
			return model, nil
		}
		m.final = message.fg
		m.overlay = overlayFinal
		return model, nil

	case historyMsg:
		if message.err != nil {
			m.errText = message.err.Error()
			return model, nil
		}
		m.history = message.entries
		m.overlay = overlayHistory
		return model, nil

	case exportDoneMsg:
		if message.err != nil {
			m.errText = message.err.Error()
			return model, nil
		}
		model.notice = "exported to " + message.path
		return model, fadeNotice()

	case tea.KeyMsg:
		return model.handleGradesKey(message)
	}
	return model, nil
}

func (model Model) handleGradesKey(message tea.KeyMsg) (Model, tea.Cmd) {
	m := &model.grades

	if m.editing {
		switch {
		case key.Matches(message, model.keys.Enter):
			return model.submitEdit()
		case key.Matches(message, model.keys.Back):
			m.editing = false
			m.input.Blur()
			return model, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(message)
		return model, cmd
	}

	switch {
	case key.Matches(message, model.keys.Back):
		if m.overlay != overlayNone {
			m.overlay = overlayNone
			return model, nil
		}
		model.screen = ScreenStudents
		return model, loadStudents(model.deps)

	case key.Matches(message, model.keys.Up):
		m.cursor = clamp(m.cursor-1, 0, len(grading.Fields())-1)
	case key.Matches(message, model.keys.Down):
		m.cursor = clamp(m.cursor+1, 0, len(grading.Fields())-1)

	case key.Matches(message, model.keys.Left):
		if m.week > grading.FirstWeek {
			m.week--
		}
	case key.Matches(message, model.keys.Right):
		if m.week < grading.LastWeek {
			m.week++
		}

	case key.Matches(message, model.keys.Enter):
		return model.startEdit()

	case key.Matches(message, model.keys.Refresh):
		m.loading = true
		return model, loadGrades(model.deps, m.student.ID)

	case key.Matches(message, model.keys.Initialize):
		if len(m.records) == 0 {
			return model, initializeWeeks(model.deps, m.student.ID)
		}

	case key.Matches(message, model.keys.Final):
		sess := model.deps.Sessions.Current()
		if sess != nil && sess.IsAdmin() {
			if m.overlay == overlayFinal {
				m.overlay = overlayNone
				return model, nil
			}
			return model, loadFinalGrade(model.deps, m.student.ID)
		}

	case key.Matches(message, model.keys.History):
		if m.overlay == overlayHistory {
			m.overlay = overlayNone
			return model, nil
		}
		return model, loadHistory(model.deps, m.student.ID)

	case key.Matches(message, model.keys.Export):
		return model, exportGrades(model.deps, m.student)
	}
	return model, nil
}

// startEdit opens the inline value input, but only on a field the
// current role may edit this week.
func (model Model) startEdit() (Model, tea.Cmd) {
	m := &model.grades

	record := m.recordForWeek(m.week)
	if record == nil {
		return model, nil
	}
	field := grading.Fields()[m.cursor]
	if d := model.decisionFor(field); !d.Editable {
		m.errText = d.Reason
		return model, nil
	}

	m.errText = ""
	m.editing = true
	m.input.SetValue(strconv.FormatFloat(record.Value(field), 'f', -1, 64))
	m.input.CursorEnd()
	return model, m.input.Focus()
}

// submitEdit validates the typed value locally, applies it optimistically
// and sends the update. An out-of-range value never leaves the client.
func (model Model) submitEdit() (Model, tea.Cmd) {
	m := &model.grades

	record := m.recordForWeek(m.week)
	if record == nil {
		m.editing = false
		return model, nil
	}
	field := grading.Fields()[m.cursor]

	value, err := strconv.ParseFloat(strings.TrimSpace(m.input.Value()), 64)
	if err != nil {
		m.errText = "enter a number between 0 and 100"
		return model, nil
	}
	if err := grading.ValidateValue(value); err != nil {
		m.errText = err.Error()
		return model, nil
	}

	m.editing = false
	m.input.Blur()
	m.errText = ""

	// Optimistic apply; reverted if the server rejects it.
	m.pending = &pendingEdit{gradeID: record.ID, field: field, prev: record.Value(field)}
	record.SetValue(field, value)

	return model, saveGrade(model.deps, record.ID, grading.Update{
		Week:  record.Week,
		Field: field,
		Value: value,
	})
}

// applySaveResult lands the server's answer: the authoritative record on
// success, a revert plus re-fetch on rejection.
func (model Model) applySaveResult(message gradeSavedMsg) (Model, tea.Cmd) {
	m := &model.grades
	pending := m.pending
	m.pending = nil

	if message.err == nil {
		m.setRecord(message.record)
		return model, nil
	}

	if pending != nil {
		if record := m.recordByID(pending.gradeID); record != nil {
			record.SetValue(pending.field, pending.prev)
		}
	}
	m.errText = message.err.Error()

	// Re-fetch authoritative state after a rejection.
	m.loading = true
	return model, loadGrades(model.deps, m.student.ID)
}

func (m *gradesModel) recordForWeek(week grading.Week) *grading.Record {
	for i := range m.records {
		if m.records[i].Week == week {
			return &m.records[i]
		}
	}
	return nil
}

func (m *gradesModel) recordByID(id int) *grading.Record {
	for i := range m.records {
		if m.records[i].ID == id {
			return &m.records[i]
		}
	}
	return nil
}

func (m *gradesModel) setRecord(record grading.Record) {
	for i := range m.records {
		if m.records[i].ID == record.ID {
			m.records[i] = record
			return
		}
	}
}

func (model Model) decisionFor(field string) grading.Decision {
	role := grading.RoleTeacher
	if sess := model.deps.Sessions.Current(); sess != nil {
		role = sess.Role
	}
	return grading.CanEdit(grading.CodeForField(field), model.grades.week, role)
}

func (model Model) viewGrades() string {
	t := model.theme
	m := model.grades

	lines := []string{
		t.Title.Render(m.student.FullName()) + t.Subtitle.Render("  "+m.student.Matricula),
		t.Subtitle.Render(fmt.Sprintf("week %d of [%d, %d]", m.week, grading.FirstWeek, grading.LastWeek)),
		"",
	}

	switch {
	case m.loading:
		lines = append(lines, t.Subtitle.Render("loading..."))
	case len(m.records) == 0:
		lines = append(lines, t.Subtitle.Render("no grade records yet"), "", t.Help.Render("i: initialize weeks"))
	default:
		lines = append(lines, model.gradeRows()...)
	}

	if m.errText != "" {
		lines = append(lines, "", t.Error.Render(m.errText))
	}

	switch m.overlay {
	case overlayFinal:
		lines = append(lines, "", model.viewFinal())
	case overlayHistory:
		lines = append(lines, "", model.viewHistory())
	}

	help := "←/→: week · enter: edit · h: history · x: export · esc: back"
	if sess := model.deps.Sessions.Current(); sess != nil && sess.IsAdmin() {
		help = "←/→: week · enter: edit · f: final grade · h: history · x: export · esc: back"
	}
	lines = append(lines, "", t.Help.Render(help))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (model Model) gradeRows() []string {
	t := model.theme
	m := model.grades

	record := m.recordForWeek(m.week)
	if record == nil {
		return []string{t.Subtitle.Render("no record for this week")}
	}

	rows := make([]string, 0, len(grading.Fields()))
	for i, field := range grading.Fields() {
		label := fmt.Sprintf("%-12s", field)
		value := fmt.Sprintf("%6.2f", record.Value(field))
		if m.editing && i == m.cursor {
			rows = append(rows, t.Selected.Render("> "+label)+" "+m.input.View())
			continue
		}

		d := model.decisionFor(field)
		row := label + " " + value
		switch {
		case !d.Editable:
			badge := t.Badge.Render(" [" + d.Reason + "]")
			rows = append(rows, renderDisabledRow(t, row, i == m.cursor)+badge)
		default:
			rows = append(rows, renderRow(t, row, i == m.cursor))
		}
	}
	return rows
}

func renderDisabledRow(t Theme, text string, selected bool) string {
	if selected {
		return t.Selected.Render("> " + text)
	}
	return t.Disabled.Render("  " + text)
}

func (model Model) viewFinal() string {
	t := model.theme
	m := model.grades

	lines := []string{t.Title.Render(fmt.Sprintf("Final grade: %.2f", m.final.Final))}
	for _, entry := range m.final.Visible() {
		lines = append(lines, t.Normal.Render(
			fmt.Sprintf("%-12s avg %6.2f  contributes %5.2f", entry.Code, entry.Average, entry.Contribution)))
	}
	if len(m.final.Visible()) == 0 {
		lines = append(lines, t.Subtitle.Render("nothing graded yet"))
	}
	return t.Box.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (model Model) viewHistory() string {
	t := model.theme
	m := model.grades

	lines := []string{t.Title.Render("Recent changes")}
	if len(m.history) == 0 {
		lines = append(lines, t.Subtitle.Render("no changes recorded"))
	}
	for _, entry := range m.history {
		lines = append(lines, t.Normal.Render(fmt.Sprintf(
			"%s  %-12s %s → %s  by %s",
			entry.ModifiedAt.Local().Format("2006-01-02 15:04"),
			entry.Field,
			formatHistoryValue(entry.OldValue),
			formatHistoryValue(entry.NewValue),
			entry.TeacherName,
		)))
	}
	return t.Box.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func formatHistoryValue(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}
