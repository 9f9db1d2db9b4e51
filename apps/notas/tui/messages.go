package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/uia-acad/notas/core/grading"
	"github.com/uia-acad/notas/core/session"
	"github.com/uia-acad/notas/core/student"
	"github.com/uia-acad/notas/core/teacher"
)

// SessionEndedMsg is sent from outside the program (the session
// manager's expiry callback, or the API client's 401 hook) to force a
// return to the login screen.
type SessionEndedMsg struct {
	Reason session.EndReason
}

type loginDoneMsg struct {
	sess *session.Session
	err  error
}

type studentsLoadedMsg struct {
	students []student.Student
	err      error
}

type teachersLoadedMsg struct {
	teachers []teacher.Teacher
	err      error
}

type gradesLoadedMsg struct {
	studentID int
	records   []grading.Record
	err       error
}

type weeksInitializedMsg struct {
	err error
}

// gradeSavedMsg carries the authoritative record the API answered the
// update with, or the rejection.
type gradeSavedMsg struct {
	record grading.Record
	err    error
}

type finalGradeMsg struct {
	fg  grading.FinalGrade
	err error
}

type historyMsg struct {
	entries []grading.HistoryEntry
	err     error
}

type exportDoneMsg struct {
	path string
	err  error
}

type noticeFadeMsg struct{}

const noticeFadeDelay = 5 * time.Second

func fadeNotice() tea.Cmd {
	return tea.Tick(noticeFadeDelay, func(time.Time) tea.Msg {
		return noticeFadeMsg{}
	})
}
