package tui

import (
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uia-acad/notas/client"
	"github.com/uia-acad/notas/core"
	"github.com/uia-acad/notas/core/grading"
	"github.com/uia-acad/notas/core/session"
	"github.com/uia-acad/notas/core/student"
	"github.com/uia-acad/notas/storage/sessionfile"
	testutil "github.com/uia-acad/notas/tests"
)

func newTestDeps(t *testing.T) Deps {
	t.Helper()
	conf := &core.Config{
		AppName:        "Notas",
		APIBaseURL:     "http://localhost:0/api",
		IdleTimeout:    time.Minute,
		RequestTimeout: time.Second,
	}
	store := sessionfile.NewStore(filepath.Join(t.TempDir(), "session.json"))
	sessions := session.NewManager(store, conf, testutil.NopLogger{})
	return Deps{
		Conf:     conf,
		API:      client.New(conf, sessions, testutil.NopLogger{}),
		Sessions: sessions,
		Logger:   testutil.NopLogger{},
	}
}

func signedInModel(t *testing.T, role string) Model {
	t.Helper()
	deps := newTestDeps(t)
	token := testutil.MakeToken(t, 7, "user@test.edu", "User", role)
	_, err := deps.Sessions.Begin(token)
	require.NoError(t, err)

	model := NewModel(deps)
	require.Equal(t, ScreenStudents, model.screen)
	return model
}

func keyMsg(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }

func runeMsg(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func asModel(t *testing.T, m tea.Model) Model {
	t.Helper()
	model, ok := m.(Model)
	require.True(t, ok)
	return model
}

func Test_clamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want int
	}{
		{5, 0, 9, 5},
		{-1, 0, 9, 0},
		{10, 0, 9, 9},
		{3, 0, -1, 0}, // empty range collapses to lo
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, clamp(tt.v, tt.lo, tt.hi))
	}
}

func Test_newModel_startsAtLoginWithoutSession(t *testing.T) {
	model := NewModel(newTestDeps(t))
	assert.Equal(t, ScreenLogin, model.screen)
}

func Test_newModel_restoredSessionSkipsLogin(t *testing.T) {
	model := signedInModel(t, string(grading.RoleTeacher))
	assert.Equal(t, ScreenStudents, model.screen)
}

func Test_sessionEndedReturnsToLogin(t *testing.T) {
	model := signedInModel(t, string(grading.RoleTeacher))

	reason := session.IdleReason(10 * time.Minute)
	next, _ := model.Update(SessionEndedMsg{Reason: reason})
	model = asModel(t, next)

	assert.Equal(t, ScreenLogin, model.screen)
	assert.Equal(t, string(reason), model.notice)

	next, _ = model.Update(noticeFadeMsg{})
	model = asModel(t, next)
	assert.Empty(t, model.notice)
}

func Test_logoutKeyEndsSession(t *testing.T) {
	model := signedInModel(t, string(grading.RoleAdministrator))

	next, _ := model.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	model = asModel(t, next)

	assert.Equal(t, ScreenLogin, model.screen)
	assert.Nil(t, model.deps.Sessions.Current())
	assert.Empty(t, model.notice, "an explicit logout needs no explanation")
}

func Test_keystrokesStampActivity(t *testing.T) {
	model := signedInModel(t, string(grading.RoleTeacher))
	before := model.deps.Sessions.Current().LastActivity

	time.Sleep(5 * time.Millisecond)
	next, _ := model.Update(keyMsg(tea.KeyDown))
	model = asModel(t, next)

	after := model.deps.Sessions.Current().LastActivity
	assert.True(t, after.After(before))
}

func testRecords() []grading.Record {
	records := make([]grading.Record, 0, 13)
	id := 1
	for _, week := range grading.Weeks() {
		records = append(records, grading.Record{ID: id, StudentID: 1, Week: week})
		id++
	}
	return records
}

func gradesScreenModel(t *testing.T, role string) Model {
	t.Helper()
	model := signedInModel(t, role)
	model.screen = ScreenGrades
	model.grades = newGradesModel(student.Student{ID: 1, FirstName: "Ana", LastName: "Pérez", Matricula: "med1"})

	next, _ := model.Update(gradesLoadedMsg{studentID: 1, records: testRecords()})
	return asModel(t, next)
}

func Test_weekNavigationStaysInTerm(t *testing.T) {
	model := gradesScreenModel(t, string(grading.RoleTeacher))
	require.Equal(t, grading.FirstWeek, model.grades.week)

	next, _ := model.Update(keyMsg(tea.KeyLeft))
	model = asModel(t, next)
	assert.Equal(t, grading.FirstWeek, model.grades.week, "cannot navigate before the first week")

	for i := 0; i < 20; i++ {
		next, _ = model.Update(keyMsg(tea.KeyRight))
		model = asModel(t, next)
	}
	assert.Equal(t, grading.LastWeek, model.grades.week, "cannot navigate past the last week")
}

func cursorToField(t *testing.T, model Model, field string) Model {
	t.Helper()
	for i, f := range grading.Fields() {
		if f == field {
			model.grades.cursor = i
			return model
		}
	}
	t.Fatalf("unknown field %q", field)
	return model
}

func Test_startEdit_blockedFieldShowsReason(t *testing.T) {
	model := gradesScreenModel(t, string(grading.RoleTeacher))
	model = cursorToField(t, model, "Simulacion")

	next, _ := model.Update(keyMsg(tea.KeyEnter))
	model = asModel(t, next)

	assert.False(t, model.grades.editing)
	assert.Equal(t, grading.ReasonAdminOnly, model.grades.errText)
}

func Test_startEdit_weekGateBeforeRoleGate(t *testing.T) {
	// An administrator on parcial_i in week 2: blocked with the week
	// reason, week gates always win.
	model := gradesScreenModel(t, string(grading.RoleAdministrator))
	model = cursorToField(t, model, "Parcial_i")

	next, _ := model.Update(keyMsg(tea.KeyEnter))
	model = asModel(t, next)

	assert.False(t, model.grades.editing)
	assert.Equal(t, "only available in week 5", model.grades.errText)
}

func Test_startEdit_adminEditsPartialInItsWeek(t *testing.T) {
	model := gradesScreenModel(t, string(grading.RoleAdministrator))
	model.grades.week = 5
	model = cursorToField(t, model, "Parcial_i")

	next, _ := model.Update(keyMsg(tea.KeyEnter))
	model = asModel(t, next)

	assert.True(t, model.grades.editing)
}

func Test_submitEdit_outOfRangeNeverLeavesTheClient(t *testing.T) {
	// "nan" and "inf" parse as floats, so they must fall to the range
	// check rather than the parse error.
	for _, typed := range []string{"101", "-1", "nan", "inf"} {
		t.Run(typed, func(t *testing.T) {
			model := gradesScreenModel(t, string(grading.RoleTeacher))
			model = cursorToField(t, model, "Quices")

			next, _ := model.Update(keyMsg(tea.KeyEnter))
			model = asModel(t, next)
			require.True(t, model.grades.editing)

			model.grades.input.SetValue(typed)
			next, cmd := model.Update(keyMsg(tea.KeyEnter))
			model = asModel(t, next)

			assert.Nil(t, cmd, "a rejected value must not produce a network command")
			assert.True(t, model.grades.editing, "the edit stays open for correction")
			assert.Equal(t, grading.ErrValueOutOfRange.Error(), model.grades.errText)
			assert.Nil(t, model.grades.pending)
		})
	}
}

func Test_submitEdit_appliesOptimistically(t *testing.T) {
	model := gradesScreenModel(t, string(grading.RoleTeacher))
	model = cursorToField(t, model, "Quices")

	next, _ := model.Update(keyMsg(tea.KeyEnter))
	model = asModel(t, next)
	require.True(t, model.grades.editing)

	model.grades.input.SetValue("85")
	next, cmd := model.Update(keyMsg(tea.KeyEnter))
	model = asModel(t, next)

	assert.NotNil(t, cmd)
	assert.False(t, model.grades.editing)
	record := model.grades.recordForWeek(grading.FirstWeek)
	require.NotNil(t, record)
	assert.Equal(t, 85.0, record.Quices)
	require.NotNil(t, model.grades.pending)
	assert.Equal(t, 0.0, model.grades.pending.prev)
}

func Test_applySaveResult_rejectionRevertsAndRefetches(t *testing.T) {
	model := gradesScreenModel(t, string(grading.RoleTeacher))
	model = cursorToField(t, model, "Quices")

	next, _ := model.Update(keyMsg(tea.KeyEnter))
	model = asModel(t, next)
	model.grades.input.SetValue("85")
	next, _ = model.Update(keyMsg(tea.KeyEnter))
	model = asModel(t, next)

	rejection := &client.ValidationRejection{Detail: "not available this week"}
	next, cmd := model.Update(gradeSavedMsg{err: rejection})
	model = asModel(t, next)

	record := model.grades.recordForWeek(grading.FirstWeek)
	require.NotNil(t, record)
	assert.Equal(t, 0.0, record.Quices, "the optimistic value is rolled back")
	assert.Equal(t, rejection.Error(), model.grades.errText)
	assert.NotNil(t, cmd, "authoritative state is re-fetched")
	assert.True(t, model.grades.loading)
}

func Test_applySaveResult_successLandsAuthoritativeRecord(t *testing.T) {
	model := gradesScreenModel(t, string(grading.RoleTeacher))
	model = cursorToField(t, model, "Quices")

	next, _ := model.Update(keyMsg(tea.KeyEnter))
	model = asModel(t, next)
	model.grades.input.SetValue("85")
	next, _ = model.Update(keyMsg(tea.KeyEnter))
	model = asModel(t, next)

	authoritative := *model.grades.recordForWeek(grading.FirstWeek)
	authoritative.Quices = 85

	next, _ = model.Update(gradeSavedMsg{record: authoritative})
	model = asModel(t, next)

	assert.Nil(t, model.grades.pending)
	assert.Equal(t, 85.0, model.grades.recordForWeek(grading.FirstWeek).Quices)
}

func Test_finalGradeKeyIgnoredForTeachers(t *testing.T) {
	model := gradesScreenModel(t, string(grading.RoleTeacher))

	next, cmd := model.Update(runeMsg('f'))
	model = asModel(t, next)

	assert.Nil(t, cmd)
	assert.Equal(t, overlayNone, model.grades.overlay)
}

func Test_finalGradeOverlayForAdmins(t *testing.T) {
	model := gradesScreenModel(t, string(grading.RoleAdministrator))

	_, cmd := model.Update(runeMsg('f'))
	assert.NotNil(t, cmd, "admins get the final-grade fetch")

	fg := grading.FinalGrade{
		Final: 23.5,
		Breakdown: map[string]grading.BreakdownEntry{
			grading.CodeAsistencia: {Average: 100, Contribution: 10},
			grading.CodeQuices:     {Average: 0, Contribution: 0},
		},
	}
	next, _ := model.Update(finalGradeMsg{fg: fg})
	model = asModel(t, next)
	assert.Equal(t, overlayFinal, model.grades.overlay)

	view := model.viewFinal()
	assert.Contains(t, view, "23.50")
	assert.Contains(t, view, grading.CodeAsistencia)
	assert.NotContains(t, view, grading.CodeQuices, "zero contributions stay hidden")
}

func Test_formatHistoryValue(t *testing.T) {
	v := 12.5
	assert.Equal(t, "12.50", formatHistoryValue(&v))
	assert.Equal(t, "-", formatHistoryValue(nil))
}

func Test_exportPath(t *testing.T) {
	tests := []struct {
		name string
		dl   client.Download
		want string
	}{
		{
			name: "server filename wins",
			dl:   client.Download{Filename: "notas_med2024001.xlsx", ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
			want: "notas_med2024001.xlsx",
		},
		{
			name: "server filename stripped of any directory",
			dl:   client.Download{Filename: "../../notas.xlsx"},
			want: "notas.xlsx",
		},
		{
			name: "spreadsheet content type without a filename",
			dl:   client.Download{ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
			want: "notas_med2024001.xlsx",
		},
		{
			name: "csv content type without a filename",
			dl:   client.Download{ContentType: "text/csv; charset=utf-8"},
			want: "notas_med2024001.csv",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exportPath(tt.dl, "med2024001"))
		})
	}
}
