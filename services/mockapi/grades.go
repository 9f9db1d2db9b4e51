package mockapi

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/uia-acad/notas/core"
	"github.com/uia-acad/notas/core/grading"
)

func registerGradeAPI(g *echo.Group, auth echo.MiddlewareFunc, s *server) {
	ng := g.Group("/notas", auth)

	ng.POST("", s.gradeCreate)
	ng.PUT("/:id", s.gradeUpdate)
	ng.POST("/inicializar-semanas/:id", s.gradeInitializeWeeks)
	ng.GET("/estudiante/:id", s.gradeListForStudent)
	ng.GET("/estudiante/:id/calculada", s.gradeFinal)
	ng.GET("/estudiante/:id/export-excel", s.gradeExport)
	ng.GET("/historial/estudiante/:id", s.gradeHistoryForStudent)
	ng.GET("/historial/nota/:id", s.gradeHistoryForGrade)
}

func (s *server) gradeListForStudent(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}

	s.db.mutex.RLock()
	_, ok := s.db.students[id]
	s.db.mutex.RUnlock()
	if !ok {
		return errNotFound
	}
	return ctx.JSON(http.StatusOK, s.db.studentGrades(id))
}

func (s *server) gradeCreate(ctx echo.Context) error {
	rec := new(grading.Record)
	if err := ctx.Bind(rec); err != nil {
		return err
	}
	if !rec.Week.Valid() {
		return core.NewValidationError(nil, core.FieldError{Field: "Semana", Error: "week must be between 2 and 14"})
	}
	for _, field := range grading.Fields() {
		if err := grading.ValidateValue(rec.Value(field)); err != nil {
			return core.NewValidationError(err, core.FieldError{Field: field, Error: err.Error()})
		}
	}

	s.db.mutex.Lock()
	if _, ok := s.db.students[rec.StudentID]; !ok {
		s.db.mutex.Unlock()
		return errNotFound
	}
	for _, existing := range s.db.grades {
		if existing.StudentID == rec.StudentID && existing.Week == rec.Week {
			s.db.mutex.Unlock()
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("week %d already initialized", rec.Week))
		}
	}
	s.db.gradePK++
	rec.ID = s.db.gradePK
	s.db.grades[rec.ID] = rec
	created := *rec
	s.db.mutex.Unlock()

	return ctx.JSON(http.StatusCreated, created)
}

// gradeUpdate applies a partial edit: the payload carries the week plus
// one or more grade fields. Every touched field is range checked and run
// through the editability policy for the caller's role before anything
// is written; each accepted change lands in the audit history.
func (s *server) gradeUpdate(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}

	payload := make(map[string]json.RawMessage)
	if err := json.NewDecoder(ctx.Request().Body).Decode(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	delete(payload, "Semana")
	delete(payload, "Id_nota")
	delete(payload, "Id_estudiante")

	s.db.mutex.Lock()
	defer s.db.mutex.Unlock()

	rec, ok := s.db.grades[id]
	if !ok {
		return errNotFound
	}

	clms := contextClaims(ctx)

	type change struct {
		field    string
		old, new float64
	}
	changes := make([]change, 0, len(payload))
	for field, raw := range payload {
		var value float64
		if err := json.Unmarshal(raw, &value); err != nil {
			return core.NewValidationError(nil, core.FieldError{Field: field, Error: "must be a number"})
		}
		if err := grading.ValidateValue(value); err != nil {
			return core.NewValidationError(err, core.FieldError{Field: field, Error: err.Error()})
		}
		if d := grading.CanEdit(grading.CodeForField(field), rec.Week, clms.Role); !d.Editable {
			return core.NewValidationError(nil, core.FieldError{Field: field, Error: d.Reason})
		}
		changes = append(changes, change{field: field, old: rec.Value(field), new: value})
	}

	for _, ch := range changes {
		if ch.old == ch.new {
			continue
		}
		rec.SetValue(ch.field, ch.new)
		s.db.historyPK++
		old, next := ch.old, ch.new
		s.db.history = append(s.db.history, grading.HistoryEntry{
			ID:          s.db.historyPK,
			GradeID:     rec.ID,
			Field:       ch.field,
			OldValue:    &old,
			NewValue:    &next,
			ModifiedAt:  nowUTC(),
			TeacherName: clms.Name,
		})
	}

	return ctx.JSON(http.StatusOK, *rec)
}

// gradeInitializeWeeks creates an empty record for every term week the
// student does not have yet. Idempotent.
func (s *server) gradeInitializeWeeks(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}

	s.db.mutex.Lock()
	defer s.db.mutex.Unlock()

	if _, ok := s.db.students[id]; !ok {
		return errNotFound
	}

	have := make(map[grading.Week]bool)
	for _, rec := range s.db.grades {
		if rec.StudentID == id {
			have[rec.Week] = true
		}
	}

	created := 0
	for _, week := range grading.Weeks() {
		if have[week] {
			continue
		}
		s.db.gradePK++
		s.db.grades[s.db.gradePK] = &grading.Record{ID: s.db.gradePK, StudentID: id, Week: week}
		created++
	}
	return ctx.JSON(http.StatusOK, echo.Map{"semanas_creadas": created})
}

func (s *server) gradeFinal(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}

	s.db.mutex.RLock()
	_, ok := s.db.students[id]
	s.db.mutex.RUnlock()
	if !ok {
		return errNotFound
	}
	return ctx.JSON(http.StatusOK, s.db.finalGrade(id))
}

// gradeExport renders the student's records as CSV. A stand-in for the
// real spreadsheet export: same endpoint, same download flow, simpler
// bytes.
func (s *server) gradeExport(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}

	s.db.mutex.RLock()
	st, ok := s.db.students[id]
	s.db.mutex.RUnlock()
	if !ok {
		return errNotFound
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := append([]string{"Semana"}, grading.Fields()...)
	_ = w.Write(header)
	for _, rec := range s.db.studentGrades(id) {
		row := []string{strconv.Itoa(int(rec.Week))}
		for _, field := range grading.Fields() {
			row = append(row, strconv.FormatFloat(rec.Value(field), 'f', 2, 64))
		}
		_ = w.Write(row)
	}
	w.Flush()

	ctx.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="notas_%s.csv"`, st.Matricula))
	return ctx.Blob(http.StatusOK, "text/csv", buf.Bytes())
}

func (s *server) gradeHistoryForStudent(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	limit := 50
	if raw := ctx.QueryParam("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	s.db.mutex.RLock()
	defer s.db.mutex.RUnlock()

	if _, ok := s.db.students[id]; !ok {
		return errNotFound
	}

	gradeIDs := make(map[int]bool)
	for gid, rec := range s.db.grades {
		if rec.StudentID == id {
			gradeIDs[gid] = true
		}
	}

	entries := make([]grading.HistoryEntry, 0, limit)
	for _, entry := range s.db.history {
		if gradeIDs[entry.GradeID] {
			entries = append(entries, entry)
		}
	}
	sortHistoryNewestFirst(entries)
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return ctx.JSON(http.StatusOK, entries)
}

func (s *server) gradeHistoryForGrade(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}

	s.db.mutex.RLock()
	defer s.db.mutex.RUnlock()

	if _, ok := s.db.grades[id]; !ok {
		return errNotFound
	}

	entries := make([]grading.HistoryEntry, 0)
	for _, entry := range s.db.history {
		if entry.GradeID == id {
			entries = append(entries, entry)
		}
	}
	sortHistoryNewestFirst(entries)
	return ctx.JSON(http.StatusOK, entries)
}

func sortHistoryNewestFirst(entries []grading.HistoryEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].ModifiedAt.Equal(entries[j].ModifiedAt) {
			return entries[i].ID > entries[j].ID
		}
		return entries[i].ModifiedAt.After(entries[j].ModifiedAt)
	})
}
