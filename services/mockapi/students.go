package mockapi

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/uia-acad/notas/core"
	"github.com/uia-acad/notas/core/student"
)

func registerStudentAPI(g *echo.Group, auth echo.MiddlewareFunc, s *server) {
	sg := g.Group("/estudiantes", auth)

	sg.GET("", s.studentList)
	sg.POST("", s.studentCreate, requireAdmin())
	sg.POST("/importar", s.studentImport, requireAdmin())
	sg.GET("/:id", s.studentRetrieve)
	sg.PUT("/:id", s.studentUpdate, requireAdmin())
	sg.DELETE("/:id", s.studentDestroy, requireAdmin())
}

func (s *server) studentList(ctx echo.Context) error {
	s.db.mutex.RLock()
	students := make([]student.Student, 0, len(s.db.students))
	for _, st := range s.db.students {
		students = append(students, *st)
	}
	s.db.mutex.RUnlock()

	sort.Slice(students, func(i, j int) bool { return students[i].ID < students[j].ID })
	return ctx.JSON(http.StatusOK, students)
}

func (s *server) studentCreate(ctx echo.Context) error {
	data := new(student.NewStudent)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}

	st, err := s.db.createStudent(*data)
	if err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "Matricula", Error: err.Error()})
	}
	return ctx.JSON(http.StatusCreated, st)
}

func (s *server) studentRetrieve(ctx echo.Context) error {
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
	return ctx.JSON(http.StatusOK, st)
}

func (s *server) studentUpdate(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}

	s.db.mutex.RLock()
	orig, ok := s.db.students[id]
	s.db.mutex.RUnlock()
	if !ok {
		return errNotFound
	}

	data := new(student.UpdateStudent)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(*orig); err != nil {
		return err
	}

	s.db.mutex.Lock()
	orig.FirstName = data.FirstName
	orig.LastName = data.LastName
	orig.Matricula = data.Matricula
	orig.Email = data.Email
	updated := *orig
	s.db.mutex.Unlock()

	return ctx.JSON(http.StatusOK, updated)
}

func (s *server) studentDestroy(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}

	s.db.mutex.Lock()
	defer s.db.mutex.Unlock()
	if _, ok := s.db.students[id]; !ok {
		return errNotFound
	}
	delete(s.db.students, id)
	for gid, rec := range s.db.grades {
		if rec.StudentID == id {
			delete(s.db.grades, gid)
		}
	}
	return ctx.NoContent(http.StatusNoContent)
}

// studentImport parses an uploaded roster CSV with columns
// Nombre,Apellido,Matricula,Email and answers with a per-row outcome
// report. Rows with a matricula already on file are skipped; malformed
// rows are reported as errors. One bad row never aborts the rest.
func (s *server) studentImport(ctx echo.Context) error {
	fh, err := ctx.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	report := student.ImportReport{
		Details: student.ImportDetails{
			Created: []string{},
			Skipped: []string{},
			Errored: []string{},
		},
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	line := 0
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			report.Errored++
			report.Details.Errored = append(report.Details.Errored, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		if line == 1 && looksLikeHeader(row) {
			continue
		}
		if len(row) < 4 {
			report.Errored++
			report.Details.Errored = append(report.Details.Errored, fmt.Sprintf("line %d: expected 4 columns, got %d", line, len(row)))
			continue
		}

		data := student.NewStudent{
			FirstName: row[0],
			LastName:  row[1],
			Matricula: row[2],
			Email:     row[3],
		}
		if err := data.Validate(); err != nil {
			report.Errored++
			report.Details.Errored = append(report.Details.Errored, fmt.Sprintf("line %d: %s", line, importErrorText(err)))
			continue
		}

		if _, err := s.db.createStudent(data); err != nil {
			report.Skipped++
			report.Details.Skipped = append(report.Details.Skipped, data.Matricula)
			continue
		}
		report.Created++
		report.Details.Created = append(report.Details.Created, data.Matricula)
	}

	return ctx.JSON(http.StatusOK, report)
}

func looksLikeHeader(row []string) bool {
	return len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "nombre")
}

func importErrorText(err error) string {
	switch err := err.(type) {
	case validator.ValidationErrors:
		parts := make([]string, 0, len(err))
		for _, vErr := range err {
			parts = append(parts, vErr.Field()+": "+vErr.Translate(core.Translator))
		}
		return strings.Join(parts, "; ")
	case *core.ValidationError:
		parts := make([]string, 0, len(err.Fields))
		for _, f := range err.Fields {
			parts = append(parts, f.Field+": "+f.Error)
		}
		if len(parts) > 0 {
			return strings.Join(parts, "; ")
		}
	}
	return err.Error()
}
