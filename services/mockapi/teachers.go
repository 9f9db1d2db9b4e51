package mockapi

import (
	"encoding/json"
	"io"
	"net/http"
	"sort"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/uia-acad/notas/core/teacher"
)

func registerTeacherAPI(g *echo.Group, auth echo.MiddlewareFunc, s *server) {
	tg := g.Group("/profesores", auth)

	tg.GET("", s.teacherList, requireAdmin())
	tg.POST("", s.teacherCreate, requireAdmin())
	tg.GET("/:id", s.teacherRetrieve)
	tg.PUT("/:id", s.teacherUpdate)
	tg.DELETE("/:id", s.teacherDestroy, requireAdmin())
}

// teacherCreated is the creation response: the record plus the generated
// initial password, shown exactly once.
type teacherCreated struct {
	teacher.Teacher
	InitialPassword string `json:"password_inicial"`
}

func (s *server) teacherList(ctx echo.Context) error {
	s.db.mutex.RLock()
	teachers := make([]teacher.Teacher, 0, len(s.db.teachers))
	for _, t := range s.db.teachers {
		teachers = append(teachers, *t)
	}
	s.db.mutex.RUnlock()

	sort.Slice(teachers, func(i, j int) bool { return teachers[i].ID < teachers[j].ID })
	return ctx.JSON(http.StatusOK, teachers)
}

func (s *server) teacherCreate(ctx echo.Context) error {
	data := new(teacher.NewTeacher)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}

	password := uuid.New().String()[:8]
	t := s.db.createTeacher(*data, password)
	return ctx.JSON(http.StatusCreated, teacherCreated{Teacher: t, InitialPassword: password})
}

func (s *server) teacherRetrieve(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}

	s.db.mutex.RLock()
	t, ok := s.db.teachers[id]
	s.db.mutex.RUnlock()
	if !ok {
		return errNotFound
	}
	return ctx.JSON(http.StatusOK, t)
}

// teacherUpdate serves both the admin edit form and the teacher's own
// password change: a body carrying current_password/new_password is
// treated as the latter.
func (s *server) teacherUpdate(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}

	s.db.mutex.RLock()
	orig, ok := s.db.teachers[id]
	s.db.mutex.RUnlock()
	if !ok {
		return errNotFound
	}

	clms := contextClaims(ctx)
	if !clms.Role.IsAdmin() && clms.UserID != changePasswordAccountID(s, orig) {
		return errForbidden
	}

	body, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return err
	}

	cp := new(teacher.ChangePassword)
	if err := json.Unmarshal(body, cp); err == nil && (cp.Current != "" || cp.New != "") {
		return s.teacherChangePassword(ctx, orig, cp)
	}

	if !clms.Role.IsAdmin() {
		return errForbidden
	}

	data := new(teacher.UpdateTeacher)
	if err := json.Unmarshal(body, data); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if err := data.Validate(*orig); err != nil {
		return err
	}

	s.db.mutex.Lock()
	acct := s.db.accountForTeacher(orig)
	orig.FirstName = data.FirstName
	orig.LastName = data.LastName
	orig.Specialty = data.Specialty
	orig.Email = data.Email
	if acct != nil {
		acct.Email = data.Email
		acct.Name = orig.FullName()
		if data.Password != "" {
			acct.Password = data.Password
		}
	}
	updated := *orig
	s.db.mutex.Unlock()

	return ctx.JSON(http.StatusOK, updated)
}

func (s *server) teacherChangePassword(ctx echo.Context, t *teacher.Teacher, cp *teacher.ChangePassword) error {
	if err := cp.Validate(); err != nil {
		return err
	}

	s.db.mutex.Lock()
	defer s.db.mutex.Unlock()

	acct := s.db.accountForTeacher(t)
	if acct == nil {
		return errNotFound
	}
	if acct.Password != cp.Current {
		return echo.NewHTTPError(http.StatusBadRequest, "current password is incorrect")
	}
	acct.Password = cp.New
	return ctx.JSON(http.StatusOK, t)
}

func (s *server) teacherDestroy(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}

	s.db.mutex.Lock()
	defer s.db.mutex.Unlock()
	t, ok := s.db.teachers[id]
	if !ok {
		return errNotFound
	}
	if acct := s.db.accountForTeacher(t); acct != nil {
		delete(s.db.accounts, acct.ID)
	}
	delete(s.db.teachers, id)
	return ctx.NoContent(http.StatusNoContent)
}

func changePasswordAccountID(s *server, t *teacher.Teacher) int {
	s.db.mutex.RLock()
	defer s.db.mutex.RUnlock()
	if acct := s.db.accountForTeacher(t); acct != nil {
		return acct.ID
	}
	return 0
}
