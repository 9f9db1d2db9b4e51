package mockapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/uia-acad/notas/core/grading"
)

func registerRubricAPI(g *echo.Group, auth echo.MiddlewareFunc, s *server) {
	g.GET("/rubros", s.rubricList, auth)

	wg := g.Group("/rubros-semanales", auth)
	wg.GET("/semana/:n", s.rubricWeek)
	wg.GET("/calendario", s.rubricCalendar)
}

func (s *server) rubricList(ctx echo.Context) error {
	s.db.mutex.RLock()
	rubrics := make([]grading.Rubric, len(s.db.rubrics))
	copy(rubrics, s.db.rubrics)
	s.db.mutex.RUnlock()
	return ctx.JSON(http.StatusOK, rubrics)
}

func (s *server) rubricWeek(ctx echo.Context) error {
	n, err := pathID(ctx, "n")
	if err != nil {
		return err
	}
	week := grading.Week(n)
	if !week.Valid() {
		return errNotFound
	}
	return ctx.JSON(http.StatusOK, grading.WeeklyRubrics{
		Week:    week,
		Rubrics: s.db.activeRubrics(week),
	})
}

func (s *server) rubricCalendar(ctx echo.Context) error {
	weeks := grading.Weeks()
	calendar := make([]grading.WeeklyRubrics, 0, len(weeks))
	for _, week := range weeks {
		calendar = append(calendar, grading.WeeklyRubrics{
			Week:    week,
			Rubrics: s.db.activeRubrics(week),
		})
	}
	return ctx.JSON(http.StatusOK, calendar)
}
