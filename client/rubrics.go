package client

import (
	"context"
	"fmt"

	"github.com/uia-acad/notas/core/grading"
)

func (c *Client) ListRubrics(ctx context.Context) ([]grading.Rubric, error) {
	var out []grading.Rubric
	err := c.getJSON(ctx, "/rubros", &out)
	return out, err
}

// WeekRubrics returns the rubrics active in the given week.
func (c *Client) WeekRubrics(ctx context.Context, week grading.Week) (grading.WeeklyRubrics, error) {
	var out grading.WeeklyRubrics
	err := c.getJSON(ctx, fmt.Sprintf("/rubros-semanales/semana/%d", week), &out)
	return out, err
}

// RubricCalendar returns the whole term's week-by-week rubric plan.
func (c *Client) RubricCalendar(ctx context.Context) ([]grading.WeeklyRubrics, error) {
	var out []grading.WeeklyRubrics
	err := c.getJSON(ctx, "/rubros-semanales/calendario", &out)
	return out, err
}
