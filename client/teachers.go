package client

import (
	"context"
	"fmt"

	"github.com/uia-acad/notas/core/teacher"
)

func (c *Client) ListTeachers(ctx context.Context) ([]teacher.Teacher, error) {
	var out []teacher.Teacher
	err := c.getJSON(ctx, "/profesores", &out)
	return out, err
}

func (c *Client) GetTeacher(ctx context.Context, id int) (teacher.Teacher, error) {
	var out teacher.Teacher
	err := c.getJSON(ctx, fmt.Sprintf("/profesores/%d", id), &out)
	return out, err
}

func (c *Client) CreateTeacher(ctx context.Context, data teacher.NewTeacher) (teacher.Teacher, error) {
	var out teacher.Teacher
	if err := data.Validate(); err != nil {
		return out, err
	}
	err := c.postJSON(ctx, "/profesores", data, &out)
	return out, err
}

func (c *Client) UpdateTeacher(ctx context.Context, id int, data teacher.UpdateTeacher) (teacher.Teacher, error) {
	var out teacher.Teacher
	err := c.putJSON(ctx, fmt.Sprintf("/profesores/%d", id), data, &out)
	return out, err
}

func (c *Client) DeleteTeacher(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/profesores/%d", id))
}

// ChangeTeacherPassword is the self-service password change from the
// settings screen.
func (c *Client) ChangeTeacherPassword(ctx context.Context, id int, data teacher.ChangePassword) error {
	if err := data.Validate(); err != nil {
		return err
	}
	return c.putJSON(ctx, fmt.Sprintf("/profesores/%d", id), data, nil)
}
